package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trouve-ton-artisan/internal/apperr"
	"trouve-ton-artisan/internal/domain"
)

func importPayload() []ImportCategory {
	return []ImportCategory{
		{
			Name: "bâtiment",
			Specialties: []ImportSpecialty{
				{
					Name: "plomberie",
					Artisans: []ImportArtisan{
						{CompanyName: "au fil de l'eau", Email: "aufil@example.fr", City: "lyon", Department: "Rhône", Rating: 4.8},
						{CompanyName: "clim express", Email: "clim@example.fr", City: "lyon", Department: "Rhône", Rating: 3.0},
					},
				},
				{Name: "couverture"},
			},
		},
		{
			Name: "services",
			Specialties: []ImportSpecialty{
				{
					Name: "coiffure",
					Artisans: []ImportArtisan{
						{CompanyName: "dupont coiffure", Email: "dupont@example.fr", City: "paris", Rating: 4.2},
					},
				},
			},
		},
	}
}

func TestImportFreshTree(t *testing.T) {
	svc, db := newTestService(t)

	sum, err := svc.Import(context.Background(), importPayload())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Categories)
	assert.Equal(t, 3, sum.Specialties)
	assert.Equal(t, 3, sum.ArtisansCreated)
	assert.Equal(t, 0, sum.ArtisansUpdated)

	// names land normalized
	var cat domain.Category
	require.NoError(t, db.First(&cat, "name = ?", "Bâtiment").Error)
	var a domain.Artisan
	require.NoError(t, db.First(&a, "email = ?", "aufil@example.fr").Error)
	assert.Equal(t, "Au Fil De L'eau", a.CompanyName)
	assert.Equal(t, "Lyon", a.City)
}

func TestImportIsIdempotentOnNames(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, importPayload())
	require.NoError(t, err)

	payload := importPayload()
	payload[0].Specialties[0].Artisans[0].Rating = 4.9 // touched on re-import
	sum, err := svc.Import(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.ArtisansCreated)
	assert.Equal(t, 3, sum.ArtisansUpdated)

	var cats, specs, artisans int64
	require.NoError(t, db.Model(&domain.Category{}).Count(&cats).Error)
	require.NoError(t, db.Model(&domain.Specialty{}).Count(&specs).Error)
	require.NoError(t, db.Model(&domain.Artisan{}).Count(&artisans).Error)
	assert.EqualValues(t, 2, cats)
	assert.EqualValues(t, 3, specs)
	assert.EqualValues(t, 3, artisans)

	var a domain.Artisan
	require.NoError(t, db.First(&a, "email = ?", "aufil@example.fr").Error)
	assert.InDelta(t, 4.9, a.Rating, 0.001)
}

func TestImportRollsBackOnInvalidEntity(t *testing.T) {
	svc, db := newTestService(t)

	payload := importPayload()
	payload[1].Specialties[0].Artisans[0].Email = "broken" // fails validation
	_, err := svc.Import(context.Background(), payload)
	assert.True(t, apperr.IsInvalid(err))

	// nothing from the payload may have landed
	var cats, artisans int64
	require.NoError(t, db.Model(&domain.Category{}).Count(&cats).Error)
	require.NoError(t, db.Model(&domain.Artisan{}).Count(&artisans).Error)
	assert.EqualValues(t, 0, cats)
	assert.EqualValues(t, 0, artisans)
}
