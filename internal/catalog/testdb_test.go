package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"trouve-ton-artisan/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// one in-memory database per test, one connection so it stays alive
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Category{}, &domain.Specialty{}, &domain.Artisan{}))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewService(db, nil, zap.NewNop()), db
}

// seeded holds the fixture handles the tests reach for by name.
type seeded struct {
	building domain.Category
	services domain.Category

	plumbing    domain.Specialty
	roofing     domain.Specialty
	hairdresser domain.Specialty

	// artisans, keyed by the mnemonic used in the assertions
	auFil   domain.Artisan // Lyon, Rhône, 4.8, featured
	bois    domain.Artisan // Annecy, Haute-Savoie, 4.8
	clim    domain.Artisan // Lyon, Rhône, 3.0
	vapeur  domain.Artisan // Villeurbanne, Rhône, 4.0
	coiffce domain.Artisan // Paris, no department, 4.2, featured
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	require.NoError(t, db.Create(v).Error)
}

// seedCatalog loads a small but complete tree: two categories, three
// specialties, five artisans across three departments (one unset).
func seedCatalog(t *testing.T, db *gorm.DB) seeded {
	t.Helper()
	s := seeded{
		building: domain.Category{Name: "Bâtiment"},
		services: domain.Category{Name: "Services"},
	}
	mustCreate(t, db, &s.building)
	mustCreate(t, db, &s.services)

	s.plumbing = domain.Specialty{Name: "Plomberie", CategoryID: s.building.ID}
	s.roofing = domain.Specialty{Name: "Couverture", CategoryID: s.building.ID}
	s.hairdresser = domain.Specialty{Name: "Coiffure", CategoryID: s.services.ID}
	mustCreate(t, db, &s.plumbing)
	mustCreate(t, db, &s.roofing)
	mustCreate(t, db, &s.hairdresser)

	s.auFil = domain.Artisan{
		CompanyName: "Au Fil De L'eau", Email: "aufil@example.fr",
		City: "Lyon", Department: "Rhône", Rating: 4.8,
		Description: "Plomberie et chauffage", Featured: true,
		SpecialtyID: s.plumbing.ID,
	}
	s.bois = domain.Artisan{
		CompanyName: "Bois Et Formes", Email: "bois@example.fr",
		City: "Annecy", Department: "Haute-Savoie", Rating: 4.8,
		Description: "Charpente traditionnelle",
		SpecialtyID: s.roofing.ID,
	}
	s.clim = domain.Artisan{
		CompanyName: "Clim Express", Email: "clim@example.fr",
		City: "Lyon", Department: "Rhône", Rating: 3.0,
		Description: "Climatisation et froid",
		SpecialtyID: s.plumbing.ID,
	}
	s.vapeur = domain.Artisan{
		CompanyName: "Vapeur Douce", Email: "vapeur@example.fr",
		City: "Villeurbanne", Department: "Rhône", Rating: 4.0,
		Description: "Nettoyage vapeur",
		SpecialtyID: s.plumbing.ID,
	}
	s.coiffce = domain.Artisan{
		CompanyName: "Dupont Coiffure", Email: "dupont@example.fr",
		City: "Paris", Rating: 4.2,
		Description: "Salon de coiffure", Featured: true,
		SpecialtyID: s.hairdresser.ID,
	}
	mustCreate(t, db, &s.auFil)
	mustCreate(t, db, &s.bois)
	mustCreate(t, db, &s.clim)
	mustCreate(t, db, &s.vapeur)
	mustCreate(t, db, &s.coiffce)
	return s
}

func companyNames(items []domain.Artisan) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.CompanyName)
	}
	return out
}
