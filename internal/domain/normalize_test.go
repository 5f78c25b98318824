package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trouve-ton-artisan/internal/apperr"
)

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"maison du BOIS":  "Maison Du Bois",
		"  lyon ":         "Lyon",
		"jean-pierre":     "Jean-pierre",
		"au fil de l'eau": "Au Fil De L'eau",
		"":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, TitleCase(in), "TitleCase(%q)", in)
	}
}

func TestLabelCase(t *testing.T) {
	cases := map[string]string{
		"BÂTIMENT":     "Bâtiment",
		" fabrication": "Fabrication",
		"services":     "Services",
		"":             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, LabelCase(in), "LabelCase(%q)", in)
	}
}

func TestCategoryValidate(t *testing.T) {
	c := Category{Name: "bâtiment"}
	c.Normalize()
	assert.Equal(t, "Bâtiment", c.Name)
	assert.NoError(t, c.Validate())

	for _, name := range []string{"x", "Cat3gorie", "Nom; DROP TABLE"} {
		bad := Category{Name: name}
		bad.Normalize()
		assert.True(t, apperr.IsInvalid(bad.Validate()), "name %q", name)
	}
}

func TestSpecialtyValidate(t *testing.T) {
	s := Specialty{Name: "menuiserie / agencement", CategoryID: 1}
	s.Normalize()
	assert.NoError(t, s.Validate())

	missing := Specialty{Name: "Plomberie"}
	assert.True(t, apperr.IsInvalid(missing.Validate()))
}

func TestArtisanNormalize(t *testing.T) {
	a := Artisan{
		CompanyName: "chez MARTIN",
		ContactName: "paul MARTIN",
		Email:       " Paul@Example.FR ",
		City:        "annecy",
	}
	a.Normalize()
	assert.Equal(t, "Chez Martin", a.CompanyName)
	assert.Equal(t, "Paul Martin", a.ContactName)
	assert.Equal(t, "paul@example.fr", a.Email)
	assert.Equal(t, "Annecy", a.City)
}

func TestArtisanValidateBounds(t *testing.T) {
	lat, lon := 45.76, 4.83
	ok := Artisan{
		CompanyName: "Chez Martin",
		Email:       "paul@example.fr",
		Phone:       "04 78 00 00 00",
		PostalCode:  "69001",
		Latitude:    &lat,
		Longitude:   &lon,
		Rating:      4.5,
		Website:     "https://chezmartin.fr",
		SpecialtyID: 1,
	}
	assert.NoError(t, ok.Validate())

	badLat := ok
	v := 91.0
	badLat.Latitude = &v
	assert.True(t, apperr.IsInvalid(badLat.Validate()))

	badRating := ok
	badRating.Rating = -0.1
	assert.True(t, apperr.IsInvalid(badRating.Validate()))

	badSite := ok
	badSite.Website = "chezmartin.fr"
	assert.True(t, apperr.IsInvalid(badSite.Validate()))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a@b.fr"))
	assert.False(t, ValidEmail(""))
	assert.False(t, ValidEmail("a b@b.fr"))
	assert.False(t, ValidEmail("nope"))
}

func TestFormattedAddress(t *testing.T) {
	a := Artisan{Address: "1 rue de la Paix", PostalCode: "69001", City: "Lyon"}
	assert.Equal(t, "1 rue de la Paix, 69001, Lyon", a.FormattedAddress())
	assert.Equal(t, "", (&Artisan{}).FormattedAddress())
}

func TestStarRating(t *testing.T) {
	a := Artisan{Rating: 3.6}
	sr := a.StarRating()
	assert.Equal(t, 3, sr.Full)
	assert.True(t, sr.Half)
	assert.Equal(t, 1, sr.Empty)
}
