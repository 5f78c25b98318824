package domain

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"trouve-ton-artisan/internal/apperr"
)

// Normalization and validation run explicitly on the write path, before any
// row hits the store. The store's unique indexes remain the authority on
// uniqueness; these checks only cover shape and ranges.

var (
	labelCharset     = regexp.MustCompile(`^[A-Za-zÀ-ÿ\s\-']+$`)
	specialtyCharset = regexp.MustCompile(`^[A-Za-zÀ-ÿ\s\-'/]+$`)
	phonePattern     = regexp.MustCompile(`^[\d\s.\-()+]{10,20}$`)
	postalPattern    = regexp.MustCompile(`^\d{5}$`)
)

// TitleCase uppercases the first letter of every space-separated word and
// lowercases the rest ("maison du BOIS" -> "Maison Du Bois").
func TitleCase(s string) string {
	words := strings.Split(strings.TrimSpace(s), " ")
	for i, w := range words {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		r[0] = unicode.ToUpper(r[0])
		for j := 1; j < len(r); j++ {
			r[j] = unicode.ToLower(r[j])
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// LabelCase trims and capitalizes only the first letter, the historical
// normalization for category and specialty names.
func LabelCase(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	for i := 1; i < len(r); i++ {
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

func (c *Category) Normalize() { c.Name = LabelCase(c.Name) }

func (c *Category) Validate() error {
	if n := len([]rune(c.Name)); n < 2 || n > 100 {
		return apperr.Invalid("category name must be 2-100 characters")
	}
	if !labelCharset.MatchString(c.Name) {
		return apperr.Invalid("category name may only contain letters, spaces, hyphens and apostrophes")
	}
	return nil
}

func (s *Specialty) Normalize() { s.Name = LabelCase(s.Name) }

func (s *Specialty) Validate() error {
	if n := len([]rune(s.Name)); n < 2 || n > 100 {
		return apperr.Invalid("specialty name must be 2-100 characters")
	}
	if !specialtyCharset.MatchString(s.Name) {
		return apperr.Invalid("specialty name may only contain letters, spaces, hyphens, apostrophes and slashes")
	}
	if s.CategoryID == 0 {
		return apperr.Invalid("specialty requires a category")
	}
	return nil
}

func (a *Artisan) Normalize() {
	a.CompanyName = TitleCase(a.CompanyName)
	if a.ContactName != "" {
		a.ContactName = TitleCase(a.ContactName)
	}
	if a.City != "" {
		a.City = TitleCase(a.City)
	}
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
}

func (a *Artisan) Validate() error {
	if n := len([]rune(a.CompanyName)); n < 2 || n > 200 {
		return apperr.Invalid("company name must be 2-200 characters")
	}
	if a.ContactName != "" {
		if n := len([]rune(a.ContactName)); n < 2 || n > 100 {
			return apperr.Invalid("contact name must be 2-100 characters")
		}
	}
	if !ValidEmail(a.Email) {
		return apperr.Invalid("email address %q is not valid", a.Email)
	}
	if a.Phone != "" && !phonePattern.MatchString(a.Phone) {
		return apperr.Invalid("phone number %q is not valid", a.Phone)
	}
	if a.PostalCode != "" && !postalPattern.MatchString(a.PostalCode) {
		return apperr.Invalid("postal code must be 5 digits")
	}
	if a.Latitude != nil && (*a.Latitude < -90 || *a.Latitude > 90) {
		return apperr.Invalid("latitude must be between -90 and 90")
	}
	if a.Longitude != nil && (*a.Longitude < -180 || *a.Longitude > 180) {
		return apperr.Invalid("longitude must be between -180 and 180")
	}
	if a.Rating < 0 || a.Rating > 5 {
		return apperr.Invalid("rating must be between 0 and 5")
	}
	if len([]rune(a.Description)) > 2000 {
		return apperr.Invalid("description may not exceed 2000 characters")
	}
	if a.Website != "" && !validURL(a.Website) {
		return apperr.Invalid("website URL %q is not valid", a.Website)
	}
	if a.SpecialtyID == 0 {
		return apperr.Invalid("artisan requires a specialty")
	}
	return nil
}

func ValidEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
