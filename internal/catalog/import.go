package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trouve-ton-artisan/internal/apperr"
	"trouve-ton-artisan/internal/domain"
)

// Bulk import applies a whole category tree in one transaction: either the
// whole payload lands or none of it does. Categories and specialties are
// matched by normalized name, artisans by email.

type ImportArtisan struct {
	CompanyName string   `json:"companyName"`
	ContactName string   `json:"contactName"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Address     string   `json:"address"`
	PostalCode  string   `json:"postalCode"`
	City        string   `json:"city"`
	Department  string   `json:"department"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Rating      float64  `json:"rating"`
	Description string   `json:"description"`
	Website     string   `json:"website"`
	ImageURL    string   `json:"imageUrl"`
	Featured    bool     `json:"featured"`
}

type ImportSpecialty struct {
	Name     string          `json:"name"`
	Artisans []ImportArtisan `json:"artisans"`
}

type ImportCategory struct {
	Name        string            `json:"name"`
	Specialties []ImportSpecialty `json:"specialties"`
}

type ImportSummary struct {
	Categories      int `json:"categories"`
	Specialties     int `json:"specialties"`
	ArtisansCreated int `json:"artisansCreated"`
	ArtisansUpdated int `json:"artisansUpdated"`
}

// Import upserts the payload top-down. Validation failures roll the whole
// transaction back and report the offending entity.
func (s *Service) Import(ctx context.Context, payload []ImportCategory) (*ImportSummary, error) {
	sum := &ImportSummary{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ic := range payload {
			cat := domain.Category{Name: ic.Name}
			cat.Normalize()
			if err := cat.Validate(); err != nil {
				return err
			}
			if err := firstOrCreateCategory(tx, &cat); err != nil {
				return err
			}
			sum.Categories++

			for _, is := range ic.Specialties {
				sp := domain.Specialty{Name: is.Name, CategoryID: cat.ID}
				sp.Normalize()
				if err := sp.Validate(); err != nil {
					return err
				}
				if err := firstOrCreateSpecialty(tx, &sp); err != nil {
					return err
				}
				sum.Specialties++

				for _, ia := range is.Artisans {
					a := domain.Artisan{
						CompanyName: ia.CompanyName,
						ContactName: ia.ContactName,
						Email:       ia.Email,
						Phone:       ia.Phone,
						Address:     ia.Address,
						PostalCode:  ia.PostalCode,
						City:        ia.City,
						Department:  ia.Department,
						Latitude:    ia.Latitude,
						Longitude:   ia.Longitude,
						Rating:      ia.Rating,
						Description: ia.Description,
						Website:     ia.Website,
						ImageURL:    ia.ImageURL,
						Featured:    ia.Featured,
						SpecialtyID: sp.ID,
					}
					a.Normalize()
					if err := a.Validate(); err != nil {
						return err
					}
					created, err := upsertArtisan(tx, &a)
					if err != nil {
						return err
					}
					if created {
						sum.ArtisansCreated++
					} else {
						sum.ArtisansUpdated++
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateCaches(ctx)
	return sum, nil
}

func firstOrCreateCategory(tx *gorm.DB, cat *domain.Category) error {
	var existing domain.Category
	err := tx.First(&existing, "name = ?", cat.Name).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if e := tx.Create(cat).Error; e != nil {
			return apperr.Unavailable("import category", e)
		}
		return nil
	case err != nil:
		return apperr.Unavailable("find category", err)
	default:
		*cat = existing
		return nil
	}
}

func firstOrCreateSpecialty(tx *gorm.DB, sp *domain.Specialty) error {
	var existing domain.Specialty
	err := tx.First(&existing, "name = ? AND category_id = ?", sp.Name, sp.CategoryID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if e := tx.Create(sp).Error; e != nil {
			return apperr.Unavailable("import specialty", e)
		}
		return nil
	case err != nil:
		return apperr.Unavailable("find specialty", err)
	default:
		*sp = existing
		return nil
	}
}

func upsertArtisan(tx *gorm.DB, a *domain.Artisan) (bool, error) {
	var existing domain.Artisan
	err := tx.First(&existing, "email = ?", a.Email).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if e := tx.Create(a).Error; e != nil {
			return false, apperr.Unavailable("import artisan", e)
		}
		return true, nil
	case err != nil:
		return false, apperr.Unavailable("find artisan", err)
	default:
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
		if e := tx.Save(a).Error; e != nil {
			return false, apperr.Unavailable("import artisan", e)
		}
		return false, nil
	}
}
