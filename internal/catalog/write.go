package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"trouve-ton-artisan/internal/apperr"
	"trouve-ton-artisan/internal/domain"
)

// Writes are single-row operations. Normalization and shape validation run
// here, before the store; uniqueness stays with the store's indexes so there
// is no check-then-write race. A violated index surfaces as Conflict and
// leaves the existing row untouched.

// isDupKey matches the driver-specific unique violation messages without
// depending on gorm.ErrDuplicatedKey, which varies across driver versions.
func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	cat := domain.Category{Name: name}
	cat.Normalize()
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		if isDupKey(err) {
			return nil, apperr.Conflict("category %q already exists", cat.Name)
		}
		return nil, apperr.Unavailable("create category", err)
	}
	s.invalidateCaches(ctx)
	return &cat, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id uint, name string) (*domain.Category, error) {
	var cat domain.Category
	err := s.db.WithContext(ctx).First(&cat, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("category %d not found", id)
	}
	if err != nil {
		return nil, apperr.Unavailable("load category", err)
	}
	cat.Name = name
	cat.Normalize()
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(&cat).Error; err != nil {
		if isDupKey(err) {
			return nil, apperr.Conflict("category %q already exists", cat.Name)
		}
		return nil, apperr.Unavailable("update category", err)
	}
	s.invalidateCaches(ctx)
	return &cat, nil
}

// DeleteCategory removes the category and cascades to its specialties. The
// cascade is refused while any artisan still references one of them: those
// must be reassigned or deleted first.
func (s *Service) DeleteCategory(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat domain.Category
		if err := tx.First(&cat, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("category %d not found", id)
			}
			return apperr.Unavailable("load category", err)
		}

		var artisans int64
		err := tx.Model(&domain.Artisan{}).
			Where("specialty_id IN (?)", tx.Model(&domain.Specialty{}).Select("id").Where("category_id = ?", id)).
			Count(&artisans).Error
		if err != nil {
			return apperr.Unavailable("count artisans of category", err)
		}
		if artisans > 0 {
			return apperr.Conflict("category %d still has %d artisan(s); reassign or delete them first", id, artisans)
		}

		if err := tx.Where("category_id = ?", id).Delete(&domain.Specialty{}).Error; err != nil {
			return apperr.Unavailable("delete specialties of category", err)
		}
		if err := tx.Delete(&domain.Category{}, "id = ?", id).Error; err != nil {
			return apperr.Unavailable("delete category", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateCaches(ctx)
	return nil
}

func (s *Service) CreateSpecialty(ctx context.Context, name string, categoryID uint) (*domain.Specialty, error) {
	sp := domain.Specialty{Name: name, CategoryID: categoryID}
	sp.Normalize()
	if err := sp.Validate(); err != nil {
		return nil, err
	}
	ok, err := s.h.CategoryExists(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("category %d not found", categoryID)
	}
	if err := s.db.WithContext(ctx).Create(&sp).Error; err != nil {
		if isDupKey(err) {
			return nil, apperr.Conflict("specialty %q already exists in category %d", sp.Name, categoryID)
		}
		return nil, apperr.Unavailable("create specialty", err)
	}
	s.invalidateCaches(ctx)
	return &sp, nil
}

func (s *Service) UpdateSpecialty(ctx context.Context, id uint, name string) (*domain.Specialty, error) {
	var sp domain.Specialty
	err := s.db.WithContext(ctx).First(&sp, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("specialty %d not found", id)
	}
	if err != nil {
		return nil, apperr.Unavailable("load specialty", err)
	}
	sp.Name = name
	sp.Normalize()
	if err := sp.Validate(); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(&sp).Error; err != nil {
		if isDupKey(err) {
			return nil, apperr.Conflict("specialty %q already exists in category %d", sp.Name, sp.CategoryID)
		}
		return nil, apperr.Unavailable("update specialty", err)
	}
	s.invalidateCaches(ctx)
	return &sp, nil
}

// DeleteSpecialty is restricted while artisans reference the specialty.
func (s *Service) DeleteSpecialty(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sp domain.Specialty
		if err := tx.First(&sp, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("specialty %d not found", id)
			}
			return apperr.Unavailable("load specialty", err)
		}
		var artisans int64
		if err := tx.Model(&domain.Artisan{}).Where("specialty_id = ?", id).Count(&artisans).Error; err != nil {
			return apperr.Unavailable("count artisans of specialty", err)
		}
		if artisans > 0 {
			return apperr.Conflict("specialty %d still has %d artisan(s)", id, artisans)
		}
		if err := tx.Delete(&domain.Specialty{}, "id = ?", id).Error; err != nil {
			return apperr.Unavailable("delete specialty", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateCaches(ctx)
	return nil
}

// CreateArtisan inserts a new artisan. An email already in use is Conflict;
// the existing row is left unchanged.
func (s *Service) CreateArtisan(ctx context.Context, in domain.Artisan) (*domain.Artisan, error) {
	in.ID = 0
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkSpecialty(ctx, in.SpecialtyID); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&in).Error; err != nil {
		if isDupKey(err) {
			return nil, apperr.Conflict("email %q is already in use", in.Email)
		}
		return nil, apperr.Unavailable("create artisan", err)
	}
	s.invalidateCaches(ctx)
	return &in, nil
}

// UpsertArtisanByEmail creates the artisan or, when the (normalized) email is
// already present, overwrites the existing row's mutable fields. Returns
// whether a row was created.
func (s *Service) UpsertArtisanByEmail(ctx context.Context, in domain.Artisan) (*domain.Artisan, bool, error) {
	in.ID = 0
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, false, err
	}
	if err := s.checkSpecialty(ctx, in.SpecialtyID); err != nil {
		return nil, false, err
	}

	var out domain.Artisan
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Artisan
		err := tx.First(&existing, "email = ?", in.Email).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if e := tx.Create(&in).Error; e != nil {
				if isDupKey(e) {
					// Lost a concurrent insert race; the row exists now.
					return apperr.Conflict("email %q is already in use", in.Email)
				}
				return apperr.Unavailable("create artisan", e)
			}
			created = true
			out = in
			return nil
		case err != nil:
			return apperr.Unavailable("find artisan by email", err)
		default:
			in.ID = existing.ID
			in.CreatedAt = existing.CreatedAt
			if e := tx.Save(&in).Error; e != nil {
				return apperr.Unavailable("update artisan", e)
			}
			out = in
			return nil
		}
	})
	if err != nil {
		return nil, false, err
	}
	s.invalidateCaches(ctx)
	return &out, created, nil
}

func (s *Service) UpdateArtisan(ctx context.Context, id uint, in domain.Artisan) (*domain.Artisan, error) {
	var existing domain.Artisan
	err := s.db.WithContext(ctx).First(&existing, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("artisan %d not found", id)
	}
	if err != nil {
		return nil, apperr.Unavailable("load artisan", err)
	}
	in.ID = existing.ID
	in.CreatedAt = existing.CreatedAt
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkSpecialty(ctx, in.SpecialtyID); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(&in).Error; err != nil {
		if isDupKey(err) {
			return nil, apperr.Conflict("email %q is already in use", in.Email)
		}
		return nil, apperr.Unavailable("update artisan", err)
	}
	s.invalidateCaches(ctx)
	return &in, nil
}

func (s *Service) DeleteArtisan(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Artisan{}, "id = ?", id)
	if res.Error != nil {
		return apperr.Unavailable("delete artisan", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("artisan %d not found", id)
	}
	s.invalidateCaches(ctx)
	return nil
}

// SetFeatured flips the "artisan of the month" flag.
func (s *Service) SetFeatured(ctx context.Context, id uint, featured bool) error {
	res := s.db.WithContext(ctx).Model(&domain.Artisan{}).
		Where("id = ?", id).
		Update("featured", featured)
	if res.Error != nil {
		return apperr.Unavailable("set featured", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("artisan %d not found", id)
	}
	s.invalidateCaches(ctx)
	return nil
}

func (s *Service) checkSpecialty(ctx context.Context, specialtyID uint) error {
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.Specialty{}).
		Where("id = ?", specialtyID).
		Count(&n).Error
	if err != nil {
		return apperr.Unavailable("check specialty", err)
	}
	if n == 0 {
		return apperr.NotFound("specialty %d not found", specialtyID)
	}
	return nil
}
