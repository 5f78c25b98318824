package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trouve-ton-artisan/internal/apperr"
	"trouve-ton-artisan/internal/domain"
)

// Hierarchy is a read-only view over the artisan -> specialty -> category
// tree. It owns the subqueries that every category- or specialty-constrained
// filter reuses, so the join logic lives in one place.
type Hierarchy struct {
	db *gorm.DB
}

func NewHierarchy(db *gorm.DB) *Hierarchy { return &Hierarchy{db: db} }

// ResolveChain loads an artisan together with its specialty and category.
// A missing artisan is NotFound; a dangling specialty or category reference
// would violate the tree invariant and is reported as an internal error.
func (h *Hierarchy) ResolveChain(ctx context.Context, artisanID uint) (*domain.Artisan, *domain.Specialty, *domain.Category, error) {
	var a domain.Artisan
	err := h.db.WithContext(ctx).
		Preload("Specialty.Category").
		First(&a, "id = ?", artisanID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil, apperr.NotFound("artisan %d not found", artisanID)
	}
	if err != nil {
		return nil, nil, nil, apperr.Unavailable("load artisan", err)
	}
	if a.Specialty == nil {
		return nil, nil, nil, apperr.Internal("artisan has a dangling specialty reference", nil)
	}
	if a.Specialty.Category == nil {
		return nil, nil, nil, apperr.Internal("specialty has a dangling category reference", nil)
	}
	return &a, a.Specialty, a.Specialty.Category, nil
}

// SpecialtyIDsOf yields the id set of the category's specialties as a
// subquery, usable inside an IN clause without a round trip.
func (h *Hierarchy) SpecialtyIDsOf(categoryID uint) *gorm.DB {
	return h.db.Model(&domain.Specialty{}).
		Select("id").
		Where("category_id = ?", categoryID)
}

// ArtisanIDsUnderCategory yields the id set of every artisan in the
// category's subtree as a subquery.
func (h *Hierarchy) ArtisanIDsUnderCategory(categoryID uint) *gorm.DB {
	return h.db.Model(&domain.Artisan{}).
		Select("id").
		Where("specialty_id IN (?)", h.SpecialtyIDsOf(categoryID))
}

// ArtisanIDsUnderSpecialty yields the id set of the specialty's artisans as
// a subquery.
func (h *Hierarchy) ArtisanIDsUnderSpecialty(specialtyID uint) *gorm.DB {
	return h.db.Model(&domain.Artisan{}).
		Select("id").
		Where("specialty_id = ?", specialtyID)
}

// CategoryExists reports whether the category is present.
func (h *Hierarchy) CategoryExists(ctx context.Context, categoryID uint) (bool, error) {
	var n int64
	err := h.db.WithContext(ctx).Model(&domain.Category{}).
		Where("id = ?", categoryID).
		Count(&n).Error
	if err != nil {
		return false, apperr.Unavailable("check category", err)
	}
	return n > 0, nil
}
