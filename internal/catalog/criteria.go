package catalog

import (
	"strings"

	"gorm.io/gorm"

	"trouve-ton-artisan/internal/apperr"
)

// Criteria is the set of independent, optional filters a caller may combine.
// Zero values impose no constraint.
type Criteria struct {
	Text        string
	City        string
	Department  string
	SpecialtyID uint
	CategoryID  uint
	MinRating   float64
}

// criterion is one compiled filter variant. The query engine and the
// aggregator both consume predicates through Scope, so there is exactly one
// notion of "matches" in the system.
type criterion interface {
	apply(tx *gorm.DB) *gorm.DB
}

type textCriterion struct{ needle string }

func (c textCriterion) apply(tx *gorm.DB) *gorm.DB {
	like := "%" + strings.ToLower(c.needle) + "%"
	return tx.Where(
		"LOWER(company_name) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(description) LIKE ?",
		like, like, like,
	)
}

type cityCriterion struct{ needle string }

func (c cityCriterion) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(c.needle)+"%")
}

type departmentCriterion struct{ value string }

func (c departmentCriterion) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where("department = ?", c.value)
}

type specialtyCriterion struct{ id uint }

func (c specialtyCriterion) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where("specialty_id = ?", c.id)
}

// categoryCriterion restricts to artisans whose specialty belongs to the
// category, via the hierarchy subquery.
type categoryCriterion struct {
	id uint
	h  *Hierarchy
}

func (c categoryCriterion) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where("specialty_id IN (?)", c.h.SpecialtyIDsOf(c.id))
}

type minRatingCriterion struct{ min float64 }

func (c minRatingCriterion) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where("rating >= ?", c.min)
}

type featuredCriterion struct{}

func (featuredCriterion) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where("featured = ?", true)
}

// Predicate is the compiled conjunction of a criteria set. Compiling the same
// Criteria always yields an equivalent predicate.
type Predicate struct {
	parts []criterion
}

// Scope applies every criterion to tx. An empty predicate matches everything.
func (p *Predicate) Scope(tx *gorm.DB) *gorm.DB {
	for _, c := range p.parts {
		tx = c.apply(tx)
	}
	return tx
}

// Compile validates the criteria and builds the predicate.
//
// MinRating values at or below zero mean "no constraint"; values above 5 are
// out of range. Text and city inputs are trimmed before matching.
func (h *Hierarchy) Compile(c Criteria) (*Predicate, error) {
	if c.MinRating > 5 {
		return nil, apperr.Invalid("min_rating must be between 0 and 5, got %v", c.MinRating)
	}

	p := &Predicate{}
	if q := strings.TrimSpace(c.Text); q != "" {
		p.parts = append(p.parts, textCriterion{needle: q})
	}
	if city := strings.TrimSpace(c.City); city != "" {
		p.parts = append(p.parts, cityCriterion{needle: city})
	}
	if c.Department != "" {
		p.parts = append(p.parts, departmentCriterion{value: c.Department})
	}
	if c.SpecialtyID != 0 {
		p.parts = append(p.parts, specialtyCriterion{id: c.SpecialtyID})
	}
	if c.CategoryID != 0 {
		p.parts = append(p.parts, categoryCriterion{id: c.CategoryID, h: h})
	}
	if c.MinRating > 0 {
		p.parts = append(p.parts, minRatingCriterion{min: c.MinRating})
	}
	return p, nil
}

// withFeatured returns a copy of p additionally constrained to featured
// artisans.
func (p *Predicate) withFeatured() *Predicate {
	out := &Predicate{parts: make([]criterion, 0, len(p.parts)+1)}
	out.parts = append(out.parts, p.parts...)
	out.parts = append(out.parts, featuredCriterion{})
	return out
}
