package catalog

import (
	"context"

	"gorm.io/gorm"

	"trouve-ton-artisan/internal/apperr"
	"trouve-ton-artisan/internal/domain"
)

// GroupKey selects the breakdown dimension for grouped counts.
type GroupKey string

const (
	GroupByDepartment GroupKey = "department"
	GroupByCategory   GroupKey = "category"
	GroupBySpecialty  GroupKey = "specialty"
)

// UnspecifiedGroup buckets rows whose grouping key has no value, so grouped
// counts always sum to the ungrouped total.
const UnspecifiedGroup = "unspecified"

type GroupCount struct {
	ID    uint   `json:"id,omitempty"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type RatingStats struct {
	Count   int64    `json:"count"`
	Average *float64 `json:"average"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
}

// Aggregator computes counts and rating statistics over the same compiled
// predicates the list endpoints use, so a stats figure can never disagree
// with the listing it sits next to.
type Aggregator struct {
	db *gorm.DB
	h  *Hierarchy
}

func NewAggregator(db *gorm.DB, h *Hierarchy) *Aggregator {
	return &Aggregator{db: db, h: h}
}

// Total counts the artisans matching the predicate.
func (ag *Aggregator) Total(ctx context.Context, p *Predicate) (int64, error) {
	var n int64
	tx := p.Scope(ag.db.WithContext(ctx).Model(&domain.Artisan{}))
	if err := tx.Count(&n).Error; err != nil {
		return 0, apperr.Unavailable("count artisans", err)
	}
	return n, nil
}

// CountBy breaks the filtered total down by the grouping key. The buckets of
// a partitioning key sum to Total for the same predicate.
func (ag *Aggregator) CountBy(ctx context.Context, p *Predicate, key GroupKey) ([]GroupCount, error) {
	tx := p.Scope(ag.db.WithContext(ctx).Model(&domain.Artisan{}))

	var rows []GroupCount
	var err error
	switch key {
	case GroupByDepartment:
		err = tx.
			Select("COALESCE(NULLIF(TRIM(department), ''), ?) AS label, COUNT(*) AS count", UnspecifiedGroup).
			Group("label").
			Order("label ASC").
			Scan(&rows).Error
	case GroupByCategory:
		err = tx.
			Joins("JOIN specialties ON specialties.id = artisans.specialty_id").
			Joins("JOIN categories ON categories.id = specialties.category_id").
			Select("categories.id AS id, categories.name AS label, COUNT(*) AS count").
			Group("categories.id, categories.name").
			Order("categories.name ASC").
			Scan(&rows).Error
	case GroupBySpecialty:
		err = tx.
			Joins("JOIN specialties ON specialties.id = artisans.specialty_id").
			Select("specialties.id AS id, specialties.name AS label, COUNT(*) AS count").
			Group("specialties.id, specialties.name").
			Order("specialties.name ASC").
			Scan(&rows).Error
	default:
		return nil, apperr.Invalid("unknown group key %q", key)
	}
	if err != nil {
		return nil, apperr.Unavailable("grouped count", err)
	}
	return rows, nil
}

// Ratings computes count/avg/min/max of the rating over the filtered set.
// The pointers stay nil on an empty set.
func (ag *Aggregator) Ratings(ctx context.Context, p *Predicate) (RatingStats, error) {
	var out RatingStats
	tx := p.Scope(ag.db.WithContext(ctx).Model(&domain.Artisan{}))
	err := tx.
		Select("COUNT(*) AS count, AVG(rating) AS average, MIN(rating) AS min, MAX(rating) AS max").
		Scan(&out).Error
	if err != nil {
		return RatingStats{}, apperr.Unavailable("rating stats", err)
	}
	return out, nil
}
