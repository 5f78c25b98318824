package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"trouve-ton-artisan/internal/apperr"
	"trouve-ton-artisan/internal/core/cache"
	"trouve-ton-artisan/internal/domain"
)

const (
	statsCacheTTL    = 5 * time.Minute
	featuredCacheTTL = 10 * time.Minute

	categoriesStatsKey = "catalog:categories:stats"
	featuredKeyPrefix  = "catalog:featured:"
)

// Service exposes the catalog read operations. It is stateless: every call
// works from a point-in-time read of the store. The total count and the page
// contents of a listing are two reads without a spanning transaction; under
// concurrent writes they may reflect slightly different instants, which the
// semi-static directory tolerates.
type Service struct {
	db    *gorm.DB
	h     *Hierarchy
	agg   *Aggregator
	cache *cache.Cache // optional
	log   *zap.Logger
}

func NewService(db *gorm.DB, c *cache.Cache, log *zap.Logger) *Service {
	h := NewHierarchy(db)
	return &Service{db: db, h: h, agg: NewAggregator(db, h), cache: c, log: log}
}

func (s *Service) Hierarchy() *Hierarchy   { return s.h }
func (s *Service) Aggregator() *Aggregator { return s.agg }

type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) validate() error {
	if p.Page < 1 {
		return apperr.Invalid("page must be >= 1, got %d", p.Page)
	}
	if p.Limit < 1 {
		return apperr.Invalid("limit must be >= 1, got %d", p.Limit)
	}
	return nil
}

type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNextPage"`
	HasPrev    bool  `json:"hasPrevPage"`
}

func pageInfo(req PageRequest, total int64) PageInfo {
	pages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return PageInfo{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    req.Page < pages,
		HasPrev:    req.Page > 1,
	}
}

// ListArtisans returns one page of the filtered, ordered artisan set together
// with the filtered total. A page past the end yields an empty slice, not an
// error.
func (s *Service) ListArtisans(ctx context.Context, crit Criteria, sort string, req PageRequest) ([]domain.Artisan, PageInfo, error) {
	if err := req.validate(); err != nil {
		return nil, PageInfo{}, err
	}
	order, err := orderClause(sort)
	if err != nil {
		return nil, PageInfo{}, err
	}
	pred, err := s.h.Compile(crit)
	if err != nil {
		return nil, PageInfo{}, err
	}

	total, err := s.agg.Total(ctx, pred)
	if err != nil {
		return nil, PageInfo{}, err
	}

	var items []domain.Artisan
	tx := pred.Scope(s.db.WithContext(ctx).Model(&domain.Artisan{}))
	err = tx.
		Preload("Specialty.Category").
		Order(order).
		Offset((req.Page - 1) * req.Limit).
		Limit(req.Limit).
		Find(&items).Error
	if err != nil {
		return nil, PageInfo{}, apperr.Unavailable("list artisans", err)
	}
	return items, pageInfo(req, total), nil
}

// SearchArtisans is the dedicated free-text search path. It refuses queries
// shorter than two characters; zero results are not an error.
func (s *Service) SearchArtisans(ctx context.Context, text string, limit int) ([]domain.Artisan, error) {
	q := strings.TrimSpace(text)
	if len([]rune(q)) < 2 {
		return nil, apperr.Invalid("search query must contain at least 2 characters")
	}
	if limit < 1 {
		return nil, apperr.Invalid("limit must be >= 1, got %d", limit)
	}
	items, _, err := s.ListArtisans(ctx, Criteria{Text: q}, DefaultSort, PageRequest{Page: 1, Limit: limit})
	return items, err
}

// GetArtisan loads one artisan with its full specialty/category chain.
func (s *Service) GetArtisan(ctx context.Context, id uint) (*domain.Artisan, error) {
	a, _, _, err := s.h.ResolveChain(ctx, id)
	return a, err
}

// ListFeatured returns the "artisans of the month", best rated first.
func (s *Service) ListFeatured(ctx context.Context, limit int) ([]domain.Artisan, error) {
	if limit < 1 {
		return nil, apperr.Invalid("limit must be >= 1, got %d", limit)
	}
	load := func(ctx context.Context) (*[]domain.Artisan, error) {
		pred := (&Predicate{}).withFeatured()
		var items []domain.Artisan
		tx := pred.Scope(s.db.WithContext(ctx).Model(&domain.Artisan{}))
		err := tx.
			Preload("Specialty.Category").
			Order(orderClauses[SortRating]).
			Limit(limit).
			Find(&items).Error
		if err != nil {
			return nil, apperr.Unavailable("list featured artisans", err)
		}
		return &items, nil
	}
	if s.cache == nil {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return *items, nil
	}
	key := fmt.Sprintf("%s%d", featuredKeyPrefix, limit)
	items, err := cache.GetOrLoadJSON(s.cache, ctx, key, featuredCacheTTL, load)
	if err != nil {
		return nil, err
	}
	return *items, nil
}

type CategoryStats struct {
	SpecialtyCount int64 `json:"specialtyCount"`
	ArtisanCount   int64 `json:"artisanCount"`
}

type CategoryView struct {
	ID    uint           `json:"id"`
	Name  string         `json:"name"`
	Stats *CategoryStats `json:"stats,omitempty"`
}

// ListCategories returns every category in alphabetical order, optionally
// with per-category specialty and artisan counts. Counts come through the
// aggregator, so they match the category listing endpoints exactly.
func (s *Service) ListCategories(ctx context.Context, withStats bool) ([]CategoryView, error) {
	if !withStats {
		return s.categoryViews(ctx)
	}
	if s.cache == nil {
		return s.categoryViewsWithStats(ctx)
	}
	out, err := cache.GetOrLoadJSON(s.cache, ctx, categoriesStatsKey, statsCacheTTL,
		func(ctx context.Context) (*[]CategoryView, error) {
			v, err := s.categoryViewsWithStats(ctx)
			if err != nil {
				return nil, err
			}
			return &v, nil
		})
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (s *Service) categoryViews(ctx context.Context) ([]CategoryView, error) {
	var cats []domain.Category
	err := s.db.WithContext(ctx).Order("name ASC").Find(&cats).Error
	if err != nil {
		return nil, apperr.Unavailable("list categories", err)
	}
	out := make([]CategoryView, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryView{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

func (s *Service) categoryViewsWithStats(ctx context.Context) ([]CategoryView, error) {
	views, err := s.categoryViews(ctx)
	if err != nil {
		return nil, err
	}

	artisanCounts, err := s.agg.CountBy(ctx, &Predicate{}, GroupByCategory)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[uint]int64, len(artisanCounts))
	for _, gc := range artisanCounts {
		byCategory[gc.ID] = gc.Count
	}

	var specCounts []GroupCount
	err = s.db.WithContext(ctx).Model(&domain.Specialty{}).
		Select("category_id AS id, COUNT(*) AS count").
		Group("category_id").
		Scan(&specCounts).Error
	if err != nil {
		return nil, apperr.Unavailable("count specialties", err)
	}
	specByCategory := make(map[uint]int64, len(specCounts))
	for _, gc := range specCounts {
		specByCategory[gc.ID] = gc.Count
	}

	for i := range views {
		views[i].Stats = &CategoryStats{
			SpecialtyCount: specByCategory[views[i].ID],
			ArtisanCount:   byCategory[views[i].ID],
		}
	}
	return views, nil
}

type CategoryDetail struct {
	Category    domain.Category `json:"category"`
	Specialties []SpecialtyView `json:"specialties"`
	Stats       CategoryStats   `json:"stats"`
}

// GetCategory loads one category with its specialties and counts.
func (s *Service) GetCategory(ctx context.Context, id uint) (*CategoryDetail, error) {
	var cat domain.Category
	err := s.db.WithContext(ctx).First(&cat, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("category %d not found", id)
	}
	if err != nil {
		return nil, apperr.Unavailable("load category", err)
	}

	specs, err := s.ListSpecialtiesOfCategory(ctx, id, false)
	if err != nil {
		return nil, err
	}

	var artisans int64
	err = s.db.WithContext(ctx).Model(&domain.Artisan{}).
		Where("specialty_id IN (?)", s.h.SpecialtyIDsOf(id)).
		Count(&artisans).Error
	if err != nil {
		return nil, apperr.Unavailable("count artisans of category", err)
	}

	return &CategoryDetail{
		Category:    cat,
		Specialties: specs,
		Stats:       CategoryStats{SpecialtyCount: int64(len(specs)), ArtisanCount: artisans},
	}, nil
}

// FindCategoryByName does an exact lookup after the same normalization the
// write path applies.
func (s *Service) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		return nil, apperr.Invalid("category name must contain at least 2 characters")
	}
	var cat domain.Category
	err := s.db.WithContext(ctx).First(&cat, "name = ?", domain.LabelCase(name)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("category %q not found", name)
	}
	if err != nil {
		return nil, apperr.Unavailable("find category", err)
	}
	return &cat, nil
}

type SpecialtyView struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	ArtisanCount *int64 `json:"artisanCount,omitempty"`
}

// ListSpecialtiesOfCategory lists the category's specialties alphabetically,
// optionally with per-specialty artisan counts.
func (s *Service) ListSpecialtiesOfCategory(ctx context.Context, categoryID uint, withCounts bool) ([]SpecialtyView, error) {
	ok, err := s.h.CategoryExists(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("category %d not found", categoryID)
	}

	var specs []domain.Specialty
	err = s.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("name ASC").
		Find(&specs).Error
	if err != nil {
		return nil, apperr.Unavailable("list specialties", err)
	}

	out := make([]SpecialtyView, 0, len(specs))
	for _, sp := range specs {
		out = append(out, SpecialtyView{ID: sp.ID, Name: sp.Name})
	}
	if !withCounts {
		return out, nil
	}

	counts, err := s.agg.CountBy(ctx, &Predicate{}, GroupBySpecialty)
	if err != nil {
		return nil, err
	}
	bySpec := make(map[uint]int64, len(counts))
	for _, gc := range counts {
		bySpec[gc.ID] = gc.Count
	}
	for i := range out {
		n := bySpec[out[i].ID]
		out[i].ArtisanCount = &n
	}
	return out, nil
}

// ListArtisansOfCategory is ListArtisans additionally constrained to the
// category. The category must exist; an empty result set alone is not
// NotFound.
func (s *Service) ListArtisansOfCategory(ctx context.Context, categoryID uint, crit Criteria, sort string, req PageRequest) ([]domain.Artisan, PageInfo, error) {
	ok, err := s.h.CategoryExists(ctx, categoryID)
	if err != nil {
		return nil, PageInfo{}, err
	}
	if !ok {
		return nil, PageInfo{}, apperr.NotFound("category %d not found", categoryID)
	}
	crit.CategoryID = categoryID
	return s.ListArtisans(ctx, crit, sort, req)
}

type Stats struct {
	Total        int64        `json:"total"`
	ByDepartment []GroupCount `json:"byDepartment"`
	Ratings      RatingStats  `json:"ratings"`
}

// GetStats computes the global directory statistics over the unfiltered set.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	pred := &Predicate{}
	total, err := s.agg.Total(ctx, pred)
	if err != nil {
		return nil, err
	}
	byDept, err := s.agg.CountBy(ctx, pred, GroupByDepartment)
	if err != nil {
		return nil, err
	}
	ratings, err := s.agg.Ratings(ctx, pred)
	if err != nil {
		return nil, err
	}
	return &Stats{Total: total, ByDepartment: byDept, Ratings: ratings}, nil
}

type CategoryOverview struct {
	CategoryCount  int64              `json:"categoryCount"`
	SpecialtyCount int64              `json:"specialtyCount"`
	ArtisanCount   int64              `json:"artisanCount"`
	Breakdown      []CategoryShareRow `json:"breakdown"`
}

type CategoryShareRow struct {
	Category       string `json:"category"`
	SpecialtyCount int64  `json:"specialtyCount"`
	ArtisanCount   int64  `json:"artisanCount"`
	ArtisanShare   int    `json:"artisanSharePercent"`
}

// GetCategoryOverview aggregates the per-category stats into the global
// repartition view, ordered by artisan count descending.
func (s *Service) GetCategoryOverview(ctx context.Context) (*CategoryOverview, error) {
	views, err := s.categoryViewsWithStats(ctx)
	if err != nil {
		return nil, err
	}
	out := &CategoryOverview{CategoryCount: int64(len(views))}
	for _, v := range views {
		out.SpecialtyCount += v.Stats.SpecialtyCount
		out.ArtisanCount += v.Stats.ArtisanCount
	}
	out.Breakdown = make([]CategoryShareRow, 0, len(views))
	for _, v := range views {
		share := 0
		if out.ArtisanCount > 0 {
			share = int(float64(v.Stats.ArtisanCount)/float64(out.ArtisanCount)*100 + 0.5)
		}
		out.Breakdown = append(out.Breakdown, CategoryShareRow{
			Category:       v.Name,
			SpecialtyCount: v.Stats.SpecialtyCount,
			ArtisanCount:   v.Stats.ArtisanCount,
			ArtisanShare:   share,
		})
	}
	sort.SliceStable(out.Breakdown, func(i, j int) bool {
		return out.Breakdown[i].ArtisanCount > out.Breakdown[j].ArtisanCount
	})
	return out, nil
}

// invalidateCaches drops the derived views after a write. Failures are logged
// and swallowed: the cache entries expire on their own TTL anyway.
func (s *Service) invalidateCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, categoriesStatsKey); err != nil {
		s.log.Warn("cache invalidation failed", zap.String("key", categoriesStatsKey), zap.Error(err))
	}
	if err := s.cache.DelByPrefix(ctx, featuredKeyPrefix); err != nil {
		s.log.Warn("cache invalidation failed", zap.String("prefix", featuredKeyPrefix), zap.Error(err))
	}
}
