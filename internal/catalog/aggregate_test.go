package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trouve-ton-artisan/internal/apperr"
)

func TestCountByDepartmentSumsToTotal(t *testing.T) {
	svc, db := newTestService(t)
	seedCatalog(t, db)
	ctx := context.Background()
	agg := svc.Aggregator()

	pred := &Predicate{}
	total, err := agg.Total(ctx, pred)
	require.NoError(t, err)

	rows, err := agg.CountBy(ctx, pred, GroupByDepartment)
	require.NoError(t, err)

	var sum int64
	byLabel := map[string]int64{}
	for _, r := range rows {
		sum += r.Count
		byLabel[r.Label] = r.Count
	}
	assert.Equal(t, total, sum, "department buckets must partition the total")
	assert.EqualValues(t, 3, byLabel["Rhône"])
	assert.EqualValues(t, 1, byLabel["Haute-Savoie"])
	assert.EqualValues(t, 1, byLabel[UnspecifiedGroup], "empty departments land in the unspecified bucket")
}

func TestCountByRespectsPredicate(t *testing.T) {
	svc, db := newTestService(t)
	seedCatalog(t, db)
	ctx := context.Background()

	pred, err := svc.Hierarchy().Compile(Criteria{MinRating: 4.0})
	require.NoError(t, err)

	rows, err := svc.Aggregator().CountBy(ctx, pred, GroupByDepartment)
	require.NoError(t, err)
	byLabel := map[string]int64{}
	for _, r := range rows {
		byLabel[r.Label] = r.Count
	}
	// the 3.0-rated Lyon artisan drops out of the Rhône bucket
	assert.EqualValues(t, 2, byLabel["Rhône"])
}

func TestCountByCategoryAndSpecialty(t *testing.T) {
	svc, db := newTestService(t)
	seedCatalog(t, db)
	ctx := context.Background()
	agg := svc.Aggregator()

	cats, err := agg.CountBy(ctx, &Predicate{}, GroupByCategory)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Bâtiment", cats[0].Label)
	assert.EqualValues(t, 4, cats[0].Count)

	specs, err := agg.CountBy(ctx, &Predicate{}, GroupBySpecialty)
	require.NoError(t, err)
	var sum int64
	for _, r := range specs {
		sum += r.Count
	}
	assert.EqualValues(t, 5, sum)

	_, err = agg.CountBy(ctx, &Predicate{}, GroupKey("postal_code"))
	assert.True(t, apperr.IsInvalid(err))
}

func TestRatings(t *testing.T) {
	svc, db := newTestService(t)
	seedCatalog(t, db)
	ctx := context.Background()
	agg := svc.Aggregator()

	stats, err := agg.Ratings(ctx, &Predicate{})
	require.NoError(t, err)
	assert.EqualValues(t, 5, stats.Count)
	require.NotNil(t, stats.Min)
	require.NotNil(t, stats.Max)
	require.NotNil(t, stats.Average)
	assert.InDelta(t, 3.0, *stats.Min, 0.001)
	assert.InDelta(t, 4.8, *stats.Max, 0.001)
	assert.InDelta(t, (4.8+4.8+3.0+4.0+4.2)/5, *stats.Average, 0.001)
}

func TestRatingsEmptySet(t *testing.T) {
	svc, db := newTestService(t)
	seedCatalog(t, db)

	pred, err := svc.Hierarchy().Compile(Criteria{City: "Bordeaux"})
	require.NoError(t, err)
	stats, err := svc.Aggregator().Ratings(context.Background(), pred)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.Count)
	assert.Nil(t, stats.Average)
	assert.Nil(t, stats.Min)
	assert.Nil(t, stats.Max)
}

func TestGetStats(t *testing.T) {
	svc, db := newTestService(t)
	seedCatalog(t, db)

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 5, stats.Total)

	var sum int64
	for _, r := range stats.ByDepartment {
		sum += r.Count
	}
	assert.Equal(t, stats.Total, sum)
	assert.EqualValues(t, 5, stats.Ratings.Count)
}
