package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"trouve-ton-artisan/internal/catalog"
	"trouve-ton-artisan/internal/contact"
	"trouve-ton-artisan/internal/domain"
	resp "trouve-ton-artisan/internal/transport/http/response"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	require.NoError(t, db.AutoMigrate(&domain.Category{}, &domain.Specialty{}, &domain.Artisan{}))
	return db
}

func seedTwoCategories(t *testing.T, db *gorm.DB) {
	t.Helper()
	building := domain.Category{Name: "Bâtiment"}
	services := domain.Category{Name: "Services"}
	require.NoError(t, db.Create(&building).Error)
	require.NoError(t, db.Create(&services).Error)

	plumbing := domain.Specialty{Name: "Plomberie", CategoryID: building.ID}
	require.NoError(t, db.Create(&plumbing).Error)

	require.NoError(t, db.Create(&domain.Artisan{
		CompanyName: "Au Fil De L'eau", Email: "aufil@example.fr",
		City: "Lyon", Department: "Rhône", Rating: 4.8, Featured: true,
		SpecialtyID: plumbing.ID,
	}).Error)
	require.NoError(t, db.Create(&domain.Artisan{
		CompanyName: "Clim Express", Email: "clim@example.fr",
		City: "Lyon", Department: "Rhône", Rating: 3.0,
		SpecialtyID: plumbing.ID,
	}).Error)
}

func newTestAPIEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	seedTwoCategories(t, db)
	svc := catalog.NewService(db, nil, zap.NewNop())
	disp := contact.NewDispatcher(svc.Hierarchy(), nil,
		contact.NewQuota(5, time.Hour, nil), time.Second, zap.NewNop())
	return NewAPIEngine(zap.NewNop(), svc, disp)
}

func getEnvelope(t *testing.T, r *gin.Engine, path string) resp.Resp {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var out resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAPIHealth(t *testing.T) {
	r := newTestAPIEngine(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIListArtisans(t *testing.T) {
	r := newTestAPIEngine(t)

	out := getEnvelope(t, r, "/api/v1/artisans?ville=Lyon&sort=rating")
	require.Equal(t, resp.CodeOK, out.Code)

	data, ok := out.Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, data["total"])
	items, ok := data["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "Au Fil De L'eau", first["companyName"])
}

func TestAPIArtisanNotFound(t *testing.T) {
	r := newTestAPIEngine(t)
	out := getEnvelope(t, r, "/api/v1/artisans/999")
	assert.Equal(t, resp.CodeNotFound, out.Code)
}

func TestAPIArtisanBadID(t *testing.T) {
	r := newTestAPIEngine(t)
	out := getEnvelope(t, r, "/api/v1/artisans/abc")
	assert.Equal(t, resp.CodeBadRequest, out.Code)
}

func TestAPILimitBounded(t *testing.T) {
	r := newTestAPIEngine(t)

	out := getEnvelope(t, r, "/api/v1/artisans?limit=1000000")
	assert.Equal(t, resp.CodeBadRequest, out.Code)

	out = getEnvelope(t, r, "/api/v1/artisans/search?q=clim&limit=51")
	assert.Equal(t, resp.CodeBadRequest, out.Code)

	out = getEnvelope(t, r, "/api/v1/artisans/du-mois?limit=999")
	assert.Equal(t, resp.CodeBadRequest, out.Code)

	// the maximum itself is accepted
	out = getEnvelope(t, r, "/api/v1/artisans?limit=50")
	assert.Equal(t, resp.CodeOK, out.Code)
}

func TestAPIUnknownSortRejected(t *testing.T) {
	r := newTestAPIEngine(t)
	out := getEnvelope(t, r, "/api/v1/artisans?sort=cheapest")
	assert.Equal(t, resp.CodeBadRequest, out.Code)
}

func TestAPIListCategories(t *testing.T) {
	r := newTestAPIEngine(t)
	out := getEnvelope(t, r, "/api/v1/categories?with_stats=true")
	require.Equal(t, resp.CodeOK, out.Code)
	items, ok := out.Data.([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestAPIFeatured(t *testing.T) {
	r := newTestAPIEngine(t)
	out := getEnvelope(t, r, "/api/v1/artisans/du-mois")
	require.Equal(t, resp.CodeOK, out.Code)
	items, ok := out.Data.([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
}

func TestAPISearchTooShort(t *testing.T) {
	r := newTestAPIEngine(t)
	out := getEnvelope(t, r, "/api/v1/artisans/search?q=c")
	assert.Equal(t, resp.CodeBadRequest, out.Code)
}

func TestAPIContactWithoutRelay(t *testing.T) {
	r := newTestAPIEngine(t)

	body := `{"name":"Marie Curie","email":"marie@example.fr","subject":"Demande de devis","message":"Bonjour, je souhaite un devis pour ma toiture."}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact/1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var out resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	// no mailer configured in this engine, the submission is unavailable
	assert.Equal(t, resp.CodeUnavailable, out.Code)
}
