package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"trouve-ton-artisan/internal/catalog"
	"trouve-ton-artisan/internal/core/auth"
	"trouve-ton-artisan/internal/core/config"
	mdw "trouve-ton-artisan/internal/transport/http/middleware"
)

// NewAdminEngine builds the write surface: single-admin login, catalog CRUD
// and bulk import, all JWT-guarded except the login itself.
func NewAdminEngine(l *zap.Logger, svc *catalog.Service, jwter *auth.JWTer, adm config.Admin) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(100, 200),
		mdw.ConcurrencyLimit(100),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(30*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin/v1")

	mountLoginAction(admin, jwter, adm)

	guarded := admin.Group("")
	guarded.Use(mdw.AuthJWT(jwter, "admin"))

	MountAllAdmin(guarded)
	MountAdminActions(guarded, svc)

	return r
}
