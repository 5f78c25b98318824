package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trouve-ton-artisan/internal/catalog"
	"trouve-ton-artisan/internal/contact"
	mdw "trouve-ton-artisan/internal/transport/http/middleware"
)

// NewAPIEngine builds the public, read-mostly engine: the catalog browsing
// endpoints plus the contact form. No authentication; abuse is contained by
// the rate and concurrency limits.
func NewAPIEngine(l *zap.Logger, svc *catalog.Service, disp *contact.Dispatcher) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		cors.Default(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	api := r.Group("/api/v1")

	MountAllAPI(api)

	mountArtisanActions(api, svc)
	mountCategoryActions(api, svc)
	mountContactAction(api, disp)

	return r
}
