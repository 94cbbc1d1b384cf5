package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prepdesk/sales-prep/api/internal/auth"
	"github.com/prepdesk/sales-prep/api/internal/config"
	"github.com/prepdesk/sales-prep/api/internal/handler"
	middlewarepkg "github.com/prepdesk/sales-prep/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserAdminHandler
	Preps     *handler.PrepHandler
	Profile   *handler.ProfileHandler
	Dashboard *handler.DashboardHandler
	Cache     *handler.CacheAdminHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.POST("/preps", handlers.Preps.Create, middlewarepkg.PrepRateLimiter(cfg.RateLimitPrep))
	secured.GET("/preps", handlers.Preps.List)
	secured.GET("/preps/:id", handlers.Preps.Get)
	secured.POST("/preps/:id/outcome", handlers.Preps.RecordOutcome)
	secured.GET("/preps/:id/outcome", handlers.Preps.GetOutcome)

	secured.GET("/profile", handlers.Profile.Get)
	secured.POST("/profile", handlers.Profile.Upsert)
	secured.GET("/dashboard", handlers.Dashboard.Stats)

	admin := secured.Group("/admin", middlewarepkg.RequireRole("admin"))
	admin.GET("/cache/stats", handlers.Cache.Stats)
	admin.DELETE("/cache/:company", handlers.Cache.Evict)
	admin.GET("/users", handlers.Users.List)
	admin.POST("/users", handlers.Users.Create)
	admin.DELETE("/users/:id", handlers.Users.Delete)
}
