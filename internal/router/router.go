package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/handler"    // handlers that implement the endpoints
	"github.com/iliyamo/movie-catalog/internal/middleware" // JWT authentication and scope enforcement
)

// Handlers bundles the endpoint implementations wired in main.
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Movies    *handler.MovieHandler
	Favorites *handler.FavoriteHandler
}

// Register mounts the full route table. The scope column of each route
// follows the API contract: routes without a scope requirement are public,
// everything else passes JWTAuth first and then the scope gate, so an
// insufficient scope yields 403 before any business logic runs.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	// The rate limiter wraps everything, including the public routes. It
	// degrades to a no-op when redis is unavailable.
	e.Use(middleware.NewRateLimiter(rlCfg, rdb))

	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Public: registration and login issue credentials, so they cannot
	// require any.
	e.POST("/user", h.Auth.Register)
	e.POST("/user/login", h.Auth.Login)

	jwt := middleware.JWTAuth(jwtSecret)
	anyScope := middleware.RequireScope("user", "admin")
	adminOnly := middleware.RequireScope("admin")

	// ---- Users ----
	e.GET("/users", h.Users.List, jwt, anyScope)
	e.PATCH("/user/:id", h.Users.Update, jwt, adminOnly) // may change scope
	e.DELETE("/user/:id", h.Users.Delete, jwt, adminOnly)

	// ---- Movies ----
	e.POST("/movie", h.Movies.Create, jwt, adminOnly)
	e.GET("/movies", h.Movies.List, jwt, anyScope)
	e.PATCH("/movie/:id", h.Movies.Update, jwt, adminOnly)
	e.DELETE("/movie/:id", h.Movies.Delete, jwt, adminOnly)

	// Export enqueues a CSV generation request and returns 202; the file
	// arrives by email.
	e.GET("/movies/export", h.Movies.Export, jwt, adminOnly)

	// ---- Favorites (always scoped to the calling user) ----
	e.POST("/movie/:movieId/favorite", h.Favorites.Add, jwt, anyScope)
	e.DELETE("/movie/:movieId/favorite", h.Favorites.Remove, jwt, anyScope)
	e.GET("/user/favorites", h.Favorites.List, jwt, anyScope)
}
