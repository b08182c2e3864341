package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/service"
)

// MovieHandler exposes catalog CRUD plus the export trigger. The broker may
// be nil when RabbitMQ was unreachable at boot; export requests then fail.
type MovieHandler struct {
	Movies *service.MovieService
	Broker *queue.Broker
}

func NewMovieHandler(movies *service.MovieService, broker *queue.Broker) *MovieHandler {
	return &MovieHandler{Movies: movies, Broker: broker}
}

type movieCreateReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ReleaseDate string `json:"releaseDate"`
	Director    string `json:"director"`
}

type moviePatchReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ReleaseDate *string `json:"releaseDate"`
	Director    *string `json:"director"`
}

// Create inserts a movie; all four fields are required. Every registered
// user is notified of the new title in the background.
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.ReleaseDate) == "" || strings.TrimSpace(req.Director) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, description, releaseDate and director are required"})
	}
	release, err := parseReleaseDate(req.ReleaseDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "releaseDate must be a date (YYYY-MM-DD)"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.Create(ctx, model.Movie{
		Title:       req.Title,
		Description: req.Description,
		ReleaseDate: &release,
		Director:    req.Director,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, m)
}

// List returns the full catalog.
func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movies, err := h.Movies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, movies)
}

// Update patches only the supplied fields; users who favorited the movie
// are notified in the background.
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req moviePatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	patch := model.MoviePatch{
		Title:       req.Title,
		Description: req.Description,
		Director:    req.Director,
	}
	if req.ReleaseDate != nil {
		release, err := parseReleaseDate(*req.ReleaseDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "releaseDate must be a date (YYYY-MM-DD)"})
		}
		patch.ReleaseDate = &release
	}
	if patch.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	updated, err := h.Movies.Update(ctx, id, patch)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if !updated {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a movie; favorites referencing it cascade away.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Movies.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Export enqueues a CSV export request addressed to the calling admin's
// email and returns 202 immediately. Delivery happens out of band; the
// caller gets no completion signal.
func (h *MovieHandler) Export(c echo.Context) error {
	email, _ := c.Get(middleware.CtxEmail).(string)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Broker.PublishExportRequest(ctx, email); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export unavailable"})
	}
	return c.JSON(http.StatusAccepted, echo.Map{
		"message": "Export requested. You will receive an email shortly.",
	})
}

// parseReleaseDate accepts plain dates and full RFC 3339 timestamps.
func parseReleaseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
