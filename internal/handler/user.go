package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/service"
)

// UserHandler exposes the authenticated user-management endpoints: listing
// (user or admin scope) and admin-only patch/delete.
type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

type userPatchReq struct {
	FirstName *string   `json:"firstName"`
	LastName  *string   `json:"lastName"`
	Username  *string   `json:"username"`
	Email     *string   `json:"email"`
	Password  *string   `json:"password"`
	Scope     *[]string `json:"scope"`
}

// List returns all user accounts.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, users)
}

// Update patches the supplied fields of a user, including the scope set.
// This is the only path that mutates scope and it sits behind the admin
// gate in the router.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req userPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateUserPatch(req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	patch := model.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Scope:     req.Scope,
	}
	newPassword := ""
	if req.Password != nil {
		newPassword = *req.Password
	}
	if patch.Empty() && newPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Update(ctx, id, patch, newPassword); err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case repository.ErrEmailExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a user by id; their favorites cascade away with them.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func validateUserPatch(req userPatchReq) string {
	if req.FirstName != nil && len(strings.TrimSpace(*req.FirstName)) < 3 {
		return "firstName must be at least 3 characters"
	}
	if req.LastName != nil && len(strings.TrimSpace(*req.LastName)) < 3 {
		return "lastName must be at least 3 characters"
	}
	if req.Username != nil && len(strings.TrimSpace(*req.Username)) < 3 {
		return "username must be at least 3 characters"
	}
	if req.Email != nil && !strings.Contains(*req.Email, "@") {
		return "valid email required"
	}
	if req.Password != nil && len(*req.Password) < 8 {
		return "password must be at least 8 characters"
	}
	if req.Scope != nil {
		for _, s := range *req.Scope {
			if s != "user" && s != "admin" {
				return "scope entries must be 'user' or 'admin'"
			}
		}
	}
	return ""
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
