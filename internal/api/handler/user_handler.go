package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farmlink/marketplace-api/internal/api/middleware"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

// UserHandler exposes the account moderation surface.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// ListPending returns accounts awaiting approval.
//
// @Summary      List pending users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Router       /users/admin/pending [get]
func (h *UserHandler) ListPending(c echo.Context) error {
	users, err := h.users.ListPending(c.Request().Context(), middleware.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("pending users retrieved", users))
}

// ListAll returns every account.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Router       /users [get]
func (h *UserHandler) ListAll(c echo.Context) error {
	users, err := h.users.ListAll(c.Request().Context(), middleware.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("all users retrieved", users))
}

// Get returns a single account.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("user retrieved", user))
}

// Approve moves an account to approved.
//
// @Summary      Approve a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /users/admin/approve/{id} [put]
func (h *UserHandler) Approve(c echo.Context) error {
	user, err := h.users.Approve(c.Request().Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("user approved", user))
}

// Reject moves an account to rejected.
//
// @Summary      Reject a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /users/admin/reject/{id} [put]
func (h *UserHandler) Reject(c echo.Context) error {
	user, err := h.users.Reject(c.Request().Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("user rejected", user))
}

// Delete removes an account.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	deleted, err := h.users.Delete(c.Request().Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("user deleted", deleted))
}
