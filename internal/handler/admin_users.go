package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-freezer-inventory/internal/config"
	"github.com/iliyamo/lab-freezer-inventory/internal/model"
	"github.com/iliyamo/lab-freezer-inventory/internal/repository"
)

// AdminUserHandler exposes the user administration surface.  Routes using it
// are registered behind RequireMinRole(admin); the repo runs on the
// privileged database handle.
type AdminUserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAdminUserHandler(cfg config.Config, u *repository.UserRepo) *AdminUserHandler {
	return &AdminUserHandler{Cfg: cfg, Users: u}
}

type adminUserResp struct {
	ID        uint64     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func userIDParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// List returns all accounts.  Password hashes never leave the repo layer.
func (h *AdminUserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return writeRepoErr(c, err)
	}
	out := make([]adminUserResp, len(users))
	for i, u := range users {
		out[i] = adminUserResp{
			ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role,
			IsActive: u.IsActive, CreatedAt: u.CreatedAt, LastLogin: u.LastLogin,
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// UpdateRole assigns a new role from the closed set.
func (h *AdminUserHandler) UpdateRole(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !model.ValidRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Users.UpdateRole(ctx, id, role); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "role": role})
}

// ResetPassword sets a new password for the account.
func (h *AdminUserHandler) ResetPassword(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Users.UpdatePassword(ctx, id, req.Password, h.Cfg.BcryptCost); err != nil {
		return writeRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetActive toggles the soft-disable flag.  Deactivation is the normal way
// to retire an account since it keeps the username attached to old audit
// rows meaningful.
func (h *AdminUserHandler) SetActive(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_active required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Users.SetActive(ctx, id, *req.IsActive); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": *req.IsActive})
}

// Delete removes an account entirely.  Admins cannot delete themselves, so
// the system always keeps at least the caller's admin account.
func (h *AdminUserHandler) Delete(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if actor := getActor(c); actor.ID == id {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete your own account"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Users.Delete(ctx, id); err != nil {
		return writeRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
