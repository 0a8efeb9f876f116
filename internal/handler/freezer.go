package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-freezer-inventory/internal/repository"
)

// FreezerHandler exposes the top level of the storage hierarchy.
type FreezerHandler struct {
	Freezers *repository.FreezerRepo
}

func NewFreezerHandler(f *repository.FreezerRepo) *FreezerHandler {
	return &FreezerHandler{Freezers: f}
}

// Create registers a new freezer.
func (h *FreezerHandler) Create(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	f, err := h.Freezers.Create(ctx, req.Name)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"name": f.Name})
}

// List returns all freezers.
func (h *FreezerHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	freezers, err := h.Freezers.List(ctx)
	if err != nil {
		return writeRepoErr(c, err)
	}
	names := make([]string, len(freezers))
	for i, f := range freezers {
		names[i] = f.Name
	}
	return c.JSON(http.StatusOK, echo.Map{"freezers": names})
}

// Delete removes a freezer and everything beneath it, reporting what was
// cascaded.
func (h *FreezerHandler) Delete(c echo.Context) error {
	name := c.Param("freezer")

	ctx, cancel := reqCtx(c)
	defer cancel()

	rep, err := h.Freezers.Delete(ctx, name)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": name, "cascade": rep})
}
