package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-freezer-inventory/internal/model"
	"github.com/iliyamo/lab-freezer-inventory/internal/repository"
)

// RackHandler manages racks inside a freezer.
type RackHandler struct {
	Racks *repository.RackRepo
}

func NewRackHandler(r *repository.RackRepo) *RackHandler {
	return &RackHandler{Racks: r}
}

type rackResp struct {
	ID          string `json:"id"`
	FreezerName string `json:"freezer_name"`
	Rows        int    `json:"rows"`
	Columns     int    `json:"columns"`
}

// Create adds a rack to the freezer named in the path.
func (h *RackHandler) Create(c echo.Context) error {
	var req struct {
		ID      string `json:"id"`
		Rows    int    `json:"rows"`
		Columns int    `json:"columns"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id required"})
	}
	if req.Rows < 1 || req.Rows > 20 || req.Columns < 1 || req.Columns > 20 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows and columns must be between 1 and 20"})
	}

	rack := &model.Rack{
		ID:          req.ID,
		FreezerName: c.Param("freezer"),
		Rows:        req.Rows,
		Columns:     req.Columns,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Racks.Create(ctx, rack); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, rackResp{
		ID: rack.ID, FreezerName: rack.FreezerName, Rows: rack.Rows, Columns: rack.Columns,
	})
}

// List returns the racks of one freezer.
func (h *RackHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	racks, err := h.Racks.ListByFreezer(ctx, c.Param("freezer"))
	if err != nil {
		return writeRepoErr(c, err)
	}
	out := make([]rackResp, len(racks))
	for i, r := range racks {
		out[i] = rackResp{ID: r.ID, FreezerName: r.FreezerName, Rows: r.Rows, Columns: r.Columns}
	}
	return c.JSON(http.StatusOK, echo.Map{"racks": out})
}

// Delete removes a rack and its boxes/samples, reporting what was cascaded.
func (h *RackHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rep, err := h.Racks.Delete(ctx, c.Param("rack"), c.Param("freezer"))
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": c.Param("rack"), "cascade": rep})
}
