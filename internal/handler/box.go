package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-freezer-inventory/internal/model"
	"github.com/iliyamo/lab-freezer-inventory/internal/repository"
	"github.com/iliyamo/lab-freezer-inventory/internal/utils"
)

// BoxHandler manages boxes inside a rack, including the grid layout view the
// frontend renders as a clickable plate.
type BoxHandler struct {
	Boxes   *repository.BoxRepo
	Samples *repository.SampleRepo
}

func NewBoxHandler(b *repository.BoxRepo, s *repository.SampleRepo) *BoxHandler {
	return &BoxHandler{Boxes: b, Samples: s}
}

type boxResp struct {
	ID           string `json:"id"`
	RackID       string `json:"rack_id"`
	FreezerName  string `json:"freezer_name"`
	BoxName      string `json:"box_name"`
	AssignedUser string `json:"assigned_user,omitempty"`
	Rows         int    `json:"rows"`
	Columns      int    `json:"columns"`
}

func toBoxResp(b *model.Box) boxResp {
	return boxResp{
		ID: b.ID, RackID: b.RackID, FreezerName: b.FreezerName,
		BoxName: b.BoxName, AssignedUser: b.AssignedUser,
		Rows: b.Rows, Columns: b.Columns,
	}
}

// Create adds a box to the rack named in the path.  Rows are addressed by a
// single letter and columns by up to two digits, which bounds the grid at
// 26x99.
func (h *BoxHandler) Create(c echo.Context) error {
	var req struct {
		ID           string `json:"id"`
		BoxName      string `json:"box_name"`
		AssignedUser string `json:"assigned_user"`
		Rows         int    `json:"rows"`
		Columns      int    `json:"columns"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id required"})
	}
	if req.Rows < 1 || req.Rows > 26 || req.Columns < 1 || req.Columns > 99 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "grid must be between 1x1 and 26x99"})
	}

	box := &model.Box{
		ID:           req.ID,
		RackID:       c.Param("rack"),
		FreezerName:  c.Param("freezer"),
		BoxName:      req.BoxName,
		AssignedUser: req.AssignedUser,
		Rows:         req.Rows,
		Columns:      req.Columns,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Boxes.Create(ctx, box); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, toBoxResp(box))
}

// List returns the boxes of one rack.
func (h *BoxHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	boxes, err := h.Boxes.ListByRack(ctx, c.Param("rack"), c.Param("freezer"))
	if err != nil {
		return writeRepoErr(c, err)
	}
	out := make([]boxResp, len(boxes))
	for i := range boxes {
		out[i] = toBoxResp(&boxes[i])
	}
	return c.JSON(http.StatusOK, echo.Map{"boxes": out})
}

// Layout returns the box together with its grid: one row per letter, one
// cell per column, occupied cells carrying the sample.  Empty cells are
// null so the frontend can render free wells directly.
func (h *BoxHandler) Layout(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	box, err := h.Boxes.GetByKey(ctx, c.Param("box"), c.Param("rack"), c.Param("freezer"))
	if err != nil {
		return writeRepoErr(c, err)
	}
	samples, err := h.Samples.ListByBox(ctx, box.ID, box.RackID, box.FreezerName)
	if err != nil {
		return writeRepoErr(c, err)
	}

	grid := make([][]*sampleResp, box.Rows)
	for i := range grid {
		grid[i] = make([]*sampleResp, box.Columns)
	}
	for i := range samples {
		row, col, ok := utils.ParseWell(samples[i].Well)
		if !ok || row >= box.Rows || col > box.Columns {
			continue // sample predates a grid shrink; still listed below
		}
		r := toSampleResp(&samples[i])
		grid[row][col-1] = &r
	}

	return c.JSON(http.StatusOK, echo.Map{
		"box":      toBoxResp(box),
		"grid":     grid,
		"samples":  toSampleResps(samples),
		"occupied": len(samples),
		"capacity": box.Rows * box.Columns,
	})
}

// Delete removes a box and its samples, reporting what was cascaded.
func (h *BoxHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rep, err := h.Boxes.Delete(ctx, c.Param("box"), c.Param("rack"), c.Param("freezer"))
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": c.Param("box"), "cascade": rep})
}
