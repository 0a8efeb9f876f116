package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-freezer-inventory/internal/repository"
)

// StatsHandler serves inventory utilization figures.
type StatsHandler struct {
	Stats *repository.StatsRepo
}

func NewStatsHandler(s *repository.StatsRepo) *StatsHandler {
	return &StatsHandler{Stats: s}
}

// Utilization returns fill levels per freezer and per box.  An optional
// ?freezer= parameter restricts the box breakdown to one freezer.
func (h *StatsHandler) Utilization(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	freezers, err := h.Stats.FreezerUtilizations(ctx)
	if err != nil {
		return writeRepoErr(c, err)
	}
	boxes, err := h.Stats.BoxUtilizations(ctx, c.QueryParam("freezer"))
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"freezers": freezers,
		"boxes":    boxes,
	})
}
