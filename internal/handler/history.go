package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-freezer-inventory/internal/repository"
)

// HistoryHandler serves the read side of the audit trail.
type HistoryHandler struct {
	History *repository.HistoryRepo
}

func NewHistoryHandler(h *repository.HistoryRepo) *HistoryHandler {
	return &HistoryHandler{History: h}
}

// BySample returns one sample's full trail oldest-first, so it reads as the
// sample's life story.  The trail is queryable even after the sample was
// deleted, so a missing sample row is not an error here.
func (h *HistoryHandler) BySample(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sample id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.History.ListBySample(ctx, id)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"history": toHistoryResps(rows)})
}

// List returns the global audit log newest-first, filtered by the query
// parameters: action (comma separated), user, freezer, rack, box, sample,
// from, to (RFC 3339) and limit.
func (h *HistoryHandler) List(c echo.Context) error {
	f := repository.HistoryFilter{
		Username:   c.QueryParam("user"),
		Freezer:    c.QueryParam("freezer"),
		Rack:       c.QueryParam("rack"),
		Box:        c.QueryParam("box"),
		SampleName: c.QueryParam("sample"),
	}
	if raw := c.QueryParam("action"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				f.Actions = append(f.Actions, a)
			}
		}
	}
	if raw := c.QueryParam("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be RFC 3339"})
		}
		f.From = t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be RFC 3339"})
		}
		f.To = t
	}
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be a positive integer"})
		}
		f.Limit = n
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.History.ListFiltered(ctx, f)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"history": toHistoryResps(rows)})
}
