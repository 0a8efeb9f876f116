package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-freezer-inventory/internal/repository"
)

// SearchHandler serves cross-inventory sample search.
type SearchHandler struct {
	Samples *repository.SampleRepo
}

func NewSearchHandler(s *repository.SampleRepo) *SearchHandler {
	return &SearchHandler{Samples: s}
}

// Search runs a filtered, paginated sample query.  q matches name, owner,
// notes and species at once; the remaining parameters narrow individual
// columns.  Results come newest-first with a total count for pagination.
func (h *SearchHandler) Search(c echo.Context) error {
	q := repository.SampleSearchQuery{
		Q:          c.QueryParam("q"),
		Name:       c.QueryParam("name"),
		Type:       c.QueryParam("type"),
		Owner:      c.QueryParam("owner"),
		Species:    c.QueryParam("species"),
		Resistance: c.QueryParam("resistance"),
		Regulation: c.QueryParam("regulation"),
		Freezer:    c.QueryParam("freezer"),
		Rack:       c.QueryParam("rack"),
		Box:        c.QueryParam("box"),
	}
	if raw := c.QueryParam("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be RFC 3339"})
		}
		q.From = t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be RFC 3339"})
		}
		q.To = t
	}
	if raw := c.QueryParam("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			q.Page = n
		}
	}
	if raw := c.QueryParam("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			q.PerPage = n
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Samples.Search(ctx, q)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"samples":   toSampleResps(res.Samples),
		"total":     res.Total,
		"page":      res.Page,
		"page_size": res.PerPage,
	})
}
