package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-freezer-inventory/internal/model"
	"github.com/iliyamo/lab-freezer-inventory/internal/repository"
)

// reqCtx bounds a handler's database work.  Five seconds is generous for the
// single-row operations these endpoints perform.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// getActor reads the authenticated identity stored by the JWT middleware.
// Numeric JWT claims decode as float64.
func getActor(c echo.Context) repository.Actor {
	a := repository.Actor{Username: "unknown"}
	switch v := c.Get("user_id").(type) {
	case float64:
		a.ID = uint64(v)
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			a.ID = n
		}
	}
	if s, ok := c.Get("username").(string); ok && s != "" {
		a.Username = s
	}
	return a
}

// writeRepoErr maps repository sentinels onto HTTP responses.  Unrecognized
// errors become a generic 500 so internal details never reach the client.
func writeRepoErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrDuplicateKey),
		errors.Is(err, repository.ErrDuplicateIdentity),
		errors.Is(err, repository.ErrWellOccupied):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrWellOutOfBounds):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, repository.ErrRateLimited):
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many attempts, try again later"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// sampleResp is the JSON shape of one sample.
type sampleResp struct {
	ID          uint64    `json:"id"`
	SampleName  string    `json:"sample_name"`
	SampleType  string    `json:"sample_type"`
	Well        string    `json:"well"`
	Owner       string    `json:"owner"`
	DateAdded   time.Time `json:"date_added"`
	Notes       string    `json:"notes,omitempty"`
	Species     string    `json:"species,omitempty"`
	Resistance  string    `json:"resistance,omitempty"`
	Regulation  string    `json:"regulation,omitempty"`
	BoxID       string    `json:"box_id"`
	RackID      string    `json:"rack_id"`
	FreezerName string    `json:"freezer_name"`
}

func toSampleResp(s *model.Sample) sampleResp {
	return sampleResp{
		ID:          s.ID,
		SampleName:  s.SampleName,
		SampleType:  s.SampleType,
		Well:        s.Well,
		Owner:       s.Owner,
		DateAdded:   s.DateAdded,
		Notes:       s.Notes,
		Species:     s.Species,
		Resistance:  s.Resistance,
		Regulation:  s.Regulation,
		BoxID:       s.BoxID,
		RackID:      s.RackID,
		FreezerName: s.FreezerName,
	}
}

func toSampleResps(in []model.Sample) []sampleResp {
	out := make([]sampleResp, len(in))
	for i := range in {
		out[i] = toSampleResp(&in[i])
	}
	return out
}

// historyResp is the JSON shape of one audit row.
type historyResp struct {
	ID         uint64    `json:"id"`
	SampleID   uint64    `json:"sample_id"`
	Action     string    `json:"action"`
	Field      *string   `json:"field,omitempty"`
	OldValue   *string   `json:"old_value,omitempty"`
	NewValue   *string   `json:"new_value,omitempty"`
	UserID     uint64    `json:"user_id"`
	Username   string    `json:"username"`
	Timestamp  time.Time `json:"timestamp"`
	Freezer    string    `json:"freezer"`
	Rack       string    `json:"rack"`
	Box        string    `json:"box"`
	Well       string    `json:"well"`
	SampleName string    `json:"sample_name"`
}

func toHistoryResps(in []model.SampleHistory) []historyResp {
	out := make([]historyResp, len(in))
	for i, h := range in {
		out[i] = historyResp{
			ID: h.ID, SampleID: h.SampleID, Action: h.Action,
			Field: h.Field, OldValue: h.OldValue, NewValue: h.NewValue,
			UserID: h.UserID, Username: h.Username, Timestamp: h.Timestamp,
			Freezer: h.Freezer, Rack: h.Rack, Box: h.Box, Well: h.Well,
			SampleName: h.SampleName,
		}
	}
	return out
}
