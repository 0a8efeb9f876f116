package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/lab-freezer-inventory/internal/model"
	"github.com/iliyamo/lab-freezer-inventory/internal/queue"
	"github.com/iliyamo/lab-freezer-inventory/internal/repository"
)

func movedSampleRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "sample_name", "sample_type", "well", "owner", "date_added",
		"notes", "species", "resistance", "regulation", "box_id", "rack_id", "freezer_name",
	}).AddRow(int64(42), "pBR322", "Plasmid", "A1", "marie", time.Now(), "", "", "", "", "B1", "R1", "F1")
}

// The broker event for a move must carry the same old/new location pair as
// the durable history row.
func TestMovePublishesOldAndNewLocation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	published := make(chan queue.SampleAuditEvent, 1)
	orig := publishSampleAudit
	publishSampleAudit = func(ctx context.Context, ev queue.SampleAuditEvent) error {
		published <- ev
		return nil
	}
	t.Cleanup(func() { publishSampleAudit = orig })

	// target box lookup
	mock.ExpectQuery(`SELECT (.+) FROM boxes WHERE id=`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "rack_id", "freezer_name", "box_name", "assigned_user", "rows", "columns",
		}).AddRow("B9", "R9", "F2", "", "", 9, 9))
	// pre-move snapshot, then the repository's own read
	mock.ExpectQuery(`SELECT (.+) FROM samples WHERE id=`).WillReturnRows(movedSampleRow())
	mock.ExpectQuery(`SELECT (.+) FROM samples WHERE id=`).WillReturnRows(movedSampleRow())
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT sample_name FROM samples`).
		WillReturnRows(sqlmock.NewRows([]string{"sample_name"}))
	mock.ExpectExec(`UPDATE samples SET box_id=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO sample_history`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(int64(9), time.Now()))
	mock.ExpectCommit()

	h := NewSampleHandler(repository.NewSampleRepo(db), repository.NewBoxRepo(db))

	e := echo.New()
	body := `{"freezer_name":"F2","rack_id":"R9","box_id":"B9","well":"C3"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("user_id", float64(7))
	c.Set("username", "marie")

	require.NoError(t, h.Move(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())

	select {
	case ev := <-published:
		assert.Equal(t, model.ActionMoved, ev.Action)
		assert.Equal(t, "location", ev.Field)
		assert.Equal(t, "F1/R1/B1/A1", ev.OldValue)
		assert.Equal(t, "F2/R9/B9/C3", ev.NewValue)
		assert.Equal(t, "marie", ev.Username)
	case <-time.After(2 * time.Second):
		t.Fatal("audit event was never published")
	}
}
