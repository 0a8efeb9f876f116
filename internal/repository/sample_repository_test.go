package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/lab-freezer-inventory/internal/model"
)

func newSampleRepoMock(t *testing.T) (*SampleRepo, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSampleRepo(db), mock
}

func testBox() *model.Box {
	return &model.Box{ID: "B1", RackID: "R1", FreezerName: "F1", Rows: 9, Columns: 9}
}

var testActor = Actor{ID: 7, Username: "marie"}

func sampleRow(id int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "sample_name", "sample_type", "well", "owner", "date_added",
		"notes", "species", "resistance", "regulation", "box_id", "rack_id", "freezer_name",
	}).AddRow(id, "pBR322", "Plasmid", "A1", "marie", time.Now(), "", "E. coli", "", "", "B1", "R1", "F1")
}

func TestAddRejectsOccupiedWell(t *testing.T) {
	repo, mock := newSampleRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT sample_name FROM samples`).
		WillReturnRows(sqlmock.NewRows([]string{"sample_name"}).AddRow("earlier"))
	mock.ExpectRollback()

	err := repo.Add(context.Background(), testActor, testBox(),
		&model.Sample{SampleName: "pUC19", Well: "A1"})
	assert.ErrorIs(t, err, ErrWellOccupied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCommitsSampleAndCreatedRowTogether(t *testing.T) {
	repo, mock := newSampleRepoMock(t)
	added := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT sample_name FROM samples`).
		WillReturnRows(sqlmock.NewRows([]string{"sample_name"}))
	mock.ExpectQuery(`INSERT INTO samples`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date_added"}).AddRow(int64(42), added))
	mock.ExpectQuery(`INSERT INTO sample_history`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(int64(1), added))
	mock.ExpectCommit()

	s := &model.Sample{SampleName: "pBR322", SampleType: "Plasmid", Well: "a1"}
	require.NoError(t, repo.Add(context.Background(), testActor, testBox(), s))
	assert.Equal(t, uint64(42), s.ID)
	assert.Equal(t, "A1", s.Well)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The sample insert and its audit row share one transaction: when the audit
// row cannot be written the sample must not land either.
func TestAddRollsBackWhenAuditRowFails(t *testing.T) {
	repo, mock := newSampleRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT sample_name FROM samples`).
		WillReturnRows(sqlmock.NewRows([]string{"sample_name"}))
	mock.ExpectQuery(`INSERT INTO samples`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date_added"}).AddRow(int64(42), time.Now()))
	mock.ExpectQuery(`INSERT INTO sample_history`).
		WillReturnError(errors.New("audit insert refused"))
	mock.ExpectRollback()

	err := repo.Add(context.Background(), testActor, testBox(),
		&model.Sample{SampleName: "pBR322", Well: "A1"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRollsBackWhenAuditRowFails(t *testing.T) {
	repo, mock := newSampleRepoMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM samples WHERE id=`).
		WillReturnRows(sampleRow(42))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM samples WHERE id=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO sample_history`).
		WillReturnError(errors.New("audit insert refused"))
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), testActor, 42)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoveRejectsOccupiedTargetWell(t *testing.T) {
	repo, mock := newSampleRepoMock(t)
	target := &model.Box{ID: "B2", RackID: "R1", FreezerName: "F1", Rows: 9, Columns: 9}

	mock.ExpectQuery(`SELECT (.+) FROM samples WHERE id=`).
		WillReturnRows(sampleRow(42))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT sample_name FROM samples`).
		WillReturnRows(sqlmock.NewRows([]string{"sample_name"}).AddRow("earlier"))
	mock.ExpectRollback()

	_, err := repo.Move(context.Background(), testActor, 42, target, "C3")
	assert.ErrorIs(t, err, ErrWellOccupied)
	assert.NoError(t, mock.ExpectationsWereMet())
}
