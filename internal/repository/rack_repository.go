package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/lab-freezer-inventory/internal/model"
)

// RackRepo provides methods to create, list and delete racks inside a
// freezer.  Rack ids are only unique per freezer, so every lookup carries
// the freezer name.
type RackRepo struct {
	db *sql.DB
}

// NewRackRepo constructs a RackRepo with the given DB handle.
func NewRackRepo(db *sql.DB) *RackRepo {
	return &RackRepo{db: db}
}

// Create inserts a new rack into the named freezer.  A missing freezer
// yields ErrNotFound (checked explicitly for a usable message; the foreign
// key would reject it anyway), a duplicate (id, freezer) pair yields
// ErrDuplicateKey.
func (r *RackRepo) Create(ctx context.Context, rack *model.Rack) error {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM freezers WHERE name=$1`, rack.FreezerName).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("freezer", rack.FreezerName)
	}
	if err != nil {
		return translateDBError(err, nil)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO racks (id, freezer_name, "rows", columns) VALUES ($1,$2,$3,$4)`,
		rack.ID, rack.FreezerName, rack.Rows, rack.Columns)
	return translateDBError(err, ErrDuplicateKey)
}

// GetByID retrieves a rack by (id, freezer).  Returns ErrNotFound when no
// row matches.
func (r *RackRepo) GetByID(ctx context.Context, id, freezerName string) (*model.Rack, error) {
	var rk model.Rack
	err := r.db.QueryRowContext(ctx,
		`SELECT id, freezer_name, "rows", columns FROM racks WHERE id=$1 AND freezer_name=$2`,
		id, freezerName).Scan(&rk.ID, &rk.FreezerName, &rk.Rows, &rk.Columns)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("rack", id)
		}
		return nil, translateDBError(err, nil)
	}
	return &rk, nil
}

// ListByFreezer returns all racks inside a freezer ordered by id.
func (r *RackRepo) ListByFreezer(ctx context.Context, freezerName string) ([]model.Rack, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, freezer_name, "rows", columns FROM racks WHERE freezer_name=$1 ORDER BY id`,
		freezerName)
	if err != nil {
		return nil, translateDBError(err, nil)
	}
	defer rows.Close()

	var out []model.Rack
	for rows.Next() {
		var rk model.Rack
		if err := rows.Scan(&rk.ID, &rk.FreezerName, &rk.Rows, &rk.Columns); err != nil {
			return nil, err
		}
		out = append(out, rk)
	}
	return out, rows.Err()
}

// Delete removes a rack, cascading to its boxes and samples, and cleans the
// cascaded samples' audit rows in the same transaction.  Counts of removed
// descendants are returned.
func (r *RackRepo) Delete(ctx context.Context, id, freezerName string) (CascadeReport, error) {
	var rep CascadeReport
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return rep, translateDBError(err, nil)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM boxes WHERE rack_id=$1 AND freezer_name=$2`, id, freezerName).Scan(&rep.Boxes); err != nil {
		return rep, translateDBError(err, nil)
	}
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM samples WHERE rack_id=$1 AND freezer_name=$2`, id, freezerName).Scan(&rep.Samples); err != nil {
		return rep, translateDBError(err, nil)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM sample_history WHERE sample_id IN (SELECT id FROM samples WHERE rack_id=$1 AND freezer_name=$2)`,
		id, freezerName)
	if err != nil {
		return rep, translateDBError(err, nil)
	}
	rep.History, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx,
		`DELETE FROM racks WHERE id=$1 AND freezer_name=$2`, id, freezerName)
	if err != nil {
		return rep, translateDBError(err, nil)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return rep, notFound("rack", id)
	}
	if err := tx.Commit(); err != nil {
		return rep, translateDBError(err, nil)
	}
	return rep, nil
}
