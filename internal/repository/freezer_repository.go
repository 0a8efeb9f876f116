package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/lab-freezer-inventory/internal/model"
)

// CascadeReport counts what a hierarchy delete removed.  Cascaded deletions
// are reported to the caller rather than silently absorbed, so the UI can
// tell an operator "deleting freezer F1 removed 3 racks, 12 boxes and 87
// samples".
type CascadeReport struct {
	Racks   int64 `json:"racks"`
	Boxes   int64 `json:"boxes"`
	Samples int64 `json:"samples"`
	History int64 `json:"history_rows"`
}

// FreezerRepo provides methods to create, list and delete freezers.
type FreezerRepo struct {
	db *sql.DB
}

// NewFreezerRepo constructs a FreezerRepo with the given DB handle.
func NewFreezerRepo(db *sql.DB) *FreezerRepo {
	return &FreezerRepo{db: db}
}

// Create inserts a new freezer.  The name is the primary key; a collision
// yields ErrDuplicateKey.
func (r *FreezerRepo) Create(ctx context.Context, name string) (*model.Freezer, error) {
	name = strings.TrimSpace(name)
	if _, err := r.db.ExecContext(ctx, `INSERT INTO freezers (name) VALUES ($1)`, name); err != nil {
		return nil, translateDBError(err, ErrDuplicateKey)
	}
	return &model.Freezer{Name: name}, nil
}

// List returns all freezers ordered by name.
func (r *FreezerRepo) List(ctx context.Context) ([]model.Freezer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM freezers ORDER BY name`)
	if err != nil {
		return nil, translateDBError(err, nil)
	}
	defer rows.Close()

	var out []model.Freezer
	for rows.Next() {
		var f model.Freezer
		if err := rows.Scan(&f.Name); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Exists reports whether a freezer with the given name is present.
func (r *FreezerRepo) Exists(ctx context.Context, name string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM freezers WHERE name=$1`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, translateDBError(err, nil)
	}
	return true, nil
}

// Delete removes a freezer and everything beneath it.  Racks, boxes and
// samples go through the declared ON DELETE CASCADE chain; the audit rows of
// the cascaded samples are removed explicitly in the same transaction since
// sample_history carries no foreign key.  The counts of removed descendants
// are returned.
func (r *FreezerRepo) Delete(ctx context.Context, name string) (CascadeReport, error) {
	var rep CascadeReport
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return rep, translateDBError(err, nil)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM racks WHERE freezer_name=$1`, name).Scan(&rep.Racks); err != nil {
		return rep, translateDBError(err, nil)
	}
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM boxes WHERE freezer_name=$1`, name).Scan(&rep.Boxes); err != nil {
		return rep, translateDBError(err, nil)
	}
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM samples WHERE freezer_name=$1`, name).Scan(&rep.Samples); err != nil {
		return rep, translateDBError(err, nil)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM sample_history WHERE sample_id IN (SELECT id FROM samples WHERE freezer_name=$1)`, name)
	if err != nil {
		return rep, translateDBError(err, nil)
	}
	rep.History, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx, `DELETE FROM freezers WHERE name=$1`, name)
	if err != nil {
		return rep, translateDBError(err, nil)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return rep, notFound("freezer", name)
	}
	if err := tx.Commit(); err != nil {
		return rep, translateDBError(err, nil)
	}
	return rep, nil
}
