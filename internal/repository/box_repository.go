package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/lab-freezer-inventory/internal/model"
)

// BoxRepo provides methods to create, list and delete sample boxes.  Boxes
// are keyed by the composite (id, rack_id, freezer_name).
type BoxRepo struct {
	db *sql.DB
}

// NewBoxRepo constructs a BoxRepo with the given DB handle.
func NewBoxRepo(db *sql.DB) *BoxRepo {
	return &BoxRepo{db: db}
}

const boxColumns = `id, rack_id, freezer_name, box_name, assigned_user, "rows", columns`

// Create inserts a new box into the given rack.  A missing rack yields
// ErrNotFound, a duplicate composite key yields ErrDuplicateKey.
func (r *BoxRepo) Create(ctx context.Context, b *model.Box) error {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM racks WHERE id=$1 AND freezer_name=$2`, b.RackID, b.FreezerName).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("rack", b.RackID)
	}
	if err != nil {
		return translateDBError(err, nil)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO boxes (id, rack_id, freezer_name, box_name, assigned_user, "rows", columns)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		b.ID, b.RackID, b.FreezerName, b.BoxName, b.AssignedUser, b.Rows, b.Columns)
	return translateDBError(err, ErrDuplicateKey)
}

// GetByKey retrieves a box by its composite key.  Returns ErrNotFound when
// no row matches.
func (r *BoxRepo) GetByKey(ctx context.Context, id, rackID, freezerName string) (*model.Box, error) {
	var b model.Box
	err := r.db.QueryRowContext(ctx,
		`SELECT `+boxColumns+` FROM boxes WHERE id=$1 AND rack_id=$2 AND freezer_name=$3`,
		id, rackID, freezerName).
		Scan(&b.ID, &b.RackID, &b.FreezerName, &b.BoxName, &b.AssignedUser, &b.Rows, &b.Columns)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("box", id)
		}
		return nil, translateDBError(err, nil)
	}
	return &b, nil
}

// ListByRack returns all boxes inside a rack ordered by id.
func (r *BoxRepo) ListByRack(ctx context.Context, rackID, freezerName string) ([]model.Box, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+boxColumns+` FROM boxes WHERE rack_id=$1 AND freezer_name=$2 ORDER BY id`,
		rackID, freezerName)
	if err != nil {
		return nil, translateDBError(err, nil)
	}
	defer rows.Close()

	var out []model.Box
	for rows.Next() {
		var b model.Box
		if err := rows.Scan(&b.ID, &b.RackID, &b.FreezerName, &b.BoxName, &b.AssignedUser, &b.Rows, &b.Columns); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Delete removes a box, cascading to its samples, and cleans the cascaded
// samples' audit rows in the same transaction.
func (r *BoxRepo) Delete(ctx context.Context, id, rackID, freezerName string) (CascadeReport, error) {
	var rep CascadeReport
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return rep, translateDBError(err, nil)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM samples WHERE box_id=$1 AND rack_id=$2 AND freezer_name=$3`,
		id, rackID, freezerName).Scan(&rep.Samples); err != nil {
		return rep, translateDBError(err, nil)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM sample_history WHERE sample_id IN
		   (SELECT id FROM samples WHERE box_id=$1 AND rack_id=$2 AND freezer_name=$3)`,
		id, rackID, freezerName)
	if err != nil {
		return rep, translateDBError(err, nil)
	}
	rep.History, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx,
		`DELETE FROM boxes WHERE id=$1 AND rack_id=$2 AND freezer_name=$3`, id, rackID, freezerName)
	if err != nil {
		return rep, translateDBError(err, nil)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return rep, notFound("box", id)
	}
	if err := tx.Commit(); err != nil {
		return rep, translateDBError(err, nil)
	}
	return rep, nil
}
