package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/lab-freezer-inventory/internal/model"
	"github.com/iliyamo/lab-freezer-inventory/internal/utils"
)

// SampleRepo mutates samples and their audit trail.  Every write runs in a
// single transaction that also inserts the matching sample_history row: if
// either side fails, both roll back.  Occupancy is checked inside the
// transaction and additionally guarded by the unique well index, so two
// concurrent inserts into the same well cannot both commit.
type SampleRepo struct {
	db *sql.DB
}

// NewSampleRepo returns a new SampleRepo bound to the given database.
func NewSampleRepo(db *sql.DB) *SampleRepo { return &SampleRepo{db: db} }

const sampleColumns = `id, sample_name, sample_type, well, owner, date_added, notes, species, resistance, regulation, box_id, rack_id, freezer_name`

func scanSample(sc interface{ Scan(...any) error }) (model.Sample, error) {
	var s model.Sample
	err := sc.Scan(&s.ID, &s.SampleName, &s.SampleType, &s.Well, &s.Owner, &s.DateAdded,
		&s.Notes, &s.Species, &s.Resistance, &s.Regulation, &s.BoxID, &s.RackID, &s.FreezerName)
	return s, err
}

// GetByID retrieves a sample by id, returning ErrNotFound when absent.
func (r *SampleRepo) GetByID(ctx context.Context, id uint64) (*model.Sample, error) {
	s, err := scanSample(r.db.QueryRowContext(ctx,
		`SELECT `+sampleColumns+` FROM samples WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("sample", itoa(int(id)))
		}
		return nil, translateDBError(err, nil)
	}
	return &s, nil
}

// ListByBox returns the samples of one box ordered by well label.
func (r *SampleRepo) ListByBox(ctx context.Context, boxID, rackID, freezerName string) ([]model.Sample, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sampleColumns+` FROM samples
		 WHERE box_id=$1 AND rack_id=$2 AND freezer_name=$3 ORDER BY well`,
		boxID, rackID, freezerName)
	if err != nil {
		return nil, translateDBError(err, nil)
	}
	defer rows.Close()

	var out []model.Sample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// validateWell normalizes the well label and checks it against the box grid.
func validateWell(well string, box *model.Box) (string, error) {
	well = utils.NormalizeWell(well)
	row, col, ok := utils.ParseWell(well)
	if !ok || !utils.WellInBounds(row, col, box.Rows, box.Columns) {
		return "", fmt.Errorf("well %q in %dx%d box: %w", well, box.Rows, box.Columns, ErrWellOutOfBounds)
	}
	return well, nil
}

// wellFreeTx reports ErrWellOccupied when a sample other than excludeID
// already sits in the well.
func wellFreeTx(ctx context.Context, tx *sql.Tx, boxID, rackID, freezerName, well string, excludeID uint64) error {
	var occupant string
	err := tx.QueryRowContext(ctx,
		`SELECT sample_name FROM samples
		 WHERE box_id=$1 AND rack_id=$2 AND freezer_name=$3 AND well=$4 AND id<>$5`,
		boxID, rackID, freezerName, well, excludeID).Scan(&occupant)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return translateDBError(err, nil)
	}
	return fmt.Errorf("well %s holds %q: %w", well, occupant, ErrWellOccupied)
}

// locationString renders a location as freezer/rack/box/well for move audit
// rows and error messages.
func locationString(freezer, rack, box, well string) string {
	return freezer + "/" + rack + "/" + box + "/" + well
}

// Add stores a new sample in the box addressed by s.BoxID/s.RackID/
// s.FreezerName at s.Well.  The box must exist, the well must parse and lie
// inside the box grid, and the well must be free.  The insert and its
// "created" history row commit together.  On success s.ID and s.DateAdded
// are populated.
func (r *SampleRepo) Add(ctx context.Context, actor Actor, box *model.Box, s *model.Sample) error {
	well, err := validateWell(s.Well, box)
	if err != nil {
		return err
	}
	s.Well = well
	s.BoxID, s.RackID, s.FreezerName = box.ID, box.RackID, box.FreezerName

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translateDBError(err, nil)
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.insertTx(ctx, tx, actor, s); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return translateDBError(err, ErrWellOccupied)
	}
	return nil
}

// AddBulk stores several samples into one box as a single all-or-nothing
// transaction, used by the CSV/bulk import endpoint.  The first invalid
// entry aborts the whole batch.
func (r *SampleRepo) AddBulk(ctx context.Context, actor Actor, box *model.Box, samples []*model.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translateDBError(err, nil)
	}
	defer func() { _ = tx.Rollback() }()

	seen := map[string]bool{}
	for _, s := range samples {
		well, err := validateWell(s.Well, box)
		if err != nil {
			return err
		}
		if seen[well] {
			return fmt.Errorf("well %s listed twice in batch: %w", well, ErrWellOccupied)
		}
		seen[well] = true
		s.Well = well
		s.BoxID, s.RackID, s.FreezerName = box.ID, box.RackID, box.FreezerName
		if err := r.insertTx(ctx, tx, actor, s); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return translateDBError(err, ErrWellOccupied)
	}
	return nil
}

// insertTx performs the occupancy check, the insert and the audit row
// within the caller's transaction.
func (r *SampleRepo) insertTx(ctx context.Context, tx *sql.Tx, actor Actor, s *model.Sample) error {
	if err := wellFreeTx(ctx, tx, s.BoxID, s.RackID, s.FreezerName, s.Well, 0); err != nil {
		return err
	}
	err := tx.QueryRowContext(ctx,
		`INSERT INTO samples (sample_name, sample_type, well, owner, notes, species, resistance, regulation, box_id, rack_id, freezer_name)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 RETURNING id, date_added`,
		s.SampleName, s.SampleType, s.Well, s.Owner, s.Notes, s.Species, s.Resistance, s.Regulation,
		s.BoxID, s.RackID, s.FreezerName).Scan(&s.ID, &s.DateAdded)
	if err != nil {
		return translateDBError(err, ErrWellOccupied)
	}
	h := historyForSample(s, actor)
	h.Action = model.ActionCreated
	return insertHistoryTx(ctx, tx, &h)
}

// sampleFields lists the mutable metadata columns tracked field-by-field in
// the audit trail.  Location changes go through Move instead.
var sampleFields = []struct {
	name string
	get  func(*model.Sample) string
	set  func(*model.Sample, string)
}{
	{"sample_name", func(s *model.Sample) string { return s.SampleName }, func(s *model.Sample, v string) { s.SampleName = v }},
	{"sample_type", func(s *model.Sample) string { return s.SampleType }, func(s *model.Sample, v string) { s.SampleType = v }},
	{"owner", func(s *model.Sample) string { return s.Owner }, func(s *model.Sample, v string) { s.Owner = v }},
	{"notes", func(s *model.Sample) string { return s.Notes }, func(s *model.Sample, v string) { s.Notes = v }},
	{"species", func(s *model.Sample) string { return s.Species }, func(s *model.Sample, v string) { s.Species = v }},
	{"resistance", func(s *model.Sample) string { return s.Resistance }, func(s *model.Sample, v string) { s.Resistance = v }},
	{"regulation", func(s *model.Sample) string { return s.Regulation }, func(s *model.Sample, v string) { s.Regulation = v }},
}

// Update applies metadata changes to a sample and writes one "updated"
// history row per changed field, all in one transaction.  Unchanged fields
// produce no audit rows.  The updated sample is returned.
func (r *SampleRepo) Update(ctx context.Context, actor Actor, id uint64, next *model.Sample) (*model.Sample, error) {
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	type change struct{ field, oldV, newV string }
	var changes []change
	for _, f := range sampleFields {
		if f.get(cur) != f.get(next) {
			changes = append(changes, change{f.name, f.get(cur), f.get(next)})
			f.set(cur, f.get(next))
		}
	}
	if len(changes) == 0 {
		return cur, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, translateDBError(err, nil)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE samples SET sample_name=$1, sample_type=$2, owner=$3, notes=$4, species=$5, resistance=$6, regulation=$7 WHERE id=$8`,
		cur.SampleName, cur.SampleType, cur.Owner, cur.Notes, cur.Species, cur.Resistance, cur.Regulation, id)
	if err != nil {
		return nil, translateDBError(err, nil)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, notFound("sample", itoa(int(id)))
	}
	for _, ch := range changes {
		h := historyForSample(cur, actor)
		h.Action = model.ActionUpdated
		field, oldV, newV := ch.field, ch.oldV, ch.newV
		h.Field, h.OldValue, h.NewValue = &field, &oldV, &newV
		if err := insertHistoryTx(ctx, tx, &h); err != nil {
			return nil, translateDBError(err, nil)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, translateDBError(err, nil)
	}
	return cur, nil
}

// Move relocates a sample into a new box/well atomically.  The target box
// must exist, the well must fit its grid and be free.  One "moved" history
// row records the old and new locations.
func (r *SampleRepo) Move(ctx context.Context, actor Actor, id uint64, target *model.Box, newWell string) (*model.Sample, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	well, err := validateWell(newWell, target)
	if err != nil {
		return nil, err
	}
	oldLoc := locationString(s.FreezerName, s.RackID, s.BoxID, s.Well)
	newLoc := locationString(target.FreezerName, target.RackID, target.ID, well)
	if oldLoc == newLoc {
		return s, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, translateDBError(err, nil)
	}
	defer func() { _ = tx.Rollback() }()

	if err := wellFreeTx(ctx, tx, target.ID, target.RackID, target.FreezerName, well, id); err != nil {
		return nil, err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE samples SET box_id=$1, rack_id=$2, freezer_name=$3, well=$4 WHERE id=$5`,
		target.ID, target.RackID, target.FreezerName, well, id)
	if err != nil {
		return nil, translateDBError(err, ErrWellOccupied)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, notFound("sample", itoa(int(id)))
	}

	s.BoxID, s.RackID, s.FreezerName, s.Well = target.ID, target.RackID, target.FreezerName, well
	h := historyForSample(s, actor)
	h.Action = model.ActionMoved
	field := "location"
	h.Field, h.OldValue, h.NewValue = &field, &oldLoc, &newLoc
	if err := insertHistoryTx(ctx, tx, &h); err != nil {
		return nil, translateDBError(err, nil)
	}
	if err := tx.Commit(); err != nil {
		return nil, translateDBError(err, ErrWellOccupied)
	}
	return s, nil
}

// Delete removes a sample and writes its "deleted" history row in the same
// transaction.  Earlier history rows are preserved so the full
// created/moved/deleted trail outlives the sample.
func (r *SampleRepo) Delete(ctx context.Context, actor Actor, id uint64) (*model.Sample, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, translateDBError(err, nil)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM samples WHERE id=$1`, id)
	if err != nil {
		return nil, translateDBError(err, nil)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, notFound("sample", itoa(int(id)))
	}
	h := historyForSample(s, actor)
	h.Action = model.ActionDeleted
	if err := insertHistoryTx(ctx, tx, &h); err != nil {
		return nil, translateDBError(err, nil)
	}
	if err := tx.Commit(); err != nil {
		return nil, translateDBError(err, nil)
	}
	return s, nil
}
