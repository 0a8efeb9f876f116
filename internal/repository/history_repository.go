package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/lab-freezer-inventory/internal/model"
)

// Actor identifies who performed a mutation.  Every inventory write takes an
// Actor explicitly instead of reading ambient session state, so the audit
// trail always names a user.  SystemActor is used for startup provisioning.
type Actor struct {
	ID       uint64
	Username string
}

// SystemActor attributes mutations performed by the service itself.
var SystemActor = Actor{ID: 0, Username: "system"}

// HistoryRepo reads the sample_history audit trail.  Writing happens through
// insertHistoryTx inside the mutating repositories so that a history row and
// its mutation always share one transaction: if the audit insert fails the
// whole mutation rolls back.
type HistoryRepo struct{ DB *sql.DB }

func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{DB: db} }

// insertHistoryTx appends one audit row within the caller's transaction.
func insertHistoryTx(ctx context.Context, tx *sql.Tx, h *model.SampleHistory) error {
	const q = `INSERT INTO sample_history
		(sample_id, action, field, old_value, new_value, user_id, username, freezer, rack, box, well, sample_name)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, timestamp`
	return tx.QueryRowContext(ctx, q,
		h.SampleID, h.Action, h.Field, h.OldValue, h.NewValue,
		h.UserID, h.Username, h.Freezer, h.Rack, h.Box, h.Well, h.SampleName,
	).Scan(&h.ID, &h.Timestamp)
}

// historyForSample snapshots a sample's identity and location into an audit
// row skeleton.  Callers fill Action/Field/OldValue/NewValue.
func historyForSample(s *model.Sample, actor Actor) model.SampleHistory {
	return model.SampleHistory{
		SampleID:   s.ID,
		UserID:     actor.ID,
		Username:   actor.Username,
		Freezer:    s.FreezerName,
		Rack:       s.RackID,
		Box:        s.BoxID,
		Well:       s.Well,
		SampleName: s.SampleName,
	}
}

const historyColumns = `id, sample_id, action, field, old_value, new_value, user_id, username, timestamp, freezer, rack, box, well, sample_name`

func scanHistoryRows(rows *sql.Rows) ([]model.SampleHistory, error) {
	defer rows.Close()
	var out []model.SampleHistory
	for rows.Next() {
		var h model.SampleHistory
		var sampleID sql.NullInt64
		if err := rows.Scan(&h.ID, &sampleID, &h.Action, &h.Field, &h.OldValue, &h.NewValue,
			&h.UserID, &h.Username, &h.Timestamp, &h.Freezer, &h.Rack, &h.Box, &h.Well, &h.SampleName); err != nil {
			return nil, err
		}
		if sampleID.Valid {
			h.SampleID = uint64(sampleID.Int64)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ListBySample returns the full trail of one sample ordered by timestamp
// ascending with id as tiebreaker, since rows written in one transaction can
// share a timestamp.
func (r *HistoryRepo) ListBySample(ctx context.Context, sampleID uint64) ([]model.SampleHistory, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+historyColumns+` FROM sample_history WHERE sample_id=$1 ORDER BY timestamp, id`, sampleID)
	if err != nil {
		return nil, translateDBError(err, nil)
	}
	return scanHistoryRows(rows)
}

// HistoryFilter narrows the global audit listing.  Zero values mean "no
// filter".  Location and name filters match substrings, mirroring the
// original history browser.
type HistoryFilter struct {
	Actions    []string
	Username   string
	Freezer    string
	Rack       string
	Box        string
	SampleName string
	From       time.Time
	To         time.Time
	Limit      int
}

// buildHistoryFilter renders the filter into a WHERE clause and argument
// list.  Kept separate from ListFiltered for testability.
func buildHistoryFilter(f HistoryFilter) (string, []any) {
	where := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + itoa(len(args))
	}
	if len(f.Actions) > 0 {
		ph := make([]string, len(f.Actions))
		for i, a := range f.Actions {
			ph[i] = arg(a)
		}
		where = append(where, "action IN ("+strings.Join(ph, ",")+")")
	}
	if f.Username != "" {
		where = append(where, "username = "+arg(f.Username))
	}
	if f.Freezer != "" {
		where = append(where, "freezer LIKE "+arg("%"+f.Freezer+"%"))
	}
	if f.Rack != "" {
		where = append(where, "rack LIKE "+arg("%"+f.Rack+"%"))
	}
	if f.Box != "" {
		where = append(where, "box LIKE "+arg("%"+f.Box+"%"))
	}
	if f.SampleName != "" {
		where = append(where, "sample_name LIKE "+arg("%"+f.SampleName+"%"))
	}
	if !f.From.IsZero() {
		where = append(where, "timestamp >= "+arg(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "timestamp <= "+arg(f.To))
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return cond, args
}

// ListFiltered returns matching audit rows newest first.
func (r *HistoryRepo) ListFiltered(ctx context.Context, f HistoryFilter) ([]model.SampleHistory, error) {
	cond, args := buildHistoryFilter(f)
	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	args = append(args, limit)
	q := `SELECT ` + historyColumns + ` FROM sample_history WHERE ` + cond +
		` ORDER BY timestamp DESC, id DESC LIMIT $` + itoa(len(args))
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translateDBError(err, nil)
	}
	return scanHistoryRows(rows)
}

// itoa avoids importing strconv into every query builder call site.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b [8]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[i:])
}
