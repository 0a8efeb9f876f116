package repository

import (
	"context"
	"database/sql"
)

// BoxUtilization reports how full one box is.  Capacity is rows*columns of
// the box grid; Percent is rounded to one decimal.
type BoxUtilization struct {
	FreezerName string  `json:"freezer_name"`
	RackID      string  `json:"rack_id"`
	BoxID       string  `json:"box_id"`
	BoxName     string  `json:"box_name"`
	Capacity    int     `json:"capacity"`
	Occupied    int     `json:"occupied"`
	Percent     float64 `json:"percent"`
}

// FreezerUtilization aggregates the boxes of one freezer.
type FreezerUtilization struct {
	FreezerName string  `json:"freezer_name"`
	Racks       int     `json:"racks"`
	Boxes       int     `json:"boxes"`
	Capacity    int     `json:"capacity"`
	Occupied    int     `json:"occupied"`
	Percent     float64 `json:"percent"`
}

// StatsRepo computes inventory utilization figures for the dashboard.
type StatsRepo struct{ db *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

func pct(occupied, capacity int) float64 {
	if capacity == 0 {
		return 0
	}
	return float64(int(float64(occupied)/float64(capacity)*1000+0.5)) / 10
}

// BoxUtilizations returns one row per box with its fill level, optionally
// restricted to a single freezer.  Boxes with no samples still appear, which
// is what makes the view useful for finding free space.
func (r *StatsRepo) BoxUtilizations(ctx context.Context, freezerName string) ([]BoxUtilization, error) {
	q := `SELECT b.freezer_name, b.rack_id, b.id, b.box_name, b."rows"*b.columns, COUNT(s.id)
	      FROM boxes b
	      LEFT JOIN samples s ON s.box_id=b.id AND s.rack_id=b.rack_id AND s.freezer_name=b.freezer_name`
	args := []any{}
	if freezerName != "" {
		q += ` WHERE b.freezer_name=$1`
		args = append(args, freezerName)
	}
	q += ` GROUP BY b.freezer_name, b.rack_id, b.id, b.box_name, b."rows", b.columns
	       ORDER BY b.freezer_name, b.rack_id, b.id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translateDBError(err, nil)
	}
	defer rows.Close()

	var out []BoxUtilization
	for rows.Next() {
		var u BoxUtilization
		if err := rows.Scan(&u.FreezerName, &u.RackID, &u.BoxID, &u.BoxName, &u.Capacity, &u.Occupied); err != nil {
			return nil, err
		}
		u.Percent = pct(u.Occupied, u.Capacity)
		out = append(out, u)
	}
	return out, rows.Err()
}

// FreezerUtilizations rolls box fill levels up to one row per freezer.
// Freezers with no racks yet appear with zero capacity.
func (r *StatsRepo) FreezerUtilizations(ctx context.Context) ([]FreezerUtilization, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT f.name,
		        COUNT(DISTINCT r.id),
		        COUNT(DISTINCT b.freezer_name || '/' || b.rack_id || '/' || b.id),
		        COALESCE(SUM(b."rows"*b.columns), 0)
		 FROM freezers f
		 LEFT JOIN racks r ON r.freezer_name=f.name
		 LEFT JOIN boxes b ON b.rack_id=r.id AND b.freezer_name=f.name
		 GROUP BY f.name ORDER BY f.name`)
	if err != nil {
		return nil, translateDBError(err, nil)
	}
	defer rows.Close()

	var out []FreezerUtilization
	index := map[string]int{}
	for rows.Next() {
		var u FreezerUtilization
		if err := rows.Scan(&u.FreezerName, &u.Racks, &u.Boxes, &u.Capacity); err != nil {
			return nil, err
		}
		index[u.FreezerName] = len(out)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts, err := r.db.QueryContext(ctx,
		`SELECT freezer_name, COUNT(*) FROM samples GROUP BY freezer_name`)
	if err != nil {
		return nil, translateDBError(err, nil)
	}
	defer counts.Close()
	for counts.Next() {
		var name string
		var n int
		if err := counts.Scan(&name, &n); err != nil {
			return nil, err
		}
		if i, ok := index[name]; ok {
			out[i].Occupied = n
		}
	}
	if err := counts.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Percent = pct(out[i].Occupied, out[i].Capacity)
	}
	return out, nil
}
