package repository

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/lab-freezer-inventory/internal/model"
)

// SampleSearchQuery carries the cross-inventory search filters.  Zero values
// mean "no filter".  Q matches name, owner, notes and species at once; the
// dedicated fields narrow a single column.  Text matching is case-insensitive
// substring matching.
type SampleSearchQuery struct {
	Q          string
	Name       string
	Type       string
	Owner      string
	Species    string
	Resistance string
	Regulation string
	Freezer    string
	Rack       string
	Box        string
	From       time.Time
	To         time.Time
	Page       int
	PerPage    int
}

// SampleSearchResult is one page of matches plus the total match count, so
// clients can render pagination without a second round trip.
type SampleSearchResult struct {
	Samples []model.Sample `json:"samples"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"page_size"`
}

// buildSampleSearch renders the query into a WHERE clause and argument list.
// Kept separate from Search for testability.
func buildSampleSearch(q SampleSearchQuery) (string, []any) {
	where := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + itoa(len(args))
	}
	like := func(col, v string) {
		where = append(where, col+" ILIKE "+arg("%"+v+"%"))
	}
	if q.Q != "" {
		p := arg("%" + q.Q + "%")
		where = append(where,
			"(sample_name ILIKE "+p+" OR owner ILIKE "+p+" OR notes ILIKE "+p+" OR species ILIKE "+p+")")
	}
	if q.Name != "" {
		like("sample_name", q.Name)
	}
	if q.Type != "" {
		where = append(where, "sample_type = "+arg(q.Type))
	}
	if q.Owner != "" {
		like("owner", q.Owner)
	}
	if q.Species != "" {
		like("species", q.Species)
	}
	if q.Resistance != "" {
		like("resistance", q.Resistance)
	}
	if q.Regulation != "" {
		like("regulation", q.Regulation)
	}
	if q.Freezer != "" {
		where = append(where, "freezer_name = "+arg(q.Freezer))
	}
	if q.Rack != "" {
		where = append(where, "rack_id = "+arg(q.Rack))
	}
	if q.Box != "" {
		where = append(where, "box_id = "+arg(q.Box))
	}
	if !q.From.IsZero() {
		where = append(where, "date_added >= "+arg(q.From))
	}
	if !q.To.IsZero() {
		where = append(where, "date_added <= "+arg(q.To))
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return cond, args
}

// Search runs a filtered, paginated query across the whole inventory, newest
// samples first.  A query with no filters lists everything page by page.
func (r *SampleRepo) Search(ctx context.Context, q SampleSearchQuery) (*SampleSearchResult, error) {
	cond, args := buildSampleSearch(q)

	res := &SampleSearchResult{Page: q.Page, PerPage: q.PerPage}
	if res.Page < 1 {
		res.Page = 1
	}
	if res.PerPage < 1 || res.PerPage > 200 {
		res.PerPage = 50
	}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM samples WHERE `+cond, args...).Scan(&res.Total); err != nil {
		return nil, translateDBError(err, nil)
	}

	args = append(args, res.PerPage, (res.Page-1)*res.PerPage)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sampleColumns+` FROM samples WHERE `+cond+
			` ORDER BY date_added DESC, id DESC LIMIT $`+itoa(len(args)-1)+` OFFSET $`+itoa(len(args)),
		args...)
	if err != nil {
		return nil, translateDBError(err, nil)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		res.Samples = append(res.Samples, s)
	}
	return res, rows.Err()
}
