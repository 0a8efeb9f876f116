package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildHistoryFilterEmpty(t *testing.T) {
	cond, args := buildHistoryFilter(HistoryFilter{})
	assert.Equal(t, "1=1", cond)
	assert.Empty(t, args)
}

func TestBuildHistoryFilterActions(t *testing.T) {
	cond, args := buildHistoryFilter(HistoryFilter{Actions: []string{"created", "deleted"}})
	assert.Equal(t, "action IN ($1,$2)", cond)
	assert.Equal(t, []any{"created", "deleted"}, args)
}

func TestBuildHistoryFilterCombined(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	cond, args := buildHistoryFilter(HistoryFilter{
		Actions:  []string{"moved"},
		Username: "marie",
		Freezer:  "F1",
		From:     from,
		To:       to,
	})
	assert.Equal(t,
		"action IN ($1) AND username = $2 AND freezer LIKE $3 AND timestamp >= $4 AND timestamp <= $5",
		cond)
	assert.Equal(t, []any{"moved", "marie", "%F1%", from, to}, args)
}

func TestBuildHistoryFilterLocationSubstrings(t *testing.T) {
	cond, args := buildHistoryFilter(HistoryFilter{Rack: "R2", Box: "B3", SampleName: "pUC"})
	assert.Equal(t, "rack LIKE $1 AND box LIKE $2 AND sample_name LIKE $3", cond)
	assert.Equal(t, []any{"%R2%", "%B3%", "%pUC%"}, args)
}

func TestBuildSampleSearchEmpty(t *testing.T) {
	cond, args := buildSampleSearch(SampleSearchQuery{})
	assert.Equal(t, "1=1", cond)
	assert.Empty(t, args)
}

func TestBuildSampleSearchFreeText(t *testing.T) {
	cond, args := buildSampleSearch(SampleSearchQuery{Q: "coli"})
	assert.Equal(t,
		"(sample_name ILIKE $1 OR owner ILIKE $1 OR notes ILIKE $1 OR species ILIKE $1)",
		cond)
	assert.Equal(t, []any{"%coli%"}, args)
}

func TestBuildSampleSearchExactAndSubstring(t *testing.T) {
	cond, args := buildSampleSearch(SampleSearchQuery{
		Type:    "DNA",
		Owner:   "marie",
		Freezer: "F1",
		Rack:    "R2",
		Box:     "B3",
	})
	assert.Equal(t,
		"sample_type = $1 AND owner ILIKE $2 AND freezer_name = $3 AND rack_id = $4 AND box_id = $5",
		cond)
	assert.Equal(t, []any{"DNA", "%marie%", "F1", "R2", "B3"}, args)
}

func TestBuildSampleSearchDateRange(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cond, args := buildSampleSearch(SampleSearchQuery{Name: "pUC19", From: from})
	assert.Equal(t, "sample_name ILIKE $1 AND date_added >= $2", cond)
	assert.Equal(t, []any{"%pUC19%", from}, args)
}

func TestItoa(t *testing.T) {
	assert.Equal(t, "0", itoa(0))
	assert.Equal(t, "7", itoa(7))
	assert.Equal(t, "42", itoa(42))
	assert.Equal(t, "1000", itoa(1000))
}
