package queue

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleAuditEventJSON(t *testing.T) {
	ev := SampleAuditEvent{
		SampleID:   7,
		Action:     "updated",
		Field:      "owner",
		OldValue:   "marie",
		NewValue:   "pierre",
		UserID:     3,
		Username:   "admin",
		Freezer:    "F1",
		Rack:       "R2",
		Box:        "B3",
		Well:       "A1",
		SampleName: "pUC19",
		OccurredAt: "2025-06-01T12:00:00Z",
	}
	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var got SampleAuditEvent
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, ev, got)

	// empty change fields are omitted from the wire format
	data, err = json.Marshal(SampleAuditEvent{Action: "created"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "old_value")
	assert.NotContains(t, string(data), "field")
}

func TestFormatAuditLine(t *testing.T) {
	line := formatAuditLine(SampleAuditEvent{
		SampleID:   7,
		Action:     "moved",
		Field:      "location",
		OldValue:   "F1/R1/B1/A1",
		NewValue:   "F2/R1/B2/C3",
		Username:   "marie",
		Freezer:    "F2",
		Rack:       "R1",
		Box:        "B2",
		Well:       "C3",
		SampleName: "pUC19",
		OccurredAt: "2025-06-01T12:00:00Z",
	})
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "Sample moved")
	assert.Contains(t, line, "sample_id=7")
	assert.Contains(t, line, `by="marie"`)
	assert.Contains(t, line, "location=F2/R1/B2/C3")
	assert.Contains(t, line, `old="F1/R1/B1/A1"`)
}

func TestFormatAuditLineWithoutField(t *testing.T) {
	line := formatAuditLine(SampleAuditEvent{Action: "created", SampleName: "s", Username: "u"})
	assert.NotContains(t, line, "field=")
	assert.Contains(t, line, "Sample created")
}
