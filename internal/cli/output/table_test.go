package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRender(t *testing.T) {
	table := NewTable("ID", "STATUS", "PROGRESS")
	table.AddRow("rec_1", "in_progress", 40)
	table.AddRow("rec_2", "completed", 100)

	var buf bytes.Buffer
	require.NoError(t, table.Render(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[1], "rec_1")
	assert.Contains(t, lines[2], "100")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatJSON)
	require.NoError(t, f.Format(&buf, map[string]int{"total": 3}))
	assert.Contains(t, buf.String(), `"total": 3`)
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatTable)
	require.NoError(t, f.Format(&buf, map[string]string{"status": "healthy"}))
	assert.Contains(t, buf.String(), "healthy")
}
