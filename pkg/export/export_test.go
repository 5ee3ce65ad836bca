package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Dataset {
	return Dataset{
		Title:   "Class 7B notices",
		Headers: []string{"Type", "Title", "Content"},
		Rows: [][]string{
			{"warning", "Exam", "Bring pencils,\nand an eraser"},
			{"info", "Lunch", strings.Repeat("Pizza day. ", 60)},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestCSVRender(t *testing.T) {
	out, err := For(FormatCSV).Render(sample())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "Type,Title,Content\n"))
	assert.Contains(t, string(out), "\"Bring pencils,\nand an eraser\"")
}

func TestPDFRender(t *testing.T) {
	r := For(FormatPDF)
	out, err := r.Render(sample())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, "application/pdf", r.ContentType())
}

func TestRenderRejectsRaggedRows(t *testing.T) {
	data := Dataset{Headers: []string{"a", "b"}, Rows: [][]string{{"only one"}}}
	_, err := NewCSVExporter().Render(data)
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestColumnWidthsFillPage(t *testing.T) {
	widths := columnWidths(4)
	total := 0.0
	for _, w := range widths {
		total += w
	}
	assert.InDelta(t, pageWidth, total, 0.001)
	assert.Greater(t, widths[3], widths[0])
}
