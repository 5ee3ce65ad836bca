package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderKeepsLineBreaks(t *testing.T) {
	out, err := Render("Exam moved\nBring a pencil")
	require.NoError(t, err)
	assert.Contains(t, out, "<br")
	assert.Contains(t, out, "Bring a pencil")
}

func TestRenderEscapesRawHTML(t *testing.T) {
	out, err := Render("<script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestRenderEmpty(t *testing.T) {
	out, err := Render("")
	require.NoError(t, err)
	assert.Empty(t, out)
}
