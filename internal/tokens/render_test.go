package tokens

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0042", FormatCost(0.0042))
	assert.Equal(t, "$0.01", FormatCost(0.01))
	assert.Equal(t, "$1,234.50", FormatCost(1234.5))
}

func TestFormatTokens(t *testing.T) {
	assert.Equal(t, "0", FormatTokens(0))
	assert.Equal(t, "1,234,567", FormatTokens(1234567))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "main", label("main"))
	assert.Equal(t, "abcdefghijklmno~", label("abcdefghijklmnopqrstuvwxyz"))
}

func TestRender(t *testing.T) {
	agents, _ := Parse(strings.NewReader(transcript), "s.jsonl")
	s := &Summary{Files: 1}
	s.Merge(agents)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s, DefaultPricing()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Session Token Usage Summary (1 file(s) analyzed)\n"))
	assert.Contains(t, out, "Cache Write")
	assert.Contains(t, out, "TOTAL")
	assert.Less(t, strings.Index(out, "main"), strings.Index(out, "explorer"))
	assert.Contains(t, out, "Models: claude-haiku, claude-opus\n")
	assert.Contains(t, out, "Total tokens processed: 25\n")
	assert.Contains(t, out, "Estimated session cost: $")
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, &Summary{}, DefaultPricing()))
	assert.Equal(t, "No token usage data found.\n", buf.String())
}
