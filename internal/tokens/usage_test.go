package tokens

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricing_Validate(t *testing.T) {
	require.NoError(t, DefaultPricing().Validate())

	p := DefaultPricing()
	p.CacheRead = -1
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pricing rate 'cache_read' cannot be negative")
}

func TestUsage_Add(t *testing.T) {
	var u Usage
	u.Add(map[string]any{
		"input_tokens":                json.Number("100"),
		"output_tokens":               float64(50.9),
		"cache_creation_input_tokens": "20",
		"cache_read_input_tokens":     true,
	}, "claude-opus")
	u.Add(map[string]any{"input_tokens": json.Number("1.5")}, "<synthetic>")

	assert.Equal(t, int64(101), u.InputTokens)
	assert.Equal(t, int64(50), u.OutputTokens)
	assert.Equal(t, int64(20), u.CacheCreationTokens)
	assert.Equal(t, int64(0), u.CacheReadTokens)
	assert.Equal(t, int64(2), u.Messages)
	assert.Equal(t, []string{"claude-opus"}, u.Models())
	assert.Equal(t, int64(121), u.TotalInput())
}

func TestUsage_Cost(t *testing.T) {
	u := Usage{
		InputTokens:         1_000_000,
		OutputTokens:        1_000_000,
		CacheCreationTokens: 1_000_000,
		CacheReadTokens:     1_000_000,
	}
	assert.InDelta(t, 15+75+18.75+1.5, u.Cost(DefaultPricing()), 1e-9)
}

func TestUsage_Merge(t *testing.T) {
	a := &Usage{InputTokens: 1, Messages: 1}
	a.addModel("m1")
	b := &Usage{InputTokens: 2, Messages: 3}
	b.addModel("m2")

	a.Merge(b)
	assert.Equal(t, int64(3), a.InputTokens)
	assert.Equal(t, int64(4), a.Messages)
	assert.Equal(t, []string{"m1", "m2"}, a.Models())
}
