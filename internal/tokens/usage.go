package tokens

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

// MainAgent labels usage from the main session.
const MainAgent = "main"

// syntheticModel marks messages the client generated itself.
const syntheticModel = "<synthetic>"

// Pricing holds USD prices per million tokens.
type Pricing struct {
	Input      float64
	Output     float64
	CacheWrite float64
	CacheRead  float64
}

// DefaultPricing returns the built-in rates.
func DefaultPricing() Pricing {
	return Pricing{Input: 15.00, Output: 75.00, CacheWrite: 18.75, CacheRead: 1.50}
}

// Validate rejects negative rates.
func (p Pricing) Validate() error {
	for _, r := range []struct {
		name string
		v    float64
	}{
		{"input", p.Input},
		{"output", p.Output},
		{"cache_write", p.CacheWrite},
		{"cache_read", p.CacheRead},
	} {
		if r.v < 0 || math.IsNaN(r.v) {
			return errors.Newf("pricing rate '%s' cannot be negative: %g", r.name, r.v)
		}
	}
	return nil
}

// Usage accumulates token counts for one agent.
type Usage struct {
	InputTokens         int64
	OutputTokens        int64
	CacheCreationTokens int64
	CacheReadTokens     int64
	Messages            int64
	models              map[string]struct{}
}

// Add counts one message's usage block. Missing or non-numeric counts are
// zero.
func (u *Usage) Add(usage map[string]any, model string) {
	u.InputTokens += toInt(usage["input_tokens"])
	u.OutputTokens += toInt(usage["output_tokens"])
	u.CacheCreationTokens += toInt(usage["cache_creation_input_tokens"])
	u.CacheReadTokens += toInt(usage["cache_read_input_tokens"])
	u.Messages++
	if model != "" && model != syntheticModel {
		u.addModel(model)
	}
}

// Merge adds other's counts and models into u.
func (u *Usage) Merge(other *Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.CacheCreationTokens += other.CacheCreationTokens
	u.CacheReadTokens += other.CacheReadTokens
	u.Messages += other.Messages
	for m := range other.models {
		u.addModel(m)
	}
}

func (u *Usage) addModel(m string) {
	if u.models == nil {
		u.models = make(map[string]struct{})
	}
	u.models[m] = struct{}{}
}

// Models returns the models seen, sorted.
func (u *Usage) Models() []string {
	out := make([]string, 0, len(u.models))
	for m := range u.models {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// TotalInput counts input tokens including cache writes and reads.
func (u *Usage) TotalInput() int64 {
	return u.InputTokens + u.CacheCreationTokens + u.CacheReadTokens
}

// Cost estimates the USD cost of u.
func (u *Usage) Cost(p Pricing) float64 {
	const perMillion = 1_000_000
	return float64(u.InputTokens)/perMillion*p.Input +
		float64(u.OutputTokens)/perMillion*p.Output +
		float64(u.CacheCreationTokens)/perMillion*p.CacheWrite +
		float64(u.CacheReadTokens)/perMillion*p.CacheRead
}

// toInt reads a token count. Fractions truncate; booleans and other
// types count as zero.
func toInt(v any) int64 {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return int64(f)
		}
	case float64:
		return int64(t)
	case string:
		if i, err := strconv.ParseInt(t, 10, 64); err == nil {
			return i
		}
	}
	return 0
}
