package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

const transcript = `{"type":"user","message":{"content":"hi"}}
{"type":"assistant","message":{"model":"claude-test","usage":{"input_tokens":1000000,"output_tokens":0}}}
{not json
`

func TestTokens(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "session.jsonl"), transcript)

	cmd, out, errOut := newTestCmd(t)
	f := tokensFlags{
		input:        dir,
		warnings:     true,
		inputPrice:   3,
		changedPrice: map[string]bool{"pricing-input": true},
	}
	require.NoError(t, runTokens(cmd, f))

	assert.Contains(t, out.String(), "Session Token Usage Summary (1 file(s) analyzed)")
	assert.Contains(t, out.String(), "input $3.00, output $75.00")
	assert.Contains(t, out.String(), "Models: claude-test")
	assert.Contains(t, out.String(), "Estimated session cost: $3.00")
	assert.Contains(t, errOut.String(), "malformed JSON, skipping")
}

func TestTokens_Errors(t *testing.T) {
	tests := []struct {
		name  string
		flags func(dir string) tokensFlags
		want  string
	}{
		{
			name:  "missing input",
			flags: func(dir string) tokensFlags { return tokensFlags{input: filepath.Join(dir, "nope")} },
			want:  "not found",
		},
		{
			name:  "empty directory",
			flags: func(dir string) tokensFlags { return tokensFlags{input: dir} },
			want:  "no .jsonl files found in",
		},
		{
			name: "negative price",
			flags: func(dir string) tokensFlags {
				return tokensFlags{input: dir, cacheRead: -1, changedPrice: map[string]bool{"pricing-cache-read": true}}
			},
			want: "pricing rate 'cache_read' cannot be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, out, _ := newTestCmd(t)
			err := runTokens(cmd, tt.flags(t.TempDir()))
			require.Error(t, err)
			assert.Equal(t, errors.ExitUser, errors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, out.String())
		})
	}
}
