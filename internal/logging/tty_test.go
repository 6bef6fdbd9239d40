package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTTY_Buffer(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

func TestSupportsColor(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		isTTY   bool
		want    bool
		noColor bool
	}{
		{name: "tty", isTTY: true, want: true},
		{name: "not tty", isTTY: false, want: false},
		{name: "NO_COLOR wins over tty", isTTY: true, noColor: true, want: false},
		{name: "dumb terminal", isTTY: true, env: map[string]string{"TERM": "dumb"}, want: false},
		{name: "forced on pipe", isTTY: false, env: map[string]string{"CLICOLOR_FORCE": "1"}, want: true},
		{name: "force zero ignored", isTTY: false, env: map[string]string{"CLICOLOR_FORCE": "0"}, want: false},
		{name: "NO_COLOR wins over force", noColor: true, env: map[string]string{"CLICOLOR_FORCE": "1"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TERM", "xterm-256color")
			t.Setenv("CLICOLOR_FORCE", "")
			if tt.noColor {
				t.Setenv("NO_COLOR", "1")
			} else {
				unsetEnv(t, "NO_COLOR")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tt.want, supportsColor(tt.isTTY))
		})
	}
}
