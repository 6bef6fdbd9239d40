package smartcontext

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/internal/paths"
	"github.com/donygeorge/claude-toolkit/pkg/fileutil"
)

// Defaults for Options.
const (
	DefaultSuffix  = "-domain.md"
	DefaultMaxSize = 8 * 1024
)

// alwaysScore ranks always-included files above any keyword score.
const alwaysScore = 999

var keywordsRe = regexp.MustCompile(`<!--\s*keywords:\s*([^>]+)\s*-->`)

// Options configures context loading.
type Options struct {
	// ContextDir is relative to the prompt's cwd.
	ContextDir    string
	Suffix        string
	AlwaysInclude []string
	MaxSize       int
}

func (o Options) withDefaults() Options {
	if o.ContextDir == "" {
		o.ContextDir = paths.DefaultContextDir
	}
	if o.Suffix == "" {
		o.Suffix = DefaultSuffix
	}
	if o.MaxSize <= 0 {
		o.MaxSize = DefaultMaxSize
	}
	return o
}

// Match is one context file selected for a prompt.
type Match struct {
	Name    string
	Score   int
	Content string
}

// Tag labels the match in the loaded-context header.
func (m Match) Tag() string {
	if m.Score == alwaysScore {
		return "[always] " + m.Name
	}
	return fmt.Sprintf("[score=%d] %s", m.Score, m.Name)
}

// ExtractKeywords returns the lowercased keywords declared in content.
func ExtractKeywords(content string) []string {
	m := keywordsRe.FindStringSubmatch(content)
	if m == nil {
		return nil
	}
	parts := strings.Split(m[1], ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return out
}

// Load selects context files in dir for prompt. A missing dir yields no
// matches; unreadable or empty files are skipped.
func Load(fsys afero.Fs, dir, prompt string, opts Options) ([]Match, error) {
	opts = opts.withDefaults()
	prompt = strings.ToLower(prompt)

	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		if exists, _ := afero.DirExists(fsys, dir); !exists {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading context dir %s", dir)
	}

	var scored []Match
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, opts.Suffix) {
			continue
		}
		if e.Size() > fileutil.MaxFileSize {
			slog.Debug("context file too large", "file", name, "size", e.Size())
			continue
		}
		data, err := afero.ReadFile(fsys, filepath.Join(dir, name))
		if err != nil {
			slog.Debug("skipping unreadable context file", "file", name, "error", err)
			continue
		}
		if len(data) == 0 {
			continue
		}
		content := string(data)

		if slices.Contains(opts.AlwaysInclude, name) {
			scored = append(scored, Match{Name: name, Score: alwaysScore, Content: content})
			continue
		}
		score := 0
		for _, kw := range ExtractKeywords(content) {
			if strings.Contains(prompt, kw) {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, Match{Name: name, Score: score, Content: content})
		}
	}

	// ReadDir sorts by name, so ties keep name order.
	slices.SortStableFunc(scored, func(a, b Match) int { return b.Score - a.Score })

	var out []Match
	total := 0
	for _, m := range scored {
		if total+len(m.Content) > opts.MaxSize {
			continue
		}
		out = append(out, m)
		total += len(m.Content)
	}
	return out, nil
}

// Render formats matches as hook output: a header comment naming the
// loaded files, then the contents joined by "---" separators.
func Render(matches []Match) string {
	if len(matches) == 0 {
		return ""
	}
	tags := make([]string, len(matches))
	contents := make([]string, len(matches))
	for i, m := range matches {
		tags[i] = m.Tag()
		contents[i] = m.Content
	}
	return "<!-- Loaded context: " + strings.Join(tags, ", ") + " -->\n" +
		strings.Join(contents, "\n---\n") + "\n"
}

type hookInput struct {
	Prompt string `json:"prompt"`
	Cwd    string `json:"cwd"`
}

// Run reads a hook payload from stdin and writes matched context to
// stdout. Malformed or incomplete payloads produce no output and no
// error, so a misconfigured hook never blocks a prompt.
func Run(fsys afero.Fs, stdin io.Reader, stdout io.Writer, opts Options) error {
	opts = opts.withDefaults()

	data, err := fileutil.ReadAllWithLimit(stdin)
	if err != nil {
		slog.Debug("smart-context: unreadable input", "error", err)
		return nil
	}
	var in hookInput
	if err := json.Unmarshal(data, &in); err != nil {
		slog.Debug("smart-context: malformed input", "error", err)
		return nil
	}
	if in.Prompt == "" || in.Cwd == "" {
		return nil
	}

	dir := opts.ContextDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(in.Cwd, dir)
	}
	matches, err := Load(fsys, dir, in.Prompt, opts)
	if err != nil {
		slog.Debug("smart-context: loading context", "error", err)
		return nil
	}
	if len(matches) == 0 {
		return nil
	}
	slog.Debug("smart-context: loaded", "files", len(matches))
	_, err = io.WriteString(stdout, Render(matches))
	return errors.Wrap(err, "writing context")
}
