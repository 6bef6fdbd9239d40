package tokens

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

// Summary is usage across a set of transcripts.
type Summary struct {
	Agents   map[string]*Usage
	Files    int
	Warnings []string
}

// Total sums every agent.
func (s *Summary) Total() *Usage {
	total := &Usage{}
	for _, u := range s.Agents {
		total.Merge(u)
	}
	return total
}

// AgentIDs returns agent ids with MainAgent first, then alphabetical.
func (s *Summary) AgentIDs() []string {
	ids := make([]string, 0, len(s.Agents))
	for id := range s.Agents {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == MainAgent:
			return -1
		case b == MainAgent:
			return 1
		case a < b:
			return -1
		default:
			return 1
		}
	})
	return ids
}

// Merge folds per-agent usage into s.
func (s *Summary) Merge(agents map[string]*Usage) {
	if s.Agents == nil {
		s.Agents = make(map[string]*Usage)
	}
	for id, u := range agents {
		target, ok := s.Agents[id]
		if !ok {
			target = &Usage{}
			s.Agents[id] = target
		}
		target.Merge(u)
	}
}

// CollectFiles returns the transcripts at path: the file itself, or a
// directory's *.jsonl files followed by its */subagents/*.jsonl files,
// each group sorted.
func CollectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "path does not exist: %s", path)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	for _, pattern := range []string{"*.jsonl", "*/subagents/*.jsonl"} {
		matches, err := doublestar.FilepathGlob(filepath.Join(path, pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrapf(err, "scanning %s", path)
		}
		slices.Sort(matches)
		files = append(files, matches...)
	}
	return files, nil
}

// Analyze parses every file. Unreadable files and malformed lines become
// warnings.
func Analyze(files []string) *Summary {
	s := &Summary{Agents: make(map[string]*Usage), Files: len(files)}
	for _, f := range files {
		agents, warnings := ParseFile(f)
		s.Merge(agents)
		s.Warnings = append(s.Warnings, warnings...)
	}
	return s
}

// ParseFile reads one transcript.
func ParseFile(path string) (map[string]*Usage, []string) {
	f, err := os.Open(path)
	if err != nil {
		return map[string]*Usage{}, []string{fmt.Sprintf("Could not read %s: %v", path, err)}
	}
	defer f.Close()
	return Parse(f, filepath.Base(path))
}

// Parse reads transcript lines from r. name labels warnings.
func Parse(r io.Reader, name string) (map[string]*Usage, []string) {
	agents := make(map[string]*Usage)
	var warnings []string

	br := bufio.NewReader(r)
	for lineNum := 1; ; lineNum++ {
		line, readErr := br.ReadBytes('\n')
		if line = bytes.TrimSpace(line); len(line) > 0 {
			if !countLine(agents, line) {
				warnings = append(warnings, fmt.Sprintf("%s:%d: malformed JSON, skipping", name, lineNum))
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			warnings = append(warnings, fmt.Sprintf("Could not read %s: %v", name, readErr))
			break
		}
	}
	return agents, warnings
}

// countLine records one transcript entry and reports whether it was
// valid JSON.
func countLine(agents map[string]*Usage, line []byte) bool {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	var entry any
	if err := dec.Decode(&entry); err != nil {
		return false
	}

	obj, ok := entry.(map[string]any)
	if !ok || obj["type"] != "assistant" {
		return true
	}
	message, ok := obj["message"].(map[string]any)
	if !ok {
		return true
	}
	usage, ok := message["usage"].(map[string]any)
	if !ok {
		return true
	}

	id, _ := obj["agentId"].(string)
	if id == "" {
		id = MainAgent
	}
	model, _ := message["model"].(string)

	u, ok := agents[id]
	if !ok {
		u = &Usage{}
		agents[id] = u
	}
	u.Add(usage, model)
	return true
}
