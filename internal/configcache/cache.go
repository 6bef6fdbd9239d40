package configcache

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"

	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/pkg/fileutil"
)

// Header is the first line of every generated cache.
const Header = "# Auto-generated by toolkit cache generate -- DO NOT EDIT"

// SchemaError lists the schema problems found in a toolkit.toml.
type SchemaError struct {
	Path     string
	Problems []string
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "schema validation failed for %s:", e.Path)
	for _, p := range e.Problems {
		sb.WriteString("\n  - ")
		sb.WriteString(p)
	}
	return sb.String()
}

// Load reads and decodes a toolkit.toml.
func Load(path string) (map[string]any, error) {
	raw, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var data map[string]any
	if err := toml.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrapf(err, "TOML parse error in %s", path)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

// Check loads path and validates it. When the file decodes but does not
// match the schema, the error wraps a *SchemaError and is marked with
// errors.ErrValidationFailed.
func Check(path string) (map[string]any, error) {
	data, err := Load(path)
	if err != nil {
		return nil, err
	}
	if problems := Validate(data); len(problems) > 0 {
		return nil, errors.Mark(&SchemaError{Path: path, Problems: problems}, errors.ErrValidationFailed)
	}
	return data, nil
}

// Generate validates the TOML at path and renders the cache file.
func Generate(path string) (string, error) {
	data, err := Check(path)
	if err != nil {
		return "", err
	}
	entries, err := Flatten(data, Prefix)
	if err != nil {
		return "", errors.Wrapf(err, "flattening %s", path)
	}

	content := Render(path, entries)
	if err := Verify(content); err != nil {
		return "", err
	}
	return content, nil
}

// Render lays out a cache file: header, source line, a blank line, one
// assignment per entry, and a trailing newline.
func Render(source string, entries []Entry) string {
	var sb strings.Builder
	sb.WriteString(Header)
	sb.WriteString("\n# Source: ")
	sb.WriteString(source)
	sb.WriteString("\n\n")
	for _, e := range entries {
		sb.WriteString(e.Line())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Verify parses content as bash and requires that every statement is a
// plain assignment.
func Verify(content string) error {
	_, err := parse(content)
	return err
}

// Parse reads the assignments of a cache file back into entries, in file
// order, undoing the shell quoting.
func Parse(content string) ([]Entry, error) {
	return parse(content)
}

// Read parses the cache file at path.
func Read(path string) ([]Entry, error) {
	raw, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	entries, err := parse(string(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return entries, nil
}

func parse(content string) ([]Entry, error) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash), syntax.KeepComments(false))
	file, err := parser.Parse(strings.NewReader(content), "")
	if err != nil {
		return nil, errors.Wrap(err, "generated cache is not valid bash")
	}

	var entries []Entry
	for _, stmt := range file.Stmts {
		call, ok := stmt.Cmd.(*syntax.CallExpr)
		if !ok || len(call.Args) > 0 || len(call.Assigns) == 0 {
			return nil, errors.Newf("line %d: expected a variable assignment", stmt.Pos().Line())
		}
		for _, as := range call.Assigns {
			value, err := expand.Literal(nil, as.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: expanding %s", stmt.Pos().Line(), as.Name.Value)
			}
			entries = append(entries, Entry{Key: as.Name.Value, Value: value})
		}
	}
	return entries, nil
}

// WriteCache atomically writes content to path, readable only by the owner.
func WriteCache(path, content string) error {
	return fileutil.WriteFile(path, []byte(content), fileutil.PermPrivate)
}
