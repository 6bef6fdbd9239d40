package layer

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

// SplitSpecs splits a comma-separated --stacks value, dropping blanks.
func SplitSpecs(value string) []string {
	var specs []string
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			specs = append(specs, s)
		}
	}
	return specs
}

// ResolveStacks turns stack specs into file paths, in spec order with
// duplicates removed. A spec is a glob (expanded and sorted), a path
// (anything with a separator or a recognized extension), or a bare stack
// name looked up in stacksDir. Globs and bare names without a directory
// are relative to stacksDir.
func ResolveStacks(stacksDir string, specs []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}

		switch {
		case isGlob(spec):
			matches, err := glob(stacksDir, spec)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}
		case isPath(spec):
			if _, err := os.Stat(spec); err != nil {
				return nil, errors.Wrapf(errors.ErrNotFound, "stack file not found: %s", spec)
			}
			add(spec)
		default:
			p, err := byName(stacksDir, spec)
			if err != nil {
				return nil, err
			}
			add(p)
		}
	}
	return out, nil
}

// AvailableStacks lists the stack names in stacksDir, sorted. A name
// present under several extensions is listed once.
func AvailableStacks(stacksDir string) ([]string, error) {
	entries, err := os.ReadDir(stacksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "stacks directory %s", stacksDir)
		}
		return nil, errors.Wrapf(err, "reading stacks directory %s", stacksDir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !hasLayerExt(e.Name()) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func isGlob(spec string) bool {
	return strings.ContainsAny(spec, "*?[{")
}

func isPath(spec string) bool {
	return strings.ContainsRune(spec, '/') || strings.ContainsRune(spec, filepath.Separator) || hasLayerExt(spec)
}

func hasLayerExt(name string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}

func glob(stacksDir, pattern string) ([]string, error) {
	if !filepath.IsAbs(pattern) && !strings.ContainsRune(pattern, '/') {
		pattern = filepath.Join(stacksDir, pattern)
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrapf(err, "expanding stack pattern %s", pattern)
	}

	var layers []string
	for _, m := range matches {
		if hasLayerExt(m) {
			layers = append(layers, m)
		}
	}
	if len(layers) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "no stack files match %s", pattern)
	}
	slices.Sort(layers)
	return layers, nil
}

func byName(stacksDir, name string) (string, error) {
	for _, ext := range Extensions {
		p := filepath.Join(stacksDir, name+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", errors.Wrapf(errors.ErrNotFound, "stack %q not found in %s", name, stacksDir)
}
