package settings

import (
	"context"

	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/internal/layer"
	"github.com/donygeorge/claude-toolkit/internal/logging"
	"github.com/donygeorge/claude-toolkit/internal/merge"
	"github.com/donygeorge/claude-toolkit/internal/schema"
	"github.com/donygeorge/claude-toolkit/internal/security"
	"github.com/donygeorge/claude-toolkit/internal/validator"
)

// Options selects the layers to compose.
type Options struct {
	// BasePath is the required base settings layer.
	BasePath string
	// StackPaths are overlays applied in order.
	StackPaths []string
	// ProjectPath is the optional project overlay, applied last.
	ProjectPath string
	// MCPBasePath enables the MCP registry pass when set.
	MCPBasePath string
	// Merge configures the merge engine. Zero fields take defaults.
	Merge merge.Options
}

// Result is the outcome of one generation.
type Result struct {
	Settings map[string]any
	// MCP is nil unless Options.MCPBasePath was set.
	MCP map[string]any
	// Layers lists the sources in composition order.
	Layers   []layer.Source
	Warnings []string
	Errors   []string
}

// Valid reports whether the result may be written.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Validation converts the findings for reporting.
func (r *Result) Validation() *validator.Result {
	return validator.FromMessages("settings", r.Errors, r.Warnings)
}

// Generate composes the layers named by opts. Load failures are returned
// as errors; validation findings are reported in the Result.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	if opts.BasePath == "" {
		return nil, errors.New("base settings path is required")
	}
	m := merge.New(opts.Merge)
	res := &Result{}

	load := func(path string, kind layer.Kind) (map[string]any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src := layer.NewSource(path, kind)
		data, err := layer.Load(path)
		if err != nil {
			return nil, err
		}
		res.Layers = append(res.Layers, src)
		logger.Debug("loaded layer", "layer", src.Name, "kind", string(src.Kind), "path", src.Path, "keys", len(data))
		return data, nil
	}

	base, err := load(opts.BasePath, layer.KindBase)
	if err != nil {
		return nil, err
	}

	stacks := make([]map[string]any, 0, len(opts.StackPaths))
	for _, p := range opts.StackPaths {
		s, err := load(p, layer.KindStack)
		if err != nil {
			return nil, err
		}
		stacks = append(stacks, s)
	}

	var project map[string]any
	if opts.ProjectPath != "" {
		if project, err = load(opts.ProjectPath, layer.KindProject); err != nil {
			return nil, err
		}
	}

	res.Settings = m.ComposeLayers(base, stacks, project)
	res.Warnings = schema.Check(res.Settings)
	res.Errors = security.ValidateMerged(res.Settings)

	for _, w := range res.Warnings {
		logger.Debug("schema warning", "warning", w)
	}
	logger.Info("composed settings",
		"stacks", len(stacks),
		"project", project != nil,
		"warnings", len(res.Warnings),
		"errors", len(res.Errors))

	if opts.MCPBasePath != "" {
		mcpBase, err := load(opts.MCPBasePath, layer.KindMCP)
		if err != nil {
			return nil, err
		}
		res.MCP = m.MergeServerRegistry(mcpBase, m.ProjectRegistryOverlay(project))
		if reg, ok := res.MCP[m.Options().RegistryKey].(map[string]any); ok {
			logger.Info("merged MCP registry", "servers", len(reg))
		}
	}

	return res, nil
}
