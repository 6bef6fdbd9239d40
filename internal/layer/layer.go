package layer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/internal/tree"
	"github.com/donygeorge/claude-toolkit/pkg/fileutil"
)

// Format is the on-disk encoding of a layer.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	// FormatDotenv reads KEY=value lines into the "env" block.
	FormatDotenv Format = "dotenv"
)

// EnvKey is the settings key a dotenv layer populates.
const EnvKey = "env"

// Extensions lists the recognized layer extensions in resolution order.
var Extensions = []string{".json", ".jsonc", ".yaml", ".yml", ".toml"}

// Kind identifies a layer's role in composition.
type Kind string

const (
	KindBase    Kind = "base"
	KindStack   Kind = "stack"
	KindProject Kind = "project"
	KindMCP     Kind = "mcp"
)

// Source describes where a layer came from.
type Source struct {
	Name string
	Path string
	Kind Kind
}

// NewSource names a layer after its file, without directory or extension.
func NewSource(path string, kind Kind) Source {
	base := filepath.Base(path)
	return Source{
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
		Path: path,
		Kind: kind,
	}
}

// FormatOf picks a format from the file extension. Unknown extensions are
// read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".env":
		return FormatDotenv
	default:
		return FormatJSON
	}
}

// Load reads and parses the layer at path.
func Load(path string) (map[string]any, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "layer file %s", path)
		}
		return nil, errors.Wrapf(err, "reading layer %s", path)
	}

	m, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, errors.Wrapf(err, "loading layer %s", path)
	}
	return m, nil
}

// Parse decodes a layer document. Any failure, including a top level that
// is not an object, is marked with [errors.ErrInvalidLayer].
func Parse(data []byte, format Format) (map[string]any, error) {
	m, err := parse(data, format)
	if err != nil {
		return nil, errors.Mark(err, errors.ErrInvalidLayer)
	}
	return m, nil
}

func parse(data []byte, format Format) (map[string]any, error) {
	switch format {
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, errors.Wrap(err, "parsing YAML")
		}
		if v == nil {
			return nil, errors.New("empty document")
		}
		return normalized(v)
	case FormatTOML:
		var v map[string]any
		if err := toml.Unmarshal(data, &v); err != nil {
			return nil, errors.Wrap(err, "parsing TOML")
		}
		if v == nil {
			v = map[string]any{}
		}
		return normalized(v)
	case FormatDotenv:
		vars, err := godotenv.UnmarshalBytes(data)
		if err != nil {
			return nil, errors.Wrap(err, "parsing dotenv")
		}
		env := make(map[string]any, len(vars))
		for k, v := range vars {
			env[k] = v
		}
		return map[string]any{EnvKey: env}, nil
	default:
		return tree.DecodeBytes(jsonc.ToJSON(data))
	}
}

func normalized(v any) (map[string]any, error) {
	n, err := tree.Normalize(v)
	if err != nil {
		return nil, err
	}
	m, ok := n.(map[string]any)
	if !ok {
		return nil, errors.Wrapf(tree.ErrNotObject, "got %s", tree.TypeName(n))
	}
	return m, nil
}
