package tree

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

// ErrNotObject indicates a document whose top level is not a JSON object.
var ErrNotObject = errors.New("top-level value must be an object")

// Decode reads one JSON document from r. Numbers are kept as json.Number
// and the top level must be an object. Trailing data is an error.
func Decode(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if err == io.EOF {
			return nil, errors.New("empty document")
		}
		return nil, errors.Wrap(err, "parsing JSON")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("parsing JSON: unexpected data after top-level value")
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.Wrapf(ErrNotObject, "got %s", TypeName(v))
	}
	return m, nil
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(data []byte) (map[string]any, error) {
	return Decode(bytes.NewReader(data))
}

// Marshal serializes v deterministically: object keys sorted at every
// level, arrays in their given order, two-space indentation, no HTML
// escaping, and a single trailing newline.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "encoding JSON")
	}
	return buf.Bytes(), nil
}
