package treeio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/phylolayout/pkg/errors"
	"github.com/matzehuels/phylolayout/pkg/tree"
)

// =============================================================================
// Reading API
// =============================================================================

// Read decodes one record tree from r and builds it.
func Read(r io.Reader, format string) (*tree.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return Parse(data, format)
}

// ReadFile decodes the record tree stored at path. An empty format is
// inferred from the extension.
func ReadFile(path, format string) (*tree.Tree, error) {
	if format == "" {
		format = InputFormatFromPath(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data, format)
}

// Parse decodes data and builds the tree.
func Parse(data []byte, format string) (*tree.Tree, error) {
	record, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return tree.Build(record)
}

// Decode turns data into the generic record shape expected by tree.Build:
// map[string]any objects, []any lists and scalar leaves.
func Decode(data []byte, format string) (any, error) {
	if err := ValidateInputFormat(format); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.MalformedInput("empty input")
	}
	if format == FormatYAML {
		return decodeYAML(data)
	}
	return decodeJSON(data)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode JSON")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.MalformedInput("decode JSON: unexpected data after the root record")
	}
	return v, nil
}

func decodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode YAML")
	}
	return stringKeys(v), nil
}

// stringKeys rewrites YAML mappings with non-string keys into
// map[string]any so the builder sees one object shape.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = stringKeys(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = stringKeys(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = stringKeys(e)
		}
		return t
	default:
		return v
	}
}
