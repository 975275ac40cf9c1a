package treeio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/phylolayout/pkg/layout"
)

// =============================================================================
// Writing API
// =============================================================================

// Marshal encodes records in the given output format. An empty format
// selects JSON. The context is only used to initialize Graphviz for DOT.
func Marshal(ctx context.Context, records []layout.Record, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if records == nil {
		records = []layout.Record{}
	}

	switch format {
	case FormatJSONL:
		return marshalJSONL(records)
	case FormatMsgpack:
		return marshalMsgpack(records)
	case FormatDOT:
		dot := []byte(ToDOT(records))
		if err := validateDOT(ctx, dot); err != nil {
			return nil, err
		}
		return dot, nil
	default:
		return marshalJSON(records)
	}
}

// Write encodes records and writes them to w in a single call.
func Write(ctx context.Context, w io.Writer, records []layout.Record, format string) error {
	data, err := Marshal(ctx, records, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// WriteFile encodes records and writes them to path.
// The file is created with 0644 permissions.
func WriteFile(ctx context.Context, path string, records []layout.Record, format string) error {
	data, err := Marshal(ctx, records, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func marshalJSON(records []layout.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

func marshalJSONL(records []layout.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i, r := range records {
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

func marshalMsgpack(records []layout.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)

	if err := enc.EncodeArrayLen(len(records)); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	for i, r := range records {
		if err := enc.Encode(plain(r.Map())); err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// plain converts json.Number values, which msgpack would otherwise write as
// strings, into int64 or float64.
func plain(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plain(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = plain(e)
		}
		return s
	default:
		return v
	}
}
