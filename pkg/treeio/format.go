package treeio

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/phylolayout/pkg/errors"
)

// Encodings.
const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatJSONL   = "jsonl"
	FormatMsgpack = "msgpack"
	FormatDOT     = "dot"
)

var (
	// InputFormats lists the encodings Read accepts.
	InputFormats = []string{FormatJSON, FormatYAML}

	// OutputFormats lists the encodings Marshal produces.
	OutputFormats = []string{FormatJSON, FormatJSONL, FormatMsgpack, FormatDOT}
)

// ValidateInputFormat returns an INVALID_FORMAT error for unknown input
// encodings. The empty string selects JSON.
func ValidateInputFormat(format string) error {
	if format == "" || slices.Contains(InputFormats, format) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported input format %q (valid: %s)",
		format, strings.Join(InputFormats, ", "))
}

// ValidateFormat returns an INVALID_FORMAT error for unknown output
// encodings. The empty string selects JSON.
func ValidateFormat(format string) error {
	if format == "" || slices.Contains(OutputFormats, format) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported output format %q (valid: %s)",
		format, strings.Join(OutputFormats, ", "))
}

// InputFormatFromPath guesses the input encoding from a file extension.
// Anything other than .yaml or .yml is treated as JSON.
func InputFormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
