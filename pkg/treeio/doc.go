// Package treeio reads hierarchical tree records and writes layout records.
//
// # Input
//
// The input is a single record tree: objects with "type" ("node" or "leaf"),
// optional "name" and "brlen", and a "children" list on nodes. Two encodings
// are accepted:
//
//   - json: numbers are kept verbatim as [encoding/json.Number] so that
//     attributes round-trip unchanged
//   - yaml: decoded with gopkg.in/yaml.v3; mapping keys are converted to strings
//
// [ReadFile] picks the encoding from the file extension when none is given.
//
// # Output
//
// Layout records are written in emission order in one of four encodings:
//
//   - json: an indented array of objects with sorted keys
//   - jsonl: one compact object per line
//   - msgpack: an array of maps with sorted keys
//   - dot: a Graphviz digraph with pinned node positions
//
// Every encoding is produced fully in memory by [Marshal] so that a failure
// never leaves partial output behind. DOT output is parsed back with
// github.com/goccy/go-graphviz before it is returned.
package treeio
