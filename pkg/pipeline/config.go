package pipeline

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/phylolayout/pkg/errors"
)

// LoadConfig reads Options from a TOML file. Unknown keys are rejected so
// that typos do not silently fall back to defaults.
//
//	width = 800
//	height = 600
//	format = "jsonl"
//	include_parent = true
//	thin = 200
//	anchors = ["outgroup"]
func LoadConfig(path string) (Options, error) {
	var opts Options
	meta, err := toml.DecodeFile(path, &opts)
	if err != nil {
		if os.IsNotExist(err) {
			return Options{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open config %s", path)
		}
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}
