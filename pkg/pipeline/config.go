package pipeline

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pacefig/pkg/errors"
)

// LoadConfig reads Options from a TOML file. Keys that do not map to an
// Options field are an INVALID_CONFIG error.
// The returned Options are not yet validated.
func LoadConfig(path string) (Options, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Options{}, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Options{}, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	var opts Options
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}
