package pkgbump

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bcomnes/pkgbump/pkg/errors"
)

// DefaultConfigFile is read from the working directory when no config path is given.
const DefaultConfigFile = ".pkgbump.yaml"

// Config holds settings that may come from a YAML file. Command-line flags
// and environment variables override it.
type Config struct {
	Manifest    string `yaml:"manifest"`
	Changelog   string `yaml:"changelog"`
	DateFormat  string `yaml:"dateFormat"`
	Gap         string `yaml:"gap"`
	Commit      bool   `yaml:"commit"`
	TagPrefix   string `yaml:"tagPrefix"`
	AuthorName  string `yaml:"authorName"`
	AuthorEmail string `yaml:"authorEmail"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Manifest:   "package.json",
		DateFormat: "2006-01-02",
		Gap:        DefaultDateGap,
		TagPrefix:  "v",
	}
}

// LoadConfig reads the YAML config at path on top of DefaultConfig.
// A missing file is only an error when required is set. Unknown keys are rejected.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return cfg, errors.WrapWithContext(errors.ErrCodeNotFound,
			"reading config", err, map[string]any{"path": path})
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return DefaultConfig(), errors.WrapWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid config %s", path), err, map[string]any{"path": path})
	}
	return cfg, nil
}
