// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces environment overrides, e.g. ACEKIT_LOG_LEVEL.
const EnvPrefix = "ACEKIT_"

// DefaultPath is tried when no config file is named; it may be absent.
const DefaultPath = "acekit.yaml"

type Config struct {
	LogLevel         string `yaml:"log_level"`
	QualityThreshold int    `yaml:"quality_threshold"`
	QueueSize        int    `yaml:"queue_size"`
	BaseSegments     bool   `yaml:"base_segments"`
	Output           string `yaml:"output"`
}

func Default() Config {
	return Config{
		LogLevel:         "info",
		QualityThreshold: 26,
		QueueSize:        4,
		Output:           "text",
	}
}

// Load reads defaults, then the YAML file at path, then ACEKIT_* variables
// from env. An empty path falls back to DefaultPath, which is optional; a
// named file that cannot be read is an error.
func Load(path string, env func(string) (string, bool)) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.UnmarshalStrict(raw, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "config %s", path)
		}
	case explicit || !os.IsNotExist(err):
		return Config{}, errors.Wrap(err, "read config")
	}
	if env == nil {
		env = os.LookupEnv
	}
	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(env func(string) (string, bool)) error {
	if v, ok := env(EnvPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := env(EnvPrefix + "OUTPUT"); ok {
		c.Output = v
	}
	for key, dst := range map[string]*int{
		"QUALITY_THRESHOLD": &c.QualityThreshold,
		"QUEUE_SIZE":        &c.QueueSize,
	} {
		v, ok := env(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrapf(err, "%s%s", EnvPrefix, key)
		}
		*dst = n
	}
	if v, ok := env(EnvPrefix + "BASE_SEGMENTS"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrapf(err, "%sBASE_SEGMENTS", EnvPrefix)
		}
		c.BaseSegments = b
	}
	return nil
}

// Validate rejects values no command could use.
func (c Config) Validate() error {
	if c.QualityThreshold < 0 || c.QualityThreshold > 255 {
		return errors.Errorf("quality_threshold %d out of range 0..255", c.QualityThreshold)
	}
	if c.QueueSize < 1 {
		return errors.Errorf("queue_size must be >= 1 (got %d)", c.QueueSize)
	}
	switch c.Output {
	case "text", "tsv", "json":
	default:
		return errors.Errorf("output must be text, tsv or json (got %q)", c.Output)
	}
	return nil
}
