package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultManifest is the public dataset the dashboard was first deployed against.
	DefaultManifest = "https://pub-05e404c031184ec4bbf69b0c2321b98e.r2.dev/manifest_cloud_boolean.csv"

	SourceCSV      = "csv"
	SourceSupabase = "supabase"
)

// Config holds all runtime settings.
type Config struct {
	Host  string `yaml:"host" validate:"required"`
	Port  int    `yaml:"port" validate:"min=1,max=65535"`
	Debug bool   `yaml:"debug"`

	Dataset DatasetConfig `yaml:"dataset"`

	Reference         string `yaml:"reference" validate:"required"`
	Estimated         string `yaml:"estimated" validate:"required"`
	DefaultTrackIndex int    `yaml:"default_track_index" validate:"gte=0"`

	ProbeAudio bool `yaml:"probe_audio"`
	QueueSize  int  `yaml:"queue_size" validate:"min=1"`
}

// DatasetConfig selects where the manifest is read from.
type DatasetConfig struct {
	Source       string        `yaml:"source" validate:"oneof=csv supabase"`
	Manifest     string        `yaml:"manifest" validate:"required_if=Source csv"`
	SupabaseURL  string        `yaml:"supabase_url" validate:"required_if=Source supabase"`
	SupabaseKey  string        `yaml:"supabase_key" validate:"required_if=Source supabase"`
	Table        string        `yaml:"table"`
	Base         string        `yaml:"base"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Host: "0.0.0.0",
		Port: 7860,
		Dataset: DatasetConfig{
			Source:       SourceCSV,
			Manifest:     DefaultManifest,
			Table:        "tracks",
			FetchTimeout: 30 * time.Second,
		},
		Reference:         "reference",
		Estimated:         "adobe-mu1gamma1",
		DefaultTrackIndex: 8,
		QueueSize:         64,
	}
}

// Load builds the configuration from defaults, the YAML file named by
// AUDIODASH_CONFIG, and environment variables, in that order.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("AUDIODASH_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration with validator tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("AUDIODASH_HOST", &cfg.Host)
	str("AUDIODASH_DATASET_SOURCE", &cfg.Dataset.Source)
	str("AUDIODASH_MANIFEST", &cfg.Dataset.Manifest)
	str("AUDIODASH_TABLE", &cfg.Dataset.Table)
	str("AUDIODASH_BASE", &cfg.Dataset.Base)
	str("AUDIODASH_REFERENCE", &cfg.Reference)
	str("AUDIODASH_ESTIMATED", &cfg.Estimated)
	str("SUPABASE_URL", &cfg.Dataset.SupabaseURL)
	str("SUPABASE_SERVICE_KEY", &cfg.Dataset.SupabaseKey)

	ints := map[string]*int{
		"AUDIODASH_PORT":                &cfg.Port,
		"AUDIODASH_DEFAULT_TRACK_INDEX": &cfg.DefaultTrackIndex,
		"AUDIODASH_QUEUE_SIZE":          &cfg.QueueSize,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, v, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"AUDIODASH_DEBUG":       &cfg.Debug,
		"AUDIODASH_PROBE_AUDIO": &cfg.ProbeAudio,
	}
	for key, dst := range bools {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, v, err)
			}
			*dst = b
		}
	}

	if v, ok := lookup("AUDIODASH_FETCH_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid AUDIODASH_FETCH_TIMEOUT %q: %w", v, err)
		}
		cfg.Dataset.FetchTimeout = d
	}
	return nil
}
