// Package config loads and validates the netloom configuration file.
//
// The file is TOML. The [[sources]] array order is significant: it is the
// merge precedence order, so the first listed source wins attribute
// conflicts for devices reported by more than one source.
//
// Config file locations (priority order):
//  1. $NETLOOM_CONFIG
//  2. ./netloom.toml
//  3. ~/.config/netloom/netloom.toml
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/render"
)

// FileName is the default config file name.
const FileName = "netloom.toml"

// validate is the shared validator instance for struct tags.
var validate = validator.New()

// =============================================================================
// Schema
// =============================================================================

// Config is the root of the netloom configuration file.
type Config struct {
	Pipeline PipelineConfig `toml:"pipeline"`
	Sources  []SourceConfig `toml:"sources" validate:"required,min=1,dive"`
	Store    StoreConfig    `toml:"store"`
	Cache    CacheConfig    `toml:"cache"`
}

// PipelineConfig maps onto pipeline.Options. The three bool fields are
// pointers so an absent key defaults to true while an explicit `= false`
// still disables the behavior.
type PipelineConfig struct {
	Layout         string            `toml:"layout" validate:"omitempty,oneof=hierarchical circular grid"`
	GroupBy        string            `toml:"group_by" validate:"omitempty,oneof=kind vendor none"`
	IncludeDetails *bool             `toml:"include_details"`
	ColorCode      *bool             `toml:"color_code"`
	WriteArtifacts *bool             `toml:"write_artifacts"`
	FetchTimeout   Duration          `toml:"fetch_timeout"`
	Formats        []string          `toml:"formats" validate:"omitempty,dive,oneof=json graphml diagram scene dot"`
	OutputNames    map[string]string `toml:"output_names"`
}

// SourceConfig describes one vendor source. Order in the file is merge
// precedence order.
type SourceConfig struct {
	Vendor string `toml:"vendor" validate:"required,oneof=fabric dashboard"`
	Type   string `toml:"type" validate:"omitempty,oneof=file"`
	Path   string `toml:"path" validate:"required"`
}

// StoreConfig selects and configures the artifact store backend.
type StoreConfig struct {
	Backend string           `toml:"backend" validate:"omitempty,oneof=fs memory s3 mongo"`
	FS      FSStoreConfig    `toml:"fs"`
	S3      S3StoreConfig    `toml:"s3"`
	Mongo   MongoStoreConfig `toml:"mongo"`
}

// FSStoreConfig configures the filesystem store.
type FSStoreConfig struct {
	Dir string `toml:"dir"`
}

// S3StoreConfig configures the S3 store.
type S3StoreConfig struct {
	Bucket string `toml:"bucket"`
	Prefix string `toml:"prefix"`
	Region string `toml:"region"`
}

// MongoStoreConfig configures the MongoDB store.
type MongoStoreConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CacheConfig selects and configures the payload cache backend.
type CacheConfig struct {
	Backend string           `toml:"backend" validate:"omitempty,oneof=file redis null"`
	File    FileCacheConfig  `toml:"file"`
	Redis   RedisCacheConfig `toml:"redis"`
	TTL     Duration         `toml:"ttl"`
}

// FileCacheConfig configures the file cache. An empty dir means the XDG
// cache directory.
type FileCacheConfig struct {
	Dir string `toml:"dir"`
}

// RedisCacheConfig configures the Redis cache.
type RedisCacheConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Duration decodes TOML strings like "30s" or "5m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// =============================================================================
// Loading
// =============================================================================

// Load finds and loads the config file, searching the standard locations.
func Load() (*Config, string, error) {
	path := FindPath()
	if path == "" {
		return nil, "", errors.New(errors.ErrCodeInvalidConfig, "no %s found (searched $NETLOOM_CONFIG, ., ~/.config/netloom)", FileName)
	}
	cfg, err := LoadFromPath(path)
	return cfg, path, err
}

// LoadFromPath loads and validates the config at an explicit path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes, defaults, and validates a config document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindPath returns the first config file present in the search order, or "".
func FindPath() string {
	if p := os.Getenv("NETLOOM_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "netloom", FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// =============================================================================
// Defaults & Validation
// =============================================================================

func boolPtr(v bool) *bool { return &v }

// applyDefaults fills missing values with the documented defaults.
func (c *Config) applyDefaults() {
	if c.Pipeline.Layout == "" {
		c.Pipeline.Layout = "grid"
	}
	if c.Pipeline.GroupBy == "" {
		c.Pipeline.GroupBy = "kind"
	}
	if c.Pipeline.IncludeDetails == nil {
		c.Pipeline.IncludeDetails = boolPtr(true)
	}
	if c.Pipeline.ColorCode == nil {
		c.Pipeline.ColorCode = boolPtr(true)
	}
	if c.Pipeline.WriteArtifacts == nil {
		c.Pipeline.WriteArtifacts = boolPtr(true)
	}
	if c.Pipeline.FetchTimeout.Duration <= 0 {
		c.Pipeline.FetchTimeout.Duration = 30 * time.Second
	}
	if len(c.Pipeline.Formats) == 0 {
		c.Pipeline.Formats = render.Formats()
	}

	for i := range c.Sources {
		if c.Sources[i].Type == "" {
			c.Sources[i].Type = "file"
		}
	}

	if c.Store.Backend == "" {
		c.Store.Backend = "fs"
	}
	if c.Store.FS.Dir == "" {
		c.Store.FS.Dir = "."
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = "file"
	}
}

// Validate checks struct tags plus the cross-field constraints the tags
// cannot express (backend-specific required fields).
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}

	switch c.Store.Backend {
	case "s3":
		if c.Store.S3.Bucket == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store backend s3 requires s3.bucket")
		}
	case "mongo":
		if c.Store.Mongo.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store backend mongo requires mongo.uri")
		}
	}

	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis.addr")
	}

	for format, name := range c.Pipeline.OutputNames {
		if err := render.ValidateFormats([]string{format}); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "output_names key %q", format)
		}
		if err := errors.ValidateArtifactName(name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "output_names[%s]", format)
		}
	}

	seen := make(map[string]struct{}, len(c.Sources))
	for _, s := range c.Sources {
		key := s.Vendor + ":" + s.Path
		if _, dup := seen[key]; dup {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate source %s %s", s.Vendor, s.Path)
		}
		seen[key] = struct{}{}
	}

	return nil
}
