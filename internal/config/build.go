package config

import (
	"context"

	"github.com/matzehuels/netloom/pkg/cache"
	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/layout"
	"github.com/matzehuels/netloom/pkg/pipeline"
	"github.com/matzehuels/netloom/pkg/source"
	"github.com/matzehuels/netloom/pkg/store"
	"github.com/matzehuels/netloom/pkg/topology"
)

// PipelineOptions maps the [pipeline] section onto pipeline.Options.
// Defaults are already applied, so the result validates cleanly.
func (c *Config) PipelineOptions() pipeline.Options {
	opts := pipeline.NewOptions()
	opts.Layout = layout.Strategy(c.Pipeline.Layout)
	opts.GroupBy = c.Pipeline.GroupBy
	opts.IncludeDetails = *c.Pipeline.IncludeDetails
	opts.ColorCode = *c.Pipeline.ColorCode
	opts.WriteArtifacts = *c.Pipeline.WriteArtifacts
	opts.FetchTimeout = c.Pipeline.FetchTimeout.Duration
	opts.Formats = append([]string(nil), c.Pipeline.Formats...)
	if len(c.Pipeline.OutputNames) > 0 {
		opts.OutputNames = make(map[string]string, len(c.Pipeline.OutputNames))
		for format, name := range c.Pipeline.OutputNames {
			opts.OutputNames[format] = name
		}
	}
	return opts
}

// Adapters builds one source adapter per [[sources]] entry, preserving file
// order so merge precedence matches the document.
func (c *Config) Adapters() ([]source.Adapter, error) {
	adapters := make([]source.Adapter, 0, len(c.Sources))
	for _, s := range c.Sources {
		switch s.Type {
		case "file":
			a, err := source.NewFileAdapter(topology.Vendor(s.Vendor), s.Path)
			if err != nil {
				return nil, err
			}
			adapters = append(adapters, a)
		default:
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown source type %q", s.Type)
		}
	}
	return adapters, nil
}

// OpenStore opens the configured artifact store backend.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case "fs":
		return store.NewFileStore(c.Store.FS.Dir)
	case "memory":
		return store.NewMemoryStore(), nil
	case "s3":
		return store.NewS3Store(ctx, store.S3Config{
			Bucket: c.Store.S3.Bucket,
			Prefix: c.Store.S3.Prefix,
			Region: c.Store.S3.Region,
		})
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        c.Store.Mongo.URI,
			Database:   c.Store.Mongo.Database,
			Collection: c.Store.Mongo.Collection,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
}

// OpenCache opens the configured payload cache backend. defaultDir is used
// for the file backend when [cache.file] dir is unset.
func (c *Config) OpenCache(ctx context.Context, defaultDir string) (cache.Cache, error) {
	switch c.Cache.Backend {
	case "file":
		dir := c.Cache.File.Dir
		if dir == "" {
			dir = defaultDir
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
		})
	case "null":
		return cache.NewNullCache(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
}
