package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"voxelworld/internal/store"
)

// Config is the root configuration of the world tool.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Storage    StorageConfig    `yaml:"storage"`
	Generation GenerationConfig `yaml:"generation"`
	Streaming  StreamingConfig  `yaml:"streaming"`
	Meshing    MeshingConfig    `yaml:"meshing"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type WorldConfig struct {
	Dir string `yaml:"dir"`
	// Seed is only used for a new world; an existing world keeps its own.
	Seed *int64 `yaml:"seed"`
	// ViewRadius is the load radius in chunks around the focus point.
	ViewRadius int `yaml:"view_radius"`
	// EvictRadius is the radius beyond which chunks are flushed and dropped.
	EvictRadius int `yaml:"evict_radius"`
}

type StorageConfig struct {
	Backend  string `yaml:"backend"`
	Compress bool   `yaml:"compress"`
}

type StreamingConfig struct {
	Workers    int `yaml:"workers"`
	MaxPending int `yaml:"max_pending"`
}

type MeshingConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
	TileSize  int `yaml:"tile_size"`
}

type MetricsConfig struct {
	// Addr enables the /metrics endpoint when non-empty, e.g. ":2112".
	Addr string `yaml:"addr"`
}

const (
	defaultWorldDir    = "world"
	defaultViewRadius  = 8
	defaultStorage     = string(store.BackendFile)
	maxViewRadius      = 64
	defaultMeshWorkers = 4
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Dir:         defaultWorldDir,
			ViewRadius:  defaultViewRadius,
			EvictRadius: defaultViewRadius * 2,
		},
		Storage:    StorageConfig{Backend: defaultStorage, Compress: true},
		Generation: DefaultGeneration(),
		Streaming:  StreamingConfig{Workers: 0, MaxPending: 1024},
		Meshing:    MeshingConfig{Workers: defaultMeshWorkers, QueueSize: 64, TileSize: 16},
	}
}

// Load reads a YAML config on top of Default. An empty path falls back to
// VOXEL_CONFIG; when that is unset too the defaults are returned. Env
// overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.World.Dir = getStringWithEnvFallback(c.World.Dir, "VOXEL_WORLD_DIR", defaultWorldDir)
	c.Storage.Backend = getStringWithEnvFallback(c.Storage.Backend, "VOXEL_STORAGE", defaultStorage)
	if c.World.Seed == nil {
		if v := os.Getenv("VOXEL_SEED"); v != "" {
			seed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("VOXEL_SEED: %w", err)
			}
			c.World.Seed = &seed
		}
	}
	return nil
}

// getStringWithEnvFallback resolves a value with priority config -> env -> default.
func getStringWithEnvFallback(configVal, envVar, defaultVal string) string {
	if configVal != "" {
		return configVal
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return defaultVal
}

// Validate clamps soft limits and rejects settings nothing can run with.
func (c *Config) Validate() error {
	var errs []error

	switch store.Backend(c.Storage.Backend) {
	case store.BackendFile, store.BackendBadger, store.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.backend: %w: %q", store.ErrUnknownBackend, c.Storage.Backend))
	}

	if c.World.ViewRadius < 0 {
		errs = append(errs, fmt.Errorf("world.view_radius must not be negative"))
	}
	c.World.ViewRadius = min(c.World.ViewRadius, maxViewRadius)
	if c.World.EvictRadius < c.World.ViewRadius {
		c.World.EvictRadius = c.World.ViewRadius * 2
	}

	if c.Streaming.Workers < 0 || c.Meshing.Workers < 0 {
		errs = append(errs, fmt.Errorf("worker counts must not be negative"))
	}
	if c.Meshing.TileSize <= 0 {
		c.Meshing.TileSize = 16
	}

	if err := c.Generation.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// StoreOptions maps the storage section onto store.Open options.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:  store.Backend(c.Storage.Backend),
		Root:     c.World.Dir,
		Compress: c.Storage.Compress,
	}
}

// SeedValue reports the configured seed, if any.
func (c *Config) SeedValue() (int64, bool) {
	if c.World.Seed == nil {
		return 0, false
	}
	return *c.World.Seed, true
}
