package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelworld/internal/store"
	"voxelworld/internal/world"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"VOXEL_CONFIG", "VOXEL_WORLD_DIR", "VOXEL_SEED", "VOXEL_STORAGE"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "voxel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "world", cfg.World.Dir)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.True(t, cfg.Storage.Compress)
	assert.Equal(t, 8, cfg.World.ViewRadius)
	assert.Equal(t, 16, cfg.World.EvictRadius)

	_, ok := cfg.SeedValue()
	assert.False(t, ok)
	assert.Equal(t, world.DefaultGenSettings(), cfg.Generation.Settings())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
world:
  dir: /tmp/voxels
  seed: 42
  view_radius: 4
storage:
  backend: badger
  compress: false
generation:
  noise: value
  sea_level: 50
  hills:
    octaves: 2
    persistence: 0.5
    frequency: 0.03
meshing:
  workers: 2
metrics:
  addr: ":2112"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	seed, ok := cfg.SeedValue()
	require.True(t, ok)
	assert.Equal(t, int64(42), seed)
	assert.Equal(t, store.Options{Backend: store.BackendBadger, Root: "/tmp/voxels", Compress: false}, cfg.StoreOptions())
	assert.Equal(t, 4, cfg.World.ViewRadius)
	assert.Equal(t, 2, cfg.Meshing.Workers)
	assert.Equal(t, 16, cfg.Meshing.TileSize)
	assert.Equal(t, ":2112", cfg.Metrics.Addr)

	s := cfg.Generation.Settings()
	assert.Equal(t, world.NoiseValue, s.Noise)
	assert.Equal(t, 50, s.SeaLevel)
	assert.Equal(t, 2, s.Hills.Octaves)
	assert.InDelta(t, 0.03, s.Hills.Frequency, 1e-12)
	// untouched sections keep the defaults
	assert.Equal(t, world.DefaultGenSettings().Base, s.Base)
	assert.Equal(t, world.DefaultOres(), s.Ores)
}

func TestLoadEnvFallback(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "world:\n  view_radius: 2\n")
	t.Setenv("VOXEL_CONFIG", path)
	t.Setenv("VOXEL_WORLD_DIR", "/srv/world")
	t.Setenv("VOXEL_SEED", "-7")
	t.Setenv("VOXEL_STORAGE", "memory")

	cfg, err := Load("")
	require.NoError(t, err)
	// dir comes from the default, which already has a value
	assert.Equal(t, "world", cfg.World.Dir)
	assert.Equal(t, 2, cfg.World.ViewRadius)
	assert.Equal(t, "file", cfg.Storage.Backend)
	seed, ok := cfg.SeedValue()
	require.True(t, ok)
	assert.Equal(t, int64(-7), seed)
}

func TestEnvFillsEmptyValues(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "world:\n  dir: \"\"\nstorage:\n  backend: \"\"\n")
	t.Setenv("VOXEL_WORLD_DIR", "/srv/world")
	t.Setenv("VOXEL_STORAGE", "memory")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/world", cfg.World.Dir)
	assert.Equal(t, "memory", cfg.Storage.Backend)
}

func TestConfigSeedBeatsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("VOXEL_SEED", "99")
	cfg, err := Load(writeConfig(t, "world:\n  seed: 1\n"))
	require.NoError(t, err)
	seed, _ := cfg.SeedValue()
	assert.Equal(t, int64(1), seed)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"bad yaml":      "world: [",
		"bad backend":   "storage:\n  backend: s3\n",
		"bad noise":     "generation:\n  noise: simplex\n",
		"sea too high":  "generation:\n  sea_level: 300\n",
		"negative view": "world:\n  view_radius: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	t.Run("bad env seed", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("VOXEL_SEED", "abc")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestUnknownBackendIsSentinel(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "s3"
	assert.ErrorIs(t, cfg.Validate(), store.ErrUnknownBackend)
}

func TestValidateClampsRadii(t *testing.T) {
	cfg := Default()
	cfg.World.ViewRadius = 500
	cfg.World.EvictRadius = 1
	require.NoError(t, cfg.Validate())
	assert.Equal(t, maxViewRadius, cfg.World.ViewRadius)
	assert.Equal(t, maxViewRadius*2, cfg.World.EvictRadius)
}

func TestFlatGeneration(t *testing.T) {
	g := DefaultGeneration()
	g.Flat = 10
	opts := g.WorldOptions()
	require.NotNil(t, opts.Generator)
	assert.Nil(t, opts.Settings)
	assert.Equal(t, 10, opts.Generator.HeightAt(123, -45))

	g.Flat = 0
	opts = g.WorldOptions()
	assert.Nil(t, opts.Generator)
	require.NotNil(t, opts.Settings)
	assert.Equal(t, world.DefaultGenSettings(), *opts.Settings)
}
