package config

import (
	"fmt"

	"voxelworld/internal/world"
)

// GenerationConfig holds world generation settings. Zero values fall back to
// the standard terrain shape.
type GenerationConfig struct {
	Noise           string               `yaml:"noise"`
	BaseHeight      float64              `yaml:"base_height"`
	BaseRange       float64              `yaml:"base_range"`
	Base            world.OctaveSettings `yaml:"base"`
	HillAmplitude   float64              `yaml:"hill_amplitude"`
	Hills           world.OctaveSettings `yaml:"hills"`
	ValleyAmplitude float64              `yaml:"valley_amplitude"`
	Valleys         world.OctaveSettings `yaml:"valleys"`
	SeaLevel        int                  `yaml:"sea_level"`
	DeepThreshold   int                  `yaml:"deep_threshold"`
	MountainHeight  int                  `yaml:"mountain_height"`
	BeachHeight     int                  `yaml:"beach_height"`
	OreFrequency    float64              `yaml:"ore_frequency"`
	// Flat replaces the noise terrain with a flat world of this height.
	Flat int `yaml:"flat"`
}

// DefaultGeneration mirrors world.DefaultGenSettings.
func DefaultGeneration() GenerationConfig {
	d := world.DefaultGenSettings()
	return GenerationConfig{
		Noise:           string(d.Noise),
		BaseHeight:      d.BaseHeight,
		BaseRange:       d.BaseRange,
		Base:            d.Base,
		HillAmplitude:   d.HillAmplitude,
		Hills:           d.Hills,
		ValleyAmplitude: d.ValleyAmplitude,
		Valleys:         d.Valleys,
		SeaLevel:        d.SeaLevel,
		DeepThreshold:   d.DeepThreshold,
		MountainHeight:  d.MountainHeight,
		BeachHeight:     d.BeachHeight,
		OreFrequency:    d.OreFrequency,
	}
}

// Validate rejects values outside the chunk's vertical range.
func (g GenerationConfig) Validate() error {
	switch world.NoiseKind(g.Noise) {
	case world.NoisePerlin, world.NoiseValue, "":
	default:
		return fmt.Errorf("generation.noise: unknown kind %q", g.Noise)
	}
	for name, v := range map[string]int{
		"sea_level":       g.SeaLevel,
		"mountain_height": g.MountainHeight,
		"beach_height":    g.BeachHeight,
		"flat":            g.Flat,
	} {
		if v < 0 || v >= world.ChunkSizeY {
			return fmt.Errorf("generation.%s: %d outside [0, %d)", name, v, world.ChunkSizeY)
		}
	}
	return nil
}

// Settings converts the section into generator settings, keeping the
// default ore table.
func (g GenerationConfig) Settings() world.GenSettings {
	s := world.DefaultGenSettings()
	s.Noise = world.NoiseKind(g.Noise)
	if g.BaseHeight != 0 {
		s.BaseHeight = g.BaseHeight
	}
	if g.BaseRange != 0 {
		s.BaseRange = g.BaseRange
	}
	if g.Base.Octaves > 0 {
		s.Base = g.Base
	}
	if g.HillAmplitude != 0 {
		s.HillAmplitude = g.HillAmplitude
	}
	if g.Hills.Octaves > 0 {
		s.Hills = g.Hills
	}
	if g.ValleyAmplitude != 0 {
		s.ValleyAmplitude = g.ValleyAmplitude
	}
	if g.Valleys.Octaves > 0 {
		s.Valleys = g.Valleys
	}
	if g.SeaLevel > 0 {
		s.SeaLevel = g.SeaLevel
	}
	if g.DeepThreshold > 0 {
		s.DeepThreshold = g.DeepThreshold
	}
	if g.MountainHeight > 0 {
		s.MountainHeight = g.MountainHeight
	}
	if g.BeachHeight > 0 {
		s.BeachHeight = g.BeachHeight
	}
	if g.OreFrequency > 0 {
		s.OreFrequency = g.OreFrequency
	}
	return s
}

// WorldOptions builds world options for this section. A flat height takes
// precedence over the noise settings.
func (g GenerationConfig) WorldOptions() world.Options {
	if g.Flat > 0 {
		return world.Options{Generator: world.NewFlatGenerator(g.Flat)}
	}
	s := g.Settings()
	return world.Options{Settings: &s}
}
