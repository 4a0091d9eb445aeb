// Package config handles annotation tool configuration loading and
// management.
package config

// Config holds all annotation tool settings.
type Config struct {
	Projection ProjectionConfig `yaml:"projection"`
	Brush      BrushConfig      `yaml:"brush"`
	Index      IndexConfig      `yaml:"index"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ProjectionConfig tunes edge projection onto mesh surfaces.
type ProjectionConfig struct {
	Segments     int     `yaml:"segments"`      // Samples per projected edge
	RelDeviation float32 `yaml:"rel_deviation"` // Bound relative to chord length
	AbsDeviation float32 `yaml:"abs_deviation"` // Bound relative to model size
}

// BrushConfig holds surface-painting defaults.
type BrushConfig struct {
	Radius float32 `yaml:"radius"` // Default brush radius, world units
}

// IndexConfig controls spatial index construction.
type IndexConfig struct {
	// MaxTriangles is the per-mesh budget above which no index is
	// built and painting/projection degrade. Zero removes the limit.
	MaxTriangles int `yaml:"max_triangles"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values. The deviation
// factors are empirical tuning, not a contract.
func Default() *Config {
	return &Config{
		Projection: ProjectionConfig{
			Segments:     24,
			RelDeviation: 0.35,
			AbsDeviation: 0.05,
		},
		Brush: BrushConfig{
			Radius: 0.5,
		},
		Index: IndexConfig{
			MaxTriangles: 2_000_000,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
