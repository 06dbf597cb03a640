package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/nodewalk/nodewalk-server/internal/game"
)

// Config is the server configuration, including every gameplay tunable.
// Defaults match game.DefaultTuning.
type Config struct {
	Port      int    `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	SpawnMinMeters    float64 `env:"SPAWN_MIN_METERS" envDefault:"25"`
	SpawnMaxMeters    float64 `env:"SPAWN_MAX_METERS" envDefault:"120"`
	SpawnBatchMin     int     `env:"SPAWN_BATCH_MIN" envDefault:"3"`
	SpawnBatchMax     int     `env:"SPAWN_BATCH_MAX" envDefault:"7"`
	MinActiveNodes    int     `env:"MIN_ACTIVE_NODES" envDefault:"3"`
	RespawnStepMeters float64 `env:"RESPAWN_STEP_METERS" envDefault:"80"`

	DiscoverRadius float64 `env:"DISCOVER_RADIUS" envDefault:"35"`
	CaptureRadius  float64 `env:"CAPTURE_RADIUS" envDefault:"15"`
	HomeRadius     float64 `env:"HOME_RADIUS" envDefault:"20"`

	ReticleHalfAngle float64 `env:"RETICLE_HALF_ANGLE" envDefault:"30"`

	CaptureDurationBasic    time.Duration `env:"CAPTURE_DURATION_BASIC" envDefault:"2s"`
	CaptureDurationAdvanced time.Duration `env:"CAPTURE_DURATION_ADVANCED" envDefault:"3.5s"`
	CaptureDurationCore     time.Duration `env:"CAPTURE_DURATION_CORE" envDefault:"5s"`

	CarryDelay      time.Duration `env:"CARRY_DELAY" envDefault:"2s"`
	EvacDuration    time.Duration `env:"EVAC_DURATION" envDefault:"5s"`
	EvacSuppression time.Duration `env:"EVAC_SUPPRESSION" envDefault:"60s"`

	OutdoorAccuracyMax float64       `env:"OUTDOOR_ACCURACY_MAX" envDefault:"25"`
	IndoorAccuracyMin  float64       `env:"INDOOR_ACCURACY_MIN" envDefault:"30"`
	IndoorHold         time.Duration `env:"INDOOR_HOLD" envDefault:"5s"`
	MinMovingSpeed     float64       `env:"MIN_MOVING_SPEED" envDefault:"0.3"`
	DefaultAccuracy    float64       `env:"DEFAULT_ACCURACY" envDefault:"50"`

	CompanionOffsetMin float64 `env:"COMPANION_OFFSET_MIN" envDefault:"0.8"`
	CompanionOffsetMax float64 `env:"COMPANION_OFFSET_MAX" envDefault:"2.0"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// Tuning converts the configuration into the gameplay tuning consumed by
// the engine.
func (c *Config) Tuning() game.Tuning {
	return game.Tuning{
		SpawnMinMeters:    c.SpawnMinMeters,
		SpawnMaxMeters:    c.SpawnMaxMeters,
		SpawnBatchMin:     c.SpawnBatchMin,
		SpawnBatchMax:     c.SpawnBatchMax,
		MinActiveNodes:    c.MinActiveNodes,
		RespawnStepMeters: c.RespawnStepMeters,

		DiscoverRadius: c.DiscoverRadius,
		CaptureRadius:  c.CaptureRadius,
		HomeRadius:     c.HomeRadius,

		ReticleHalfAngle: c.ReticleHalfAngle,

		CaptureDurationBasic:    c.CaptureDurationBasic,
		CaptureDurationAdvanced: c.CaptureDurationAdvanced,
		CaptureDurationCore:     c.CaptureDurationCore,

		CarryDelay:      c.CarryDelay,
		EvacDuration:    c.EvacDuration,
		EvacSuppression: c.EvacSuppression,

		OutdoorAccuracyMax: c.OutdoorAccuracyMax,
		IndoorAccuracyMin:  c.IndoorAccuracyMin,
		IndoorHold:         c.IndoorHold,
		MinMovingSpeed:     c.MinMovingSpeed,
		DefaultAccuracy:    c.DefaultAccuracy,

		CompanionOffsetMin: c.CompanionOffsetMin,
		CompanionOffsetMax: c.CompanionOffsetMax,
	}
}
