// Package config loads the simulation's tuning knobs through viper and
// hands typed snapshots to the core packages, which never read
// configuration sources themselves.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/veldt/warband/internal/ai"
	"github.com/veldt/warband/internal/geom"
	"github.com/veldt/warband/internal/group"
)

// Load sets defaults and reads an optional warband.cfg.json from
// configDir. A missing file is fine; the defaults stand.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("sim.tickRate", 60)

	viper.SetDefault("ai.detectionRadius", 30.0)
	viper.SetDefault("ai.maxChaseDistance", 40.0)
	viper.SetDefault("ai.retreatEnabled", true)
	viper.SetDefault("ai.retreatThresholdPct", 20.0)

	viper.SetDefault("ai.kiter.preferredDistance", 12.0)
	viper.SetDefault("ai.kiter.minSafeDistance", 6.0)
	viper.SetDefault("ai.kiter.retreatSpeedScale", 1.5)

	viper.SetDefault("ai.support.healThreshold", 0.8)
	viper.SetDefault("ai.support.healAmount", 5.0)
	viper.SetDefault("ai.support.dangerRadius", 8.0)
	viper.SetDefault("ai.support.retreatThresholdPct", 50.0)

	viper.SetDefault("group.baseSpacing", 2.0)
	viper.SetDefault("group.largeGroupThreshold", 10)
	viper.SetDefault("group.largeGroupScale", 1.5)
	viper.SetDefault("group.validatePositions", false)
	viper.SetDefault("group.validationRadius", 5.0)

	viper.SetDefault("catalog.backend", "file")
	viper.SetDefault("catalog.path", "./formations.json")
	viper.SetDefault("catalog.dbPath", "./formations.db")

	viper.SetConfigName("warband.cfg.json")
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// LogLevel returns the configured log level name.
func LogLevel() string {
	return viper.GetString("logLevel")
}

// AI snapshots the unit controller configuration.
func AI() ai.Config {
	return ai.Config{
		TickRate:            viper.GetInt("sim.tickRate"),
		DetectionRadius:     viper.GetFloat64("ai.detectionRadius"),
		MaxChaseDistance:    viper.GetFloat64("ai.maxChaseDistance"),
		RetreatEnabled:      viper.GetBool("ai.retreatEnabled"),
		RetreatThresholdPct: viper.GetFloat64("ai.retreatThresholdPct"),
		Kiter: ai.KiterConfig{
			PreferredDistance: viper.GetFloat64("ai.kiter.preferredDistance"),
			MinSafeDistance:   viper.GetFloat64("ai.kiter.minSafeDistance"),
			RetreatSpeedScale: viper.GetFloat64("ai.kiter.retreatSpeedScale"),
		},
		Support: ai.SupportConfig{
			HealThreshold:       viper.GetFloat64("ai.support.healThreshold"),
			HealAmount:          viper.GetFloat64("ai.support.healAmount"),
			DangerRadius:        viper.GetFloat64("ai.support.dangerRadius"),
			RetreatThresholdPct: viper.GetFloat64("ai.support.retreatThresholdPct"),
		},
	}
}

// Group snapshots the coordinator policy. Facing defaults to north.
func Group() group.Policy {
	return group.Policy{
		BaseSpacing:         viper.GetFloat64("group.baseSpacing"),
		LargeGroupThreshold: viper.GetInt("group.largeGroupThreshold"),
		LargeGroupScale:     viper.GetFloat64("group.largeGroupScale"),
		DefaultFacing:       geom.Vec3{Z: 1},
		ValidatePositions:   viper.GetBool("group.validatePositions"),
		ValidationRadius:    viper.GetFloat64("group.validationRadius"),
	}
}

// CatalogBackend returns the persistence backend name ("file" or "sqlite").
func CatalogBackend() string {
	return viper.GetString("catalog.backend")
}

// CatalogPath returns the JSON document path for the file backend.
func CatalogPath() string {
	return viper.GetString("catalog.path")
}

// CatalogDBPath returns the database path for the sqlite backend.
func CatalogDBPath() string {
	return viper.GetString("catalog.dbPath")
}
