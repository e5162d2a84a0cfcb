package config_test

import (
	"fmt"

	"github.com/wonny/astro/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("Server running on port: %s\n", cfg.Port)
	fmt.Printf("Ephemeris mode: %s\n", cfg.Ephemeris.Mode)
	fmt.Printf("Archive enabled: %t\n", cfg.Database.Enabled())
	fmt.Printf("Score refresh: %s\n", cfg.Engine.ScoreRefreshSchedule)
}
