package config

import "fmt"

// FleetConfig defines settings for the optimization core itself.
type FleetConfig struct {
	// GraphSeed seeds the synthetic waypoint graph generator. The same seed
	// always yields the same graph.
	GraphSeed int64 `json:"graph_seed"`
	// VehiclesFile optionally points to a JSON file of vehicles loaded into
	// the registry at startup.
	VehiclesFile string `json:"vehicles_file"`
	// PredictionSeed, when non-zero, makes ETA predictions reproducible.
	// Zero keeps the default wall-clock seeding.
	PredictionSeed int64 `json:"prediction_seed"`
}

// SetDefaults applies sane defaults.
func (c *FleetConfig) SetDefaults() {
	if c.GraphSeed == 0 {
		c.GraphSeed = 42
	}
}

// Validate checks mandatory fields.
func (c FleetConfig) Validate() error {
	if c.GraphSeed == 0 {
		return fmt.Errorf("graph_seed is required")
	}
	return nil
}
