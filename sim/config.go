package sim

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config groups the tunable parameters of a simulation instance.
type Config struct {
	// MaxSteps is the default number of steps a CLI run advances.
	MaxSteps int `yaml:"max_steps"`
	// CustomerSpawnChance is the probability that a customer enters the
	// store on a given step (0.0 - 1.0).
	CustomerSpawnChance float64 `yaml:"customer_spawn_chance"`
	// RestockThreshold is the default LowThreshold when seed data omits it.
	RestockThreshold int `yaml:"restock_threshold"`
	// ReasonerSyncInterval is the cadence, in steps, of reasoner syncs.
	ReasonerSyncInterval int `yaml:"reasoner_sync_interval"`
	// RestockAmount is the number of copies procured per restock.
	RestockAmount int `yaml:"restock_amount"`
	// RandomSeed seeds the activation-order and policy RNG streams.
	RandomSeed int64 `yaml:"random_seed"`
	// CustomerBudget is the default budget when seed data omits it.
	CustomerBudget float64 `yaml:"customer_budget"`
	// PurchasePolicy selects the customer decision policy by name.
	// Valid names: "random" (default), "greedy".
	PurchasePolicy string `yaml:"purchase_policy"`
	// ReasonerTimeout bounds a single reasoner sync call.
	// Zero selects facts.DefaultSyncTimeout.
	ReasonerTimeout time.Duration `yaml:"reasoner_timeout"`
}

// DefaultConfig returns the stock simulation parameters.
func DefaultConfig() Config {
	return Config{
		MaxSteps:             100,
		CustomerSpawnChance:  0.4,
		RestockThreshold:     5,
		ReasonerSyncInterval: 3,
		RestockAmount:        10,
		RandomSeed:           12345,
		CustomerBudget:       50.0,
		PurchasePolicy:       PolicyRandom,
	}
}

// LoadConfig reads a YAML config file, layering it over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects parameter combinations the engine cannot honor.
func (c Config) Validate() error {
	if c.CustomerSpawnChance < 0 || c.CustomerSpawnChance > 1 {
		return fmt.Errorf("customer_spawn_chance must be within [0,1], got %v", c.CustomerSpawnChance)
	}
	if c.RestockThreshold < 0 {
		return fmt.Errorf("restock_threshold must be non-negative, got %d", c.RestockThreshold)
	}
	if c.ReasonerSyncInterval < 1 {
		return fmt.Errorf("reasoner_sync_interval must be positive, got %d", c.ReasonerSyncInterval)
	}
	if c.RestockAmount < 1 {
		return fmt.Errorf("restock_amount must be positive, got %d", c.RestockAmount)
	}
	if !IsValidPurchasePolicy(c.PurchasePolicy) {
		return fmt.Errorf("unknown purchase_policy %q; valid policies: [random, greedy]", c.PurchasePolicy)
	}
	return nil
}
