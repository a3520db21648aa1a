// Package config defines the top-level configuration for the prediction
// engine and provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by PREDENGINE_* environment
// variables.
type Config struct {
	Polymarket PolymarketConfig `toml:"polymarket"`
	Wallet     WalletConfig     `toml:"wallet"`
	Arbitrage  ArbitrageConfig  `toml:"arbitrage"`
	Execution  ExecutionConfig  `toml:"execution"`
	Metrics    MetricsConfig    `toml:"metrics"`
	LogLevel   string           `toml:"log_level"`
}

// PolymarketConfig holds venue API endpoints and chain parameters.
type PolymarketConfig struct {
	ClobHost  string `toml:"clob_host"`
	GammaHost string `toml:"gamma_host"`
	WsHost    string `toml:"ws_host"`
	ChainID   int    `toml:"chain_id"`
}

// WalletConfig holds the Ethereum signing key used by the live executor.
// Unused entirely when execution.mode is "paper".
type WalletConfig struct {
	PrivateKey string `toml:"private_key"`
}

// ArbitrageConfig holds the reference strategy's parameters (§4.6).
type ArbitrageConfig struct {
	MinEdge     float64 `toml:"min_edge"`
	DefaultSize float64 `toml:"default_size"`
}

// ExecutionConfig selects which Executor the bridge runs against.
type ExecutionConfig struct {
	// Mode is "paper" (simulated fills, default) or "live" (signs and
	// submits real orders — requires wallet.private_key).
	Mode     string `toml:"mode"`
	ClobHost string `toml:"clob_host"`
}

// MetricsConfig controls the optional Prometheus exporter.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Polymarket: PolymarketConfig{
			ClobHost:  "https://clob.polymarket.com",
			GammaHost: "https://gamma-api.polymarket.com",
			WsHost:    "wss://ws-subscriptions-clob.polymarket.com",
			ChainID:   137,
		},
		Arbitrage: ArbitrageConfig{
			MinEdge:     0.01,
			DefaultSize: 5.0,
		},
		Execution: ExecutionConfig{
			Mode:     "paper",
			ClobHost: "https://clob.polymarket.com",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
		LogLevel: "info",
	}
}

var validExecutionModes = map[string]bool{
	"paper": true,
	"live":  true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and
// returns a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Polymarket.ClobHost == "" {
		errs = append(errs, "polymarket: clob_host must not be empty")
	}
	if c.Polymarket.GammaHost == "" {
		errs = append(errs, "polymarket: gamma_host must not be empty")
	}
	if c.Polymarket.WsHost == "" {
		errs = append(errs, "polymarket: ws_host must not be empty")
	}
	if c.Polymarket.ChainID <= 0 {
		errs = append(errs, "polymarket: chain_id must be positive")
	}

	if c.Arbitrage.MinEdge <= 0 {
		errs = append(errs, "arbitrage: min_edge must be > 0")
	}
	if c.Arbitrage.DefaultSize <= 0 {
		errs = append(errs, "arbitrage: default_size must be > 0")
	}

	if !validExecutionModes[strings.ToLower(c.Execution.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown execution.mode %q (valid: paper, live)", c.Execution.Mode))
	}
	if strings.ToLower(c.Execution.Mode) == "live" {
		if c.Wallet.PrivateKey == "" {
			errs = append(errs, "wallet: private_key is required when execution.mode is \"live\"")
		}
		if c.Execution.ClobHost == "" {
			errs = append(errs, "execution: clob_host must not be empty when execution.mode is \"live\"")
		}
	}

	if c.Metrics.Enabled {
		if c.Metrics.Port <= 0 || c.Metrics.Port > 65535 {
			errs = append(errs, fmt.Sprintf("metrics: port must be 1-65535, got %d", c.Metrics.Port))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
