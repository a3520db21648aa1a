package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies PREDENGINE_* environment variable overrides,
// and returns the final Config. The returned Config has NOT been
// validated; the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known PREDENGINE_* environment variables
// and overwrites the corresponding Config fields when a variable is set.
// This lets operators inject the signing key at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Polymarket.ClobHost, "PREDENGINE_POLYMARKET_CLOB_HOST")
	setStr(&cfg.Polymarket.GammaHost, "PREDENGINE_POLYMARKET_GAMMA_HOST")
	setStr(&cfg.Polymarket.WsHost, "PREDENGINE_POLYMARKET_WS_HOST")
	setInt(&cfg.Polymarket.ChainID, "PREDENGINE_POLYMARKET_CHAIN_ID")

	setStr(&cfg.Wallet.PrivateKey, "PREDENGINE_WALLET_PRIVATE_KEY")

	setFloat64(&cfg.Arbitrage.MinEdge, "PREDENGINE_ARBITRAGE_MIN_EDGE")
	setFloat64(&cfg.Arbitrage.DefaultSize, "PREDENGINE_ARBITRAGE_DEFAULT_SIZE")

	setStr(&cfg.Execution.Mode, "PREDENGINE_EXECUTION_MODE")
	setStr(&cfg.Execution.ClobHost, "PREDENGINE_EXECUTION_CLOB_HOST")

	setBool(&cfg.Metrics.Enabled, "PREDENGINE_METRICS_ENABLED")
	setInt(&cfg.Metrics.Port, "PREDENGINE_METRICS_PORT")

	setStr(&cfg.LogLevel, "PREDENGINE_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
