// Package config loads typed configuration from environment variables.
//
// Structs are described with caarlos0/env tags. Load parses a struct once
// per type and serves later calls from a process-wide cache; Parse skips
// the cache and accepts a prefix or an explicit variable map. LoadEnv reads
// .env files with godotenv before parsing.
//
//	type StoreConfig struct {
//	    Backend string `env:"SESSION_STORE" envDefault:"memory"`
//	}
//
//	var cfg StoreConfig
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
//	sess, err := config.Parse[session.Config](config.WithEnvironment(map[string]string{
//	    "SESSION_TTL": "1h",
//	}))
//
// Errors wrap ErrParsingConfig, ErrNilPointer or ErrLoadingEnvFile. Tests
// can call ResetCache or ForceReloadConfig after changing the environment.
package config
