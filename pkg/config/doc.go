// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv (optional .env files) and
// github.com/caarlos0/env/v11 (struct tag parsing). Each configuration type
// is parsed once and cached for the lifetime of the process; ResetCache
// clears the cache in tests.
//
// # Usage
//
//	type Config struct {
//	    Addr     string `env:"HTTP_ADDR" envDefault:":8080"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// # Error Handling
//
// Errors wrap one of the sentinel values and can be checked with errors.Is:
//
//   - ErrParsingConfig: the environment could not be parsed into the struct
//   - ErrInvalidConfigType: the target is not a struct
//   - ErrLoadingEnvFile: an explicitly requested .env file could not be read
//   - ErrNilPointer: Load was called with a nil pointer
package config
