// Package config holds the server settings, read from command-line flags
// with environment variable fallbacks.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"
)

type Config struct {
	Addr          string
	AllowOrigins  string
	DefaultDepth  int
	MaxDepth      int
	SearchTimeout time.Duration
	Workers       int
}

func Default() Config {
	return Config{
		Addr:          ":3000",
		AllowOrigins:  "http://localhost:5173",
		DefaultDepth:  2,
		MaxDepth:      4,
		SearchTimeout: 30 * time.Second,
		Workers:       runtime.NumCPU(),
	}
}

// Load parses args (without the program name). Environment variables
// CHESS_ADDR, CHESS_ALLOW_ORIGINS, CHESS_DEFAULT_DEPTH, CHESS_MAX_DEPTH,
// CHESS_SEARCH_TIMEOUT and CHESS_WORKERS supply defaults that flags override.
func Load(args []string) (Config, error) {
	cfg := Default()
	if err := cfg.fromEnv(os.Getenv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AllowOrigins, "origins", cfg.AllowOrigins, "comma separated CORS origins")
	fs.IntVar(&cfg.DefaultDepth, "depth", cfg.DefaultDepth, "search depth when a request names none")
	fs.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "deepest search a request may ask for")
	fs.DurationVar(&cfg.SearchTimeout, "timeout", cfg.SearchTimeout, "search deadline")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "root moves searched in parallel")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) fromEnv(getenv func(string) string) error {
	if v := getenv("CHESS_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("CHESS_ALLOW_ORIGINS"); v != "" {
		c.AllowOrigins = v
	}
	for _, e := range []struct {
		name string
		dst  *int
	}{
		{"CHESS_DEFAULT_DEPTH", &c.DefaultDepth},
		{"CHESS_MAX_DEPTH", &c.MaxDepth},
		{"CHESS_WORKERS", &c.Workers},
	} {
		if v := getenv(e.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.name, err)
			}
			*e.dst = n
		}
	}
	if v := getenv("CHESS_SEARCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHESS_SEARCH_TIMEOUT: %w", err)
		}
		c.SearchTimeout = d
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max depth %d is negative", c.MaxDepth))
	}
	if c.DefaultDepth < 0 || c.DefaultDepth > c.MaxDepth {
		errs = append(errs, fmt.Errorf("default depth %d outside 0..%d", c.DefaultDepth, c.MaxDepth))
	}
	if c.SearchTimeout <= 0 {
		errs = append(errs, errors.New("search timeout must be positive"))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers %d must be at least 1", c.Workers))
	}
	return errors.Join(errs...)
}
