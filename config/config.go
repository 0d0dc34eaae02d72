// Package config reads the settings of a co-simulation run from the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid setting")

// Config holds the settings of a run. Times are in milliseconds.
type Config struct {
	TimeStepMs            float64 `env:"COSIM_TIME_STEP_MS"            envDefault:"0.1"`
	DefaultPresentationMs float64 `env:"COSIM_DEFAULT_PRESENTATION_MS" envDefault:"200"`
	RatePeriodMs          float64 `env:"COSIM_RATE_PERIOD_MS"          envDefault:"10"`
	RateWindow            int     `env:"COSIM_RATE_WINDOW"             envDefault:"10"`
	RecordPath            string  `env:"COSIM_RECORD_PATH"`
	Record                bool    `env:"COSIM_RECORD"                  envDefault:"false"`
	Monitor               bool    `env:"COSIM_MONITOR"                 envDefault:"false"`
	MonitorPort           int     `env:"COSIM_MONITOR_PORT"            envDefault:"0"`
	OpenBrowser           bool    `env:"COSIM_OPEN_BROWSER"            envDefault:"false"`
	LogLevel              string  `env:"COSIM_LOG_LEVEL"               envDefault:"info"`
}

// Load reads the given .env files, or ./.env when none is given, and then
// parses the environment. Missing files are skipped. Variables already set
// in the environment win over the files.
func Load(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}

	for _, f := range dotenvFiles {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: loading %s: %w", f, err)
		}
	}

	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings that the environment parser cannot.
func (c Config) Validate() error {
	switch {
	case c.TimeStepMs <= 0:
		return fmt.Errorf("%w: time step %v", ErrInvalid, c.TimeStepMs)
	case c.DefaultPresentationMs <= 0:
		return fmt.Errorf("%w: default presentation duration %v",
			ErrInvalid, c.DefaultPresentationMs)
	case c.RatePeriodMs <= 0:
		return fmt.Errorf("%w: rate period %v", ErrInvalid, c.RatePeriodMs)
	case c.RateWindow < 1:
		return fmt.Errorf("%w: rate window %d", ErrInvalid, c.RateWindow)
	case c.MonitorPort < 0 || c.MonitorPort > 65535:
		return fmt.Errorf("%w: monitor port %d", ErrInvalid, c.MonitorPort)
	}

	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return nil
}

// Level returns the log level named by LogLevel.
func (c Config) Level() (logrus.Level, error) {
	return logrus.ParseLevel(c.LogLevel)
}
