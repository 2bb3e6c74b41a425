package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"Astrolabe/pkg/validate"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Log         struct {
		Level      string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format     string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output     string `yaml:"output" default:"stderr"`
		TimeFormat string `yaml:"time_format"`
	} `yaml:"log"`
	Chart struct {
		HouseSystem         string   `yaml:"house_system" default:"P" validate:"oneof=P K E W R C B H M T O"`
		FallbackHouseSystem string   `yaml:"fallback_house_system" default:"W" validate:"oneof=P K E W R C B H M T O"`
		WheelConvention     string   `yaml:"wheel_convention" default:"standard" validate:"oneof=standard alternate"`
		Bodies              []string `yaml:"bodies"`
		Flags               int      `yaml:"flags" default:"258"`
	} `yaml:"chart"`
	Design struct {
		Enabled         bool          `yaml:"enabled" default:"true"`
		SolarArc        float64       `yaml:"solar_arc" default:"88" validate:"gt=0,lt=360"`
		MeanDailyMotion float64       `yaml:"mean_daily_motion" default:"0.9856" validate:"gt=0"`
		MarginDays      float64       `yaml:"margin_days" default:"5" validate:"gt=0"`
		BracketStepDays float64       `yaml:"bracket_step_days" default:"2" validate:"gt=0"`
		MaxRetries      int           `yaml:"max_retries" default:"10" validate:"min=1"`
		MaxIterations   int           `yaml:"max_iterations" default:"60" validate:"min=1"`
		ToleranceDeg    float64       `yaml:"tolerance_deg" default:"0.000001" validate:"gt=0"`
		TimeTolerance   time.Duration `yaml:"time_tolerance" default:"1s"`
	} `yaml:"design"`
	Cache struct {
		Enabled bool          `yaml:"enabled" default:"true"`
		TTL     time.Duration `yaml:"ttl" default:"10m"`
		MaxSize int           `yaml:"max_size" default:"4096" validate:"min=0"`
	} `yaml:"cache"`
	Metrics struct {
		Enabled  bool   `yaml:"enabled" default:"true"`
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
	Batch struct {
		Workers int `yaml:"workers" default:"4" validate:"min=1,max=256"`
	} `yaml:"batch"`
}

// Default returns the configuration with every default applied.
func Default() *Config {
	c, err := parse(nil)
	if err != nil {
		panic(fmt.Sprintf("config defaults are invalid: %v", err))
	}
	return c
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parse(b)
}

func parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML (or defaults when path is empty) and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	var (
		c   *Config
		err error
	)
	if path == "" {
		c, err = parse(nil)
	} else {
		c, err = Load(path)
	}
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ASTRO_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("ASTRO_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ASTRO_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("ASTRO_HOUSE_SYSTEM"); v != "" {
		c.Chart.HouseSystem = v
	}
	if v := os.Getenv("ASTRO_WHEEL_CONVENTION"); v != "" {
		c.Chart.WheelConvention = v
	}
	if v := os.Getenv("ASTRO_BATCH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("ASTRO_BATCH_WORKERS: %w", err)
		}
		c.Batch.Workers = n
	}
	if v := os.Getenv("ASTRO_METRICS_TEXTFILE"); v != "" {
		c.Metrics.Textfile = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validate.Check(context.Background(), c)
}
