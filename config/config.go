// Package config loads engine configuration from an optional YAML file with
// environment overrides for deployment-specific values.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config models jobwatch.yml plus the environment-only settings.
type Config struct {
	// DatabaseURL comes from DATABASE_URL; never from the file.
	DatabaseURL string `yaml:"-"`
	ListenAddr  string `yaml:"listen_addr"`

	Escalation struct {
		// RestDay is the weekday excluded from active time ("Sunday").
		RestDay string `yaml:"rest_day"`
		// Level1Hours and Level2Hours are the active-hour thresholds.
		Level1Hours float64 `yaml:"level1_hours"`
		Level2Hours float64 `yaml:"level2_hours"`
		// CooldownHours is the minimum active-hour gap between reminders.
		CooldownHours float64 `yaml:"cooldown_hours"`
		// SnoozeHours is how far a snooze pushes the deadline.
		SnoozeHours float64 `yaml:"snooze_hours"`
	} `yaml:"escalation"`

	Scheduler struct {
		Workers           int `yaml:"workers"`
		JobTimeoutSeconds int `yaml:"job_timeout_seconds"`
	} `yaml:"scheduler"`

	// CronSecret guards the trigger endpoint; CRON_SECRET overrides.
	// Empty disables the check.
	CronSecret string `yaml:"cron_secret"`
}

// Default returns the deployed configuration: Sunday rest, 24/48 thresholds,
// 24h cooldown and snooze.
func Default() Config {
	var c Config
	c.ListenAddr = ":8080"
	c.Escalation.RestDay = "Sunday"
	c.Escalation.Level1Hours = 24
	c.Escalation.Level2Hours = 48
	c.Escalation.CooldownHours = 24
	c.Escalation.SnoozeHours = 24
	c.Scheduler.Workers = 4
	c.Scheduler.JobTimeoutSeconds = 5
	return c
}

// JobTimeout is the per-job store I/O budget within a pass.
func (c Config) JobTimeout() time.Duration {
	return time.Duration(c.Scheduler.JobTimeoutSeconds) * time.Second
}

// Load reads path when it exists, applies environment overrides, and
// validates. An empty path skips the file entirely.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("CRON_SECRET"); v != "" {
		c.CronSecret = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate ensures the thresholds form an ordered table.
func (c Config) Validate() error {
	if _, err := c.RestDay(); err != nil {
		return err
	}
	if c.Escalation.Level1Hours <= 0 {
		return fmt.Errorf("config: level1_hours must be positive")
	}
	if c.Escalation.Level2Hours <= c.Escalation.Level1Hours {
		return fmt.Errorf("config: level2_hours must exceed level1_hours")
	}
	if c.Escalation.CooldownHours <= 0 {
		return fmt.Errorf("config: cooldown_hours must be positive")
	}
	if c.Escalation.SnoozeHours <= 0 {
		return fmt.Errorf("config: snooze_hours must be positive")
	}
	if c.Scheduler.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative")
	}
	return nil
}

// RestDay parses the configured weekday name.
func (c Config) RestDay() (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), c.Escalation.RestDay) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("config: unknown rest day %q", c.Escalation.RestDay)
}
