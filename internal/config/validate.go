package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateBenchmark(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCapture() error {
	if c.Capture.RequestTimeout <= 0 {
		return errors.New("capture.request_timeout must be positive")
	}
	if c.Capture.SegmentConcurrency <= 0 {
		return errors.New("capture.segment_concurrency must be positive")
	}
	return nil
}

func (c *Config) validateBenchmark() error {
	if c.Benchmark.Workers <= 0 {
		return errors.New("benchmark.workers must be positive")
	}
	if c.Benchmark.Values <= 0 {
		return errors.New("benchmark.values must be positive")
	}
	if c.Benchmark.Warmups < 0 {
		return errors.New("benchmark.warmups must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
