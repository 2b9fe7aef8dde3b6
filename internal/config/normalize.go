package config

import (
	"fmt"
	"strings"

	"subrec/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCapture()
	c.normalizeBenchmark()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.FixtureRoot) == "" {
		c.Paths.FixtureRoot = defaultFixtureRoot
	}
	if c.Paths.FixtureRoot, err = ExpandPath(c.Paths.FixtureRoot); err != nil {
		return fmt.Errorf("paths.fixture_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = ExpandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeCapture() {
	c.Capture.UserAgent = strings.TrimSpace(c.Capture.UserAgent)
	if c.Capture.UserAgent == "" {
		c.Capture.UserAgent = defaultUserAgent
	}
	if c.Capture.RequestTimeout <= 0 {
		c.Capture.RequestTimeout = defaultRequestTimeout
	}
	if c.Capture.SegmentConcurrency <= 0 {
		c.Capture.SegmentConcurrency = defaultSegmentConcurrency
	}
	c.Capture.Languages = language.NormalizeList(c.Capture.Languages)
}

func (c *Config) normalizeBenchmark() {
	if c.Benchmark.Workers <= 0 {
		c.Benchmark.Workers = defaultBenchWorkers
	}
	if c.Benchmark.Values <= 0 {
		c.Benchmark.Values = defaultBenchValues
	}
	if c.Benchmark.Warmups < 0 {
		c.Benchmark.Warmups = defaultBenchWarmups
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
