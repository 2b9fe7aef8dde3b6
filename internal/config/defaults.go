package config

const (
	defaultFixtureRoot        = "~/.local/share/subrec/fixtures"
	defaultLogDir             = "~/.local/share/subrec/logs"
	defaultHistoryDB          = "~/.local/share/subrec/history.db"
	defaultUserAgent          = "subrec/dev"
	defaultRequestTimeout     = 45
	defaultSegmentConcurrency = 4
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultBenchWorkers       = 5
	defaultBenchValues        = 10
	defaultBenchWarmups       = 1
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			FixtureRoot: defaultFixtureRoot,
			LogDir:      defaultLogDir,
			HistoryDB:   defaultHistoryDB,
		},
		Capture: Capture{
			UserAgent:          defaultUserAgent,
			RequestTimeout:     defaultRequestTimeout,
			SegmentConcurrency: defaultSegmentConcurrency,
		},
		Benchmark: Benchmark{
			Workers: defaultBenchWorkers,
			Values:  defaultBenchValues,
			Warmups: defaultBenchWarmups,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
