package readprof

/*
====================================
SAMPLING CONFIG
====================================
*/

// Config controls latency sampling for a [SampledReader].
//
// A nil *Config means no configuration is available and produces a disabled
// reader. Config values are read once at construction.
type Config struct {
	// MetricsEnabled turns sampling on.
	MetricsEnabled bool
	// SamplingPercentage is the share of reads to time, in [0,100].
	SamplingPercentage int
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process [Metrics] aggregator.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns sampling disabled at a 1% rate, so that flipping
// MetricsEnabled is enough to start profiling.
func DefaultConfig() Config {
	return Config{
		MetricsEnabled:     false,
		SamplingPercentage: 1,
	}
}

// DefaultMetricsConfig returns an aggregator config with counters and the
// latency histogram enabled.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports a configuration that a [SampledReader] would silently
// degrade to disabled. Callers that prefer to reject bad settings at load
// time can call it before construction.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if c.SamplingPercentage < 0 || c.SamplingPercentage > 100 {
		return ErrInvalidSamplingPercentage
	}
	return nil
}
