package config

import "time"

const (
	defaultStateDir = "~/.local/share/livecap"
	defaultLogDir   = "~/.local/share/livecap/logs"

	defaultTickIntervalMS          = 500
	defaultStalenessMS             = 2000
	defaultLowConfidenceThreshold  = 0.7
	defaultEvictionWindowSeconds   = 30
	defaultEvictionIntervalSeconds = 15

	defaultMaxSessions              = 10
	defaultInactivityTimeoutMinutes = 5
	defaultSweepIntervalMinutes     = 2

	defaultLanguageHint = "en-US"

	defaultTargetLanguage            = "en"
	defaultTranslationTimeoutSeconds = 10

	defaultNotifyRequestTimeout = 10

	defaultArchiveRetentionDays = 30

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Captions: Captions{
			TickIntervalMS:          defaultTickIntervalMS,
			StalenessMS:             defaultStalenessMS,
			LowConfidenceThreshold:  defaultLowConfidenceThreshold,
			EvictionWindowSeconds:   defaultEvictionWindowSeconds,
			EvictionIntervalSeconds: defaultEvictionIntervalSeconds,
		},
		Sessions: Sessions{
			MaxSessions:              defaultMaxSessions,
			InactivityTimeoutMinutes: defaultInactivityTimeoutMinutes,
			SweepIntervalMinutes:     defaultSweepIntervalMinutes,
		},
		Recognition: Recognition{
			LanguageHint: defaultLanguageHint,
		},
		Translation: Translation{
			TargetLanguage: defaultTargetLanguage,
			TimeoutSeconds: defaultTranslationTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Errors:         true,
			Sessions:       false,
		},
		Archive: Archive{
			Enabled:       true,
			RetentionDays: defaultArchiveRetentionDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// TickInterval returns the synchronizer tick cadence.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Captions.TickIntervalMS) * time.Millisecond
}

// Staleness returns the maximum acceptable queue age of a caption before it is
// rejected as out of sync.
func (c *Config) Staleness() time.Duration {
	return time.Duration(c.Captions.StalenessMS) * time.Millisecond
}

// EvictionWindow returns the media-time window retained behind the playhead.
func (c *Config) EvictionWindow() float64 {
	return float64(c.Captions.EvictionWindowSeconds)
}

// EvictionInterval returns the cadence of the queue eviction pass.
func (c *Config) EvictionInterval() time.Duration {
	return time.Duration(c.Captions.EvictionIntervalSeconds) * time.Second
}

// InactivityTimeout returns how long a non-playing session may idle before it
// becomes a sweep candidate.
func (c *Config) InactivityTimeout() time.Duration {
	return time.Duration(c.Sessions.InactivityTimeoutMinutes) * time.Minute
}

// SweepInterval returns the cadence of the session lifecycle sweep.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Sessions.SweepIntervalMinutes) * time.Minute
}

// TranslationTimeout returns the per-request translation deadline.
func (c *Config) TranslationTimeout() time.Duration {
	return time.Duration(c.Translation.TimeoutSeconds) * time.Second
}
