package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCaptions()
	c.normalizeSessions()
	c.normalizeTranslation()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.Socket) != "" {
		if c.Paths.Socket, err = expandPath(c.Paths.Socket); err != nil {
			return fmt.Errorf("paths.socket: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeCaptions() {
	if c.Captions.TickIntervalMS <= 0 {
		c.Captions.TickIntervalMS = defaultTickIntervalMS
	}
	if c.Captions.StalenessMS <= 0 {
		c.Captions.StalenessMS = defaultStalenessMS
	}
	if c.Captions.LowConfidenceThreshold == 0 {
		c.Captions.LowConfidenceThreshold = defaultLowConfidenceThreshold
	}
	if c.Captions.EvictionWindowSeconds <= 0 {
		c.Captions.EvictionWindowSeconds = defaultEvictionWindowSeconds
	}
	if c.Captions.EvictionIntervalSeconds <= 0 {
		c.Captions.EvictionIntervalSeconds = defaultEvictionIntervalSeconds
	}
}

func (c *Config) normalizeSessions() {
	if c.Sessions.MaxSessions <= 0 {
		c.Sessions.MaxSessions = defaultMaxSessions
	}
	if c.Sessions.InactivityTimeoutMinutes <= 0 {
		c.Sessions.InactivityTimeoutMinutes = defaultInactivityTimeoutMinutes
	}
	if c.Sessions.SweepIntervalMinutes <= 0 {
		c.Sessions.SweepIntervalMinutes = defaultSweepIntervalMinutes
	}
}

func (c *Config) normalizeTranslation() {
	c.Translation.BaseURL = strings.TrimRight(strings.TrimSpace(c.Translation.BaseURL), "/")
	c.Translation.APIKey = strings.TrimSpace(c.Translation.APIKey)
	c.Translation.SourceLanguage = strings.TrimSpace(c.Translation.SourceLanguage)
	if strings.TrimSpace(c.Translation.TargetLanguage) == "" {
		c.Translation.TargetLanguage = defaultTargetLanguage
	}
	if c.Translation.TimeoutSeconds <= 0 {
		c.Translation.TimeoutSeconds = defaultTranslationTimeoutSeconds
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Archive.RetentionDays <= 0 {
		c.Archive.RetentionDays = defaultArchiveRetentionDays
	}
}
