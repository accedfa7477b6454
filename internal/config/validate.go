package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCaptions(); err != nil {
		return err
	}
	if err := c.validateSessions(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCaptions() error {
	if c.Captions.LowConfidenceThreshold < 0 || c.Captions.LowConfidenceThreshold > 1 {
		return errors.New("captions.low_confidence_threshold must be between 0 and 1")
	}
	if c.Captions.StalenessMS < c.Captions.TickIntervalMS {
		return fmt.Errorf("captions.staleness_ms (%d) must be at least the tick interval (%d)",
			c.Captions.StalenessMS, c.Captions.TickIntervalMS)
	}
	return nil
}

func (c *Config) validateSessions() error {
	if c.Sessions.MaxSessions < 1 {
		return errors.New("sessions.max_sessions must be at least 1")
	}
	return nil
}

func (c *Config) validateTranslation() error {
	if strings.TrimSpace(c.Translation.BaseURL) == "" {
		// Translation is optional; without a provider the daemon shows
		// original-language captions only.
		return nil
	}
	if !strings.HasPrefix(c.Translation.BaseURL, "http://") && !strings.HasPrefix(c.Translation.BaseURL, "https://") {
		return fmt.Errorf("translation.base_url %q must be an http(s) URL", c.Translation.BaseURL)
	}
	if strings.TrimSpace(c.Translation.TargetLanguage) == "" {
		return errors.New("translation.target_language must be set when a provider is configured")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
