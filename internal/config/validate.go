package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSegmentation(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSegmentation() error {
	s := c.Segmentation
	if s.IntervalMinutes < 1 {
		return errors.New("segmentation.interval_minutes must be at least 1")
	}
	if s.TailGuardSeconds < 0 {
		return errors.New("segmentation.tail_guard_seconds must not be negative")
	}
	if s.FallbackOffsetSeconds < 0 {
		return errors.New("segmentation.fallback_offset_seconds must not be negative")
	}
	if s.MinTailSeconds < 0 {
		return errors.New("segmentation.min_tail_seconds must not be negative")
	}
	if s.MinGapSeconds < 1 {
		return errors.New("segmentation.min_gap_seconds must be at least 1")
	}
	previous := 0
	for _, radius := range s.SearchRadiiSeconds {
		if radius <= previous {
			return fmt.Errorf("segmentation.search_radii_seconds must be ascending and positive, got %v", s.SearchRadiiSeconds)
		}
		previous = radius
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	checks := []struct {
		name  string
		value int
	}{
		{"timeouts.probe_seconds", c.Timeouts.ProbeSeconds},
		{"timeouts.detect_seconds", c.Timeouts.DetectSeconds},
		{"timeouts.extract_seconds", c.Timeouts.ExtractSeconds},
		{"timeouts.cut_seconds", c.Timeouts.CutSeconds},
		{"separation.timeout_seconds", c.Separation.TimeoutSeconds},
	}
	for _, check := range checks {
		if check.value <= 0 {
			return fmt.Errorf("%s must be positive", check.name)
		}
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
