package config

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

var bitratePattern = regexp.MustCompile(`^[0-9]{2,3}k$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLoudness(); err != nil {
		return err
	}
	if err := c.validateEncoder(); err != nil {
		return err
	}
	if err := c.validateRun(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateLanguages(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.CNDir) == "" {
		return errors.New("paths.cn_dir must be set")
	}
	if strings.TrimSpace(c.Paths.ENDir) == "" {
		return errors.New("paths.en_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.OutputDir == c.Paths.CNDir || c.Paths.OutputDir == c.Paths.ENDir {
		return fmt.Errorf("paths.output_dir %s must differ from the input directories", c.Paths.OutputDir)
	}
	return nil
}

func (c *Config) validateLoudness() error {
	target := c.Loudness.TargetDBFS
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return errors.New("loudness.target_dbfs must be a finite number")
	}
	if target > 0 {
		return fmt.Errorf("loudness.target_dbfs must be <= 0 (got %.2f)", target)
	}
	return nil
}

func (c *Config) validateEncoder() error {
	if strings.TrimSpace(c.Encoder.FFmpegBinary) == "" {
		return errors.New("encoder.ffmpeg_binary must be set")
	}
	if !bitratePattern.MatchString(c.Encoder.Bitrate) {
		return fmt.Errorf("encoder.bitrate must look like \"192k\" (got %q)", c.Encoder.Bitrate)
	}
	return nil
}

func (c *Config) validateRun() error {
	if c.Run.Workers < 1 || c.Run.Workers > maxWorkers {
		return fmt.Errorf("run.workers must be between 1 and %d", maxWorkers)
	}
	if c.Run.FileTimeoutSeconds < 0 {
		return errors.New("run.file_timeout_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateLanguages() error {
	if _, err := language.Parse(c.Languages.First); err != nil {
		return fmt.Errorf("languages.first: invalid tag %q: %w", c.Languages.First, err)
	}
	if _, err := language.Parse(c.Languages.Second); err != nil {
		return fmt.Errorf("languages.second: invalid tag %q: %w", c.Languages.Second, err)
	}
	return nil
}
