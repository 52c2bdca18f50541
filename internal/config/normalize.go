package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// normalize fills defaults and resolves paths. configDir is the directory of
// the loaded config file, or empty when defaults are in use.
func (c *Config) normalize(configDir string) error {
	if err := c.normalizePaths(configDir); err != nil {
		return err
	}
	c.normalizeEncoder()
	c.normalizeRun()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	c.normalizeLanguages()
	return nil
}

// normalizePaths never consults the working directory: an empty base_dir is
// the executable's directory and a relative one is taken from the config
// file's directory (or the executable's when there is no file).
func (c *Config) normalizePaths(configDir string) error {
	base := strings.TrimSpace(c.Paths.BaseDir)
	switch {
	case filepath.IsAbs(base) || strings.HasPrefix(base, "~"):
	case base != "" && configDir != "":
		base = filepath.Join(configDir, base)
	default:
		exeDir, err := ExecutableDir()
		if err != nil {
			return fmt.Errorf("paths.base_dir: %w", err)
		}
		base = filepath.Join(exeDir, base)
	}
	resolved, err := expandPath(base)
	if err != nil {
		return fmt.Errorf("paths.base_dir: %w", err)
	}
	c.Paths.BaseDir = resolved
	return c.ResolveDirs()
}

// ResolveDirs resolves the input and output directories against BaseDir,
// substituting defaults for empty entries. It is safe to call again after
// overriding fields.
func (c *Config) ResolveDirs() error {
	var err error
	if strings.TrimSpace(c.Paths.CNDir) == "" {
		c.Paths.CNDir = defaultCNDir
	}
	if c.Paths.CNDir, err = c.ResolvePath(c.Paths.CNDir); err != nil {
		return fmt.Errorf("paths.cn_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ENDir) == "" {
		c.Paths.ENDir = defaultENDir
	}
	if c.Paths.ENDir, err = c.ResolvePath(c.Paths.ENDir); err != nil {
		return fmt.Errorf("paths.en_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = c.ResolvePath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeEncoder() {
	c.Encoder.FFmpegBinary = strings.TrimSpace(c.Encoder.FFmpegBinary)
	if c.Encoder.FFmpegBinary == "" {
		c.Encoder.FFmpegBinary = defaultFFmpegBinary
	}
	c.Encoder.Bitrate = strings.ToLower(strings.TrimSpace(c.Encoder.Bitrate))
	if c.Encoder.Bitrate == "" {
		c.Encoder.Bitrate = defaultBitrate
	}
}

func (c *Config) normalizeRun() {
	if c.Run.Workers == 0 {
		c.Run.Workers = defaultWorkers
	}
	if c.Run.FileTimeoutSeconds < 0 {
		c.Run.FileTimeoutSeconds = 0
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		dir, err := c.ResolvePath(c.Logging.Dir)
		if err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
		c.Logging.Dir = dir
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	return nil
}

func (c *Config) normalizeLanguages() {
	c.Languages.First = strings.TrimSpace(c.Languages.First)
	if c.Languages.First == "" {
		c.Languages.First = defaultFirstLanguage
	}
	c.Languages.Second = strings.TrimSpace(c.Languages.Second)
	if c.Languages.Second == "" {
		c.Languages.Second = defaultSecondLanguage
	}
}
