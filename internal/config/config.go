package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the input and output directories. Relative entries are
// resolved against BaseDir.
type Paths struct {
	BaseDir   string `toml:"base_dir"`
	CNDir     string `toml:"cn_dir"`
	ENDir     string `toml:"en_dir"`
	OutputDir string `toml:"output_dir"`
}

// Loudness controls optional per-clip normalization before merging.
type Loudness struct {
	Enabled    bool    `toml:"enabled"`
	TargetDBFS float64 `toml:"target_dbfs"`
}

// Encoder contains MP3 output settings.
type Encoder struct {
	FFmpegBinary string `toml:"ffmpeg_binary"`
	Bitrate      string `toml:"bitrate"`
}

// Run contains scheduling knobs for a merge run.
type Run struct {
	Workers            int `toml:"workers"`
	FileTimeoutSeconds int `toml:"file_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	Dir        string `toml:"dir"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Languages names the language of each input directory as BCP 47 tags.
type Languages struct {
	First  string `toml:"first"`
	Second string `toml:"second"`
}

// Config encapsulates all configuration values for pairmerge.
//
// Configuration sections:
//   - Paths: base, input, and output directories
//   - Loudness: normalization toggle and target level
//   - Encoder: ffmpeg binary and MP3 bitrate
//   - Run: worker count and per-pair timeout
//   - Logging: log format, level, and optional rotating file
//   - Languages: labels for the first and second input directory
type Config struct {
	Paths     Paths     `toml:"paths"`
	Loudness  Loudness  `toml:"loudness"`
	Encoder   Encoder   `toml:"encoder"`
	Run       Run       `toml:"run"`
	Logging   Logging   `toml:"logging"`
	Languages Languages `toml:"languages"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file
// yields defaults. The returned config has all path fields resolved.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	configDir := ""
	if exists {
		configDir = filepath.Dir(resolvedPath)
	}
	if err := cfg.normalize(configDir); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// ResolvePath expands a directory setting. Absolute and tilde paths are
// used as given; relative paths are joined onto Paths.BaseDir.
func (c *Config) ResolvePath(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.New("empty path")
	}
	if strings.HasPrefix(value, "~") || filepath.IsAbs(value) {
		return expandPath(value)
	}
	return filepath.Join(c.Paths.BaseDir, value), nil
}

// FileTimeout returns the per-pair deadline, or zero when disabled.
func (c *Config) FileTimeout() time.Duration {
	if c.Run.FileTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Run.FileTimeoutSeconds) * time.Second
}

// LanguageLabels returns English display names for the two input languages,
// falling back to the raw tags when no name is known.
func (c *Config) LanguageLabels() (string, string) {
	return languageLabel(c.Languages.First), languageLabel(c.Languages.Second)
}

func languageLabel(value string) string {
	tag, err := language.Parse(value)
	if err != nil {
		return value
	}
	if name := display.Tags(language.English).Name(tag); name != "" {
		return name
	}
	return tag.String()
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		switch {
		case pathValue == "~":
			pathValue = home
		case pathValue[1] == '/' || pathValue[1] == '\\':
			pathValue = filepath.Join(home, pathValue[2:])
		default:
			return "", fmt.Errorf("%q: only ~ and ~/ home references are supported", pathValue)
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

var executablePath = os.Executable

// ExecutableDir returns the directory holding the running binary with
// symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := executablePath()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
