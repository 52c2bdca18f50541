package config_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"pairmerge/internal/config"
)

func TestLoadDefaultConfigResolvesAgainstExecutableDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	exeDir, err := config.ExecutableDir()
	if err != nil {
		t.Fatalf("ExecutableDir: %v", err)
	}
	if cfg.Paths.BaseDir != exeDir {
		t.Fatalf("unexpected base dir: got %q want %q", cfg.Paths.BaseDir, exeDir)
	}
	if cfg.Paths.CNDir != filepath.Join(exeDir, "cn") {
		t.Fatalf("unexpected cn dir: %q", cfg.Paths.CNDir)
	}
	if cfg.Paths.ENDir != filepath.Join(exeDir, "en") {
		t.Fatalf("unexpected en dir: %q", cfg.Paths.ENDir)
	}
	if cfg.Paths.OutputDir != filepath.Join(exeDir, "output") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Loudness.Enabled {
		t.Fatal("expected loudness normalization disabled by default")
	}
	if cfg.Loudness.TargetDBFS != -20.0 {
		t.Fatalf("unexpected target: %v", cfg.Loudness.TargetDBFS)
	}
	if cfg.Run.Workers != 1 {
		t.Fatalf("expected sequential default, got %d workers", cfg.Run.Workers)
	}
	if cfg.FileTimeout() != 300*time.Second {
		t.Fatalf("unexpected file timeout: %v", cfg.FileTimeout())
	}
	if cfg.Encoder.Bitrate != "192k" {
		t.Fatalf("unexpected bitrate: %q", cfg.Encoder.Bitrate)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "pairmerge.toml")
	base := filepath.Join(tempDir, "clips")

	type payload struct {
		Paths struct {
			BaseDir   string `toml:"base_dir"`
			CNDir     string `toml:"cn_dir"`
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
		Loudness struct {
			Enabled    bool    `toml:"enabled"`
			TargetDBFS float64 `toml:"target_dbfs"`
		} `toml:"loudness"`
		Run struct {
			Workers            int `toml:"workers"`
			FileTimeoutSeconds int `toml:"file_timeout_seconds"`
		} `toml:"run"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
			Dir    string `toml:"dir"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.BaseDir = base
	custom.Paths.CNDir = "mandarin"
	custom.Paths.OutputDir = filepath.Join(tempDir, "merged")
	custom.Loudness.Enabled = true
	custom.Loudness.TargetDBFS = -14.5
	custom.Run.Workers = 4
	custom.Run.FileTimeoutSeconds = 0
	custom.Logging.Format = "JSON"
	custom.Logging.Level = " Debug "
	custom.Logging.Dir = "logs"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.CNDir != filepath.Join(base, "mandarin") {
		t.Fatalf("expected cn dir relative to base, got %q", cfg.Paths.CNDir)
	}
	if cfg.Paths.ENDir != filepath.Join(base, "en") {
		t.Fatalf("expected default en dir under base, got %q", cfg.Paths.ENDir)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempDir, "merged") {
		t.Fatalf("expected absolute output dir kept, got %q", cfg.Paths.OutputDir)
	}
	if !cfg.Loudness.Enabled || cfg.Loudness.TargetDBFS != -14.5 {
		t.Fatalf("unexpected loudness section: %+v", cfg.Loudness)
	}
	if cfg.Run.Workers != 4 {
		t.Fatalf("expected 4 workers, got %d", cfg.Run.Workers)
	}
	if cfg.FileTimeout() != 0 {
		t.Fatalf("expected disabled timeout, got %v", cfg.FileTimeout())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging, got %+v", cfg.Logging)
	}
	if cfg.Logging.Dir != filepath.Join(base, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Logging.Dir)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "pairmerge.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\nstaging_dir = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadMissingCustomPathUsesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists to be false")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if cfg.Encoder.FFmpegBinary != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary %q", cfg.Encoder.FFmpegBinary)
	}
}

func TestResolveDirsAfterOverride(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.BaseDir = base
	cfg.Paths.CNDir = "zh"
	cfg.Paths.ENDir = ""
	if err := cfg.ResolveDirs(); err != nil {
		t.Fatalf("ResolveDirs: %v", err)
	}
	if cfg.Paths.CNDir != filepath.Join(base, "zh") {
		t.Fatalf("unexpected cn dir %q", cfg.Paths.CNDir)
	}
	if cfg.Paths.ENDir != filepath.Join(base, "en") {
		t.Fatalf("expected default en dir, got %q", cfg.Paths.ENDir)
	}

	// Already absolute entries survive a second pass unchanged.
	before := cfg.Paths
	if err := cfg.ResolveDirs(); err != nil {
		t.Fatalf("ResolveDirs second pass: %v", err)
	}
	if cfg.Paths != before {
		t.Fatalf("second pass changed paths: %+v -> %+v", before, cfg.Paths)
	}
}

func TestResolvePathExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg := config.Default()
	cfg.Paths.BaseDir = "/srv/clips"

	got, err := cfg.ResolvePath("~/audio/cn")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if got != filepath.Join(home, "audio", "cn") {
		t.Fatalf("unexpected path %q", got)
	}
	if _, err := cfg.ResolvePath("   "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "target_dbfs = -20.0") {
		t.Fatalf("sample config missing loudness target: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Paths.CNDir != "cn" || cfg.Paths.ENDir != "en" || cfg.Paths.OutputDir != "output" {
		t.Fatalf("unexpected sample paths: %+v", cfg.Paths)
	}

	// The sample must load cleanly through the strict decoder.
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("Load sample: %v", err)
	}
}

func TestLanguageLabels(t *testing.T) {
	cfg := config.Default()
	first, second := cfg.LanguageLabels()
	if first != "Chinese" {
		t.Fatalf("unexpected first label %q", first)
	}
	if second != "English" {
		t.Fatalf("unexpected second label %q", second)
	}

	cfg.Languages.First = "not a tag!"
	first, _ = cfg.LanguageLabels()
	if first != "not a tag!" {
		t.Fatalf("expected raw fallback, got %q", first)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"positive target", func(c *config.Config) { c.Loudness.TargetDBFS = 3 }},
		{"nan target", func(c *config.Config) { c.Loudness.TargetDBFS = math.NaN() }},
		{"infinite target", func(c *config.Config) { c.Loudness.TargetDBFS = math.Inf(-1) }},
		{"zero workers", func(c *config.Config) { c.Run.Workers = 0 }},
		{"too many workers", func(c *config.Config) { c.Run.Workers = 65 }},
		{"negative timeout", func(c *config.Config) { c.Run.FileTimeoutSeconds = -1 }},
		{"bad bitrate", func(c *config.Config) { c.Encoder.Bitrate = "fast" }},
		{"empty binary", func(c *config.Config) { c.Encoder.FFmpegBinary = " " }},
		{"bad level", func(c *config.Config) { c.Logging.Level = "verbose" }},
		{"bad format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"bad language", func(c *config.Config) { c.Languages.Second = "??" }},
		{"output equals input", func(c *config.Config) { c.Paths.OutputDir = c.Paths.CNDir }},
		{"missing en dir", func(c *config.Config) { c.Paths.ENDir = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadResolvesRelativeBaseDirAgainstConfigFile(t *testing.T) {
	configDir := t.TempDir()
	configPath := filepath.Join(configDir, "pairmerge.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\nbase_dir = \"lessons\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Chdir(t.TempDir())

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := filepath.Join(configDir, "lessons")
	if cfg.Paths.BaseDir != want {
		t.Fatalf("base dir = %q, want %q", cfg.Paths.BaseDir, want)
	}
	if cfg.Paths.CNDir != filepath.Join(want, "cn") {
		t.Fatalf("unexpected cn dir %q", cfg.Paths.CNDir)
	}
}

func TestLoadRejectsOtherUsersHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	for _, body := range []string{
		"[paths]\ncn_dir = \"~alice/clips\"\n",
		"[paths]\nbase_dir = \"~alice\"\n",
	} {
		configPath := filepath.Join(t.TempDir(), "pairmerge.toml")
		if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		_, _, _, err := config.Load(configPath)
		if err == nil || !strings.Contains(err.Error(), "home references") {
			t.Fatalf("expected ~user rejection for %q, got %v", body, err)
		}
	}

	cfg := config.Default()
	cfg.Paths.BaseDir = "/srv/clips"
	if _, err := cfg.ResolvePath("~bob/en"); err == nil {
		t.Fatal("expected ResolvePath to reject ~bob/en")
	}
}
