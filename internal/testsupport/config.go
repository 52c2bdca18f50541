package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"pairmerge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a fresh temp directory with existing
// cn/ and en/ input directories. The output directory is left for the run to
// create.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.BaseDir = base
	cfgVal.Paths.CNDir = filepath.Join(base, "cn")
	cfgVal.Paths.ENDir = filepath.Join(base, "en")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	for _, dir := range []string{cfgVal.Paths.CNDir, cfgVal.Paths.ENDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithLoudness enables normalization toward target.
func WithLoudness(target float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Loudness.Enabled = true
		b.cfg.Loudness.TargetDBFS = target
	}
}

// WithWorkers sets the number of concurrent pairs.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Run.Workers = n
	}
}

// WithLogDir enables the rotating log file under the test base directory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Dir = filepath.Join(b.baseDir, "logs")
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		if tb, ok := b.t.(interface{ Setenv(string, string) }); ok {
			tb.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
		}
	}
}
