package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"pairmerge/internal/config"
	"pairmerge/internal/merge"
	"pairmerge/internal/testsupport"
)

const testRate = 8000

type cliTestEnv struct {
	cfg        *config.Config
	codec      *testsupport.FakeCodec
	baseDir    string
	configPath string
}

// setupCLITestEnv writes a config whose directories are relative to a temp
// base dir, stubs ffmpeg on PATH, and routes decoding and encoding through a
// FakeCodec.
func setupCLITestEnv(t *testing.T, extraConfig string) *cliTestEnv {
	t.Helper()

	home := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	fake := testsupport.NewFakeCodec()
	base := cfg.Paths.BaseDir

	prevDecoder, prevEncoder, prevExeDir := newDecoder, newEncoder, executableDir
	newDecoder = func() merge.Decoder { return fake }
	newEncoder = func(string, string) merge.Encoder { return fake }
	executableDir = func() (string, error) { return base, nil }
	t.Cleanup(func() {
		newDecoder, newEncoder, executableDir = prevDecoder, prevEncoder, prevExeDir
	})

	configPath := filepath.Join(base, "pairmerge.toml")
	content := fmt.Sprintf("[paths]\nbase_dir = %q\n%s", base, extraConfig)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{cfg: cfg, codec: fake, baseDir: base, configPath: configPath}
}

// addClips creates placeholder files in dir and registers a decodable clip
// for each.
func (env *cliTestEnv) addClips(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, path := range testsupport.TouchClips(t, dir, names...) {
		env.codec.Add(path, testsupport.SineClipAt(testRate, 1, -20, testRate/10))
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected %s to be non-empty", path)
	}
}

// holdLock takes the run lock at path the way a concurrent run would and
// returns the release func.
func holdLock(t *testing.T, path string) func() {
	t.Helper()
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire lock %s: locked=%v err=%v", path, locked, err)
	}
	return func() { _ = lock.Unlock() }
}
