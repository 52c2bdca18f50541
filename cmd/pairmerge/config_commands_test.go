package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "conf", "pairmerge.toml")

	stdout, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, stdout, "Wrote sample configuration to "+target)
	requireFile(t, target)

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigInitSkipsBrokenConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	broken := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(broken, []byte("not toml ["), 0o644); err != nil {
		t.Fatalf("write broken config: %v", err)
	}
	target := filepath.Join(t.TempDir(), "fresh.toml")
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, broken); err != nil {
		t.Fatalf("config init must not load the existing config: %v", err)
	}
}

func TestConfigValidatePrintsResolvedPaths(t *testing.T) {
	env := setupCLITestEnv(t, "[loudness]\nenabled = true\ntarget_dbfs = -16.0\n")

	stdout, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, stdout, "Config path: "+env.configPath)
	requireContains(t, stdout, "Chinese clips: "+filepath.Join(env.baseDir, "cn"))
	requireContains(t, stdout, "Output: "+filepath.Join(env.baseDir, "output"))
	requireContains(t, stdout, "Loudness sync: yes (target -16.0 dBFS)")
	requireContains(t, stdout, "Configuration valid")
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	env := setupCLITestEnv(t, "[run]\nworkers = 100\n")
	if _, _, err := runCLI(t, []string{"config", "validate"}, env.configPath); err == nil {
		t.Fatal("expected validation error")
	}
}
