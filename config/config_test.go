package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFallsBackToDefaultWhenMissing(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.toml"))
	want := Default()
	if cfg != want {
		t.Fatalf("Load() = %+v, want default %+v", cfg, want)
	}
}

func TestLoadFallsBackToDefaultOnParseFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("this is not valid toml {{{"), 0o644)

	cfg := Load(path)
	want := Default()
	if cfg != want {
		t.Fatalf("Load() = %+v, want default %+v", cfg, want)
	}
}

func TestLoadOverridesProvidedFieldsOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte(`
log_level = "trace"
server_address = "0.0.0.0:9000"
`), 0o644)

	cfg := Load(path)
	if cfg.LogLevel != "trace" {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, "trace")
	}
	if cfg.ServerAddress != "0.0.0.0:9000" {
		t.Fatalf("ServerAddress = %q, want %q", cfg.ServerAddress, "0.0.0.0:9000")
	}
	// Untouched fields keep their defaults.
	if cfg.PackageRepoBranch != Default().PackageRepoBranch {
		t.Fatalf("PackageRepoBranch = %q, want default", cfg.PackageRepoBranch)
	}
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte(`
unknown_key = "surprise"
tests = true
`), 0o644)

	cfg := Load(path)
	if !cfg.Tests {
		t.Fatalf("expected tests = true to still be parsed alongside an unknown key")
	}
}
