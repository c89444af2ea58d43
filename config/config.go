// Package config loads the single TOML configuration file: unknown keys
// are ignored, and any read or parse failure falls back to Default()
// with a logged warning rather than a hard error.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml"
)

// DefaultPath is the config file consulted when no path is injected.
const DefaultPath = "/etc/to/config.toml"

// Config holds every user-configurable option.
type Config struct {
	LogLevel          string `toml:"log_level"`
	LogToConsole      bool   `toml:"log_to_console"`
	LogMaxSize        int64  `toml:"log_max_size"`
	Tests             bool   `toml:"tests"`
	Makeflags         string `toml:"makeflags"`
	Stagefile         string `toml:"stagefile"`
	CFlags            string `toml:"cflags"`
	RustFlags         string `toml:"rustflags"`
	TreeCommand       string `toml:"tree_command"`
	ServerAddress     string `toml:"server_address"`
	PackageRepo       string `toml:"package_repo"`
	PackageRepoBranch string `toml:"package_repo_branch"`
}

// Default returns the built-in configuration, used whenever the file is
// missing or fails to parse.
func Default() Config {
	n := runtime.NumCPU()
	return Config{
		LogLevel:          "info",
		LogToConsole:      true,
		LogMaxSize:        10 << 20, // 10 MiB
		Tests:             false,
		Makeflags:         fmt.Sprintf("-j%d -l%d", n, n),
		Stagefile:         "/usr/share/to/stagefile.tar.zst",
		CFlags:            "-march=x86-64-v2 -O2 -pipe",
		RustFlags:         "",
		TreeCommand:       "tree",
		ServerAddress:     "127.0.0.1:7020",
		PackageRepo:       "https://github.com/Toxikuu/to-pkgs.git",
		PackageRepoBranch: "master",
	}
}

// Load reads and parses path, falling back to Default() with a logged
// warning on any read or decode failure.
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "to: failed to read config file at %s: %v\n", path, err)
		fmt.Fprintln(os.Stderr, "to: the default config will be used")
		return Default()
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "to: invalid config: %v\n", err)
		fmt.Fprintln(os.Stderr, "to: the default config will be used")
		return Default()
	}
	return cfg
}
