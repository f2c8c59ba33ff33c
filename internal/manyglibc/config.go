package manyglibc

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings holds the paths every component needs: where the glibc sources
// live, where per-target build trees go, where logs are written, and the
// base directory containing the cross toolchains. Loaded once at startup
// and passed around explicitly.
type Settings struct {
	SrcDir    string `toml:"srcdir"`
	BuildDir  string `toml:"builddir"`
	LogsDir   string `toml:"logsdir"`
	Compilers string `toml:"compilers"`
}

// settingsPath returns the config file location, honoring the
// MANYGLIBC_CONFIG override.
func settingsPath() string {
	if p := os.Getenv("MANYGLIBC_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".manyglibc.toml")
}

// loadSettings reads and validates the settings file. An absent file or any
// empty key is an error telling the user to run the setup step first.
func loadSettings(path string) (Settings, error) {
	var s Settings
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return s, fmt.Errorf("config invalid (%v), run 'manyglibc setup'", err)
	}
	for _, kv := range []struct{ key, val string }{
		{"srcdir", s.SrcDir},
		{"builddir", s.BuildDir},
		{"logsdir", s.LogsDir},
		{"compilers", s.Compilers},
	} {
		if kv.val == "" {
			return s, fmt.Errorf("config invalid (missing %s), run 'manyglibc setup'", kv.key)
		}
	}
	return s, nil
}

// writeSettings renders the settings file for the setup subcommand.
func writeSettings(path string, s Settings) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(s)
}
