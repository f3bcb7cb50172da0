package config

import (
	"log/slog"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	dirName  = "gitgraph-go"
	fileName = "settings.toml"

	// Maximum number of recent repos to remember.
	maxRecentRepos = 10
)

// Config holds the persisted user settings. Zero values are never written
// back as-is: Load always starts from Default.
type Config struct {
	// SpacingStrength scales time-proportional row gaps; 0 disables them.
	SpacingStrength float64 `toml:"spacing_strength"`
	// RowScale multiplies the nominal row height.
	RowScale    float64  `toml:"row_scale"`
	RecentRepos []string `toml:"recent_repos"`
}

func Default() Config {
	return Config{SpacingStrength: 1, RowScale: 1}
}

// Load reads the settings file, falling back to defaults when the file is
// missing or unreadable. A corrupt file is never an error for the caller.
func Load() Config {
	cfg := Default()
	path, err := settingsPath()
	if err != nil {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		slog.Debug("settings file unreadable, using defaults",
			slog.String("path", path), slog.Any("error", err))
		return Default()
	}
	if cfg.RowScale <= 0 {
		cfg.RowScale = 1
	}
	if cfg.SpacingStrength < 0 {
		cfg.SpacingStrength = 1
	}
	return cfg
}

func (c Config) Save() error {
	path, err := settingsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RememberRepo moves path to the front of the recent list, dropping the
// oldest entry past the cap.
func (c *Config) RememberRepo(path string) {
	repos := make([]string, 0, len(c.RecentRepos)+1)
	repos = append(repos, path)
	for _, r := range c.RecentRepos {
		if r != path {
			repos = append(repos, r)
		}
	}
	if len(repos) > maxRecentRepos {
		repos = repos[:maxRecentRepos]
	}
	c.RecentRepos = repos
}

func settingsPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, dirName, fileName), nil
}
