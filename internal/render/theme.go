package render

import (
	"log/slog"
	"strings"

	darkmode "github.com/thiagokokada/dark-mode-go"

	"github.com/thiagokokada/gitgraph-go/internal/layout"
)

type ThemePreference int

const (
	ThemeAuto ThemePreference = iota
	ThemeLight
	ThemeDark
)

func (p ThemePreference) String() string {
	switch p {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "auto"
	}
}

func ThemePreferenceFromString(raw string) ThemePreference {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ThemeDark.String():
		return ThemeDark
	case ThemeLight.String():
		return ThemeLight
	default:
		return ThemeAuto
	}
}

// Theme bundles the lane palette with the accent colors used around it.
type Theme struct {
	Dark       bool
	Palette    layout.Palette
	HashColor  string
	TextColor  string
	LabelColor string
	HeadColor  string
}

var (
	lightTheme = Theme{
		Dark:       false,
		Palette:    layout.LightPalette,
		HashColor:  "#8a8a8a",
		TextColor:  "#111111",
		LabelColor: "#2563eb",
		HeadColor:  "#c9a300",
	}
	darkTheme = Theme{
		Dark:       true,
		Palette:    layout.DarkPalette,
		HashColor:  "#8a8a8a",
		TextColor:  "#eaeaea",
		LabelColor: "#4fa3ff",
		HeadColor:  "#ffd75e",
	}
	detectDarkMode = darkmode.IsDarkMode
)

func ThemeForPreference(pref ThemePreference) Theme {
	switch pref {
	case ThemeDark:
		return darkTheme
	case ThemeLight:
		return lightTheme
	default:
		if detectDarkMode != nil {
			if dark, err := detectDarkMode(); err == nil {
				if dark {
					return darkTheme
				}
			} else {
				slog.Debug("detect dark-mode", slog.Any("error", err))
			}
		}
		return lightTheme
	}
}
