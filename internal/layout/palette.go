package layout

// Palette supplies hex colors for lanes plus the reserved orphan color.
// Lane colors repeat modulo the palette length; collisions between distant
// lanes are accepted.
type Palette struct {
	Lanes  []string
	Orphan string
}

// Based on gitk's default colors; keep a small, high-contrast palette.
var (
	LightPalette = Palette{
		Lanes:  []string{"#00cc00", "#cc0000", "#0055cc", "#aa00aa", "#555555", "#8b4513", "#ff8c00"},
		Orphan: "#9e9e9e",
	}
	DarkPalette = Palette{
		Lanes:  []string{"#00ff00", "#ff5c5c", "#4fa3ff", "#d56bff", "#a0a0a0", "#d09a6b", "#ffb347"},
		Orphan: "#6f6f6f",
	}
)

func (p Palette) Lane(lane int) string {
	if len(p.Lanes) == 0 || lane < 0 {
		return p.Orphan
	}
	return p.Lanes[lane%len(p.Lanes)]
}
