package layout

import (
	"math"
	"time"

	"github.com/thiagokokada/gitgraph-go/internal/git"
)

const (
	// spacingBaseSeconds sets the knee of the log curve: deltas around an
	// hour land mid-range instead of saturating immediately.
	spacingBaseSeconds = 3600
	// spacingMaxDeltaSeconds clamps pathological gaps (30 days) so a
	// years-long pause does not dominate the scroll distance.
	spacingMaxDeltaSeconds = 30 * 24 * 3600
	// spacingMaxGapFactor caps the gap at this multiple of the row height.
	spacingMaxGapFactor = 2.0
)

// RowSpacer converts inter-commit time deltas into cumulative vertical
// offsets so rows sit further apart where the history has large gaps.
// Adjacent rows never collapse below one row height.
type RowSpacer struct {
	// RowHeight is the nominal row height and the minimum gap.
	RowHeight float64
	// Strength scales the time-proportional part of each gap:
	// 0 gives uniform spacing, 1 the default curve, >1 exaggerates gaps.
	Strength float64
}

func NewRowSpacer(rowHeight, strength float64) RowSpacer {
	return RowSpacer{RowHeight: rowHeight, Strength: strength}
}

// Offsets returns one cumulative offset per row, Offsets[0] == 0. The
// result is monotonically non-decreasing.
func (s RowSpacer) Offsets(commits []*git.Commit) []float64 {
	if len(commits) == 0 {
		return nil
	}
	offsets := make([]float64, len(commits))
	for i := 1; i < len(commits); i++ {
		offsets[i] = offsets[i-1] + s.gap(commits[i-1].When(), commits[i].When())
	}
	return offsets
}

func (s RowSpacer) gap(prev, cur time.Time) float64 {
	delta := math.Abs(prev.Sub(cur).Seconds())
	if delta > spacingMaxDeltaSeconds {
		delta = spacingMaxDeltaSeconds
	}
	ratio := math.Log1p(delta/spacingBaseSeconds) / math.Log1p(spacingMaxDeltaSeconds/spacingBaseSeconds)
	minGap := s.RowHeight
	maxGap := s.RowHeight * spacingMaxGapFactor
	return minGap + (maxGap-minGap)*ratio*s.Strength
}
