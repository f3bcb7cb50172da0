package layout

import (
	"math"
	"sort"

	"github.com/thiagokokada/gitgraph-go/internal/git"
)

// Viewport describes the visible window the locator maps into: the content
// origin in widget space, a header band drawn above the first row, and the
// current scroll offset.
type Viewport struct {
	Top    float64
	Height float64
	Header float64
	Scroll float64
}

// ViewportLocator maps pixel Y coordinates to rows and back using the
// cumulative offset table produced by RowSpacer. Rows counts the commits in
// the window; when it disagrees with the table length (a read that raced a
// rebuild) the locator degrades to uniform-row arithmetic instead of
// indexing out of bounds.
type ViewportLocator struct {
	RowHeight float64
	Rows      int
	Offsets   []float64
}

// RowToY returns the vertical center of row in widget space.
func (v ViewportLocator) RowToY(row int, vp Viewport) float64 {
	return vp.Top + vp.Header + v.offsetAt(row) + v.RowHeight/2 - vp.Scroll
}

// YToRow returns the row whose center lies within half a row height of
// pixelY. The second return is false when the coordinate falls in a gap
// between rows or outside the table.
func (v ViewportLocator) YToRow(pixelY float64, vp Viewport) (int, bool) {
	if v.Rows <= 0 || v.RowHeight <= 0 {
		return 0, false
	}
	contentY := pixelY - vp.Top - vp.Header + vp.Scroll
	if len(v.Offsets) != v.Rows {
		row := int(math.Floor(contentY / v.RowHeight))
		if row < 0 || row >= v.Rows {
			return 0, false
		}
		return row, true
	}
	idx := sort.SearchFloat64s(v.Offsets, contentY-v.RowHeight/2)
	for _, row := range [2]int{idx, idx - 1} {
		if row < 0 || row >= v.Rows {
			continue
		}
		center := v.Offsets[row] + v.RowHeight/2
		if math.Abs(center-contentY) <= v.RowHeight/2 {
			return row, true
		}
	}
	return 0, false
}

// MaxVisibleLane returns the widest lane among rows whose centers fall
// inside the viewport, padded by a small buffer so edges scrolling into
// view are already counted. Consumers use it to size the graph column to
// the visible portion of the history rather than its peak width.
func (v ViewportLocator) MaxVisibleLane(vp Viewport, commits []*git.Commit, layouts map[string]CommitLayout) int {
	if v.Rows <= 0 {
		return 0
	}
	buffer := v.RowHeight * 2
	topY := vp.Top - buffer
	bottomY := vp.Top + vp.Height + buffer

	maxLane := 0
	for row := v.firstRowBelow(topY, vp); row < v.Rows && row < len(commits); row++ {
		y := v.RowToY(row, vp)
		if y > bottomY {
			break
		}
		if l, ok := layouts[commits[row].Hash]; ok && l.Lane > maxLane {
			maxLane = l.Lane
		}
	}
	return maxLane
}

func (v ViewportLocator) firstRowBelow(pixelY float64, vp Viewport) int {
	contentY := pixelY - vp.Top - vp.Header + vp.Scroll
	if len(v.Offsets) != v.Rows {
		row := int(math.Floor(contentY / v.RowHeight))
		return max(row, 0)
	}
	return sort.SearchFloat64s(v.Offsets, contentY-v.RowHeight/2)
}

func (v ViewportLocator) offsetAt(row int) float64 {
	if row >= 0 && row < len(v.Offsets) {
		return v.Offsets[row]
	}
	return float64(row) * v.RowHeight
}
