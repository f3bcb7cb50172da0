package layout

import (
	"github.com/thiagokokada/gitgraph-go/internal/git"
)

// CommitLayout is the per-commit output of a graph build: the lane the
// commit occupies and the color of its node and outgoing edges.
type CommitLayout struct {
	Lane  int
	Color string
}

// LaneAllocator assigns each commit a horizontal lane by tracking, per
// lane, the parent hash expected to occupy it next. The lane table is an
// arena addressed by index: freeing a lane clears its expectation, the
// slot itself stays so indexes above it remain stable.
type LaneAllocator struct {
	palette Palette

	// lanes[i] holds the hash the lane is waiting for, "" when free.
	lanes   []string
	maxLane int
}

func NewLaneAllocator(palette Palette) *LaneAllocator {
	return &LaneAllocator{palette: palette}
}

// Build computes a layout for every commit in the window. Commits must be
// ordered so that no commit appears before one of its in-window parents;
// the committer-time log order used by the history reader satisfies this.
// Parents outside the window are tolerated: their edges simply stop at the
// window boundary.
func (l *LaneAllocator) Build(commits []*git.Commit) map[string]CommitLayout {
	l.lanes = l.lanes[:0]
	l.maxLane = 0

	layouts := make(map[string]CommitLayout, len(commits))
	loaded := make(map[string]struct{}, len(commits))
	for _, c := range commits {
		loaded[c.Hash] = struct{}{}
	}

	for _, c := range commits {
		lane := l.takeLane(c.Hash)
		color := l.palette.Lane(lane)
		if c.Orphaned {
			color = l.palette.Orphan
		}
		layouts[c.Hash] = CommitLayout{Lane: lane, Color: color}
		l.advance(lane, c.Parents, loaded)
	}
	return layouts
}

// MaxLane returns the highest lane index occupied during the last Build.
func (l *LaneAllocator) MaxLane() int { return l.maxLane }

// takeLane returns the lane a child reserved for this commit, or the
// lowest free lane when the commit is a branch tip. When several children
// reserved lanes for the same parent only the lowest one continues
// forward; the others are cleared so converging branches share one line.
func (l *LaneAllocator) takeLane(hash string) int {
	lane := -1
	for i, expected := range l.lanes {
		if expected != hash {
			continue
		}
		if lane == -1 {
			lane = i
		} else {
			l.lanes[i] = ""
		}
	}
	if lane == -1 {
		lane = l.lowestFree()
	}
	l.occupy(lane)
	return lane
}

// advance updates lane expectations after a commit has been placed: the
// first parent inherits the commit's lane, remaining parents (merge
// sources) each get their own lane unless a sibling already tracks them.
func (l *LaneAllocator) advance(lane int, parents []string, loaded map[string]struct{}) {
	if len(parents) == 0 {
		l.lanes[lane] = ""
		return
	}
	if _, ok := loaded[parents[0]]; ok {
		l.lanes[lane] = parents[0]
	} else {
		// The line exits the loaded window.
		l.lanes[lane] = ""
	}
	for _, parent := range parents[1:] {
		if _, ok := loaded[parent]; !ok {
			continue
		}
		if l.expects(parent) {
			continue
		}
		free := l.lowestFree()
		l.lanes[free] = parent
		l.occupy(free)
	}
}

func (l *LaneAllocator) expects(hash string) bool {
	for _, expected := range l.lanes {
		if expected == hash {
			return true
		}
	}
	return false
}

func (l *LaneAllocator) lowestFree() int {
	for i, expected := range l.lanes {
		if expected == "" {
			return i
		}
	}
	l.lanes = append(l.lanes, "")
	return len(l.lanes) - 1
}

func (l *LaneAllocator) occupy(lane int) {
	if lane > l.maxLane {
		l.maxLane = lane
	}
}
