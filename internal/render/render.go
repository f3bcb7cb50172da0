package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thiagokokada/gitgraph-go/internal/git"
	"github.com/thiagokokada/gitgraph-go/internal/layout"
)

const (
	nodeGlyph       = "●"
	orphanNodeGlyph = "○"
	laneGlyph       = "│"
)

// Renderer draws the commit graph as styled text, one line per commit plus
// spacer lines where the row offsets report a large time gap.
type Renderer struct {
	theme  Theme
	styles map[string]lipgloss.Style
}

func New(theme Theme) *Renderer {
	return &Renderer{theme: theme, styles: map[string]lipgloss.Style{}}
}

// Render writes the graph for the loaded window. layouts and offsets are
// the cached engine outputs for exactly these commits; labels maps commit
// hashes to branch labels.
func (r *Renderer) Render(w io.Writer, commits []*git.Commit, layouts map[string]layout.CommitLayout, offsets []float64, labels map[string][]string, maxLane int) error {
	occupied := r.passingLanes(commits, layouts, maxLane)
	for row, commit := range commits {
		for range r.spacerRows(offsets, row) {
			if err := r.writeSpacer(w, occupied[row], maxLane); err != nil {
				return err
			}
		}
		if err := r.writeRow(w, commit, layouts, occupied[row], maxLane, labels[commit.Hash]); err != nil {
			return err
		}
	}
	return nil
}

// passingLanes marks, per row, the lanes an edge passes through on its way
// from a child to an in-window parent. Entry row indexes the gap above the
// row, so occupied[i] is also the set of lanes crossing the spacer between
// rows i-1 and i.
func (r *Renderer) passingLanes(commits []*git.Commit, layouts map[string]layout.CommitLayout, maxLane int) [][]bool {
	rows := make(map[string]int, len(commits))
	for i, c := range commits {
		rows[c.Hash] = i
	}
	occupied := make([][]bool, len(commits))
	for i := range occupied {
		occupied[i] = make([]bool, maxLane+1)
	}
	for childRow, c := range commits {
		for _, parent := range c.Parents {
			parentRow, ok := rows[parent]
			if !ok || parentRow <= childRow {
				continue
			}
			lane := layouts[parent].Lane
			if lane > maxLane {
				continue
			}
			for row := childRow + 1; row <= parentRow; row++ {
				occupied[row][lane] = true
			}
		}
	}
	return occupied
}

// spacerRows converts the offset gap above row into a number of blank
// graph lines. With a row height of one, a default-strength gap maps to at
// most a single spacer.
func (r *Renderer) spacerRows(offsets []float64, row int) int {
	if row == 0 || row >= len(offsets) {
		return 0
	}
	gap := offsets[row] - offsets[row-1]
	n := int(math.Round(gap)) - 1
	if n < 0 {
		return 0
	}
	return n
}

func (r *Renderer) writeSpacer(w io.Writer, passing []bool, maxLane int) error {
	var b strings.Builder
	for lane := 0; lane <= maxLane; lane++ {
		if lane < len(passing) && passing[lane] {
			b.WriteString(r.style(r.theme.Palette.Lane(lane)).Render(laneGlyph))
		} else {
			b.WriteByte(' ')
		}
		b.WriteByte(' ')
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	return err
}

func (r *Renderer) writeRow(w io.Writer, commit *git.Commit, layouts map[string]layout.CommitLayout, passing []bool, maxLane int, rowLabels []string) error {
	own := layouts[commit.Hash]
	var b strings.Builder
	for lane := 0; lane <= maxLane; lane++ {
		switch {
		case lane == own.Lane:
			glyph := nodeGlyph
			if commit.Orphaned {
				glyph = orphanNodeGlyph
			}
			b.WriteString(r.style(own.Color).Render(glyph))
		case lane < len(passing) && passing[lane]:
			b.WriteString(r.style(r.theme.Palette.Lane(lane)).Render(laneGlyph))
		default:
			b.WriteByte(' ')
		}
		b.WriteByte(' ')
	}

	b.WriteString(r.style(r.theme.HashColor).Render(shortHash(commit.Hash)))
	b.WriteByte(' ')
	b.WriteString(r.style(r.theme.HashColor).Render(commit.When().Format("2006-01-02 15:04")))
	b.WriteByte(' ')
	for _, label := range rowLabels {
		color := r.theme.LabelColor
		if strings.HasPrefix(label, "HEAD") {
			color = r.theme.HeadColor
		}
		b.WriteString(r.style(color).Render("(" + label + ")"))
		b.WriteByte(' ')
	}
	summaryColor := r.theme.TextColor
	if commit.Orphaned {
		summaryColor = r.theme.Palette.Orphan
	}
	b.WriteString(r.style(summaryColor).Render(commit.Summary))

	_, err := fmt.Fprintln(w, b.String())
	return err
}

func (r *Renderer) style(color string) lipgloss.Style {
	if style, ok := r.styles[color]; ok {
		return style
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	r.styles[color] = style
	return style
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
