// Package highlight colors unified diffs for terminal output: added and
// removed markers in diff colors, payload code tokenized per-file with
// chroma.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

type marker struct {
	add    lipgloss.Style
	del    lipgloss.Style
	header lipgloss.Style
}

func markerStyles(dark bool) marker {
	if dark {
		return marker{
			add:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd75f")),
			del:    lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5c5c")),
			header: lipgloss.NewStyle().Foreground(lipgloss.Color("#a0a0a0")),
		}
	}
	return marker{
		add:    lipgloss.NewStyle().Foreground(lipgloss.Color("#008700")),
		del:    lipgloss.NewStyle().Foreground(lipgloss.Color("#cc0000")),
		header: lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")),
	}
}

// Diff returns text with ANSI styling applied line by line. The input is
// passed through unchanged apart from the escape sequences, so line counts
// and diff semantics survive.
func Diff(text string, dark bool) string {
	if text == "" {
		return ""
	}
	m := markerStyles(dark)
	style := styleFor(dark)
	tokenStyles := map[string]lipgloss.Style{}

	var b strings.Builder
	var lexer chroma.Lexer
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if path, ok := diffPathFromLine(line); ok {
			lexer = nil
			if path != "" {
				lexer = lexerForPath(path)
			}
			b.WriteString(m.header.Render(line))
		} else if strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ") || strings.HasPrefix(line, "@@") {
			b.WriteString(m.header.Render(line))
		} else if code, ok := diffLineCode(line); ok {
			switch line[0] {
			case '+':
				b.WriteString(m.add.Render("+"))
			case '-':
				b.WriteString(m.del.Render("-"))
			default:
				b.WriteByte(' ')
			}
			b.WriteString(renderCode(lexer, style, tokenStyles, code))
		} else {
			b.WriteString(line)
		}
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderCode(lexer chroma.Lexer, style *chroma.Style, cache map[string]lipgloss.Style, code string) string {
	if lexer == nil || style == nil || code == "" {
		return code
	}
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var b strings.Builder
	for _, token := range iterator.Tokens() {
		if token.Value == "" {
			continue
		}
		color := colorFromEntry(style.Get(token.Type))
		if color == "" {
			b.WriteString(token.Value)
			continue
		}
		st, ok := cache[color]
		if !ok {
			st = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			cache[color] = st
		}
		b.WriteString(st.Render(token.Value))
	}
	return b.String()
}

func styleFor(dark bool) *chroma.Style {
	if dark {
		if st := styles.Get("github-dark"); st != nil {
			return st
		}
	} else {
		if st := styles.Get("github"); st != nil {
			return st
		}
	}
	return styles.Fallback
}

func colorFromEntry(entry chroma.StyleEntry) string {
	if entry.Colour.IsSet() {
		col := strings.TrimPrefix(strings.ToLower(entry.Colour.String()), "#")
		return "#" + col
	}
	return ""
}

func lexerForPath(path string) chroma.Lexer {
	if path == "" {
		return nil
	}
	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

func diffPathFromLine(line string) (string, bool) {
	const prefix = "diff --git "
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	tokens := diffLineTokens(strings.TrimSpace(line[len(prefix):]))
	if len(tokens) < 2 {
		return "", true
	}
	return normalizeDiffPath(tokens[1]), true
}

func diffLineTokens(s string) []string {
	var tokens []string
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			break
		}
		if s[0] == '"' {
			var buf strings.Builder
			escaped := false
			i := 1
			for i < len(s) {
				ch := s[i]
				if escaped {
					buf.WriteByte(ch)
					escaped = false
					i++
					continue
				}
				if ch == '\\' {
					escaped = true
					i++
					continue
				}
				if ch == '"' {
					i++
					break
				}
				buf.WriteByte(ch)
				i++
			}
			tokens = append(tokens, buf.String())
			s = s[i:]
			continue
		}
		j := 0
		for j < len(s) && s[j] != ' ' && s[j] != '\t' {
			j++
		}
		tokens = append(tokens, s[:j])
		s = s[j:]
	}
	return tokens
}

func normalizeDiffPath(token string) string {
	token = strings.TrimPrefix(token, "a/")
	token = strings.TrimPrefix(token, "b/")
	return token
}

// diffLineCode strips the diff marker from a payload line, returning the
// code portion. File headers and "\ No newline" markers are not payload.
func diffLineCode(line string) (string, bool) {
	if line == "" {
		return "", false
	}
	switch line[0] {
	case '+', '-', ' ':
		if strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---") {
			return "", false
		}
		if strings.HasPrefix(line, "\\ ") {
			return "", false
		}
		return line[1:], true
	default:
		return "", false
	}
}
