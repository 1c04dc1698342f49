package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// commands are the names completed after a leading ':'.
var commands = []string{"help", "fields", "functions", "set", "clear", "quit"}

// isWordBoundary reports whether r delimits a word for completion: blanks,
// the path separator, and formula punctuation and operators.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'{', '}', '(', ')', '[', ']', '"', ',',
		'+', '-', '*', '/', '%', '^',
		'<', '>', '=', '!', '&', '|', ':':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor and its byte boundaries within
// input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the dotted reference path leading up to the word that
// starts at wordStart. For "SUM({items.pr" the parent of "pr" is "items".
// It returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]

	trimmed := strings.TrimSuffix(prefix, ".")
	if trimmed == prefix || trimmed == "" {
		return ""
	}

	pos := len(trimmed)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(trimmed[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.Trim(trimmed[pos:], ".")
}

// completion is the set of candidates for the word under the cursor.
type completion struct {
	matches   fuzzy.Matches
	wordStart int
	wordEnd   int
}

// complete computes fuzzy matches for the word at cursor. Commands complete
// after a leading ':'. An empty top-level word has no matches, so the hint
// line stays visible; an empty word after a dot lists every child.
func complete(s *Session, input string, cursor int) completion {
	word, start, end := wordBounds(input, cursor)
	c := completion{wordStart: start, wordEnd: end}

	if strings.HasPrefix(input, ":") {
		if strings.ContainsAny(input[:start], " \t") || word == "" {
			return c
		}

		c.matches = fuzzy.Find(word, commands)

		return c
	}

	if inString(input, cursor) {
		return c
	}

	parent := parentPath(input, start)

	var candidates []string
	if parent == "" {
		candidates = s.Names()
	} else {
		candidates = s.Children(parent)
	}

	if len(candidates) == 0 {
		return c
	}

	if word == "" {
		if parent == "" {
			return c
		}

		c.matches = make(fuzzy.Matches, len(candidates))
		for i, name := range candidates {
			c.matches[i] = fuzzy.Match{Str: name, Index: i}
		}

		return c
	}

	c.matches = fuzzy.Find(word, candidates)

	return c
}

// inString reports whether cursor lies inside a string literal.
func inString(input string, cursor int) bool {
	quoted := false

	for i := 0; i < cursor && i < len(input); i++ {
		switch input[i] {
		case '\\':
			if quoted {
				i++
			}

		case '"':
			quoted = !quoted
		}
	}

	return quoted
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate (when tabbing) uses the selected
// style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	isFunc func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, isFunc)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted. Functions are displayed with a "()" suffix that is not part
// of the completion.
func renderCandidate(match fuzzy.Match, selected bool, isFunc func(string) bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if isFunc != nil && isFunc(match.Str) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
