// Package search finds text occurrences in a read-only, line-oriented
// document such as the metadata dump.
package search

import (
	"strings"
	"unicode"
)

// Position addresses a rune within a line.
type Position struct {
	Row int
	Col int
}

// Match is a single occurrence of a query.
type Match struct {
	Position
	// Len is the match length in runes.
	Len int
}

// End returns the position just after the match.
func (m Match) End() Position {
	return Position{Row: m.Row, Col: m.Col + m.Len}
}

// Finder performs case-insensitive searches over the lines of a text.
// Matches never span lines.
type Finder struct {
	lines [][]rune
}

// NewFinder prepares text for searching.
func NewFinder(text string) *Finder {
	raw := strings.Split(text, "\n")
	lines := make([][]rune, len(raw))
	for i, l := range raw {
		lines[i] = fold([]rune(l))
	}
	return &Finder{lines: lines}
}

// Next returns the first match of query at or after from, wrapping to
// the start of the document when the end is reached.
func (f *Finder) Next(query string, from Position) (Match, bool) {
	q := fold([]rune(query))
	if len(q) == 0 || len(f.lines) == 0 {
		return Match{}, false
	}
	if from.Row < 0 || from.Row >= len(f.lines) {
		from = Position{}
	}
	if from.Col < 0 {
		from.Col = 0
	}

	// from.Row is visited twice: from from.Col onward first, then its
	// head once the search has wrapped.
	for i := 0; i <= len(f.lines); i++ {
		row := (from.Row + i) % len(f.lines)
		start := 0
		if i == 0 {
			start = from.Col
		}
		if col := index(f.lines[row], q, start); col >= 0 {
			if i == len(f.lines) && col >= from.Col {
				break
			}
			return Match{Position: Position{Row: row, Col: col}, Len: len(q)}, true
		}
	}
	return Match{}, false
}

// Count returns the number of non-overlapping matches of query.
func (f *Finder) Count(query string) int {
	q := fold([]rune(query))
	if len(q) == 0 {
		return 0
	}
	n := 0
	for _, line := range f.lines {
		for col := index(line, q, 0); col >= 0; col = index(line, q, col+len(q)) {
			n++
		}
	}
	return n
}

func index(line, q []rune, start int) int {
	for i := start; i+len(q) <= len(line); i++ {
		if equal(line[i:i+len(q)], q) {
			return i
		}
	}
	return -1
}

func equal(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// fold lower-cases rune by rune so that rune offsets stay aligned with
// the displayed text.
func fold(r []rune) []rune {
	out := make([]rune, len(r))
	for i, c := range r {
		out[i] = unicode.ToLower(c)
	}
	return out
}
