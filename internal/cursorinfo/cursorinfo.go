// Package cursorinfo carries an approximate cursor description across a
// surface swap. The two surfaces render the same document through different
// coordinate systems, so instead of translating offsets structurally the
// departing surface encodes what the cursor was near and the arriving
// surface re-finds the best match in its own text. The result is
// best-effort: a close line beats a lost cursor.
package cursorinfo

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/inkwell-md/inkwell/internal/source"
)

// contextRadius is how many bytes of surrounding text are captured for
// disambiguating lines with identical words.
const contextRadius = 16

// Info is a portable cursor description. ContentLine indexes non-blank
// lines only, so inserting or removing blank separators between surfaces
// does not shift it.
type Info struct {
	ContentLine int     `json:"contentLine"`
	Word        string  `json:"word,omitempty"`
	WordOffset  int     `json:"wordOffset,omitempty"`
	NodeType    string  `json:"nodeType,omitempty"`
	Percent     float64 `json:"percent"`
	Before      string  `json:"before,omitempty"`
	After       string  `json:"after,omitempty"`
}

// contentLine pairs a non-blank line with its absolute byte start.
type contentLine struct {
	text  string
	start int
}

func contentLines(text string) []contentLine {
	var out []contentLine
	start := 0
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, contentLine{text: l, start: start})
		}
		start += len(l) + 1
	}
	return out
}

// Encode captures the cursor at a byte offset in text. nodeType is the
// departing surface's block classification and is matched structurally on
// decode when present.
func Encode(text string, offset int, nodeType string) Info {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	lines := contentLines(text)
	info := Info{ContentLine: -1, NodeType: nodeType}
	if len(lines) == 0 {
		return info
	}

	// The line the cursor sits on, or the nearest preceding content line
	// when the cursor is on a blank separator.
	idx := 0
	for i, cl := range lines {
		if cl.start > offset {
			break
		}
		idx = i
	}
	cl := lines[idx]
	info.ContentLine = idx

	col := offset - cl.start
	if col < 0 {
		col = 0
	}
	if col > len(cl.text) {
		col = len(cl.text)
	}
	if cl.text != "" {
		info.Percent = float64(col) / float64(len(cl.text))
	}

	if start, _, word, ok := source.WordAt(cl.text, col); ok {
		info.Word = word
		info.WordOffset = col - start
		info.Before = snippetBefore(cl.text, start)
		info.After = snippetAfter(cl.text, start+len(word))
	} else {
		info.Before = snippetBefore(cl.text, col)
		info.After = snippetAfter(cl.text, col)
	}
	return info
}

// Decode re-finds the encoded cursor in text and returns a byte offset.
// Matching prefers the recorded content-line index, then nearby lines
// holding the word with agreeing context, then the word anywhere, then a
// percentage through the recorded line.
func Decode(info Info, text string) int {
	lines := contentLines(text)
	if len(lines) == 0 {
		return 0
	}
	home := info.ContentLine
	if home < 0 {
		home = 0
	}
	if home >= len(lines) {
		home = len(lines) - 1
	}

	if info.Word != "" {
		bestOff := -1
		bestScore := -1
		for _, i := range nearestOrder(home, len(lines)) {
			off, score := matchWord(info, lines[i])
			if score < 0 {
				continue
			}
			if i == home {
				score++
			}
			if info.NodeType != "" && lineNodeType(lines[i].text) == info.NodeType {
				score++
			}
			if score > bestScore {
				bestScore = score
				bestOff = off
			}
			if score >= 5 {
				break
			}
		}
		if bestOff >= 0 {
			return bestOff
		}
	}

	// Percentage fallback on the home line.
	cl := lines[home]
	col := int(info.Percent * float64(len(cl.text)))
	return cl.start + clampToRune(cl.text, col)
}

// matchWord looks for the encoded word in one line and scores the best
// occurrence: +2 for an agreeing before-context, +2 for after. A negative
// score means the word does not occur.
func matchWord(info Info, cl contentLine) (offset, score int) {
	line := cl.text
	needle := info.Word
	raw := true
	if !strings.Contains(line, needle) {
		line = norm.NFC.String(line)
		needle = norm.NFC.String(needle)
		raw = false
		if !strings.Contains(line, needle) {
			return 0, -1
		}
	}

	best := -1
	bestAt := 0
	for at := 0; ; {
		i := strings.Index(line[at:], needle)
		if i < 0 {
			break
		}
		at += i
		s := 0
		if info.Before != "" && strings.HasSuffix(line[:at], info.Before) {
			s += 2
		}
		if info.After != "" && strings.HasPrefix(line[at+len(needle):], info.After) {
			s += 2
		}
		if s > best {
			best = s
			bestAt = at
		}
		at += len(needle)
	}

	off := bestAt + info.WordOffset
	if off > bestAt+len(needle) {
		off = bestAt + len(needle)
	}
	if !raw && off > len(cl.text) {
		off = len(cl.text)
	}
	return cl.start + clampToRune(cl.text, off), best
}

// nearestOrder yields line indexes by distance from home, lower index
// first on ties.
func nearestOrder(home, n int) []int {
	out := make([]int, 0, n)
	out = append(out, home)
	for d := 1; len(out) < n; d++ {
		if home-d >= 0 {
			out = append(out, home-d)
		}
		if home+d < n {
			out = append(out, home+d)
		}
	}
	return out
}

// lineNodeType approximates a block classification from a single markdown
// line, mirroring the detector's categories closely enough for match
// scoring.
func lineNodeType(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	switch {
	case strings.HasPrefix(trimmed, ">"):
		return "blockquote"
	case strings.HasPrefix(trimmed, "#"):
		return "heading"
	case strings.HasPrefix(trimmed, "```"):
		return "code-block"
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "+ "):
		return "list-item"
	case strings.HasPrefix(trimmed, "|"):
		return "table-cell"
	}
	if len(trimmed) > 1 && trimmed[0] >= '0' && trimmed[0] <= '9' {
		if i := strings.IndexAny(trimmed, ".)"); i > 0 && i < len(trimmed)-1 && trimmed[i+1] == ' ' {
			return "list-item"
		}
	}
	return "paragraph"
}

func clampToRune(s string, i int) int {
	if i < 0 {
		return 0
	}
	if i > len(s) {
		return len(s)
	}
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

func snippetBefore(line string, at int) string {
	if at > len(line) {
		at = len(line)
	}
	from := at - contextRadius
	if from < 0 {
		from = 0
	}
	from = clampForwardToRune(line, from)
	return line[from:at]
}

func snippetAfter(line string, at int) string {
	if at < 0 {
		at = 0
	}
	to := at + contextRadius
	if to > len(line) {
		to = len(line)
	}
	to = clampToRune(line, to)
	return line[at:to]
}

func clampForwardToRune(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
