package source

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// wordDelimiters are markdown syntax characters that terminate a word, so
// word expansion never swallows surrounding markup.
const wordDelimiters = "*_~`[]()!$#>|\"'"

func isWordCluster(cluster string) bool {
	r, _ := utf8.DecodeRuneInString(cluster)
	if r == utf8.RuneError && len(cluster) <= 1 {
		return false
	}
	if strings.TrimSpace(cluster) == "" {
		return false
	}
	return !strings.ContainsRune(wordDelimiters, r)
}

// WordAt finds the contiguous token containing or adjacent to the byte
// column col in line. It returns the half-open byte span [start, end) and
// the token text. ok is false when no token touches the position.
//
// Grapheme clusters are segmented with uniseg so multi-byte clusters are
// never split.
func WordAt(line string, col int) (start, end int, word string, ok bool) {
	if line == "" {
		return 0, 0, "", false
	}
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}

	type span struct{ from, to int }
	var spans []span
	g := uniseg.NewGraphemes(line)
	pos := 0
	cur := span{from: -1}
	for g.Next() {
		cluster := g.Str()
		next := pos + len(cluster)
		if isWordCluster(cluster) {
			if cur.from < 0 {
				cur.from = pos
			}
			cur.to = next
		} else if cur.from >= 0 {
			spans = append(spans, cur)
			cur = span{from: -1}
		}
		pos = next
	}
	if cur.from >= 0 {
		spans = append(spans, cur)
	}

	for _, s := range spans {
		// A cursor touching either edge of the token counts as inside it.
		if col >= s.from && col <= s.to {
			return s.from, s.to, line[s.from:s.to], true
		}
	}
	return 0, 0, "", false
}

// ExpandWord returns the operand span for an insertion action at offset: the
// selection itself when non-empty, otherwise the word under the cursor,
// otherwise an empty span at the cursor.
func (d *Document) ExpandWord(sel Selection) (from, to int, operand string) {
	if !sel.IsEmpty() {
		return sel.Start(), sel.End(), d.TextRange(sel.Start(), sel.End())
	}

	line := d.LineForOffset(sel.Head)
	lineStart := d.LineStart(line)
	ws, we, word, ok := WordAt(d.LineText(line), sel.Head-lineStart)
	if !ok {
		return sel.Head, sel.Head, ""
	}
	return lineStart + ws, lineStart + we, word
}
