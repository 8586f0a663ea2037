package wysiwyg

import (
	"github.com/inkwell-md/inkwell/internal/editctx"
)

// markKind selects one mark bit for the toggle handlers.
type markKind uint8

const (
	markBold markKind = iota
	markItalic
	markStrike
	markCode
)

func hasMark(m editctx.Marks, k markKind) bool {
	switch k {
	case markBold:
		return m.Bold
	case markItalic:
		return m.Italic
	case markStrike:
		return m.Strikethrough
	default:
		return m.Code
	}
}

func withMark(m editctx.Marks, k markKind, on bool) editctx.Marks {
	switch k {
	case markBold:
		m.Bold = on
	case markItalic:
		m.Italic = on
	case markStrike:
		m.Strikethrough = on
	default:
		m.Code = on
	}
	return m
}

// splitAt splits runs so offset at lands on a run boundary and returns the
// boundary index. Atoms are indivisible; at never falls inside one.
func splitAt(runs []Run, at int) ([]Run, int) {
	pos := 0
	for i, r := range runs {
		end := pos + r.Width()
		if at == pos {
			return runs, i
		}
		if at < end {
			left, right := r, r
			left.Text = r.Text[:at-pos]
			right.Text = r.Text[at-pos:]
			out := make([]Run, 0, len(runs)+1)
			out = append(out, runs[:i]...)
			out = append(out, left, right)
			out = append(out, runs[i+1:]...)
			return out, i + 1
		}
		pos = end
	}
	return runs, len(runs)
}

// splitRange splits runs at both ends of [from, to) and returns the
// boundary indexes.
func splitRange(runs []Run, from, to int) ([]Run, int, int) {
	runs, i := splitAt(runs, from)
	runs, j := splitAt(runs, to)
	return runs, i, j
}

// rangeHasMark reports whether every text run in [from, to) carries the
// mark. Atoms are ignored; an atom-only range reports false.
func rangeHasMark(runs []Run, from, to int, kind markKind) bool {
	runs, i, j := splitRange(runs, from, to)
	found := false
	for _, r := range runs[i:j] {
		if r.Kind != RunText {
			continue
		}
		if !hasMark(r.Marks, kind) {
			return false
		}
		found = true
	}
	return found
}

// setMarkRange sets or clears a mark over [from, to) on text runs.
func setMarkRange(runs []Run, from, to int, kind markKind, on bool) []Run {
	runs, i, j := splitRange(runs, from, to)
	for k := i; k < j; k++ {
		if runs[k].Kind != RunText {
			continue
		}
		runs[k].Marks = withMark(runs[k].Marks, kind, on)
	}
	return mergeRuns(runs)
}

// markSpan returns the maximal contiguous span of text runs carrying the
// mark around inline offset at.
func markSpan(runs []Run, at int, kind markKind) (int, int, bool) {
	type span struct{ from, to int }
	var spans []span
	pos := 0
	cur := span{from: -1}
	for _, r := range runs {
		end := pos + r.Width()
		if r.Kind == RunText && hasMark(r.Marks, kind) {
			if cur.from < 0 {
				cur.from = pos
			}
			cur.to = end
		} else if cur.from >= 0 {
			spans = append(spans, cur)
			cur = span{from: -1}
		}
		pos = end
	}
	if cur.from >= 0 {
		spans = append(spans, cur)
	}
	for _, s := range spans {
		// Either edge counts as inside, as in run containment.
		if at >= s.from && at <= s.to {
			return s.from, s.to, true
		}
	}
	return 0, 0, false
}

// setLinkRange wraps [from, to) in a link, replacing any existing one on
// the covered runs.
func setLinkRange(runs []Run, from, to int, link LinkAttrs) []Run {
	runs, i, j := splitRange(runs, from, to)
	for k := i; k < j; k++ {
		if runs[k].Kind != RunText {
			continue
		}
		l := link
		runs[k].Link = &l
	}
	return mergeRuns(runs)
}

// plainRange flattens [from, to) to unstyled text: marks and links drop,
// images collapse to their alt text, math to its body. Footnote references
// keep their bracket form so the definition linkage survives.
func plainRange(runs []Run, from, to int) []Run {
	runs, i, j := splitRange(runs, from, to)
	out := make([]Run, 0, len(runs))
	out = append(out, runs[:i]...)
	for _, r := range runs[i:j] {
		text := r.Text
		if r.Kind == RunFootnote {
			text = "[^" + r.Text + "]"
		}
		out = append(out, Run{Kind: RunText, Text: text})
	}
	out = append(out, runs[j:]...)
	return mergeRuns(out)
}

// insertRunAt splices a run in at inline offset at.
func insertRunAt(runs []Run, at int, r Run) []Run {
	runs, i := splitAt(runs, at)
	out := make([]Run, 0, len(runs)+1)
	out = append(out, runs[:i]...)
	out = append(out, r)
	out = append(out, runs[i:]...)
	return mergeRuns(out)
}

// deleteRange removes [from, to) from the run sequence.
func deleteRange(runs []Run, from, to int) []Run {
	runs, i, j := splitRange(runs, from, to)
	out := make([]Run, 0, len(runs))
	out = append(out, runs[:i]...)
	out = append(out, runs[j:]...)
	return mergeRuns(out)
}

// replaceRange substitutes [from, to) with a single run.
func replaceRange(runs []Run, from, to int, r Run) []Run {
	runs, i, j := splitRange(runs, from, to)
	out := make([]Run, 0, len(runs)+1)
	out = append(out, runs[:i]...)
	out = append(out, r)
	out = append(out, runs[j:]...)
	return mergeRuns(out)
}

// textRunAt returns the text run containing offset together with its start
// offset, for word expansion inside a single run.
func textRunAt(runs []Run, offset int) (Run, int, bool) {
	r, start, ok := runAt(runs, offset)
	if !ok || r.Kind != RunText {
		return Run{}, 0, false
	}
	return r, start, true
}
