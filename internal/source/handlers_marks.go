package source

import (
	"strings"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/dispatch"
)

// markSpanAt returns the full syntax span [from, to) of the mark of the
// given marker kind containing byte column col, on one line.
func markSpanAt(line string, col int, marker string) (int, int, bool) {
	codeSpans := codeSpanRe.FindAllStringIndex(line, -1)

	var spans [][]int
	switch marker {
	case "`":
		spans = codeSpans
	case "**":
		spans = boldRe.FindAllStringIndex(mask(line, codeSpans), -1)
	case "~~":
		spans = strikeRe.FindAllStringIndex(mask(line, codeSpans), -1)
	case "*":
		masked := mask(line, codeSpans)
		masked = mask(masked, boldRe.FindAllStringIndex(masked, -1))
		masked = mask(masked, strikeRe.FindAllStringIndex(masked, -1))
		spans = italicRe.FindAllStringIndex(masked, -1)
	}

	ml := len(marker)
	for _, m := range spans {
		if col >= m[0]+ml && col < m[1]-ml+1 {
			return m[0], m[1], true
		}
	}
	return 0, 0, false
}

// toggleMarkAction builds the handler for one inline mark. Toggling inside
// an existing span unwraps it; otherwise the selection (or the word under an
// empty cursor) is wrapped. With no word and no selection an empty marker
// pair is inserted with the cursor between the markers.
func (s *Surface) toggleMarkAction(marker string) dispatch.HandlerFunc {
	ml := len(marker)

	return func(act action.Action) dispatch.Result {
		var edits []Edit
		cursor := -1

		// Replacement texts are computed against the pre-mutation snapshot;
		// application is descending so pending offsets stay valid.
		sels := s.doc.Selections()
		for i := len(sels) - 1; i >= 0; i-- {
			sel := sels[i]
			if s.doc.ContextAt(sel.Head).CodeBlock != nil {
				continue
			}
			lineIdx := s.doc.LineForOffset(sel.Head)
			lineStart := s.doc.LineStart(lineIdx)
			line := s.doc.LineText(lineIdx)
			col := sel.Head - lineStart

			var e Edit
			var after int
			if sel.IsEmpty() {
				if from, to, ok := markSpanAt(line, col, marker); ok {
					inner := line[from+ml : to-ml]
					e = Edit{From: lineStart + from, To: lineStart + to, Text: inner}
					after = lineStart + from + len(inner)
				} else if ws, we, word, ok := WordAt(line, col); ok {
					e = Edit{From: lineStart + ws, To: lineStart + we, Text: marker + word + marker}
					after = lineStart + we + 2*ml
				} else {
					e = Edit{From: sel.Head, To: sel.Head, Text: marker + marker}
					after = sel.Head + ml
				}
			} else {
				text := s.doc.TextRange(sel.Start(), sel.End())
				if len(text) >= 2*ml && strings.HasPrefix(text, marker) && strings.HasSuffix(text, marker) {
					inner := text[ml : len(text)-ml]
					e = Edit{From: sel.Start(), To: sel.End(), Text: inner}
					after = sel.Start() + len(inner)
				} else {
					e = Edit{From: sel.Start(), To: sel.End(), Text: marker + text + marker}
					after = sel.End() + 2*ml
				}
			}

			edits = append(edits, e)
			if i == 0 {
				cursor = after
			}
		}

		if len(edits) == 0 {
			return dispatch.NoOp()
		}
		if err := s.doc.ApplyEdits(edits); err != nil {
			return dispatch.Error(err)
		}
		if cursor >= 0 {
			s.doc.SetCursor(cursor)
		}
		return dispatch.OK()
	}
}

// stripInline removes inline formatting syntax from text, keeping the plain
// content: marks are unwrapped, links collapse to their display text, images
// to their alt text, math to its body.
func stripInline(text string) string {
	text = imageRe.ReplaceAllString(text, "$1")
	text = wikiLinkRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := wikiLinkRe.FindStringSubmatch(m)
		if sub[2] != "" {
			return sub[2]
		}
		return sub[1]
	})
	text = linkRe.ReplaceAllString(text, "$1")
	unwrap := func(m string, n int) string { return m[n : len(m)-n] }
	text = codeSpanRe.ReplaceAllStringFunc(text, func(m string) string { return unwrap(m, 1) })
	text = boldRe.ReplaceAllStringFunc(text, func(m string) string { return unwrap(m, 2) })
	text = strikeRe.ReplaceAllStringFunc(text, func(m string) string { return unwrap(m, 2) })
	text = italicRe.ReplaceAllStringFunc(text, func(m string) string { return unwrap(m, 1) })
	text = mathRe.ReplaceAllString(text, "$1")
	return text
}

// clearFormatting strips inline syntax from every selected range, or from
// the whole current line under an empty cursor. Replacement texts are
// computed against the snapshot, then applied in descending order so one
// range's replacement can never shift another pending range.
func (s *Surface) clearFormatting(act action.Action) dispatch.Result {
	var edits []Edit
	cursor := -1
	changed := false

	sels := s.doc.Selections()
	for i := len(sels) - 1; i >= 0; i-- {
		sel := sels[i]
		if s.doc.ContextAt(sel.Head).CodeBlock != nil {
			continue
		}
		from, to := sel.Start(), sel.End()
		if sel.IsEmpty() {
			lineIdx := s.doc.LineForOffset(sel.Head)
			from, to = s.doc.LineStart(lineIdx), s.doc.LineEnd(lineIdx)
		}
		old := s.doc.TextRange(from, to)
		stripped := stripInline(old)
		if stripped != old {
			changed = true
		}
		edits = append(edits, Edit{From: from, To: to, Text: stripped})
		if i == 0 {
			cursor = from + len(stripped)
		}
	}

	if !changed {
		return dispatch.NoOp()
	}
	if err := s.doc.ApplyEdits(edits); err != nil {
		return dispatch.Error(err)
	}
	if cursor >= 0 {
		s.doc.SetCursor(cursor)
	}
	return dispatch.OK()
}
