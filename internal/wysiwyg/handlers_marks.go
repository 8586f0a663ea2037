package wysiwyg

import (
	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/dispatch"
	"github.com/inkwell-md/inkwell/internal/source"
)

// toggleMarkAction builds the handler for one inline mark. A cursor inside
// an existing marked span unwraps the whole span; a selection toggles the
// mark over its range; an empty cursor expands to the word under it. With
// nothing to wrap, the mark becomes pending typing state consumed by the
// next insertion.
func (s *Surface) toggleMarkAction(kind markKind) dispatch.HandlerFunc {
	return func(act action.Action) dispatch.Result {
		changed := false
		pended := false
		var last Position

		sels := s.doc.Selections()
		for i := len(sels) - 1; i >= 0; i-- {
			sel := sels[i]
			b := s.doc.Block(sel.Head.Block)
			if b.Kind == BlockCode || b.Kind == BlockRule {
				continue
			}
			runs := s.doc.runsAt(sel.Head)

			var from, to int
			switch {
			case !sel.IsEmpty() && sameContainer(sel.Start(), sel.End()):
				from, to = sel.Start().Offset, sel.End().Offset
			case sel.IsEmpty():
				if a, b, ok := markSpan(runs, sel.Head.Offset, kind); ok {
					from, to = a, b
				} else if r, start, ok := textRunAt(runs, sel.Head.Offset); ok {
					ws, we, _, wok := source.WordAt(r.Text, sel.Head.Offset-start)
					if !wok {
						s.togglePending(kind, sel.Head)
						pended = true
						continue
					}
					from, to = start+ws, start+we
				} else {
					s.togglePending(kind, sel.Head)
					pended = true
					continue
				}
			default:
				// Selections spanning containers are not mark targets.
				continue
			}

			if from == to {
				s.togglePending(kind, sel.Head)
				pended = true
				continue
			}

			on := !rangeHasMark(runs, from, to, kind)
			s.doc.setRunsAt(sel.Head, setMarkRange(runs, from, to, kind, on))
			changed = true
			if i == 0 {
				last = sel.Head
				last.Offset = to
			}
		}

		if !changed {
			if pended {
				// Pending-mark toggles count as handled: the surface
				// state changed even though the tree did not.
				return dispatch.OK()
			}
			return dispatch.NoOp()
		}
		s.doc.SetCursor(last)
		return dispatch.OK()
	}
}

// togglePending flips typing-state marks at an empty cursor.
func (s *Surface) togglePending(kind markKind, p Position) {
	if s.pendingPos != p {
		s.pending = make(map[markKind]bool)
		s.pendingPos = p
	}
	s.pending[kind] = !s.pending[kind]
}

// PendingMarks reports the typing-state marks active at the primary cursor.
func (s *Surface) PendingMarks() (bold, italic, strike, code bool) {
	if s.doc.Primary().Head != s.pendingPos {
		return false, false, false, false
	}
	return s.pending[markBold], s.pending[markItalic], s.pending[markStrike], s.pending[markCode]
}

// InsertText types text at the primary cursor, applying pending marks or
// inheriting the style of the run under the cursor.
func (s *Surface) InsertText(text string) {
	sel := s.doc.Primary()
	b := s.doc.Block(sel.Head.Block)
	if b.Kind == BlockCode || b.Kind == BlockRule {
		return
	}
	runs := s.doc.runsAt(sel.Head)

	r := Run{Kind: RunText, Text: text}
	if sel.Head == s.pendingPos && len(s.pending) > 0 {
		for kind, on := range s.pending {
			r.Marks = withMark(r.Marks, kind, on)
		}
	} else if under, _, ok := textRunAt(runs, sel.Head.Offset); ok {
		r.Marks = under.Marks
		r.Link = under.Link
	}

	s.doc.setRunsAt(sel.Head, insertRunAt(runs, sel.Head.Offset, r))
	s.pending = make(map[markKind]bool)
	next := sel.Head
	next.Offset += len(text)
	s.doc.SetCursor(next)
}

// clearFormatting flattens every selected range to unstyled text, or the
// whole block under an empty cursor.
func (s *Surface) clearFormatting(act action.Action) dispatch.Result {
	changed := false
	var last Position

	sels := s.doc.Selections()
	for i := len(sels) - 1; i >= 0; i-- {
		sel := sels[i]
		b := s.doc.Block(sel.Head.Block)
		if b.Kind == BlockCode || b.Kind == BlockRule {
			continue
		}
		runs := s.doc.runsAt(sel.Head)

		from, to := 0, runsWidth(runs)
		if !sel.IsEmpty() && sameContainer(sel.Start(), sel.End()) {
			from, to = sel.Start().Offset, sel.End().Offset
		}

		stripped := plainRange(runs, from, to)
		if runsEqual(stripped, runs) {
			continue
		}
		s.doc.setRunsAt(sel.Head, stripped)
		changed = true
		if i == 0 {
			last = sel.Head
			last.Offset = runsWidth(stripped)
		}
	}

	if !changed {
		return dispatch.NoOp()
	}
	s.doc.SetCursor(last)
	return dispatch.OK()
}

// sameContainer reports whether two positions address the same run
// sequence (same block, and same cell within a table).
func sameContainer(a, b Position) bool {
	return a.Block == b.Block && a.Row == b.Row && a.Col == b.Col
}

func runsEqual(a, b []Run) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Text != b[i].Text || a[i].Marks != b[i].Marks || a[i].Src != b[i].Src {
			return false
		}
		if (a[i].Link == nil) != (b[i].Link == nil) {
			return false
		}
		if a[i].Link != nil && *a[i].Link != *b[i].Link {
			return false
		}
	}
	return true
}
