package wysiwyg

import (
	"strconv"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/clipboard"
	"github.com/inkwell-md/inkwell/internal/dispatch"
	"github.com/inkwell-md/inkwell/internal/source"
)

// operandRange resolves the inline range an insertion acts on: the selection
// when non-empty, else the word under the cursor.
func (s *Surface) operandRange(sel Selection, runs []Run) (from, to int, text string) {
	if !sel.IsEmpty() && sameContainer(sel.Start(), sel.End()) {
		from, to = sel.Start().Offset, sel.End().Offset
		return from, to, textSlice(runs, from, to)
	}
	if r, start, ok := textRunAt(runs, sel.Head.Offset); ok {
		ws, we, word, wok := source.WordAt(r.Text, sel.Head.Offset-start)
		if wok {
			return start + ws, start + we, word
		}
	}
	return sel.Head.Offset, sel.Head.Offset, ""
}

// textSlice returns the visible text of [from, to) across runs.
func textSlice(runs []Run, from, to int) string {
	runs, i, j := splitRange(cloneRuns(runs), from, to)
	return runsText(runs[i:j])
}

// editableAt reports whether a position accepts inline insertions.
func (s *Surface) editableAt(p Position) bool {
	k := s.doc.Block(p.Block).Kind
	return k != BlockCode && k != BlockRule
}

// insertLink links the selection or the word under the cursor. The
// destination comes from an explicit argument, else from a clipboard URL.
func (s *Surface) insertLink(act action.Action) dispatch.Result {
	sel := s.doc.Primary()
	if !s.editableAt(sel.Head) {
		return dispatch.NoOp()
	}

	href := act.Args.Href
	if href == "" {
		content, res, ok := s.probeClipboard("insertLink")
		if !ok {
			return res
		}
		if content.Kind == clipboard.KindURL {
			href = content.Value
		}
	}

	runs := s.doc.runsAt(sel.Head)
	from, to, text := s.operandRange(sel, runs)
	if act.Args.Text != "" {
		text = act.Args.Text
	}
	// A bare destination becomes its own display text. With neither text
	// nor destination an empty placeholder link is inserted for fill-in.
	if text == "" {
		text = href
	}

	r := Run{Kind: RunText, Text: text, Link: &LinkAttrs{Href: href}}
	s.doc.setRunsAt(sel.Head, replaceRange(runs, from, to, r))
	next := sel.Head
	next.Offset = from + len(text)
	s.doc.SetCursor(next)
	return dispatch.OK()
}

// insertBookmarkLink wraps the selection or word in a wiki-style bookmark
// link targeting its own text.
func (s *Surface) insertBookmarkLink(act action.Action) dispatch.Result {
	sel := s.doc.Primary()
	if !s.editableAt(sel.Head) {
		return dispatch.NoOp()
	}

	runs := s.doc.runsAt(sel.Head)
	from, to, text := s.operandRange(sel, runs)
	if act.Args.Text != "" {
		text = act.Args.Text
	}
	// An empty operand inserts an empty placeholder bookmark for fill-in.
	r := Run{Kind: RunText, Text: text, Link: &LinkAttrs{Href: text, Wiki: true}}
	s.doc.setRunsAt(sel.Head, replaceRange(runs, from, to, r))
	next := sel.Head
	next.Offset = from + len(text)
	s.doc.SetCursor(next)
	return dispatch.OK()
}

// unlink strips the link from the run under the cursor, keeping its display
// text.
func (s *Surface) unlink(act action.Action) dispatch.Result {
	sel := s.doc.Primary()
	if !s.editableAt(sel.Head) {
		return dispatch.NoOp()
	}

	runs := s.doc.runsAt(sel.Head)
	r, start, ok := runAt(runs, sel.Head.Offset)
	if !ok || r.Kind != RunText || r.Link == nil {
		return dispatch.NoOp()
	}

	out := make([]Run, len(runs))
	copy(out, runs)
	pos := 0
	for i := range out {
		if pos == start && out[i].Link != nil {
			out[i].Link = nil
		}
		pos += out[i].Width()
	}
	s.doc.setRunsAt(sel.Head, mergeRuns(out))
	return dispatch.OK()
}

// insertImage inserts an image atom. A clipboard image path or image URL
// pre-fills the destination; local paths are copied into the document's
// asset directory. An unsaved document warns and degrades to an empty
// placeholder.
func (s *Surface) insertImage(act action.Action) dispatch.Result {
	sel := s.doc.Primary()
	if !s.editableAt(sel.Head) {
		return dispatch.NoOp()
	}

	href := act.Args.Href
	if href == "" {
		content, res, ok := s.probeClipboard("insertImage")
		if !ok {
			return res
		}
		if content.IsImage() {
			if content.NeedsCopy {
				docPath := s.co.DocPath()
				if docPath == "" {
					s.co.Warn("Save the document before inserting local images.")
				} else if ref, err := s.co.Assets.Copy(docPath, content.Value); err != nil {
					s.co.Logger.Printf("asset copy failed: %v", err)
				} else {
					href = ref
				}
			} else {
				href = content.Value
			}
		}
	}

	runs := s.doc.runsAt(sel.Head)
	r := Run{Kind: RunImage, Text: act.Args.Text, Src: href}
	s.doc.setRunsAt(sel.Head, insertRunAt(runs, sel.Head.Offset, r))
	next := sel.Head
	next.Offset++
	s.doc.SetCursor(next)
	return dispatch.OK()
}

// insertMath converts the selection or word to an inline math atom.
func (s *Surface) insertMath(act action.Action) dispatch.Result {
	sel := s.doc.Primary()
	if !s.editableAt(sel.Head) {
		return dispatch.NoOp()
	}

	runs := s.doc.runsAt(sel.Head)
	from, to, text := s.operandRange(sel, runs)
	if act.Args.Text != "" {
		text = act.Args.Text
	}

	r := Run{Kind: RunMath, Text: text}
	s.doc.setRunsAt(sel.Head, replaceRange(runs, from, to, r))
	next := sel.Head
	next.Offset = from + 1
	s.doc.SetCursor(next)
	return dispatch.OK()
}

// insertFootnote inserts the next free footnote reference at the cursor and
// appends its definition stub as a trailing paragraph.
func (s *Surface) insertFootnote(act action.Action) dispatch.Result {
	sel := s.doc.Primary()
	if !s.editableAt(sel.Head) {
		return dispatch.NoOp()
	}

	n := 1
	for _, b := range s.doc.Blocks() {
		for _, r := range blockRuns(b) {
			if r.Kind != RunFootnote {
				continue
			}
			if v, err := strconv.Atoi(r.Text); err == nil && v >= n {
				n = v + 1
			}
		}
	}
	label := strconv.Itoa(n)

	runs := s.doc.runsAt(sel.Head)
	s.doc.setRunsAt(sel.Head, insertRunAt(runs, sel.Head.Offset, Run{Kind: RunFootnote, Text: label}))

	def := &Block{Kind: BlockParagraph, Runs: []Run{
		{Kind: RunFootnote, Text: label},
		{Kind: RunText, Text: ": "},
	}}
	s.doc.insertBlocks(s.doc.Len(), def)
	s.doc.SetCursor(Pos(s.doc.Len()-1, runsWidth(def.Runs)))
	return dispatch.OK()
}

// blockRuns yields every run sequence a block carries, table cells
// included.
func blockRuns(b *Block) []Run {
	if b.Kind != BlockTable {
		return b.Runs
	}
	var out []Run
	for _, row := range b.Table.Rows {
		for _, cell := range row {
			out = append(out, cell.Runs...)
		}
	}
	return out
}
