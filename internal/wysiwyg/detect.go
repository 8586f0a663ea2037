package wysiwyg

import (
	"github.com/inkwell-md/inkwell/internal/editctx"
)

// runAt locates the run containing an inline offset. Styled runs and atoms
// claim both edges, so a cursor touching either side of a bold span still
// reports bold, matching the source surface's containment rule; plain runs
// get what is left.
func runAt(runs []Run, offset int) (Run, int, bool) {
	pos := 0
	for _, r := range runs {
		end := pos + r.Width()
		switch {
		case r.Kind != RunText || r.Marks.Any() || r.Link != nil:
			hi := end
			if r.Kind == RunText {
				hi = end + 1 // inclusive right edge for styled text
			}
			if offset >= pos && offset < hi {
				return r, pos, true
			}
		default:
			if offset >= pos && offset < end {
				return r, pos, true
			}
		}
		pos = end
	}
	// Trailing edge of the final run; atoms end exclusive, like the source
	// surface's span containment.
	if len(runs) > 0 && offset == pos {
		last := runs[len(runs)-1]
		if last.Kind == RunText {
			return last, pos - last.Width(), true
		}
	}
	return Run{}, 0, false
}

// ContextAt builds the normalized context for a position by walking the
// addressed block and run, the tree-shaped counterpart of the source
// surface's line queries.
func (d *Document) ContextAt(p Position) editctx.Context {
	var ctx editctx.Context
	p = d.clamp(p)
	b := d.blocks[p.Block]

	if b.Kind == BlockCode {
		ctx.CodeBlock = &editctx.CodeInfo{Language: b.Language}
		ctx.Mode = editctx.ModeInsert
		return ctx
	}

	if b.QuoteDepth > 0 {
		ctx.Blockquote = &editctx.QuoteInfo{Depth: b.QuoteDepth}
	}

	var runs []Run
	switch b.Kind {
	case BlockHeading:
		ctx.Heading = &editctx.HeadingInfo{Level: b.Level}
		runs = b.Runs
	case BlockListItem:
		ctx.List = &editctx.ListInfo{
			Type:    b.ListType,
			Depth:   b.ListDepth,
			Ordinal: b.Ordinal,
			Checked: b.Checked,
		}
		runs = b.Runs
	case BlockTable:
		ctx.Table = &editctx.TableInfo{Row: p.Row, Col: p.Col, IsHeader: p.Row == 0}
		runs = b.Table.Rows[p.Row][p.Col].Runs
	case BlockRule:
		ctx.Mode = editctx.ModeInsert
		return ctx
	default:
		runs = b.Runs
	}

	if r, _, ok := runAt(runs, p.Offset); ok {
		switch r.Kind {
		case RunImage:
			ctx.InImage = true
		case RunMath:
			ctx.InInlineMath = true
		case RunFootnote:
			ctx.InFootnote = true
		default:
			ctx.Marks = r.Marks
			if r.Link != nil {
				ctx.Link = &editctx.LinkInfo{Href: r.Link.Href}
			}
		}
	}

	if runsWidth(runs) == 0 {
		ctx.Mode = editctx.ModeInsert
	} else {
		ctx.Mode = editctx.ModeInlineInsert
	}
	return ctx
}

// ContextFor returns the context at a selection's cursor end, with the
// selection flag populated.
func (d *Document) ContextFor(sel Selection) editctx.Context {
	ctx := d.ContextAt(sel.Head)
	ctx.HasSelection = !sel.IsEmpty()
	return ctx
}

// MultiContext computes the multi-selection context for the current
// selection set.
func (d *Document) MultiContext() editctx.MultiContext {
	sels := d.Selections()
	ctxs := make([]editctx.Context, len(sels))
	for i, sel := range sels {
		ctxs[i] = d.ContextFor(sel)
	}
	return editctx.MultiFromContexts(ctxs)
}
