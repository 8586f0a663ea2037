package wysiwyg

import (
	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/dispatch"
)

// selectedBlocks returns the unique block indexes covered by the selection
// set, ascending.
func (s *Surface) selectedBlocks() []int {
	seen := make(map[int]bool)
	var out []int
	for _, sel := range s.doc.Selections() {
		for b := sel.Start().Block; b <= sel.End().Block; b++ {
			if !seen[b] {
				seen[b] = true
				out = append(out, b)
			}
		}
	}
	return out
}

// convertible reports whether a block may change kind (code blocks and
// tables keep their kind).
func convertible(b *Block) bool {
	return b.Kind != BlockCode && b.Kind != BlockTable
}

// rewriteBlocks applies a conversion to every selected convertible block.
func (s *Surface) rewriteBlocks(rewrite func(b *Block) bool) dispatch.Result {
	if !convertible(s.doc.Block(s.doc.Primary().Head.Block)) {
		return dispatch.NoOp()
	}
	changed := false
	for _, i := range s.selectedBlocks() {
		b := s.doc.Block(i)
		if !convertible(b) {
			continue
		}
		if rewrite(b) {
			changed = true
		}
	}
	if !changed {
		return dispatch.NoOp()
	}
	s.renumberLists()
	return dispatch.OK()
}

// asParagraph resets a block's kind-specific fields, keeping inline content
// and quote depth.
func asParagraph(b *Block) {
	b.Kind = BlockParagraph
	b.Level = 0
	b.ListType = 0
	b.ListDepth = 0
	b.Ordinal = 0
	b.Checked = false
}

func (s *Surface) setHeading(act action.Action) dispatch.Result {
	level, ok := action.HeadingLevel(act.ID)
	if !ok {
		return dispatch.NoOp()
	}
	return s.rewriteBlocks(func(b *Block) bool {
		if b.Kind == BlockHeading && b.Level == level {
			return false
		}
		asParagraph(b)
		b.Kind = BlockHeading
		b.Level = level
		return true
	})
}

func (s *Surface) headingIncrease(act action.Action) dispatch.Result {
	return s.rewriteBlocks(func(b *Block) bool {
		if b.Kind != BlockHeading {
			asParagraph(b)
			b.Kind = BlockHeading
			b.Level = 1
			return true
		}
		if b.Level >= 6 {
			return false
		}
		b.Level++
		return true
	})
}

func (s *Surface) headingDecrease(act action.Action) dispatch.Result {
	return s.rewriteBlocks(func(b *Block) bool {
		if b.Kind != BlockHeading {
			return false
		}
		if b.Level <= 1 {
			asParagraph(b)
			return true
		}
		b.Level--
		return true
	})
}

func (s *Surface) toParagraph(act action.Action) dispatch.Result {
	return s.rewriteBlocks(func(b *Block) bool {
		if b.Kind == BlockParagraph {
			return false
		}
		asParagraph(b)
		return true
	})
}

// toggleBlockquote removes one quote level from quoted blocks, adds one to
// unquoted blocks. Two applications restore the original tree.
func (s *Surface) toggleBlockquote(act action.Action) dispatch.Result {
	return s.rewriteBlocks(func(b *Block) bool {
		if b.QuoteDepth > 0 {
			b.QuoteDepth--
		} else {
			b.QuoteDepth++
		}
		return true
	})
}

func (s *Surface) nestQuote(act action.Action) dispatch.Result {
	return s.rewriteBlocks(func(b *Block) bool {
		b.QuoteDepth++
		return true
	})
}

func (s *Surface) unnestQuote(act action.Action) dispatch.Result {
	return s.rewriteBlocks(func(b *Block) bool {
		if b.QuoteDepth == 0 {
			return false
		}
		b.QuoteDepth--
		return true
	})
}

// insertCodeBlock converts the primary block to a fenced code block holding
// its plain text.
func (s *Surface) insertCodeBlock(act action.Action) dispatch.Result {
	p := s.doc.Primary().Head
	b := s.doc.Block(p.Block)
	if !convertible(b) {
		return dispatch.NoOp()
	}

	code := runsText(b.Runs)
	asParagraph(b)
	b.Kind = BlockCode
	b.Language = act.Args.Language
	b.Code = code
	b.Runs = nil
	s.doc.SetCursor(Pos(p.Block, 0))
	return dispatch.OK()
}

// horizontalRule replaces an empty paragraph with a thematic break, or
// inserts one after the current block followed by a fresh paragraph.
func (s *Surface) horizontalRule(act action.Action) dispatch.Result {
	p := s.doc.Primary().Head
	b := s.doc.Block(p.Block)
	if !convertible(b) {
		return dispatch.NoOp()
	}

	if b.Kind == BlockParagraph && runsWidth(b.Runs) == 0 {
		b.Kind = BlockRule
		b.Runs = nil
		s.doc.SetCursor(Pos(p.Block, 0))
		return dispatch.OK()
	}

	s.doc.insertBlocks(p.Block+1,
		&Block{Kind: BlockRule, QuoteDepth: b.QuoteDepth},
		&Block{Kind: BlockParagraph, QuoteDepth: b.QuoteDepth},
	)
	s.doc.SetCursor(Pos(p.Block+2, 0))
	return dispatch.OK()
}

// duplicateLine clones each selected block below itself.
func (s *Surface) duplicateLine(act action.Action) dispatch.Result {
	blocks := s.selectedBlocks()
	for i := len(blocks) - 1; i >= 0; i-- {
		at := blocks[i]
		s.doc.insertBlocks(at+1, cloneBlock(s.doc.Block(at)))
	}
	s.renumberLists()
	return dispatch.OK()
}

// deleteLine removes each selected block.
func (s *Surface) deleteLine(act action.Action) dispatch.Result {
	blocks := s.selectedBlocks()
	for i := len(blocks) - 1; i >= 0; i-- {
		s.doc.removeBlock(blocks[i])
	}
	s.renumberLists()
	target := blocks[0]
	if target >= s.doc.Len() {
		target = s.doc.Len() - 1
	}
	s.doc.SetCursor(Pos(target, 0))
	return dispatch.OK()
}

// cloneBlock deep-copies a block.
func cloneBlock(b *Block) *Block {
	c := *b
	c.Runs = cloneRuns(b.Runs)
	if b.Table != nil {
		t := &Table{Aligns: append([]string(nil), b.Table.Aligns...)}
		for _, row := range b.Table.Rows {
			nrow := make([]Cell, len(row))
			for i, cell := range row {
				nrow[i] = Cell{Runs: cloneRuns(cell.Runs)}
			}
			t.Rows = append(t.Rows, nrow)
		}
		c.Table = t
	}
	return &c
}

func cloneRuns(runs []Run) []Run {
	out := make([]Run, len(runs))
	copy(out, runs)
	for i := range out {
		if out[i].Link != nil {
			l := *out[i].Link
			out[i].Link = &l
		}
	}
	return out
}
