package wysiwyg

import (
	"strconv"
	"strings"

	"github.com/inkwell-md/inkwell/internal/editctx"
)

// serializedRunPrefix is the marker length in front of a text offset inside
// one run's serialized form: opening emphasis markers, link brackets, and
// so on.
func serializedRunPrefix(r Run) int {
	switch r.Kind {
	case RunImage:
		return len("![")
	case RunMath:
		return len("$")
	case RunFootnote:
		return len("[^")
	}
	n := 0
	if r.Link != nil && r.Link.Wiki {
		n += len("[[")
		if r.Text != r.Link.Href {
			n += len(r.Link.Href) + len("|")
		}
	} else if r.Link != nil {
		n += len("[")
	}
	if r.Marks.Code {
		return n + 1
	}
	if r.Marks.Bold {
		n += 2
	}
	if r.Marks.Strikethrough {
		n += 2
	}
	if r.Marks.Italic {
		n++
	}
	return n
}

// blockPrefixLen is the serialized length before a block's inline content
// starts on its first content line.
func blockPrefixLen(b *Block) int {
	n := 2 * b.QuoteDepth
	switch b.Kind {
	case BlockHeading:
		n += b.Level + 1
	case BlockListItem:
		n += 2 * (b.ListDepth - 1)
		switch b.ListType {
		case editctx.ListOrdered:
			ord := b.Ordinal
			if ord <= 0 {
				ord = 1
			}
			n += len(strconv.Itoa(ord)) + len(". ")
		case editctx.ListTask:
			n += len("- [ ] ")
		default:
			n += len("- ")
		}
	}
	return n
}

// OffsetForPosition maps a tree position to a byte offset in the document's
// serialized markdown.
func (d *Document) OffsetForPosition(p Position) int {
	p = d.clamp(p)
	off := 0
	for i := 0; i < p.Block; i++ {
		off += serializedLen(d.blocks[i]) + 1
	}
	b := d.blocks[p.Block]

	switch b.Kind {
	case BlockCode:
		// Inside the body, after the fence line.
		return off + 2*b.QuoteDepth + len("```") + len(b.Language) + 1 + p.Offset
	case BlockRule:
		return off + 2*b.QuoteDepth
	case BlockTable:
		lines := serializeTable(b.Table, strings.Repeat("> ", b.QuoteDepth))
		lineIdx := p.Row
		if p.Row > 0 {
			lineIdx = p.Row + 1 // separator sits after the header
		}
		for i := 0; i < lineIdx; i++ {
			off += len(lines[i]) + 1
		}
		off += 2*b.QuoteDepth + len("| ")
		row := b.Table.Rows[p.Row]
		for c := 0; c < p.Col; c++ {
			off += len(serializeRuns(row[c].Runs)) + len(" | ")
		}
		return off + runsOffsetToSerialized(row[p.Col].Runs, p.Offset)
	default:
		return off + blockPrefixLen(b) + runsOffsetToSerialized(b.Runs, p.Offset)
	}
}

// runsOffsetToSerialized converts an inline offset to a byte offset in the
// serialized form of the run sequence.
func runsOffsetToSerialized(runs []Run, offset int) int {
	ser := 0
	pos := 0
	for _, r := range runs {
		end := pos + r.Width()
		if offset <= end {
			if r.Kind == RunText {
				return ser + serializedRunPrefix(r) + (offset - pos)
			}
			if offset == pos {
				return ser
			}
			return ser + len(serializeRun(r))
		}
		ser += len(serializeRun(r))
		pos = end
	}
	return ser
}

// PositionForOffset maps a byte offset in the serialized markdown back to a
// tree position, clamping offsets that land inside syntax markers to the
// nearest content boundary.
func (d *Document) PositionForOffset(off int) Position {
	if off < 0 {
		off = 0
	}
	at := 0
	for i, b := range d.blocks {
		l := serializedLen(b)
		if off <= at+l || i == len(d.blocks)-1 {
			return d.positionInBlock(i, b, off-at)
		}
		at += l + 1
	}
	return Pos(0, 0)
}

func (d *Document) positionInBlock(idx int, b *Block, rel int) Position {
	if rel < 0 {
		rel = 0
	}
	switch b.Kind {
	case BlockCode:
		head := 2*b.QuoteDepth + len("```") + len(b.Language) + 1
		return d.clamp(Pos(idx, rel-head))
	case BlockRule:
		return Pos(idx, 0)
	case BlockTable:
		lines := serializeTable(b.Table, strings.Repeat("> ", b.QuoteDepth))
		line := 0
		for line < len(lines)-1 && rel > len(lines[line]) {
			rel -= len(lines[line]) + 1
			line++
		}
		row := line
		if line == 1 {
			row = 1 // separator resolves to the first body row's row index
		} else if line > 1 {
			row = line - 1
		}
		if row >= len(b.Table.Rows) {
			row = len(b.Table.Rows) - 1
		}
		// Locate the cell by serialized cell spans.
		cellStart := 2*b.QuoteDepth + len("| ")
		cells := b.Table.Rows[row]
		for c := range cells {
			cellLen := len(serializeRuns(cells[c].Runs))
			if rel <= cellStart+cellLen || c == len(cells)-1 {
				return d.clamp(CellPos(idx, row, c, serializedToRunsOffset(cells[c].Runs, rel-cellStart)))
			}
			cellStart += cellLen + len(" | ")
		}
		return d.clamp(CellPos(idx, row, 0, 0))
	default:
		return d.clamp(Pos(idx, serializedToRunsOffset(b.Runs, rel-blockPrefixLen(b))))
	}
}

// serializedToRunsOffset converts a byte offset in the serialized run
// sequence to an inline offset, clamping marker-interior offsets to run
// boundaries.
func serializedToRunsOffset(runs []Run, ser int) int {
	if ser < 0 {
		return 0
	}
	at := 0
	pos := 0
	for _, r := range runs {
		l := len(serializeRun(r))
		if ser <= at+l {
			if r.Kind != RunText {
				return pos
			}
			inner := ser - at - serializedRunPrefix(r)
			if inner < 0 {
				inner = 0
			}
			if inner > len(r.Text) {
				inner = len(r.Text)
			}
			return pos + inner
		}
		at += l
		pos += r.Width()
	}
	return pos
}

// serializedLen is the byte length of a block's serialized form.
func serializedLen(b *Block) int {
	lines := serializeBlock(b)
	n := 0
	for i, l := range lines {
		if i > 0 {
			n++
		}
		n += len(l)
	}
	return n
}
