// Package wysiwyg implements the rendered editing surface: a block tree with
// flat inline runs instead of raw markdown text. Its detector and handlers
// answer the same questions as the source surface's, queried against nodes
// rather than line syntax, so the two surfaces stay interchangeable behind
// the shared dispatcher contract.
package wysiwyg

import (
	"sort"

	"github.com/inkwell-md/inkwell/internal/editctx"
)

// RunKind tags the inline run variants.
type RunKind uint8

const (
	// RunText is styled text, optionally linked.
	RunText RunKind = iota
	// RunImage is an image atom; Text is the alt text, Src the destination.
	RunImage
	// RunMath is an inline math atom; Text is the expression body.
	RunMath
	// RunFootnote is a footnote reference atom; Text is the label.
	RunFootnote
)

// LinkAttrs describes the link wrapping a text run.
type LinkAttrs struct {
	// Href is the destination; the target page for wiki links.
	Href string

	// Wiki marks wiki-style bracket links.
	Wiki bool
}

// Run is one flat inline segment. Text runs carry marks and an optional
// link; atom runs are opaque single units addressed as width 1.
type Run struct {
	Kind  RunKind
	Text  string
	Marks editctx.Marks
	Link  *LinkAttrs
	Src   string
}

// Width is the run's extent in inline offset units: byte length for text
// runs, 1 for atoms.
func (r Run) Width() int {
	if r.Kind == RunText {
		return len(r.Text)
	}
	return 1
}

// Visible returns the run's display text.
func (r Run) Visible() string {
	return r.Text
}

// sameStyle reports whether two text runs can merge.
func sameStyle(a, b Run) bool {
	if a.Kind != RunText || b.Kind != RunText {
		return false
	}
	if a.Marks != b.Marks {
		return false
	}
	if (a.Link == nil) != (b.Link == nil) {
		return false
	}
	if a.Link != nil && *a.Link != *b.Link {
		return false
	}
	return true
}

// mergeRuns coalesces adjacent text runs of identical style and drops empty
// text runs.
func mergeRuns(runs []Run) []Run {
	out := runs[:0]
	for _, r := range runs {
		if r.Kind == RunText && r.Text == "" && r.Link == nil {
			// Empty placeholder links survive merging so a freshly
			// inserted link can be filled in.
			continue
		}
		if len(out) > 0 && sameStyle(out[len(out)-1], r) {
			out[len(out)-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}

// runsWidth is the total inline width of a run sequence.
func runsWidth(runs []Run) int {
	w := 0
	for _, r := range runs {
		w += r.Width()
	}
	return w
}

// runsText concatenates the visible text of a run sequence.
func runsText(runs []Run) string {
	s := ""
	for _, r := range runs {
		s += r.Visible()
	}
	return s
}

// BlockKind tags the block variants. The tree is flat: quoting is a depth
// attribute and list items are sibling blocks, mirroring markdown's
// line-oriented structure, so block indexes address every position.
type BlockKind uint8

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockListItem
	BlockCode
	BlockTable
	BlockRule
)

// Cell is one table cell's inline content.
type Cell struct {
	Runs []Run
}

// Table is a pipe table; Rows[0] is the header row.
type Table struct {
	// Aligns holds one of "left", "center", "right" per column.
	Aligns []string
	Rows   [][]Cell
}

// Cols is the table's column count.
func (t *Table) Cols() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Block is one block node. Fields beyond Kind and QuoteDepth are populated
// per kind.
type Block struct {
	Kind       BlockKind
	QuoteDepth int

	// Heading.
	Level int

	// List item.
	ListType editctx.ListType
	ListDepth int
	Ordinal  int
	Checked  bool

	// Code block.
	Language string
	Code     string

	// Table.
	Table *Table

	// Inline content for paragraphs, headings, and list items.
	Runs []Run
}

// IsTextblock reports whether the block carries inline runs.
func (b *Block) IsTextblock() bool {
	switch b.Kind {
	case BlockParagraph, BlockHeading, BlockListItem:
		return true
	}
	return false
}

// Position addresses one inline offset in the tree. Row and Col are -1
// outside tables; Offset counts inline width units (bytes of text, 1 per
// atom), or a byte offset into Code for code blocks.
type Position struct {
	Block  int
	Row    int
	Col    int
	Offset int
}

// Pos builds a non-table position.
func Pos(block, offset int) Position {
	return Position{Block: block, Row: -1, Col: -1, Offset: offset}
}

// CellPos builds a table cell position.
func CellPos(block, row, col, offset int) Position {
	return Position{Block: block, Row: row, Col: col, Offset: offset}
}

// Before reports whether p orders strictly before q in document order.
func (p Position) Before(q Position) bool {
	if p.Block != q.Block {
		return p.Block < q.Block
	}
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	if p.Col != q.Col {
		return p.Col < q.Col
	}
	return p.Offset < q.Offset
}

// Selection is an anchor/head pair of positions. Anchor is where the
// selection started; Head is the cursor end and may precede Anchor.
type Selection struct {
	Anchor Position
	Head   Position
}

// Caret returns an empty selection at a position.
func Caret(p Position) Selection {
	return Selection{Anchor: p, Head: p}
}

// Sel returns a selection spanning two positions.
func Sel(anchor, head Position) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// IsEmpty reports whether anchor and head coincide.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Start returns the lesser end.
func (s Selection) Start() Position {
	if s.Head.Before(s.Anchor) {
		return s.Head
	}
	return s.Anchor
}

// End returns the greater end.
func (s Selection) End() Position {
	if s.Head.Before(s.Anchor) {
		return s.Anchor
	}
	return s.Head
}

// Document is the block tree plus its selection set.
type Document struct {
	blocks []*Block
	sels   []Selection
}

// NewDocument creates a document from blocks. An empty document gets one
// empty paragraph so the cursor always has a home.
func NewDocument(blocks []*Block) *Document {
	if len(blocks) == 0 {
		blocks = []*Block{{Kind: BlockParagraph}}
	}
	return &Document{
		blocks: blocks,
		sels:   []Selection{Caret(Pos(0, 0))},
	}
}

// Blocks returns the block slice. Callers must treat it as read-only;
// mutation goes through the surface handlers.
func (d *Document) Blocks() []*Block {
	return d.blocks
}

// Block returns the block at index i.
func (d *Document) Block(i int) *Block {
	return d.blocks[i]
}

// Len is the number of blocks.
func (d *Document) Len() int {
	return len(d.blocks)
}

// Selections returns a copy of the selection set, ascending by start.
func (d *Document) Selections() []Selection {
	out := make([]Selection, len(d.sels))
	copy(out, d.sels)
	return out
}

// SetSelections replaces the selection set, clamping and sorting.
func (d *Document) SetSelections(sels []Selection) {
	if len(sels) == 0 {
		sels = []Selection{Caret(Pos(0, 0))}
	}
	clamped := make([]Selection, len(sels))
	for i, s := range sels {
		clamped[i] = Selection{Anchor: d.clamp(s.Anchor), Head: d.clamp(s.Head)}
	}
	sort.SliceStable(clamped, func(i, j int) bool {
		return clamped[i].Start().Before(clamped[j].Start())
	})
	d.sels = clamped
}

// SetCursor collapses the selection set to one caret.
func (d *Document) SetCursor(p Position) {
	d.sels = []Selection{Caret(d.clamp(p))}
}

// Primary returns the first selection.
func (d *Document) Primary() Selection {
	return d.sels[0]
}

func (d *Document) clamp(p Position) Position {
	if p.Block < 0 {
		p.Block = 0
	}
	if p.Block >= len(d.blocks) {
		p.Block = len(d.blocks) - 1
	}
	b := d.blocks[p.Block]

	switch b.Kind {
	case BlockTable:
		if p.Row < 0 {
			p.Row = 0
		}
		if p.Row >= len(b.Table.Rows) {
			p.Row = len(b.Table.Rows) - 1
		}
		if p.Col < 0 {
			p.Col = 0
		}
		if p.Col >= b.Table.Cols() {
			p.Col = b.Table.Cols() - 1
		}
		w := runsWidth(b.Table.Rows[p.Row][p.Col].Runs)
		if p.Offset < 0 {
			p.Offset = 0
		}
		if p.Offset > w {
			p.Offset = w
		}
	case BlockCode:
		p.Row, p.Col = -1, -1
		if p.Offset < 0 {
			p.Offset = 0
		}
		if p.Offset > len(b.Code) {
			p.Offset = len(b.Code)
		}
	default:
		p.Row, p.Col = -1, -1
		w := runsWidth(b.Runs)
		if p.Offset < 0 {
			p.Offset = 0
		}
		if p.Offset > w {
			p.Offset = w
		}
	}
	return p
}

// runsAt returns the run sequence containing a position (the block's runs,
// or the addressed cell's for tables). Nil for code blocks and rules.
func (d *Document) runsAt(p Position) []Run {
	b := d.blocks[p.Block]
	switch b.Kind {
	case BlockTable:
		if p.Row >= 0 && p.Row < len(b.Table.Rows) && p.Col >= 0 && p.Col < len(b.Table.Rows[p.Row]) {
			return b.Table.Rows[p.Row][p.Col].Runs
		}
		return nil
	case BlockCode, BlockRule:
		return nil
	default:
		return b.Runs
	}
}

// setRunsAt writes back the run sequence addressed by a position.
func (d *Document) setRunsAt(p Position, runs []Run) {
	b := d.blocks[p.Block]
	switch b.Kind {
	case BlockTable:
		b.Table.Rows[p.Row][p.Col].Runs = runs
	case BlockCode, BlockRule:
	default:
		b.Runs = runs
	}
}

// insertBlocks splices blocks in before index at.
func (d *Document) insertBlocks(at int, blocks ...*Block) {
	d.blocks = append(d.blocks[:at], append(blocks, d.blocks[at:]...)...)
}

// removeBlock deletes the block at index at, keeping at least one empty
// paragraph.
func (d *Document) removeBlock(at int) {
	d.blocks = append(d.blocks[:at], d.blocks[at+1:]...)
	if len(d.blocks) == 0 {
		d.blocks = []*Block{{Kind: BlockParagraph}}
	}
}
