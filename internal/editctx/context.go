// Package editctx defines the normalized structural context shared by both
// editing surfaces. Detectors on the source and WYSIWYG surfaces populate the
// same shapes from entirely different queries, which is what lets the
// enable-rule evaluator stay surface-blind.
package editctx

// Mode describes the insertion context at the cursor.
type Mode uint8

const (
	// ModeInsert indicates a block-level insertion point (empty line, block
	// boundary): block constructs may be inserted here.
	ModeInsert Mode = iota
	// ModeInlineInsert indicates the cursor sits inside inline content of a
	// textblock: inline constructs are inserted into the surrounding text.
	ModeInlineInsert
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeInlineInsert:
		return "inline-insert"
	default:
		return "insert"
	}
}

// ListType identifies the kind of list surrounding a position.
type ListType uint8

const (
	// ListBullet is an unordered list ("-", "*", "+").
	ListBullet ListType = iota
	// ListOrdered is a numbered list ("1.", "2)").
	ListOrdered
	// ListTask is a task list ("- [ ]", "- [x]").
	ListTask
)

// String returns a string representation of the list type.
func (t ListType) String() string {
	switch t {
	case ListOrdered:
		return "ordered"
	case ListTask:
		return "task"
	default:
		return "bullet"
	}
}

// HeadingInfo describes the heading containing a position.
type HeadingInfo struct {
	// Level is the heading level, 1 through 6.
	Level int
}

// ListInfo describes the list item containing a position.
type ListInfo struct {
	// Type is the list kind.
	Type ListType

	// Depth is the nesting depth, starting at 1 for a top-level item.
	Depth int

	// Ordinal is the item number for ordered lists (0 otherwise).
	Ordinal int

	// Checked reports whether a task item is checked.
	Checked bool
}

// TableInfo describes the table cell containing a position.
type TableInfo struct {
	// Row is the zero-based row index counting the header row as 0.
	Row int

	// Col is the zero-based column index.
	Col int

	// IsHeader reports whether the position is in the header row.
	IsHeader bool
}

// QuoteInfo describes the blockquote containing a position.
type QuoteInfo struct {
	// Depth is the quote nesting depth, starting at 1.
	Depth int
}

// CodeInfo describes the fenced code block containing a position.
type CodeInfo struct {
	// Language is the info string of the fence (may be empty).
	Language string
}

// LinkInfo describes the link containing a position.
type LinkInfo struct {
	// Href is the link destination. For wiki links this is the target page.
	Href string
}

// Marks records which inline marks are active at a position.
type Marks struct {
	Bold          bool
	Italic        bool
	Strikethrough bool
	Code          bool
}

// Any reports whether any mark is active.
func (m Marks) Any() bool {
	return m.Bold || m.Italic || m.Strikethrough || m.Code
}

// Context is the normalized description of the constructs surrounding a
// single position. Nil pointer fields mean "not inside that construct".
// Contexts are values: detectors return a fresh Context per call and never
// retain one.
type Context struct {
	// Heading is set when the position is inside a heading.
	Heading *HeadingInfo

	// List is set when the position is inside a list item.
	List *ListInfo

	// Table is set when the position is inside a table cell.
	Table *TableInfo

	// Blockquote is set when the position is inside a blockquote.
	Blockquote *QuoteInfo

	// CodeBlock is set when the position is inside a fenced code block.
	CodeBlock *CodeInfo

	// Link is set when the position is inside a link.
	Link *LinkInfo

	// InImage reports whether the position is inside an image reference.
	InImage bool

	// InInlineMath reports whether the position is inside inline math.
	InInlineMath bool

	// InFootnote reports whether the position is inside a footnote reference.
	InFootnote bool

	// Marks holds the inline marks active at the position.
	Marks Marks

	// HasSelection reports whether a non-empty selection exists.
	HasSelection bool

	// Mode is the insertion context at the position.
	Mode Mode
}

// InTextblock reports whether the position allows inline content. Code
// blocks carry verbatim text only.
func (c Context) InTextblock() bool {
	return c.CodeBlock == nil
}

// IsPlainParagraph reports whether the position is in an unadorned paragraph
// (no heading, list, table, quote, or code block).
func (c Context) IsPlainParagraph() bool {
	return c.Heading == nil && c.List == nil && c.Table == nil &&
		c.Blockquote == nil && c.CodeBlock == nil
}

// BlockType returns a coarse name for the innermost block construct. Used as
// the node-type hint by the cursor translator and as the block parent type in
// multi-selection contexts.
func (c Context) BlockType() string {
	switch {
	case c.CodeBlock != nil:
		return "code-block"
	case c.Table != nil:
		return "table-cell"
	case c.Heading != nil:
		return "heading"
	case c.List != nil:
		return "list-item"
	case c.Blockquote != nil:
		return "blockquote"
	default:
		return "paragraph"
	}
}
