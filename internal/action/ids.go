// Package action declares the command vocabulary shared by both surfaces:
// action ids, their context requirements, and their active-state probes. The
// table is declared once and consumed by every surface's dispatcher and by
// the enable-rule evaluator, so the two surfaces cannot drift apart on what a
// command means.
package action

import (
	"strconv"
	"strings"
)

// Inline mark actions.
const (
	Bold            = "bold"
	Italic          = "italic"
	Strikethrough   = "strikethrough"
	InlineCode      = "inlineCode"
	ClearFormatting = "clearFormatting"
)

// Block type actions. Heading levels are parametrized as "heading:1" through
// "heading:6".
const (
	HeadingPrefix   = "heading:"
	HeadingIncrease = "headingIncrease"
	HeadingDecrease = "headingDecrease"
	Paragraph       = "paragraph"
	InsertCodeBlock = "insertCodeBlock"
	HorizontalRule  = "horizontalRule"
)

// Blockquote actions.
const (
	InsertBlockquote = "insertBlockquote"
	NestQuote        = "nestQuote"
	UnnestQuote      = "unnestQuote"
)

// List actions.
const (
	BulletList  = "bulletList"
	OrderedList = "orderedList"
	TaskList    = "taskList"
	RemoveList  = "removeList"
	IndentList  = "indentList"
	OutdentList = "outdentList"
)

// Table actions. Alignment is parametrized as "tableAlign:left",
// "tableAlign:center", or "tableAlign:right".
const (
	InsertTable         = "insertTable"
	TableInsertRowAbove = "tableInsertRowAbove"
	TableInsertRowBelow = "tableInsertRowBelow"
	TableInsertColBefore = "tableInsertColBefore"
	TableInsertColAfter  = "tableInsertColAfter"
	TableDeleteRow      = "tableDeleteRow"
	TableDeleteCol      = "tableDeleteCol"
	TableAlignPrefix    = "tableAlign:"
)

// Inline insertion actions.
const (
	InsertLink     = "insertLink"
	LinkBookmark   = "link:bookmark"
	Unlink         = "unlink"
	InsertImage    = "insertImage"
	InsertMath     = "insertMath"
	InsertFootnote = "insertFootnote"
)

// Line operations.
const (
	DuplicateLine = "duplicateLine"
	DeleteLine    = "deleteLine"
)

// ScriptPrefix namespaces user script actions ("script.<name>").
const ScriptPrefix = "script."

// Heading returns the action id for setting a heading level.
func Heading(level int) string {
	return HeadingPrefix + strconv.Itoa(level)
}

// HeadingLevel extracts the level from a "heading:N" id. ok is false for any
// other id or a level outside 1..6.
func HeadingLevel(id string) (level int, ok bool) {
	rest, found := strings.CutPrefix(id, HeadingPrefix)
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > 6 {
		return 0, false
	}
	return n, true
}

// TableAlign returns the action id for a column alignment.
func TableAlign(align string) string {
	return TableAlignPrefix + align
}

// TableAlignment extracts the alignment from a "tableAlign:X" id.
func TableAlignment(id string) (align string, ok bool) {
	rest, found := strings.CutPrefix(id, TableAlignPrefix)
	if !found {
		return "", false
	}
	switch rest {
	case "left", "center", "right":
		return rest, true
	}
	return "", false
}

// ScriptName extracts the script name from a "script.<name>" id.
func ScriptName(id string) (name string, ok bool) {
	rest, found := strings.CutPrefix(id, ScriptPrefix)
	if !found || rest == "" {
		return "", false
	}
	return rest, true
}
