package action

import (
	"github.com/tidwall/match"
)

// Requirement is a context precondition for enabling an action.
type Requirement uint8

const (
	// ReqAlways is satisfied in any context.
	ReqAlways Requirement = iota
	// ReqTextblock requires inline-capable content (not a code block).
	ReqTextblock
	// ReqNotInTable requires the position to be outside any table.
	ReqNotInTable
	// ReqTable requires the position to be inside a table cell.
	ReqTable
	// ReqList requires the position to be inside a list item.
	ReqList
	// ReqBlockquote requires the position to be inside a blockquote.
	ReqBlockquote
	// ReqLink requires the position to be inside a link.
	ReqLink
)

// ActiveKind identifies the construct whose presence makes an action show as
// active (cursor currently inside what the action toggles).
type ActiveKind uint8

const (
	// ActiveNever means the action never shows as active.
	ActiveNever ActiveKind = iota
	// ActiveMarkBold through ActiveMarkCode probe the inline marks.
	ActiveMarkBold
	ActiveMarkItalic
	ActiveMarkStrike
	ActiveMarkCode
	// ActiveHeading probes for a heading of level Arg (any level when Arg==0).
	ActiveHeading
	// ActiveParagraph probes for a plain paragraph.
	ActiveParagraph
	// ActiveBlockquote probes for any blockquote.
	ActiveBlockquote
	// ActiveListBullet through ActiveListTask probe the list type.
	ActiveListBullet
	ActiveListOrdered
	ActiveListTask
	// ActiveLink probes for any link.
	ActiveLink
	// ActiveImage probes for an image reference.
	ActiveImage
	// ActiveMath probes for inline math.
	ActiveMath
	// ActiveFootnote probes for a footnote reference.
	ActiveFootnote
	// ActiveCodeBlock probes for a fenced code block.
	ActiveCodeBlock
)

// Declaration binds an action id to its enablement requirements and its
// active-state probe. Declarations are static: the table is built at startup
// and never mutated.
type Declaration struct {
	// ID is the action id, or a parametrized family prefix for Lookup.
	ID string

	// EnabledIn lists requirements that must ALL hold for the action to be
	// enabled.
	EnabledIn []Requirement

	// Active is the construct probe for the active flag.
	Active ActiveKind

	// Arg parametrizes the probe (heading level).
	Arg int
}

var textblock = []Requirement{ReqTextblock}
var blockLevel = []Requirement{ReqTextblock, ReqNotInTable}

// declarations is the static action table shared by both surfaces.
var declarations = map[string]Declaration{
	Bold:            {ID: Bold, EnabledIn: textblock, Active: ActiveMarkBold},
	Italic:          {ID: Italic, EnabledIn: textblock, Active: ActiveMarkItalic},
	Strikethrough:   {ID: Strikethrough, EnabledIn: textblock, Active: ActiveMarkStrike},
	InlineCode:      {ID: InlineCode, EnabledIn: textblock, Active: ActiveMarkCode},
	ClearFormatting: {ID: ClearFormatting, EnabledIn: textblock},

	HeadingIncrease: {ID: HeadingIncrease, EnabledIn: blockLevel, Active: ActiveHeading},
	HeadingDecrease: {ID: HeadingDecrease, EnabledIn: blockLevel, Active: ActiveHeading},
	Paragraph:       {ID: Paragraph, EnabledIn: []Requirement{ReqNotInTable}, Active: ActiveParagraph},
	InsertCodeBlock: {ID: InsertCodeBlock, EnabledIn: blockLevel, Active: ActiveCodeBlock},
	HorizontalRule:  {ID: HorizontalRule, EnabledIn: blockLevel},

	InsertBlockquote: {ID: InsertBlockquote, EnabledIn: blockLevel, Active: ActiveBlockquote},
	NestQuote:        {ID: NestQuote, EnabledIn: blockLevel},
	UnnestQuote:      {ID: UnnestQuote, EnabledIn: []Requirement{ReqTextblock, ReqNotInTable, ReqBlockquote}},

	BulletList:  {ID: BulletList, EnabledIn: blockLevel, Active: ActiveListBullet},
	OrderedList: {ID: OrderedList, EnabledIn: blockLevel, Active: ActiveListOrdered},
	TaskList:    {ID: TaskList, EnabledIn: blockLevel, Active: ActiveListTask},
	RemoveList:  {ID: RemoveList, EnabledIn: []Requirement{ReqTextblock, ReqList}},
	IndentList:  {ID: IndentList, EnabledIn: []Requirement{ReqTextblock, ReqList}},
	OutdentList: {ID: OutdentList, EnabledIn: []Requirement{ReqTextblock, ReqList}},

	InsertTable:          {ID: InsertTable, EnabledIn: blockLevel},
	TableInsertRowAbove:  {ID: TableInsertRowAbove, EnabledIn: []Requirement{ReqTable}},
	TableInsertRowBelow:  {ID: TableInsertRowBelow, EnabledIn: []Requirement{ReqTable}},
	TableInsertColBefore: {ID: TableInsertColBefore, EnabledIn: []Requirement{ReqTable}},
	TableInsertColAfter:  {ID: TableInsertColAfter, EnabledIn: []Requirement{ReqTable}},
	TableDeleteRow:       {ID: TableDeleteRow, EnabledIn: []Requirement{ReqTable}},
	TableDeleteCol:       {ID: TableDeleteCol, EnabledIn: []Requirement{ReqTable}},

	InsertLink:     {ID: InsertLink, EnabledIn: textblock, Active: ActiveLink},
	LinkBookmark:   {ID: LinkBookmark, EnabledIn: textblock, Active: ActiveLink},
	Unlink:         {ID: Unlink, EnabledIn: []Requirement{ReqTextblock, ReqLink}},
	InsertImage:    {ID: InsertImage, EnabledIn: textblock, Active: ActiveImage},
	InsertMath:     {ID: InsertMath, EnabledIn: textblock, Active: ActiveMath},
	InsertFootnote: {ID: InsertFootnote, EnabledIn: textblock, Active: ActiveFootnote},

	DuplicateLine: {ID: DuplicateLine},
	DeleteLine:    {ID: DeleteLine},
}

// Lookup resolves an action id to its declaration, expanding parametrized
// families ("heading:N", "tableAlign:X", "script.<name>"). ok is false for
// unknown ids.
func Lookup(id string) (Declaration, bool) {
	if d, ok := declarations[id]; ok {
		return d, true
	}
	if level, ok := HeadingLevel(id); ok {
		return Declaration{ID: id, EnabledIn: blockLevel, Active: ActiveHeading, Arg: level}, true
	}
	if _, ok := TableAlignment(id); ok {
		return Declaration{ID: id, EnabledIn: []Requirement{ReqTable}}, true
	}
	if _, ok := ScriptName(id); ok {
		return Declaration{ID: id, EnabledIn: textblock}, true
	}
	return Declaration{}, false
}

// Known reports whether id names a declared action.
func Known(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// multiRangePatterns is the allow-list consulted under multi-range selection.
// Actions outside the list anchor to a single construct and are blocked when
// more than one range is active.
var multiRangePatterns = []string{
	Bold, Italic, Strikethrough, InlineCode, ClearFormatting,
	"heading:*", HeadingIncrease, HeadingDecrease, Paragraph,
	InsertBlockquote, NestQuote, UnnestQuote,
	BulletList, OrderedList, TaskList, RemoveList,
	IndentList, OutdentList,
	DuplicateLine, DeleteLine,
	"script.*",
}

// AllowedInMultiRange reports whether an action may run across multiple
// selection ranges.
func AllowedInMultiRange(id string) bool {
	for _, pat := range multiRangePatterns {
		if match.Match(id, pat) {
			return true
		}
	}
	return false
}
