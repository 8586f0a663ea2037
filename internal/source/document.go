// Package source implements the source surface: the document as a flat
// sequence of markdown characters with line/offset addressing. Context
// detection works by scanning the line under the cursor; mutations are text
// splices with explicit cursor repositioning.
package source

import (
	"errors"
	"sort"
	"strings"
)

// Errors returned by document operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in reverse order")
)

// Document is the source-surface document: markdown text addressed by
// absolute byte offset and by line/column. Line endings are normalized to LF
// on the way in; the persisted style is tracked by the session.
type Document struct {
	text       string
	lineStarts []int
	sels       []Selection
}

// NewDocument creates a document from markdown text.
func NewDocument(text string) *Document {
	d := &Document{}
	d.setText(normalize(text))
	d.sels = []Selection{Caret(0)}
	return d
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func (d *Document) setText(text string) {
	d.text = text
	d.lineStarts = d.lineStarts[:0]
	d.lineStarts = append(d.lineStarts, 0)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			d.lineStarts = append(d.lineStarts, i+1)
		}
	}
}

// Text returns the full document text.
func (d *Document) Text() string {
	return d.text
}

// Len returns the document length in bytes.
func (d *Document) Len() int {
	return len(d.text)
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.lineStarts)
}

// LineStart returns the byte offset of the start of a line.
func (d *Document) LineStart(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(d.lineStarts) {
		return len(d.text)
	}
	return d.lineStarts[line]
}

// LineEnd returns the byte offset of the end of a line (before the newline).
func (d *Document) LineEnd(line int) int {
	if line < 0 {
		return 0
	}
	if line+1 < len(d.lineStarts) {
		return d.lineStarts[line+1] - 1
	}
	return len(d.text)
}

// LineText returns the text of a line without its newline.
func (d *Document) LineText(line int) string {
	if line < 0 || line >= len(d.lineStarts) {
		return ""
	}
	return d.text[d.LineStart(line):d.LineEnd(line)]
}

// Lines returns all lines without newlines.
func (d *Document) Lines() []string {
	out := make([]string, len(d.lineStarts))
	for i := range d.lineStarts {
		out[i] = d.LineText(i)
	}
	return out
}

// LineForOffset returns the line containing the offset.
func (d *Document) LineForOffset(offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset >= len(d.text) {
		return len(d.lineStarts) - 1
	}
	// lineStarts is sorted; find the last start <= offset.
	i := sort.SearchInts(d.lineStarts, offset+1)
	return i - 1
}

// Column returns the byte column of the offset within its line.
func (d *Document) Column(offset int) int {
	return offset - d.LineStart(d.LineForOffset(offset))
}

// Replace splices text over the half-open range [from, to) and returns the
// offset just past the inserted text.
func (d *Document) Replace(from, to int, text string) (int, error) {
	if from < 0 || from > to || to > len(d.text) {
		return 0, ErrRangeInvalid
	}
	text = normalize(text)
	d.setText(d.text[:from] + text + d.text[to:])
	return from + len(text), nil
}

// Insert inserts text at an offset and returns the offset just past it.
func (d *Document) Insert(offset int, text string) (int, error) {
	return d.Replace(offset, offset, text)
}

// Delete removes the half-open range [from, to).
func (d *Document) Delete(from, to int) error {
	_, err := d.Replace(from, to, "")
	return err
}

// TextRange returns the text of the half-open range [from, to).
func (d *Document) TextRange(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(d.text) {
		to = len(d.text)
	}
	if from >= to {
		return ""
	}
	return d.text[from:to]
}

// Edit is one text splice for batch application.
type Edit struct {
	From, To int
	Text     string
}

// ApplyEdits applies edits that were computed against the current text.
// Edits must be ordered highest offset first and must not overlap; a later
// splice must never shift an earlier pending one.
func (d *Document) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}
	for i := 1; i < len(edits); i++ {
		if edits[i].To > edits[i-1].From {
			return ErrEditsOverlap
		}
	}
	for _, e := range edits {
		if e.From < 0 || e.From > e.To || e.To > len(d.text) {
			return ErrRangeInvalid
		}
	}
	for _, e := range edits {
		d.setText(d.text[:e.From] + normalize(e.Text) + d.text[e.To:])
	}
	return nil
}

// Selections returns the current selection set in document order.
func (d *Document) Selections() []Selection {
	out := make([]Selection, len(d.sels))
	copy(out, d.sels)
	return out
}

// SetSelections replaces the selection set. Empty input resets to a caret at
// offset 0. Selections are clamped to the document and kept in document
// order.
func (d *Document) SetSelections(sels []Selection) {
	if len(sels) == 0 {
		d.sels = []Selection{Caret(0)}
		return
	}
	out := make([]Selection, len(sels))
	copy(out, sels)
	for i := range out {
		out[i] = out[i].Clamp(len(d.text))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start() < out[j].Start() })
	d.sels = out
}

// SetCursor collapses the selection set to a single caret.
func (d *Document) SetCursor(offset int) {
	d.SetSelections([]Selection{Caret(offset)})
}

// Primary returns the first selection in document order.
func (d *Document) Primary() Selection {
	return d.sels[0]
}
