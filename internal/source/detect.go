package source

import (
	"regexp"
	"strings"

	"github.com/inkwell-md/inkwell/internal/editctx"
)

// Line-level syntax. Detection walks only the minimal surrounding structure:
// the cursor's line, plus a fence scan from the top for code blocks and a
// neighborhood scan for tables.
var (
	headingRe    = regexp.MustCompile(`^(#{1,6})[ \t]`)
	listRe       = regexp.MustCompile(`^([ \t]*)([-*+]|\d+[.)])[ \t]+(\[[ xX]\][ \t]+)?`)
	quoteRe      = regexp.MustCompile(`^((?:[ \t]{0,3}>[ \t]?)+)`)
	fenceRe      = regexp.MustCompile("^(```+|~~~+)[ \t]*([^`\\s]*)")
	tableSepRe   = regexp.MustCompile(`^[ \t]*\|?[ \t]*:?-+:?[ \t]*(\|[ \t]*:?-+:?[ \t]*)*\|?[ \t]*$`)
	orderedNumRe = regexp.MustCompile(`^\d+`)
)

// Inline syntax, matched against the single line containing the cursor. All
// spans are half-open [from, to) byte ranges within the line.
var (
	imageRe    = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]*)\)`)
	linkRe     = regexp.MustCompile(`\[([^\]^][^\]]*|)\]\(([^)]*)\)`)
	wikiLinkRe = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)
	mathRe     = regexp.MustCompile(`\$([^$\n]+)\$`)
	footnoteRe = regexp.MustCompile(`\[\^([^\]]+)\]`)
	codeSpanRe = regexp.MustCompile("`[^`\n]+`")
	boldRe     = regexp.MustCompile(`\*\*[^*\n]+\*\*|__[^_\n]+__`)
	strikeRe   = regexp.MustCompile(`~~[^~\n]+~~`)
	italicRe   = regexp.MustCompile(`\*[^*\n]+\*|_[^_\n]+_`)
)

// HeadingSpan describes the heading line containing a position.
type HeadingSpan struct {
	// Line is the line index.
	Line int
	// Level is the heading level 1..6.
	Level int
	// MarkerLen is the byte length of the "#... " prefix.
	MarkerLen int
}

// HeadingAt returns the heading containing offset.
func (d *Document) HeadingAt(offset int) (HeadingSpan, bool) {
	line := d.LineForOffset(offset)
	m := headingRe.FindStringSubmatch(d.LineText(line))
	if m == nil {
		return HeadingSpan{}, false
	}
	return HeadingSpan{Line: line, Level: len(m[1]), MarkerLen: len(m[0])}, true
}

// ListItem describes the list item line containing a position.
type ListItem struct {
	// Line is the line index.
	Line int
	// Indent is the leading whitespace before the marker.
	Indent string
	// Marker is the list marker ("-", "*", "+", "1.", "2)").
	Marker string
	// Type is the list kind.
	Type editctx.ListType
	// Ordinal is the number for ordered items.
	Ordinal int
	// Checked reports a checked task box.
	Checked bool
	// ContentCol is the byte column where item content starts.
	ContentCol int
}

// Depth returns the nesting depth starting at 1, two columns of indent per
// level.
func (li ListItem) Depth() int {
	width := 0
	for _, r := range li.Indent {
		if r == '\t' {
			width += 4
		} else {
			width++
		}
	}
	return width/2 + 1
}

// ListItemAt returns the list item containing offset.
func (d *Document) ListItemAt(offset int) (ListItem, bool) {
	line := d.LineForOffset(offset)
	text := d.LineText(line)
	m := listRe.FindStringSubmatch(text)
	if m == nil {
		return ListItem{}, false
	}

	li := ListItem{
		Line:       line,
		Indent:     m[1],
		Marker:     m[2],
		ContentCol: len(m[0]),
	}
	switch {
	case m[3] != "":
		li.Type = editctx.ListTask
		li.Checked = strings.ContainsAny(m[3], "xX")
	case m[2] == "-" || m[2] == "*" || m[2] == "+":
		li.Type = editctx.ListBullet
	default:
		li.Type = editctx.ListOrdered
		if n := orderedNumRe.FindString(m[2]); n != "" {
			li.Ordinal = atoiSafe(n)
		}
	}
	return li, true
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		if n > 1<<30 {
			return 1 << 30
		}
	}
	return n
}

// Quote describes the blockquote prefix of the line containing a position.
type Quote struct {
	// Line is the line index.
	Line int
	// Depth is the number of nested '>' markers.
	Depth int
	// PrefixLen is the byte length of the quote prefix.
	PrefixLen int
}

// QuoteAt returns the blockquote containing offset.
func (d *Document) QuoteAt(offset int) (Quote, bool) {
	line := d.LineForOffset(offset)
	m := quoteRe.FindStringSubmatch(d.LineText(line))
	if m == nil {
		return Quote{}, false
	}
	return Quote{
		Line:      line,
		Depth:     strings.Count(m[1], ">"),
		PrefixLen: len(m[1]),
	}, true
}

// CodeBlock describes the fenced code block containing a position.
type CodeBlock struct {
	// StartLine is the opening fence line.
	StartLine int
	// EndLine is the closing fence line, or -1 while unterminated.
	EndLine int
	// Language is the fence info string.
	Language string
}

// CodeBlockAt returns the fenced code block containing offset. The fence
// lines themselves count as inside the block.
func (d *Document) CodeBlockAt(offset int) (CodeBlock, bool) {
	target := d.LineForOffset(offset)

	open := -1
	var openFence, lang string
	for i := 0; i <= target; i++ {
		text := d.LineText(i)
		m := fenceRe.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if open < 0 {
			open = i
			openFence = m[1][:1]
			lang = m[2]
		} else if strings.HasPrefix(m[1], openFence) {
			if target <= i {
				return CodeBlock{StartLine: open, EndLine: i, Language: lang}, true
			}
			open = -1
		}
	}
	if open < 0 {
		return CodeBlock{}, false
	}

	// Fence still open at the cursor line; find its end for the descriptor.
	end := -1
	for i := target + 1; i < d.LineCount(); i++ {
		if m := fenceRe.FindStringSubmatch(d.LineText(i)); m != nil && strings.HasPrefix(m[1], openFence) {
			end = i
			break
		}
	}
	return CodeBlock{StartLine: open, EndLine: end, Language: lang}, true
}

// Table describes the table containing a position.
type Table struct {
	// StartLine is the header row line; EndLine is the last body row line.
	StartLine, EndLine int
	// SepLine is the alignment separator line.
	SepLine int
	// Cols is the column count taken from the header row.
	Cols int
	// Row is the zero-based data position of the cursor: 0 for the header,
	// 1 for the first body row.
	Row int
	// Col is the zero-based column index of the cursor.
	Col int
}

// isTableLine reports whether a line can belong to a pipe table.
func isTableLine(text string) bool {
	return strings.Contains(text, "|") && strings.TrimSpace(text) != ""
}

func splitCells(text string) []string {
	t := strings.TrimSpace(text)
	t = strings.TrimPrefix(t, "|")
	t = strings.TrimSuffix(t, "|")
	parts := strings.Split(t, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// TableAt returns the table containing offset. A table is a run of pipe
// lines whose second line is the alignment separator.
func (d *Document) TableAt(offset int) (Table, bool) {
	line := d.LineForOffset(offset)
	if !isTableLine(d.LineText(line)) {
		return Table{}, false
	}

	start := line
	for start > 0 && isTableLine(d.LineText(start-1)) {
		start--
	}
	end := line
	for end+1 < d.LineCount() && isTableLine(d.LineText(end+1)) {
		end++
	}
	if end < start+1 || !tableSepRe.MatchString(d.LineText(start+1)) {
		return Table{}, false
	}

	t := Table{
		StartLine: start,
		EndLine:   end,
		SepLine:   start + 1,
		Cols:      len(splitCells(d.LineText(start))),
	}

	switch {
	case line == start, line == t.SepLine:
		t.Row = 0
	default:
		t.Row = line - t.SepLine
	}

	// Column: count unescaped pipes before the cursor on its line.
	col := d.Column(offset)
	text := d.LineText(line)
	if col > len(text) {
		col = len(text)
	}
	prefix := text[:col]
	pipes := strings.Count(prefix, "|")
	if strings.HasPrefix(strings.TrimLeft(text, " \t"), "|") && pipes > 0 {
		pipes--
	}
	if pipes >= t.Cols {
		pipes = t.Cols - 1
	}
	t.Col = pipes
	return t, true
}

// Alignments returns the per-column alignment of the table ("left",
// "center", "right"); columns without markers default to "left".
func (d *Document) Alignments(t Table) []string {
	cells := splitCells(d.LineText(t.SepLine))
	out := make([]string, t.Cols)
	for i := range out {
		out[i] = "left"
		if i >= len(cells) {
			continue
		}
		c := cells[i]
		switch {
		case strings.HasPrefix(c, ":") && strings.HasSuffix(c, ":"):
			out[i] = "center"
		case strings.HasSuffix(c, ":"):
			out[i] = "right"
		}
	}
	return out
}

// LinkSpan describes a link on the cursor's line.
type LinkSpan struct {
	// From and To are the half-open byte span of the full syntax within the
	// line.
	From, To int
	// Text is the display text (alias for aliased wiki links).
	Text string
	// Href is the destination (the target page for wiki links).
	Href string
	// Wiki reports a [[wiki]] link.
	Wiki bool
}

// LinkAt returns the link whose syntax span contains the byte column col on
// the given line text. Images are not links.
func LinkAt(line string, col int) (LinkSpan, bool) {
	for _, m := range wikiLinkRe.FindAllStringSubmatchIndex(line, -1) {
		if col >= m[0] && col < m[1] {
			span := LinkSpan{From: m[0], To: m[1], Wiki: true, Href: line[m[2]:m[3]]}
			span.Text = span.Href
			if m[4] >= 0 {
				// Alias wins over target for display.
				span.Text = line[m[4]:m[5]]
			}
			return span, true
		}
	}
	for _, m := range linkRe.FindAllStringSubmatchIndex(line, -1) {
		if m[0] > 0 && line[m[0]-1] == '!' {
			continue // image, not a link
		}
		if col >= m[0] && col < m[1] {
			return LinkSpan{
				From: m[0], To: m[1],
				Text: line[m[2]:m[3]],
				Href: line[m[4]:m[5]],
			}, true
		}
	}
	return LinkSpan{}, false
}

// spanContains reports whether col falls in any [from, to) match span.
func spanContains(matches [][]int, col int) bool {
	for _, m := range matches {
		if col >= m[0] && col < m[1] {
			return true
		}
	}
	return false
}

// innerSpanContains reports whether col falls inside the text between the
// mark delimiters, half-open.
func innerSpanContains(matches [][]int, col, markerLen int) bool {
	for _, m := range matches {
		if col >= m[0]+markerLen && col < m[1]-markerLen+1 {
			return true
		}
	}
	return false
}

// mask replaces matched spans with spaces so narrower marks are not found
// inside wider ones (italic inside bold).
func mask(line string, matches [][]int) string {
	if len(matches) == 0 {
		return line
	}
	b := []byte(line)
	for _, m := range matches {
		for i := m[0]; i < m[1]; i++ {
			b[i] = ' '
		}
	}
	return string(b)
}

// MarksAt returns the inline marks active at byte column col of line.
func MarksAt(line string, col int) editctx.Marks {
	var marks editctx.Marks

	codeSpans := codeSpanRe.FindAllStringIndex(line, -1)
	marks.Code = innerSpanContains(codeSpans, col, 1)
	masked := mask(line, codeSpans)

	boldSpans := boldRe.FindAllStringIndex(masked, -1)
	marks.Bold = innerSpanContains(boldSpans, col, 2)

	strikeSpans := strikeRe.FindAllStringIndex(masked, -1)
	marks.Strikethrough = innerSpanContains(strikeSpans, col, 2)

	masked = mask(mask(masked, boldSpans), strikeSpans)
	italicSpans := italicRe.FindAllStringIndex(masked, -1)
	marks.Italic = innerSpanContains(italicSpans, col, 1)

	return marks
}

// ContextAt inspects the structure surrounding offset and returns the
// normalized context. It never mutates the document; repeated calls with an
// unchanged document and offset return equal contexts.
func (d *Document) ContextAt(offset int) editctx.Context {
	var ctx editctx.Context

	if cb, ok := d.CodeBlockAt(offset); ok {
		ctx.CodeBlock = &editctx.CodeInfo{Language: cb.Language}
		ctx.Mode = editctx.ModeInsert
		return ctx
	}

	line := d.LineForOffset(offset)
	text := d.LineText(line)
	col := d.Column(offset)

	if h, ok := d.HeadingAt(offset); ok {
		ctx.Heading = &editctx.HeadingInfo{Level: h.Level}
	}
	if li, ok := d.ListItemAt(offset); ok {
		ctx.List = &editctx.ListInfo{
			Type:    li.Type,
			Depth:   li.Depth(),
			Ordinal: li.Ordinal,
			Checked: li.Checked,
		}
	}
	if t, ok := d.TableAt(offset); ok {
		ctx.Table = &editctx.TableInfo{Row: t.Row, Col: t.Col, IsHeader: t.Row == 0}
	}
	if q, ok := d.QuoteAt(offset); ok {
		ctx.Blockquote = &editctx.QuoteInfo{Depth: q.Depth}
	}
	if l, ok := LinkAt(text, col); ok {
		ctx.Link = &editctx.LinkInfo{Href: l.Href}
	}
	ctx.InImage = spanContains(imageRe.FindAllStringIndex(text, -1), col)
	ctx.InInlineMath = innerSpanContains(mathRe.FindAllStringIndex(text, -1), col, 1)
	ctx.InFootnote = spanContains(footnoteRe.FindAllStringIndex(text, -1), col)
	ctx.Marks = MarksAt(text, col)

	if strings.TrimSpace(text) == "" {
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
