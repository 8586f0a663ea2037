package wysiwyg

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/inkwell-md/inkwell/internal/editctx"
)

// Block syntax, matched line by line after quote markers are stripped. The
// patterns agree with the source surface's detectors so a document means the
// same thing on both surfaces.
var (
	headingRe  = regexp.MustCompile(`^(#{1,6})[ \t]`)
	listRe     = regexp.MustCompile(`^([ \t]*)([-*+]|\d+[.)])[ \t]+(\[[ xX]\][ \t]+)?`)
	quoteRe    = regexp.MustCompile(`^((?:[ \t]{0,3}>[ \t]?)+)`)
	fenceRe    = regexp.MustCompile("^(```+|~~~+)[ \t]*([^`\\s]*)")
	tableSepRe = regexp.MustCompile(`^[ \t]*\|?[ \t]*:?-+:?[ \t]*(\|[ \t]*:?-+:?[ \t]*)*\|?[ \t]*$`)
	ruleRe     = regexp.MustCompile(`^ {0,3}(-{3,}|\*{3,}|_{3,})[ \t]*$`)
)

// Inline syntax.
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

// Parse builds a block tree from markdown text. Parsing is line oriented:
// every source line becomes one block (code blocks and tables consume their
// full extent), so Parse and Markdown round-trip.
func Parse(text string) *Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")

	var blocks []*Block
	for i := 0; i < len(lines); {
		depth, rest := stripQuote(lines[i])

		if m := fenceRe.FindStringSubmatch(rest); m != nil {
			block, next := parseCodeBlock(lines, i, depth, m[2])
			blocks = append(blocks, block)
			i = next
			continue
		}
		if strings.Contains(rest, "|") && i+1 < len(lines) {
			_, sepRest := stripQuote(lines[i+1])
			if strings.Contains(sepRest, "|") && tableSepRe.MatchString(sepRest) {
				block, next := parseTable(lines, i, depth)
				blocks = append(blocks, block)
				i = next
				continue
			}
		}
		blocks = append(blocks, parseLine(rest, depth))
		i++
	}
	return NewDocument(blocks)
}

// stripQuote removes the blockquote prefix from a line and returns the quote
// depth and the remainder.
func stripQuote(line string) (int, string) {
	m := quoteRe.FindString(line)
	if m == "" {
		return 0, line
	}
	return strings.Count(m, ">"), line[len(m):]
}

func parseLine(rest string, depth int) *Block {
	if ruleRe.MatchString(rest) {
		return &Block{Kind: BlockRule, QuoteDepth: depth}
	}
	if m := headingRe.FindStringSubmatch(rest); m != nil {
		return &Block{
			Kind:       BlockHeading,
			QuoteDepth: depth,
			Level:      len(m[1]),
			Runs:       parseInline(rest[len(m[0]):]),
		}
	}
	if m := listRe.FindStringSubmatch(rest); m != nil {
		b := &Block{
			Kind:       BlockListItem,
			QuoteDepth: depth,
			ListDepth:  indentDepth(m[1]),
			Runs:       parseInline(rest[len(m[0]):]),
		}
		switch {
		case m[3] != "":
			b.ListType = editctx.ListTask
			b.Checked = strings.ContainsAny(m[3], "xX")
		case m[2] == "-" || m[2] == "*" || m[2] == "+":
			b.ListType = editctx.ListBullet
		default:
			b.ListType = editctx.ListOrdered
			b.Ordinal, _ = strconv.Atoi(strings.TrimRight(m[2], ".)"))
		}
		return b
	}
	return &Block{Kind: BlockParagraph, QuoteDepth: depth, Runs: parseInline(rest)}
}

// indentDepth maps leading whitespace to a nesting depth, two spaces (or one
// tab counted as four) per level, starting at 1.
func indentDepth(indent string) int {
	w := 0
	for _, r := range indent {
		if r == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w/2 + 1
}

func parseCodeBlock(lines []string, start, depth int, lang string) (*Block, int) {
	var body []string
	i := start + 1
	for ; i < len(lines); i++ {
		_, rest := stripQuote(lines[i])
		if m := fenceRe.FindStringSubmatch(rest); m != nil && m[2] == "" {
			i++
			break
		}
		body = append(body, rest)
	}
	return &Block{
		Kind:       BlockCode,
		QuoteDepth: depth,
		Language:   lang,
		Code:       strings.Join(body, "\n"),
	}, i
}

func parseTable(lines []string, start, depth int) (*Block, int) {
	_, headerRest := stripQuote(lines[start])
	_, sepRest := stripQuote(lines[start+1])

	header := splitCells(headerRest)
	aligns := make([]string, len(header))
	for i, cell := range splitCells(sepRest) {
		if i >= len(aligns) {
			break
		}
		cell = strings.TrimSpace(cell)
		switch {
		case strings.HasPrefix(cell, ":") && strings.HasSuffix(cell, ":"):
			aligns[i] = "center"
		case strings.HasSuffix(cell, ":"):
			aligns[i] = "right"
		default:
			aligns[i] = "left"
		}
	}

	t := &Table{Aligns: aligns}
	t.Rows = append(t.Rows, cellsToRow(header, len(header)))

	i := start + 2
	for ; i < len(lines); i++ {
		_, rest := stripQuote(lines[i])
		if !strings.Contains(rest, "|") || strings.TrimSpace(rest) == "" {
			break
		}
		t.Rows = append(t.Rows, cellsToRow(splitCells(rest), len(header)))
	}

	return &Block{Kind: BlockTable, QuoteDepth: depth, Table: t}, i
}

func splitCells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func cellsToRow(cells []string, cols int) []Cell {
	row := make([]Cell, cols)
	for i := 0; i < cols; i++ {
		if i < len(cells) {
			row[i] = Cell{Runs: parseInline(cells[i])}
		}
	}
	return row
}

// inlineToken is one protected inline construct found during tokenization.
type inlineToken struct {
	from, to int
	run      Run
}

// tokenFinders locate protected constructs, highest precedence first: code
// spans shield their content, images beat links on the shared bracket, wiki
// links beat plain links on the shared opening bracket.
var tokenFinders = []func(string) ([]int, Run){
	func(s string) ([]int, Run) {
		m := codeSpanRe.FindStringIndex(s)
		if m == nil {
			return nil, Run{}
		}
		return m, Run{Kind: RunText, Text: s[m[0]+1 : m[1]-1], Marks: editctx.Marks{Code: true}}
	},
	func(s string) ([]int, Run) {
		m := imageRe.FindStringSubmatchIndex(s)
		if m == nil {
			return nil, Run{}
		}
		return m[0:2], Run{Kind: RunImage, Text: s[m[2]:m[3]], Src: s[m[4]:m[5]]}
	},
	func(s string) ([]int, Run) {
		m := wikiLinkRe.FindStringSubmatchIndex(s)
		if m == nil {
			return nil, Run{}
		}
		target := s[m[2]:m[3]]
		text := target
		if m[4] >= 0 {
			text = s[m[4]:m[5]]
		}
		return m[0:2], Run{Kind: RunText, Text: text, Link: &LinkAttrs{Href: target, Wiki: true}}
	},
	func(s string) ([]int, Run) {
		m := footnoteRe.FindStringSubmatchIndex(s)
		if m == nil {
			return nil, Run{}
		}
		return m[0:2], Run{Kind: RunFootnote, Text: s[m[2]:m[3]]}
	},
	func(s string) ([]int, Run) {
		m := linkRe.FindStringSubmatchIndex(s)
		if m == nil {
			return nil, Run{}
		}
		return m[0:2], Run{Kind: RunText, Text: s[m[2]:m[3]], Link: &LinkAttrs{Href: s[m[4]:m[5]]}}
	},
	func(s string) ([]int, Run) {
		m := mathRe.FindStringSubmatchIndex(s)
		if m == nil {
			return nil, Run{}
		}
		return m[0:2], Run{Kind: RunMath, Text: s[m[2]:m[3]]}
	},
}

// nextToken finds the earliest protected construct in text, preferring the
// finder order on ties.
func nextToken(text string) (inlineToken, bool) {
	best := inlineToken{from: -1}
	for _, find := range tokenFinders {
		span, run := find(text)
		if span == nil {
			continue
		}
		if best.from < 0 || span[0] < best.from {
			best = inlineToken{from: span[0], to: span[1], run: run}
		}
	}
	return best, best.from >= 0
}

// parseInline tokenizes one line of inline markdown into flat runs.
func parseInline(text string) []Run {
	var runs []Run
	for text != "" {
		tok, ok := nextToken(text)
		if !ok {
			runs = append(runs, parseMarked(text, editctx.Marks{})...)
			break
		}
		if tok.from > 0 {
			runs = append(runs, parseMarked(text[:tok.from], editctx.Marks{})...)
		}
		runs = append(runs, tok.run)
		text = text[tok.to:]
	}
	return mergeRuns(runs)
}

// parseMarked splits plain text into runs by emphasis markers, outermost
// first, accumulating marks on the way down.
func parseMarked(text string, base editctx.Marks) []Run {
	type markMatch struct {
		span   []int
		marker int
		apply  func(*editctx.Marks)
	}

	var best *markMatch
	consider := func(span []int, marker int, apply func(*editctx.Marks)) {
		if span == nil {
			return
		}
		if best == nil || span[0] < best.span[0] {
			best = &markMatch{span: span, marker: marker, apply: apply}
		}
	}
	consider(boldRe.FindStringIndex(text), 2, func(m *editctx.Marks) { m.Bold = true })
	consider(strikeRe.FindStringIndex(text), 2, func(m *editctx.Marks) { m.Strikethrough = true })
	consider(italicRe.FindStringIndex(text), 1, func(m *editctx.Marks) { m.Italic = true })

	if best == nil {
		if text == "" {
			return nil
		}
		return []Run{{Kind: RunText, Text: text, Marks: base}}
	}

	var runs []Run
	if best.span[0] > 0 {
		runs = append(runs, Run{Kind: RunText, Text: text[:best.span[0]], Marks: base})
	}
	inner := base
	best.apply(&inner)
	runs = append(runs, parseMarked(text[best.span[0]+best.marker:best.span[1]-best.marker], inner)...)
	runs = append(runs, parseMarked(text[best.span[1]:], base)...)
	return runs
}
