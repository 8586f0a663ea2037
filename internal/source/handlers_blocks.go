package source

import (
	"strings"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/dispatch"
)

// selectedLines returns the unique line indexes covered by the selection
// set, ascending. A selection ending exactly at a line start does not cover
// that line (half-open ranges).
func (s *Surface) selectedLines() []int {
	seen := make(map[int]bool)
	var lines []int
	for _, sel := range s.doc.Selections() {
		first := s.doc.LineForOffset(sel.Start())
		last := s.doc.LineForOffset(sel.End())
		if !sel.IsEmpty() && sel.End() == s.doc.LineStart(last) && last > first {
			last--
		}
		for l := first; l <= last; l++ {
			if !seen[l] {
				seen[l] = true
				lines = append(lines, l)
			}
		}
	}
	return lines
}

// inBlockContext reports whether block-level rewrites may run at the current
// primary cursor (outside code blocks and tables).
func (s *Surface) inBlockContext() bool {
	ctx := s.doc.ContextAt(s.doc.Primary().Head)
	return ctx.CodeBlock == nil && ctx.Table == nil
}

// rewriteLines replaces whole lines, descending, and repositions the cursor
// on the primary line preserving the content column as the prefix length
// changes.
func (s *Surface) rewriteLines(lines []int, rewrite func(line int, text string) (string, bool)) dispatch.Result {
	var edits []Edit
	changed := false
	primaryLine := s.doc.LineForOffset(s.doc.Primary().Head)
	primaryCol := s.doc.Primary().Head - s.doc.LineStart(primaryLine)
	cursorCol := primaryCol

	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		old := s.doc.LineText(line)
		text, ok := rewrite(line, old)
		if !ok || text == old {
			continue
		}
		changed = true
		edits = append(edits, Edit{From: s.doc.LineStart(line), To: s.doc.LineEnd(line), Text: text})
		if line == primaryLine {
			cursorCol = primaryCol + len(text) - len(old)
			if cursorCol < 0 {
				cursorCol = 0
			}
			if cursorCol > len(text) {
				cursorCol = len(text)
			}
		}
	}

	if !changed {
		return dispatch.NoOp()
	}
	if err := s.doc.ApplyEdits(edits); err != nil {
		return dispatch.Error(err)
	}
	s.doc.SetCursor(s.doc.LineStart(primaryLine) + cursorCol)
	return dispatch.OK()
}

// stripHeadingPrefix removes any heading marker from a line.
func stripHeadingPrefix(text string) string {
	if m := headingRe.FindStringSubmatch(text); m != nil {
		return text[len(m[0]):]
	}
	return text
}

// setHeading handles the "heading:N" family: the line converts in place,
// replacing any existing heading marker.
func (s *Surface) setHeading(act action.Action) dispatch.Result {
	level, ok := action.HeadingLevel(act.ID)
	if !ok || !s.inBlockContext() {
		return dispatch.NoOp()
	}
	marker := strings.Repeat("#", level) + " "
	return s.rewriteLines(s.selectedLines(), func(_ int, text string) (string, bool) {
		return marker + stripHeadingPrefix(text), true
	})
}

// headingIncrease moves the line one heading level down the scale
// (paragraph becomes level 1). At level 6 it is a clamped no-op.
func (s *Surface) headingIncrease(act action.Action) dispatch.Result {
	if !s.inBlockContext() {
		return dispatch.NoOp()
	}
	return s.rewriteLines(s.selectedLines(), func(_ int, text string) (string, bool) {
		m := headingRe.FindStringSubmatch(text)
		if m == nil {
			return "# " + text, true
		}
		if len(m[1]) >= 6 {
			return text, false
		}
		return "#" + text, true
	})
}

// headingDecrease raises the line one heading level; level 1 converts to a
// plain paragraph.
func (s *Surface) headingDecrease(act action.Action) dispatch.Result {
	if !s.inBlockContext() {
		return dispatch.NoOp()
	}
	return s.rewriteLines(s.selectedLines(), func(_ int, text string) (string, bool) {
		m := headingRe.FindStringSubmatch(text)
		if m == nil {
			return text, false
		}
		if len(m[1]) == 1 {
			return text[len(m[0]):], true
		}
		return text[1:], true
	})
}

// toParagraph strips heading markers from the selected lines.
func (s *Surface) toParagraph(act action.Action) dispatch.Result {
	if !s.inBlockContext() {
		return dispatch.NoOp()
	}
	return s.rewriteLines(s.selectedLines(), func(_ int, text string) (string, bool) {
		stripped := stripHeadingPrefix(text)
		return stripped, stripped != text
	})
}

// toggleBlockquote adds one quote level, or removes one when the line is
// already quoted. Applying it twice restores the original text exactly.
func (s *Surface) toggleBlockquote(act action.Action) dispatch.Result {
	if !s.inBlockContext() {
		return dispatch.NoOp()
	}
	return s.rewriteLines(s.selectedLines(), func(_ int, text string) (string, bool) {
		if m := quoteRe.FindStringSubmatch(text); m != nil {
			return stripOneQuoteLevel(text, m[1]), true
		}
		return "> " + text, true
	})
}

// stripOneQuoteLevel removes the innermost quote marker from a prefix.
func stripOneQuoteLevel(text, prefix string) string {
	// The removed marker takes its trailing space with it.
	i := strings.LastIndex(prefix, ">")
	return prefix[:i] + text[len(prefix):]
}

// nestQuote adds a quote level regardless of current nesting.
func (s *Surface) nestQuote(act action.Action) dispatch.Result {
	if !s.inBlockContext() {
		return dispatch.NoOp()
	}
	return s.rewriteLines(s.selectedLines(), func(_ int, text string) (string, bool) {
		return "> " + text, true
	})
}

// unnestQuote removes one quote level; unquoted lines report no effect.
func (s *Surface) unnestQuote(act action.Action) dispatch.Result {
	if !s.inBlockContext() {
		return dispatch.NoOp()
	}
	return s.rewriteLines(s.selectedLines(), func(_ int, text string) (string, bool) {
		m := quoteRe.FindStringSubmatch(text)
		if m == nil {
			return text, false
		}
		return stripOneQuoteLevel(text, m[1]), true
	})
}

// insertCodeBlock fences the selected lines (or the current line) with the
// requested language and leaves the cursor inside the block.
func (s *Surface) insertCodeBlock(act action.Action) dispatch.Result {
	if !s.inBlockContext() {
		return dispatch.NoOp()
	}

	sel := s.doc.Primary()
	first := s.doc.LineForOffset(sel.Start())
	last := s.doc.LineForOffset(sel.End())
	from := s.doc.LineStart(first)
	to := s.doc.LineEnd(last)

	body := s.doc.TextRange(from, to)
	fenced := "```" + act.Args.Language + "\n" + body + "\n```"
	if _, err := s.doc.Replace(from, to, fenced); err != nil {
		return dispatch.Error(err)
	}
	s.doc.SetCursor(from + len("```"+act.Args.Language+"\n"))
	return dispatch.OK()
}

// horizontalRule inserts a thematic break after the current line, or on the
// current line when it is blank.
func (s *Surface) horizontalRule(act action.Action) dispatch.Result {
	if !s.inBlockContext() {
		return dispatch.NoOp()
	}

	line := s.doc.LineForOffset(s.doc.Primary().Head)
	if strings.TrimSpace(s.doc.LineText(line)) == "" {
		end, err := s.doc.Replace(s.doc.LineStart(line), s.doc.LineEnd(line), "---")
		if err != nil {
			return dispatch.Error(err)
		}
		s.doc.SetCursor(end)
		return dispatch.OK()
	}

	end, err := s.doc.Insert(s.doc.LineEnd(line), "\n\n---\n")
	if err != nil {
		return dispatch.Error(err)
	}
	s.doc.SetCursor(end)
	return dispatch.OK()
}

// duplicateLine copies each selected line below itself.
func (s *Surface) duplicateLine(act action.Action) dispatch.Result {
	lines := s.selectedLines()
	var edits []Edit
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		end := s.doc.LineEnd(line)
		edits = append(edits, Edit{From: end, To: end, Text: "\n" + s.doc.LineText(line)})
	}
	cursor := s.doc.Primary().Head
	if err := s.doc.ApplyEdits(edits); err != nil {
		return dispatch.Error(err)
	}
	s.doc.SetCursor(cursor)
	return dispatch.OK()
}

// deleteLine removes each selected line entirely. Contiguous selected
// lines collapse into one splice so adjacent per-line deletions never
// produce touching edits.
func (s *Surface) deleteLine(act action.Action) dispatch.Result {
	lines := s.selectedLines()
	var edits []Edit
	for i := len(lines) - 1; i >= 0; {
		last := lines[i]
		j := i
		for j > 0 && lines[j-1] == lines[j]-1 {
			j--
		}
		first := lines[j]
		from := s.doc.LineStart(first)
		to := s.doc.LineEnd(last)
		if last+1 < s.doc.LineCount() {
			to++ // take the trailing newline with the run
		} else if first > 0 {
			from-- // run ends at the last line: take the preceding newline
		}
		edits = append(edits, Edit{From: from, To: to, Text: ""})
		i = j - 1
	}

	target := lines[0]
	if err := s.doc.ApplyEdits(edits); err != nil {
		return dispatch.Error(err)
	}
	if target >= s.doc.LineCount() {
		target = s.doc.LineCount() - 1
	}
	s.doc.SetCursor(s.doc.LineStart(target))
	return dispatch.OK()
}
