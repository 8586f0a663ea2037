package source

import (
	"strconv"
	"strings"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/dispatch"
)

// buildRow renders cells as one pipe-table row.
func buildRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

func emptyCells(n int) []string {
	return make([]string, n)
}

func sepCell(align string) string {
	switch align {
	case "center":
		return ":---:"
	case "right":
		return "---:"
	default:
		return "---"
	}
}

// cellStartOffset returns the byte offset of the content start of cell col
// on a table line.
func (s *Surface) cellStartOffset(line, col int) int {
	text := s.doc.LineText(line)
	start := s.doc.LineStart(line)
	pipes := 0
	wantPipes := col + 1
	for i := 0; i < len(text); i++ {
		if text[i] != '|' {
			continue
		}
		pipes++
		if pipes == wantPipes {
			j := i + 1
			if j < len(text) && text[j] == ' ' {
				j++
			}
			return start + j
		}
	}
	return start + len(text)
}

// insertTable inserts a fresh table sized by the action args or the
// configured defaults. Nested tables are not a thing; inside a table this is
// a no-op.
func (s *Surface) insertTable(act action.Action) dispatch.Result {
	if !s.inBlockContext() {
		return dispatch.NoOp()
	}

	rows, cols := act.Args.Rows, act.Args.Cols
	if rows <= 0 {
		rows = s.cfg.TableRows
	}
	if cols <= 0 {
		cols = s.cfg.TableCols
	}

	header := make([]string, cols)
	seps := make([]string, cols)
	for i := range header {
		header[i] = "Col " + strconv.Itoa(i+1)
		seps[i] = sepCell("left")
	}

	var b strings.Builder
	b.WriteString(buildRow(header))
	b.WriteString("\n")
	b.WriteString(buildRow(seps))
	for r := 0; r < rows-1; r++ {
		b.WriteString("\n")
		b.WriteString(buildRow(emptyCells(cols)))
	}

	line := s.doc.LineForOffset(s.doc.Primary().Head)
	var tableLine int
	if strings.TrimSpace(s.doc.LineText(line)) == "" {
		if _, err := s.doc.Replace(s.doc.LineStart(line), s.doc.LineEnd(line), b.String()); err != nil {
			return dispatch.Error(err)
		}
		tableLine = line
	} else {
		if _, err := s.doc.Insert(s.doc.LineEnd(line), "\n\n"+b.String()); err != nil {
			return dispatch.Error(err)
		}
		tableLine = line + 2
	}

	s.doc.SetCursor(s.cellStartOffset(tableLine, 0))
	return dispatch.OK()
}

// tableRowAction builds the row-insertion handler; delta 0 inserts above
// the cursor row, delta 1 below. Rows never land between the header and its
// separator.
func (s *Surface) tableRowAction(delta int) dispatch.HandlerFunc {
	return func(act action.Action) dispatch.Result {
		t, ok := s.doc.TableAt(s.doc.Primary().Head)
		if !ok {
			return dispatch.NoOp()
		}

		cursorLine := s.doc.LineForOffset(s.doc.Primary().Head)
		var at int // line index the new row is inserted before
		if cursorLine <= t.SepLine {
			if delta == 0 {
				at = t.StartLine
			} else {
				at = t.SepLine + 1
			}
		} else {
			at = cursorLine + delta
		}

		row := buildRow(emptyCells(t.Cols))
		var err error
		if at > t.EndLine {
			_, err = s.doc.Insert(s.doc.LineEnd(t.EndLine), "\n"+row)
		} else {
			_, err = s.doc.Insert(s.doc.LineStart(at), row+"\n")
		}
		if err != nil {
			return dispatch.Error(err)
		}
		s.doc.SetCursor(s.cellStartOffset(at, 0))
		return dispatch.OK()
	}
}

// tableColAction builds the column-insertion handler; delta 0 inserts
// before the cursor column, delta 1 after.
func (s *Surface) tableColAction(delta int) dispatch.HandlerFunc {
	return func(act action.Action) dispatch.Result {
		t, ok := s.doc.TableAt(s.doc.Primary().Head)
		if !ok {
			return dispatch.NoOp()
		}

		at := t.Col + delta
		var edits []Edit
		for line := t.EndLine; line >= t.StartLine; line-- {
			cells := splitCells(s.doc.LineText(line))
			for len(cells) < t.Cols {
				cells = append(cells, "")
			}
			filler := ""
			if line == t.SepLine {
				filler = sepCell("left")
			}
			cells = append(cells[:at], append([]string{filler}, cells[at:]...)...)
			edits = append(edits, Edit{
				From: s.doc.LineStart(line),
				To:   s.doc.LineEnd(line),
				Text: buildRow(cells),
			})
		}

		cursorLine := s.doc.LineForOffset(s.doc.Primary().Head)
		if err := s.doc.ApplyEdits(edits); err != nil {
			return dispatch.Error(err)
		}
		s.doc.SetCursor(s.cellStartOffset(cursorLine, at))
		return dispatch.OK()
	}
}

// tableDeleteRow removes the cursor's body row. The header and its
// separator cannot be deleted row-wise.
func (s *Surface) tableDeleteRow(act action.Action) dispatch.Result {
	t, ok := s.doc.TableAt(s.doc.Primary().Head)
	if !ok {
		return dispatch.NoOp()
	}
	line := s.doc.LineForOffset(s.doc.Primary().Head)
	if line <= t.SepLine {
		return dispatch.NoOpReason("cannot delete the header row")
	}

	from := s.doc.LineStart(line)
	to := s.doc.LineEnd(line)
	if line < s.doc.LineCount()-1 {
		to++
	} else {
		from--
	}
	if err := s.doc.Delete(from, to); err != nil {
		return dispatch.Error(err)
	}
	if line > t.EndLine-1 {
		line = t.EndLine - 1
	}
	s.doc.SetCursor(s.cellStartOffset(line, t.Col))
	return dispatch.OK()
}

// tableDeleteCol removes the cursor's column from every row. The last
// remaining column stays.
func (s *Surface) tableDeleteCol(act action.Action) dispatch.Result {
	t, ok := s.doc.TableAt(s.doc.Primary().Head)
	if !ok {
		return dispatch.NoOp()
	}
	if t.Cols <= 1 {
		return dispatch.NoOpReason("cannot delete the last column")
	}

	var edits []Edit
	for line := t.EndLine; line >= t.StartLine; line-- {
		cells := splitCells(s.doc.LineText(line))
		if t.Col >= len(cells) {
			continue
		}
		cells = append(cells[:t.Col], cells[t.Col+1:]...)
		edits = append(edits, Edit{
			From: s.doc.LineStart(line),
			To:   s.doc.LineEnd(line),
			Text: buildRow(cells),
		})
	}

	cursorLine := s.doc.LineForOffset(s.doc.Primary().Head)
	col := t.Col
	if col >= t.Cols-1 {
		col = t.Cols - 2
	}
	if err := s.doc.ApplyEdits(edits); err != nil {
		return dispatch.Error(err)
	}
	s.doc.SetCursor(s.cellStartOffset(cursorLine, col))
	return dispatch.OK()
}

// tableAlign handles the "tableAlign:X" family, rewriting the separator
// cell of the cursor's column.
func (s *Surface) tableAlign(act action.Action) dispatch.Result {
	align, ok := action.TableAlignment(act.ID)
	if !ok {
		return dispatch.NoOp()
	}
	t, tok := s.doc.TableAt(s.doc.Primary().Head)
	if !tok {
		return dispatch.NoOp()
	}

	cells := splitCells(s.doc.LineText(t.SepLine))
	for len(cells) < t.Cols {
		cells = append(cells, sepCell("left"))
	}
	cells[t.Col] = sepCell(align)

	cursor := s.doc.Primary().Head
	if _, err := s.doc.Replace(s.doc.LineStart(t.SepLine), s.doc.LineEnd(t.SepLine), buildRow(cells)); err != nil {
		return dispatch.Error(err)
	}
	s.doc.SetCursor(cursor)
	return dispatch.OK()
}
