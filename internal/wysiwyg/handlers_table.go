package wysiwyg

import (
	"strconv"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/dispatch"
)

// tableAt returns the table block at the primary cursor.
func (s *Surface) tableAt() (*Block, Position, bool) {
	p := s.doc.Primary().Head
	b := s.doc.Block(p.Block)
	if b.Kind != BlockTable {
		return nil, Position{}, false
	}
	return b, p, true
}

// insertTable inserts a fresh table sized by the action args or the
// configured defaults. Inside a table this is a no-op.
func (s *Surface) insertTable(act action.Action) dispatch.Result {
	p := s.doc.Primary().Head
	cur := s.doc.Block(p.Block)
	if !convertible(cur) {
		return dispatch.NoOp()
	}

	rows, cols := act.Args.Rows, act.Args.Cols
	if rows <= 0 {
		rows = s.cfg.TableRows
	}
	if cols <= 0 {
		cols = s.cfg.TableCols
	}

	t := &Table{Aligns: make([]string, cols)}
	header := make([]Cell, cols)
	for i := range header {
		t.Aligns[i] = "left"
		header[i] = Cell{Runs: []Run{{Kind: RunText, Text: "Col " + strconv.Itoa(i+1)}}}
	}
	t.Rows = append(t.Rows, header)
	for r := 0; r < rows-1; r++ {
		t.Rows = append(t.Rows, make([]Cell, cols))
	}

	at := p.Block
	if cur.Kind == BlockParagraph && runsWidth(cur.Runs) == 0 {
		cur.Kind = BlockTable
		cur.Table = t
		cur.Runs = nil
	} else {
		at = p.Block + 1
		s.doc.insertBlocks(at, &Block{Kind: BlockTable, QuoteDepth: cur.QuoteDepth, Table: t})
	}
	s.doc.SetCursor(CellPos(at, 0, 0, 0))
	return dispatch.OK()
}

// tableRowAction builds the row-insertion handler; delta 0 inserts above
// the cursor row, delta 1 below. Rows never displace the header.
func (s *Surface) tableRowAction(delta int) dispatch.HandlerFunc {
	return func(act action.Action) dispatch.Result {
		b, p, ok := s.tableAt()
		if !ok {
			return dispatch.NoOp()
		}

		at := p.Row + delta
		if at < 1 {
			// Above the header means a new first body row.
			at = 1
		}
		if at > len(b.Table.Rows) {
			at = len(b.Table.Rows)
		}

		row := make([]Cell, b.Table.Cols())
		b.Table.Rows = append(b.Table.Rows[:at], append([][]Cell{row}, b.Table.Rows[at:]...)...)
		s.doc.SetCursor(CellPos(p.Block, at, 0, 0))
		return dispatch.OK()
	}
}

// tableColAction builds the column-insertion handler; delta 0 inserts
// before the cursor column, delta 1 after.
func (s *Surface) tableColAction(delta int) dispatch.HandlerFunc {
	return func(act action.Action) dispatch.Result {
		b, p, ok := s.tableAt()
		if !ok {
			return dispatch.NoOp()
		}

		at := p.Col + delta
		for r := range b.Table.Rows {
			row := b.Table.Rows[r]
			b.Table.Rows[r] = append(row[:at], append([]Cell{{}}, row[at:]...)...)
		}
		b.Table.Aligns = append(b.Table.Aligns[:at], append([]string{"left"}, b.Table.Aligns[at:]...)...)
		s.doc.SetCursor(CellPos(p.Block, p.Row, at, 0))
		return dispatch.OK()
	}
}

// tableDeleteRow removes the cursor's body row; the header cannot be
// deleted row-wise.
func (s *Surface) tableDeleteRow(act action.Action) dispatch.Result {
	b, p, ok := s.tableAt()
	if !ok {
		return dispatch.NoOp()
	}
	if p.Row == 0 {
		return dispatch.NoOpReason("cannot delete the header row")
	}

	b.Table.Rows = append(b.Table.Rows[:p.Row], b.Table.Rows[p.Row+1:]...)
	row := p.Row
	if row >= len(b.Table.Rows) {
		row = len(b.Table.Rows) - 1
	}
	s.doc.SetCursor(CellPos(p.Block, row, p.Col, 0))
	return dispatch.OK()
}

// tableDeleteCol removes the cursor's column; the last one stays.
func (s *Surface) tableDeleteCol(act action.Action) dispatch.Result {
	b, p, ok := s.tableAt()
	if !ok {
		return dispatch.NoOp()
	}
	if b.Table.Cols() <= 1 {
		return dispatch.NoOpReason("cannot delete the last column")
	}

	for r := range b.Table.Rows {
		row := b.Table.Rows[r]
		b.Table.Rows[r] = append(row[:p.Col], row[p.Col+1:]...)
	}
	b.Table.Aligns = append(b.Table.Aligns[:p.Col], b.Table.Aligns[p.Col+1:]...)
	col := p.Col
	if col >= b.Table.Cols() {
		col = b.Table.Cols() - 1
	}
	s.doc.SetCursor(CellPos(p.Block, p.Row, col, 0))
	return dispatch.OK()
}

// tableAlign handles the "tableAlign:X" family, setting the cursor
// column's alignment.
func (s *Surface) tableAlign(act action.Action) dispatch.Result {
	align, ok := action.TableAlignment(act.ID)
	if !ok {
		return dispatch.NoOp()
	}
	b, p, tok := s.tableAt()
	if !tok {
		return dispatch.NoOp()
	}

	for len(b.Table.Aligns) < b.Table.Cols() {
		b.Table.Aligns = append(b.Table.Aligns, "left")
	}
	b.Table.Aligns[p.Col] = align
	return dispatch.OK()
}
