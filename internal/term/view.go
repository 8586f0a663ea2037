// Package term is the terminal host: it renders the active surface with
// tcell and feeds key events into the editor session. Rendering is plain
// markdown text either way; the surfaces differ in how commands interpret
// the document, not in how this host paints it.
package term

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/session"
)

// View drives one editor session on a tcell screen.
type View struct {
	screen tcell.Screen
	editor *session.Editor

	mu      sync.Mutex
	scroll  int
	status  string
	OnSave  func() error
	stopped bool
}

// NewView creates a view over an initialized screen.
func NewView(screen tcell.Screen, editor *session.Editor) *View {
	return &View{screen: screen, editor: editor}
}

// SetStatus replaces the status line message. Safe to call from
// collaborator callbacks.
func (v *View) SetStatus(msg string) {
	v.mu.Lock()
	v.status = msg
	v.mu.Unlock()
}

// Run repaints and processes events until quit. The screen must already be
// initialized; the caller owns Fini.
func (v *View) Run() error {
	for {
		v.draw()
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if quit := v.handleKey(ev); quit {
				return nil
			}
		}
		v.mu.Lock()
		stopped := v.stopped
		v.mu.Unlock()
		if stopped {
			return nil
		}
	}
}

// Stop makes Run return after the current event.
func (v *View) Stop() {
	v.mu.Lock()
	v.stopped = true
	v.mu.Unlock()
}

// handleKey maps one key event to an editor operation. It reports whether
// the host should quit.
func (v *View) handleKey(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyCtrlQ:
		return true
	case ev.Key() == tcell.KeyCtrlW:
		v.editor.Swap()
		v.SetStatus("mode: " + v.editor.Mode().String())
		return false
	case ev.Key() == tcell.KeyCtrlS:
		v.save()
		return false
	}

	if id, ok := lookupKey(ev); ok {
		act := action.New(id)
		act.Source = action.SourceKeyboard
		res := v.editor.Dispatch(act)
		if res.Message != "" {
			v.SetStatus(res.Message)
		} else if res.Err != nil {
			v.SetStatus(res.Err.Error())
		}
		return false
	}

	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Modifiers()&(^tcell.ModShift) == 0 {
			v.insertText(string(ev.Rune()))
		}
	case tcell.KeyEnter:
		v.insertText("\n")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		v.deleteBack()
	case tcell.KeyLeft:
		v.moveCursor(-1)
	case tcell.KeyRight:
		v.moveCursor(1)
	case tcell.KeyUp:
		v.moveLine(-1)
	case tcell.KeyDown:
		v.moveLine(1)
	}
	return false
}

func (v *View) save() {
	v.mu.Lock()
	fn := v.OnSave
	v.mu.Unlock()
	if fn == nil {
		return
	}
	if err := fn(); err != nil {
		v.SetStatus("save failed: " + err.Error())
		return
	}
	v.SetStatus("saved")
}

func (v *View) insertText(text string) {
	if v.editor.Mode() == session.ModeWysiwyg {
		if text == "\n" {
			return
		}
		v.editor.Wysiwyg().InsertText(text)
		return
	}
	d := v.editor.Source().Document()
	at := d.Primary().Head
	if _, err := d.Insert(at, text); err != nil {
		return
	}
	d.SetCursor(at + len(text))
}

func (v *View) deleteBack() {
	if v.editor.Mode() == session.ModeWysiwyg {
		return
	}
	d := v.editor.Source().Document()
	at := d.Primary().Head
	if at == 0 {
		return
	}
	if err := d.Delete(at-1, at); err != nil {
		return
	}
	d.SetCursor(at - 1)
}

func (v *View) moveCursor(delta int) {
	if v.editor.Mode() == session.ModeWysiwyg {
		d := v.editor.Wysiwyg().Document()
		off := d.OffsetForPosition(d.Primary().Head) + delta
		d.SetCursor(d.PositionForOffset(off))
		return
	}
	d := v.editor.Source().Document()
	d.SetCursor(d.Primary().Head + delta)
}

func (v *View) moveLine(delta int) {
	text := v.editor.Markdown()
	off := v.cursorOffset()
	line, col := locate(text, off)
	lines := strings.Split(text, "\n")
	line += delta
	if line < 0 {
		line = 0
	}
	if line >= len(lines) {
		line = len(lines) - 1
	}
	if col > len(lines[line]) {
		col = len(lines[line])
	}
	target := 0
	for i := 0; i < line; i++ {
		target += len(lines[i]) + 1
	}
	target += col

	if v.editor.Mode() == session.ModeWysiwyg {
		d := v.editor.Wysiwyg().Document()
		d.SetCursor(d.PositionForOffset(target))
		return
	}
	v.editor.Source().Document().SetCursor(target)
}

func (v *View) cursorOffset() int {
	if v.editor.Mode() == session.ModeWysiwyg {
		d := v.editor.Wysiwyg().Document()
		return d.OffsetForPosition(d.Primary().Head)
	}
	return v.editor.Source().Document().Primary().Head
}

// locate converts a byte offset to (line, column).
func locate(text string, off int) (int, int) {
	if off > len(text) {
		off = len(text)
	}
	line := strings.Count(text[:off], "\n")
	col := off
	if i := strings.LastIndexByte(text[:off], '\n'); i >= 0 {
		col = off - i - 1
	}
	return line, col
}

func (v *View) draw() {
	v.screen.Clear()
	width, height := v.screen.Size()
	if height < 2 {
		v.screen.Show()
		return
	}
	body := height - 1

	text := v.editor.Markdown()
	lines := strings.Split(text, "\n")
	curLine, curCol := locate(text, v.cursorOffset())

	v.mu.Lock()
	if curLine < v.scroll {
		v.scroll = curLine
	}
	if curLine >= v.scroll+body {
		v.scroll = curLine - body + 1
	}
	scroll := v.scroll
	status := v.status
	v.mu.Unlock()

	style := tcell.StyleDefault
	for y := 0; y < body; y++ {
		idx := scroll + y
		if idx >= len(lines) {
			break
		}
		drawString(v.screen, 0, y, width, lines[idx], style)
	}

	v.drawStatusLine(width, height-1, status)
	v.screen.ShowCursor(curCol, curLine-scroll)
	v.screen.Show()
}

// statusIndicators is the action set surfaced as toolbar indicators.
var statusIndicators = []struct {
	id    string
	label string
}{
	{action.Bold, "B"},
	{action.Italic, "I"},
	{action.Strikethrough, "S"},
	{action.InlineCode, "`"},
	{action.InsertBlockquote, ">"},
	{action.BulletList, "-"},
}

func (v *View) drawStatusLine(width, y int, status string) {
	ids := make([]string, len(statusIndicators))
	for i, ind := range statusIndicators {
		ids[i] = ind.id
	}
	states := v.editor.ButtonStates(ids)

	var sb strings.Builder
	sb.WriteString(" ")
	sb.WriteString(v.editor.Mode().String())
	sb.WriteString(" ")
	for _, ind := range statusIndicators {
		st := states[ind.id]
		switch {
		case st.Active:
			sb.WriteString("[" + ind.label + "]")
		case st.Disabled:
			sb.WriteString(" . ")
		default:
			sb.WriteString(" " + ind.label + " ")
		}
	}
	if status != "" {
		sb.WriteString(" | ")
		sb.WriteString(status)
	}

	bar := tcell.StyleDefault.Reverse(true)
	drawString(v.screen, 0, y, width, sb.String(), bar)
	for x := len(sb.String()); x < width; x++ {
		v.screen.SetContent(x, y, ' ', nil, bar)
	}
}

func drawString(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= width {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
