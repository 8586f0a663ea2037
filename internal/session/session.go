// Package session owns an editor window: the document, whichever surface is
// currently presenting it, and the swap between surfaces. The two surfaces
// hold incompatible cursor models, so a swap serializes the document,
// encodes the cursor through cursorinfo, rebuilds the other surface, and
// re-finds the cursor there.
package session

import (
	"strings"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/config"
	"github.com/inkwell-md/inkwell/internal/cursorinfo"
	"github.com/inkwell-md/inkwell/internal/dispatch"
	"github.com/inkwell-md/inkwell/internal/editctx"
	"github.com/inkwell-md/inkwell/internal/rules"
	"github.com/inkwell-md/inkwell/internal/source"
	"github.com/inkwell-md/inkwell/internal/wysiwyg"
)

// Mode names the active surface.
type Mode uint8

const (
	// ModeSource presents raw markdown text.
	ModeSource Mode = iota
	// ModeWysiwyg presents the rendered block tree.
	ModeWysiwyg
)

func (m Mode) String() string {
	if m == ModeWysiwyg {
		return "wysiwyg"
	}
	return "source"
}

// Editor is one window's editing session. It always has exactly one live
// surface; the inactive surface does not exist between swaps.
type Editor struct {
	cfg     config.Settings
	co      source.Collaborators
	store   *config.Store
	scripts source.ScriptRunner

	mode Mode
	src  *source.Surface
	wys  *wysiwyg.Surface

	// pending is the cursor descriptor produced by the departing surface.
	// It is consumed by the arriving surface and invalidated by any edit in
	// between.
	pending *cursorinfo.Info

	crlf bool
}

// New opens an editing session on markdown text, starting on the source
// surface.
func New(text string, cfg config.Settings, co source.Collaborators) *Editor {
	co.FillDefaults(cfg)
	e := &Editor{
		cfg:  cfg,
		co:   co,
		crlf: strings.Contains(text, "\r\n"),
	}
	e.src = source.NewSurface(source.NewDocument(text), cfg, co)
	return e
}

// UseStore attaches a per-document state store. Persist writes to it and
// New sessions may restore the last cursor from it.
func (e *Editor) UseStore(s *config.Store) {
	e.store = s
}

// UseScripts registers a script runner's actions on the active surface and
// on every surface built by later swaps.
func (e *Editor) UseScripts(r source.ScriptRunner) {
	e.scripts = r
	if e.src != nil {
		e.src.RegisterScripts(r)
	}
	if e.wys != nil {
		e.wys.RegisterScripts(r)
	}
}

// Mode returns the active surface mode.
func (e *Editor) Mode() Mode {
	return e.mode
}

// Source returns the source surface, or nil while the WYSIWYG surface is
// active.
func (e *Editor) Source() *source.Surface {
	return e.src
}

// Wysiwyg returns the WYSIWYG surface, or nil while the source surface is
// active.
func (e *Editor) Wysiwyg() *wysiwyg.Surface {
	return e.wys
}

// Markdown returns the document's markdown text as the active surface sees
// it.
func (e *Editor) Markdown() string {
	if e.mode == ModeWysiwyg {
		return e.wys.Document().Markdown()
	}
	return e.src.Document().Text()
}

// Perform routes an action to the active surface. Any performed action
// invalidates a pending cursor descriptor.
func (e *Editor) Perform(act action.Action) bool {
	e.pending = nil
	if e.mode == ModeWysiwyg {
		return e.wys.Perform(act)
	}
	return e.src.Perform(act)
}

// Dispatch routes an action to the active surface and returns the full
// result.
func (e *Editor) Dispatch(act action.Action) dispatch.Result {
	e.pending = nil
	if e.mode == ModeWysiwyg {
		return e.wys.Dispatch(act)
	}
	return e.src.Dispatch(act)
}

// Context returns the active surface's primary-selection context.
func (e *Editor) Context() editctx.Context {
	if e.mode == ModeWysiwyg {
		d := e.wys.Document()
		return d.ContextFor(d.Primary())
	}
	d := e.src.Document()
	return d.ContextFor(d.Primary())
}

// MultiContext returns the active surface's context across all selections.
func (e *Editor) MultiContext() editctx.MultiContext {
	if e.mode == ModeWysiwyg {
		return e.wys.Document().MultiContext()
	}
	return e.src.Document().MultiContext()
}

// ButtonStates evaluates command availability for a set of action ids
// against the active surface. The result feeds toolbar and menu rendering.
func (e *Editor) ButtonStates(ids []string) map[string]rules.State {
	ctx := e.Context()
	mc := e.MultiContext()
	out := make(map[string]rules.State, len(ids))
	for _, id := range ids {
		out[id] = rules.ButtonState(id, ctx, mc)
	}
	return out
}

// Swap switches to the other surface, carrying the cursor across. The
// document text is identical on both sides of the swap; only the cursor
// needs translating.
func (e *Editor) Swap() {
	if e.mode == ModeSource {
		e.swapToWysiwyg()
	} else {
		e.swapToSource()
	}
}

func (e *Editor) swapToWysiwyg() {
	doc := e.src.Document()
	text := doc.Text()
	info := cursorinfo.Encode(text, doc.Primary().Head, e.Context().BlockType())
	e.pending = &info

	wdoc := wysiwyg.Parse(text)
	e.wys = wysiwyg.NewSurface(wdoc, e.cfg, e.co)
	if e.scripts != nil {
		e.wys.RegisterScripts(e.scripts)
	}
	e.src = nil
	e.mode = ModeWysiwyg

	if e.pending != nil {
		off := cursorinfo.Decode(*e.pending, wdoc.Markdown())
		wdoc.SetCursor(wdoc.PositionForOffset(off))
		e.pending = nil
	}
}

func (e *Editor) swapToSource() {
	wdoc := e.wys.Document()
	text := wdoc.Markdown()
	off := wdoc.OffsetForPosition(wdoc.Primary().Head)
	info := cursorinfo.Encode(text, off, e.Context().BlockType())
	e.pending = &info

	sdoc := source.NewDocument(text)
	e.src = source.NewSurface(sdoc, e.cfg, e.co)
	if e.scripts != nil {
		e.src.RegisterScripts(e.scripts)
	}
	e.wys = nil
	e.mode = ModeSource

	if e.pending != nil {
		sdoc.SetCursor(cursorinfo.Decode(*e.pending, sdoc.Text()))
		e.pending = nil
	}
}

// Persist records the session's document state in the attached store. A
// session without a store or an unsaved document persists nothing.
func (e *Editor) Persist() error {
	if e.store == nil {
		return nil
	}
	path := e.co.DocPath()
	if path == "" {
		return nil
	}

	st := config.DocState{
		LineEnding: "lf",
		HardBreaks: e.cfg.HardBreak == "backslash",
	}
	if e.crlf {
		st.LineEnding = "crlf"
	}

	var cursor int
	text := e.Markdown()
	if e.mode == ModeWysiwyg {
		d := e.wys.Document()
		cursor = d.OffsetForPosition(d.Primary().Head)
	} else {
		cursor = e.src.Document().Primary().Head
	}
	st.LastCursorLine = cursorinfo.Encode(text, cursor, "").ContentLine

	return e.store.SaveDocState(path, st)
}

// RestoreCursor places the cursor on the document's last persisted content
// line, if the store has one.
func (e *Editor) RestoreCursor() {
	if e.store == nil {
		return
	}
	path := e.co.DocPath()
	if path == "" {
		return
	}
	st := e.store.DocState(path)
	if st.LastCursorLine <= 0 {
		return
	}

	info := cursorinfo.Info{ContentLine: st.LastCursorLine}
	if e.mode == ModeWysiwyg {
		d := e.wys.Document()
		d.SetCursor(d.PositionForOffset(cursorinfo.Decode(info, d.Markdown())))
		return
	}
	d := e.src.Document()
	d.SetCursor(cursorinfo.Decode(info, d.Text()))
}
