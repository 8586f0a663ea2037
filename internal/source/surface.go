package source

import (
	"context"
	"log"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/assets"
	"github.com/inkwell-md/inkwell/internal/clipboard"
	"github.com/inkwell-md/inkwell/internal/config"
	"github.com/inkwell-md/inkwell/internal/dispatch"
	"github.com/inkwell-md/inkwell/internal/guard"
)

// Collaborators are the narrow external contracts the surface consumes. All
// fields are optional; zero values degrade to safe defaults.
type Collaborators struct {
	// DocPath returns the active file path for the window, or "" for an
	// unsaved document.
	DocPath func() string

	// Warn opens a user-visible precondition warning.
	Warn func(message string)

	// Attached reports whether the view backing this surface still exists.
	// Re-checked after every await; a detached view abandons the operation.
	Attached func() bool

	// Clipboard is the clipboard probe for link/image insertion.
	Clipboard clipboard.Probe

	// Assets copies local images into the document's asset directory.
	Assets *assets.Copier

	// Guard serializes async operations per (window, operation kind).
	Guard *guard.Guard

	// WindowID keys the guard slots.
	WindowID string

	// Logger receives recovered collaborator failures.
	Logger dispatch.Logger
}

// FillDefaults replaces nil collaborator fields with safe no-op defaults.
// The asset copier picks up the configured asset directory name.
func (c *Collaborators) FillDefaults(cfg config.Settings) {
	if c.DocPath == nil {
		c.DocPath = func() string { return "" }
	}
	if c.Warn == nil {
		c.Warn = func(string) {}
	}
	if c.Attached == nil {
		c.Attached = func() bool { return true }
	}
	if c.Clipboard == nil {
		c.Clipboard = clipboard.System{}
	}
	if c.Assets == nil {
		dir := cfg.AssetDir
		if dir == "" {
			dir = "assets"
		}
		c.Assets = assets.NewCopier(dir)
	}
	if c.Guard == nil {
		c.Guard = guard.New()
	}
	if c.WindowID == "" {
		c.WindowID = "main"
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
}

// Surface is the source editing surface: a document plus the dispatcher
// holding this surface's mutation handlers.
type Surface struct {
	doc  *Document
	disp *dispatch.Dispatcher
	cfg  config.Settings
	co   Collaborators
}

// NewSurface creates a source surface over a document and registers the full
// handler table.
func NewSurface(doc *Document, cfg config.Settings, co Collaborators) *Surface {
	co.FillDefaults(cfg)
	s := &Surface{
		doc: doc,
		cfg: cfg,
		co:  co,
	}
	s.disp = dispatch.New(doc.MultiContext)
	s.disp.SetLogger(co.Logger)
	s.register()
	return s
}

// Document returns the underlying document.
func (s *Surface) Document() *Document {
	return s.doc
}

// Dispatcher returns the surface dispatcher, used to register script
// actions.
func (s *Surface) Dispatcher() *dispatch.Dispatcher {
	return s.disp
}

// Perform dispatches an action and reports whether a mutation occurred.
func (s *Surface) Perform(act action.Action) bool {
	return s.disp.Perform(act)
}

// Dispatch executes an action and returns the full result.
func (s *Surface) Dispatch(act action.Action) dispatch.Result {
	return s.disp.Dispatch(act)
}

// register wires every action id to its splice routine.
func (s *Surface) register() {
	d := s.disp

	d.Register(action.Bold, s.toggleMarkAction("**"))
	d.Register(action.Italic, s.toggleMarkAction("*"))
	d.Register(action.Strikethrough, s.toggleMarkAction("~~"))
	d.Register(action.InlineCode, s.toggleMarkAction("`"))
	d.Register(action.ClearFormatting, s.clearFormatting)

	d.RegisterFamily(action.HeadingPrefix, s.setHeading)
	d.Register(action.HeadingIncrease, s.headingIncrease)
	d.Register(action.HeadingDecrease, s.headingDecrease)
	d.Register(action.Paragraph, s.toParagraph)
	d.Register(action.InsertCodeBlock, s.insertCodeBlock)
	d.Register(action.HorizontalRule, s.horizontalRule)

	d.Register(action.InsertBlockquote, s.toggleBlockquote)
	d.Register(action.NestQuote, s.nestQuote)
	d.Register(action.UnnestQuote, s.unnestQuote)

	d.Register(action.BulletList, s.listAction(listTargetBullet))
	d.Register(action.OrderedList, s.listAction(listTargetOrdered))
	d.Register(action.TaskList, s.listAction(listTargetTask))
	d.Register(action.RemoveList, s.removeList)
	d.Register(action.IndentList, s.indentList)
	d.Register(action.OutdentList, s.outdentList)

	d.Register(action.InsertTable, s.insertTable)
	d.Register(action.TableInsertRowAbove, s.tableRowAction(0))
	d.Register(action.TableInsertRowBelow, s.tableRowAction(1))
	d.Register(action.TableInsertColBefore, s.tableColAction(0))
	d.Register(action.TableInsertColAfter, s.tableColAction(1))
	d.Register(action.TableDeleteRow, s.tableDeleteRow)
	d.Register(action.TableDeleteCol, s.tableDeleteCol)
	d.RegisterFamily(action.TableAlignPrefix, s.tableAlign)

	d.Register(action.InsertLink, s.insertLink)
	d.Register(action.LinkBookmark, s.insertBookmarkLink)
	d.Register(action.Unlink, s.unlink)
	d.Register(action.InsertImage, s.insertImage)
	d.Register(action.InsertMath, s.insertMath)
	d.Register(action.InsertFootnote, s.insertFootnote)

	d.Register(action.DuplicateLine, s.duplicateLine)
	d.Register(action.DeleteLine, s.deleteLine)
}

// probeClipboard reads and classifies the clipboard under the reentry guard.
// ok is false when the operation must be dropped (guard held) or abandoned
// (view torn down during the read).
func (s *Surface) probeClipboard(op string) (content clipboard.Content, result dispatch.Result, ok bool) {
	if !s.co.Guard.TryAcquire(s.co.WindowID, op) {
		return clipboard.Content{}, dispatch.NoOpReason("operation already in flight: " + op), false
	}
	defer s.co.Guard.Release(s.co.WindowID, op)

	c, err := clipboard.ReadContent(context.Background(), s.co.Clipboard)
	if !s.co.Attached() {
		// The view went away while the read was pending; drop silently.
		return clipboard.Content{}, dispatch.Abandoned(), false
	}
	if err != nil {
		s.co.Logger.Printf("clipboard read failed: %v", err)
		return clipboard.Content{Kind: clipboard.KindNone}, dispatch.Result{}, true
	}
	return c, dispatch.Result{}, true
}
