package wysiwyg

import (
	"context"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/clipboard"
	"github.com/inkwell-md/inkwell/internal/config"
	"github.com/inkwell-md/inkwell/internal/dispatch"
	"github.com/inkwell-md/inkwell/internal/editctx"
	"github.com/inkwell-md/inkwell/internal/source"
)

// Collaborators is the shared collaborator seam; both surfaces consume the
// same contract so the session can hand one value to either.
type Collaborators = source.Collaborators

// Surface is the WYSIWYG editing surface: a block tree plus the dispatcher
// holding tree-mutation handlers for the shared action inventory.
type Surface struct {
	doc  *Document
	disp *dispatch.Dispatcher
	cfg  config.Settings
	co   Collaborators

	// pending carries mark state toggled at an empty cursor with no word
	// to wrap; the next text insertion consumes it.
	pending    map[markKind]bool
	pendingPos Position
}

// NewSurface creates a WYSIWYG surface over a document and registers the
// full handler table.
func NewSurface(doc *Document, cfg config.Settings, co Collaborators) *Surface {
	co.FillDefaults(cfg)
	s := &Surface{
		doc:     doc,
		cfg:     cfg,
		co:      co,
		pending: make(map[markKind]bool),
	}
	s.disp = dispatch.New(doc.MultiContext)
	s.disp.SetLogger(co.Logger)
	s.register()
	return s
}

// Document returns the underlying block tree.
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

func (s *Surface) register() {
	d := s.disp

	d.Register(action.Bold, s.toggleMarkAction(markBold))
	d.Register(action.Italic, s.toggleMarkAction(markItalic))
	d.Register(action.Strikethrough, s.toggleMarkAction(markStrike))
	d.Register(action.InlineCode, s.toggleMarkAction(markCode))
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

	d.Register(action.BulletList, s.listAction(editctx.ListBullet))
	d.Register(action.OrderedList, s.listAction(editctx.ListOrdered))
	d.Register(action.TaskList, s.listAction(editctx.ListTask))
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

// probeClipboard reads and classifies the clipboard under the reentry guard,
// with the same drop and abandonment rules as the source surface.
func (s *Surface) probeClipboard(op string) (content clipboard.Content, result dispatch.Result, ok bool) {
	if !s.co.Guard.TryAcquire(s.co.WindowID, op) {
		return clipboard.Content{}, dispatch.NoOpReason("operation already in flight: " + op), false
	}
	defer s.co.Guard.Release(s.co.WindowID, op)

	c, err := clipboard.ReadContent(context.Background(), s.co.Clipboard)
	if !s.co.Attached() {
		return clipboard.Content{}, dispatch.Abandoned(), false
	}
	if err != nil {
		s.co.Logger.Printf("clipboard read failed: %v", err)
		return clipboard.Content{Kind: clipboard.KindNone}, dispatch.Result{}, true
	}
	return c, dispatch.Result{}, true
}
