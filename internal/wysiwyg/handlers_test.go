package wysiwyg_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/config"
	"github.com/inkwell-md/inkwell/internal/dispatch"
	"github.com/inkwell-md/inkwell/internal/wysiwyg"
)

type fakeClipboard struct {
	text   string
	err    error
	during func()
}

func (f *fakeClipboard) Read(ctx context.Context) (string, error) {
	if f.during != nil {
		f.during()
	}
	return f.text, f.err
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

func newSurface(t *testing.T, markdown string, co wysiwyg.Collaborators) *wysiwyg.Surface {
	t.Helper()
	if co.Clipboard == nil {
		co.Clipboard = &fakeClipboard{}
	}
	if co.Logger == nil {
		co.Logger = nopLogger{}
	}
	return wysiwyg.NewSurface(wysiwyg.Parse(markdown), config.DefaultSettings(), co)
}

func TestBoldWordExpansion(t *testing.T) {
	s := newSurface(t, "hello world", wysiwyg.Collaborators{})
	s.Document().SetCursor(wysiwyg.Pos(0, 2))

	if !s.Perform(action.New(action.Bold)) {
		t.Fatal("bold not handled")
	}
	if got := s.Document().Markdown(); got != "**hello** world" {
		t.Errorf("markdown = %q", got)
	}
}

func TestBoldToggleOffUnwrapsSpan(t *testing.T) {
	s := newSurface(t, "**hello** world", wysiwyg.Collaborators{})
	s.Document().SetCursor(wysiwyg.Pos(0, 3))

	if !s.Perform(action.New(action.Bold)) {
		t.Fatal("bold not handled")
	}
	if got := s.Document().Markdown(); got != "hello world" {
		t.Errorf("markdown = %q", got)
	}
}

func TestBoldSelectionToggle(t *testing.T) {
	s := newSurface(t, "one two", wysiwyg.Collaborators{})
	s.Document().SetSelections([]wysiwyg.Selection{
		wysiwyg.Sel(wysiwyg.Pos(0, 0), wysiwyg.Pos(0, 3)),
		wysiwyg.Sel(wysiwyg.Pos(0, 4), wysiwyg.Pos(0, 7)),
	})

	if !s.Perform(action.New(action.Bold)) {
		t.Fatal("bold not handled")
	}
	if got := s.Document().Markdown(); got != "**one** **two**" {
		t.Errorf("markdown = %q", got)
	}
}

func TestPendingMarksApplyToTypedText(t *testing.T) {
	s := newSurface(t, "", wysiwyg.Collaborators{})

	if !s.Perform(action.New(action.Bold)) {
		t.Fatal("bold toggle at empty cursor not handled")
	}
	if bold, _, _, _ := s.PendingMarks(); !bold {
		t.Fatal("bold not pending")
	}
	s.InsertText("hi")
	if got := s.Document().Markdown(); got != "**hi**" {
		t.Errorf("markdown = %q", got)
	}
}

func TestBlockquoteToggleIdempotent(t *testing.T) {
	s := newSurface(t, "Hello", wysiwyg.Collaborators{})

	if !s.Perform(action.New(action.InsertBlockquote)) {
		t.Fatal("first toggle not handled")
	}
	if got := s.Document().Markdown(); got != "> Hello" {
		t.Fatalf("after first toggle: %q", got)
	}
	if !s.Perform(action.New(action.InsertBlockquote)) {
		t.Fatal("second toggle not handled")
	}
	if got := s.Document().Markdown(); got != "Hello" {
		t.Errorf("after second toggle: %q, want exact round trip", got)
	}
}

func TestListConversion(t *testing.T) {
	s := newSurface(t, "Item", wysiwyg.Collaborators{})

	if !s.Perform(action.New(action.BulletList)) {
		t.Fatal("bulletList not handled")
	}
	if got := s.Document().Markdown(); got != "- Item" {
		t.Fatalf("after bulletList: %q", got)
	}

	if !s.Perform(action.New(action.OrderedList)) {
		t.Fatal("orderedList not handled")
	}
	if got := s.Document().Markdown(); got != "1. Item" {
		t.Errorf("after orderedList: %q", got)
	}

	if !s.Perform(action.New(action.OrderedList)) {
		t.Fatal("toggle off not handled")
	}
	if got := s.Document().Markdown(); got != "Item" {
		t.Errorf("after toggle off: %q", got)
	}
}

func TestOrderedListRenumbers(t *testing.T) {
	s := newSurface(t, "a\nb\nc", wysiwyg.Collaborators{})
	s.Document().SetSelections([]wysiwyg.Selection{
		wysiwyg.Sel(wysiwyg.Pos(0, 0), wysiwyg.Pos(2, 1)),
	})

	if !s.Perform(action.New(action.OrderedList)) {
		t.Fatal("orderedList not handled")
	}
	if got := s.Document().Markdown(); got != "1. a\n2. b\n3. c" {
		t.Errorf("markdown = %q", got)
	}
}

func TestUnlinkRoundTrips(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    string
		handled bool
	}{
		{"markdown link", "[hello](https://example.com)", "hello", true},
		{"wiki link", "[[my-page]]", "my-page", true},
		{"aliased wiki link", "[[page|display text]]", "display text", true},
		{"no link", "plain text here", "plain text here", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSurface(t, tt.doc, wysiwyg.Collaborators{})
			s.Document().SetCursor(wysiwyg.Pos(0, 2))

			handled := s.Perform(action.New(action.Unlink))
			if handled != tt.handled {
				t.Errorf("handled = %v, want %v", handled, tt.handled)
			}
			if got := s.Document().Markdown(); got != tt.want {
				t.Errorf("markdown = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMultiRangeClearFormatting(t *testing.T) {
	s := newSurface(t, "**one** **two**", wysiwyg.Collaborators{})
	s.Document().SetSelections([]wysiwyg.Selection{
		wysiwyg.Sel(wysiwyg.Pos(0, 0), wysiwyg.Pos(0, 3)),
		wysiwyg.Sel(wysiwyg.Pos(0, 4), wysiwyg.Pos(0, 7)),
	})

	if !s.Perform(action.New(action.ClearFormatting)) {
		t.Fatal("clearFormatting not handled")
	}
	if got := s.Document().Markdown(); got != "one two" {
		t.Errorf("markdown = %q", got)
	}
}

func TestFootnoteGatedUnderMultiSelection(t *testing.T) {
	s := newSurface(t, "one two", wysiwyg.Collaborators{})
	s.Document().SetSelections([]wysiwyg.Selection{
		wysiwyg.Caret(wysiwyg.Pos(0, 1)),
		wysiwyg.Caret(wysiwyg.Pos(0, 5)),
	})

	result := s.Dispatch(action.New(action.InsertFootnote))
	if result.Handled() {
		t.Error("footnote must be blocked under multi-selection")
	}
	if got := s.Document().Markdown(); got != "one two" {
		t.Errorf("document mutated: %q", got)
	}
}

func TestHeadingSetAndDecrease(t *testing.T) {
	s := newSurface(t, "Title", wysiwyg.Collaborators{})

	if !s.Perform(action.New("heading:3")) {
		t.Fatal("heading:3 not handled")
	}
	if got := s.Document().Markdown(); got != "### Title" {
		t.Fatalf("markdown = %q", got)
	}

	if !s.Perform(action.New(action.HeadingDecrease)) {
		t.Fatal("decrease not handled")
	}
	if got := s.Document().Markdown(); got != "## Title" {
		t.Fatalf("markdown = %q", got)
	}
}

func TestHeadingIncreaseClampAtSix(t *testing.T) {
	s := newSurface(t, "###### Deep", wysiwyg.Collaborators{})
	if s.Perform(action.New(action.HeadingIncrease)) {
		t.Error("increase above level 6 must be a no-op")
	}
	if got := s.Document().Markdown(); got != "###### Deep" {
		t.Errorf("markdown = %q", got)
	}
}

func TestTableLifecycle(t *testing.T) {
	s := newSurface(t, "", wysiwyg.Collaborators{})

	act := action.New(action.InsertTable)
	act.Args.Rows = 2
	act.Args.Cols = 2
	if !s.Perform(act) {
		t.Fatal("insertTable not handled")
	}
	want := "| Col 1 | Col 2 |\n| --- | --- |\n|  |  |"
	if got := s.Document().Markdown(); got != want {
		t.Fatalf("table = %q, want %q", got, want)
	}

	if !s.Perform(action.New(action.TableInsertRowBelow)) {
		t.Fatal("tableInsertRowBelow not handled")
	}
	want = "| Col 1 | Col 2 |\n| --- | --- |\n|  |  |\n|  |  |"
	if got := s.Document().Markdown(); got != want {
		t.Fatalf("after row insert = %q", got)
	}

	if !s.Perform(action.New(action.TableInsertColAfter)) {
		t.Fatal("tableInsertColAfter not handled")
	}
	if !s.Perform(action.New("tableAlign:center")) {
		t.Fatal("tableAlign not handled")
	}
	want = "| Col 1 |  | Col 2 |\n| --- | :---: | --- |\n|  |  |  |\n|  |  |  |"
	if got := s.Document().Markdown(); got != want {
		t.Fatalf("after col insert and align = %q", got)
	}

	if !s.Perform(action.New(action.TableDeleteCol)) {
		t.Fatal("tableDeleteCol not handled")
	}
	want = "| Col 1 | Col 2 |\n| --- | --- |\n|  |  |\n|  |  |"
	if got := s.Document().Markdown(); got != want {
		t.Errorf("after col delete = %q", got)
	}
}

func TestTableHeaderRowUndeletable(t *testing.T) {
	s := newSurface(t, "| a |\n| --- |\n| 1 |", wysiwyg.Collaborators{})
	s.Document().SetCursor(wysiwyg.CellPos(0, 0, 0, 0))

	if s.Perform(action.New(action.TableDeleteRow)) {
		t.Error("header row deletion must be refused")
	}
}

func TestInsertImageWarnsWithoutDocumentPath(t *testing.T) {
	imgPath := filepath.Join(t.TempDir(), "shot.png")
	if err := os.WriteFile(imgPath, []byte("img"), 0o644); err != nil {
		t.Fatal(err)
	}

	var warned string
	s := newSurface(t, "", wysiwyg.Collaborators{
		Warn:      func(msg string) { warned = msg },
		Clipboard: &fakeClipboard{text: imgPath},
	})

	if !s.Perform(action.New(action.InsertImage)) {
		t.Fatal("insertImage should still insert a degraded placeholder")
	}
	if warned == "" {
		t.Error("expected a precondition warning")
	}
	if got := s.Document().Markdown(); got != "![]()" {
		t.Errorf("markdown = %q, want empty placeholder", got)
	}
}

func TestInsertImageAbandonedAfterTeardown(t *testing.T) {
	attached := true
	s := newSurface(t, "keep", wysiwyg.Collaborators{
		Attached:  func() bool { return attached },
		Clipboard: &fakeClipboard{text: "https://example.com/a.png", during: func() { attached = false }},
	})

	result := s.Dispatch(action.New(action.InsertImage))
	if result.Status != dispatch.StatusAbandoned {
		t.Errorf("status = %v, want abandoned", result.Status)
	}
	if got := s.Document().Markdown(); got != "keep" {
		t.Errorf("detached view mutated the document: %q", got)
	}
}

func TestInsertLinkFromClipboardURL(t *testing.T) {
	s := newSurface(t, "docs", wysiwyg.Collaborators{
		Clipboard: &fakeClipboard{text: "https://example.com"},
	})
	s.Document().SetCursor(wysiwyg.Pos(0, 2))

	if !s.Perform(action.New(action.InsertLink)) {
		t.Fatal("insertLink not handled")
	}
	if got := s.Document().Markdown(); got != "[docs](https://example.com)" {
		t.Errorf("markdown = %q", got)
	}
}

func TestInsertMathFromWord(t *testing.T) {
	s := newSurface(t, "energy", wysiwyg.Collaborators{})
	s.Document().SetCursor(wysiwyg.Pos(0, 3))

	if !s.Perform(action.New(action.InsertMath)) {
		t.Fatal("insertMath not handled")
	}
	if got := s.Document().Markdown(); got != "$energy$" {
		t.Errorf("markdown = %q", got)
	}
}

func TestInsertFootnoteAppendsDefinition(t *testing.T) {
	s := newSurface(t, "some text", wysiwyg.Collaborators{})
	s.Document().SetCursor(wysiwyg.Pos(0, 4))

	if !s.Perform(action.New(action.InsertFootnote)) {
		t.Fatal("insertFootnote not handled")
	}
	if got := s.Document().Markdown(); got != "some[^1] text\n[^1]: " {
		t.Errorf("markdown = %q", got)
	}
}

func TestInsertCodeBlockConvertsBlock(t *testing.T) {
	s := newSurface(t, "code here", wysiwyg.Collaborators{})
	act := action.New(action.InsertCodeBlock)
	act.Args.Language = "go"
	if !s.Perform(act) {
		t.Fatal("insertCodeBlock not handled")
	}
	if got := s.Document().Markdown(); got != "```go\ncode here\n```" {
		t.Errorf("markdown = %q", got)
	}
}

func TestDuplicateAndDeleteLine(t *testing.T) {
	s := newSurface(t, "one\ntwo", wysiwyg.Collaborators{})
	s.Document().SetCursor(wysiwyg.Pos(1, 1))

	if !s.Perform(action.New(action.DuplicateLine)) {
		t.Fatal("duplicateLine not handled")
	}
	if got := s.Document().Markdown(); got != "one\ntwo\ntwo" {
		t.Fatalf("after duplicate = %q", got)
	}

	if !s.Perform(action.New(action.DeleteLine)) {
		t.Fatal("deleteLine not handled")
	}
	if got := s.Document().Markdown(); got != "one\ntwo" {
		t.Errorf("after delete = %q", got)
	}
}

func TestBoldInCodeBlockReportsNoOp(t *testing.T) {
	const md = "```go\nhello world\n```"
	s := newSurface(t, md, wysiwyg.Collaborators{})
	s.Document().SetCursor(wysiwyg.Pos(0, 3))

	res := s.Dispatch(action.New(action.Bold))
	if res.Status != dispatch.StatusNoOp {
		t.Fatalf("status = %v, want no-op", res.Status)
	}
	if got := s.Document().Markdown(); got != md {
		t.Errorf("markdown = %q, want fence untouched", got)
	}
}

func TestClearFormattingInCodeBlockReportsNoOp(t *testing.T) {
	const md = "```\n**x**\n```"
	s := newSurface(t, md, wysiwyg.Collaborators{})
	s.Document().SetCursor(wysiwyg.Pos(0, 2))

	res := s.Dispatch(action.New(action.ClearFormatting))
	if res.Status != dispatch.StatusNoOp {
		t.Fatalf("status = %v, want no-op", res.Status)
	}
	if got := s.Document().Markdown(); got != md {
		t.Errorf("markdown = %q, want fence untouched", got)
	}
}

func TestInsertLinkEmptyPlaceholder(t *testing.T) {
	s := newSurface(t, "", wysiwyg.Collaborators{})

	if !s.Perform(action.New(action.InsertLink)) {
		t.Fatal("insertLink not handled")
	}
	if got := s.Document().Markdown(); got != "[]()" {
		t.Errorf("markdown = %q", got)
	}
}

func TestInsertBookmarkEmptyPlaceholder(t *testing.T) {
	s := newSurface(t, "", wysiwyg.Collaborators{})

	if !s.Perform(action.New(action.LinkBookmark)) {
		t.Fatal("link:bookmark not handled")
	}
	if got := s.Document().Markdown(); got != "[[]]" {
		t.Errorf("markdown = %q", got)
	}
}

func TestInsertLinkWithExplicitOperands(t *testing.T) {
	s := newSurface(t, "", wysiwyg.Collaborators{})

	act := action.New(action.InsertLink).WithText("docs").WithHref("https://example.com")
	if !s.Perform(act) {
		t.Fatal("insertLink not handled")
	}
	if got := s.Document().Markdown(); got != "[docs](https://example.com)" {
		t.Errorf("markdown = %q", got)
	}
}
