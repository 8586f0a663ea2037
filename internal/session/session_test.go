package session_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/config"
	"github.com/inkwell-md/inkwell/internal/plugin/lua"
	"github.com/inkwell-md/inkwell/internal/rules"
	"github.com/inkwell-md/inkwell/internal/session"
	"github.com/inkwell-md/inkwell/internal/source"
)

// toolbarIDs is the id set a host toolbar would evaluate every selection
// change.
var toolbarIDs = []string{
	action.Bold, action.Italic, action.Strikethrough, action.InlineCode,
	action.ClearFormatting,
	"heading:1", "heading:2", "heading:3",
	action.HeadingIncrease, action.HeadingDecrease, action.Paragraph,
	action.InsertCodeBlock, action.HorizontalRule,
	action.InsertBlockquote, action.NestQuote, action.UnnestQuote,
	action.BulletList, action.OrderedList, action.TaskList,
	action.RemoveList, action.IndentList, action.OutdentList,
	action.InsertTable, action.TableDeleteRow,
	action.InsertLink, action.Unlink,
	action.InsertImage, action.InsertMath, action.InsertFootnote,
}

func newEditor(t *testing.T, text string) *session.Editor {
	t.Helper()
	return session.New(text, config.DefaultSettings(), source.Collaborators{
		Logger: nopLogger{},
	})
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// placeCursor puts the source cursor one byte into the first occurrence of
// word.
func placeCursor(t *testing.T, e *session.Editor, word string) {
	t.Helper()
	text := e.Markdown()
	i := strings.Index(text, word)
	if i < 0 {
		t.Fatalf("word %q not in document", word)
	}
	e.Source().Document().SetCursor(i + 1)
}

func TestSwapPreservesText(t *testing.T) {
	docs := []string{
		"plain paragraph",
		"# Title\n\nbody text",
		"- one\n- two\n  - nested",
		"1. first\n2. second",
		"> quoted line\n> > deeper",
		"| a | b |\n| --- | :---: |\n| c | d |",
		"```go\nfmt.Println(1)\n```",
		"text with **bold** and [link](https://x.test) and $e=mc^2$",
		"para[^1] with note\n\n[^1]: the note",
	}
	for _, doc := range docs {
		e := newEditor(t, doc)
		e.Swap()
		if got := e.Markdown(); got != doc {
			t.Errorf("after swap to wysiwyg:\n got %q\nwant %q", got, doc)
		}
		e.Swap()
		if got := e.Markdown(); got != doc {
			t.Errorf("after swap back to source:\n got %q\nwant %q", got, doc)
		}
	}
}

func TestSwapModeAndSurfaceLiveness(t *testing.T) {
	e := newEditor(t, "hello")
	if e.Mode() != session.ModeSource || e.Source() == nil || e.Wysiwyg() != nil {
		t.Fatal("session should start on the source surface")
	}
	e.Swap()
	if e.Mode() != session.ModeWysiwyg || e.Wysiwyg() == nil || e.Source() != nil {
		t.Fatal("swap should retire the source surface")
	}
}

func TestSwapCarriesCursorToWord(t *testing.T) {
	text := "# Title\n\nfirst paragraph here\nsecond line target word"
	e := newEditor(t, text)
	placeCursor(t, e, "target")

	e.Swap()
	d := e.Wysiwyg().Document()
	back := d.OffsetForPosition(d.Primary().Head)
	want := strings.Index(text, "target") + 1
	if back != want {
		t.Fatalf("cursor after swap at serialized offset %d, want %d", back, want)
	}

	e.Swap()
	if got := e.Source().Document().Primary().Head; got != want {
		t.Fatalf("cursor after swap back = %d, want %d", got, want)
	}
}

func TestSwapCursorInsideStyledSpan(t *testing.T) {
	text := "some **bold** text"
	e := newEditor(t, text)
	placeCursor(t, e, "bold")

	e.Swap()
	st := e.ButtonStates([]string{action.Bold})
	if !st[action.Bold].Active {
		t.Fatal("bold should stay active across the swap")
	}
}

func TestCrossSurfaceButtonParity(t *testing.T) {
	fixtures := []struct {
		name string
		text string
		word string
	}{
		{"paragraph", "plain paragraph text", "paragraph"},
		{"heading", "### Section title", "Section"},
		{"bullet item", "- list item body", "item"},
		{"ordered item", "1. first entry", "entry"},
		{"blockquote", "> quoted words", "quoted"},
		{"table cell", "| head | col |\n| --- | --- |\n| cell | val |", "cell"},
		{"code block", "```\ncode body\n```", "body"},
		{"bold span", "some **bold** text", "bold"},
		{"link", "see [docs](https://x.test) here", "docs"},
	}

	for _, f := range fixtures {
		t.Run(f.name, func(t *testing.T) {
			e := newEditor(t, f.text)
			placeCursor(t, e, f.word)

			before := e.ButtonStates(toolbarIDs)
			e.Swap()
			after := e.ButtonStates(toolbarIDs)

			if diff := cmp.Diff(before, after); diff != "" {
				t.Errorf("button state diverged across surfaces (-source +wysiwyg):\n%s", diff)
			}
		})
	}
}

func TestParityHeadingLevelActiveState(t *testing.T) {
	e := newEditor(t, "### Section title")
	placeCursor(t, e, "Section")

	check := func(surface string) {
		st := e.ButtonStates([]string{"heading:3", "heading:4"})
		if !st["heading:3"].Active {
			t.Errorf("%s: heading:3 should be active", surface)
		}
		if st["heading:4"].Active {
			t.Errorf("%s: heading:4 should not be active", surface)
		}
	}
	check("source")
	e.Swap()
	check("wysiwyg")
}

func TestMultiSelectionGatingThroughEditor(t *testing.T) {
	e := newEditor(t, "one two three")
	e.Source().Document().SetSelections([]source.Selection{
		source.Sel(0, 3),
		source.Sel(4, 7),
	})

	st := e.ButtonStates([]string{action.Bold, action.InsertFootnote, action.InsertTable})
	if st[action.Bold].Disabled {
		t.Error("bold should stay enabled under multiple ranges")
	}
	if !st[action.InsertFootnote].Disabled {
		t.Error("insertFootnote should be disabled under multiple ranges")
	}
	if !st[action.InsertTable].Disabled {
		t.Error("insertTable should be disabled under multiple ranges")
	}
}

func TestDispatchRoutesToActiveSurface(t *testing.T) {
	e := newEditor(t, "word")
	placeCursor(t, e, "word")
	if !e.Perform(action.New(action.Bold)) {
		t.Fatal("bold should be handled on the source surface")
	}
	if got := e.Markdown(); got != "**word**" {
		t.Fatalf("text = %q, want %q", got, "**word**")
	}

	e.Swap()
	if !e.Perform(action.New(action.Italic)) {
		t.Fatal("italic should be handled on the wysiwyg surface")
	}
	if got := e.Markdown(); got != "***word***" {
		t.Fatalf("text = %q, want %q", got, "***word***")
	}
}

func TestPersistAndRestoreCursor(t *testing.T) {
	store := config.NewStore(filepath.Join(t.TempDir(), "state.json"))
	text := "alpha\nbeta\ngamma\ndelta"
	docPath := "/tmp/doc.md"

	e := session.New(text, config.DefaultSettings(), source.Collaborators{
		DocPath: func() string { return docPath },
		Logger:  nopLogger{},
	})
	e.UseStore(store)
	e.Source().Document().SetCursor(strings.Index(text, "gamma"))
	if err := e.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	e2 := session.New(text, config.DefaultSettings(), source.Collaborators{
		DocPath: func() string { return docPath },
		Logger:  nopLogger{},
	})
	e2.UseStore(store)
	e2.RestoreCursor()
	if got, want := e2.Source().Document().Primary().Head, strings.Index(text, "gamma"); got != want {
		t.Fatalf("restored cursor = %d, want %d", got, want)
	}
}

func TestScriptsRunOnBothSurfaces(t *testing.T) {
	eng := lua.NewEngine()
	if err := eng.Load("shout", `
		function transform(input, ctx)
			return string.upper(input)
		end
	`); err != nil {
		t.Fatal(err)
	}

	e := newEditor(t, "hello world")
	e.UseScripts(eng)
	placeCursor(t, e, "hello")

	if !e.Perform(action.New("script.shout")) {
		t.Fatal("script should run on the source surface")
	}
	if got := e.Markdown(); got != "HELLO world" {
		t.Fatalf("markdown = %q", got)
	}

	e.Swap()
	d := e.Wysiwyg().Document()
	d.SetCursor(d.PositionForOffset(strings.Index(e.Markdown(), "world") + 1))
	if !e.Perform(action.New("script.shout")) {
		t.Fatal("script should run on the swapped-in wysiwyg surface")
	}
	if got := e.Markdown(); got != "HELLO WORLD" {
		t.Fatalf("markdown = %q", got)
	}
}

func TestButtonStatesUnknownID(t *testing.T) {
	e := newEditor(t, "text")
	st := e.ButtonStates([]string{"noSuchAction"})
	if !st["noSuchAction"].Disabled {
		t.Fatal("unknown actions should be disabled")
	}
	if diff := cmp.Diff(rules.State{Disabled: true}, st["noSuchAction"]); diff != "" {
		t.Fatal(diff)
	}
}
