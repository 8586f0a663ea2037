package wysiwyg_test

import (
	"testing"

	"github.com/inkwell-md/inkwell/internal/editctx"
	"github.com/inkwell-md/inkwell/internal/wysiwyg"
)

func TestContextHeading(t *testing.T) {
	d := wysiwyg.Parse("### Title")
	ctx := d.ContextAt(wysiwyg.Pos(0, 2))
	if ctx.Heading == nil || ctx.Heading.Level != 3 {
		t.Fatalf("heading = %+v", ctx.Heading)
	}
	if ctx.BlockType() != "heading" {
		t.Errorf("block type = %q", ctx.BlockType())
	}
}

func TestContextListItem(t *testing.T) {
	d := wysiwyg.Parse("  - nested")
	ctx := d.ContextAt(wysiwyg.Pos(0, 3))
	if ctx.List == nil {
		t.Fatal("no list info")
	}
	if ctx.List.Type != editctx.ListBullet || ctx.List.Depth != 2 {
		t.Errorf("list = %+v", ctx.List)
	}
}

func TestContextQuoteDepth(t *testing.T) {
	d := wysiwyg.Parse("> > deep")
	ctx := d.ContextAt(wysiwyg.Pos(0, 1))
	if ctx.Blockquote == nil || ctx.Blockquote.Depth != 2 {
		t.Fatalf("quote = %+v", ctx.Blockquote)
	}
}

func TestContextCodeBlockShortCircuits(t *testing.T) {
	d := wysiwyg.Parse("```go\nx := 1\n```")
	ctx := d.ContextAt(wysiwyg.Pos(0, 2))
	if ctx.CodeBlock == nil || ctx.CodeBlock.Language != "go" {
		t.Fatalf("code = %+v", ctx.CodeBlock)
	}
	if ctx.InTextblock() {
		t.Error("code block must not be a textblock")
	}
	if ctx.Mode != editctx.ModeInsert {
		t.Errorf("mode = %v", ctx.Mode)
	}
}

func TestContextTableCell(t *testing.T) {
	d := wysiwyg.Parse("| a | b |\n| --- | --- |\n| 1 | 2 |")

	header := d.ContextAt(wysiwyg.CellPos(0, 0, 1, 0))
	if header.Table == nil || !header.Table.IsHeader || header.Table.Col != 1 {
		t.Errorf("header = %+v", header.Table)
	}

	body := d.ContextAt(wysiwyg.CellPos(0, 1, 0, 0))
	if body.Table == nil || body.Table.IsHeader || body.Table.Row != 1 {
		t.Errorf("body = %+v", body.Table)
	}
}

func TestContextMarksAndEdges(t *testing.T) {
	d := wysiwyg.Parse("a **bold** x")
	// Runs: "a " [0,2), bold "bold" [2,6), " x" [6,8).
	for _, off := range []int{2, 4, 6} {
		ctx := d.ContextAt(wysiwyg.Pos(0, off))
		if !ctx.Marks.Bold {
			t.Errorf("offset %d: bold not detected", off)
		}
	}
	if ctx := d.ContextAt(wysiwyg.Pos(0, 1)); ctx.Marks.Bold {
		t.Error("offset 1: bold detected outside the span")
	}
}

func TestContextInlineAtoms(t *testing.T) {
	d := wysiwyg.Parse("see [docs](https://example.com) and $x+1$ and [^1]")
	// Runs: "see " [0,4), link "docs" [4,8), " and " [8,13), math [13,14),
	// " and " [14,19), footnote [19,20).
	if ctx := d.ContextAt(wysiwyg.Pos(0, 6)); ctx.Link == nil || ctx.Link.Href != "https://example.com" {
		t.Errorf("link = %+v", ctx.Link)
	}
	if ctx := d.ContextAt(wysiwyg.Pos(0, 13)); !ctx.InInlineMath {
		t.Error("math atom not detected")
	}
	if ctx := d.ContextAt(wysiwyg.Pos(0, 19)); !ctx.InFootnote {
		t.Error("footnote atom not detected")
	}
	if ctx := d.ContextAt(wysiwyg.Pos(0, 10)); ctx.Link != nil || ctx.InInlineMath {
		t.Error("plain gap misclassified")
	}
}

func TestContextImageAtom(t *testing.T) {
	d := wysiwyg.Parse("![alt](img.png)")
	if ctx := d.ContextAt(wysiwyg.Pos(0, 0)); !ctx.InImage {
		t.Error("image atom not detected")
	}
}

func TestContextMode(t *testing.T) {
	d := wysiwyg.Parse("text\n")
	if ctx := d.ContextAt(wysiwyg.Pos(0, 2)); ctx.Mode != editctx.ModeInlineInsert {
		t.Errorf("non-empty block mode = %v", ctx.Mode)
	}
	if ctx := d.ContextAt(wysiwyg.Pos(1, 0)); ctx.Mode != editctx.ModeInsert {
		t.Errorf("empty block mode = %v", ctx.Mode)
	}
}

func TestMultiContextGatesOnCodeBlock(t *testing.T) {
	d := wysiwyg.Parse("plain\n```\ncode\n```")
	d.SetSelections([]wysiwyg.Selection{
		wysiwyg.Caret(wysiwyg.Pos(0, 1)),
		wysiwyg.Caret(wysiwyg.Pos(1, 1)),
	})

	mc := d.MultiContext()
	if !mc.Enabled {
		t.Fatal("two ranges should enable multi context")
	}
	if !mc.InCodeBlock {
		t.Error("second range is in a code block")
	}
	if mc.Reason == "" {
		t.Error("expected a restriction reason")
	}
}
