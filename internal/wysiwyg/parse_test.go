package wysiwyg_test

import (
	"testing"

	"github.com/inkwell-md/inkwell/internal/editctx"
	"github.com/inkwell-md/inkwell/internal/wysiwyg"
)

func TestParseSerializeRoundTrip(t *testing.T) {
	docs := []string{
		"plain paragraph",
		"# Title",
		"### Deep heading",
		"- item",
		"  - nested item",
		"1. one",
		"- [ ] todo",
		"- [x] done",
		"> quoted",
		"> > deep quote",
		"---",
		"```go\nx := 1\n```",
		"```\nno lang\n```",
		"| a | b |\n| --- | :---: |\n| 1 | 2 |",
		"a **bold** word",
		"an *italic* word",
		"a ~~struck~~ word",
		"a `code` span",
		"[docs](https://example.com)",
		"[[my-page]]",
		"[[page|display text]]",
		"![alt](img.png)",
		"inline $x+1$ math",
		"a footnote[^1] here",
		"first\n\nsecond",
		"# Title\n\n- item\n- other\n\n> note",
	}

	for _, doc := range docs {
		if got := wysiwyg.Parse(doc).Markdown(); got != doc {
			t.Errorf("round trip of %q = %q", doc, got)
		}
	}
}

func TestParseHeading(t *testing.T) {
	d := wysiwyg.Parse("## Hi **there**")
	b := d.Block(0)
	if b.Kind != wysiwyg.BlockHeading || b.Level != 2 {
		t.Fatalf("kind = %v level = %d", b.Kind, b.Level)
	}
	if len(b.Runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(b.Runs))
	}
	if b.Runs[0].Text != "Hi " || b.Runs[0].Marks.Any() {
		t.Errorf("run 0 = %+v", b.Runs[0])
	}
	if b.Runs[1].Text != "there" || !b.Runs[1].Marks.Bold {
		t.Errorf("run 1 = %+v", b.Runs[1])
	}
}

func TestParseListVariants(t *testing.T) {
	d := wysiwyg.Parse("- bullet\n2. second\n- [x] checked")

	b := d.Block(0)
	if b.Kind != wysiwyg.BlockListItem || b.ListType != editctx.ListBullet || b.ListDepth != 1 {
		t.Errorf("bullet = %+v", b)
	}

	b = d.Block(1)
	if b.ListType != editctx.ListOrdered || b.Ordinal != 2 {
		t.Errorf("ordered = %+v", b)
	}

	b = d.Block(2)
	if b.ListType != editctx.ListTask || !b.Checked {
		t.Errorf("task = %+v", b)
	}
}

func TestParseNestedMarks(t *testing.T) {
	d := wysiwyg.Parse("~~a *b* c~~")
	runs := d.Block(0).Runs
	if len(runs) != 3 {
		t.Fatalf("runs = %d, want 3", len(runs))
	}
	if !runs[0].Marks.Strikethrough || runs[0].Marks.Italic {
		t.Errorf("run 0 marks = %+v", runs[0].Marks)
	}
	if !runs[1].Marks.Strikethrough || !runs[1].Marks.Italic || runs[1].Text != "b" {
		t.Errorf("run 1 = %+v", runs[1])
	}
}

func TestParseCodeSpanShieldsMarkup(t *testing.T) {
	d := wysiwyg.Parse("`**not bold**`")
	runs := d.Block(0).Runs
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if !runs[0].Marks.Code || runs[0].Marks.Bold || runs[0].Text != "**not bold**" {
		t.Errorf("run = %+v", runs[0])
	}
}

func TestParseTable(t *testing.T) {
	d := wysiwyg.Parse("| a | b |\n| --- | ---: |\n| 1 | 2 |")
	b := d.Block(0)
	if b.Kind != wysiwyg.BlockTable {
		t.Fatalf("kind = %v", b.Kind)
	}
	if b.Table.Cols() != 2 || len(b.Table.Rows) != 2 {
		t.Fatalf("cols = %d rows = %d", b.Table.Cols(), len(b.Table.Rows))
	}
	if b.Table.Aligns[1] != "right" {
		t.Errorf("align = %q", b.Table.Aligns[1])
	}
}

func TestParseWikiLinkAlias(t *testing.T) {
	d := wysiwyg.Parse("[[page|display text]]")
	runs := d.Block(0).Runs
	if len(runs) != 1 || runs[0].Link == nil {
		t.Fatalf("runs = %+v", runs)
	}
	if runs[0].Text != "display text" || runs[0].Link.Href != "page" || !runs[0].Link.Wiki {
		t.Errorf("run = %+v link = %+v", runs[0], runs[0].Link)
	}
}
