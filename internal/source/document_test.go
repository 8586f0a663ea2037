package source_test

import (
	"testing"

	"github.com/inkwell-md/inkwell/internal/source"
)

func TestDocumentLineAddressing(t *testing.T) {
	d := source.NewDocument("one\ntwo\n\nfour")

	if got := d.LineCount(); got != 4 {
		t.Fatalf("LineCount = %d, want 4", got)
	}
	if got := d.LineText(1); got != "two" {
		t.Errorf("LineText(1) = %q", got)
	}
	if got := d.LineText(2); got != "" {
		t.Errorf("LineText(2) = %q, want empty", got)
	}
	if got := d.LineForOffset(5); got != 1 {
		t.Errorf("LineForOffset(5) = %d, want 1", got)
	}
	if got := d.LineStart(3); got != 9 {
		t.Errorf("LineStart(3) = %d, want 9", got)
	}
	if got := d.Column(6); got != 2 {
		t.Errorf("Column(6) = %d, want 2", got)
	}
}

func TestDocumentNormalizesLineEndings(t *testing.T) {
	d := source.NewDocument("a\r\nb\rc")
	if got := d.Text(); got != "a\nb\nc" {
		t.Errorf("Text = %q", got)
	}
}

func TestDocumentReplace(t *testing.T) {
	d := source.NewDocument("hello world")
	end, err := d.Replace(6, 11, "there")
	if err != nil {
		t.Fatal(err)
	}
	if end != 11 {
		t.Errorf("end = %d, want 11", end)
	}
	if d.Text() != "hello there" {
		t.Errorf("Text = %q", d.Text())
	}
}

func TestDocumentReplaceInvalidRange(t *testing.T) {
	d := source.NewDocument("abc")
	if _, err := d.Replace(2, 1, "x"); err != source.ErrRangeInvalid {
		t.Errorf("err = %v, want ErrRangeInvalid", err)
	}
	if _, err := d.Replace(0, 99, "x"); err != source.ErrRangeInvalid {
		t.Errorf("err = %v, want ErrRangeInvalid", err)
	}
}

func TestApplyEditsRequiresReverseOrder(t *testing.T) {
	d := source.NewDocument("aa bb cc")

	// Ascending order must be rejected: a later splice would shift the
	// pending earlier one.
	err := d.ApplyEdits([]source.Edit{
		{From: 0, To: 2, Text: "x"},
		{From: 3, To: 5, Text: "y"},
	})
	if err != source.ErrEditsOverlap {
		t.Fatalf("err = %v, want ErrEditsOverlap", err)
	}

	err = d.ApplyEdits([]source.Edit{
		{From: 3, To: 5, Text: "y"},
		{From: 0, To: 2, Text: "x"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if d.Text() != "x y cc" {
		t.Errorf("Text = %q", d.Text())
	}
}

func TestSelectionsSortedAndClamped(t *testing.T) {
	d := source.NewDocument("hello")
	d.SetSelections([]source.Selection{source.Sel(99, 120), source.Caret(1)})

	sels := d.Selections()
	if len(sels) != 2 {
		t.Fatalf("len = %d", len(sels))
	}
	if sels[0].Head != 1 {
		t.Errorf("first selection = %+v, want caret at 1", sels[0])
	}
	if sels[1].Start() != 5 || sels[1].End() != 5 {
		t.Errorf("second selection = %+v, want clamped to 5", sels[1])
	}
}

func TestSelectionHalfOpenContains(t *testing.T) {
	s := source.Sel(2, 6)
	if !s.Contains(2) {
		t.Error("start is inside the half-open range")
	}
	if s.Contains(6) {
		t.Error("end is outside the half-open range")
	}
}
