package dispatch_test

import (
	"testing"

	"github.com/inkwell-md/inkwell/internal/dispatch"
)

// applyToString splices replacements into a string buffer, failing if a
// replacement arrives with stale offsets.
func applyToString(s *string) func(dispatch.Replacement) error {
	return func(r dispatch.Replacement) error {
		*s = (*s)[:r.From] + r.Text + (*s)[r.To:]
		return nil
	}
}

func TestApplyDescendingOrder(t *testing.T) {
	// Two bold spans; replacements computed against the original snapshot.
	doc := "**one** **two**"
	reps := []dispatch.Replacement{
		{From: 0, To: 7, Text: "one"},
		{From: 8, To: 15, Text: "two"},
	}

	if err := dispatch.ApplyDescending(reps, applyToString(&doc)); err != nil {
		t.Fatal(err)
	}
	if doc != "one two" {
		t.Errorf("doc = %q, want %q", doc, "one two")
	}
}

func TestApplyDescendingSortsInput(t *testing.T) {
	doc := "aa bb cc"
	// Deliberately ascending input order; the helper must reorder.
	reps := []dispatch.Replacement{
		{From: 0, To: 2, Text: "A"},
		{From: 3, To: 5, Text: "B"},
		{From: 6, To: 8, Text: "C"},
	}

	if err := dispatch.ApplyDescending(reps, applyToString(&doc)); err != nil {
		t.Fatal(err)
	}
	if doc != "A B C" {
		t.Errorf("doc = %q, want %q", doc, "A B C")
	}
}

func TestApplyDescendingRejectsOverlap(t *testing.T) {
	reps := []dispatch.Replacement{
		{From: 0, To: 5, Text: "x"},
		{From: 4, To: 8, Text: "y"},
	}

	err := dispatch.ApplyDescending(reps, func(dispatch.Replacement) error { return nil })
	if err != dispatch.ErrReplacementsOverlap {
		t.Errorf("err = %v, want ErrReplacementsOverlap", err)
	}
}

func TestApplyDescendingEmpty(t *testing.T) {
	if err := dispatch.ApplyDescending(nil, nil); err != nil {
		t.Errorf("empty input should be a no-op, got %v", err)
	}
}
