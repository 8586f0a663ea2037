package source_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/config"
	"github.com/inkwell-md/inkwell/internal/dispatch"
	"github.com/inkwell-md/inkwell/internal/source"
)

type fakeRunner struct {
	fn   func(input string, meta map[string]string) (string, error)
	meta map[string]string
}

func (f *fakeRunner) Transform(_ context.Context, _ string, input string, meta map[string]string) (string, error) {
	f.meta = meta
	return f.fn(input, meta)
}

func upper(input string, _ map[string]string) (string, error) {
	return strings.ToUpper(input), nil
}

func scriptedSurface(t *testing.T, text string, fn func(string, map[string]string) (string, error)) (*source.Surface, *fakeRunner) {
	t.Helper()
	s := source.NewSurface(source.NewDocument(text), config.DefaultSettings(), source.Collaborators{
		Logger: nopLogger{},
	})
	r := &fakeRunner{fn: fn}
	s.RegisterScripts(r)
	return s, r
}

func TestScriptTransformsWordUnderCursor(t *testing.T) {
	s, _ := scriptedSurface(t, "hello world", upper)
	s.Document().SetCursor(8)

	if !s.Perform(action.New("script.shout")) {
		t.Fatal("script action should be handled")
	}
	if got := s.Document().Text(); got != "hello WORLD" {
		t.Fatalf("text = %q, want %q", got, "hello WORLD")
	}
	if got := s.Document().Primary().Head; got != len("hello WORLD") {
		t.Fatalf("cursor = %d, want %d", got, len("hello WORLD"))
	}
}

func TestScriptTransformsSelection(t *testing.T) {
	s, _ := scriptedSurface(t, "hello world", upper)
	s.Document().SetSelections([]source.Selection{source.Sel(0, 5)})

	s.Perform(action.New("script.shout"))
	if got := s.Document().Text(); got != "HELLO world" {
		t.Fatalf("text = %q, want %q", got, "HELLO world")
	}
}

func TestScriptMultiRangeAppliesDescending(t *testing.T) {
	wrap := func(input string, _ map[string]string) (string, error) {
		return "<" + input + ">", nil
	}
	s, _ := scriptedSurface(t, "one two three", wrap)
	s.Document().SetSelections([]source.Selection{
		source.Sel(0, 3),
		source.Sel(8, 13),
	})

	s.Perform(action.New("script.wrap"))
	if got := s.Document().Text(); got != "<one> two <three>" {
		t.Fatalf("text = %q, want %q", got, "<one> two <three>")
	}
}

func TestScriptReceivesBlockType(t *testing.T) {
	s, r := scriptedSurface(t, "# Title", upper)
	s.Document().SetCursor(4)

	s.Perform(action.New("script.shout"))
	if r.meta["blockType"] != "heading" {
		t.Fatalf("blockType = %q, want %q", r.meta["blockType"], "heading")
	}
}

func TestScriptErrorLeavesDocumentUntouched(t *testing.T) {
	fail := func(string, map[string]string) (string, error) {
		return "", errors.New("script blew up")
	}
	s, _ := scriptedSurface(t, "hello world", fail)
	s.Document().SetCursor(2)

	res := s.Dispatch(action.New("script.bad"))
	if res.Status != dispatch.StatusError {
		t.Fatalf("status = %v, want error", res.Status)
	}
	if got := s.Document().Text(); got != "hello world" {
		t.Fatalf("text changed on script error: %q", got)
	}
}

func TestScriptIdentityOutputIsNoOp(t *testing.T) {
	ident := func(input string, _ map[string]string) (string, error) { return input, nil }
	s, _ := scriptedSurface(t, "hello", ident)
	s.Document().SetCursor(2)

	res := s.Dispatch(action.New("script.ident"))
	if res.Status != dispatch.StatusNoOp {
		t.Fatalf("status = %v, want no-op", res.Status)
	}
}

func TestScriptOnWhitespaceIsNoOp(t *testing.T) {
	s, _ := scriptedSurface(t, "a  b", upper)
	s.Document().SetCursor(2)

	if s.Perform(action.New("script.shout")) {
		t.Fatal("no operand should mean no mutation")
	}
}
