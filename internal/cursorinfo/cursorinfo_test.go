package cursorinfo_test

import (
	"strings"
	"testing"

	"github.com/inkwell-md/inkwell/internal/cursorinfo"
)

func TestEncodeCapturesWordAndLine(t *testing.T) {
	text := "# Title\n\nfirst paragraph line\nsecond line here"
	// Cursor inside "paragraph" on the second content line.
	off := strings.Index(text, "paragraph") + 3
	info := cursorinfo.Encode(text, off, "paragraph")

	if info.ContentLine != 1 {
		t.Fatalf("ContentLine = %d, want 1", info.ContentLine)
	}
	if info.Word != "paragraph" {
		t.Fatalf("Word = %q, want %q", info.Word, "paragraph")
	}
	if info.WordOffset != 3 {
		t.Fatalf("WordOffset = %d, want 3", info.WordOffset)
	}
	if info.Before != "first " {
		t.Fatalf("Before = %q", info.Before)
	}
}

func TestEncodeOnBlankLineUsesPrecedingContentLine(t *testing.T) {
	text := "alpha\n\nbeta"
	info := cursorinfo.Encode(text, len("alpha\n"), "paragraph")
	if info.ContentLine != 0 {
		t.Fatalf("ContentLine = %d, want 0", info.ContentLine)
	}
}

func TestDecodeRoundTripSameText(t *testing.T) {
	text := "# Title\n\nfirst paragraph line\nsecond line here"
	for _, word := range []string{"Title", "paragraph", "second"} {
		off := strings.Index(text, word) + 1
		info := cursorinfo.Encode(text, off, "")
		got := cursorinfo.Decode(info, text)
		if got != off {
			t.Errorf("round trip for %q: got offset %d, want %d", word, got, off)
		}
	}
}

func TestDecodeSurvivesBlankLineChanges(t *testing.T) {
	before := "# Title\nfirst line\nsecond target line"
	after := "# Title\n\nfirst line\n\nsecond target line"

	off := strings.Index(before, "target") + 2
	info := cursorinfo.Encode(before, off, "")
	got := cursorinfo.Decode(info, after)
	want := strings.Index(after, "target") + 2
	if got != want {
		t.Fatalf("Decode = %d, want %d", got, want)
	}
}

func TestDecodeDisambiguatesIdenticalWordsByContext(t *testing.T) {
	text := "alpha beta gamma\nalpha delta gamma"
	// Cursor on the second line's "gamma".
	off := strings.LastIndex(text, "gamma")
	info := cursorinfo.Encode(text, off, "")

	// Shift the line index so the exact-index match would land on the
	// wrong line without context scoring.
	shifted := "inserted line\n" + text
	got := cursorinfo.Decode(info, shifted)
	want := strings.LastIndex(shifted, "gamma")
	if got != want {
		t.Fatalf("Decode = %d, want %d", got, want)
	}
}

func TestDecodeFallsBackToPercent(t *testing.T) {
	info := cursorinfo.Encode("abcdefghij", 5, "")
	info.Word = "missing"
	info.Before = ""
	info.After = ""

	got := cursorinfo.Decode(info, "0123456789")
	if got != 5 {
		t.Fatalf("Decode = %d, want 5", got)
	}
}

func TestDecodeEmptyText(t *testing.T) {
	info := cursorinfo.Encode("hello world", 3, "")
	if got := cursorinfo.Decode(info, ""); got != 0 {
		t.Fatalf("Decode on empty text = %d, want 0", got)
	}
}

func TestDecodeClampsLineIndex(t *testing.T) {
	info := cursorinfo.Encode("a\nb\nc\nd", 6, "")
	got := cursorinfo.Decode(info, "only")
	if got < 0 || got > len("only") {
		t.Fatalf("Decode = %d out of range", got)
	}
}

func TestDecodeNormalizedWordMatch(t *testing.T) {
	// Encoded from composed text, decoded against a decomposed spelling.
	composed := "say héllo now"
	decomposed := "say héllo now"

	off := strings.Index(composed, "héllo")
	info := cursorinfo.Encode(composed, off, "")
	got := cursorinfo.Decode(info, decomposed)
	want := strings.Index(decomposed, "héllo")
	if got != want {
		t.Fatalf("Decode = %d, want %d", got, want)
	}
}
