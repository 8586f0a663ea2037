package source_test

import (
	"testing"

	"github.com/inkwell-md/inkwell/internal/source"
)

func TestWordAt(t *testing.T) {
	tests := []struct {
		name string
		line string
		col  int
		want string
		from int
		to   int
		ok   bool
	}{
		{"middle of word", "hello world", 2, "hello", 0, 5, true},
		{"start edge counts", "hello world", 0, "hello", 0, 5, true},
		{"end edge counts", "hello world", 5, "hello", 0, 5, true},
		{"second word", "hello world", 8, "world", 6, 11, true},
		{"between words", "a  b", 2, "", 0, 0, false},
		{"empty line", "", 0, "", 0, 0, false},
		{"stops at markup", "**bold** text", 3, "bold", 2, 6, true},
		{"stops at bracket", "[link]", 2, "link", 1, 5, true},
		{"hyphen stays inside", "well-known fact", 3, "well-known", 0, 10, true},
		{"unicode word", "héllo wörld", 2, "héllo", 0, 6, true},
		{"emoji cluster", "a 👍🏽 b", 3, "👍🏽", 2, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, word, ok := source.WordAt(tt.line, tt.col)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if word != tt.want || from != tt.from || to != tt.to {
				t.Errorf("WordAt = (%d, %d, %q), want (%d, %d, %q)",
					from, to, word, tt.from, tt.to, tt.want)
			}
		})
	}
}

func TestExpandWordPrefersSelection(t *testing.T) {
	d := source.NewDocument("hello world")
	from, to, operand := d.ExpandWord(source.Sel(0, 11))
	if from != 0 || to != 11 || operand != "hello world" {
		t.Errorf("ExpandWord = (%d, %d, %q)", from, to, operand)
	}
}

func TestExpandWordEmptyAtWhitespace(t *testing.T) {
	d := source.NewDocument("a  b")
	from, to, operand := d.ExpandWord(source.Caret(2))
	if from != 2 || to != 2 || operand != "" {
		t.Errorf("ExpandWord = (%d, %d, %q), want empty span at cursor", from, to, operand)
	}
}
