package wysiwyg

import (
	"strconv"
	"strings"

	"github.com/inkwell-md/inkwell/internal/editctx"
)

// Markdown serializes the block tree back to markdown text. Serialization
// inverts Parse so a surface swap never rewrites untouched content.
func (d *Document) Markdown() string {
	var lines []string
	for _, b := range d.blocks {
		lines = append(lines, serializeBlock(b)...)
	}
	return strings.Join(lines, "\n")
}

func serializeBlock(b *Block) []string {
	prefix := strings.Repeat("> ", b.QuoteDepth)

	switch b.Kind {
	case BlockHeading:
		return []string{prefix + strings.Repeat("#", b.Level) + " " + serializeRuns(b.Runs)}
	case BlockListItem:
		return []string{prefix + serializeListItem(b)}
	case BlockCode:
		lines := []string{prefix + "```" + b.Language}
		if b.Code != "" {
			for _, l := range strings.Split(b.Code, "\n") {
				lines = append(lines, prefix+l)
			}
		}
		return append(lines, prefix+"```")
	case BlockTable:
		return serializeTable(b.Table, prefix)
	case BlockRule:
		return []string{prefix + "---"}
	default:
		return []string{prefix + serializeRuns(b.Runs)}
	}
}

func serializeListItem(b *Block) string {
	indent := strings.Repeat("  ", b.ListDepth-1)
	switch b.ListType {
	case editctx.ListOrdered:
		n := b.Ordinal
		if n <= 0 {
			n = 1
		}
		return indent + strconv.Itoa(n) + ". " + serializeRuns(b.Runs)
	case editctx.ListTask:
		box := "[ ]"
		if b.Checked {
			box = "[x]"
		}
		return indent + "- " + box + " " + serializeRuns(b.Runs)
	default:
		return indent + "- " + serializeRuns(b.Runs)
	}
}

func serializeTable(t *Table, prefix string) []string {
	lines := make([]string, 0, len(t.Rows)+1)
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for c, cell := range row {
			cells[c] = serializeRuns(cell.Runs)
		}
		lines = append(lines, prefix+"| "+strings.Join(cells, " | ")+" |")
		if i == 0 {
			seps := make([]string, len(row))
			for c := range row {
				align := "left"
				if c < len(t.Aligns) && t.Aligns[c] != "" {
					align = t.Aligns[c]
				}
				switch align {
				case "center":
					seps[c] = ":---:"
				case "right":
					seps[c] = "---:"
				default:
					seps[c] = "---"
				}
			}
			lines = append(lines, prefix+"| "+strings.Join(seps, " | ")+" |")
		}
	}
	return lines
}

// serializeRuns renders runs as inline markdown. Emphasis nests bold
// outermost, then strikethrough, then italic; code spans are exclusive of
// other marks.
func serializeRuns(runs []Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(serializeRun(r))
	}
	return sb.String()
}

func serializeRun(r Run) string {
	switch r.Kind {
	case RunImage:
		return "![" + r.Text + "](" + r.Src + ")"
	case RunMath:
		return "$" + r.Text + "$"
	case RunFootnote:
		return "[^" + r.Text + "]"
	}

	s := r.Text
	if r.Marks.Code {
		s = "`" + s + "`"
	} else {
		if r.Marks.Italic {
			s = "*" + s + "*"
		}
		if r.Marks.Strikethrough {
			s = "~~" + s + "~~"
		}
		if r.Marks.Bold {
			s = "**" + s + "**"
		}
	}

	if r.Link != nil {
		if r.Link.Wiki {
			if s == r.Link.Href {
				return "[[" + s + "]]"
			}
			return "[[" + r.Link.Href + "|" + s + "]]"
		}
		return "[" + s + "](" + r.Link.Href + ")"
	}
	return s
}
