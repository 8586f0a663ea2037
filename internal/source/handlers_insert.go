package source

import (
	"strconv"
	"strings"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/clipboard"
	"github.com/inkwell-md/inkwell/internal/dispatch"
)

// insertLink inserts a markdown link at the cursor. The destination comes
// from an explicit argument, else from a clipboard URL; the link text comes
// from the selection, else from the word under the cursor. With neither, an
// empty placeholder is inserted with the cursor inside the parentheses.
func (s *Surface) insertLink(act action.Action) dispatch.Result {
	href := act.Args.Href
	if href == "" {
		content, res, ok := s.probeClipboard("insertLink")
		if !ok {
			return res
		}
		if content.Kind == clipboard.KindURL {
			href = content.Value
		}
	}

	from, to, operand := s.doc.ExpandWord(s.doc.Primary())
	if act.Args.Text != "" {
		operand = act.Args.Text
	}

	text := "[" + operand + "](" + href + ")"
	end, err := s.doc.Replace(from, to, text)
	if err != nil {
		return dispatch.Error(err)
	}
	if href == "" {
		// Inside the empty parentheses for immediate fill-in.
		s.doc.SetCursor(end - 1)
	} else if operand == "" {
		s.doc.SetCursor(from + 1)
	} else {
		s.doc.SetCursor(end)
	}
	return dispatch.OK()
}

// insertBookmarkLink inserts a wiki-style bookmark link. The target comes
// from the selection or the word under the cursor.
func (s *Surface) insertBookmarkLink(act action.Action) dispatch.Result {
	from, to, operand := s.doc.ExpandWord(s.doc.Primary())
	if act.Args.Text != "" {
		operand = act.Args.Text
	}

	end, err := s.doc.Replace(from, to, "[["+operand+"]]")
	if err != nil {
		return dispatch.Error(err)
	}
	if operand == "" {
		s.doc.SetCursor(from + 2)
	} else {
		s.doc.SetCursor(end)
	}
	return dispatch.OK()
}

// unlink replaces the link under the cursor with its display text. For
// aliased wiki links the alias wins over the target. Without a link under
// the cursor the action reports no effect.
func (s *Surface) unlink(act action.Action) dispatch.Result {
	sel := s.doc.Primary()
	line := s.doc.LineForOffset(sel.Head)
	lineStart := s.doc.LineStart(line)

	span, ok := LinkAt(s.doc.LineText(line), sel.Head-lineStart)
	if !ok {
		return dispatch.NoOp()
	}

	end, err := s.doc.Replace(lineStart+span.From, lineStart+span.To, span.Text)
	if err != nil {
		return dispatch.Error(err)
	}
	s.doc.SetCursor(end)
	return dispatch.OK()
}

// insertImage inserts an image reference. A clipboard image path or image
// URL pre-fills the destination; local paths are copied into the document's
// asset directory first. An unsaved document cannot anchor assets: the user
// is warned once and an empty placeholder is inserted instead.
func (s *Surface) insertImage(act action.Action) dispatch.Result {
	href := act.Args.Href
	if href == "" {
		content, res, ok := s.probeClipboard("insertImage")
		if !ok {
			return res
		}
		if content.IsImage() {
			if content.NeedsCopy {
				docPath := s.co.DocPath()
				if docPath == "" {
					s.co.Warn("Save the document before inserting local images.")
				} else if ref, err := s.co.Assets.Copy(docPath, content.Value); err != nil {
					s.co.Logger.Printf("asset copy failed: %v", err)
				} else {
					href = ref
				}
			} else {
				href = content.Value
			}
		}
	}

	from, to, operand := s.doc.ExpandWord(s.doc.Primary())
	if act.Args.Text != "" {
		operand = act.Args.Text
	}

	text := "![" + operand + "](" + href + ")"
	end, err := s.doc.Replace(from, to, text)
	if err != nil {
		return dispatch.Error(err)
	}
	if href == "" {
		s.doc.SetCursor(end - 1)
	} else {
		s.doc.SetCursor(end)
	}
	return dispatch.OK()
}

// insertMath wraps the selection or the word under the cursor in inline
// math delimiters; with neither, empty delimiters are inserted with the
// cursor between them.
func (s *Surface) insertMath(act action.Action) dispatch.Result {
	from, to, operand := s.doc.ExpandWord(s.doc.Primary())
	if act.Args.Text != "" {
		operand = act.Args.Text
	}

	end, err := s.doc.Replace(from, to, "$"+operand+"$")
	if err != nil {
		return dispatch.Error(err)
	}
	if operand == "" {
		s.doc.SetCursor(from + 1)
	} else {
		s.doc.SetCursor(end)
	}
	return dispatch.OK()
}

// insertFootnote inserts the next free footnote reference at the cursor and
// appends its definition stub at the end of the document, leaving the cursor
// on the definition for immediate fill-in.
func (s *Surface) insertFootnote(act action.Action) dispatch.Result {
	n := 1
	for _, m := range footnoteRe.FindAllStringSubmatch(s.doc.Text(), -1) {
		if v, err := strconv.Atoi(m[1]); err == nil && v >= n {
			n = v + 1
		}
	}
	label := "[^" + strconv.Itoa(n) + "]"

	cursor := s.doc.Primary().Head
	def := "\n" + label + ": "
	if !strings.HasSuffix(s.doc.Text(), "\n") && s.doc.Len() > 0 {
		def = "\n" + def
	}

	// Definition goes in first (higher offset), then the reference.
	edits := []Edit{
		{From: s.doc.Len(), To: s.doc.Len(), Text: def},
		{From: cursor, To: cursor, Text: label},
	}
	if err := s.doc.ApplyEdits(edits); err != nil {
		return dispatch.Error(err)
	}
	s.doc.SetCursor(s.doc.Len())
	return dispatch.OK()
}
