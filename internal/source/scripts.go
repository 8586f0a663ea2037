package source

import (
	"context"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/dispatch"
)

// ScriptRunner runs a named user script as a pure text transform. meta
// carries position details the script may consult.
type ScriptRunner interface {
	Transform(ctx context.Context, name, input string, meta map[string]string) (string, error)
}

// RegisterScripts exposes a script runner's scripts as "script.<name>"
// actions on this surface.
func (s *Surface) RegisterScripts(r ScriptRunner) {
	s.disp.RegisterFamily(action.ScriptPrefix, func(act action.Action) dispatch.Result {
		return s.runScript(r, act)
	})
}

// runScript applies one script to every selection range. The operand is the
// selection text, or the word under an empty cursor. Replacements are
// computed against the pre-mutation snapshot and applied descending.
func (s *Surface) runScript(r ScriptRunner, act action.Action) dispatch.Result {
	name, ok := action.ScriptName(act.ID)
	if !ok {
		return dispatch.NoOp()
	}

	var edits []Edit
	cursor := -1

	sels := s.doc.Selections()
	for i := len(sels) - 1; i >= 0; i-- {
		from, to, operand := s.doc.ExpandWord(sels[i])
		if operand == "" {
			continue
		}

		meta := map[string]string{
			"blockType": s.doc.ContextFor(sels[i]).BlockType(),
		}
		out, err := r.Transform(context.Background(), name, operand, meta)
		if err != nil {
			s.co.Logger.Printf("script %s: %v", name, err)
			return dispatch.Error(err)
		}
		if out == operand {
			continue
		}

		edits = append(edits, Edit{From: from, To: to, Text: out})
		if i == 0 {
			cursor = from + len(out)
		}
	}

	if len(edits) == 0 {
		return dispatch.NoOp()
	}
	if err := s.doc.ApplyEdits(edits); err != nil {
		return dispatch.Error(err)
	}
	if cursor >= 0 {
		s.doc.SetCursor(cursor)
	}
	return dispatch.OK()
}
