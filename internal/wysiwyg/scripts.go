package wysiwyg

import (
	"context"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/dispatch"
	"github.com/inkwell-md/inkwell/internal/source"
)

// ScriptRunner is the shared script transform contract.
type ScriptRunner = source.ScriptRunner

// RegisterScripts exposes a script runner's scripts as "script.<name>"
// actions on this surface.
func (s *Surface) RegisterScripts(r ScriptRunner) {
	s.disp.RegisterFamily(action.ScriptPrefix, func(act action.Action) dispatch.Result {
		return s.runScript(r, act)
	})
}

// runScript applies one script to every selection range, later ranges
// first. Script output is parsed as inline markdown so a script may emit
// styled text.
func (s *Surface) runScript(r ScriptRunner, act action.Action) dispatch.Result {
	name, ok := action.ScriptName(act.ID)
	if !ok {
		return dispatch.NoOp()
	}

	changed := false
	var cursor Position
	hasCursor := false

	sels := s.doc.Selections()
	for i := len(sels) - 1; i >= 0; i-- {
		sel := sels[i]
		if !s.editableAt(sel.Head) {
			continue
		}

		runs := s.doc.runsAt(sel.Head)
		from, to, operand := s.operandRange(sel, runs)
		if operand == "" {
			continue
		}

		meta := map[string]string{
			"blockType": s.doc.ContextFor(sel).BlockType(),
		}
		out, err := r.Transform(context.Background(), name, operand, meta)
		if err != nil {
			s.co.Logger.Printf("script %s: %v", name, err)
			return dispatch.Error(err)
		}
		if out == operand {
			continue
		}

		split, lo, hi := splitRange(cloneRuns(runs), from, to)
		parsed := parseInline(out)
		next := append(split[:lo], append(parsed, split[hi:]...)...)
		s.doc.setRunsAt(sel.Head, mergeRuns(next))
		changed = true

		if i == 0 {
			cursor = sel.Head
			cursor.Offset = from + runsWidth(parsed)
			hasCursor = true
		}
	}

	if !changed {
		return dispatch.NoOp()
	}
	if hasCursor {
		s.doc.SetCursor(cursor)
	}
	return dispatch.OK()
}
