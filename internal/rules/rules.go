// Package rules evaluates toolbar button state from a structural context.
// The evaluator is surface-blind: it consumes only the shared action
// declarations and the normalized context shapes, so equal contexts produced
// by different surfaces yield bit-identical results.
package rules

import (
	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/editctx"
)

// State is the evaluated toolbar state for one action.
type State struct {
	// Active reports whether the cursor is inside the construct the action
	// toggles.
	Active bool

	// Disabled reports whether running the action now would be invalid or a
	// guaranteed no-op.
	Disabled bool
}

// ButtonState evaluates an action id against a structural context and the
// multi-selection context. Unknown ids are disabled.
func ButtonState(id string, ctx editctx.Context, multi editctx.MultiContext) State {
	decl, ok := action.Lookup(id)
	if !ok {
		return State{Disabled: true}
	}

	st := State{
		Active:   isActive(decl, ctx),
		Disabled: !requirementsMet(decl, ctx),
	}

	if multi.Enabled && !action.AllowedInMultiRange(decl.ID) {
		st.Disabled = true
	}

	return st
}

// requirementsMet reports whether every requirement of the declaration holds
// in the context.
func requirementsMet(decl action.Declaration, ctx editctx.Context) bool {
	for _, req := range decl.EnabledIn {
		if !requirementMet(req, ctx) {
			return false
		}
	}
	return true
}

func requirementMet(req action.Requirement, ctx editctx.Context) bool {
	switch req {
	case action.ReqAlways:
		return true
	case action.ReqTextblock:
		return ctx.InTextblock()
	case action.ReqNotInTable:
		return ctx.Table == nil
	case action.ReqTable:
		return ctx.Table != nil
	case action.ReqList:
		return ctx.List != nil
	case action.ReqBlockquote:
		return ctx.Blockquote != nil
	case action.ReqLink:
		return ctx.Link != nil
	default:
		return false
	}
}

// isActive evaluates the declaration's active-state probe.
func isActive(decl action.Declaration, ctx editctx.Context) bool {
	switch decl.Active {
	case action.ActiveMarkBold:
		return ctx.Marks.Bold
	case action.ActiveMarkItalic:
		return ctx.Marks.Italic
	case action.ActiveMarkStrike:
		return ctx.Marks.Strikethrough
	case action.ActiveMarkCode:
		return ctx.Marks.Code
	case action.ActiveHeading:
		if ctx.Heading == nil {
			return false
		}
		return decl.Arg == 0 || ctx.Heading.Level == decl.Arg
	case action.ActiveParagraph:
		return ctx.IsPlainParagraph()
	case action.ActiveBlockquote:
		return ctx.Blockquote != nil
	case action.ActiveListBullet:
		return ctx.List != nil && ctx.List.Type == editctx.ListBullet
	case action.ActiveListOrdered:
		return ctx.List != nil && ctx.List.Type == editctx.ListOrdered
	case action.ActiveListTask:
		return ctx.List != nil && ctx.List.Type == editctx.ListTask
	case action.ActiveLink:
		return ctx.Link != nil
	case action.ActiveImage:
		return ctx.InImage
	case action.ActiveMath:
		return ctx.InInlineMath
	case action.ActiveFootnote:
		return ctx.InFootnote
	case action.ActiveCodeBlock:
		return ctx.CodeBlock != nil
	default:
		return false
	}
}
