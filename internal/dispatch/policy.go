package dispatch

import (
	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/editctx"
)

// CanRun is the multi-selection policy gate, consulted before any dispatch.
// Under a single range everything passes. Under multiple ranges only actions
// in the shared allow-list run, and only when no range touches a construct
// that forbids batch edits (code block, table, inline math).
func CanRun(id string, mc editctx.MultiContext) (bool, string) {
	if !mc.Enabled {
		return true, ""
	}
	if !action.AllowedInMultiRange(id) {
		return false, "action " + id + " requires a single selection"
	}
	if mc.Reason != "" {
		return false, mc.Reason
	}
	return true, ""
}
