package source

import (
	"strconv"
	"strings"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/dispatch"
	"github.com/inkwell-md/inkwell/internal/editctx"
)

// listTarget selects the conversion target for the list actions.
type listTarget uint8

const (
	listTargetBullet listTarget = iota
	listTargetOrdered
	listTargetTask
)

func (t listTarget) listType() editctx.ListType {
	switch t {
	case listTargetOrdered:
		return editctx.ListOrdered
	case listTargetTask:
		return editctx.ListTask
	default:
		return editctx.ListBullet
	}
}

// parseListLine splits a line into indent, marker region, and content.
func parseListLine(text string) (indent, content string, typ editctx.ListType, isList bool) {
	m := listRe.FindStringSubmatch(text)
	if m == nil {
		return "", text, 0, false
	}
	switch {
	case m[3] != "":
		typ = editctx.ListTask
	case m[2] == "-" || m[2] == "*" || m[2] == "+":
		typ = editctx.ListBullet
	default:
		typ = editctx.ListOrdered
	}
	return m[1], text[len(m[0]):], typ, true
}

// listAction builds the handler converting selected lines to the target
// list type. A line already of the target type toggles off to plain text;
// any other line converts in place, never stacking a second marker.
func (s *Surface) listAction(target listTarget) dispatch.HandlerFunc {
	return func(act action.Action) dispatch.Result {
		if !s.inBlockContext() {
			return dispatch.NoOp()
		}

		lines := s.selectedLines()
		// Ordered lists number sequentially over the converted lines.
		ordinals := make(map[int]int, len(lines))
		for i, line := range lines {
			ordinals[line] = i + 1
		}

		return s.rewriteLines(lines, func(line int, text string) (string, bool) {
			indent, content, typ, isList := parseListLine(text)
			if isList && typ == target.listType() {
				return indent + content, true
			}
			switch target {
			case listTargetOrdered:
				return indent + strconv.Itoa(ordinals[line]) + ". " + content, true
			case listTargetTask:
				return indent + s.cfg.BulletMarker + " [ ] " + content, true
			default:
				return indent + s.cfg.BulletMarker + " " + content, true
			}
		})
	}
}

// removeList strips the list marker from selected lines.
func (s *Surface) removeList(act action.Action) dispatch.Result {
	if !s.inBlockContext() {
		return dispatch.NoOp()
	}
	return s.rewriteLines(s.selectedLines(), func(_ int, text string) (string, bool) {
		indent, content, _, isList := parseListLine(text)
		if !isList {
			return text, false
		}
		return indent + content, true
	})
}

// indentList nests selected list items one level deeper.
func (s *Surface) indentList(act action.Action) dispatch.Result {
	if !s.inBlockContext() {
		return dispatch.NoOp()
	}
	return s.rewriteLines(s.selectedLines(), func(_ int, text string) (string, bool) {
		if _, _, _, isList := parseListLine(text); !isList {
			return text, false
		}
		return "  " + text, true
	})
}

// outdentList unnests selected list items one level; top-level items report
// no effect.
func (s *Surface) outdentList(act action.Action) dispatch.Result {
	if !s.inBlockContext() {
		return dispatch.NoOp()
	}
	return s.rewriteLines(s.selectedLines(), func(_ int, text string) (string, bool) {
		indent, _, _, isList := parseListLine(text)
		if !isList || indent == "" {
			return text, false
		}
		switch {
		case strings.HasPrefix(text, "  "):
			return text[2:], true
		case strings.HasPrefix(text, "\t"), strings.HasPrefix(text, " "):
			return text[1:], true
		}
		return text, false
	})
}
