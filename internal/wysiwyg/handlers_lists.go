package wysiwyg

import (
	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/dispatch"
	"github.com/inkwell-md/inkwell/internal/editctx"
)

// listAction builds the handler converting selected blocks to the target
// list type. A block already of the target type toggles back to a
// paragraph; any other convertible block becomes an item in place.
func (s *Surface) listAction(target editctx.ListType) dispatch.HandlerFunc {
	return func(act action.Action) dispatch.Result {
		return s.rewriteBlocks(func(b *Block) bool {
			if b.Kind == BlockListItem && b.ListType == target {
				asParagraph(b)
				return true
			}
			depth := b.ListDepth
			if depth == 0 {
				depth = 1
			}
			asParagraph(b)
			b.Kind = BlockListItem
			b.ListType = target
			b.ListDepth = depth
			return true
		})
	}
}

func (s *Surface) removeList(act action.Action) dispatch.Result {
	return s.rewriteBlocks(func(b *Block) bool {
		if b.Kind != BlockListItem {
			return false
		}
		asParagraph(b)
		return true
	})
}

func (s *Surface) indentList(act action.Action) dispatch.Result {
	return s.rewriteBlocks(func(b *Block) bool {
		if b.Kind != BlockListItem {
			return false
		}
		b.ListDepth++
		return true
	})
}

func (s *Surface) outdentList(act action.Action) dispatch.Result {
	return s.rewriteBlocks(func(b *Block) bool {
		if b.Kind != BlockListItem || b.ListDepth <= 1 {
			return false
		}
		b.ListDepth--
		return true
	})
}

// renumberLists rewrites ordinals so every contiguous ordered run counts
// 1..n per depth. Runs break on any non-list block.
func (s *Surface) renumberLists() {
	counters := make(map[int]int)
	for _, b := range s.doc.Blocks() {
		if b.Kind != BlockListItem {
			if len(counters) > 0 {
				counters = make(map[int]int)
			}
			continue
		}
		// A shallower item resets deeper counters.
		for d := range counters {
			if d > b.ListDepth {
				delete(counters, d)
			}
		}
		if b.ListType == editctx.ListOrdered {
			counters[b.ListDepth]++
			b.Ordinal = counters[b.ListDepth]
		} else {
			counters[b.ListDepth] = 0
		}
	}
}
