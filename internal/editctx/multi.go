package editctx

// MultiContext summarizes an editing session with more than one selection
// range. It is computed once per selection change from the per-range contexts
// and consumed by the multi-selection policy before any dispatch. It is never
// persisted.
type MultiContext struct {
	// Enabled reports whether more than one range is active.
	Enabled bool

	// Reason explains why multi-range dispatch is restricted (empty when
	// unrestricted).
	Reason string

	// Construct facts: true when ANY range touches the construct. The policy
	// is conservative: one range inside a table restricts the whole dispatch.
	InCodeBlock  bool
	InTable      bool
	InList       bool
	InBlockquote bool
	InHeading    bool
	InLink       bool
	InInlineMath bool
	InFootnote   bool
	InImage      bool

	// InTextblock reports whether EVERY range sits in inline-capable content.
	InTextblock bool

	// SameBlockParent reports whether all ranges share the same innermost
	// block construct kind.
	SameBlockParent bool

	// BlockParentType is the shared block kind when SameBlockParent is true.
	BlockParentType string
}

// MultiFromContexts builds a MultiContext from the per-range contexts of the
// current selection set. An empty or single-element slice yields a disabled
// MultiContext.
func MultiFromContexts(ctxs []Context) MultiContext {
	mc := MultiContext{InTextblock: true}
	if len(ctxs) < 2 {
		if len(ctxs) == 1 {
			mc.InTextblock = ctxs[0].InTextblock()
			mc.SameBlockParent = true
			mc.BlockParentType = ctxs[0].BlockType()
		}
		return mc
	}

	mc.Enabled = true
	mc.SameBlockParent = true
	mc.BlockParentType = ctxs[0].BlockType()

	for _, c := range ctxs {
		mc.InCodeBlock = mc.InCodeBlock || c.CodeBlock != nil
		mc.InTable = mc.InTable || c.Table != nil
		mc.InList = mc.InList || c.List != nil
		mc.InBlockquote = mc.InBlockquote || c.Blockquote != nil
		mc.InHeading = mc.InHeading || c.Heading != nil
		mc.InLink = mc.InLink || c.Link != nil
		mc.InInlineMath = mc.InInlineMath || c.InInlineMath
		mc.InFootnote = mc.InFootnote || c.InFootnote
		mc.InImage = mc.InImage || c.InImage
		mc.InTextblock = mc.InTextblock && c.InTextblock()

		if c.BlockType() != mc.BlockParentType {
			mc.SameBlockParent = false
		}
	}
	if !mc.SameBlockParent {
		mc.BlockParentType = ""
	}

	switch {
	case mc.InCodeBlock:
		mc.Reason = "selection touches a code block"
	case mc.InTable:
		mc.Reason = "selection spans table cells"
	case mc.InInlineMath:
		mc.Reason = "selection touches inline math"
	}

	return mc
}
