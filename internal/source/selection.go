package source

// Selection is an anchor/head pair in absolute byte offsets. Head is the
// moving end; the cursor sits at Head. The covered range is half-open
// [Start, End).
type Selection struct {
	Anchor int
	Head   int
}

// Caret creates an empty selection at an offset.
func Caret(offset int) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// Sel creates a selection from anchor to head.
func Sel(anchor, head int) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// IsEmpty reports whether the selection is a bare cursor.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Start returns the lower offset.
func (s Selection) Start() int {
	if s.Anchor < s.Head {
		return s.Anchor
	}
	return s.Head
}

// End returns the higher offset.
func (s Selection) End() int {
	if s.Anchor > s.Head {
		return s.Anchor
	}
	return s.Head
}

// Len returns the selection length in bytes.
func (s Selection) Len() int {
	return s.End() - s.Start()
}

// Contains reports whether offset falls inside the half-open range.
func (s Selection) Contains(offset int) bool {
	return offset >= s.Start() && offset < s.End()
}

// Clamp limits the selection to [0, max].
func (s Selection) Clamp(max int) Selection {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > max {
			return max
		}
		return v
	}
	return Selection{Anchor: clamp(s.Anchor), Head: clamp(s.Head)}
}
