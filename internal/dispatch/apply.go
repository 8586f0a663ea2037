package dispatch

import (
	"errors"
	"sort"
)

// ErrReplacementsOverlap is returned when two computed replacements touch
// the same region of the snapshot.
var ErrReplacementsOverlap = errors.New("replacements overlap")

// Replacement is one range rewrite computed against a pre-mutation snapshot,
// using half-open [From, To) addressing in the surface's native offsets.
type Replacement struct {
	From, To int
	Text     string
}

// ApplyDescending applies replacements strictly from the highest From to the
// lowest, so pending lower-offset replacements keep valid positions. All
// replacement texts must have been computed against the same snapshot before
// the first apply call. Overlapping replacements are rejected up front.
func ApplyDescending(reps []Replacement, apply func(Replacement) error) error {
	if len(reps) == 0 {
		return nil
	}

	ordered := make([]Replacement, len(reps))
	copy(ordered, reps)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].From > ordered[j].From
	})

	for i := 1; i < len(ordered); i++ {
		if ordered[i].To > ordered[i-1].From {
			return ErrReplacementsOverlap
		}
	}

	for _, r := range ordered {
		if err := apply(r); err != nil {
			return err
		}
	}
	return nil
}
