// Package diff computes, applies and serializes text patches between two response bodies.
//
// A patch produced by Compute is a single substitution: the longest common prefix
// and the longest non-overlapping common suffix of the two texts are kept and
// everything in between is replaced. Offsets are byte offsets into the old text.
package diff

import (
	"sort"
	"unicode/utf8"
)

// Edit replaces DeleteCount bytes of the old text starting at Index with Text.
type Edit struct {
	Index       int
	DeleteCount int
	Text        string
}

// Patch is an ordered list of edits. An empty patch means "no change".
type Patch []Edit

// Compute returns the patch that turns old into cur. Equal inputs produce an empty patch.
func Compute(old, cur string) Patch {
	if old == cur {
		return Patch{}
	}

	prefix := commonPrefix(old, cur)
	suffix := commonSuffix(old[prefix:], cur[prefix:])

	return Patch{{
		Index:       prefix,
		DeleteCount: len(old) - prefix - suffix,
		Text:        cur[prefix : len(cur)-suffix],
	}}
}

// Apply applies p to old. Edits are applied from the highest index down so that
// earlier offsets stay valid. Out-of-range offsets are clamped.
func Apply(old string, p Patch) string {
	if len(p) == 0 {
		return old
	}

	edits := make(Patch, len(p))
	copy(edits, p)
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Index > edits[j].Index
	})

	out := old
	for _, e := range edits {
		start := clamp(e.Index, 0, len(out))
		end := clamp(start+max(e.DeleteCount, 0), start, len(out))
		out = out[:start] + e.Text + out[end:]
	}
	return out
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	// Back off to a rune boundary so the replaced span never splits a character.
	for i > 0 && i < len(a) && !utf8.RuneStart(a[i]) {
		i--
	}
	for i > 0 && i < len(b) && !utf8.RuneStart(b[i]) {
		i--
	}
	return i
}

func commonSuffix(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	for i > 0 && (!utf8.RuneStart(a[len(a)-i]) || !utf8.RuneStart(b[len(b)-i])) {
		i--
	}
	return i
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
