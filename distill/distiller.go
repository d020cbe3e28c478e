package distill

import (
	"sort"

	"github.com/partialmodel/rbeas/partial"
)

// Distiller merges every partial sharing a common nonzero label into
// a single partial per label. Label-0 partials (unlabeled, or
// deliberately excluded noise partials) pass through unchanged and
// never participate in a merge, matching Channelizer's convention
// that label 0 means "not part of the harmonic structure."
type Distiller struct {
	// FadeTime bridges silent gaps between same-label partials with
	// null breakpoints. Defaults to 0.01s (10ms).
	FadeTime float64
}

// NewDistiller creates a Distiller with the default 10ms fade time.
func NewDistiller() *Distiller { return &Distiller{FadeTime: 0.01} }

// Distill groups partials by label, fuses each nonzero-label group
// into one partial, and returns the distilled list sorted by label:
// every label-0 partial (unchanged, in original order) first, then one
// fused partial per distinct nonzero label in ascending label order.
func (d *Distiller) Distill(partials partial.List) partial.List {
	groups := map[int][]*partial.Partial{}
	var unlabeled partial.List
	seen := map[int]bool{}
	var labels []int

	for _, p := range partials {
		if p.Label() == 0 {
			unlabeled = append(unlabeled, p)
			continue
		}
		if !seen[p.Label()] {
			seen[p.Label()] = true
			labels = append(labels, p.Label())
		}
		groups[p.Label()] = append(groups[p.Label()], p)
	}
	sort.Ints(labels)

	fadeTime := d.FadeTime
	if fadeTime <= 0 {
		fadeTime = 0.01
	}

	out := make(partial.List, 0, len(labels)+len(unlabeled))
	out = append(out, unlabeled...)
	for _, label := range labels {
		out = append(out, fuse(groups[label], label, fadeTime))
	}
	return out
}
