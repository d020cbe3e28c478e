package distill

import (
	"math"

	"github.com/partialmodel/rbeas/manipulate"
	"github.com/partialmodel/rbeas/partial"
)

// Sieve removes redundant same-label overlap between partials, keeping
// the more energetic partial of every overlapping pair intact and
// trimming the other down to whatever non-overlapping portion of its
// span remains. Where Distiller fuses same-label partials together,
// Sieve trims: it is meant to run first, clearing out the overlap the
// Analyzer's tracker occasionally produces when a duplicate track
// starts before an existing one ends, before Distiller fuses what is
// left. Label-0 partials are never touched. The louder partial of a
// pair is decided by total energy across its whole span, not a
// breakpoint-by-breakpoint comparison within the overlap itself.
type Sieve struct{}

// NewSieve creates a Sieve.
func NewSieve() *Sieve { return &Sieve{} }

// Sift returns partials with overlapping same-label duplicates
// trimmed to their non-overlapping portions.
func (s *Sieve) Sift(partials partial.List) partial.List {
	groups := map[int][]*partial.Partial{}
	var order []int
	var unlabeled partial.List

	for _, p := range partials {
		if p.Label() == 0 {
			unlabeled = append(unlabeled, p)
			continue
		}
		if _, seen := groups[p.Label()]; !seen {
			order = append(order, p.Label())
		}
		groups[p.Label()] = append(groups[p.Label()], p)
	}

	out := make(partial.List, 0, len(partials))
	for _, label := range order {
		out = append(out, sieveGroup(groups[label])...)
	}
	out = append(out, unlabeled...)
	return out
}

// sieveGroup repeatedly finds the first overlapping pair, keeps the
// more energetic member whole, and replaces the other with its
// trimmed non-overlapping fragment(s), until no two survivors overlap.
func sieveGroup(group []*partial.Partial) []*partial.Partial {
	survivors := append([]*partial.Partial(nil), group...)

	for {
		i, j, lo, hi := firstOverlap(survivors)
		if i < 0 {
			break
		}

		loud, quiet := survivors[i], survivors[j]
		if totalEnergy(quiet) > totalEnergy(loud) {
			loud, quiet = quiet, loud
		}

		next := make([]*partial.Partial, 0, len(survivors)+1)
		for _, p := range survivors {
			if p != quiet {
				next = append(next, p)
			}
		}
		next = append(next, trimToNonOverlapping(quiet, lo, hi)...)
		survivors = next
	}
	return survivors
}

// firstOverlap returns the indices and overlap window of the first
// overlapping pair found in survivors, or i == -1 if none overlap.
func firstOverlap(survivors []*partial.Partial) (i, j int, lo, hi float64) {
	for a := 0; a < len(survivors); a++ {
		for b := a + 1; b < len(survivors); b++ {
			if overlaps(survivors[a], survivors[b]) {
				return a, b, math.Max(survivors[a].StartTime(), survivors[b].StartTime()),
					math.Min(survivors[a].EndTime(), survivors[b].EndTime())
			}
		}
	}
	return -1, -1, 0, 0
}

// trimToNonOverlapping crops quiet down to whatever lies outside
// [lo, hi]: a leading fragment if quiet starts before lo, a trailing
// fragment if it ends after hi. A quiet partial whose entire span lies
// within [lo, hi] has no non-overlapping portion and is dropped
// entirely.
func trimToNonOverlapping(quiet *partial.Partial, lo, hi float64) []*partial.Partial {
	var fragments []*partial.Partial
	if quiet.StartTime() < lo {
		if lead := cropFragment(quiet, quiet.StartTime(), lo); lead != nil {
			fragments = append(fragments, lead)
		}
	}
	if quiet.EndTime() > hi {
		if trail := cropFragment(quiet, hi, quiet.EndTime()); trail != nil {
			fragments = append(fragments, trail)
		}
	}
	return fragments
}

func cropFragment(p *partial.Partial, t0, t1 float64) *partial.Partial {
	frag := p.Clone()
	cropper, err := manipulate.NewCropper(t0, t1)
	if err != nil {
		return nil
	}
	if err := cropper.Crop(frag); err != nil || frag.IsEmpty() {
		return nil
	}
	return frag
}

func overlaps(a, b *partial.Partial) bool {
	return a.StartTime() < b.EndTime() && b.StartTime() < a.EndTime()
}

func totalEnergy(p *partial.Partial) float64 {
	sum := 0.0
	for _, e := range p.Entries() {
		sum += e.BP.Amplitude * e.BP.Amplitude
	}
	return sum
}
