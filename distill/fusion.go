// Package distill implements three partial-reduction components.
// Distiller and Collator share one fusion kernel — combine every
// overlapping member's value by energy at each instant, bridge silent
// gaps with null breakpoints, and re-align phase by unwrapping — and
// differ in how they partition the incoming partials into the groups
// the kernel fuses: Distiller groups by label, Collator packs label-0
// partials into time-slot channels. Sieve does not fuse: within each
// label it trims the quieter of two overlapping partials down to the
// part of its span outside the overlap. Grounded on Partial's own ParamsAt
// interpolation contract in package partial.
package distill

import (
	"math"
	"sort"

	"github.com/partialmodel/rbeas/partial"
)

type fusionEntry struct {
	time  float64
	freq  float64
	amp   float64
	bw    float64
	phase float64
}

// fuse merges group into a single new partial labeled label. The
// fusion instants are the union of every member's own breakpoint
// times; at each instant every member currently active there
// contributes its sampled value (mergeAt), and any silent gap between
// group members wider than 2*fadeTime is bridged with a pair of null
// breakpoints fadeTime inside the gap on either side (a single null at
// the gap's midpoint when the gap is 2*fadeTime or narrower). group
// need not be sorted or non-overlapping.
func fuse(group []*partial.Partial, label int, fadeTime float64) *partial.Partial {
	merged := make([]fusionEntry, 0, len(group))
	for _, t := range unionTimes(group) {
		if e, ok := mergeAt(group, t); ok {
			merged = append(merged, e)
		}
	}

	merged = insertGapNulls(merged, group, fadeTime)
	unwrapPhase(merged)

	out := partial.New(label)
	for _, m := range merged {
		_ = out.SetBreakpoint(m.time, partial.Breakpoint{
			Frequency: m.freq, Amplitude: m.amp, Bandwidth: m.bw, Phase: m.phase,
		})
	}
	return out
}

// unionTimes returns the sorted, de-duplicated set of breakpoint times
// across every member of group.
func unionTimes(group []*partial.Partial) []float64 {
	seen := map[float64]bool{}
	var times []float64
	for _, p := range group {
		for _, e := range p.Entries() {
			if !seen[e.Time] {
				seen[e.Time] = true
				times = append(times, e.Time)
			}
		}
	}
	sort.Float64s(times)
	return times
}

// contribution is one group member's sampled value at a fusion
// instant, tagged with whether that instant is one of the member's own
// recorded breakpoints (exact) or only a value interpolated because
// some other member happens to own a breakpoint there.
type contribution struct {
	fusionEntry
	exact bool
}

// mergeAt samples every member of group that is active at time t
// (t within that member's own [StartTime, EndTime]) and combines the
// results: amplitude as an energy sum (sqrt of summed squared
// amplitudes), frequency as an energy-weighted mean, phase from the
// loudest contributor. Bandwidth is an energy-weighted mean of each
// exact contributor's own bandwidth; a contributor sampled only by
// interpolation (it has no breakpoint of its own at t, so its value
// there can't be distinguished from whatever it's overlapping) has its
// entire energy counted as noise instead of a continuation of its own
// sinusoid. Combining breakpoints that are exact for every contributor
// reduces to a plain energy-weighted bandwidth average with no added
// noise. ok is false only when no member is active at t.
func mergeAt(group []*partial.Partial, t float64) (fusionEntry, bool) {
	var contributions []contribution
	for _, p := range group {
		if p.IsEmpty() || t < p.StartTime() || t > p.EndTime() {
			continue
		}
		bp := p.ParamsAt(t)
		_, exact := p.IndexAt(t)
		contributions = append(contributions, contribution{
			fusionEntry: fusionEntry{time: t, freq: bp.Frequency, amp: bp.Amplitude, bw: bp.Bandwidth, phase: bp.Phase},
			exact:       exact,
		})
	}
	if len(contributions) == 0 {
		return fusionEntry{}, false
	}
	if len(contributions) == 1 {
		return contributions[0].fusionEntry, true
	}

	energySum, weightedFreq, bwNumerator := 0.0, 0.0, 0.0
	loudestAmp, loudestPhase := -1.0, 0.0
	for _, c := range contributions {
		energy := c.amp * c.amp
		energySum += energy
		weightedFreq += energy * c.freq
		if c.exact {
			bwNumerator += energy * c.bw
		} else {
			bwNumerator += energy
		}
		if c.amp > loudestAmp {
			loudestAmp = c.amp
			loudestPhase = c.phase
		}
	}
	if energySum <= 0 {
		return fusionEntry{time: t, phase: loudestPhase}, true
	}
	return fusionEntry{
		time:  t,
		freq:  weightedFreq / energySum,
		amp:   math.Sqrt(energySum),
		bw:    bwNumerator / energySum,
		phase: loudestPhase,
	}, true
}

// activeDuring reports whether any member of group is active (playing,
// not merely touching an endpoint) anywhere in the open interval
// (lo, hi).
func activeDuring(group []*partial.Partial, lo, hi float64) bool {
	for _, p := range group {
		if p.IsEmpty() {
			continue
		}
		if p.StartTime() < hi && p.EndTime() > lo {
			return true
		}
	}
	return false
}

// closingMember returns the group member whose last breakpoint is at
// t, if any; openingMember the symmetric lookup for a first
// breakpoint at t.
func closingMember(group []*partial.Partial, t float64) *partial.Partial {
	for _, p := range group {
		if !p.IsEmpty() && p.EndTime() == t {
			return p
		}
	}
	return nil
}

func openingMember(group []*partial.Partial, t float64) *partial.Partial {
	for _, p := range group {
		if !p.IsEmpty() && p.StartTime() == t {
			return p
		}
	}
	return nil
}

// insertGapNulls brackets every genuinely silent gap between
// consecutive merged breakpoints (no group member active anywhere in
// the gap) with null breakpoints: a pair at fadeTime inside either
// edge when the gap exceeds 2*fadeTime, a single one at the gap's
// midpoint otherwise. Gaps where some member stays active throughout
// (interpolating across its own sparse breakpoints) are left alone,
// and partials that abut exactly are skipped.
func insertGapNulls(merged []fusionEntry, group []*partial.Partial, fadeTime float64) []fusionEntry {
	if len(merged) < 2 {
		return merged
	}

	out := make([]fusionEntry, 0, len(merged)*2)
	out = append(out, merged[0])
	for i := 1; i < len(merged); i++ {
		lo, hi := merged[i-1].time, merged[i].time
		gap := hi - lo
		if gap <= 0 || activeDuring(group, lo, hi) {
			out = append(out, merged[i])
			continue
		}

		closeFreq, closePhase := merged[i-1].freq, merged[i-1].phase
		if c := closingMember(group, lo); c != nil {
			bp := c.ParamsAt(lo)
			closeFreq, closePhase = bp.Frequency, bp.Phase
		}
		openFreq, openPhase := merged[i].freq, merged[i].phase
		if o := openingMember(group, hi); o != nil {
			bp := o.ParamsAt(hi)
			openFreq, openPhase = bp.Frequency, bp.Phase
		}

		if gap > 2*fadeTime {
			out = append(out,
				fusionEntry{time: lo + fadeTime, freq: closeFreq, amp: 0, bw: 0, phase: closePhase},
				fusionEntry{time: hi - fadeTime, freq: openFreq, amp: 0, bw: 0, phase: openPhase},
			)
		} else {
			mid := (lo + hi) / 2
			out = append(out, fusionEntry{time: mid, freq: closeFreq, amp: 0, bw: 0, phase: closePhase})
		}
		out = append(out, merged[i])
	}
	return out
}

// unwrapPhase re-aligns each breakpoint's phase to the nearest value
// consistent with integrating the average of its neighboring
// frequencies forward from the previous breakpoint, removing 2*pi
// jumps introduced by combining phase values that originated from
// different source partials.
func unwrapPhase(merged []fusionEntry) {
	for i := 1; i < len(merged); i++ {
		prev, cur := merged[i-1], merged[i]
		avgFreq := (prev.freq + cur.freq) / 2
		expected := prev.phase + 2*math.Pi*avgFreq*(cur.time-prev.time)
		diff := cur.phase - expected
		k := math.Round(diff / (2 * math.Pi))
		merged[i].phase = cur.phase - k*2*math.Pi
	}
}
