package manipulate

import (
	"math"

	"github.com/partialmodel/rbeas/partial"
)

// ScaleFrequency multiplies every breakpoint's frequency in every
// partial by factor, in place. Grounded on
// PartialUtils::scaleFrequency in original_source/utils/loris_dilate.C.
func ScaleFrequency(list partial.List, factor float64) error {
	return mapBreakpoints(list, func(bp *partial.Breakpoint) { bp.Frequency *= factor })
}

// ScaleAmplitude multiplies every breakpoint's amplitude in every
// partial by factor, in place. Grounded on
// PartialUtils::scaleAmplitude in original_source/utils/loris_dilate.C.
func ScaleAmplitude(list partial.List, factor float64) error {
	return mapBreakpoints(list, func(bp *partial.Breakpoint) { bp.Amplitude *= factor })
}

// ScaleBandwidth multiplies every breakpoint's bandwidth by factor,
// clamped back into [0, 1], in place.
func ScaleBandwidth(list partial.List, factor float64) error {
	return mapBreakpoints(list, func(bp *partial.Breakpoint) {
		bp.Bandwidth *= factor
		if bp.Bandwidth < 0 {
			bp.Bandwidth = 0
		}
		if bp.Bandwidth > 1 {
			bp.Bandwidth = 1
		}
	})
}

// ShiftTime adds offset seconds to every breakpoint time in every
// partial, in place.
func ShiftTime(list partial.List, offset float64) error {
	for _, p := range list {
		if p.IsEmpty() {
			continue
		}
		entries := p.Entries()
		for i := range entries {
			entries[i].Time += offset
		}
		if err := p.SetEntries(entries); err != nil {
			return err
		}
	}
	return nil
}

// ShiftPitch scales every breakpoint's frequency by 2^(semitones/12),
// a musically-natural alternative to ScaleFrequency's raw ratio.
func ShiftPitch(list partial.List, semitones float64) error {
	ratio := math.Pow(2, semitones/12)
	return ScaleFrequency(list, ratio)
}

// TimeSpan returns the earliest start time and latest end time across
// every non-empty partial in list. ok is false if list has no
// non-empty partials.
func TimeSpan(list partial.List) (start, end float64, ok bool) {
	first := true
	for _, p := range list {
		if p.IsEmpty() {
			continue
		}
		s, e := p.StartTime(), p.EndTime()
		if first {
			start, end, first = s, e, false
			ok = true
			continue
		}
		if s < start {
			start = s
		}
		if e > end {
			end = e
		}
	}
	return start, end, ok
}

func mapBreakpoints(list partial.List, fn func(bp *partial.Breakpoint)) error {
	for _, p := range list {
		if p.IsEmpty() {
			continue
		}
		entries := p.Entries()
		for i := range entries {
			fn(&entries[i].BP)
		}
		if err := p.SetEntries(entries); err != nil {
			return err
		}
	}
	return nil
}
