package analysis

import (
	"math"
	"sort"

	"github.com/partialmodel/rbeas/partial"
)

// liveTrack is a partial still open for new breakpoints, tracked
// across frames by its most recently assigned frequency.
type liveTrack struct {
	p                  *partial.Partial
	lastFreq           float64
	lastBreakpointTime float64
}

// trackFrame runs one frame of greedy nearest-frequency assignment:
// frame peaks are offered to live tracks in descending amplitude
// order, each claiming the closest unclaimed track within
// FreqDriftHz; peaks nobody claims start a new track, and tracks
// nobody claims either persist (if recently fed) or close out to
// finished (if idle longer than CropTimeS).
func trackFrame(live []*liveTrack, finished partial.List, peaks []*spectralPeak, frameTime float64, cfg Config) ([]*liveTrack, partial.List) {
	sorted := make([]*spectralPeak, len(peaks))
	copy(sorted, peaks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].amp > sorted[j].amp })

	claimed := make([]bool, len(live))
	var fresh []*liveTrack

	for _, pk := range sorted {
		best := -1
		bestDiff := cfg.FreqDriftHz
		for i, lt := range live {
			if claimed[i] {
				continue
			}
			diff := math.Abs(lt.lastFreq - pk.freq)
			if diff <= bestDiff {
				best = i
				bestDiff = diff
			}
		}

		bp := partial.Breakpoint{Frequency: pk.freq, Amplitude: pk.amp, Bandwidth: pk.bw, Phase: pk.phase}

		if best >= 0 {
			lt := live[best]
			_ = lt.p.SetBreakpoint(pk.time, bp)
			lt.lastFreq = pk.freq
			lt.lastBreakpointTime = pk.time
			claimed[best] = true
			continue
		}

		np := partial.New(0)
		_ = np.SetBreakpoint(pk.time, bp)
		fresh = append(fresh, &liveTrack{p: np, lastFreq: pk.freq, lastBreakpointTime: pk.time})
	}

	next := make([]*liveTrack, 0, len(live)+len(fresh))
	for i, lt := range live {
		if claimed[i] {
			next = append(next, lt)
			continue
		}
		if frameTime-lt.lastBreakpointTime > cfg.CropTimeS {
			finished = append(finished, lt.p)
			continue
		}
		next = append(next, lt)
	}
	next = append(next, fresh...)

	return next, finished
}
