package distill

import (
	"sort"

	"github.com/partialmodel/rbeas/partial"
)

// Collator reduces the number of label-0 (unlabeled) partials by
// packing non-time-overlapping ones into shared channels and fusing
// each channel into a single partial, without requiring them to share
// a frequency trajectory the way Distiller's label-based grouping
// does. Labeled partials pass through untouched.
type Collator struct {
	// FadeTime bridges silent gaps within a packed channel with null
	// breakpoints. Defaults to 0.01s (10ms).
	FadeTime float64
}

// NewCollator creates a Collator with the default 10ms fade time.
func NewCollator() *Collator { return &Collator{FadeTime: 0.01} }

// Collate packs every label-0 partial into at most maxPartials
// channels (first-fit by start time into a channel that is free by
// the partial's start; when all maxPartials channels are busy, the
// partial joins the one that frees soonest and overlaps it) and fuses
// each channel.
// Partials with a nonzero label are returned unchanged.
func (c *Collator) Collate(partials partial.List, maxPartials int) partial.List {
	if maxPartials < 1 {
		maxPartials = 1
	}

	var unlabeled partial.List
	var labeled partial.List
	for _, p := range partials {
		if p.Label() == 0 {
			unlabeled = append(unlabeled, p)
		} else {
			labeled = append(labeled, p)
		}
	}

	sort.Slice(unlabeled, func(i, j int) bool { return unlabeled[i].StartTime() < unlabeled[j].StartTime() })

	fadeTime := c.FadeTime
	if fadeTime <= 0 {
		fadeTime = 0.01
	}

	type channel struct {
		members []*partial.Partial
		end     float64
	}
	channels := make([]*channel, 0, maxPartials)

	for _, p := range unlabeled {
		placed := false
		for _, ch := range channels {
			if p.StartTime() >= ch.end+2*fadeTime {
				ch.members = append(ch.members, p)
				ch.end = p.EndTime()
				placed = true
				break
			}
		}
		if !placed {
			if len(channels) < maxPartials {
				channels = append(channels, &channel{members: []*partial.Partial{p}, end: p.EndTime()})
			} else {
				// Every channel is busy; append to whichever channel
				// frees up soonest, accepting the resulting overlap
				// rather than exceeding maxPartials.
				best := channels[0]
				for _, ch := range channels[1:] {
					if ch.end < best.end {
						best = ch
					}
				}
				best.members = append(best.members, p)
				if p.EndTime() > best.end {
					best.end = p.EndTime()
				}
			}
		}
	}

	// Each channel gets a distinct positive label in packing order;
	// Collate ignores whatever label the incoming partial carried.
	out := make(partial.List, 0, len(channels)+len(labeled))
	for i, ch := range channels {
		out = append(out, fuse(ch.members, i+1, fadeTime))
	}
	out = append(out, labeled...)
	return out
}
