// Package channelize assigns each partial an integer harmonic label by
// comparing its frequency against a reference envelope: the ratio of
// the partial's frequency to the envelope's value, rounded to the
// nearest integer, rather than a harmonic number fixed against a
// single F0.
package channelize

import (
	"math"

	"github.com/partialmodel/rbeas/envelope"
	"github.com/partialmodel/rbeas/partial"
)

// Channelizer labels partials with the nearest integer ratio of their
// frequency at their temporal midpoint to a reference envelope
// sampled at that same midpoint, scaled by Stretch.
type Channelizer struct {
	Reference *envelope.Envelope
	// Stretch multiplies the reference frequency before the ratio is
	// taken, letting a caller channelize against e.g. twice or half
	// the traced reference. Defaults to 1.
	Stretch int
}

// New creates a Channelizer against the given reference frequency
// envelope with Stretch 1.
func New(reference *envelope.Envelope) *Channelizer {
	return &Channelizer{Reference: reference, Stretch: 1}
}

// Channelize labels every partial in place. A partial whose reference
// frequency is non-positive, or whose own midpoint frequency rounds to
// a ratio at or below 0, is labeled 0 (unvoiced / unlabeled).
func (c *Channelizer) Channelize(partials partial.List) {
	stretch := c.Stretch
	if stretch == 0 {
		stretch = 1
	}
	for _, p := range partials {
		c.channelizeOne(p, stretch)
	}
}

func (c *Channelizer) channelizeOne(p *partial.Partial, stretch int) {
	if p.IsEmpty() {
		p.SetLabel(0)
		return
	}

	mid := (p.StartTime() + p.EndTime()) / 2
	refFreq := c.Reference.ValueAt(mid) * float64(stretch)
	if refFreq <= 0 {
		p.SetLabel(0)
		return
	}

	freq := p.ParamsAt(mid).Frequency
	label := int(math.Round(freq / refFreq))
	if label <= 0 {
		label = 0
	}
	p.SetLabel(label)
}
