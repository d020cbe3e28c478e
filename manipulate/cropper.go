package manipulate

import (
	"github.com/partialmodel/rbeas/partial"
	"github.com/partialmodel/rbeas/rerror"
)

// Cropper truncates partials to a closed time window [t0, t1],
// inserting a boundary breakpoint (sampled via ParamsAt) wherever the
// window edge falls strictly inside the partial's original span, so a
// partial that sounds through the window edge fades or continues
// smoothly rather than being cut off where its amplitude happened to
// be mid-transition. A partial with no breakpoints surviving the crop
// is left in place with zero breakpoints, not removed from the list.
type Cropper struct {
	t0, t1 float64
}

// NewCropper builds a Cropper for the window [t0, t1].
func NewCropper(t0, t1 float64) (*Cropper, error) {
	if t1 < t0 {
		return nil, rerror.New(rerror.InvalidArgument, "manipulate.NewCropper", "t1 must be >= t0", nil)
	}
	return &Cropper{t0: t0, t1: t1}, nil
}

// Crop truncates p in place to the cropper's window.
func (c *Cropper) Crop(p *partial.Partial) error {
	if p.IsEmpty() {
		return nil
	}

	start, end := p.StartTime(), p.EndTime()
	var out []partial.Entry

	if start < c.t0 && end > c.t0 {
		out = append(out, partial.Entry{Time: c.t0, BP: p.ParamsAt(c.t0)})
	}
	for _, e := range p.Entries() {
		if e.Time >= c.t0 && e.Time <= c.t1 {
			out = append(out, e)
		}
	}
	if start < c.t1 && end > c.t1 {
		out = append(out, partial.Entry{Time: c.t1, BP: p.ParamsAt(c.t1)})
	}

	return p.SetEntries(out)
}

// CropAll crops every partial in list.
func (c *Cropper) CropAll(list partial.List) error {
	for _, p := range list {
		if err := c.Crop(p); err != nil {
			return err
		}
	}
	return nil
}
