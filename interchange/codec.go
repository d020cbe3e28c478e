// Package interchange implements a byte-exact binary export/import
// codec for a PartialList. There is no teacher or pack library for a
// partial-interchange format (SDIF and similar are domain-specific
// formats no example repo touches), so this is built directly on
// encoding/binary rather than grounded in an example — the one
// deliberate standard-library choice in the module, recorded as such
// rather than left implicit.
package interchange

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/partialmodel/rbeas/partial"
	"github.com/partialmodel/rbeas/rerror"
)

// magic identifies the format and version; readers reject anything
// else outright rather than guessing at a layout.
const magic uint32 = 0x52424153 // "RBAS"
const version uint32 = 1

// Write serializes partials to w in the interchange format: a header
// (magic, version, partial count) followed by, per partial, its
// label, breakpoint count, and each breakpoint's
// (time, frequency, amplitude, bandwidth, phase) as float64.
func Write(w io.Writer, partials partial.List) error {
	const op = "interchange.Write"
	if err := binary.Write(w, binary.LittleEndian, magic); err != nil {
		return rerror.New(rerror.IoError, op, "writing magic", err)
	}
	if err := binary.Write(w, binary.LittleEndian, version); err != nil {
		return rerror.New(rerror.IoError, op, "writing version", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(partials))); err != nil {
		return rerror.New(rerror.IoError, op, "writing partial count", err)
	}

	for _, p := range partials {
		if err := binary.Write(w, binary.LittleEndian, int32(p.Label())); err != nil {
			return rerror.New(rerror.IoError, op, "writing label", err)
		}
		entries := p.Entries()
		if err := binary.Write(w, binary.LittleEndian, uint32(len(entries))); err != nil {
			return rerror.New(rerror.IoError, op, "writing breakpoint count", err)
		}
		for _, e := range entries {
			vals := [5]float64{e.Time, e.BP.Frequency, e.BP.Amplitude, e.BP.Bandwidth, e.BP.Phase}
			if err := binary.Write(w, binary.LittleEndian, vals); err != nil {
				return rerror.New(rerror.IoError, op, "writing breakpoint", err)
			}
		}
	}
	return nil
}

// Marshal serializes partials to a new byte slice.
func Marshal(partials partial.List) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, partials); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Read deserializes a PartialList from r.
func Read(r io.Reader) (partial.List, error) {
	const op = "interchange.Read"

	var gotMagic, gotVersion, count uint32
	if err := binary.Read(r, binary.LittleEndian, &gotMagic); err != nil {
		return nil, rerror.New(rerror.IoError, op, "reading magic", err)
	}
	if gotMagic != magic {
		return nil, rerror.New(rerror.IoError, op, "not an interchange file", nil)
	}
	if err := binary.Read(r, binary.LittleEndian, &gotVersion); err != nil {
		return nil, rerror.New(rerror.IoError, op, "reading version", err)
	}
	if gotVersion != version {
		return nil, rerror.Newf(rerror.IoError, op, nil, "unsupported interchange version %d", gotVersion)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, rerror.New(rerror.IoError, op, "reading partial count", err)
	}

	out := make(partial.List, 0, count)
	for i := uint32(0); i < count; i++ {
		var label int32
		if err := binary.Read(r, binary.LittleEndian, &label); err != nil {
			return nil, rerror.New(rerror.IoError, op, "reading label", err)
		}
		var bpCount uint32
		if err := binary.Read(r, binary.LittleEndian, &bpCount); err != nil {
			return nil, rerror.New(rerror.IoError, op, "reading breakpoint count", err)
		}

		entries := make([]partial.Entry, bpCount)
		for j := uint32(0); j < bpCount; j++ {
			var vals [5]float64
			if err := binary.Read(r, binary.LittleEndian, &vals); err != nil {
				return nil, rerror.New(rerror.IoError, op, "reading breakpoint", err)
			}
			entries[j] = partial.Entry{
				Time: vals[0],
				BP:   partial.Breakpoint{Frequency: vals[1], Amplitude: vals[2], Bandwidth: vals[3], Phase: vals[4]},
			}
		}

		p := partial.New(int(label))
		if err := p.SetEntries(entries); err != nil {
			return nil, rerror.New(rerror.IoError, op, "invalid breakpoint sequence", err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Unmarshal deserializes a PartialList from a byte slice.
func Unmarshal(data []byte) (partial.List, error) {
	return Read(bytes.NewReader(data))
}
