// Package record streams strand field snapshots as JSON lines for offline inspection
package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/lixenwraith/tendril/physics"
	"github.com/lixenwraith/tendril/strand"
	"github.com/lixenwraith/tendril/vmath"
)

// ErrClosed is returned by writes after Close
var ErrClosed = errors.New("recorder closed")

// Record kinds
const (
	KindHeader = "header"
	KindFrame  = "frame"
)

// Header opens every recording
type Header struct {
	Kind      string        `json:"kind"`
	RunID     string        `json:"run_id"`
	Started   time.Time     `json:"started"`
	Strands   int           `json:"strands"`
	Particles int           `json:"particles"`
	Params    ParamsRecord  `json:"params"`
	Geometry  GeometryEntry `json:"geometry"`
}

// ParamsRecord mirrors the rod parameters in a stable wire shape
type ParamsRecord struct {
	BendStiffness  float64    `json:"bend_stiffness"`
	TwistStiffness float64    `json:"twist_stiffness"`
	MaxForce       float64    `json:"max_force"`
	Iterations     int        `json:"iterations"`
	Mass           float64    `json:"mass"`
	Damping        float64    `json:"damping"`
	Drag           float64    `json:"drag"`
	Gravity        [3]float64 `json:"gravity"`
}

// GeometryEntry is the rest coil
type GeometryEntry struct {
	Radius float64 `json:"radius"`
	Length float64 `json:"length"`
	Turns  float64 `json:"turns"`
}

// Frame is one field snapshot
type Frame struct {
	Kind    string          `json:"kind"`
	Frame   uint64          `json:"frame"`
	Time    float64         `json:"t"`
	Wind    [3]float64      `json:"wind"`
	Strands [][][3]float64  `json:"strands"`
	Stats   []physics.Stats `json:"stats,omitempty"`
}

// Writer appends JSON lines to an underlying stream
// Not safe for concurrent use
type Writer struct {
	w      *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
	runID  uuid.UUID

	every  uint64
	frames uint64
	closed bool
}

// NewWriter writes a header for field and returns a writer
// every > 1 keeps one frame in every; if w is an io.Closer, Close closes it
func NewWriter(w io.Writer, field *strand.Field, every int) (*Writer, error) {
	bw := bufio.NewWriter(w)
	rw := &Writer{
		w:     bw,
		enc:   json.NewEncoder(bw),
		runID: uuid.New(),
		every: uint64(max(every, 1)),
	}
	if c, ok := w.(io.Closer); ok {
		rw.closer = c
	}

	p := field.Params()
	g := field.Geometry()
	h := Header{
		Kind:      KindHeader,
		RunID:     rw.runID.String(),
		Started:   time.Now().UTC(),
		Strands:   field.Strands(),
		Particles: p.Particles,
		Params: ParamsRecord{
			BendStiffness:  p.BendStiffness,
			TwistStiffness: p.TwistStiffness,
			MaxForce:       p.MaxForce,
			Iterations:     p.Iterations,
			Mass:           p.Mass,
			Damping:        p.Damping,
			Drag:           p.Drag,
			Gravity:        vmath.V3FToArray(p.Gravity),
		},
		Geometry: GeometryEntry{Radius: g.Radius, Length: g.Length, Turns: g.Turns},
	}
	if err := rw.enc.Encode(h); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return rw, nil
}

// RunID identifies this recording
func (w *Writer) RunID() uuid.UUID {
	return w.runID
}

// WriteFrame records the field state at simulation time t
// Frames skipped by the sampling interval return nil
func (w *Writer) WriteFrame(field *strand.Field, t float64, wind vmath.Vec3F) error {
	if w.closed {
		return ErrClosed
	}
	n := w.frames
	w.frames++
	if n%w.every != 0 {
		return nil
	}

	fr := Frame{
		Kind:    KindFrame,
		Frame:   field.Frames(),
		Time:    t,
		Wind:    vmath.V3FToArray(wind),
		Strands: make([][][3]float64, field.Strands()),
		Stats:   make([]physics.Stats, field.Strands()),
	}
	for i := range fr.Strands {
		pts := field.View(i)
		out := make([][3]float64, len(pts))
		for j, p := range pts {
			out[j] = vmath.V3FToArray(p)
		}
		fr.Strands[i] = out
		fr.Stats[i] = field.Rod(i).Stats()
	}

	if err := w.enc.Encode(fr); err != nil {
		return fmt.Errorf("write frame %d: %w", fr.Frame, err)
	}
	return nil
}

// Flush writes buffered lines
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Close flushes and closes the underlying stream when it is closable
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.w.Flush()
	if w.closer != nil {
		err = errors.Join(err, w.closer.Close())
	}
	return err
}

// Reader decodes a recording line by line
type Reader struct {
	dec *json.Decoder
}

// NewReader wraps r
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: json.NewDecoder(r)}
}

// Header decodes the opening record
func (r *Reader) Header() (Header, error) {
	var h Header
	if err := r.dec.Decode(&h); err != nil {
		return h, err
	}
	if h.Kind != KindHeader {
		return h, fmt.Errorf("expected %s record, got %q", KindHeader, h.Kind)
	}
	return h, nil
}

// Next decodes the following frame; io.EOF ends the stream
func (r *Reader) Next() (Frame, error) {
	var f Frame
	if err := r.dec.Decode(&f); err != nil {
		return f, err
	}
	if f.Kind != KindFrame {
		return f, fmt.Errorf("expected %s record, got %q", KindFrame, f.Kind)
	}
	return f, nil
}
