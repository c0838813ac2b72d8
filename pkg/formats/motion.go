package formats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Motion format errors.
var (
	ErrInvalidMotionDocument = errors.New("invalid motion document")
	ErrBadSegments           = errors.New("malformed segment stream")
)

// Curve targets.
const (
	TargetParameter   = "Parameter"
	TargetPartOpacity = "PartOpacity"
)

// SegmentKind discriminates the two segment encodings.
type SegmentKind int

// Segment kinds.
const (
	SegmentLinear SegmentKind = 0
	SegmentBezier SegmentKind = 1
)

// Motion is a parsed motion document. ID is not part of the document;
// it is derived from the file name.
type Motion struct {
	ID       string `json:"-"`
	Duration float32
	FPS      float32
	Loop     bool
	FadeIn   float32
	FadeOut  float32
	Curves   []Curve
}

// Curve animates one target over the motion's duration.
type Curve struct {
	Target   string
	ID       string
	Segments []Segment
}

// Segment is one piece of a curve. A linear segment holds V0 for
// times up to T0 and leaves the remaining points zero. A bezier
// segment carries all four control points of a cubic over [T0, T3].
type Segment struct {
	Kind           SegmentKind
	T0, V0, T1, V1 float32
	T2, V2, T3, V3 float32
}

type motionMeta struct {
	Duration    float32 `json:"Duration"`
	Fps         float32 `json:"Fps"`
	Loop        bool    `json:"Loop"`
	FadeInTime  float32 `json:"FadeInTime"`
	FadeOutTime float32 `json:"FadeOutTime"`
}

func (m *motionMeta) UnmarshalJSON(data []byte) error {
	type alias motionMeta
	a := alias{Fps: 30, Loop: true, FadeInTime: 1, FadeOutTime: 1}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = motionMeta(a)
	return nil
}

// ParseMotion parses a motion document. Each curve's segment stream
// is decoded into explicit segments; bezier records pick up their
// first control point from the end of the preceding segment, or from
// (0, 0) when they open the stream.
func ParseMotion(data []byte) (*Motion, error) {
	var doc struct {
		Meta   motionMeta `json:"Meta"`
		Curves []struct {
			Target   string    `json:"Target"`
			ID       string    `json:"Id"`
			Segments []float32 `json:"Segments"`
		} `json:"Curves"`
	}
	doc.Meta = motionMeta{Fps: 30, Loop: true, FadeInTime: 1, FadeOutTime: 1}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMotionDocument, err)
	}

	motion := &Motion{
		Duration: doc.Meta.Duration,
		FPS:      doc.Meta.Fps,
		Loop:     doc.Meta.Loop,
		FadeIn:   doc.Meta.FadeInTime,
		FadeOut:  doc.Meta.FadeOutTime,
		Curves:   make([]Curve, 0, len(doc.Curves)),
	}
	for i, c := range doc.Curves {
		segments, err := decodeSegments(c.Segments)
		if err != nil {
			return nil, fmt.Errorf("curve %d (%s): %w", i, c.ID, err)
		}
		motion.Curves = append(motion.Curves, Curve{
			Target:   c.Target,
			ID:       c.ID,
			Segments: segments,
		})
	}
	return motion, nil
}

// decodeSegments walks the flat segment stream. Each record begins
// with a kind tag: linear records consume a time and a value, bezier
// records consume three control points. The running end point threads
// through so bezier records are self-contained after decoding.
func decodeSegments(flat []float32) ([]Segment, error) {
	var segments []Segment
	var prevT, prevV float32
	for i := 0; i < len(flat); {
		switch flat[i] {
		case 0:
			if i+2 >= len(flat) {
				return nil, fmt.Errorf("%w: truncated linear record at offset %d", ErrBadSegments, i)
			}
			seg := Segment{Kind: SegmentLinear, T0: flat[i+1], V0: flat[i+2]}
			prevT, prevV = seg.T0, seg.V0
			segments = append(segments, seg)
			i += 3
		case 1:
			if i+6 >= len(flat) {
				return nil, fmt.Errorf("%w: truncated bezier record at offset %d", ErrBadSegments, i)
			}
			seg := Segment{
				Kind: SegmentBezier,
				T0:   prevT, V0: prevV,
				T1: flat[i+1], V1: flat[i+2],
				T2: flat[i+3], V2: flat[i+4],
				T3: flat[i+5], V3: flat[i+6],
			}
			prevT, prevV = seg.T3, seg.V3
			segments = append(segments, seg)
			i += 7
		default:
			return nil, fmt.Errorf("%w: unknown kind %g at offset %d", ErrBadSegments, flat[i], i)
		}
	}
	return segments, nil
}

// MotionID derives a motion's identifier from its file path.
func MotionID(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, MotionSuffix) {
		return strings.TrimSuffix(base, MotionSuffix)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseMotionFile reads and parses a motion document from disk. The
// motion's ID is derived from the file name.
func ParseMotionFile(path string) (*Motion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading motion file: %w", err)
	}
	motion, err := ParseMotion(data)
	if err != nil {
		return nil, err
	}
	motion.ID = MotionID(path)
	return motion, nil
}
