// Package pcc decodes the occupancy maps and patch metadata carried by
// point-cloud compressed streams.
package pcc

import (
	"context"
	"fmt"
	"image"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jdeng/gopcc/internal/pcc"
)

// Error classes; test with errors.Is.
var (
	ErrNoFrames    = pcc.ErrNoFrames
	ErrTruncated   = pcc.ErrTruncated
	ErrMalformed   = pcc.ErrMalformed
	ErrConformance = pcc.ErrConformance
)

// Options configures decoding behavior.
type Options struct {
	// SrcData is the compressed stream. It must not carry video sub-streams.
	SrcData []byte
	// Strict rejects non-conforming streams instead of decoding them leniently.
	Strict bool
	// Workers > 1 decodes the frames of each group concurrently.
	Workers int
	// NbThread is the thread count handed to point cloud reconstruction.
	NbThread int
	// Logger receives progress messages; nil disables logging.
	Logger *zap.Logger
}

// Decoder decodes every group of frames in a stream.
type Decoder struct {
	decoder  *pcc.Decoder
	bs       *pcc.Bitstream
	groups   []*Group
	status   Status
	nbThread int
}

// New creates a decoder with the provided options.
func New(opts Options) (*Decoder, error) {
	if len(opts.SrcData) == 0 {
		return nil, errors.New("pcc: empty source data")
	}
	return &Decoder{
		decoder: pcc.NewDecoder(pcc.DecoderOptions{
			Strict:   opts.Strict,
			Workers:  opts.Workers,
			NbThread: opts.NbThread,
			Logger:   opts.Logger,
		}),
		bs:       pcc.NewBitstream(opts.SrcData),
		nbThread: opts.NbThread,
	}, nil
}

// DecodeAll decodes groups until the end-of-stream sentinel or the end of the
// data. Groups decoded before a failure stay available from Groups.
func (d *Decoder) DecodeAll() error {
	return d.DecodeAllContext(context.Background())
}

// DecodeAllContext is DecodeAll with cancellation between groups and frames.
func (d *Decoder) DecodeAllContext(ctx context.Context) error {
	for d.bs.Remaining() > 0 {
		if err := ctx.Err(); err != nil {
			d.status = StatusError
			return err
		}
		group, err := d.decoder.DecodeGroupParallel(ctx, d.bs)
		if errors.Is(err, pcc.ErrNoFrames) {
			break
		}
		if err != nil {
			d.status = StatusError
			return errors.Wrapf(err, "group %d", len(d.groups))
		}
		d.groups = append(d.groups, &Group{ctx: group, nbThread: d.nbThread})
	}
	d.status = StatusFinished
	return nil
}

// Groups returns the groups decoded so far.
func (d *Decoder) Groups() []*Group {
	return d.groups
}

// Frames returns the frames of all decoded groups in stream order.
func (d *Decoder) Frames() []*Frame {
	var frames []*Frame
	for _, g := range d.groups {
		frames = append(frames, g.Frames()...)
	}
	return frames
}

// Position returns the number of stream bytes consumed.
func (d *Decoder) Position() int {
	return d.bs.Position()
}

// Status returns the current decoder state.
func (d *Decoder) Status() Status {
	return d.status
}

// Status represents the state of a Decoder.
type Status int

const (
	// StatusReady indicates nothing has been decoded yet.
	StatusReady Status = iota
	// StatusFinished indicates the whole stream was decoded.
	StatusFinished
	// StatusError indicates decoding stopped on an error.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusFinished:
		return "Finished"
	case StatusError:
		return "Error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Group is one decoded group of frames sharing a sequence header.
type Group struct {
	ctx      *pcc.Context
	nbThread int
}

// Index returns the position of the group in the stream.
func (g *Group) Index() int { return g.ctx.Index }

// Width returns the picture width in pixels.
func (g *Group) Width() int { return int(g.ctx.Header.Width) }

// Height returns the picture height in pixels.
func (g *Group) Height() int { return int(g.ctx.Header.Height) }

// OccupancyResolution returns the block size in pixels.
func (g *Group) OccupancyResolution() int { return int(g.ctx.Header.OccupancyResolution) }

// AbsoluteD1 returns the flag the reconstruction stage uses for this group.
func (g *Group) AbsoluteD1() bool { return g.ctx.AbsoluteD1() }

// ReconstructionParameters returns what the reconstruction stage receives for
// this group.
func (g *Group) ReconstructionParameters() ReconstructionParameters {
	p := g.ctx.Header.PointCloudParameters(g.nbThread, g.ctx.AbsoluteD1())
	return ReconstructionParameters{
		OccupancyResolution:      p.OccupancyResolution,
		NeighborCountSmoothing:   p.NeighborCountSmoothing,
		Radius2Smoothing:         p.Radius2Smoothing,
		Radius2BoundaryDetection: p.Radius2BoundaryDetection,
		ThresholdSmoothing:       p.ThresholdSmoothing,
		LosslessGeo:              p.LosslessGeo,
		NbThread:                 p.NbThread,
		AbsoluteD1:               p.AbsoluteD1,
	}
}

// ReconstructionParameters are the smoothing and threading settings for
// rebuilding a group's point cloud.
type ReconstructionParameters struct {
	OccupancyResolution      int
	NeighborCountSmoothing   int
	Radius2Smoothing         float64
	Radius2BoundaryDetection float64
	ThresholdSmoothing       float64
	LosslessGeo              bool
	NbThread                 int
	AbsoluteD1               bool
}

// Frames returns the decoded frames of the group.
func (g *Group) Frames() []*Frame {
	frames := make([]*Frame, len(g.ctx.Frames))
	for i, f := range g.ctx.Frames {
		frames[i] = &Frame{frame: f, group: g.ctx.Index}
	}
	return frames
}

// Frame is the decoded occupancy and patch data of one frame.
type Frame struct {
	frame *pcc.FrameContext
	group int
}

// Group returns the index of the group holding the frame.
func (f *Frame) Group() int { return f.group }

// Index returns the frame index within its group.
func (f *Frame) Index() int { return f.frame.Index }

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.frame.Width }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.frame.Height }

// Occupied reports whether pixel (x, y) holds geometry.
func (f *Frame) Occupied(x, y int) bool { return f.frame.Occupied(x, y) }

// OccupiedPixels returns the number of occupied pixels.
func (f *Frame) OccupiedPixels() int { return f.frame.OccupiedPixels() }

// OccupiedBlocks returns the number of blocks owned by a patch.
func (f *Frame) OccupiedBlocks() int { return f.frame.OccupiedBlocks }

// AbsoluteD1 reports the depth coding mode of the frame.
func (f *Frame) AbsoluteD1() bool { return f.frame.AbsoluteD1 }

// SegmentSize returns the size of the frame's arithmetic-coded segment.
func (f *Frame) SegmentSize() int { return int(f.frame.Unit.SegmentSize) }

// Image renders the occupancy map with occupied pixels white.
func (f *Frame) Image() *image.Gray { return f.frame.Image() }

// BlockToPatch returns, per block in row-major order, the 1-based index of
// the owning patch or 0.
func (f *Frame) BlockToPatch() []uint32 {
	return append([]uint32(nil), f.frame.BlockToPatch...)
}

// Patches returns the patch table of the frame.
func (f *Frame) Patches() []Patch {
	patches := make([]Patch, len(f.frame.Patches))
	for i, p := range f.frame.Patches {
		patches[i] = Patch{
			U0: int(p.U0), V0: int(p.V0),
			U1: int(p.U1), V1: int(p.V1), D1: int(p.D1),
			SizeU0: int(p.SizeU0), SizeV0: int(p.SizeV0),
			NormalAxis:    int(p.NormalAxis),
			TangentAxis:   int(p.TangentAxis),
			BitangentAxis: int(p.BitangentAxis),
		}
	}
	return patches
}

// Patch is the placement of one projected region. U0, V0, SizeU0 and SizeV0
// are in blocks; U1, V1 and D1 are in samples.
type Patch struct {
	U0, V0         int
	U1, V1, D1     int
	SizeU0, SizeV0 int

	NormalAxis    int
	TangentAxis   int
	BitangentAxis int
}
