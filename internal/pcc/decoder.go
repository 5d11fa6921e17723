package pcc

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DecoderOptions configures occupancy decoding behavior.
type DecoderOptions struct {
	// Strict enables conformance checks that lenient decoding skips.
	Strict bool
	// Workers > 1 decodes the frames of a group concurrently.
	Workers int
	// NbThread is forwarded to the reconstruction stage.
	NbThread int
	// Logger receives decode progress; nil disables logging.
	Logger *zap.Logger
}

// Context is one decoded group of frames.
type Context struct {
	Index  int
	Header SequenceHeader
	Frames []*FrameContext
}

// AbsoluteD1 returns the flag of the last decoded frame, which is what the
// reconstruction stage receives.
func (c *Context) AbsoluteD1() bool {
	if len(c.Frames) == 0 {
		return false
	}
	return c.Frames[len(c.Frames)-1].AbsoluteD1
}

// Result is the output of a full Decompress call.
type Result struct {
	Context *Context
	Clouds  []PointCloud
}

// Decoder decodes groups of frames from a shared cursor.
type Decoder struct {
	opts   DecoderOptions
	log    *zap.Logger
	groups int
}

// NewDecoder creates a decoder with the provided options.
func NewDecoder(opts DecoderOptions) *Decoder {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Decoder{opts: opts, log: log}
}

// DecodeGroup reads a group header and the occupancy units of all its frames.
// The stream must not carry video sub-streams between them.
func (d *Decoder) DecodeGroup(bs *Bitstream) (*Context, error) {
	h, err := DecodeHeader(bs)
	if err != nil {
		return nil, err
	}
	ctx := d.newContext(h)
	if err := d.decodeOccupancyUnits(context.Background(), bs, ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

// DecodeGroupParallel is DecodeGroup with the frames of the group decoded
// concurrently, at most Workers at a time.
func (d *Decoder) DecodeGroupParallel(ctx context.Context, bs *Bitstream) (*Context, error) {
	h, err := DecodeHeader(bs)
	if err != nil {
		return nil, err
	}
	group := d.newContext(h)
	if err := d.decodeOccupancyUnitsParallel(ctx, bs, group); err != nil {
		return nil, err
	}
	return group, nil
}

// DecodeAll decodes groups until the stream ends or a group with zero frames
// is found.
func (d *Decoder) DecodeAll(bs *Bitstream) ([]*Context, error) {
	var groups []*Context
	for bs.Remaining() > 0 {
		ctx, err := d.DecodeGroup(bs)
		if errors.Is(err, ErrNoFrames) {
			d.log.Debug("end of groups sentinel", zap.Int("offset", bs.Position()))
			break
		}
		if err != nil {
			return groups, errors.Wrapf(err, "group %d", len(groups))
		}
		groups = append(groups, ctx)
	}
	return groups, nil
}

// Decompress runs the full group pipeline: header, geometry video, occupancy
// units, reconstruction, texture video and color transfer. Stages without a
// collaborator are skipped.
func (d *Decoder) Decompress(ctx context.Context, bs *Bitstream, c Collaborators) (*Result, error) {
	h, err := DecodeHeader(bs)
	if err != nil {
		return nil, err
	}
	group := d.newContext(h)
	frames2 := int(h.FrameCount) * 2

	var geometry Video
	if c.Video != nil {
		start := bs.Position()
		if geometry, err = c.Video.Decompress(bs, int(h.Width), int(h.Height), frames2, false); err != nil {
			return nil, errors.Wrap(err, "geometry video")
		}
		d.log.Info("geometry video", zap.Int("bytes", bs.Position()-start))
	}

	start := bs.Position()
	if err := d.decodeOccupancyUnits(ctx, bs, group); err != nil {
		return nil, err
	}
	d.log.Info("occupancy map", zap.Int("bytes", bs.Position()-start))

	res := &Result{Context: group}
	if c.Reconstructor != nil {
		params := h.PointCloudParameters(d.opts.NbThread, group.AbsoluteD1())
		if res.Clouds, err = c.Reconstructor.GeneratePointCloud(group, geometry, params); err != nil {
			return nil, errors.Wrap(err, "reconstruction")
		}
	}

	var texture Video
	if !h.NoAttributes && c.Video != nil {
		start := bs.Position()
		if texture, err = c.Video.Decompress(bs, int(h.Width), int(h.Height), frames2, h.LosslessTexture); err != nil {
			return nil, errors.Wrap(err, "texture video")
		}
		d.log.Info("texture video", zap.Int("bytes", bs.Position()-start))
	}
	if c.Colorizer != nil {
		if err := c.Colorizer.ColorPointCloud(res.Clouds, group, texture, h.NoAttributes); err != nil {
			return nil, errors.Wrap(err, "color transfer")
		}
	}
	return res, nil
}

func (d *Decoder) newContext(h *SequenceHeader) *Context {
	ctx := &Context{Index: d.groups, Header: *h}
	d.groups++
	d.log.Debug("group header",
		zap.Int("group", ctx.Index),
		zap.Uint8("frames", h.FrameCount),
		zap.Uint16("width", h.Width),
		zap.Uint16("height", h.Height),
		zap.Uint8("occupancyResolution", h.OccupancyResolution),
	)
	return ctx
}

func (d *Decoder) decodeOccupancyUnits(ctx context.Context, bs *Bitstream, group *Context) error {
	if d.opts.Workers > 1 {
		return d.decodeOccupancyUnitsParallel(ctx, bs, group)
	}
	group.Frames = make([]*FrameContext, group.Header.FrameCount)
	for i := range group.Frames {
		f, err := decodeFrame(bs, &group.Header, i, d.opts.Strict)
		if err != nil {
			return errors.Wrapf(err, "frame %d", i)
		}
		d.logFrame(f)
		group.Frames[i] = f
	}
	return nil
}

func (d *Decoder) logFrame(f *FrameContext) {
	d.log.Debug("frame decoded",
		zap.Int("frame", f.Index),
		zap.Uint32("patches", f.Unit.PatchCount),
		zap.Uint32("segmentBytes", f.Unit.SegmentSize),
		zap.Int("occupiedBlocks", f.OccupiedBlocks),
		zap.Bool("absoluteD1", f.AbsoluteD1),
	)
}
