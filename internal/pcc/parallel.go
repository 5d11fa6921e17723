package pcc

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// SplitOccupancyUnits returns the start offset of each of frameCount
// consecutive occupancy units beginning at the cursor, using only the fixed
// unit headers. The cursor is not moved.
func SplitOccupancyUnits(bs *Bitstream, frameCount int) ([]int, error) {
	view, err := bs.View(bs.Position())
	if err != nil {
		return nil, err
	}
	offsets := make([]int, frameCount)
	for i := range offsets {
		offsets[i] = view.Position()
		unit, err := decodeUnitHeader(view)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", i)
		}
		if err := view.Advance(int(unit.SegmentSize)); err != nil {
			return nil, errors.Wrapf(err, "frame %d", i)
		}
	}
	return offsets, nil
}

// decodeOccupancyUnitsParallel decodes every frame on its own cursor view.
// Each view spans the rest of the buffer, so arithmetic lookahead sees the
// same bytes a sequential decode would.
func (d *Decoder) decodeOccupancyUnitsParallel(ctx context.Context, bs *Bitstream, group *Context) error {
	frameCount := int(group.Header.FrameCount)
	offsets, err := SplitOccupancyUnits(bs, frameCount)
	if err != nil {
		return err
	}

	frames := make([]*FrameContext, frameCount)
	errs := make([]error, frameCount)
	ends := make([]int, frameCount)
	sem := make(chan struct{}, max(1, d.opts.Workers))
	var wg sync.WaitGroup
	for i, offset := range offsets {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i, offset int) {
			defer wg.Done()
			defer func() { <-sem }()
			view, err := bs.View(offset)
			if err != nil {
				errs[i] = err
				return
			}
			frames[i], errs[i] = decodeFrame(view, &group.Header, i, d.opts.Strict)
			ends[i] = view.Position()
		}(i, offset)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return errors.Wrapf(err, "frame %d", i)
		}
	}
	for _, f := range frames {
		d.logFrame(f)
	}
	group.Frames = frames
	return bs.Seek(ends[frameCount-1])
}
