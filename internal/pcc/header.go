package pcc

import "github.com/pkg/errors"

// SequenceHeaderSize is the encoded size of a non-empty SequenceHeader.
const SequenceHeaderSize = 13

// SequenceHeader carries the parameters shared by every frame of a group.
type SequenceHeader struct {
	FrameCount               uint8
	Width                    uint16
	Height                   uint16
	OccupancyResolution      uint8
	Radius2Smoothing         uint8
	NeighborCountSmoothing   uint8
	Radius2BoundaryDetection uint8
	ThresholdSmoothing       uint8
	LosslessGeo              bool
	LosslessTexture          bool
	NoAttributes             bool
}

// GeneratePointCloudParameters is handed to the reconstruction stage.
type GeneratePointCloudParameters struct {
	OccupancyResolution      int
	NeighborCountSmoothing   int
	Radius2Smoothing         float64
	Radius2BoundaryDetection float64
	ThresholdSmoothing       float64
	LosslessGeo              bool
	NbThread                 int
	AbsoluteD1               bool
}

// BlockGrid returns the block-to-patch map dimensions.
func (h *SequenceHeader) BlockGrid() (width, height int) {
	if h.OccupancyResolution == 0 {
		return 0, 0
	}
	return int(h.Width) / int(h.OccupancyResolution), int(h.Height) / int(h.OccupancyResolution)
}

// Validate checks the block alignment every frame decode relies on.
func (h *SequenceHeader) Validate() error {
	if h.OccupancyResolution == 0 {
		return malformedf("occupancy resolution is zero")
	}
	res := int(h.OccupancyResolution)
	if int(h.Width)%res != 0 || int(h.Height)%res != 0 {
		return malformedf("picture %dx%d is not a multiple of occupancy resolution %d", h.Width, h.Height, res)
	}
	return nil
}

// PointCloudParameters builds the reconstruction parameters for this group.
func (h *SequenceHeader) PointCloudParameters(nbThread int, absoluteD1 bool) GeneratePointCloudParameters {
	return GeneratePointCloudParameters{
		OccupancyResolution:      int(h.OccupancyResolution),
		NeighborCountSmoothing:   int(h.NeighborCountSmoothing),
		Radius2Smoothing:         float64(h.Radius2Smoothing),
		Radius2BoundaryDetection: float64(h.Radius2BoundaryDetection),
		ThresholdSmoothing:       float64(h.ThresholdSmoothing),
		LosslessGeo:              h.LosslessGeo,
		NbThread:                 nbThread,
		AbsoluteD1:               absoluteD1,
	}
}

// DecodeHeader reads a group header. A zero frame count consumes one byte and
// returns ErrNoFrames.
func DecodeHeader(bs *Bitstream) (*SequenceHeader, error) {
	frameCount, err := bs.ReadUint8()
	if err != nil {
		return nil, errors.Wrap(err, "frame count")
	}
	if frameCount == 0 {
		return nil, ErrNoFrames
	}

	h := &SequenceHeader{FrameCount: frameCount}
	if h.Width, err = bs.ReadUint16(); err != nil {
		return nil, errors.Wrap(err, "width")
	}
	if h.Height, err = bs.ReadUint16(); err != nil {
		return nil, errors.Wrap(err, "height")
	}

	var raw [8]uint8
	for i := range raw {
		if raw[i], err = bs.ReadUint8(); err != nil {
			return nil, errors.Wrapf(err, "header byte %d", 5+i)
		}
	}
	h.OccupancyResolution = raw[0]
	h.Radius2Smoothing = raw[1]
	h.NeighborCountSmoothing = raw[2]
	h.Radius2BoundaryDetection = raw[3]
	h.ThresholdSmoothing = raw[4]
	h.LosslessGeo = raw[5] != 0
	h.LosslessTexture = raw[6] != 0
	h.NoAttributes = raw[7] != 0
	return h, nil
}

// EncodeHeader writes h in the layout DecodeHeader reads. A zero frame count
// writes only the sentinel byte.
func EncodeHeader(w *BitstreamWriter, h *SequenceHeader) {
	w.WriteUint8(h.FrameCount)
	if h.FrameCount == 0 {
		return
	}
	w.WriteUint16(h.Width)
	w.WriteUint16(h.Height)
	w.WriteUint8(h.OccupancyResolution)
	w.WriteUint8(h.Radius2Smoothing)
	w.WriteUint8(h.NeighborCountSmoothing)
	w.WriteUint8(h.Radius2BoundaryDetection)
	w.WriteUint8(h.ThresholdSmoothing)
	w.WriteUint8(boolByte(h.LosslessGeo))
	w.WriteUint8(boolByte(h.LosslessTexture))
	w.WriteUint8(boolByte(h.NoAttributes))
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
