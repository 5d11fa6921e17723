package pcc

// Patch is the 2D placement of one projected region of the point cloud.
// U0, V0, SizeU0 and SizeV0 are in blocks; U1, V1 and D1 are in samples.
type Patch struct {
	U0     uint32
	V0     uint32
	U1     uint32
	V1     uint32
	D1     uint32
	SizeU0 uint32
	SizeV0 uint32

	NormalAxis          uint8
	TangentAxis         uint8
	BitangentAxis       uint8
	OccupancyResolution uint8
}

// patchAxes maps a normal axis to its tangent and bitangent axes.
var patchAxes = [3][2]uint8{
	{2, 1},
	{2, 0},
	{0, 1},
}

// SetNormalAxis stores axis and derives the tangent and bitangent. Any value
// outside 0..2 falls through to the axis 2 projection.
func (p *Patch) SetNormalAxis(axis uint8) {
	p.NormalAxis = axis
	a := patchAxes[2]
	if axis < 2 {
		a = patchAxes[axis]
	}
	p.TangentAxis, p.BitangentAxis = a[0], a[1]
}

// Covers reports whether the block at (u, v) lies in the patch bounding box.
func (p *Patch) Covers(u, v int) bool {
	return u >= int(p.U0) && u < int(p.U0)+int(p.SizeU0) &&
		v >= int(p.V0) && v < int(p.V0)+int(p.SizeV0)
}
