package pcc

// Video is a decoded plane sequence produced by a VideoDecoder.
type Video interface {
	FrameCount() int
}

// PointCloud is a reconstructed frame produced by a Reconstructor.
type PointCloud interface {
	PointCount() int
}

// VideoDecoder decodes a geometry or texture video sub-stream starting at the
// cursor and advances the cursor past it.
type VideoDecoder interface {
	Decompress(bs *Bitstream, width, height, frameCount int, lossless bool) (Video, error)
}

// Reconstructor turns occupancy, patches and geometry into point clouds.
type Reconstructor interface {
	GeneratePointCloud(ctx *Context, geometry Video, params GeneratePointCloudParameters) ([]PointCloud, error)
}

// Colorizer transfers texture onto reconstructed point clouds.
type Colorizer interface {
	ColorPointCloud(clouds []PointCloud, ctx *Context, texture Video, noAttributes bool) error
}

// Collaborators are the pipeline stages surrounding occupancy decoding. Nil
// stages are skipped; a nil Video means the stream has no video sub-streams.
type Collaborators struct {
	Video         VideoDecoder
	Reconstructor Reconstructor
	Colorizer     Colorizer
}
