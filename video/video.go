// Package video converts raw chroma-subsampled camera frames into RGB images
// under a producer/consumer double buffer.
//
// Frames arrive on a sensor-callback thread and are consumed once per render
// tick on the render thread. The two sides never share a buffer: the producer
// writes into a pending slot and the consumer swaps it in at a frame boundary
// it controls, so conversion always reads a stable image.
package video

import "fmt"

// Format identifies the pixel layout of a delivered camera frame.
type Format int

const (
	// FormatUnknown is the zero value and is always rejected.
	FormatUnknown Format = iota
	// FormatYCrCb420SP is a full-resolution luma plane followed by an
	// interleaved V/U chroma plane at half resolution in both axes (NV21).
	FormatYCrCb420SP
)

func (f Format) String() string {
	switch f {
	case FormatYCrCb420SP:
		return "YCrCb 4:2:0 SP"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}

// frameSize returns the byte length of a raw 4:2:0 frame: a full luma plane
// plus a half-size chroma plane.
func frameSize(width, height int) int {
	return width*height + width*height/2
}
