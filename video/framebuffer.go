package video

import (
	"image"
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

var (
	// ErrUnsupportedFormat is returned for any frame not delivered as YCrCb 4:2:0 SP.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")
	// ErrDimensionMismatch is returned when a frame's dimensions differ from the
	// ones latched on first delivery.
	ErrDimensionMismatch = errors.New("frame dimensions changed after first delivery")
	// ErrInvalidDimensions is returned for frames with a non-positive width or
	// height.
	ErrInvalidDimensions = errors.New("frame dimensions must be positive")
	// ErrShortFrame is returned when the delivered data is shorter than a full
	// 4:2:0 frame for the declared dimensions.
	ErrShortFrame = errors.New("frame data shorter than declared dimensions require")
)

// Stats counts frame deliveries and conversions.
type Stats struct {
	Delivered int64
	Converted int64
	Rejected  int64
}

// FrameBuffer is a double-buffered store for raw video frames with an RGB
// conversion output. Deliver may be called from a sensor-callback goroutine
// concurrently with ConvertPending on the render goroutine; the mutex covers
// only the copy into the pending slot and the slot swap, never the per-pixel
// conversion.
type FrameBuffer struct {
	logger     golog.Logger
	legacyWrap bool

	mu          sync.Mutex
	pending     []byte
	active      []byte
	swapPending bool
	ready       bool

	// Latched on first delivery, immutable afterward.
	width, height int

	rgb []byte

	delivered atomic.Int64
	converted atomic.Int64
	rejected  atomic.Int64
}

// Option configures a FrameBuffer.
type Option func(fb *FrameBuffer)

// WithLegacyWraparound makes out-of-range conversion results wrap modulo 256
// instead of clamping, for bit parity with older converted output.
func WithLegacyWraparound() Option {
	return func(fb *FrameBuffer) {
		fb.legacyWrap = true
	}
}

// NewFrameBuffer returns an empty FrameBuffer. Buffer sizes are latched from
// the first delivered frame.
func NewFrameBuffer(logger golog.Logger, opts ...Option) *FrameBuffer {
	fb := &FrameBuffer{logger: logger}
	for _, opt := range opts {
		opt(fb)
	}
	return fb
}

// Deliver copies a raw frame into the pending slot and marks it for swap.
// The first delivery latches the frame dimensions and allocates all derived
// buffers; a later delivery with different dimensions is rejected. The data
// is copied before returning, so the caller keeps ownership of its slice.
func (fb *FrameBuffer) Deliver(format Format, width, height int, data []byte) error {
	if format != FormatYCrCb420SP {
		fb.rejected.Inc()
		return errors.Wrapf(ErrUnsupportedFormat, "got %s", format)
	}
	if width <= 0 || height <= 0 {
		fb.rejected.Inc()
		return errors.Wrapf(ErrInvalidDimensions, "got %dx%d", width, height)
	}
	size := frameSize(width, height)
	if len(data) < size {
		fb.rejected.Inc()
		return errors.Wrapf(ErrShortFrame, "got %d bytes, want %d", len(data), size)
	}

	fb.mu.Lock()
	if !fb.ready {
		fb.width = width
		fb.height = height
		fb.pending = make([]byte, size)
		fb.active = make([]byte, size)
		fb.rgb = make([]byte, width*height*3)
		fb.ready = true
		fb.logger.Infow("latched video frame dimensions", "width", width, "height", height)
	} else if width != fb.width || height != fb.height {
		fb.mu.Unlock()
		fb.rejected.Inc()
		return errors.Wrapf(ErrDimensionMismatch,
			"latched %dx%d, got %dx%d", fb.width, fb.height, width, height)
	}
	copy(fb.pending, data[:size])
	fb.swapPending = true
	fb.mu.Unlock()

	fb.delivered.Inc()
	return nil
}

// ConvertPending swaps in the most recently delivered frame, if any, and
// converts the active frame to RGB. It returns nil until a first frame has
// been delivered. With no intervening delivery the output is identical across
// calls. The returned buffer is owned by the FrameBuffer and overwritten on
// the next call.
func (fb *FrameBuffer) ConvertPending() []byte {
	fb.mu.Lock()
	if !fb.ready {
		fb.mu.Unlock()
		return nil
	}
	if fb.swapPending {
		fb.active, fb.pending = fb.pending, fb.active
		fb.swapPending = false
	}
	fb.mu.Unlock()

	fb.convertActive()
	fb.converted.Inc()
	return fb.rgb
}

// convertActive runs outside the lock: the active slot is only written by a
// swap, and swaps only happen at the top of ConvertPending.
func (fb *FrameBuffer) convertActive() {
	w, h := fb.width, fb.height
	uvOffset := w * h
	for i := 0; i < h; i++ {
		yRow := fb.active[i*w:]
		uvRow := fb.active[uvOffset+(i/2)*w:]
		for j := 0; j < w; j++ {
			// Odd columns reuse the chroma pair of the preceding even
			// column: nearest-neighbor upsampling, no interpolation.
			x := j &^ 1
			v, u := uvRow[x], uvRow[x+1]
			var r, g, b uint8
			if fb.legacyWrap {
				r, g, b = convertYCrCbToRGBLegacy(yRow[j], u, v)
			} else {
				r, g, b = ConvertYCrCbToRGB(yRow[j], u, v)
			}
			k := (i*w + j) * 3
			fb.rgb[k] = r
			fb.rgb[k+1] = g
			fb.rgb[k+2] = b
		}
	}
}

// Ready reports whether a first frame has been delivered.
func (fb *FrameBuffer) Ready() bool {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.ready
}

// Bounds returns the latched frame dimensions, or the empty rectangle before
// the first delivery.
func (fb *FrameBuffer) Bounds() image.Rectangle {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return image.Rect(0, 0, fb.width, fb.height)
}

// Stats returns a snapshot of the delivery/conversion counters.
func (fb *FrameBuffer) Stats() Stats {
	return Stats{
		Delivered: fb.delivered.Load(),
		Converted: fb.converted.Load(),
		Rejected:  fb.rejected.Load(),
	}
}
