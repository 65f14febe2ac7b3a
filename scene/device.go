// Package scene composes a live augmented-reality frame from a converted
// camera video stream, a sensed depth point cloud, and synthetic overlays,
// under a device pose supplied by an external tracking subsystem.
package scene

// TextureID identifies a GPU texture owned by the rendering device.
type TextureID uint32

// FramebufferID identifies a GPU render target owned by the rendering device.
type FramebufferID uint32

// DefaultFramebuffer is the window-system-provided render target.
const DefaultFramebuffer FramebufferID = 0

// Device abstracts the graphics surface the scene drives. The concrete
// implementation wraps the platform's GL context; the scene never touches the
// context directly so the composition pipeline stays testable off-device.
type Device interface {
	// Viewport sets the render area in window coordinates.
	Viewport(x, y, width, height int)
	// ClearColor sets the color used by Clear.
	ClearColor(r, g, b, a float32)
	// Clear clears the selected buffers of the bound framebuffer.
	Clear(color, depth bool)
	// SetDepthTest toggles depth testing.
	SetDepthTest(enabled bool)
	// SetBlend toggles standard source-alpha blending
	// (src-alpha, one-minus-src-alpha).
	SetBlend(enabled bool)

	// CreateDepthTexture allocates a depth-component texture.
	CreateDepthTexture(width, height int) TextureID
	// UploadRGB replaces a color texture's contents with a packed
	// width*height*3 byte image. A nil pix allocates storage only.
	UploadRGB(tex TextureID, width, height int, pix []byte)
	// DeleteTexture releases a texture.
	DeleteTexture(tex TextureID)

	// CreateFramebuffer builds a render target from a color and a depth
	// attachment and verifies its completeness. An incomplete target is an
	// error, never a silently unusable framebuffer.
	CreateFramebuffer(color, depth TextureID) (FramebufferID, error)
	// BindFramebuffer makes a render target current.
	BindFramebuffer(fb FramebufferID)
	// BlitDepth copies only the depth channel of src into dst at full
	// resolution with nearest-neighbor sampling. Color content of dst is
	// left untouched.
	BlitDepth(src, dst FramebufferID, width, height int)
	// DeleteFramebuffer releases a render target (not its attachments).
	DeleteFramebuffer(fb FramebufferID)
}
