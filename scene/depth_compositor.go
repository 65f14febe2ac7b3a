package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// depthCompositor renders the sensed point cloud into an auxiliary
// color+depth target and transfers only the depth channel into the default
// framebuffer, so overlays composited afterward are occluded by real-world
// geometry. The auxiliary target lives as long as the scene.
type depthCompositor struct {
	dev           Device
	cloud         PointCloudDrawable
	width, height int

	// colorTex is the depth-visualization quad's own texture, attached as
	// the target's color buffer; the quad is not the owner's to delete.
	colorTex TextureID
	depthTex TextureID
	target   FramebufferID

	passes atomic.Int64
}

// newDepthCompositor allocates the auxiliary target at display resolution,
// attaching colorTex (the depth-visualization quad's texture) as the color
// buffer so the quad displays each point-cloud pass. An incomplete
// framebuffer is a fatal setup error: compositing without the depth transfer
// would silently lose occlusion correctness.
func newDepthCompositor(dev Device, cloud PointCloudDrawable, colorTex TextureID, width, height int) (*depthCompositor, error) {
	// Size the quad's texture to the target; its contents come from the
	// point-cloud pass each frame.
	dev.UploadRGB(colorTex, width, height, nil)
	depthTex := dev.CreateDepthTexture(width, height)
	target, err := dev.CreateFramebuffer(colorTex, depthTex)
	if err != nil {
		dev.DeleteTexture(depthTex)
		return nil, errors.Wrap(err, "auxiliary depth target unusable")
	}
	return &depthCompositor{
		dev:      dev,
		cloud:    cloud,
		width:    width,
		height:   height,
		colorTex: colorTex,
		depthTex: depthTex,
		target:   target,
	}, nil
}

// Composite runs one offscreen depth pass: render the cloud into the
// auxiliary target, then blit its depth into the default framebuffer. The
// default framebuffer's color content is untouched.
func (dc *depthCompositor) Composite(projection, view, model mgl32.Mat4, points []r3.Vector) {
	dc.dev.BindFramebuffer(dc.target)
	dc.dev.ClearColor(1, 1, 1, 1)
	dc.dev.Clear(true, true)
	dc.cloud.Render(projection, view, model, points)
	dc.dev.BindFramebuffer(DefaultFramebuffer)

	dc.dev.BlitDepth(dc.target, DefaultFramebuffer, dc.width, dc.height)
	dc.passes.Inc()
}

// Passes returns how many depth passes have run.
func (dc *depthCompositor) Passes() int64 {
	return dc.passes.Load()
}

// Close releases the auxiliary target and its depth attachment. The color
// attachment belongs to the quad drawable and the point-cloud drawable is
// owned by the scene; both are closed there.
func (dc *depthCompositor) Close() {
	dc.dev.DeleteFramebuffer(dc.target)
	dc.dev.DeleteTexture(dc.depthTex)
}
