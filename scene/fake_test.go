package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"
)

// fakeDevice records the calls the scene issues, in order, so tests can
// assert on the composition sequence without a GL context.
type fakeDevice struct {
	ops []string

	nextTex  TextureID
	nextFB   FramebufferID
	failNext bool

	uploads map[TextureID][]byte
	blits   int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{uploads: map[TextureID][]byte{}}
}

func (d *fakeDevice) op(format string, args ...interface{}) {
	d.ops = append(d.ops, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) Viewport(x, y, width, height int) {
	d.op("viewport %d %d %d %d", x, y, width, height)
}

func (d *fakeDevice) ClearColor(r, g, b, a float32) {
	d.op("clearColor %.1f %.1f %.1f %.1f", r, g, b, a)
}

func (d *fakeDevice) Clear(color, depth bool) {
	d.op("clear color=%t depth=%t", color, depth)
}

func (d *fakeDevice) SetDepthTest(enabled bool) {
	d.op("depthTest %t", enabled)
}

func (d *fakeDevice) SetBlend(enabled bool) {
	d.op("blend %t", enabled)
}

func (d *fakeDevice) CreateDepthTexture(width, height int) TextureID {
	d.nextTex++
	d.op("createDepthTexture %d", d.nextTex)
	return d.nextTex
}

func (d *fakeDevice) UploadRGB(tex TextureID, width, height int, pix []byte) {
	d.op("uploadRGB tex=%d %dx%d", tex, width, height)
	d.uploads[tex] = append([]byte(nil), pix...)
}

func (d *fakeDevice) DeleteTexture(tex TextureID) {
	d.op("deleteTexture %d", tex)
}

func (d *fakeDevice) CreateFramebuffer(color, depth TextureID) (FramebufferID, error) {
	if d.failNext {
		return 0, fmt.Errorf("framebuffer incomplete")
	}
	d.nextFB++
	d.op("createFramebuffer %d color=%d depth=%d", d.nextFB, color, depth)
	return d.nextFB, nil
}

func (d *fakeDevice) BindFramebuffer(fb FramebufferID) {
	d.op("bindFramebuffer %d", fb)
}

func (d *fakeDevice) BlitDepth(src, dst FramebufferID, width, height int) {
	d.blits++
	d.op("blitDepth %d->%d %dx%d", src, dst, width, height)
}

func (d *fakeDevice) DeleteFramebuffer(fb FramebufferID) {
	d.op("deleteFramebuffer %d", fb)
}

type renderCall struct {
	projection, view mgl32.Mat4
}

// fakeDrawable implements Drawable, ColoredDrawable, TexturedDrawable, and
// TraceDrawable; tests pick the subset they need.
type fakeDrawable struct {
	name     string
	dev      *fakeDevice
	node     *Node
	tex      TextureID
	color    Color
	renders  []renderCall
	updates  []mgl32.Vec3
	closed   bool
	closeErr error
}

func newFakeDrawable(name string, dev *fakeDevice) *fakeDrawable {
	return &fakeDrawable{name: name, dev: dev, node: NewNode()}
}

func (f *fakeDrawable) Node() *Node { return f.node }

func (f *fakeDrawable) Render(projection, view mgl32.Mat4) {
	f.renders = append(f.renders, renderCall{projection, view})
	if f.dev != nil {
		f.dev.op("render %s", f.name)
	}
}

func (f *fakeDrawable) SetColor(c Color) { f.color = c }

func (f *fakeDrawable) TextureID() TextureID { return f.tex }

func (f *fakeDrawable) Update(position mgl32.Vec3) {
	f.updates = append(f.updates, position)
}

func (f *fakeDrawable) Close() error {
	f.closed = true
	return f.closeErr
}

type cloudRenderCall struct {
	projection, view, model mgl32.Mat4
	points                  []r3.Vector
}

type fakeCloudDrawable struct {
	dev     *fakeDevice
	renders []cloudRenderCall
	closed  bool
}

func (f *fakeCloudDrawable) Render(projection, view, model mgl32.Mat4, points []r3.Vector) {
	f.renders = append(f.renders, cloudRenderCall{projection, view, model, points})
	if f.dev != nil {
		f.dev.op("render pointcloud")
	}
}

func (f *fakeCloudDrawable) Close() error {
	f.closed = true
	return nil
}

type touchCall struct {
	touchCount     int
	event          TouchEvent
	x0, y0, x1, y1 float32
}

type fakeCamera struct {
	mode       CameraMode
	aspect     float32
	poses      []mgl32.Mat4
	anchors    []mgl32.Vec3
	view       mgl32.Mat4
	projection mgl32.Mat4
	touches    []touchCall
	closed     bool
}

func newFakeCamera() *fakeCamera {
	return &fakeCamera{
		view:       mgl32.Translate3D(0, 0, -5),
		projection: mgl32.Perspective(mgl32.DegToRad(45), 4.0/3.0, 0.1, 100),
	}
}

func (f *fakeCamera) SetMode(mode CameraMode) { f.mode = mode }

func (f *fakeCamera) SetAspectRatio(ratio float32) { f.aspect = ratio }

func (f *fakeCamera) SetPose(pose mgl32.Mat4) { f.poses = append(f.poses, pose) }
func (f *fakeCamera) SetAnchor(position mgl32.Vec3) {
	f.anchors = append(f.anchors, position)
}
func (f *fakeCamera) View() mgl32.Mat4 { return f.view }

func (f *fakeCamera) Projection() mgl32.Mat4 { return f.projection }

func (f *fakeCamera) OnTouchEvent(touchCount int, event TouchEvent, x0, y0, x1, y1 float32) {
	f.touches = append(f.touches, touchCall{touchCount, event, x0, y0, x1, y1})
}

func (f *fakeCamera) Close() error {
	f.closed = true
	return nil
}

// testParts builds a full set of fakes wired to one device.
type testParts struct {
	parts   Parts
	camera  *fakeCamera
	video   *fakeDrawable
	quad    *fakeDrawable
	axis    *fakeDrawable
	frustum *fakeDrawable
	trace   *fakeDrawable
	grid    *fakeDrawable
	cube    *fakeDrawable
	cloud   *fakeCloudDrawable
}

func newTestParts(dev *fakeDevice) *testParts {
	tp := &testParts{
		camera:  newFakeCamera(),
		video:   newFakeDrawable("video", dev),
		quad:    newFakeDrawable("depthquad", dev),
		axis:    newFakeDrawable("axis", dev),
		frustum: newFakeDrawable("frustum", dev),
		trace:   newFakeDrawable("trace", dev),
		grid:    newFakeDrawable("grid", dev),
		cube:    newFakeDrawable("cube", dev),
		cloud:   &fakeCloudDrawable{dev: dev},
	}
	tp.video.tex = 100
	tp.quad.tex = 101
	tp.parts = Parts{
		Camera:       tp.camera,
		VideoOverlay: tp.video,
		DepthQuad:    tp.quad,
		Axis:         tp.axis,
		Frustum:      tp.frustum,
		Trace:        tp.trace,
		Grid:         tp.grid,
		Cube:         tp.cube,
		PointCloud:   tp.cloud,
	}
	return tp
}
