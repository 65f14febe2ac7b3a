package scene

import (
	"github.com/edaniels/golog"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/arscene/pointcloud"
	"go.viam.com/arscene/video"
)

// ErrZeroViewportHeight is returned when a viewport with zero height is
// requested; the call is a no-op.
var ErrZeroViewportHeight = errors.New("viewport height must be nonzero")

// Overlay appearance.
var (
	traceColor = Color{0.22, 0.28, 0.67}
	gridColor  = Color{0.85, 0.85, 0.85}

	cubeColor    = Color{1, 0, 0}
	cubePosition = mgl32.Vec3{0, 0, -1}
	cubeScale    = mgl32.Vec3{0.05, 0.05, 0.05}
	cubeRotation = mgl32.Quat{W: 0, V: mgl32.Vec3{0, 1, 0}}

	// Offset of the ground grid below the origin, roughly the height of a
	// person holding the device.
	heightOffset = mgl32.Vec3{0, 0, 0}
)

// Parts collects the collaborator drawables composing the scene. The scene
// takes exclusive ownership of every part and closes them with itself.
type Parts struct {
	Camera       GestureCamera
	VideoOverlay TexturedDrawable
	DepthQuad    TexturedDrawable
	Axis         Drawable
	Frustum      Drawable
	Trace        TraceDrawable
	Grid         ColoredDrawable
	Cube         ColoredDrawable
	PointCloud   PointCloudDrawable
}

func (p Parts) validate() error {
	switch {
	case p.Camera == nil:
		return errors.New("parts: missing gesture camera")
	case p.VideoOverlay == nil, p.DepthQuad == nil, p.Axis == nil, p.Frustum == nil,
		p.Trace == nil, p.Grid == nil, p.Cube == nil, p.PointCloud == nil:
		return errors.New("parts: missing drawable")
	}
	return nil
}

// Scene owns the per-frame composition pipeline: video conversion, overlay
// rendering under the current camera mode, and the offscreen depth composite.
// Render runs on a single render goroutine; OnFrameAvailable and
// OnPointCloudAvailable may be called concurrently from sensor callbacks.
// Every other method must run on the render goroutine: nothing but the two
// delivery paths is synchronized against Render.
type Scene struct {
	logger golog.Logger
	dev    Device
	parts  Parts

	frames     *video.FrameBuffer
	cloud      *pointcloud.Store
	compositor *depthCompositor
	modes      *modeController

	// Projection of the physical AR camera, supplied by the tracking
	// subsystem; identity until set.
	projection mgl32.Mat4

	imagePlaneRatio    float32
	imagePlaneDistance float32

	frameOpts []video.Option
}

// Option configures a Scene.
type Option func(s *Scene)

// WithImagePlane sets the aspect ratio and distance of the image plane the
// video overlay is placed on in third-person mode.
func WithImagePlane(ratio, distance float32) Option {
	return func(s *Scene) {
		s.imagePlaneRatio = ratio
		s.imagePlaneDistance = distance
	}
}

// WithLegacyColorWraparound makes video conversion wrap out-of-range channels
// modulo 256 instead of clamping, for bit parity with older renderer output.
func WithLegacyColorWraparound() Option {
	return func(s *Scene) {
		s.frameOpts = append(s.frameOpts, video.WithLegacyWraparound())
	}
}

// New builds a scene over the given device, allocating the auxiliary depth
// target at display resolution. A failed target completeness check aborts
// construction; the host must not composite without it.
func New(dev Device, displayWidth, displayHeight int, parts Parts, logger golog.Logger, opts ...Option) (*Scene, error) {
	if err := parts.validate(); err != nil {
		return nil, err
	}
	s := &Scene{
		logger:             logger,
		dev:                dev,
		parts:              parts,
		cloud:              pointcloud.NewStore(),
		projection:         mgl32.Ident4(),
		imagePlaneRatio:    0.75,
		imagePlaneDistance: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.frames = video.NewFrameBuffer(logger, s.frameOpts...)

	compositor, err := newDepthCompositor(dev, parts.PointCloud, parts.DepthQuad.TextureID(), displayWidth, displayHeight)
	if err != nil {
		return nil, err
	}
	s.compositor = compositor

	parts.Trace.SetColor(traceColor)
	parts.Grid.SetColor(gridColor)
	parts.Grid.Node().SetPosition(heightOffset.Mul(-1))
	parts.Cube.SetColor(cubeColor)
	parts.Cube.Node().SetPosition(cubePosition)
	parts.Cube.Node().SetScale(cubeScale)
	parts.Cube.Node().SetRotation(cubeRotation)

	s.modes = newModeController(
		parts.VideoOverlay.Node(), parts.DepthQuad.Node(), parts.Axis.Node(),
		s.imagePlaneRatio, s.imagePlaneDistance)
	s.SetCameraMode(ThirdPerson)
	return s, nil
}

// SetupViewport sets the render area and the gesture camera's aspect ratio.
// A zero height is rejected without touching any state.
func (s *Scene) SetupViewport(x, y, width, height int) error {
	if height == 0 {
		s.logger.Error("viewport height must be nonzero")
		return ErrZeroViewportHeight
	}
	s.parts.Camera.SetAspectRatio(float32(width) / float32(height))
	s.dev.Viewport(x, y, width, height)
	return nil
}

// SetProjection sets the physical AR camera's projection matrix. It must be
// called from the render goroutine; it is not synchronized with Render.
func (s *Scene) SetProjection(projection mgl32.Mat4) {
	s.projection = projection
}

// SetCameraMode switches presentation mode, re-parenting and re-transforming
// the overlay nodes in one shot. It must be called from the render goroutine;
// it is not synchronized with Render.
func (s *Scene) SetCameraMode(mode CameraMode) {
	s.parts.Camera.SetMode(mode)
	s.modes.SetMode(mode)
}

// CameraMode returns the current presentation mode.
func (s *Scene) CameraMode() CameraMode {
	return s.modes.Mode()
}

// OnFrameAvailable ingests a raw video frame from the sensor callback.
// Rejected frames are logged and dropped; later frames are unaffected.
func (s *Scene) OnFrameAvailable(format video.Format, width, height int, data []byte) error {
	if err := s.frames.Deliver(format, width, height, data); err != nil {
		s.logger.Errorw("rejected video frame", "error", err)
		return err
	}
	return nil
}

// OnPointCloudAvailable ingests a flat xyz triple array from the depth
// callback, together with the cloud's transform at capture time.
func (s *Scene) OnPointCloudAvailable(count int, xyz []float32, transform mgl32.Mat4) error {
	if err := s.cloud.DeliverRaw(count, xyz, transform); err != nil {
		s.logger.Errorw("rejected point cloud", "error", err)
		return err
	}
	return nil
}

// OnTouchEvent forwards a gesture to the camera controller verbatim.
func (s *Scene) OnTouchEvent(touchCount int, event TouchEvent, x0, y0, x1, y1 float32) {
	s.parts.Camera.OnTouchEvent(touchCount, event, x0, y0, x1, y1)
}

// Render composes one frame under the given device pose. It is a no-op until
// a first video frame has been delivered.
func (s *Scene) Render(pose mgl32.Mat4) {
	rgb := s.frames.ConvertPending()
	if rgb == nil {
		return
	}
	bounds := s.frames.Bounds()
	s.dev.UploadRGB(s.parts.VideoOverlay.TextureID(), bounds.Dx(), bounds.Dy(), rgb)

	s.dev.SetDepthTest(true)
	s.dev.ClearColor(1, 1, 1, 1)
	s.dev.Clear(true, true)

	anchor := pose.Col(3).Vec3()
	s.parts.Trace.Update(anchor)

	identity := mgl32.Ident4()
	if s.modes.Mode() == FirstPerson {
		s.parts.Camera.SetPose(pose)
		// The video overlay fills the screen, independent of scene
		// transforms, so depth testing is off and both matrices are identity.
		s.dev.SetDepthTest(false)
		s.parts.VideoOverlay.Render(identity, identity)
	} else {
		s.parts.Camera.SetAnchor(anchor)
		view := s.parts.Camera.View()
		s.parts.Frustum.Node().SetTransform(pose)
		// The frustum scale visualizes the image plane, not the physical
		// camera's true aspect ratio.
		s.parts.Frustum.Node().SetScale(mgl32.Vec3{1, s.imagePlaneRatio, s.imagePlaneDistance})
		s.parts.Frustum.Render(s.projection, view)
		s.parts.Axis.Node().SetTransform(pose)
		s.parts.Axis.Render(s.projection, view)
		s.parts.Trace.Render(s.projection, view)
		s.parts.VideoOverlay.Render(s.projection, view)
	}

	s.dev.SetBlend(true)
	s.dev.SetDepthTest(true)
	points, cloudTransform := s.cloud.Snapshot()
	s.compositor.Composite(s.parts.Camera.Projection(), s.parts.Camera.View(), cloudTransform, points)

	s.parts.DepthQuad.Render(identity, identity)
	s.parts.Grid.Render(s.projection, s.parts.Camera.View())
	s.parts.Cube.Render(s.projection, s.parts.Camera.View())
}

// FrameStats returns the video delivery/conversion counters.
func (s *Scene) FrameStats() video.Stats {
	return s.frames.Stats()
}

// DepthPasses returns how many offscreen depth passes have run.
func (s *Scene) DepthPasses() int64 {
	return s.compositor.Passes()
}

// Close tears down every collaborator drawable and the auxiliary GPU target.
// The caller must guarantee no producer callbacks are in flight.
func (s *Scene) Close() error {
	err := multierr.Combine(
		s.parts.Camera.Close(),
		s.parts.VideoOverlay.Close(),
		s.parts.DepthQuad.Close(),
		s.parts.Axis.Close(),
		s.parts.Frustum.Close(),
		s.parts.Trace.Close(),
		s.parts.Grid.Close(),
		s.parts.Cube.Close(),
		s.parts.PointCloud.Close(),
	)
	s.compositor.Close()
	return err
}
