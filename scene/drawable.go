package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"
)

// Color is an RGB triple in [0, 1], matching what the drawable primitives take.
type Color struct {
	R, G, B float32
}

// Drawable is a GPU-backed scene element. The draw internals live in an
// external primitive library; the scene only positions drawables through
// their Node and invokes Render with the matrices of the current pass.
type Drawable interface {
	Node() *Node
	Render(projection, view mgl32.Mat4)
	Close() error
}

// ColoredDrawable is a drawable with a uniform color.
type ColoredDrawable interface {
	Drawable
	SetColor(c Color)
}

// TexturedDrawable is a drawable sampling a color texture owned by the scene.
type TexturedDrawable interface {
	Drawable
	TextureID() TextureID
}

// TraceDrawable accumulates a polyline of visited positions.
type TraceDrawable interface {
	ColoredDrawable
	Update(position mgl32.Vec3)
}

// PointCloudDrawable renders a set of sensed points under a model transform.
type PointCloudDrawable interface {
	Render(projection, view, model mgl32.Mat4, points []r3.Vector)
	Close() error
}

// TouchEvent tags a gesture phase; values are forwarded verbatim from the
// platform binding to the gesture camera.
type TouchEvent int

// Gesture phases recognized by the camera controller.
const (
	TouchDown TouchEvent = iota
	TouchMove
	TouchUp
)

// GestureCamera is the user-steerable virtual camera collaborator. In
// first-person mode the scene drives it with the device pose every frame; in
// third-person mode it follows an anchor while gestures orbit/zoom it.
type GestureCamera interface {
	SetMode(mode CameraMode)
	SetAspectRatio(ratio float32)
	// SetPose drives the camera transform directly (first person, no damping).
	SetPose(pose mgl32.Mat4)
	// SetAnchor sets the follow position derived from the device pose.
	SetAnchor(position mgl32.Vec3)
	View() mgl32.Mat4
	Projection() mgl32.Mat4
	OnTouchEvent(touchCount int, event TouchEvent, x0, y0, x1, y1 float32)
	Close() error
}
