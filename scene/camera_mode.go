package scene

import "github.com/go-gl/mathgl/mgl32"

// CameraMode selects how the virtual camera is driven and how the video
// overlay is placed in the scene.
type CameraMode int

const (
	// FirstPerson fills the screen with the video overlay and drives the
	// camera with the device pose directly.
	FirstPerson CameraMode = iota
	// ThirdPerson shows a free virtual camera following the device, with the
	// video overlay placed on the device's image plane.
	ThirdPerson
)

func (m CameraMode) String() string {
	switch m {
	case FirstPerson:
		return "first-person"
	case ThirdPerson:
		return "third-person"
	default:
		return "unknown"
	}
}

// placement is a (parent, local transform) configuration applied to an
// overlay node when the camera mode changes.
type placement struct {
	parent   *Node
	scale    mgl32.Vec3
	position mgl32.Vec3
	rotation mgl32.Quat
}

func (p placement) applyTo(n *Node) {
	n.SetParent(p.parent)
	n.SetScale(p.scale)
	n.SetPosition(p.position)
	n.SetRotation(p.rotation)
}

// modeController re-parents and re-transforms the overlay nodes on a mode
// switch. Placements are a fixed table keyed by mode, applied in one shot on
// transition rather than recomputed per frame.
type modeController struct {
	mode      CameraMode
	video     *Node
	depthQuad *Node

	videoByMode map[CameraMode]placement
	// The depth-visualization quad sits at a fixed screen-space-like offset
	// regardless of mode.
	quadPlacement placement
}

func newModeController(video, depthQuad, axis *Node, imagePlaneRatio, imagePlaneDistance float32) *modeController {
	return &modeController{
		mode:      ThirdPerson,
		video:     video,
		depthQuad: depthQuad,
		videoByMode: map[CameraMode]placement{
			FirstPerson: {
				parent:   nil,
				scale:    mgl32.Vec3{1, 1, 1},
				position: mgl32.Vec3{},
				rotation: mgl32.QuatIdent(),
			},
			ThirdPerson: {
				parent:   axis,
				scale:    mgl32.Vec3{1, imagePlaneRatio, 1},
				position: mgl32.Vec3{0, 0, -imagePlaneDistance},
				rotation: mgl32.QuatIdent(),
			},
		},
		quadPlacement: placement{
			parent:   nil,
			scale:    mgl32.Vec3{0.3, 0.3, 0.3},
			position: mgl32.Vec3{0.6, -0.6, 0},
			rotation: mgl32.QuatIdent(),
		},
	}
}

// SetMode applies the placement table for the new mode.
func (c *modeController) SetMode(mode CameraMode) {
	c.mode = mode
	c.videoByMode[mode].applyTo(c.video)
	c.quadPlacement.applyTo(c.depthQuad)
}

// Mode returns the current camera mode.
func (c *modeController) Mode() CameraMode {
	return c.mode
}
