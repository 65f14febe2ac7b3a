package scene

import "github.com/go-gl/mathgl/mgl32"

// Node is a transformable scene element with an optional parent. The parent
// reference is non-owning: nodes never free each other, the Scene owns every
// drawable and tears them down together.
type Node struct {
	parent   *Node
	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3
}

// NewNode returns a node with an identity local transform and no parent.
func NewNode() *Node {
	return &Node{
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
	}
}

// SetParent attaches the node under parent; nil detaches it.
func (n *Node) SetParent(parent *Node) { n.parent = parent }

// Parent returns the node's parent, or nil.
func (n *Node) Parent() *Node { return n.parent }

// SetPosition sets the local translation.
func (n *Node) SetPosition(p mgl32.Vec3) { n.position = p }

// Position returns the local translation.
func (n *Node) Position() mgl32.Vec3 { return n.position }

// SetRotation sets the local rotation.
func (n *Node) SetRotation(q mgl32.Quat) { n.rotation = q }

// Rotation returns the local rotation.
func (n *Node) Rotation() mgl32.Quat { return n.rotation }

// SetScale sets the local scale.
func (n *Node) SetScale(s mgl32.Vec3) { n.scale = s }

// Scale returns the local scale.
func (n *Node) Scale() mgl32.Vec3 { return n.scale }

// SetTransform sets position and rotation from a rigid transform matrix,
// leaving scale untouched.
func (n *Node) SetTransform(m mgl32.Mat4) {
	n.position = m.Col(3).Vec3()
	n.rotation = mgl32.Mat4ToQuat(m)
}

// LocalTransform composes translation, rotation, and scale.
func (n *Node) LocalTransform() mgl32.Mat4 {
	t := mgl32.Translate3D(n.position.X(), n.position.Y(), n.position.Z())
	r := n.rotation.Mat4()
	s := mgl32.Scale3D(n.scale.X(), n.scale.Y(), n.scale.Z())
	return t.Mul4(r).Mul4(s)
}

// WorldTransform composes the local transform with the parent chain.
func (n *Node) WorldTransform() mgl32.Mat4 {
	if n.parent == nil {
		return n.LocalTransform()
	}
	return n.parent.WorldTransform().Mul4(n.LocalTransform())
}
