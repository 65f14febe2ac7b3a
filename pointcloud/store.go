// Package pointcloud holds the most recently sensed depth point cloud for the
// render pass. Every delivery replaces the previous cloud wholesale; there is
// no incremental merge.
package pointcloud

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Empirical visual correction applied to sensed points on ingestion. These are
// fixed factors, not derived from calibration data.
const (
	scaleX = 0.9
	scaleY = 1.2
	scaleZ = 1.0
)

// Store hands a point cloud from the depth-callback goroutine to the render
// goroutine. The mutex covers only the pointer replace and the snapshot copy;
// scaling happens on the producer side before the lock is taken.
type Store struct {
	mu        sync.Mutex
	points    []r3.Vector
	transform mgl32.Mat4
}

// NewStore returns an empty Store with an identity transform.
func NewStore() *Store {
	return &Store{transform: mgl32.Ident4()}
}

// Deliver replaces the stored cloud and its transform. Points are scaled on
// ingestion; the caller keeps ownership of its slice.
func (s *Store) Deliver(points []r3.Vector, transform mgl32.Mat4) {
	scaled := make([]r3.Vector, len(points))
	for i, p := range points {
		scaled[i] = scalePoint(p)
	}
	s.replace(scaled, transform)
}

// DeliverRaw ingests the flat xyz triple array handed to the depth callback.
func (s *Store) DeliverRaw(count int, xyz []float32, transform mgl32.Mat4) error {
	if len(xyz) < count*3 {
		return errors.Errorf("point array too short: %d floats for %d points", len(xyz), count)
	}
	scaled := make([]r3.Vector, count)
	for i := 0; i < count; i++ {
		scaled[i] = scalePoint(r3.Vector{
			X: float64(xyz[i*3]),
			Y: float64(xyz[i*3+1]),
			Z: float64(xyz[i*3+2]),
		})
	}
	s.replace(scaled, transform)
	return nil
}

func scalePoint(p r3.Vector) r3.Vector {
	return r3.Vector{X: p.X * scaleX, Y: p.Y * scaleY, Z: p.Z * scaleZ}
}

func (s *Store) replace(points []r3.Vector, transform mgl32.Mat4) {
	s.mu.Lock()
	s.points = points
	s.transform = transform
	s.mu.Unlock()
}

// Snapshot copies out the current cloud and transform. The returned slice is
// owned by the caller; later deliveries do not affect it.
func (s *Store) Snapshot() ([]r3.Vector, mgl32.Mat4) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]r3.Vector, len(s.points))
	copy(out, s.points)
	return out, s.transform
}

// Size returns the number of stored points.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.points)
}
