// Package geom provides the aggregate math values stored in package files.
// Each type streams itself as the concatenation of its fields and can be
// used as an array element through array.Of.
package geom

import "github.com/meigma/upkg/archive"

// VerSphereRadius is the first format version that stores Sphere.R.
const VerSphereRadius = 61

// Wire sizes of the fixed-width types, for array.SerializeFixed.
const (
	VectorSize  = 12
	RotatorSize = 12
	QuatSize    = 16
	CoordsSize  = 4 * VectorSize
	BoxSize     = 2*VectorSize + 1
	PlaneSize   = 16
	MatrixSize  = 4 * PlaneSize
	ScaleSize   = VectorSize + 5
	ColorSize   = 4
)

// Vector is a point or direction.
type Vector struct {
	X, Y, Z float32
}

// Scale returns v multiplied by f.
func (v Vector) Scale(f float32) Vector {
	return Vector{v.X * f, v.Y * f, v.Z * f}
}

// Serialize streams X, Y, Z.
func (v *Vector) Serialize(ar archive.Archive) error {
	return floats(ar, &v.X, &v.Y, &v.Z)
}

// Rotator is an orientation in engine angle units (65536 per turn).
type Rotator struct {
	Pitch, Yaw, Roll int32
}

// Serialize streams Pitch, Yaw, Roll.
func (r *Rotator) Serialize(ar archive.Archive) error {
	for _, p := range []*int32{&r.Pitch, &r.Yaw, &r.Roll} {
		if err := archive.Int32(ar, p); err != nil {
			return err
		}
	}
	return nil
}

// Quat is a rotation quaternion.
type Quat struct {
	X, Y, Z, W float32
}

// Serialize streams X, Y, Z, W.
func (q *Quat) Serialize(ar archive.Archive) error {
	return floats(ar, &q.X, &q.Y, &q.Z, &q.W)
}

// Coords is a coordinate system.
type Coords struct {
	Origin, XAxis, YAxis, ZAxis Vector
}

// Serialize streams the origin followed by the three axes.
func (c *Coords) Serialize(ar archive.Archive) error {
	return vectors(ar, &c.Origin, &c.XAxis, &c.YAxis, &c.ZAxis)
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vector
	IsValid  uint8
}

// Serialize streams Min, Max and the validity byte.
func (b *Box) Serialize(ar archive.Archive) error {
	if err := vectors(ar, &b.Min, &b.Max); err != nil {
		return err
	}
	return archive.Byte(ar, &b.IsValid)
}

// Sphere is a bounding sphere. Packages older than VerSphereRadius store the
// center only.
type Sphere struct {
	Vector
	R float32
}

// Serialize streams the center, then R when the format version has it.
func (s *Sphere) Serialize(ar archive.Archive) error {
	if err := s.Vector.Serialize(ar); err != nil {
		return err
	}
	if ar.Format().Version < VerSphereRadius {
		return nil
	}
	return archive.Float32(ar, &s.R)
}

// Plane is a plane in Hessian normal form.
type Plane struct {
	Vector
	W float32
}

// Serialize streams the normal followed by W.
func (p *Plane) Serialize(ar archive.Archive) error {
	if err := p.Vector.Serialize(ar); err != nil {
		return err
	}
	return archive.Float32(ar, &p.W)
}

// Matrix is a 4x4 matrix stored as four planes.
type Matrix struct {
	XPlane, YPlane, ZPlane, WPlane Plane
}

// Serialize streams the four planes.
func (m *Matrix) Serialize(ar archive.Archive) error {
	for _, p := range []*Plane{&m.XPlane, &m.YPlane, &m.ZPlane, &m.WPlane} {
		if err := p.Serialize(ar); err != nil {
			return err
		}
	}
	return nil
}

// SheerAxis selects the axis pair a Scale shears along.
type SheerAxis uint8

// Shear axes.
const (
	SheerNone SheerAxis = iota
	SheerZX
	SheerZY
	SheerXY
	SheerXZ
	SheerYX
	SheerYZ
)

// Scale is a non-uniform scale with optional shear.
type Scale struct {
	Scale     Vector
	SheerRate float32
	SheerAxis SheerAxis
}

// Serialize streams the scale vector, shear rate and shear axis.
func (s *Scale) Serialize(ar archive.Archive) error {
	if err := s.Scale.Serialize(ar); err != nil {
		return err
	}
	if err := archive.Float32(ar, &s.SheerRate); err != nil {
		return err
	}
	axis := uint8(s.SheerAxis)
	if err := archive.Byte(ar, &axis); err != nil {
		return err
	}
	s.SheerAxis = SheerAxis(axis)
	return nil
}

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Serialize streams R, G, B, A.
func (c *Color) Serialize(ar archive.Archive) error {
	b := [ColorSize]byte{c.R, c.G, c.B, c.A}
	if err := ar.Serialize(b[:]); err != nil {
		return err
	}
	c.R, c.G, c.B, c.A = b[0], b[1], b[2], b[3]
	return nil
}

func floats(ar archive.Archive, vals ...*float32) error {
	for _, v := range vals {
		if err := archive.Float32(ar, v); err != nil {
			return err
		}
	}
	return nil
}

func vectors(ar archive.Archive, vals ...*Vector) error {
	for _, v := range vals {
		if err := v.Serialize(ar); err != nil {
			return err
		}
	}
	return nil
}
