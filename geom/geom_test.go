package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/upkg/archive"
	"github.com/meigma/upkg/array"
	"github.com/meigma/upkg/internal/testutil"
)

func TestFixedSizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    archive.Serializer
		size int
	}{
		{"vector", &Vector{1, 2, 3}, VectorSize},
		{"rotator", &Rotator{16384, -1, 3}, RotatorSize},
		{"quat", &Quat{0, 0, 0, 1}, QuatSize},
		{"coords", &Coords{XAxis: Vector{X: 1}}, CoordsSize},
		{"box", &Box{Max: Vector{1, 1, 1}, IsValid: 1}, BoxSize},
		{"plane", &Plane{Vector{0, 0, 1}, 5}, PlaneSize},
		{"matrix", &Matrix{WPlane: Plane{W: 1}}, MatrixSize},
		{"scale", &Scale{Scale: Vector{1, 1, 1}, SheerRate: 0.5, SheerAxis: SheerXY}, ScaleSize},
		{"color", &Color{255, 128, 0, 255}, ColorSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := archive.NewWriter()
			require.NoError(t, tt.v.Serialize(w))
			assert.Equal(t, tt.size, w.Len())
		})
	}
}

func TestVector_Wire(t *testing.T) {
	t.Parallel()

	data := testutil.Concat(testutil.LEF32(1.5), testutil.LEF32(-2), testutil.LEF32(0.25))
	var v Vector
	require.NoError(t, v.Serialize(archive.NewReader(data)))
	assert.Equal(t, Vector{1.5, -2, 0.25}, v)
	assert.Equal(t, Vector{3, -4, 0.5}, v.Scale(2))
}

func TestSphere_RadiusByVersion(t *testing.T) {
	t.Parallel()

	s := Sphere{Vector: Vector{1, 2, 3}, R: 4}

	old := archive.NewWriter(archive.WithVersion(VerSphereRadius - 1))
	require.NoError(t, s.Serialize(old))
	assert.Equal(t, VectorSize, old.Len())

	cur := archive.NewWriter(archive.WithVersion(VerSphereRadius))
	require.NoError(t, s.Serialize(cur))
	assert.Equal(t, VectorSize+4, cur.Len())

	var got Sphere
	require.NoError(t, got.Serialize(archive.NewReader(cur.Bytes(), archive.WithVersion(VerSphereRadius))))
	assert.Equal(t, s, got)

	var centerOnly Sphere
	require.NoError(t, centerOnly.Serialize(archive.NewReader(old.Bytes(), archive.WithVersion(60))))
	assert.Equal(t, Sphere{Vector: s.Vector}, centerOnly)
}

func TestColor_ByteOrder(t *testing.T) {
	t.Parallel()

	var c Color
	require.NoError(t, c.Serialize(archive.NewReader([]byte{1, 2, 3, 4})))
	assert.Equal(t, Color{R: 1, G: 2, B: 3, A: 4}, c)
}

func TestArrayOfBoxes(t *testing.T) {
	t.Parallel()

	var boxes array.Array[Box]
	boxes.AddItem(Box{Min: Vector{-1, -1, -1}, Max: Vector{1, 1, 1}, IsValid: 1})
	boxes.AddItem(Box{})

	w := archive.NewWriter()
	require.NoError(t, boxes.Serialize(w, array.Of[Box]()))
	assert.Equal(t, 1+2*BoxSize, w.Len())

	var got array.Array[Box]
	r := archive.NewReader(w.Bytes())
	require.NoError(t, got.SerializeFixed(r, array.Of[Box](), BoxSize))
	assert.Equal(t, boxes.Items(), got.Items())
}

func TestMatrix_Truncated(t *testing.T) {
	t.Parallel()

	var m Matrix
	err := m.Serialize(archive.NewReader(make([]byte, MatrixSize-1)))
	require.ErrorIs(t, err, archive.ErrShortTransfer)
}
