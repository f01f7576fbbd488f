package compact

import (
	"bytes"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend_KnownEncodings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    int32
		want []byte
	}{
		{name: "zero", v: 0, want: []byte{0x00}},
		{name: "five", v: 5, want: []byte{0x05}},
		{name: "largest one byte", v: 63, want: []byte{0x3f}},
		{name: "smallest two byte", v: 64, want: []byte{0x40, 0x01}},
		{name: "minus one", v: -1, want: []byte{0x81}},
		{name: "minus 63", v: -63, want: []byte{0xbf}},
		{name: "minus 64", v: -64, want: []byte{0xc0, 0x01}},
		{name: "minus 1000", v: -1000, want: []byte{0xe8, 0x0f}},
		{name: "largest two byte", v: 1<<13 - 1, want: []byte{0x7f, 0x7f}},
		{name: "smallest three byte", v: 1 << 13, want: []byte{0x40, 0x80, 0x01}},
		{name: "smallest five byte", v: 1 << 27, want: []byte{0x40, 0x80, 0x80, 0x80, 0x01}},
		{name: "max int32", v: math.MaxInt32, want: []byte{0x7f, 0xff, 0xff, 0xff, 0x0f}},
		{name: "min int32", v: math.MinInt32, want: []byte{0xc0, 0x80, 0x80, 0x80, 0x10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Append(nil, tt.v)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want), Len(tt.v))

			v, n, err := Decode(got)
			require.NoError(t, err)
			assert.Equal(t, tt.v, v)
			assert.Equal(t, len(got), n)
		})
	}
}

func TestLen_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    int32
		want int
	}{
		{0, 1}, {63, 1}, {-63, 1},
		{64, 2}, {-64, 2}, {1<<13 - 1, 2},
		{1 << 13, 3}, {1<<20 - 1, 3},
		{1 << 20, 4}, {1<<27 - 1, 4},
		{1 << 27, 5}, {math.MaxInt32, 5}, {math.MinInt32, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Len(tt.v), "Len(%d)", tt.v)
		assert.Len(t, Append(nil, tt.v), tt.want, "Append(%d)", tt.v)
	}
}

func TestRoundTrip_Random(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	buf := make([]byte, 0, MaxLen)
	for range 100000 {
		v := int32(rng.Uint32())
		buf = Append(buf[:0], v)
		got, err := Read(bytes.NewReader(buf))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestRead_ConsumesExactly(t *testing.T) {
	t.Parallel()

	var stream []byte
	values := []int32{0, -1000, 64, math.MaxInt32, -7}
	for _, v := range values {
		stream = Append(stream, v)
	}
	r := bytes.NewReader(stream)
	for _, want := range values {
		got, err := Read(r)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Zero(t, r.Len())
}

func TestDecode_NegativeZero(t *testing.T) {
	t.Parallel()

	v, n, err := Decode([]byte{0x80})
	require.NoError(t, err)
	assert.Zero(t, v)
	assert.Equal(t, 1, n)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{name: "empty", in: nil, want: ErrTruncated},
		{name: "continuation without next byte", in: []byte{0x40}, want: ErrTruncated},
		{name: "truncated after three bytes", in: []byte{0x40, 0x80, 0x80}, want: ErrTruncated},
		{name: "fifth byte too large", in: []byte{0x40, 0x80, 0x80, 0x80, 0x20}, want: ErrOverflow},
		{name: "positive magnitude 2^31", in: []byte{0x40, 0x80, 0x80, 0x80, 0x10}, want: ErrOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := Decode(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPut(t *testing.T) {
	t.Parallel()

	buf := make([]byte, MaxLen)
	n := Put(buf, -1000)
	assert.Equal(t, []byte{0xe8, 0x0f}, buf[:n])

	assert.Panics(t, func() { Put(make([]byte, 1), 64) })
}
