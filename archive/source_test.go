package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/upkg/internal/testutil"
)

func TestSource_Load(t *testing.T) {
	t.Parallel()

	src := testutil.NewMockByteSource(testutil.Concat(testutil.LE32(7), []byte{0x05}))
	ar := NewSource(src)
	assert.True(t, ar.IsLoading())
	assert.Same(t, src, ar.ByteSource())

	var v int32
	require.NoError(t, Int32(ar, &v))
	assert.Equal(t, int32(7), v)
	require.NoError(t, Index(ar, &v))
	assert.Equal(t, int32(5), v)

	eof, err := ar.IsEOF()
	require.NoError(t, err)
	assert.True(t, eof)

	err = ar.Serialize(make([]byte, 1))
	require.ErrorIs(t, err, ErrShortTransfer)
}

func TestSource_PositionOffset(t *testing.T) {
	t.Parallel()

	src := testutil.NewMockByteSource([]byte{9, 9, 9, 1, 0})
	ar := NewSource(src, WithPositionOffset(3))

	var v uint16
	require.NoError(t, Uint16(ar, &v))
	assert.Equal(t, uint16(1), v)
	assert.Equal(t, int64(2), ar.Pos())
}
