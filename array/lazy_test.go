package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/upkg/archive"
	"github.com/meigma/upkg/internal/testutil"
)

func TestLazy_WriterRecordsSkip(t *testing.T) {
	t.Parallel()

	var l Lazy[int32]
	l.AddItem(7)
	l.AddItem(8)

	w := archive.NewWriter(archive.WithVersion(VerLazyArraySkip))
	tail := uint16(0xbeef)
	require.NoError(t, l.Serialize(w, archive.Int32))
	require.NoError(t, archive.Uint16(w, &tail))
	assert.Equal(t, int64(13), l.SkipPos())

	want := testutil.Concat(testutil.LE32(13), []byte{0x02}, testutil.LE32(7), testutil.LE32(8), testutil.LE16(0xbeef))
	assert.Equal(t, want, w.Bytes())

	t.Run("load", func(t *testing.T) {
		t.Parallel()
		var got Lazy[int32]
		r := archive.NewReader(want, archive.WithVersion(VerLazyArraySkip))
		require.NoError(t, got.SerializeFixed(r, archive.Int32, 4))
		assert.Equal(t, []int32{7, 8}, got.Items())
		assert.Equal(t, int64(13), got.SkipPos())
		assert.Equal(t, r.Pos(), got.SkipPos())
	})

	t.Run("skip", func(t *testing.T) {
		t.Parallel()
		r := archive.NewReader(want, archive.WithVersion(VerLazyArraySkip))
		require.NoError(t, SkipLazy(r))
		assert.Equal(t, int64(13), r.Pos())
		var v uint16
		require.NoError(t, archive.Uint16(r, &v))
		assert.Equal(t, uint16(0xbeef), v)
	})
}

func TestLazy_OldVersionHasNoSkip(t *testing.T) {
	t.Parallel()

	var l Lazy[byte]
	l.AddItem(9)
	w := archive.NewWriter(archive.WithVersion(61))
	require.NoError(t, l.Serialize(w, archive.Byte))
	assert.Equal(t, []byte{0x01, 0x09}, w.Bytes())
	assert.Zero(t, l.SkipPos())

	r := archive.NewReader(w.Bytes(), archive.WithVersion(61))
	require.ErrorIs(t, SkipLazy(r), ErrSkipUnavailable)
	assert.NoError(t, r.Err())

	var got Lazy[byte]
	require.NoError(t, got.Serialize(r, archive.Byte))
	assert.Equal(t, []byte{0x09}, got.Items())
}

func TestLazy_ZeroSkipAccepted(t *testing.T) {
	t.Parallel()

	data := testutil.Concat(testutil.LE32(0), []byte{0x01, 0x05})
	var l Lazy[byte]
	require.NoError(t, l.Serialize(archive.NewReader(data), archive.Byte))
	assert.Equal(t, []byte{0x05}, l.Items())
	assert.Zero(t, l.SkipPos())
}

func TestLazy_Mismatch(t *testing.T) {
	t.Parallel()

	data := testutil.Concat(testutil.LE32(9), []byte{0x01, 0x05}, []byte{0, 0, 0})
	var l Lazy[byte]
	r := archive.NewReader(data)
	err := l.Serialize(r, archive.Byte)
	require.ErrorIs(t, err, ErrLazyMismatch)
	require.ErrorIs(t, err, archive.ErrFormat)
	require.ErrorIs(t, r.Err(), ErrLazyMismatch)
}

func TestSkipLazy_Errors(t *testing.T) {
	t.Parallel()

	t.Run("not loading", func(t *testing.T) {
		t.Parallel()
		require.ErrorIs(t, SkipLazy(archive.NewWriter()), archive.ErrNotLoading)
	})

	t.Run("backwards", func(t *testing.T) {
		t.Parallel()
		r := archive.NewReader(testutil.Concat(testutil.LE32(2), []byte{0x00}))
		err := SkipLazy(r)
		require.ErrorIs(t, err, ErrBadSkip)
		var arErr *archive.Error
		require.ErrorAs(t, err, &arErr)
		assert.Equal(t, int64(0), arErr.Offset)
	})

	t.Run("at cursor", func(t *testing.T) {
		t.Parallel()
		r := archive.NewReader(testutil.Concat(testutil.LE32(4), []byte{0x00}))
		require.ErrorIs(t, SkipLazy(r), ErrBadSkip)
	})
}
