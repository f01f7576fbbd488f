package cache

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/upkg/archive"
	"github.com/meigma/upkg/internal/testutil"
)

func pattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i * 31)
	}
	return data
}

func TestBlockCache_ReadAt(t *testing.T) {
	t.Parallel()

	data := pattern(1000)
	src := testutil.NewMockByteSource(data)
	c, err := NewBlockCache(8)
	require.NoError(t, err)
	cached, err := c.Wrap(src, WithBlockSize(64))
	require.NoError(t, err)
	assert.Equal(t, src.SourceID(), cached.SourceID())
	assert.Equal(t, int64(1000), cached.Size())

	tests := []struct {
		name string
		off  int64
		n    int
	}{
		{"within block", 3, 10},
		{"across blocks", 60, 10},
		{"tail block", 990, 10},
	}
	for _, tt := range tests {
		buf := make([]byte, tt.n)
		n, err := cached.ReadAt(buf, tt.off)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.n, n, tt.name)
		assert.Equal(t, data[tt.off:tt.off+int64(tt.n)], buf, tt.name)
	}

	reads := src.Reads()
	buf := make([]byte, 4)
	_, err = cached.ReadAt(buf, 5)
	require.NoError(t, err)
	assert.Equal(t, reads, src.Reads(), "second read of a block must hit the cache")
	assert.Positive(t, c.Stats().Hits)
}

func TestBlockCache_EOF(t *testing.T) {
	t.Parallel()

	data := pattern(100)
	c, err := NewBlockCache(4)
	require.NoError(t, err)
	cached, err := c.Wrap(testutil.NewMockByteSource(data), WithBlockSize(32))
	require.NoError(t, err)

	buf := make([]byte, 10)
	n, err := cached.ReadAt(buf, 95)
	assert.Equal(t, 5, n)
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, data[95:], buf[:5])

	_, err = cached.ReadAt(buf, 100)
	require.ErrorIs(t, err, io.EOF)

	_, err = cached.ReadAt(buf, -1)
	assert.Error(t, err)
}

func TestBlockCache_Eviction(t *testing.T) {
	t.Parallel()

	src := testutil.NewMockByteSource(pattern(256))
	c, err := NewBlockCache(2)
	require.NoError(t, err)
	cached, err := c.Wrap(src, WithBlockSize(16))
	require.NoError(t, err)

	buf := make([]byte, 1)
	for _, off := range []int64{0, 16, 32} {
		_, err := cached.ReadAt(buf, off)
		require.NoError(t, err)
	}
	stats := c.Stats()
	assert.Equal(t, 2, stats.Blocks)
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, int64(32), stats.Bytes)

	before := src.Reads()
	_, err = cached.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, before+1, src.Reads(), "evicted block is fetched again")

	c.Purge()
	assert.Zero(t, c.Stats().Blocks)
	assert.Zero(t, c.Stats().Bytes)
}

func TestBlockCache_BypassLargeReads(t *testing.T) {
	t.Parallel()

	data := pattern(512)
	src := testutil.NewMockByteSource(data)
	c, err := NewBlockCache(64)
	require.NoError(t, err)
	cached, err := c.Wrap(src, WithBlockSize(16), WithMaxBlocksPerRead(2))
	require.NoError(t, err)

	buf := make([]byte, 100)
	_, err = cached.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, data[:100], buf)
	assert.Zero(t, c.Stats().Blocks)
}

func TestBlockCache_ConcurrentReaders(t *testing.T) {
	t.Parallel()

	data := pattern(4096)
	src := testutil.NewMockByteSource(data)
	c, err := NewBlockCache(128)
	require.NoError(t, err)
	cached, err := c.Wrap(src, WithBlockSize(128))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, 7)
			for off := int64(g); off < 4000; off += 97 {
				n, err := cached.ReadAt(buf, off)
				if !assert.NoError(t, err) || !assert.Equal(t, data[off:off+int64(n)], buf[:n]) {
					return
				}
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Stats().Misses, int64(4096/128))
}

type rangeSource struct {
	*testutil.MockByteSource
	ranges int
}

func (r *rangeSource) ReadRange(off, length int64) (io.ReadCloser, error) {
	r.ranges++
	return io.NopCloser(io.NewSectionReader(r.MockByteSource, off, length)), nil
}

func TestBlockCache_PrefersRangeReader(t *testing.T) {
	t.Parallel()

	data := pattern(300)
	src := &rangeSource{MockByteSource: testutil.NewMockByteSource(data)}
	c, err := NewBlockCache(8)
	require.NoError(t, err)
	cached, err := c.Wrap(src, WithBlockSize(100))
	require.NoError(t, err)

	rc, err := cached.ReadRange(50, 100)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, data[50:150], got)
	assert.Equal(t, 2, src.ranges)
}

func TestBlockCache_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewBlockCache(0)
	require.Error(t, err)

	c, err := NewBlockCache(1)
	require.NoError(t, err)
	_, err = c.Wrap(nil)
	require.Error(t, err)
	_, err = c.Wrap(testutil.NewMockByteSource(nil), WithBlockSize(0))
	require.Error(t, err)
	_, err = c.Wrap(testutil.NewMockByteSource(nil), WithMaxBlocksPerRead(-1))
	require.Error(t, err)
}

type failingSource struct{ *testutil.MockByteSource }

var errBackend = errors.New("backend down")

func (failingSource) ReadAt([]byte, int64) (int, error) { return 0, errBackend }

func TestBlockCache_ArchiveOverCache(t *testing.T) {
	t.Parallel()

	payload := testutil.Concat(testutil.LE32(0x9e2a83c1), []byte{0x45, 0x00})
	c, err := NewBlockCache(4)
	require.NoError(t, err)
	cached, err := c.Wrap(testutil.NewMockByteSource(payload), WithBlockSize(4))
	require.NoError(t, err)

	ar := archive.NewSource(cached)
	var tag uint32
	var version uint16
	require.NoError(t, archive.Uint32(ar, &tag))
	require.NoError(t, archive.Uint16(ar, &version))
	assert.Equal(t, uint32(0x9e2a83c1), tag)
	assert.Equal(t, uint16(69), version)

	broken, err := c.Wrap(failingSource{testutil.NewMockByteSource(bytes.Repeat([]byte{1}, 8))})
	require.NoError(t, err)
	err = archive.Uint32(archive.NewSource(broken), &tag)
	require.ErrorIs(t, err, archive.ErrIO)
	require.ErrorIs(t, err, errBackend)
}
