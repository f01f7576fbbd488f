package archive

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seenRef struct {
	kind   RefKind
	index  int32
	offset int64
}

func TestReferences_DefaultWireShape(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	name := NameIndex(3)
	obj := ObjectIndex(-70)
	require.NoError(t, Name(w, &name))
	require.NoError(t, Object(w, &obj))
	assert.Equal(t, []byte{0x03, 0xc6, 0x01}, w.Bytes())

	var seen []seenRef
	r := NewReader(w.Bytes(), WithReferenceHook(func(kind RefKind, index int32, offset int64) {
		seen = append(seen, seenRef{kind, index, offset})
	}))
	var gotName NameIndex
	var gotObj ObjectIndex
	require.NoError(t, Name(r, &gotName))
	require.NoError(t, Object(r, &gotObj))

	assert.Equal(t, name, gotName)
	assert.Equal(t, obj, gotObj)
	assert.Equal(t, []seenRef{{RefName, 3, 0}, {RefObject, -70, 1}}, seen)
}

func TestReferences_ResolverOnlyAffectsLogs(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	resolver := ResolverFunc(func(kind RefKind, index int32) (string, bool) {
		if kind == RefObject && index == 2 {
			return "Engine.Actor", true
		}
		return "", false
	})

	r := NewReader([]byte{0x02, 0x05}, WithLogger(logger), WithResolver(resolver))
	var a, b ObjectIndex
	require.NoError(t, Object(r, &a))
	require.NoError(t, Object(r, &b))

	assert.Equal(t, ObjectIndex(2), a)
	assert.Equal(t, ObjectIndex(5), b)
	assert.Contains(t, logs.String(), "resolved=Engine.Actor")
	assert.Contains(t, logs.String(), "index=5")
}

func TestRefKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "name", RefName.String())
	assert.Equal(t, "object", RefObject.String())
	assert.Equal(t, "unknown", RefKind(0).String())
}

// tableArchive stores names as 32-bit integers, the way some licensee forks do.
type tableArchive struct {
	*Buffer
	names []string
}

func (a *tableArchive) SerializeName(n *NameIndex) error {
	v := int32(*n)
	if err := Int32(a, &v); err != nil {
		return err
	}
	if int(v) >= len(a.names) {
		return a.Fail("name", a.Pos()-4, fmt.Errorf("%w: name %d out of range", ErrFormat, v))
	}
	*n = NameIndex(v)
	return nil
}

func TestReferences_Override(t *testing.T) {
	t.Parallel()

	ar := &tableArchive{
		Buffer: NewReader([]byte{1, 0, 0, 0, 9, 0, 0, 0}),
		names:  []string{"None", "Core"},
	}
	var n NameIndex
	require.NoError(t, Name(ar, &n))
	assert.Equal(t, "Core", ar.names[n])

	err := Name(ar, &n)
	require.ErrorIs(t, err, ErrFormat)
	var arErr *Error
	require.ErrorAs(t, err, &arErr)
	assert.Equal(t, int64(4), arErr.Offset)
}

func TestReferences_IndexNone(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	name := NameIndex(IndexNone)
	obj := ObjectIndex(IndexNone)
	require.NoError(t, Name(w, &name))
	require.NoError(t, Object(w, &obj))
	assert.Equal(t, []byte{0x81, 0x81}, w.Bytes())

	r := NewReader(w.Bytes())
	var gotName NameIndex
	var gotObj ObjectIndex
	require.NoError(t, Name(r, &gotName))
	require.NoError(t, Object(r, &gotObj))
	assert.Equal(t, NameIndex(-1), gotName)
	assert.Equal(t, ObjectIndex(-1), gotObj)
}
