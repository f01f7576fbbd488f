package archive

import "fmt"

// NameIndex is an index into a package's name table. The archive transports
// it without resolving it.
type NameIndex int32

// ObjectIndex is an index into a package's import/export object tables. The
// archive transports it without resolving it.
type ObjectIndex int32

// RefKind identifies the table a reference points into.
type RefKind uint8

// Reference kinds.
const (
	RefName RefKind = iota + 1
	RefObject
)

// String returns the human-readable name of the reference kind.
func (k RefKind) String() string {
	switch k {
	case RefName:
		return "name"
	case RefObject:
		return "object"
	default:
		return "unknown"
	}
}

// Resolver describes references for diagnostics. It is supplied by the
// package loader that owns the name and object tables; archives only use it
// for log output, never to decide how to decode.
type Resolver interface {
	Resolve(kind RefKind, index int32) (string, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(kind RefKind, index int32) (string, bool)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(kind RefKind, index int32) (string, bool) {
	return f(kind, index)
}

// ReferenceHook observes every decoded reference together with the archive
// position at which its encoding started.
type ReferenceHook func(kind RefKind, index int32, offset int64)

// Name streams a name reference through ar.SerializeName, so archives that
// redefine SerializeName take effect.
func Name(ar Archive, n *NameIndex) error {
	return ar.SerializeName(n)
}

// Object streams an object reference through ar.SerializeObject.
func Object(ar Archive, o *ObjectIndex) error {
	return ar.SerializeObject(o)
}

// SerializeName implements Archive. The default wire shape is one compact index.
func (s *stream) SerializeName(n *NameIndex) error {
	start := s.pos
	v := int32(*n)
	if err := Index(s, &v); err != nil {
		return err
	}
	*n = NameIndex(v)
	if s.loading {
		s.observe(RefName, v, start)
	}
	return nil
}

// SerializeObject implements Archive. The default wire shape is one compact index.
func (s *stream) SerializeObject(o *ObjectIndex) error {
	start := s.pos
	v := int32(*o)
	if err := Index(s, &v); err != nil {
		return err
	}
	*o = ObjectIndex(v)
	if s.loading {
		s.observe(RefObject, v, start)
	}
	return nil
}

func (s *stream) observe(kind RefKind, index int32, offset int64) {
	if s.hook != nil {
		s.hook(kind, index, offset)
	}
	if s.logger == nil {
		return
	}
	attrs := []any{"kind", kind.String(), "index", index, "offset", offset}
	if s.resolver != nil {
		if desc, ok := s.resolver.Resolve(kind, index); ok {
			attrs = append(attrs, "resolved", desc)
		}
	}
	s.logger.Debug(fmt.Sprintf("%s reference", kind), attrs...)
}
