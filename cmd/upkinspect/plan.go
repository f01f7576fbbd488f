package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/meigma/upkg/archive"
	"github.com/meigma/upkg/array"
)

// step decodes one item and renders its value.
type step struct {
	kind   string
	decode func(ar archive.Archive) (string, error)
}

var decoders = map[string]func(ar archive.Archive) (string, error){
	"u8": func(ar archive.Archive) (string, error) {
		var v uint8
		return render(&v, archive.Byte(ar, &v))
	},
	"i8": func(ar archive.Archive) (string, error) {
		var v int8
		return render(&v, archive.Int8(ar, &v))
	},
	"u16": func(ar archive.Archive) (string, error) {
		var v uint16
		return render(&v, archive.Uint16(ar, &v))
	},
	"i16": func(ar archive.Archive) (string, error) {
		var v int16
		return render(&v, archive.Int16(ar, &v))
	},
	"u32": func(ar archive.Archive) (string, error) {
		var v uint32
		if err := archive.Uint32(ar, &v); err != nil {
			return "", err
		}
		return fmt.Sprintf("%d (0x%08x)", v, v), nil
	},
	"i32": func(ar archive.Archive) (string, error) {
		var v int32
		return render(&v, archive.Int32(ar, &v))
	},
	"f32": func(ar archive.Archive) (string, error) {
		var v float32
		return render(&v, archive.Float32(ar, &v))
	},
	"bool": func(ar archive.Archive) (string, error) {
		var v bool
		return render(&v, archive.Bool(ar, &v))
	},
	"idx": func(ar archive.Archive) (string, error) {
		var v int32
		return render(&v, archive.Index(ar, &v))
	},
	"name": func(ar archive.Archive) (string, error) {
		var v archive.NameIndex
		return render(&v, archive.Name(ar, &v))
	},
	"obj": func(ar archive.Archive) (string, error) {
		var v archive.ObjectIndex
		return render(&v, archive.Object(ar, &v))
	},
	"str": func(ar archive.Archive) (string, error) {
		var s array.String
		if err := s.Serialize(ar); err != nil {
			return "", err
		}
		return strconv.Quote(s.String()), nil
	},
	"skiplazy": func(ar archive.Archive) (string, error) {
		if err := array.SkipLazy(ar); err != nil {
			return "", err
		}
		return fmt.Sprintf("-> 0x%08x", ar.Pos()), nil
	},
}

// render formats the value a decode stored in p.
func render[T any](p *T, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return fmt.Sprint(*p), nil
}

// parsePlan parses a comma separated list of kinds. A kind may carry a
// repeat count, as in "u32*4".
func parsePlan(list string) ([]step, error) {
	var plan []step
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		kind, count := item, 1
		if k, n, ok := strings.Cut(item, "*"); ok {
			c, err := strconv.Atoi(n)
			if err != nil || c <= 0 {
				return nil, fmt.Errorf("invalid repeat count in %q", item)
			}
			kind, count = k, c
		}
		decode, ok := decoders[kind]
		if !ok {
			return nil, fmt.Errorf("unknown kind %q", kind)
		}
		for range count {
			plan = append(plan, step{kind: kind, decode: decode})
		}
	}
	if len(plan) == 0 {
		return nil, errors.New("empty decode plan")
	}
	return plan, nil
}
