package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Preview bounds. Oversized values are truncated rather than rendered in
// full so a preview can never stall the event loop that requested it.
const (
	previewMaxDepth = 8
	previewMaxElems = 64
	previewMaxBytes = 16 * 1024
)

// Placeholders emitted where a value cannot be rendered.
const (
	previewCycle        = "<cycle>"
	previewTruncated    = "…"
	previewUnrenderable = "<unrenderable>"
)

// Preview renders an arbitrary runtime value as a canonical, human-readable
// string for fixed-width display. It is total: any input produces a string,
// never a panic. Cyclic values, unserializable members (functions, channels),
// and oversized structures degrade to placeholders instead of failing.
func Preview(v any) (out string) {
	defer func() {
		if recover() != nil {
			out = previewUnrenderable
		}
	}()

	p := &previewer{seen: make(map[uintptr]bool)}
	p.value(reflect.ValueOf(v), 0)
	return p.b.String()
}

type previewer struct {
	b    strings.Builder
	seen map[uintptr]bool // addresses of containers on the current path
	full bool             // output budget exhausted
}

// write appends s, enforcing the total output budget.
func (p *previewer) write(s string) {
	if p.full {
		return
	}
	if p.b.Len()+len(s) > previewMaxBytes {
		p.b.WriteString(previewTruncated)
		p.full = true
		return
	}
	p.b.WriteString(s)
}

func (p *previewer) value(v reflect.Value, depth int) {
	if p.full {
		return
	}
	if !v.IsValid() {
		p.write("null")
		return
	}
	if depth > previewMaxDepth {
		p.write(previewTruncated)
		return
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			p.write("null")
			return
		}
		p.value(v.Elem(), depth)

	case reflect.Pointer:
		if v.IsNil() {
			p.write("null")
			return
		}
		if !p.enter(v) {
			return
		}
		p.value(v.Elem(), depth)
		p.leave(v)

	case reflect.Bool:
		p.write(strconv.FormatBool(v.Bool()))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		p.write(strconv.FormatInt(v.Int(), 10))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		p.write(strconv.FormatUint(v.Uint(), 10))

	case reflect.Float32, reflect.Float64:
		p.write(strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits()))

	case reflect.String:
		p.write(strconv.Quote(v.String()))

	case reflect.Slice, reflect.Array:
		p.seq(v, depth)

	case reflect.Map:
		p.mapping(v, depth)

	case reflect.Struct:
		p.structure(v, depth)

	default:
		// func, chan, unsafe pointer, complex: not representable.
		p.write("<" + v.Kind().String() + ">")
	}
}

func (p *previewer) seq(v reflect.Value, depth int) {
	if v.Kind() == reflect.Slice {
		if v.IsNil() {
			p.write("null")
			return
		}
		if !p.enter(v) {
			return
		}
		defer p.leave(v)
	}

	p.write("[")
	n := v.Len()
	for i := 0; i < n && !p.full; i++ {
		if i > 0 {
			p.write(", ")
		}
		if i == previewMaxElems {
			p.write(previewTruncated)
			break
		}
		p.value(v.Index(i), depth+1)
	}
	p.write("]")
}

func (p *previewer) mapping(v reflect.Value, depth int) {
	if v.IsNil() {
		p.write("null")
		return
	}
	if !p.enter(v) {
		return
	}
	defer p.leave(v)

	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return keyString(keys[i]) < keyString(keys[j])
	})

	p.write("{")
	for i, k := range keys {
		if p.full {
			break
		}
		if i > 0 {
			p.write(", ")
		}
		if i == previewMaxElems {
			p.write(previewTruncated)
			break
		}
		p.write(keyString(k) + ": ")
		p.value(v.MapIndex(k), depth+1)
	}
	p.write("}")
}

func (p *previewer) structure(v reflect.Value, depth int) {
	t := v.Type()
	p.write("{")
	first := true
	for i := 0; i < t.NumField() && !p.full; i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if !first {
			p.write(", ")
		}
		first = false
		p.write(f.Name + ": ")
		p.value(v.Field(i), depth+1)
	}
	p.write("}")
}

// enter marks a container address as being on the current path. It returns
// false (after writing the cycle placeholder) when the container is already
// on the path, which is the only way a cycle can form.
func (p *previewer) enter(v reflect.Value) bool {
	addr := v.Pointer()
	if p.seen[addr] {
		p.write(previewCycle)
		return false
	}
	p.seen[addr] = true
	return true
}

func (p *previewer) leave(v reflect.Value) {
	delete(p.seen, v.Pointer())
}

func keyString(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}
