// Package schema models the shape of values flowing between workflow nodes:
// a recursive description of a value's type and structure, independent of any
// concrete value. Schemas are immutable after construction; consumers only
// traverse them.
package schema

import (
	"fmt"
	"strings"
)

// Kind is the type tag of a schema node.
//
// The enumeration is a contract with the node-execution system. Kinds outside
// this set may still appear in documents produced by newer frontends; they are
// treated as opaque leaves rather than rejected.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindNull    Kind = "null"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindAny     Kind = "any"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks whether the kind is a known value.
func (k Kind) IsValid() bool {
	switch k {
	case KindString, KindNumber, KindBoolean, KindNull, KindObject, KindArray, KindAny:
		return true
	}
	return false
}

// Field is one named member of an object schema. Field order is display
// order and is preserved.
type Field struct {
	Key      string
	Optional bool
	Schema   *Schema
}

// Schema describes the shape of a value. Exactly one variant payload is
// populated: object schemas carry fields, array schemas carry an item
// schema, every other kind is a leaf. The constructors below are the only
// way to build one, which keeps the variants mutually exclusive by
// construction rather than by convention.
type Schema struct {
	kind   Kind
	path   string
	fields []Field
	item   *Schema
}

// Primitive returns a leaf schema of the given kind. Unknown kinds are
// accepted and behave as opaque leaves.
func Primitive(kind Kind) *Schema {
	return &Schema{kind: kind}
}

// Any returns a leaf schema matching any value.
func Any() *Schema {
	return &Schema{kind: KindAny}
}

// Object returns an object schema with the given fields, in order.
func Object(fields ...Field) *Schema {
	return &Schema{kind: KindObject, fields: fields}
}

// Array returns an array schema whose every element matches item.
func Array(item *Schema) *Schema {
	return &Schema{kind: KindArray, item: item}
}

// WithPath returns a copy of the schema annotated with a display path
// (e.g. "user.address.city"). Paths are presentation data only and never
// participate in identity.
func (s *Schema) WithPath(path string) *Schema {
	c := *s
	c.path = path
	return &c
}

// Kind returns the schema's type tag.
func (s *Schema) Kind() Kind {
	return s.kind
}

// Path returns the optional display path, or "" when unset.
func (s *Schema) Path() string {
	return s.path
}

// Fields returns the object fields in display order. Nil for non-object
// schemas. The returned slice must not be mutated.
func (s *Schema) Fields() []Field {
	return s.fields
}

// Item returns the element schema of an array, or nil for non-array schemas.
func (s *Schema) Item() *Schema {
	return s.item
}

// IsLeaf reports whether the schema has no nested schemas.
func (s *Schema) IsLeaf() bool {
	return len(s.fields) == 0 && s.item == nil
}

// Validate checks structural constraints: object field keys must be unique
// and non-empty, nested schemas must be present and themselves valid. It
// returns a *ValidationError listing every violation, or nil.
func Validate(s *Schema) error {
	var ve ValidationError
	validateAt(s, "", &ve)
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

func validateAt(s *Schema, at string, ve *ValidationError) {
	if s == nil {
		ve.Errors = append(ve.Errors, FieldError{Field: fieldName(at), Message: "schema is nil"})
		return
	}

	switch s.kind {
	case KindObject:
		seen := make(map[string]bool, len(s.fields))
		for i, f := range s.fields {
			if strings.TrimSpace(f.Key) == "" {
				ve.Errors = append(ve.Errors, FieldError{
					Field:   fieldName(at),
					Message: fmt.Sprintf("field %d has an empty key", i),
				})
				continue
			}
			if seen[f.Key] {
				ve.Errors = append(ve.Errors, FieldError{
					Field:   fieldName(at),
					Message: fmt.Sprintf("duplicate field key %q", f.Key),
				})
			}
			seen[f.Key] = true
			validateAt(f.Schema, joinPath(at, f.Key), ve)
		}
	case KindArray:
		if s.item == nil {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fieldName(at),
				Message: "array schema has no item schema",
			})
			return
		}
		validateAt(s.item, at+"[]", ve)
	}
}

func fieldName(at string) string {
	if at == "" {
		return "root"
	}
	return at
}

func joinPath(at, key string) string {
	if at == "" {
		return key
	}
	return at + "." + key
}
