package schema

import (
	"encoding/json"
	"fmt"
)

// schemaJSON is the wire shape produced by the editor frontend: one object
// with optional payload fields gated by the type tag.
type schemaJSON struct {
	Type       Kind         `json:"type"`
	Path       string       `json:"path,omitempty"`
	Fields     []fieldJSON  `json:"fields,omitempty"`
	ItemSchema *schemaJSON  `json:"itemSchema,omitempty"`
}

type fieldJSON struct {
	Key      string      `json:"key"`
	Optional bool        `json:"optional"`
	Schema   *schemaJSON `json:"schema"`
}

// MarshalJSON encodes the schema in the frontend's tagged-union shape.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(s))
}

// UnmarshalJSON decodes the frontend's tagged-union shape. A node carrying
// both fields and an item schema is rejected: the sum type has no
// representation for it, and accepting one silently would hide a frontend
// bug.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var w schemaJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded, err := fromWire(&w, "")
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}

func toWire(s *Schema) *schemaJSON {
	if s == nil {
		return nil
	}
	w := &schemaJSON{Type: s.kind, Path: s.path}
	for _, f := range s.fields {
		w.Fields = append(w.Fields, fieldJSON{
			Key:      f.Key,
			Optional: f.Optional,
			Schema:   toWire(f.Schema),
		})
	}
	w.ItemSchema = toWire(s.item)
	return w
}

// wireError reports one malformed wire node as a *ValidationError, the
// same shape Validate returns for structural violations.
func wireError(at, msg string) error {
	return &ValidationError{Errors: []FieldError{{Field: fieldName(at), Message: msg}}}
}

func fromWire(w *schemaJSON, at string) (*Schema, error) {
	if w == nil {
		return nil, wireError(at, "schema is missing")
	}
	if len(w.Fields) > 0 && w.ItemSchema != nil {
		return nil, wireError(at, "has both fields and itemSchema")
	}
	if w.ItemSchema != nil && w.Type != KindArray {
		return nil, wireError(at, fmt.Sprintf("itemSchema on non-array type %q", w.Type))
	}
	if len(w.Fields) > 0 && w.Type != KindObject {
		return nil, wireError(at, fmt.Sprintf("fields on non-object type %q", w.Type))
	}

	var s *Schema
	switch {
	case w.ItemSchema != nil:
		item, err := fromWire(w.ItemSchema, at+"[]")
		if err != nil {
			return nil, err
		}
		s = Array(item)
	case len(w.Fields) > 0:
		fields := make([]Field, 0, len(w.Fields))
		for _, f := range w.Fields {
			nested, err := fromWire(f.Schema, joinPath(at, f.Key))
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Key: f.Key, Optional: f.Optional, Schema: nested})
		}
		s = Object(fields...)
	default:
		s = Primitive(w.Type)
	}

	s.path = w.Path
	return s, nil
}
