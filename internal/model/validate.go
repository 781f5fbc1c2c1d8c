package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateWorkflow checks a workflow document for constraint violations:
// required metadata, unique node and edge IDs, and edge endpoints that
// reference existing nodes. It returns a *ValidationError if any rules
// fail, or nil if the document is valid.
func ValidateWorkflow(w *Workflow) error {
	var ve ValidationError

	if strings.TrimSpace(w.Name) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	}
	if w.Status != "" && !w.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q", w.Status),
		})
	}

	nodeIDs := make(map[string]bool, len(w.Nodes))
	for i, n := range w.Nodes {
		if n.ID == "" {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   "nodes",
				Message: fmt.Sprintf("node %d has an empty id", i),
			})
			continue
		}
		if nodeIDs[n.ID] {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   "nodes",
				Message: fmt.Sprintf("duplicate node id %q", n.ID),
			})
		}
		nodeIDs[n.ID] = true
	}

	edgeIDs := make(map[string]bool, len(w.Edges))
	for i, e := range w.Edges {
		name := e.ID
		if name == "" {
			name = fmt.Sprintf("edge %d", i)
		}
		if e.ID != "" {
			if edgeIDs[e.ID] {
				ve.Errors = append(ve.Errors, FieldError{
					Field:   "edges",
					Message: fmt.Sprintf("duplicate edge id %q", e.ID),
				})
			}
			edgeIDs[e.ID] = true
		}
		if msg := validateEdgeEndpoints(e, nodeIDs); msg != "" {
			ve.Errors = append(ve.Errors, FieldError{Field: name, Message: msg})
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

func validateEdgeEndpoints(e *Edge, nodeIDs map[string]bool) string {
	switch {
	case e.Source == "":
		return "source is required"
	case e.Target == "":
		return "target is required"
	case !nodeIDs[e.Source]:
		return fmt.Sprintf("source %q is not a known node", e.Source)
	case !nodeIDs[e.Target]:
		return fmt.Sprintf("target %q is not a known node", e.Target)
	}
	return ""
}
