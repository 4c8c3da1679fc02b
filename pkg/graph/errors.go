package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNodeNotFound = errors.New("node not found")
	ErrInvalidEdge  = errors.New("invalid edge")
	ErrInvalidID    = errors.New("invalid node id")
)

// InvalidEdgeError reports an edge whose endpoints are not both present in
// the graph.
type InvalidEdgeError struct {
	Source  string
	Target  string
	Missing []string // Endpoint IDs absent from the graph
}

// Error implements the error interface.
func (e *InvalidEdgeError) Error() string {
	return fmt.Sprintf("both endpoints must exist before adding edge %s-%s (missing: %v)", e.Source, e.Target, e.Missing)
}

// Unwrap returns ErrNodeNotFound so callers can test the underlying cause.
func (e *InvalidEdgeError) Unwrap() error {
	return ErrNodeNotFound
}

// Is reports whether the target error matches this error or its cause.
func (e *InvalidEdgeError) Is(target error) bool {
	return target == ErrInvalidEdge || target == ErrNodeNotFound
}

// IsInvalidEdge returns true if the error is (or wraps) an InvalidEdgeError.
func IsInvalidEdge(err error) bool {
	return errors.Is(err, ErrInvalidEdge)
}

// InvalidIDError reports a node ID that cannot take part in an edge key.
type InvalidIDError struct {
	ID string
}

// Error implements the error interface.
func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("node id %q must not contain %q", e.ID, EdgeKeySeparator)
}

// Is reports whether the target error is ErrInvalidID.
func (e *InvalidIDError) Is(target error) bool {
	return target == ErrInvalidID
}
