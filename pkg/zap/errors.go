package zap

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedNode matches every MalformedNodeError.
	ErrMalformedNode = errors.New("malformed block")

	// ErrReconstruction matches every ReconstructionError.
	ErrReconstruction = errors.New("block reconstruction failed")
)

// MalformedNodeError reports a node that could not be cleaned because it has
// no kind or an invalid attribute map. The node and its subtree are dropped.
type MalformedNodeError struct {
	Path     string
	ClientID string
	Err      error
}

func (e *MalformedNodeError) Error() string {
	return fmt.Sprintf("malformed block at %s: %v", pathOrRoot(e.Path), e.Err)
}

func (e *MalformedNodeError) Unwrap() error { return e.Err }

func (e *MalformedNodeError) Is(target error) bool { return target == ErrMalformedNode }

// ReconstructionError reports a node the factory refused to rebuild with
// its cleaned attributes. The node is dropped.
type ReconstructionError struct {
	Path     string
	Kind     string
	ClientID string
	Err      error
}

func (e *ReconstructionError) Error() string {
	return fmt.Sprintf("rebuild %s at %s: %v", e.Kind, pathOrRoot(e.Path), e.Err)
}

func (e *ReconstructionError) Unwrap() error { return e.Err }

func (e *ReconstructionError) Is(target error) bool { return target == ErrReconstruction }

func pathOrRoot(p string) string {
	if p == "" {
		return "root"
	}
	return p
}
