package render

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedPlaceholder is the sentinel behind every placeholder
	// resolution failure. Rendering never emits unresolved tokens.
	ErrUnresolvedPlaceholder = errors.New("render: unresolved placeholder")
	// ErrItemsNotAvailable indicates an {@items} marker with no items data
	// or items template to expand it with.
	ErrItemsNotAvailable = errors.New("render: items expansion is not available")
	// ErrFileNotFound is the sentinel behind template read failures.
	ErrFileNotFound = errors.New("render: file not found")
)

// UnresolvedPlaceholderError reports the exact placeholder that failed.
type UnresolvedPlaceholderError struct {
	Name     string
	Template string
}

func (e *UnresolvedPlaceholderError) Error() string {
	if e.Template == "" {
		return fmt.Sprintf("render: unresolved placeholder {{%s}}", e.Name)
	}
	return fmt.Sprintf("render: unresolved placeholder {{%s}} in %s", e.Name, e.Template)
}

func (e *UnresolvedPlaceholderError) Unwrap() error { return ErrUnresolvedPlaceholder }

// FileNotFoundError carries the failing path verbatim so callers always see
// which file was missing.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("render: file not found: %s: %v", e.Path, e.Err)
}

func (e *FileNotFoundError) Unwrap() error { return ErrFileNotFound }
