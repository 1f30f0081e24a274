package lrg

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNotFound is returned when the root path does not exist.
	ErrNotFound = errors.New("lrg: path not found")
	// ErrPermissionDenied is returned when the root path cannot be read.
	ErrPermissionDenied = errors.New("lrg: permission denied")
	// ErrInvalidArgument is returned for malformed options.
	ErrInvalidArgument = errors.New("lrg: invalid argument")
)

// classify wraps err with the sentinel matching its kind, keeping the
// underlying error reachable through errors.Is and errors.As.
func classify(op, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s %q: %w", ErrNotFound, op, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s %q: %w", ErrPermissionDenied, op, path, err)
	default:
		return fmt.Errorf("%s %q: %w", op, path, err)
	}
}

// Reason returns a short human readable description of err, in the style of
// "Permission denied" or "Entity not found".
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, fs.ErrNotExist):
		return "Entity not found"
	case errors.Is(err, fs.ErrPermission):
		return "Permission denied"
	case errors.Is(err, fs.ErrExist):
		return "Entity already exists"
	case errors.Is(err, fs.ErrInvalid), errors.Is(err, ErrInvalidArgument):
		return "Invalid input parameter"
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}

	return err.Error()
}
