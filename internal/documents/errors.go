package documents

import "errors"

var (
	// ErrNotFound indicates no document exists with the given id.
	ErrNotFound = errors.New("document not found")
	// ErrForbidden indicates the document belongs to a different session.
	ErrForbidden = errors.New("document belongs to another session")
	// ErrInvalidInput indicates upload validation failed.
	ErrInvalidInput = errors.New("invalid input")
)
