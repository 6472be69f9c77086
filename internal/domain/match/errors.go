package match

import "errors"

var (
	// ErrMalformedDocument marks a document that cannot be decoded into the
	// expected nested structure. Fatal for the document, never for a batch.
	ErrMalformedDocument = errors.New("malformed match document")

	// ErrReferenceMissing marks a person reference that the document's own
	// registry fragment cannot resolve.
	ErrReferenceMissing = errors.New("person reference missing from registry")
)
