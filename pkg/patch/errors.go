package patch

import "errors"

// Failure taxonomy for a single edit request. All four are caught at the
// batch runner boundary and converted into an outcome record; none of them
// ever aborts the batch.
var (
	// ErrMalformedLineItem means an addition payload could not be parsed or
	// validated into a line item, even after the repair pass.
	ErrMalformedLineItem = errors.New("malformed line item")

	// ErrUnknownLineItem means a uid did not resolve to any item in the
	// current document.
	ErrUnknownLineItem = errors.New("unknown line item")

	// ErrInvalidPath means the path does not fit the shape the classified
	// category requires.
	ErrInvalidPath = errors.New("invalid patch path")

	// ErrPatchApplicationFailed means the positional operation was rejected
	// by the document editor (out-of-range index, type mismatch, unknown
	// field).
	ErrPatchApplicationFailed = errors.New("patch application failed")
)
