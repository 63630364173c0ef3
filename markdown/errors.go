package markdown

import "errors"

var (
	// ErrEmptyDocument indicates the input document contained no content.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrInvalidEncoding indicates the input is not valid UTF-8 text.
	ErrInvalidEncoding = errors.New("document is not valid UTF-8")
)
