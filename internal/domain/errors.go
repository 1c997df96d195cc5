package domain

import "errors"

// ErrDocumentNotFound is reported by corpus stores for unknown ids.
var ErrDocumentNotFound = errors.New("document not found")
