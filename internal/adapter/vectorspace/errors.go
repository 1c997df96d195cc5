package vectorspace

import (
	"errors"
	"fmt"
)

// ErrDuplicateDocumentID is matched by errors.Is for every
// *DuplicateDocumentIDError.
var ErrDuplicateDocumentID = errors.New("duplicate document id")

// DuplicateDocumentIDError reports a corpus that lists the same document id
// twice. Positions are zero-based offsets into the corpus slice.
type DuplicateDocumentIDError struct {
	ID            string
	FirstPosition int
	Position      int
}

func (e *DuplicateDocumentIDError) Error() string {
	return fmt.Sprintf("%s %q at positions %d and %d", ErrDuplicateDocumentID, e.ID, e.FirstPosition, e.Position)
}

func (e *DuplicateDocumentIDError) Unwrap() error {
	return ErrDuplicateDocumentID
}
