package port

import "vsm/internal/domain"

// CorpusStore holds the raw documents a ranking index is built from.
type CorpusStore interface {
	PutDoc(doc domain.Document) error

	GetDoc(id string) (domain.Document, error)

	DeleteDoc(id string) error

	// ListDocs returns every document in ascending id order.
	ListDocs() ([]domain.Document, error)

	Count() (int, error)

	Clear() error

	Close() error
}
