package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
	"vsm/internal/domain"
)

// ErrDocumentNotFound aliases the domain sentinel for callers holding a BoltStore.
var ErrDocumentNotFound = domain.ErrDocumentNotFound

var (
	bucketDocs  = []byte("docs")
	bucketTexts = []byte("texts")
	bucketMeta  = []byte("meta")
)

// BoltStore persists the raw corpus. Only documents are stored; the ranking
// index is rebuilt from them on every run.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketDocs, bucketTexts, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

type docMeta struct {
	Source  string `json:"source,omitempty"`
	AddedAt int64  `json:"added_at"`
}

func (s *BoltStore) PutDoc(doc domain.Document) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		addedAt := doc.AddedAt
		if addedAt.IsZero() {
			addedAt = time.Now()
		}
		data, err := json.Marshal(docMeta{Source: doc.Source, AddedAt: addedAt.Unix()})
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketDocs).Put([]byte(doc.ID), data); err != nil {
			return err
		}
		return tx.Bucket(bucketTexts).Put([]byte(doc.ID), []byte(doc.Text))
	})
}

func (s *BoltStore) GetDoc(id string) (domain.Document, error) {
	var doc domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDocs).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
		}
		var err error
		doc, err = decodeDoc(id, data, tx.Bucket(bucketTexts).Get([]byte(id)))
		return err
	})
	return doc, err
}

func (s *BoltStore) DeleteDoc(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		docs := tx.Bucket(bucketDocs)
		if docs.Get([]byte(id)) == nil {
			return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
		}
		if err := docs.Delete([]byte(id)); err != nil {
			return err
		}
		return tx.Bucket(bucketTexts).Delete([]byte(id))
	})
}

// ListDocs returns all documents in ascending id order; bbolt iterates keys
// in byte order.
func (s *BoltStore) ListDocs() ([]domain.Document, error) {
	var docs []domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		texts := tx.Bucket(bucketTexts)
		return tx.Bucket(bucketDocs).ForEach(func(k, v []byte) error {
			doc, err := decodeDoc(string(k), v, texts.Get(k))
			if err != nil {
				return err
			}
			docs = append(docs, doc)
			return nil
		})
	})
	return docs, err
}

func (s *BoltStore) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketDocs).Stats().KeyN
		return nil
	})
	return n, err
}

// Clear removes every document, keeping schema information.
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketDocs, bucketTexts} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func decodeDoc(id string, metaData, text []byte) (domain.Document, error) {
	var meta docMeta
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return domain.Document{}, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return domain.Document{
		ID:      id,
		Text:    string(text),
		Source:  meta.Source,
		AddedAt: time.Unix(meta.AddedAt, 0),
	}, nil
}
