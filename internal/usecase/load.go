package usecase

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"vsm/internal/adapter/fs"
	"vsm/internal/domain"
	"vsm/internal/port"
)

// SourceInline marks documents added from a string rather than a file.
const SourceInline = "inline"

// ProgressFunc is called after each file is handled.
type ProgressFunc func(processed, total int, current string)

// LoadUseCase fills the corpus store from a directory or from raw strings.
type LoadUseCase struct {
	store  port.CorpusStore
	walker port.FileWalker
	logger *logrus.Entry
}

// NewLoadUseCase creates a new load use case.
func NewLoadUseCase(store port.CorpusStore, walker port.FileWalker, logger *logrus.Entry) *LoadUseCase {
	return &LoadUseCase{
		store:  store,
		walker: walker,
		logger: logger,
	}
}

// LoadResult contains the results of a load operation.
type LoadResult struct {
	Loaded  int
	Skipped int
	Removed int
	Errors  []string
}

// Load stores every matching file under root, keyed by its slash-separated
// path relative to root. Files whose text is unchanged are skipped, and
// documents previously loaded from this root whose file is gone are removed.
func (u *LoadUseCase) Load(root string, progress ProgressFunc) (*LoadResult, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	files, err := u.walker.Walk(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	existingDocs, err := u.store.ListDocs()
	if err != nil {
		return nil, fmt.Errorf("failed to list existing docs: %w", err)
	}
	existing := make(map[string]domain.Document, len(existingDocs))
	for _, doc := range existingDocs {
		existing[doc.ID] = doc
	}

	result := &LoadResult{}
	seen := make(map[string]bool, len(files))

	for i, file := range files {
		seen[file.RelPath] = true

		if err := u.loadFile(file, existing, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.RelPath, err))
			u.logger.WithError(err).WithField("path", file.RelPath).Warn("failed to load file")
		}

		if progress != nil {
			progress(i+1, len(files), file.RelPath)
		}
	}

	for _, doc := range existingDocs {
		if seen[doc.ID] || !underRoot(doc.Source, absRoot) {
			continue
		}
		if err := u.store.DeleteDoc(doc.ID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: failed to remove: %v", doc.ID, err))
			continue
		}
		result.Removed++
	}

	u.logger.WithFields(logrus.Fields{
		"root":    absRoot,
		"loaded":  result.Loaded,
		"skipped": result.Skipped,
		"removed": result.Removed,
		"errors":  len(result.Errors),
	}).Info("corpus loaded")

	return result, nil
}

func (u *LoadUseCase) loadFile(file port.FileInfo, existing map[string]domain.Document, result *LoadResult) error {
	text, err := fs.ReadFile(file.Path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if prev, ok := existing[file.RelPath]; ok && prev.Text == text && prev.Source == file.Path {
		result.Skipped++
		return nil
	}

	doc := domain.Document{
		ID:      file.RelPath,
		Text:    text,
		Source:  file.Path,
		AddedAt: time.Unix(file.ModTime, 0),
	}
	if err := u.store.PutDoc(doc); err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}
	result.Loaded++
	return nil
}

// AddText stores a single document, replacing any document with the same id.
func (u *LoadUseCase) AddText(id, text string) error {
	doc := domain.Document{
		ID:      id,
		Text:    text,
		Source:  SourceInline,
		AddedAt: time.Now(),
	}
	if err := u.store.PutDoc(doc); err != nil {
		return fmt.Errorf("failed to store document %q: %w", id, err)
	}
	u.logger.WithField("doc_id", id).Debug("document added")
	return nil
}

// Remove deletes a document. Removing an unknown id reports domain.ErrDocumentNotFound.
func (u *LoadUseCase) Remove(id string) error {
	if err := u.store.DeleteDoc(id); err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return err
		}
		return fmt.Errorf("failed to remove document %q: %w", id, err)
	}
	u.logger.WithField("doc_id", id).Debug("document removed")
	return nil
}

func underRoot(source, root string) bool {
	if source == "" || source == SourceInline {
		return false
	}
	rel, err := filepath.Rel(root, source)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
