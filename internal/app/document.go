package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/dshills/fuzzypatch/internal/engine/buffer"
)

// Document represents a workspace file loaded for patching.
type Document struct {
	// Path is the absolute file path on disk.
	Path string

	// Rel is the workspace-relative path as referenced by patch input.
	Rel string

	// Buffer holds the file content, normalized to LF line endings.
	Buffer *buffer.Buffer

	// perm preserves the on-disk file mode for writes.
	perm os.FileMode

	// modified indicates unsaved changes.
	modified atomic.Bool
}

// NewDocument creates a document from file content. The original line
// ending style is detected so saves can restore it.
func NewDocument(absPath, rel string, content []byte, perm os.FileMode) *Document {
	if perm == 0 {
		perm = 0o644
	}
	return &Document{
		Path:   absPath,
		Rel:    rel,
		Buffer: buffer.NewBufferFromString(string(content)),
		perm:   perm,
	}
}

// IsModified returns true if the document has unsaved changes.
func (d *Document) IsModified() bool {
	return d.modified.Load()
}

// SetModified sets the modified flag.
func (d *Document) SetModified(modified bool) {
	d.modified.Store(modified)
}

// Content returns the document text with its original line endings
// restored.
func (d *Document) Content() string {
	return d.Buffer.LineEnding().Apply(d.Buffer.Text())
}

// Workspace manages the documents a patch run touches, keyed by the
// relative path the patch references.
type Workspace struct {
	mu        sync.RWMutex
	root      string
	documents map[string]*Document // cleaned relative path -> document
	order     []string             // tracks open order for saves and reporting
}

// NewWorkspace creates a workspace rooted at the given directory.
// An empty root means the current directory.
func NewWorkspace(root string) (*Workspace, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}
	return &Workspace{
		root:      abs,
		documents: make(map[string]*Document),
	}, nil
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// Open loads a document by its workspace-relative path.
// Returns the existing document if already open.
func (w *Workspace) Open(rel string) (*Document, error) {
	key, err := w.normalize(rel)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if doc, exists := w.documents[key]; exists {
		return doc, nil
	}

	absPath := filepath.Join(w.root, key)
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %q is a directory", ErrInvalidPath, rel)
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}

	doc := NewDocument(absPath, key, content, info.Mode().Perm())
	w.documents[key] = doc
	w.order = append(w.order, key)
	return doc, nil
}

// normalize cleans a patch-supplied path and rejects anything that
// would resolve outside the workspace root.
func (w *Workspace) normalize(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) || !filepath.IsLocal(cleaned) {
		return "", fmt.Errorf("%w: %q escapes workspace root", ErrInvalidPath, rel)
	}
	return cleaned, nil
}

// Get returns an open document by relative path.
func (w *Workspace) Get(rel string) (*Document, bool) {
	key, err := w.normalize(rel)
	if err != nil {
		return nil, false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	doc, exists := w.documents[key]
	return doc, exists
}

// Documents returns all open documents in open order.
func (w *Workspace) Documents() []*Document {
	w.mu.RLock()
	defer w.mu.RUnlock()

	docs := make([]*Document, 0, len(w.documents))
	for _, key := range w.order {
		if doc, exists := w.documents[key]; exists {
			docs = append(docs, doc)
		}
	}
	return docs
}

// Modified returns the documents with unsaved changes, in open order.
func (w *Workspace) Modified() []*Document {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var dirty []*Document
	for _, key := range w.order {
		if doc := w.documents[key]; doc != nil && doc.IsModified() {
			dirty = append(dirty, doc)
		}
	}
	return dirty
}

// Count returns the number of open documents.
func (w *Workspace) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.documents)
}

// SaveModified writes every modified document back to disk and returns
// the documents it saved, in open order. With backup set, the previous
// on-disk content is copied to <path>.bak before the write.
func (w *Workspace) SaveModified(backup bool) ([]*Document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var saved []*Document
	for _, key := range w.order {
		doc := w.documents[key]
		if doc == nil || !doc.IsModified() {
			continue
		}
		if err := saveDocument(doc, backup); err != nil {
			return saved, fmt.Errorf("saving %s: %w", doc.Rel, err)
		}
		saved = append(saved, doc)
	}
	return saved, nil
}

func saveDocument(doc *Document, backup bool) error {
	if backup {
		orig, err := os.ReadFile(doc.Path)
		if err == nil {
			err = os.WriteFile(doc.Path+".bak", orig, doc.perm)
		}
		if err != nil {
			return fmt.Errorf("writing backup: %w", err)
		}
	}
	if err := os.WriteFile(doc.Path, []byte(doc.Content()), doc.perm); err != nil {
		return err
	}
	doc.SetModified(false)
	return nil
}
