package ingest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Source is one addressable document. Discovery of sources (directory
// walking, extension filtering) belongs to the caller; the engine only reads
// what it is handed.
type Source interface {
	// Name is the document identifier; it becomes the match id.
	Name() string
	Open() (io.ReadCloser, error)
}

// FileSource reads a document from disk. The match id is the file base name
// without extension, matching how the corpus names its files.
type FileSource struct {
	Path string
}

func (f FileSource) Name() string {
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (f FileSource) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// BlobSource serves an in-memory document.
type BlobSource struct {
	ID   string
	Data []byte
}

func (b BlobSource) Name() string {
	return b.ID
}

func (b BlobSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}
