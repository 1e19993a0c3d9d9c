// Package corpus maintains the on-disk mirror of uploaded document contents,
// one file per upload keyed by filename. The relational store is the source
// of truth for scanning; the mirror exists so the raw uploads survive as
// plain files on disk.
package corpus

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/docuscan/docuscan/pkg/logger"
	"go.uber.org/zap"
)

// Store writes uploaded document contents under a single directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// File is one mirrored document read back from disk.
type File struct {
	Filename string
	Content  string
}

// NewStore creates the mirror directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the mirror directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Write persists a document's content under its filename, replacing any
// previous upload with the same name, and syncs it to disk.
func (s *Store) Write(filename, content string) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, filepath.Base(filename))

	f, err := os.Create(path)
	if err != nil {
		logger.Log.Error("Corpus: Failed to create mirror file",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return err
	}

	if _, err := f.WriteString(content); err != nil {
		logger.Log.Error("Corpus: Failed to write mirror file",
			zap.String("filename", filename),
			zap.Error(err),
		)
		f.Close()
		return err
	}

	// Force sync to disk (durability)
	if err := f.Sync(); err != nil {
		logger.Log.Error("Corpus: Failed to sync mirror file",
			zap.String("filename", filename),
			zap.Error(err),
		)
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	logger.Log.Debug("Corpus: Mirror file written",
		zap.String("filename", filename),
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}

// Read returns the mirrored content for a filename.
func (s *Store) Read(filename string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadAll returns every mirrored file, sorted by filename. Subdirectories
// are skipped.
func (s *Store) ReadAll() ([]File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, File{Filename: entry.Name(), Content: string(data)})
	}

	return files, nil
}
