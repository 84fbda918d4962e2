// Package flatfile provides the line-oriented text file backing the catalog
package flatfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alchemorsel/recipebook/internal/ports/outbound"
	"go.uber.org/zap"
)

var _ outbound.RecordStore = (*Store)(nil)

// maxLineSize bounds a single record line
const maxLineSize = 1 << 20

// Store reads and appends record lines in a text file.
// A missing file reads as empty and is created on first append.
type Store struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewStore creates a store for the file at path
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.Named("flatfile"),
	}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// ReadAllLines returns every line of the file without line terminators
func (s *Store) ReadAllLines(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("Catalog file does not exist yet", zap.String("path", s.path))
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	lines := []string{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	s.logger.Debug("Read catalog file", zap.String("path", s.path), zap.Int("lines", len(lines)))
	return lines, nil
}

// AppendLine writes line as a new newline-terminated record.
// If the file's last record lacks a terminator one is added first, so records never merge.
func (s *Store) AppendLine(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(line, "\r\n") {
		return errors.New("record must be a single line")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	needsTerminator, err := s.lacksTrailingNewline()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open catalog file for append: %w", err)
	}

	record := line + "\n"
	if needsTerminator {
		record = "\n" + record
	}

	if _, err := f.WriteString(record); err != nil {
		f.Close()
		return fmt.Errorf("failed to append record: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close catalog file: %w", err)
	}

	s.logger.Debug("Appended record", zap.String("path", s.path))
	return nil
}

// lacksTrailingNewline reports whether the file is non-empty and its last byte is not '\n'
func (s *Store) lacksTrailingNewline() (bool, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("failed to stat catalog file: %w", err)
	}
	if info.Size() == 0 {
		return false, nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return last[0] != '\n', nil
}
