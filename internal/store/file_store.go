// Package store provides the durable backends of the ledger.
package store

import (
	"atm_system/internal/domain" // Account record and line codec
	"bufio"                      // Line scanning and buffered writes
	"errors"                     // Error matching
	"fmt"                        // Error wrapping
	"io/fs"                      // Missing file detection
	"os"                         // File access
	"path/filepath"              // Temporary file placement
	"strings"                    // Blank line detection
)

// maxLineLen is the longest record the scanner accepts: two fields, a balance and the delimiters
const maxLineLen = 2*domain.MaxFieldLen + 32

// FileStore keeps one "<card>,<balance>,<pin>" record per line
type FileStore struct {
	Path string // Path of the line file
}

// NewFileStore returns a FileStore backed by path
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads every record. A missing file is created empty.
func (s *FileStore) Load() ([]domain.Account, error) {
	f, err := os.Open(s.Path)
	// Create the file on first start
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(s.Path, nil, 0o600); err != nil {
			return nil, fmt.Errorf("create %s: %w", s.Path, err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var accounts []domain.Account
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 4096), maxLineLen+2) // Room for the record and a CRLF
	n := 0                                         // 1-based number of the current line
	for sc.Scan() {
		n++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue // Blank lines carry no record
		}
		acc, err := domain.ParseLine(line)
		if err != nil {
			var corrupt *domain.CorruptRecordError
			if errors.As(err, &corrupt) {
				corrupt.Source = s.Path // Name the file
				corrupt.Line = n        // and the line
			}
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	if err := sc.Err(); err != nil {
		// An oversized line is a corrupt record, not an I/O failure
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &domain.CorruptRecordError{Source: s.Path, Line: n + 1, Reason: "line too long"}
		}
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return accounts, nil
}

// Save rewrites the whole file through a temporary file and a rename
func (s *FileStore) Save(accounts []domain.Account) error {
	// CreateTemp opens the file with mode 0600
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // No-op after a successful rename

	w := bufio.NewWriter(tmp)
	for _, acc := range sortedByCard(accounts) {
		if _, err := w.WriteString(acc.Line()); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	// Flush to disk before the rename makes the file visible
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path) // Replace the old file in one step
}
