package pdfextract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxFileSize is the intake ceiling for uploaded report files (50MB).
const DefaultMaxFileSize = 50 * 1024 * 1024

// pdfMagic is the header every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// FileError reports why a file was rejected at the intake boundary.
// The Kind distinguishes a wrong-type rejection from an oversize one so the
// caller can tell the user which rule was broken.
type FileError struct {
	Path string
	Kind FileErrorKind
	Size int64
}

// FileErrorKind enumerates intake rejection reasons.
type FileErrorKind int

const (
	// FileErrorWrongType means the file is not a PDF
	FileErrorWrongType FileErrorKind = iota
	// FileErrorTooLarge means the file exceeds the size ceiling
	FileErrorTooLarge
)

func (e *FileError) Error() string {
	switch e.Kind {
	case FileErrorTooLarge:
		return fmt.Sprintf("file %s is too large (%d bytes)", e.Path, e.Size)
	default:
		return fmt.Sprintf("file %s is not a PDF", e.Path)
	}
}

// ValidateFile checks a file at the intake boundary, before any extraction is
// attempted: it must carry a .pdf extension, start with the %PDF- header, and
// be at most maxSize bytes (0 means DefaultMaxFileSize).
func ValidateFile(path string, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return &FileError{Path: path, Kind: FileErrorWrongType}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > maxSize {
		return &FileError{Path: path, Kind: FileErrorTooLarge, Size: info.Size()}
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, len(pdfMagic))
	n, _ := f.Read(header)
	if n < len(pdfMagic) || !bytes.Equal(header[:n], pdfMagic) {
		return &FileError{Path: path, Kind: FileErrorWrongType}
	}

	return nil
}
