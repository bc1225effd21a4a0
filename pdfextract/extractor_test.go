package pdfextract

import (
	"errors"
	"testing"
)

func TestExtractEmptyPath(t *testing.T) {
	_, err := NewDefaultExtractor().Extract("")
	if !errors.Is(err, ErrEmptyPath) {
		t.Errorf("Extract(\"\") error = %v, want ErrEmptyPath", err)
	}
}

func TestExtractMissingFile(t *testing.T) {
	_, err := NewDefaultExtractor().Extract("/nonexistent/report.pdf")
	if err == nil {
		t.Fatal("Extract() expected error for missing file")
	}
	if errors.Is(err, ErrNoContent) {
		t.Error("missing file should be an open error, not ErrNoContent")
	}
}

func TestExtractMalformedPDF(t *testing.T) {
	// A file that passes intake validation but is not a real PDF body
	path := writeTempFile(t, "broken.pdf", []byte("%PDF-1.7\nthis is not actually pdf structure"))

	if _, err := NewDefaultExtractor().Extract(path); err == nil {
		t.Fatal("Extract() expected error for malformed PDF")
	}
}

func TestNewExtractorDefaults(t *testing.T) {
	e := NewExtractor(ExtractorConfig{})
	if e.config.PageSeparator != "\n\n" {
		t.Errorf("PageSeparator = %q, want default", e.config.PageSeparator)
	}
	if e.config.MaxChars != DefaultMaxContentChars {
		t.Errorf("MaxChars = %d, want default", e.config.MaxChars)
	}
}
