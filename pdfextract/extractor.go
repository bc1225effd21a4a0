package pdfextract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoContent is returned when a PDF contains no extractable text.
var ErrNoContent = errors.New("no text content found in PDF")

// ErrEmptyPath is returned when an empty file path is provided.
var ErrEmptyPath = errors.New("empty PDF path provided")

// ExtractionResult contains the result of structured PDF text extraction.
type ExtractionResult struct {
	// Text is the full extracted text from all pages
	Text string

	// TotalPages is the number of pages in the PDF
	TotalPages int

	// ExtractedPages is the number of pages that yielded text
	ExtractedPages int

	// SkippedPages is the number of pages that were skipped (empty or error)
	SkippedPages int

	// EstimatedTokens is the estimated total token count
	EstimatedTokens int

	// Errors contains any per-page errors encountered during extraction
	Errors []error
}

// ExtractorConfig holds configuration for structured PDF text extraction.
type ExtractorConfig struct {
	// PageSeparator is the string inserted between page texts.
	// Defaults to "\n\n" if empty.
	PageSeparator string

	// MaxChars caps the extracted text. 0 means DefaultMaxContentChars.
	MaxChars int
}

// Extractor is the structured extraction strategy, backed by a page-oriented
// PDF parser. Unlike the byte-scan Scanner it fails loudly: a document that
// yields no text at all is an ErrNoContent, not a placeholder.
type Extractor struct {
	config ExtractorConfig
}

// NewExtractor creates an Extractor with the given configuration.
func NewExtractor(config ExtractorConfig) *Extractor {
	if config.PageSeparator == "" {
		config.PageSeparator = "\n\n"
	}
	if config.MaxChars <= 0 {
		config.MaxChars = DefaultMaxContentChars
	}
	return &Extractor{config: config}
}

// NewDefaultExtractor creates an Extractor with default configuration.
func NewDefaultExtractor() *Extractor {
	return NewExtractor(ExtractorConfig{})
}

// Extract extracts text from a PDF file at the given path.
//
// Example:
//
//	extractor := NewDefaultExtractor()
//	result, err := extractor.Extract("/path/to/report.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Text)
func (e *Extractor) Extract(pdfPath string) (*ExtractionResult, error) {
	if pdfPath == "" {
		return nil, ErrEmptyPath
	}

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	return e.extractFromReader(r)
}

func (e *Extractor) extractFromReader(r *pdf.Reader) (*ExtractionResult, error) {
	totalPages := r.NumPage()

	result := &ExtractionResult{
		TotalPages: totalPages,
	}

	var textBuilder strings.Builder

	// Pages are 1-indexed in ledongthuc/pdf
	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			// Empty page, not an error
			result.SkippedPages++
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("page %d: failed to extract text: %w", pageIndex, err))
			result.SkippedPages++
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			result.SkippedPages++
			continue
		}

		result.ExtractedPages++
		if textBuilder.Len() > 0 {
			textBuilder.WriteString(e.config.PageSeparator)
		}
		textBuilder.WriteString(text)
	}

	result.Text = TruncateAtBoundary(textBuilder.String(), e.config.MaxChars)
	result.EstimatedTokens = EstimateTokenCount(result.Text)

	if result.Text == "" {
		return result, ErrNoContent
	}

	return result, nil
}

// ExtractText is a convenience function that extracts text from a PDF file
// using default configuration and returns just the text content.
func ExtractText(pdfPath string) (string, error) {
	result, err := NewDefaultExtractor().Extract(pdfPath)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}
