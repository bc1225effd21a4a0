// Package pdfextract turns uploaded report files into plain text for
// analysis. Two strategies are provided: a structured extractor backed by a
// real PDF parser, and a byte-scan heuristic that never fails on garbage
// input. File intake validation lives here too.
package pdfextract

import "strings"

// EstimateTokenCount provides a rough estimate of tokens in a text.
// It uses an average of 4 characters per token as an approximation,
// which is a reasonable heuristic for English text with GPT-style tokenizers.
func EstimateTokenCount(text string) int {
	if len(text) == 0 {
		return 0
	}
	return len(text) / 4
}

// boundaryWindow is the fraction of the budget within which TruncateAtBoundary
// will look for a sentence or word boundary before falling back to a hard cut.
const boundaryWindow = 0.8

// TruncateAtBoundary truncates text to at most maxLen characters, preferring
// natural break points. If a sentence end ('.') falls within the final 20% of
// the budget the cut happens there; failing that, the last word boundary in
// that window; failing both, a hard cut at maxLen.
func TruncateAtBoundary(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(text) <= maxLen {
		return text
	}

	truncated := text[:maxLen]
	threshold := int(float64(maxLen) * boundaryWindow)

	if lastPeriod := strings.LastIndex(truncated, "."); lastPeriod > threshold {
		return truncated[:lastPeriod+1]
	}
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > threshold {
		return truncated[:lastSpace]
	}
	return truncated
}

// CollapseWhitespace replaces every run of whitespace with a single space and
// trims the ends. Byte-scan output is full of layout artifacts; this keeps
// the prompt budget spent on words rather than padding.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
