package docingest

import (
	"regexp"
	"strings"
)

// summarySentenceCount and summaryMaxChars bound the generated summary:
// first ~5 sentences, max 800 characters.
const summarySentenceCount = 5
const summaryMaxChars = 800

// summaryPreviewMaxChars bounds the File record's summary_preview field, a
// further truncation of the full summary.
const summaryPreviewMaxChars = 500

var sentenceBoundary = regexp.MustCompile(`[.!?]+\s+`)

// Summarize takes the first ~5 sentences of text, capped at 800 characters.
// This is a sentence-boundary split, not a model-based summarizer.
func Summarize(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	sentences := sentenceBoundary.Split(trimmed, -1)
	if len(sentences) > summarySentenceCount {
		sentences = sentences[:summarySentenceCount]
	}
	summary := strings.TrimSpace(strings.Join(sentences, ". "))
	if len(summary) > summaryMaxChars {
		summary = summary[:summaryMaxChars]
	}
	return summary
}

// SummaryPreview truncates summary to the File record's stored preview
// length.
func SummaryPreview(summary string) string {
	if len(summary) > summaryPreviewMaxChars {
		return summary[:summaryPreviewMaxChars]
	}
	return summary
}
