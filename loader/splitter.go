package loader

import (
	"regexp"
	"strings"
)

// A sentence is a run of text up to and including one or more terminal
// delimiters, or a trailing run with no delimiter.
var sentencePattern = regexp.MustCompile(`(?s)[^.!?\n]*[.!?\n]+|[^.!?\n]+`)

func splitSentences(text string) []string {
	return sentencePattern.FindAllString(text, -1)
}

// splitText applies a sentence-respecting sliding window: sentences are
// accumulated until the window would exceed chunkSize, then the window is
// flushed and the next window is seeded with the trailing sentences that fit
// within chunkOverlap characters. A text no longer than chunkSize yields
// exactly one chunk. Sentences are never cut, so a single sentence longer
// than chunkSize becomes an oversized chunk of its own.
func splitText(text string, chunkSize, chunkOverlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	var window []string
	windowLen := 0

	flush := func() {
		if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, sentence := range splitSentences(text) {
		if windowLen > 0 && windowLen+len(sentence) > chunkSize {
			flush()

			var seed []string
			seedLen := 0
			for j := len(window) - 1; j >= 0; j-- {
				if seedLen+len(window[j]) > chunkOverlap {
					break
				}
				seed = append([]string{window[j]}, seed...)
				seedLen += len(window[j])
			}
			window = seed
			windowLen = seedLen
		}
		window = append(window, sentence)
		windowLen += len(sentence)
	}
	flush()

	return chunks
}
