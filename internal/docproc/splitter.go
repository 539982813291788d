package docproc

import (
	"regexp"
	"strings"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// Splitter chunks text on sentence boundaries. ChunkSize caps the character
// length of a chunk; ChunkOverlap is how many trailing characters of one
// chunk reappear at the start of the next, rounded to whole sentences.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewSplitter creates a splitter with the given limits. Non-positive values
// fall back to defaults.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 800
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	}
}

// Split breaks text into sentence-aligned chunks. Whitespace is normalized
// first so transcripts with arbitrary line wrapping chunk consistently. A
// single sentence longer than ChunkSize becomes its own oversized chunk
// rather than being cut mid-sentence.
func (s *Splitter) Split(text string) []string {
	normalized := whitespaceRE.ReplaceAllString(strings.TrimSpace(text), " ")
	if normalized == "" {
		return nil
	}

	sentences := splitSentences(normalized)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	i := 0
	for i < len(sentences) {
		var current []string
		size := 0

		j := i
		for ; j < len(sentences); j++ {
			sentence := sentences[j]
			next := size + len(sentence)
			if len(current) > 0 {
				next++ // joining space
			}
			if next > s.ChunkSize && len(current) > 0 {
				break
			}
			current = append(current, sentence)
			size = next
		}

		chunks = append(chunks, strings.Join(current, " "))

		if j >= len(sentences) {
			break
		}

		// Walk back over trailing sentences that fit in the overlap window.
		overlap := 0
		back := 0
		for k := len(current) - 1; k >= 0; k-- {
			if overlap+len(current[k]) > s.ChunkOverlap {
				break
			}
			overlap += len(current[k]) + 1
			back++
		}

		next := j - back
		if next <= i {
			next = j
		}
		i = next
	}

	return chunks
}

// splitSentences splits normalized text after '.', '!' or '?' when the next
// word starts with an uppercase letter or a digit. Go's regexp has no
// lookbehind, so this walks the runes directly.
func splitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Require a following space and an uppercase/digit start.
		if i+2 >= len(runes) || runes[i+1] != ' ' {
			continue
		}
		next := runes[i+2]
		if !isSentenceStart(next) {
			continue
		}
		sentences = append(sentences, strings.TrimSpace(string(runes[start:i+1])))
		start = i + 2
		i++ // skip the space
	}

	if start < len(runes) {
		tail := strings.TrimSpace(string(runes[start:]))
		if tail != "" {
			sentences = append(sentences, tail)
		}
	}

	return sentences
}

func isSentenceStart(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
