// Package pdf extracts plain text from PDF documents and splits it into
// word-bounded chunks for summarization.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultChunkWords is the maximum number of words per chunk
const DefaultChunkWords = 1500

var (
	ErrNotPDF = errors.New("not a PDF document")
)

// Extractor turns PDF bytes into text
type Extractor struct{}

// NewExtractor returns a PDF text extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText concatenates the plain text of every page. Pages that fail
// to decode (image-only scans, broken content streams) are skipped.
func (e *Extractor) ExtractText(data []byte) (string, error) {
	if !looksLikePDF(data) {
		return "", ErrNotPDF
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// ChunkText splits text on whitespace into chunks of at most maxWords words
// joined by single spaces. A non-positive maxWords uses DefaultChunkWords.
func ChunkText(text string, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = DefaultChunkWords
	}
	words := strings.Fields(text)
	chunks := make([]string, 0, (len(words)+maxWords-1)/maxWords)
	for i := 0; i < len(words); i += maxWords {
		end := i + maxWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

func looksLikePDF(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}
