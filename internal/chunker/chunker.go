// Package chunker turns raw document text into deduplicated, labeled,
// retrievable chunks. Markdown headings delimit sections; a token-budgeted
// sliding window splits each section body.
package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

type Chunker struct {
	ChunkSize    int // target tokens per chunk
	ChunkOverlap int // target overlap tokens between consecutive chunks
}

type Chunk struct {
	Text             string
	SourceLabel      string // e.g. "cv.md § Experience", shown verbatim as citation
	DocumentFilename string
	ChunkIndex       int
	ContentHash      string
}

type section struct {
	title string
	body  string
}

var (
	headingRe    = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

func NewChunker(chunkSize, overlap int) *Chunker {
	return &Chunker{
		ChunkSize:    chunkSize,
		ChunkOverlap: overlap,
	}
}

// ChunkDocument returns the deduplicated chunks for the given raw document
// text. Chunk indices are sequential across the whole document and remain
// contiguous after deduplication. Empty input yields an empty slice.
func (c *Chunker) ChunkDocument(text, filename string) []Chunk {
	if c.ChunkSize <= 0 || c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return []Chunk{}
	}

	chunks := []Chunk{}
	idx := 0
	seen := make(map[string]struct{})

	for _, sec := range extractSections(text) {
		label := fmt.Sprintf("%s § %s", filename, sec.title)
		for _, raw := range c.splitByTokens(sec.body) {
			hash := contentHash(raw)
			if _, dup := seen[hash]; dup {
				continue
			}
			seen[hash] = struct{}{}
			chunks = append(chunks, Chunk{
				Text:             raw,
				SourceLabel:      label,
				DocumentFilename: filename,
				ChunkIndex:       idx,
				ContentHash:      hash,
			})
			idx++
		}
	}

	return chunks
}

// extractSections splits markdown by headings. Text before the first heading
// becomes a "preamble" section; a document without headings is one section
// titled "document". Sections whose body collapses to nothing are skipped.
func extractSections(text string) []section {
	matches := headingRe.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return []section{{title: "document", body: collapseWhitespace(text)}}
	}

	var sections []section

	preamble := collapseWhitespace(text[:matches[0][0]])
	if preamble != "" {
		sections = append(sections, section{title: "preamble", body: preamble})
	}

	for i, m := range matches {
		title := strings.TrimSpace(text[m[4]:m[5]])
		bodyStart := m[1]
		bodyEnd := len(text)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}
		body := collapseWhitespace(text[bodyStart:bodyEnd])
		if body == "" {
			continue
		}
		sections = append(sections, section{title: title, body: body})
	}

	return sections
}

// splitByTokens slides a window over the section's words, accumulating whole
// words until the token budget is reached, then stepping the start forward
// past roughly ChunkOverlap tokens' worth of trailing characters. The new
// start always advances by at least one word.
func (c *Chunker) splitByTokens(body string) []string {
	words := strings.Fields(body)

	var pieces []string
	start := 0
	for start < len(words) {
		end := start
		tokens := 0
		for end < len(words) && tokens < c.ChunkSize {
			tokens += estimateTokens(words[end])
			end++
		}

		piece := strings.Join(words[start:end], " ")
		if piece != "" {
			pieces = append(pieces, piece)
		}
		if end >= len(words) {
			break
		}

		overlapChars := 0
		stepEnd := end
		for stepEnd > start && overlapChars < c.ChunkOverlap*4 {
			stepEnd--
			overlapChars += len(words[stepEnd])
		}
		start = max(start+1, stepEnd)
	}

	return pieces
}

// estimateTokens is a cheap BPE proxy: 1 token per 4 characters, minimum 1.
// Kept deliberately coarse for behavioural parity across backends.
func estimateTokens(word string) int {
	return max(1, len(word)/4)
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
