package pipeline

import (
	"fmt"
	"strings"

	"github.com/careerkb/profile-agent/internal/vectorindex"
)

// RefusalAnswer is returned verbatim when strict mode finds no evidence.
const RefusalAnswer = "I don't have enough information in the knowledge base to answer that question."

const defaultSystemPrompt = `You are a factual career assistant. You ONLY answer questions about the professional profile described in the provided context passages.

Rules:
1. Base every claim on the context below. If the information is not present, say so explicitly.
2. End each factual statement with a citation in the form [Source N].
3. If no relevant context is found, respond with:
   "I don't have enough information in the knowledge base to answer that question."
4. Do NOT fabricate, guess, or add information not present in the context.
5. Respond in the same language as the question.`

const contextSeparator = "\n\n---\n\n"

// buildUserMessage turns the evidence set into numbered [Source N] sections
// followed by the literal question. N is the 1-based rank in the filtered,
// descending-by-score list.
func buildUserMessage(evidence []vectorindex.SearchResult, query string) string {
	sections := make([]string, 0, len(evidence))
	for i, chunk := range evidence {
		sections = append(sections,
			fmt.Sprintf("[Source %d] (%s)\n%s", i+1, chunk.SourceLabel, chunk.Text))
	}

	contextBlock := strings.Join(sections, contextSeparator)
	return fmt.Sprintf("Context:\n\n%s%sQuestion: %s", contextBlock, contextSeparator, query)
}

// excerpt returns the first 200 characters of the retrieved text, so
// citations stay verifiable even when the model paraphrases.
func excerpt(text string) string {
	const maxLen = 200
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen])
}
