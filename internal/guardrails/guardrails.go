// Package guardrails screens incoming questions before they reach the
// retrieval pipeline. Static rules run always; the LLM validator is an
// optional second pass.
package guardrails

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/careerkb/profile-agent/internal/llm"
)

type Guardrails struct {
	staticValidator *StaticValidator
	llmValidator    *LLMValidator
	enableLLM       bool
}

func NewGuardrails(client llm.Client, enableLLM bool) *Guardrails {
	g := &Guardrails{
		staticValidator: NewStaticValidator(DefaultBanWords),
		enableLLM:       enableLLM && client != nil,
	}
	if g.enableLLM {
		g.llmValidator = NewLLMValidator(client)
	}
	return g
}

func (g *Guardrails) ValidateInput(ctx context.Context, input string) ValidationResult {
	// Run static rules first (fast, free)
	result := g.staticValidator.Validate(input)
	if !result.IsValid {
		log.Info().Str("method", "static").Str("reason", result.Reason).Msg("Input blocked by static rules")
		return result
	}

	if g.enableLLM {
		result = g.llmValidator.Validate(ctx, input)
		if !result.IsValid {
			log.Warn().
				Str("method", "llm").
				Str("category", result.Category).
				Str("reason", result.Reason).
				Msg("Input blocked by LLM validator")
		}
		return result
	}

	return ValidationResult{IsValid: true, Reason: "Input validated", Method: "static"}
}
