package guardrails

import (
	"fmt"
	"strings"
)

const maxQuestionLength = 2000

var DefaultBanWords = []string{
	"ignore previous instructions",
	"ignore all previous",
	"disregard your instructions",
	"system prompt",
	"jailbreak",
}

// StaticValidator applies cheap rule-based checks before any model call.
type StaticValidator struct {
	banWords []string
}

func NewStaticValidator(banWords []string) *StaticValidator {
	return &StaticValidator{banWords: banWords}
}

func (v *StaticValidator) Validate(input string) ValidationResult {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ValidationResult{
			IsValid:  false,
			Reason:   "Question is empty",
			Category: "off_topic",
			Method:   "static",
		}
	}
	if len(trimmed) > maxQuestionLength {
		return ValidationResult{
			IsValid:  false,
			Reason:   fmt.Sprintf("Question exceeds %d characters", maxQuestionLength),
			Category: "off_topic",
			Method:   "static",
		}
	}

	lowered := strings.ToLower(trimmed)
	for _, banned := range v.banWords {
		if strings.Contains(lowered, banned) {
			return ValidationResult{
				IsValid:  false,
				Reason:   "Question contains a blocked phrase",
				Category: "prompt_injection",
				Method:   "static",
			}
		}
	}

	return ValidationResult{IsValid: true, Reason: "Input validated", Method: "static"}
}
