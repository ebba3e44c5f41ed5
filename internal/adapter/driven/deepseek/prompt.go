package deepseek

import (
	"fmt"

	"github.com/ericfisherdev/textenhance/internal/domain/model"
)

const (
	grammarInstruction = "Please correct any grammatical errors in the following text while preserving its meaning and original language: "
	summaryInstruction = "Please provide a concise summary of the following text, keeping the summary in the same language as the original text: "
	customTemplate     = "Enhance this text by converting its style to %s and its tone to %s. Keep the original meaning intact and ensure the enhanced text is in the same language as the original:\n%s"
)

// BuildPrompt returns the user message sent for req. It is a pure function of
// the request's kind, text, style and tone.
func BuildPrompt(req model.EnhancementRequest) string {
	switch req.Kind {
	case model.EnhancementGrammar:
		return grammarInstruction + req.Text
	case model.EnhancementSummary:
		return summaryInstruction + req.Text
	case model.EnhancementCustom:
		return fmt.Sprintf(customTemplate, req.Style, req.Tone, req.Text)
	default:
		return req.Text
	}
}
