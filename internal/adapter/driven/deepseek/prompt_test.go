package deepseek

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/textenhance/internal/domain/model"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name       string
		req        model.EnhancementRequest
		wantPrefix string
		wantSuffix string
	}{
		{
			name:       "grammar",
			req:        model.EnhancementRequest{Kind: model.EnhancementGrammar, Text: "me and him goes"},
			wantPrefix: "Please correct any grammatical errors",
			wantSuffix: "original language: me and him goes",
		},
		{
			name:       "summary",
			req:        model.EnhancementRequest{Kind: model.EnhancementSummary, Text: "long text"},
			wantPrefix: "Please provide a concise summary",
			wantSuffix: "same language as the original text: long text",
		},
		{
			name:       "custom",
			req:        model.EnhancementRequest{Kind: model.EnhancementCustom, Text: "hey there", Style: "formal", Tone: "friendly"},
			wantPrefix: "Enhance this text by converting its style to formal and its tone to friendly.",
			wantSuffix: "same language as the original:\nhey there",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPrompt(tt.req)
			assert.True(t, strings.HasPrefix(got, tt.wantPrefix), "prompt %q", got)
			assert.True(t, strings.HasSuffix(got, tt.wantSuffix), "prompt %q", got)
		})
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	req := model.EnhancementRequest{Kind: model.EnhancementCustom, Text: "x", Style: "casual", Tone: "neutral"}
	first := BuildPrompt(req)
	for range 10 {
		assert.Equal(t, first, BuildPrompt(req))
	}
}

func TestBuildPrompt_CustomPreservesMeaningAndLanguage(t *testing.T) {
	got := BuildPrompt(model.EnhancementRequest{Kind: model.EnhancementCustom, Text: "t", Style: "academic", Tone: "confident"})
	assert.Contains(t, got, "Keep the original meaning intact")
	assert.Contains(t, got, "same language as the original")
}
