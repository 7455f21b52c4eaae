// File: internal/usecase/synthesis_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"

	"ai-research-backend/internal/domain/model"
	"ai-research-backend/internal/domain/ports/adapter"
	"ai-research-backend/internal/infra/metrics"
)

// Compile-time check
var _ SynthesisUseCase = (*synthesisUC)(nil)

// SynthesisUseCase sends retrieved paper context to the generative backend
// and returns the raw reply. Exactly one request per invocation; any
// provider error propagates to the orchestrator.
type SynthesisUseCase interface {
	Synthesize(ctx context.Context, topic string, papers []model.Paper) (string, error)
}

type synthesisUC struct {
	ai           adapter.AIServiceAdapter
	model        string
	contextChars int
	log          *zerolog.Logger
}

func NewSynthesisUseCase(ai adapter.AIServiceAdapter, modelName string, contextChars int, logger *zerolog.Logger) *synthesisUC {
	return &synthesisUC{ai: ai, model: modelName, contextChars: contextChars, log: logger}
}

const synthesisPromptFormat = `Research Topic: %s

Based on the provided papers, please generate a response with the following components:

1. **Detailed Summary**: A comprehensive and detailed summary of the research findings. Do not be brief; explain the concepts, methodologies, and results in depth.
2. **Key Insights**: A list of significant insights or takeaways.
3. **Generated Diagrams**: You MUST create at least 1 Mermaid.js diagram definition that visualizes the key concepts.
   - Format the diagram code as a single string.
   - Example: "graph TD; A[Concept] --> B[Result];"
   - Do not include markdown code fence blocks inside the JSON string value.

Return the response in valid JSON format with the following structure:
{
    "summary": "Detailed summary content...",
    "key_insights": ["Insight 1", "Insight 2", ...],
    "generated_diagrams": ["graph TD; ..."]
}

Papers:
%s`

func (s *synthesisUC) Synthesize(ctx context.Context, topic string, papers []model.Paper) (string, error) {
	prompt := fmt.Sprintf(synthesisPromptFormat, topic, papersContext(papers, s.contextChars))

	tokens := promptTokens(s.model, prompt)
	s.log.Info().Str("topic", topic).Int("papers", len(papers)).Int("prompt_tokens", tokens).Msg("synthesizing")

	start := time.Now()
	reply, usage, err := s.ai.ChatWithUsage(ctx, s.model, []adapter.Message{{Role: "user", Content: prompt}})
	latencyMs := int(time.Since(start).Milliseconds())

	if usage.PromptTokens == 0 {
		usage.PromptTokens = tokens
	}
	metrics.ObserveAICall(s.model, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens, latencyMs, err == nil)

	if err != nil {
		return "", fmt.Errorf("synthesis call: %w", err)
	}
	return reply, nil
}

// papersContext concatenates per-paper title, abstract and the first
// contextChars characters of extracted text.
func papersContext(papers []model.Paper, contextChars int) string {
	var b strings.Builder
	for i, p := range papers {
		content := p.Content
		if runes := []rune(content); len(runes) > contextChars {
			content = string(runes[:contextChars])
		}
		fmt.Fprintf(&b, "Paper %d: %s\nSummary: %s\nContent: %s...\n\n", i+1, p.Title, p.Summary, content)
	}
	return b.String()
}

// promptTokens counts prompt tokens best-effort: provider-specific encodings
// are unavailable for some models, in which case a rough len/4 estimate is
// good enough for logs and metrics.
func promptTokens(modelName, prompt string) int {
	enc, err := tiktoken.EncodingForModel(modelName)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
	}
	if err != nil || enc == nil {
		return len(prompt) / 4
	}
	return len(enc.Encode(prompt, nil, nil))
}
