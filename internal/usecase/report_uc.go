// File: internal/usecase/report_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"ai-research-backend/internal/domain/ports/adapter"
	"ai-research-backend/internal/infra/metrics"
)

// Compile-time check
var _ ReportUseCase = (*reportUC)(nil)

// ReportOutput is the tagged result of a static pipeline run: the final
// report plus every intermediate stage output, in order. Callers rely on
// this exact shape instead of probing optional attributes.
type ReportOutput struct {
	PrimaryText string
	TaskOutputs []string
}

// ReportUseCase produces the static pipeline's markdown report through two
// sequential generation stages: a research brief over retrieved papers,
// then a report written from that brief.
type ReportUseCase interface {
	Generate(ctx context.Context, topic string) (ReportOutput, error)
}

type reportUC struct {
	ai           adapter.AIServiceAdapter
	retrieval    RetrievalUseCase
	model        string
	contextChars int
	log          *zerolog.Logger
}

func NewReportUseCase(ai adapter.AIServiceAdapter, retrieval RetrievalUseCase, modelName string, contextChars int, logger *zerolog.Logger) *reportUC {
	return &reportUC{ai: ai, retrieval: retrieval, model: modelName, contextChars: contextChars, log: logger}
}

const researchPromptFormat = `You are a senior research analyst investigating "%s" as of %d.

Using the papers below, compile a list of the most relevant findings. For each finding, give a short explanation and cite the source URL (the paper's PDF URL or any URL mentioned in its text).

Papers:
%s`

const reportingPromptFormat = `You are a reporting analyst. Expand the research notes below into a detailed report about "%s" in markdown format (do not wrap the whole report in code fences). Cover each topic in its own section, write full paragraphs, and end with a Sources section listing the cited URLs.

Research notes:
%s`

func (r *reportUC) Generate(ctx context.Context, topic string) (ReportOutput, error) {
	papers := r.retrieval.Retrieve(ctx, topic)

	briefPrompt := fmt.Sprintf(researchPromptFormat, topic, time.Now().Year(), papersContext(papers, r.contextChars))
	brief, err := r.chat(ctx, briefPrompt)
	if err != nil {
		return ReportOutput{}, fmt.Errorf("research stage: %w", err)
	}

	reportPrompt := fmt.Sprintf(reportingPromptFormat, topic, brief)
	report, err := r.chat(ctx, reportPrompt)
	if err != nil {
		return ReportOutput{}, fmt.Errorf("reporting stage: %w", err)
	}

	// The last stage output is the main report.
	return ReportOutput{
		PrimaryText: report,
		TaskOutputs: []string{brief, report},
	}, nil
}

func (r *reportUC) chat(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	reply, usage, err := r.ai.ChatWithUsage(ctx, r.model, []adapter.Message{{Role: "user", Content: prompt}})
	metrics.ObserveAICall(r.model, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens, int(time.Since(start).Milliseconds()), err == nil)
	return reply, err
}
