package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-research-backend/internal/domain/model"
)

func TestSynthesize_PromptCarriesTopicAndTruncatedContent(t *testing.T) {
	t.Parallel()

	ai := &mockAI{Replies: []string{`{"summary":"ok"}`}}
	uc := NewSynthesisUseCase(ai, "gemini-2.0-flash", 10, discardLogger())

	papers := []model.Paper{
		{Title: "Long Paper", Summary: "abstract", Content: "0123456789OVERFLOW"},
	}
	if _, err := uc.Synthesize(context.Background(), "sparse attention", papers); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if len(ai.Prompts) != 1 {
		t.Fatalf("expected one AI call, got %d", len(ai.Prompts))
	}
	prompt := ai.Prompts[0]
	if !strings.Contains(prompt, "Research Topic: sparse attention") {
		t.Fatalf("prompt missing topic:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Paper 1: Long Paper") {
		t.Fatalf("prompt missing paper header:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Content: 0123456789...") {
		t.Fatalf("content not truncated to the context budget:\n%s", prompt)
	}
	if strings.Contains(prompt, "OVERFLOW") {
		t.Fatalf("content beyond the budget leaked into the prompt")
	}
}

func TestSynthesize_ProviderErrorPropagates(t *testing.T) {
	t.Parallel()

	cause := errors.New("quota exhausted")
	uc := NewSynthesisUseCase(&mockAI{Err: cause}, "gemini-2.0-flash", 1000, discardLogger())

	_, err := uc.Synthesize(context.Background(), "topic", nil)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestReportGenerate_TwoStagesChained(t *testing.T) {
	t.Parallel()

	ai := &mockAI{Replies: []string{"the brief", "# the report"}}
	retrieval := &mockRetrieval{Papers: []model.Paper{{Title: "P", Summary: "S"}}}
	uc := NewReportUseCase(ai, retrieval, "gemini-2.0-flash", 1000, discardLogger())

	out, err := uc.Generate(context.Background(), "diffusion models")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if ai.Calls != 2 {
		t.Fatalf("expected two generation stages, got %d calls", ai.Calls)
	}
	if out.PrimaryText != "# the report" {
		t.Fatalf("primary text must be the final stage output, got %q", out.PrimaryText)
	}
	want := []string{"the brief", "# the report"}
	if len(out.TaskOutputs) != 2 || out.TaskOutputs[0] != want[0] || out.TaskOutputs[1] != want[1] {
		t.Fatalf("task outputs %v, want %v", out.TaskOutputs, want)
	}
	// Second stage must see the first stage's notes.
	if !strings.Contains(ai.Prompts[1], "the brief") {
		t.Fatalf("reporting prompt missing research notes:\n%s", ai.Prompts[1])
	}
	if !strings.Contains(ai.Prompts[0], "Paper 1: P") {
		t.Fatalf("research prompt missing retrieved papers:\n%s", ai.Prompts[0])
	}
}

func TestReportGenerate_FirstStageFailureStops(t *testing.T) {
	t.Parallel()

	ai := &mockAI{Err: errors.New("backend down")}
	uc := NewReportUseCase(ai, &mockRetrieval{}, "gemini-2.0-flash", 1000, discardLogger())

	if _, err := uc.Generate(context.Background(), "topic"); err == nil {
		t.Fatalf("expected error from failed research stage")
	}
	if ai.Calls != 1 {
		t.Fatalf("reporting stage must not run after research stage failure, got %d calls", ai.Calls)
	}
}
