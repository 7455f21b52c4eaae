package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"ai-research-backend/internal/domain"
	"ai-research-backend/internal/domain/model"
	"ai-research-backend/internal/infra/worker"
)

type researchFixture struct {
	registry  *mockRegistry
	store     *mockStore
	retrieval *mockRetrieval
	synthesis *mockSynthesis
	reports   *mockReports
	runner    *worker.Runner
	uc        ResearchUseCase
}

func newResearchFixture() *researchFixture {
	f := &researchFixture{
		registry:  newMockRegistry(),
		store:     newMockStore(),
		retrieval: &mockRetrieval{},
		synthesis: &mockSynthesis{},
		reports:   &mockReports{},
		runner:    worker.NewRunner(context.Background()),
	}
	f.uc = NewResearchUseCase(f.registry, f.store, f.retrieval, f.synthesis, f.reports, f.runner, discardLogger())
	return f
}

func TestSubmit_RejectsBlankTopic(t *testing.T) {
	t.Parallel()

	f := newResearchFixture()
	if _, err := f.uc.Submit(context.Background(), "   ", model.PipelineDynamic); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestDynamicPipeline_Success(t *testing.T) {
	t.Parallel()

	f := newResearchFixture()
	f.retrieval.Papers = []model.Paper{
		{Title: "Attention Is All You Need", Content: "transformer text", Images: []string{}},
	}
	f.synthesis.Raw = "```json\n{\"summary\":\"S\",\"key_insights\":[\"i1\",\"i2\"],\"generated_diagrams\":[\"graph TD; A-->B;\"]}\n```"

	id, err := f.uc.Submit(context.Background(), "transformers", model.PipelineDynamic)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	f.runner.Wait()

	wantHistory := []model.JobStatus{model.JobStatusPending, model.JobStatusRunning, model.JobStatusCompleted}
	if got := f.registry.historyOf(id); !reflect.DeepEqual(got, wantHistory) {
		t.Fatalf("status history %v, want %v", got, wantHistory)
	}
	if n := f.store.saveCount(id); n != 1 {
		t.Fatalf("expected exactly one persisted result, got %d", n)
	}

	res, err := f.uc.DynamicResult(context.Background(), id)
	if err != nil {
		t.Fatalf("DynamicResult: %v", err)
	}
	if res.Summary != "S" || len(res.KeyInsights) != 2 || len(res.GeneratedDiagrams) != 1 {
		t.Fatalf("unexpected parsed result %+v", res)
	}
	if res.JobID != id || res.Topic != "transformers" {
		t.Fatalf("result identity fields wrong: %+v", res)
	}
	if len(res.Papers) != 1 || res.Papers[0].Title != "Attention Is All You Need" {
		t.Fatalf("papers not carried through: %+v", res.Papers)
	}
	if _, err := time.Parse(time.RFC3339, res.CompletedAt); err != nil {
		t.Fatalf("completed_at not RFC3339: %q", res.CompletedAt)
	}
	if res.Error != "" {
		t.Fatalf("unexpected error field %q", res.Error)
	}
}

func TestDynamicPipeline_SynthesisFailure(t *testing.T) {
	t.Parallel()

	f := newResearchFixture()
	f.synthesis.Err = errors.New("model overloaded")

	id, err := f.uc.Submit(context.Background(), "quantum error correction", model.PipelineDynamic)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	f.runner.Wait()

	status, ok := f.registry.Status(id)
	if !ok || status != model.JobStatusFailed {
		t.Fatalf("expected failed status, got %v %v", status, ok)
	}

	res, err := f.uc.DynamicResult(context.Background(), id)
	if !errors.Is(err, domain.ErrJobFailed) {
		t.Fatalf("expected ErrJobFailed, got %v", err)
	}
	if res == nil || res.Error == "" {
		t.Fatalf("failed job must carry an error description, got %+v", res)
	}
	if res.Papers == nil || res.KeyInsights == nil || res.GeneratedDiagrams == nil {
		t.Fatalf("failure record collections must be empty, not null: %+v", res)
	}
	if _, err := time.Parse(time.RFC3339, res.CompletedAt); err != nil {
		t.Fatalf("failure record missing timestamp: %q", res.CompletedAt)
	}
}

func TestStaticPipeline_SuccessCollectsSourcesAcrossOutputs(t *testing.T) {
	t.Parallel()

	f := newResearchFixture()
	f.reports.Out = ReportOutput{
		PrimaryText: "# Report\ncites https://a.com/shared and https://a.com/report-only",
		TaskOutputs: []string{
			"brief cites https://a.com/shared plus https://b.com/brief-only",
			"# Report\ncites https://a.com/shared and https://a.com/report-only",
		},
	}

	id, err := f.uc.Submit(context.Background(), "agentic retrieval", model.PipelineStatic)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	f.runner.Wait()

	res, err := f.uc.StaticResult(context.Background(), id)
	if err != nil {
		t.Fatalf("StaticResult: %v", err)
	}
	if res.Report != f.reports.Out.PrimaryText {
		t.Fatalf("report text not preserved")
	}
	wantSources := []string{"https://a.com/shared", "https://a.com/report-only", "https://b.com/brief-only"}
	if !reflect.DeepEqual(res.Sources, wantSources) {
		t.Fatalf("sources %v, want %v", res.Sources, wantSources)
	}
}

func TestStaticPipeline_GenerationFailure(t *testing.T) {
	t.Parallel()

	f := newResearchFixture()
	f.reports.Err = errors.New("upstream 429")

	id, err := f.uc.Submit(context.Background(), "topic", model.PipelineStatic)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	f.runner.Wait()

	res, err := f.uc.StaticResult(context.Background(), id)
	if !errors.Is(err, domain.ErrJobFailed) {
		t.Fatalf("expected ErrJobFailed, got %v", err)
	}
	if res == nil || res.Error == "" || res.Sources == nil {
		t.Fatalf("unexpected failure record %+v", res)
	}
}

func TestResult_GatedUntilTerminal(t *testing.T) {
	t.Parallel()

	f := newResearchFixture()
	// Bypass Submit so the job never progresses past pending.
	id := f.registry.Create("stuck topic")

	if _, err := f.uc.DynamicResult(context.Background(), id); !errors.Is(err, domain.ErrResultNotReady) {
		t.Fatalf("expected ErrResultNotReady for pending job, got %v", err)
	}

	f.registry.SetStatus(id, model.JobStatusRunning)
	if _, err := f.uc.StaticResult(context.Background(), id); !errors.Is(err, domain.ErrResultNotReady) {
		t.Fatalf("expected ErrResultNotReady for running job, got %v", err)
	}
}

func TestResult_UnknownJob(t *testing.T) {
	t.Parallel()

	f := newResearchFixture()
	if _, err := f.uc.Status(context.Background(), "nope"); !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound from Status, got %v", err)
	}
	if _, err := f.uc.DynamicResult(context.Background(), "nope"); !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound from DynamicResult, got %v", err)
	}
}

func TestResult_MissingRecordForTerminalJob(t *testing.T) {
	t.Parallel()

	f := newResearchFixture()
	id := f.registry.Create("topic")
	f.registry.SetStatus(id, model.JobStatusCompleted)

	if _, err := f.uc.StaticResult(context.Background(), id); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected ErrResultNotFound, got %v", err)
	}
}

func TestDynamicPipeline_SaveFailureMarksJobFailed(t *testing.T) {
	t.Parallel()

	f := newResearchFixture()
	f.synthesis.Raw = `{"summary":"fine"}`
	f.store.SaveErr = errors.New("disk full")

	id, err := f.uc.Submit(context.Background(), "topic", model.PipelineDynamic)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	f.runner.Wait()

	status, _ := f.registry.Status(id)
	if status != model.JobStatusFailed {
		t.Fatalf("expected failed after save error, got %v", status)
	}
}

func TestStatus_FallsBackToPersistedTopic(t *testing.T) {
	t.Parallel()

	f := newResearchFixture()
	f.synthesis.Raw = `{"summary":"s"}`
	id, err := f.uc.Submit(context.Background(), "federated learning", model.PipelineDynamic)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	f.runner.Wait()

	// Simulate a registry that lost the topic but kept the status.
	f.registry.mu.Lock()
	f.registry.topics[id] = ""
	f.registry.mu.Unlock()

	info, err := f.uc.Status(context.Background(), id)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if info.Topic != "federated learning" {
		t.Fatalf("expected topic recovered from persisted record, got %q", info.Topic)
	}
	if info.Status != model.JobStatusCompleted {
		t.Fatalf("unexpected status %v", info.Status)
	}
}
