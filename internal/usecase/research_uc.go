// File: internal/usecase/research_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ai-research-backend/internal/domain"
	"ai-research-backend/internal/domain/model"
	"ai-research-backend/internal/domain/ports/repository"
	"ai-research-backend/internal/infra/logging"
	"ai-research-backend/internal/infra/metrics"
	"ai-research-backend/internal/infra/worker"
)

// Compile-time check
var _ ResearchUseCase = (*researchUC)(nil)

// StatusInfo is what status queries see of a job.
type StatusInfo struct {
	JobID  string
	Status model.JobStatus
	Topic  string
}

// ResearchUseCase owns the job lifecycle: submission creates a pending job
// and dispatches its pipeline in the background; queries read the registry
// and the result store only. State machine per job:
// pending -> running -> completed | failed, terminal states final.
type ResearchUseCase interface {
	Submit(ctx context.Context, topic string, variant model.PipelineVariant) (jobID string, err error)
	Status(ctx context.Context, jobID string) (StatusInfo, error)
	StaticResult(ctx context.Context, jobID string) (*model.ResearchResult, error)
	DynamicResult(ctx context.Context, jobID string) (*model.DynamicResearchResult, error)
}

type researchUC struct {
	registry  repository.JobRegistry
	results   repository.ResultStore
	synthesis SynthesisUseCase
	retrieval RetrievalUseCase
	reports   ReportUseCase
	runner    *worker.Runner
	log       *zerolog.Logger
}

func NewResearchUseCase(
	registry repository.JobRegistry,
	results repository.ResultStore,
	retrieval RetrievalUseCase,
	synthesis SynthesisUseCase,
	reports ReportUseCase,
	runner *worker.Runner,
	logger *zerolog.Logger,
) *researchUC {
	return &researchUC{
		registry:  registry,
		results:   results,
		retrieval: retrieval,
		synthesis: synthesis,
		reports:   reports,
		runner:    runner,
		log:       logger,
	}
}

func (r *researchUC) Submit(ctx context.Context, topic string, variant model.PipelineVariant) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", domain.ErrInvalidArgument
	}

	id := r.registry.Create(topic)
	r.log.Info().Str("job_id", id).Str("variant", string(variant)).Str("topic", topic).Msg("job submitted")

	// Once dispatched, the job runs to completion or failure; the runner's
	// context is process-scoped, not tied to the submitting request.
	r.runner.Go(func(ctx context.Context) {
		ctx = logging.WithJobID(ctx, id)
		switch variant {
		case model.PipelineDynamic:
			r.runDynamic(ctx, id, topic)
		default:
			r.runStatic(ctx, id, topic)
		}
	})
	return id, nil
}

func (r *researchUC) Status(ctx context.Context, jobID string) (StatusInfo, error) {
	status, ok := r.registry.Status(jobID)
	if !ok {
		return StatusInfo{}, domain.ErrJobNotFound
	}

	topic, ok := r.registry.Topic(jobID)
	if !ok || topic == "" {
		// The topic may only survive in the persisted record.
		var rec struct {
			Topic string `json:"topic"`
		}
		if found, err := r.results.Load(jobID, &rec); err == nil && found {
			topic = rec.Topic
		}
		if topic == "" {
			topic = "Unknown"
		}
	}
	return StatusInfo{JobID: jobID, Status: status, Topic: topic}, nil
}

// StaticResult gates on readiness: not-ready while the job has not reached a
// terminal state, and ErrJobFailed (with the loaded record) once it failed.
func (r *researchUC) StaticResult(ctx context.Context, jobID string) (*model.ResearchResult, error) {
	status, err := r.resultStatus(jobID)
	if err != nil {
		return nil, err
	}
	var res model.ResearchResult
	found, err := r.results.Load(jobID, &res)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrResultNotFound
	}
	if status == model.JobStatusFailed {
		return &res, domain.ErrJobFailed
	}
	return &res, nil
}

func (r *researchUC) DynamicResult(ctx context.Context, jobID string) (*model.DynamicResearchResult, error) {
	status, err := r.resultStatus(jobID)
	if err != nil {
		return nil, err
	}
	var res model.DynamicResearchResult
	found, err := r.results.Load(jobID, &res)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrResultNotFound
	}
	if status == model.JobStatusFailed {
		return &res, domain.ErrJobFailed
	}
	return &res, nil
}

func (r *researchUC) resultStatus(jobID string) (model.JobStatus, error) {
	status, ok := r.registry.Status(jobID)
	if !ok {
		return "", domain.ErrJobNotFound
	}
	if !status.Terminal() {
		return "", fmt.Errorf("%w: job is still %s", domain.ErrResultNotReady, status)
	}
	return status, nil
}

// --- background pipelines ---

func (r *researchUC) runStatic(ctx context.Context, id, topic string) {
	log := logging.With(ctx, r.log)
	r.registry.SetStatus(id, model.JobStatusRunning)
	metrics.JobStarted()
	defer metrics.JobFinished()

	out, err := r.reports.Generate(ctx, topic)
	if err != nil {
		r.failStatic(id, topic, err, log)
		return
	}

	// Harvest source URLs from the main report and every stage output.
	outputs := append([]string{out.PrimaryText}, out.TaskOutputs...)

	res := model.ResearchResult{
		Report:      out.PrimaryText,
		Sources:     CollectSources(outputs),
		CompletedAt: time.Now().Format(time.RFC3339),
		JobID:       id,
		Topic:       topic,
	}
	if err := r.results.Save(id, res); err != nil {
		r.failStatic(id, topic, err, log)
		return
	}
	r.registry.SetStatus(id, model.JobStatusCompleted)
	metrics.IncResearchJob(string(model.PipelineStatic), string(model.JobStatusCompleted))
	log.Info().Int("sources", len(res.Sources)).Msg("static research job completed")
}

func (r *researchUC) runDynamic(ctx context.Context, id, topic string) {
	log := logging.With(ctx, r.log)
	r.registry.SetStatus(id, model.JobStatusRunning)
	metrics.JobStarted()
	defer metrics.JobFinished()

	papers := r.retrieval.Retrieve(ctx, topic)

	raw, err := r.synthesis.Synthesize(ctx, topic, papers)
	if err != nil {
		r.failDynamic(id, topic, err, log)
		return
	}
	parsed := ParseSynthesis(raw)

	res := model.DynamicResearchResult{
		Topic:             topic,
		Summary:           parsed.Summary,
		Papers:            papers,
		KeyInsights:       parsed.KeyInsights,
		GeneratedDiagrams: parsed.GeneratedDiagrams,
		CompletedAt:       time.Now().Format(time.RFC3339),
		JobID:             id,
	}
	if err := r.results.Save(id, res); err != nil {
		r.failDynamic(id, topic, err, log)
		return
	}
	r.registry.SetStatus(id, model.JobStatusCompleted)
	metrics.IncResearchJob(string(model.PipelineDynamic), string(model.JobStatusCompleted))
	log.Info().Int("papers", len(papers)).Msg("dynamic research job completed")
}

// failStatic persists an error-only record and marks the job failed, so a
// terminal job always has exactly one readable result.
func (r *researchUC) failStatic(id, topic string, cause error, log *zerolog.Logger) {
	res := model.ResearchResult{
		Report:      "",
		Sources:     []string{},
		CompletedAt: time.Now().Format(time.RFC3339),
		JobID:       id,
		Topic:       topic,
		Error:       cause.Error(),
	}
	if err := r.results.Save(id, res); err != nil {
		log.Error().Err(err).Msg("persisting failure result")
	}
	r.registry.SetStatus(id, model.JobStatusFailed)
	metrics.IncResearchJob(string(model.PipelineStatic), string(model.JobStatusFailed))
	log.Error().Err(cause).Msg("static research job failed")
}

func (r *researchUC) failDynamic(id, topic string, cause error, log *zerolog.Logger) {
	res := model.DynamicResearchResult{
		Topic:             topic,
		Papers:            []model.Paper{},
		KeyInsights:       []string{},
		GeneratedDiagrams: []string{},
		CompletedAt:       time.Now().Format(time.RFC3339),
		JobID:             id,
		Error:             cause.Error(),
	}
	if err := r.results.Save(id, res); err != nil {
		log.Error().Err(err).Msg("persisting failure result")
	}
	r.registry.SetStatus(id, model.JobStatusFailed)
	metrics.IncResearchJob(string(model.PipelineDynamic), string(model.JobStatusFailed))
	log.Error().Err(cause).Msg("dynamic research job failed")
}
