package web

import (
	"context"

	"ai-research-backend/internal/domain/model"
	"ai-research-backend/internal/usecase"
)

type mockResearchUC struct {
	SubmitID  string
	SubmitErr error
	LastTopic string
	LastKind  model.PipelineVariant

	StatusInfo usecase.StatusInfo
	StatusErr  error

	StaticRes  *model.ResearchResult
	StaticErr  error
	DynamicRes *model.DynamicResearchResult
	DynamicErr error
}

var _ usecase.ResearchUseCase = (*mockResearchUC)(nil)

func (m *mockResearchUC) Submit(ctx context.Context, topic string, variant model.PipelineVariant) (string, error) {
	m.LastTopic = topic
	m.LastKind = variant
	return m.SubmitID, m.SubmitErr
}

func (m *mockResearchUC) Status(ctx context.Context, jobID string) (usecase.StatusInfo, error) {
	return m.StatusInfo, m.StatusErr
}

func (m *mockResearchUC) StaticResult(ctx context.Context, jobID string) (*model.ResearchResult, error) {
	return m.StaticRes, m.StaticErr
}

func (m *mockResearchUC) DynamicResult(ctx context.Context, jobID string) (*model.DynamicResearchResult, error) {
	return m.DynamicRes, m.DynamicErr
}
