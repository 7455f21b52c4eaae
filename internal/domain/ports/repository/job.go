package repository

import "ai-research-backend/internal/domain/model"

// JobRegistry tracks job lifecycle state in process memory. Each job id is
// written by exactly one pipeline execution and read concurrently by
// status/result queries, so implementations must be safe under
// single-writer/multiple-reader access to the same key.
type JobRegistry interface {
	// Create allocates a fresh id with status pending. Never fails.
	Create(topic string) string

	// SetStatus overwrites the status. Unknown ids are a no-op.
	SetStatus(id string, status model.JobStatus)

	Status(id string) (model.JobStatus, bool)
	Topic(id string) (string, bool)
	Exists(id string) bool
}
