package model

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether the status is final for the process lifetime.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// PipelineVariant selects which research pipeline a job runs.
type PipelineVariant string

const (
	PipelineStatic  PipelineVariant = "static"
	PipelineDynamic PipelineVariant = "dynamic"
)

// Job is one submitted research request. The registry holds it in process
// memory only; a restart loses all jobs while persisted results remain.
type Job struct {
	ID     string
	Topic  string
	Status JobStatus
}
