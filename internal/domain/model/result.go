package model

// ResearchResult is the durable record of a static-pipeline job. Written
// exactly once when the job leaves the running state.
type ResearchResult struct {
	Report      string   `json:"report"`
	Sources     []string `json:"sources"`
	CompletedAt string   `json:"completed_at"` // RFC 3339
	JobID       string   `json:"jobId"`
	Topic       string   `json:"topic"`
	Error       string   `json:"error,omitempty"`
}

// DynamicResearchResult is the durable record of a dynamic-pipeline job.
type DynamicResearchResult struct {
	Topic             string   `json:"topic"`
	Summary           string   `json:"summary"`
	Papers            []Paper  `json:"papers"`
	KeyInsights       []string `json:"key_insights"`
	GeneratedDiagrams []string `json:"generated_diagrams"`
	CompletedAt       string   `json:"completed_at"` // RFC 3339
	JobID             string   `json:"jobId"`
	Error             string   `json:"error,omitempty"`
}

// SynthesisOutput is the structured part of the generative backend's reply.
// Diagram definitions are opaque text (Mermaid syntax by convention).
type SynthesisOutput struct {
	Summary           string   `json:"summary"`
	KeyInsights       []string `json:"key_insights"`
	GeneratedDiagrams []string `json:"generated_diagrams"`
}
