package model

// Paper is one retrieved source document. Content may hold an extraction
// error description instead of text; such papers are still part of the
// batch (degraded, not dropped).
type Paper struct {
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Published string   `json:"published"` // ISO date, e.g. 2024-01-31
	Summary   string   `json:"summary"`
	PDFURL    string   `json:"pdf_url"`
	Content   string   `json:"content"`
	Images    []string `json:"images"` // paths relative to the static asset root
}
