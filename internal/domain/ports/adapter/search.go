package adapter

import "context"

// PaperMeta is one relevance-ranked search hit. Metadata is always
// available; text and images come later from extraction.
type PaperMeta struct {
	ID        string // source document identifier, e.g. arXiv id
	Title     string
	Authors   []string
	Published string // ISO date
	Summary   string
	PDFURL    string
}

// PaperSource queries an external search index and fetches document payloads.
type PaperSource interface {
	// Search returns up to max hits ranked by relevance.
	Search(ctx context.Context, topic string, max int) ([]PaperMeta, error)

	// Download fetches the PDF payload into dir and returns its local path.
	// An existing file for the same document id is reused (cache hit).
	Download(ctx context.Context, meta PaperMeta, dir string) (string, error)
}
