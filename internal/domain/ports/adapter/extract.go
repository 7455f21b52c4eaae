package adapter

import "context"

// Extraction is the text and image yield of one document.
type Extraction struct {
	Text   string
	Images []string // paths relative to the static asset root
}

// DocumentExtractor pulls text and embedded images out of a local PDF.
type DocumentExtractor interface {
	Extract(ctx context.Context, pdfPath, docID string) (Extraction, error)
}
