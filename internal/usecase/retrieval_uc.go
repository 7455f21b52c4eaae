// File: internal/usecase/retrieval_uc.go
package usecase

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"ai-research-backend/internal/domain/model"
	"ai-research-backend/internal/domain/ports/adapter"
)

// Compile-time check
var _ RetrievalUseCase = (*retrievalUC)(nil)

// RetrievalUseCase turns a topic into relevance-ranked papers with extracted
// text and images. It never fails: a provider outage degrades to an empty
// batch, and per-document failures degrade that document's content only.
type RetrievalUseCase interface {
	Retrieve(ctx context.Context, topic string) []model.Paper
}

type retrievalUC struct {
	source      adapter.PaperSource
	extractor   adapter.DocumentExtractor
	downloadDir string
	maxResults  int
	maxDeep     int
	log         *zerolog.Logger
}

func NewRetrievalUseCase(source adapter.PaperSource, extractor adapter.DocumentExtractor, downloadDir string, maxResults, maxDeep int, logger *zerolog.Logger) *retrievalUC {
	return &retrievalUC{
		source:      source,
		extractor:   extractor,
		downloadDir: downloadDir,
		maxResults:  maxResults,
		maxDeep:     maxDeep,
		log:         logger,
	}
}

func (r *retrievalUC) Retrieve(ctx context.Context, topic string) []model.Paper {
	metas, err := r.source.Search(ctx, topic, r.maxResults)
	if err != nil {
		// Degrade to empty: a transient index outage reads as "no papers
		// found" instead of crashing the pipeline.
		r.log.Error().Err(err).Str("topic", topic).Msg("paper search failed")
		return []model.Paper{}
	}

	papers := make([]model.Paper, 0, len(metas))
	for i, meta := range metas {
		paper := model.Paper{
			Title:     meta.Title,
			Authors:   meta.Authors,
			Published: meta.Published,
			Summary:   meta.Summary,
			PDFURL:    meta.PDFURL,
			Images:    []string{},
		}
		if paper.Authors == nil {
			paper.Authors = []string{}
		}
		// Only the top hits get the expensive fetch+extract treatment.
		if i < r.maxDeep {
			paper.Content, paper.Images = r.process(ctx, meta)
		}
		papers = append(papers, paper)
	}

	// Leave no empty download dir behind after a batch. Remove fails (and
	// is ignored) when the dir is non-empty or already gone.
	os.Remove(r.downloadDir)

	r.log.Info().Str("topic", topic).Int("papers", len(papers)).Msg("retrieval finished")
	return papers
}

// process fetches and extracts one document. Failures are returned as the
// content string, never as an error crossing the batch boundary.
func (r *retrievalUC) process(ctx context.Context, meta adapter.PaperMeta) (string, []string) {
	pdfPath, err := r.source.Download(ctx, meta, r.downloadDir)
	if err != nil {
		r.log.Warn().Err(err).Str("doc", meta.ID).Msg("pdf download failed")
		return fmt.Sprintf("Error downloading PDF: %v", err), []string{}
	}

	extraction, err := r.extractor.Extract(ctx, pdfPath, meta.ID)

	// Drop the cached payload once processed; the cache only helps when the
	// same id repeats within a single batch.
	if rmErr := os.Remove(pdfPath); rmErr != nil {
		r.log.Debug().Err(rmErr).Str("doc", meta.ID).Msg("removing cached pdf")
	}

	if err != nil {
		r.log.Warn().Err(err).Str("doc", meta.ID).Msg("extraction failed")
		return fmt.Sprintf("Error extracting text/images: %v", err), []string{}
	}
	images := extraction.Images
	if images == nil {
		images = []string{}
	}
	return extraction.Text, images
}
