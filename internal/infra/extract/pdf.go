// File: internal/infra/extract/pdf.go

// Package extract pulls text and embedded images out of PDF payloads.
package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"

	"ai-research-backend/internal/domain/ports/adapter"
)

const imageSubdir = "extracted_images"

var _ adapter.DocumentExtractor = (*PDFExtractor)(nil)

// PDFExtractor reads at most maxPages pages of text and persists embedded
// images of those pages under the static asset root. Images below
// minImageBytes are discarded as presumed logos/icons.
type PDFExtractor struct {
	assetDir      string // static asset root
	maxPages      int
	minImageBytes int
	log           *zerolog.Logger
}

func NewPDFExtractor(assetDir string, maxPages, minImageBytes int, logger *zerolog.Logger) *PDFExtractor {
	return &PDFExtractor{
		assetDir:      assetDir,
		maxPages:      maxPages,
		minImageBytes: minImageBytes,
		log:           logger,
	}
}

func (e *PDFExtractor) Extract(ctx context.Context, pdfPath, docID string) (adapter.Extraction, error) {
	text, pages, err := e.extractText(pdfPath)
	if err != nil {
		return adapter.Extraction{}, fmt.Errorf("extract text: %w", err)
	}
	images, err := e.extractImages(pdfPath, docID, pages)
	if err != nil {
		return adapter.Extraction{}, fmt.Errorf("extract images: %w", err)
	}
	return adapter.Extraction{Text: text, Images: images}, nil
}

// extractText concatenates per-page plain text in page order and returns the
// number of pages actually read.
func (e *PDFExtractor) extractText(pdfPath string) (string, int, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > e.maxPages {
		pages = e.maxPages
	}

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		txt, err := p.GetPlainText(nil)
		if err != nil {
			return "", 0, fmt.Errorf("page %d: %w", i, err)
		}
		sb.WriteString(txt)
	}
	return sb.String(), pages, nil
}

func (e *PDFExtractor) extractImages(pdfPath, docID string, pages int) ([]string, error) {
	if pages <= 0 {
		return nil, nil
	}
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pageMaps, err := api.ExtractImagesRaw(f, []string{fmt.Sprintf("1-%d", pages)}, pdfmodel.NewDefaultConfiguration())
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(e.assetDir, imageSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	safe := strings.ReplaceAll(docID, "/", "_")
	var out []string
	for _, pageImgs := range pageMaps {
		objNrs := make([]int, 0, len(pageImgs))
		for nr := range pageImgs {
			objNrs = append(objNrs, nr)
		}
		sort.Ints(objNrs)

		for idx, nr := range objNrs {
			img := pageImgs[nr]
			data, err := io.ReadAll(img)
			if err != nil {
				return nil, err
			}
			if len(data) < e.minImageBytes {
				// Tiny embedded images are almost always logos or icons.
				continue
			}
			name := fmt.Sprintf("%s_p%d_i%d.%s", safe, img.PageNr-1, idx, img.FileType)
			if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
				return nil, err
			}
			out = append(out, "/"+path.Join("static", imageSubdir, name))
		}
	}
	if len(out) > 0 {
		e.log.Debug().Str("doc", docID).Int("images", len(out)).Msg("persisted extracted images")
	}
	return out, nil
}
