// File: internal/infra/adapters/arxiv/client.go

// Package arxiv queries the arXiv Atom API and fetches PDF payloads.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-research-backend/internal/domain/ports/adapter"
)

// apiBase is the arXiv search endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

var _ adapter.PaperSource = (*Client)(nil)

type Client struct {
	client *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{client: &http.Client{Timeout: timeout}}
}

// Search queries arXiv for the topic, relevance-ranked, up to max hits.
func (c *Client) Search(ctx context.Context, topic string, max int) ([]adapter.PaperMeta, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}
	if max <= 0 {
		max = 10
	}

	q := url.Values{}
	q.Set("search_query", "all:"+strings.Join(strings.Fields(topic), "+"))
	q.Set("start", "0")
	q.Set("max_results", fmt.Sprintf("%d", max))
	q.Set("sortBy", "relevance")
	q.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	metas := make([]adapter.PaperMeta, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		id := extractID(entry.ID)
		if id == "" {
			continue
		}

		m := adapter.PaperMeta{
			ID:      id,
			Title:   strings.TrimSpace(entry.Title),
			Summary: strings.TrimSpace(entry.Summary),
			PDFURL:  entry.pdfURL(),
		}
		for _, a := range entry.Authors {
			m.Authors = append(m.Authors, strings.TrimSpace(a.Name))
		}
		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			m.Published = t.Format("2006-01-02")
		}
		metas = append(metas, m)
	}
	return metas, nil
}

// Download fetches the PDF into dir under <id>.pdf. An existing file for the
// same id is reused, so duplicate ids within one batch skip the fetch.
func (c *Client) Download(ctx context.Context, meta adapter.PaperMeta, dir string) (string, error) {
	if meta.PDFURL == "" {
		return "", fmt.Errorf("paper %s has no pdf url", meta.ID)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	path := filepath.Join(dir, SafeID(meta.ID)+".pdf")
	if _, err := os.Stat(path); err == nil {
		return path, nil // cache hit
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, meta.PDFURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch pdf %s: %w", meta.ID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch pdf %s: HTTP %d", meta.ID, resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create pdf file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write pdf %s: %w", meta.ID, err)
	}
	return path, nil
}

// SafeID flattens old-style ids like "cs/0112017" into filesystem-safe names.
func SafeID(id string) string {
	return strings.ReplaceAll(id, "/", "_")
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
	Links     []atomLink   `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// pdfURL picks the entry's PDF link, falling back to the /abs/ → /pdf/
// rewrite of the entry id.
func (e atomEntry) pdfURL() string {
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return l.Href
		}
	}
	return strings.Replace(e.ID, "/abs/", "/pdf/", 1)
}

// extractID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041v1").
func extractID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return idURL[idx+len(prefix):]
}
