package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ai-research-backend/internal/domain/model"
	"ai-research-backend/internal/domain/ports/adapter"
	"ai-research-backend/internal/domain/ports/repository"
)

// --- Mock Repositories (Ports) ---

type mockRegistry struct {
	repository.JobRegistry // Embed interface for forward compatibility
	mu                     sync.Mutex
	statuses               map[string]model.JobStatus
	topics                 map[string]string
	history                map[string][]model.JobStatus
	seq                    int
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{
		statuses: make(map[string]model.JobStatus),
		topics:   make(map[string]string),
		history:  make(map[string][]model.JobStatus),
	}
}

func (m *mockRegistry) Create(topic string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("job-%d", m.seq)
	m.statuses[id] = model.JobStatusPending
	m.topics[id] = topic
	m.history[id] = []model.JobStatus{model.JobStatusPending}
	return id
}

func (m *mockRegistry) SetStatus(id string, status model.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.statuses[id]; !ok {
		return
	}
	m.statuses[id] = status
	m.history[id] = append(m.history[id], status)
}

func (m *mockRegistry) Status(id string) (model.JobStatus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.statuses[id]
	return s, ok
}

func (m *mockRegistry) Topic(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.topics[id]
	return t, ok
}

func (m *mockRegistry) Exists(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.statuses[id]
	return ok
}

func (m *mockRegistry) historyOf(id string) []model.JobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.JobStatus(nil), m.history[id]...)
}

type mockStore struct {
	mu      sync.Mutex
	records map[string][]byte
	saves   map[string]int
	SaveErr error
	LoadErr error
}

func newMockStore() *mockStore {
	return &mockStore{records: make(map[string][]byte), saves: make(map[string]int)}
}

func (m *mockStore) Save(id string, v any) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id] = b
	m.saves[id]++
	return nil
}

func (m *mockStore) Load(id string, into any) (bool, error) {
	if m.LoadErr != nil {
		return false, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.records[id]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, into)
}

func (m *mockStore) saveCount(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[id]
}

// --- Mock Adapters (Ports) ---

type mockAI struct {
	mu      sync.Mutex
	Replies []string // consumed in order; last one repeats
	Err     error
	Calls   int
	Prompts []string // last message content of each call
}

func (m *mockAI) Chat(ctx context.Context, modelName string, messages []adapter.Message) (string, error) {
	text, _, err := m.ChatWithUsage(ctx, modelName, messages)
	return text, err
}

func (m *mockAI) ChatWithUsage(ctx context.Context, modelName string, messages []adapter.Message) (string, adapter.Usage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if len(messages) > 0 {
		m.Prompts = append(m.Prompts, messages[len(messages)-1].Content)
	}
	if m.Err != nil {
		return "", adapter.Usage{}, m.Err
	}
	if len(m.Replies) == 0 {
		return "", adapter.Usage{}, errors.New("mockAI: no reply configured")
	}
	i := m.Calls - 1
	if i >= len(m.Replies) {
		i = len(m.Replies) - 1
	}
	return m.Replies[i], adapter.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30}, nil
}

type mockSource struct {
	Metas       []adapter.PaperMeta
	SearchErr   error
	DownloadErr map[string]error // per doc id
	Downloads   int
}

func (m *mockSource) Search(ctx context.Context, topic string, max int) ([]adapter.PaperMeta, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if len(m.Metas) > max {
		return m.Metas[:max], nil
	}
	return m.Metas, nil
}

func (m *mockSource) Download(ctx context.Context, meta adapter.PaperMeta, dir string) (string, error) {
	if err := m.DownloadErr[meta.ID]; err != nil {
		return "", err
	}
	m.Downloads++
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, meta.ID+".pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 stub"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type mockExtractor struct {
	Extractions map[string]adapter.Extraction // per doc id
	Errs        map[string]error              // per doc id
}

func (m *mockExtractor) Extract(ctx context.Context, pdfPath, docID string) (adapter.Extraction, error) {
	if err := m.Errs[docID]; err != nil {
		return adapter.Extraction{}, err
	}
	return m.Extractions[docID], nil
}

// --- Mock Use Cases ---

type mockRetrieval struct {
	Papers []model.Paper
}

func (m *mockRetrieval) Retrieve(ctx context.Context, topic string) []model.Paper {
	if m.Papers == nil {
		return []model.Paper{}
	}
	return m.Papers
}

type mockSynthesis struct {
	Raw string
	Err error
}

func (m *mockSynthesis) Synthesize(ctx context.Context, topic string, papers []model.Paper) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Raw, nil
}

type mockReports struct {
	Out ReportOutput
	Err error
}

func (m *mockReports) Generate(ctx context.Context, topic string) (ReportOutput, error) {
	if m.Err != nil {
		return ReportOutput{}, m.Err
	}
	return m.Out, nil
}
