// File: internal/infra/registry/memory.go
package registry

import (
	"sync"

	"github.com/google/uuid"

	"ai-research-backend/internal/domain/model"
	"ai-research-backend/internal/domain/ports/repository"
)

var _ repository.JobRegistry = (*Memory)(nil)

// Memory is the in-process job registry. State is volatile: a restart
// loses every job, while persisted results stay readable by id.
type Memory struct {
	mu       sync.RWMutex
	statuses map[string]model.JobStatus
	topics   map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		statuses: make(map[string]model.JobStatus),
		topics:   make(map[string]string),
	}
}

func (m *Memory) Create(topic string) string {
	id := uuid.NewString()
	m.mu.Lock()
	m.statuses[id] = model.JobStatusPending
	m.topics[id] = topic
	m.mu.Unlock()
	return id
}

// SetStatus overwrites unconditionally; unknown ids are ignored. Transition
// legality is the orchestrator's responsibility.
func (m *Memory) SetStatus(id string, status model.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.statuses[id]; ok {
		m.statuses[id] = status
	}
}

func (m *Memory) Status(id string) (model.JobStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.statuses[id]
	return s, ok
}

func (m *Memory) Topic(id string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.topics[id]
	return t, ok
}

func (m *Memory) Exists(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.statuses[id]
	return ok
}
