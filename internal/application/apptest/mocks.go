// Package apptest provides in-memory implementations of the application
// ports for tests.
package apptest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"unsort/internal/domain"
	"unsort/internal/ports"
)

// MockStore is a DocumentStore that keeps JSON documents in memory.
type MockStore struct {
	mu        sync.Mutex
	docs      map[string][]byte
	SaveErr   error
	SaveCalls int
}

var _ ports.DocumentStore = (*MockStore)(nil)

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{docs: make(map[string][]byte)}
}

// Put stores raw bytes under key, bypassing encoding.
func (m *MockStore) Put(key string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = raw
}

// Raw returns the stored bytes of key.
func (m *MockStore) Raw(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.docs[key]
	return raw, ok
}

func (m *MockStore) Load(ctx context.Context, key string, v any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.docs[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ports.ErrCorruptDocument, key, err)
	}
	return true, nil
}

func (m *MockStore) Save(ctx context.Context, key string, v any) error {
	return m.SaveAll(ctx, ports.Document{Key: key, Value: v})
}

func (m *MockStore) SaveAll(ctx context.Context, docs ...ports.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	encoded := make(map[string][]byte, len(docs))
	for _, doc := range docs {
		raw, err := json.Marshal(doc.Value)
		if err != nil {
			return err
		}
		encoded[doc.Key] = raw
	}
	for key, raw := range encoded {
		m.docs[key] = raw
	}
	return nil
}

func (m *MockStore) Close() error { return nil }

// MockMemoryService is a scripted MemoryService.
type MockMemoryService struct {
	mu sync.Mutex

	TaskID    string
	SubmitErr error
	// Statuses are returned by successive PollStatus calls; the last one repeats.
	Statuses    []domain.TaskStatus
	PollErr     error
	Categories  []domain.RemoteCategory
	FetchErr    error
	Retrieval   *domain.Retrieval
	RetrieveErr error

	Submitted     []Submitted
	PollCalls     int
	FetchCalls    int
	RetrieveCalls []string
}

// Submitted records one Submit call.
type Submitted struct {
	Text         string
	PriorContext string
}

var _ ports.MemoryService = (*MockMemoryService)(nil)

func (m *MockMemoryService) Submit(ctx context.Context, text, priorContext string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Submitted = append(m.Submitted, Submitted{Text: text, PriorContext: priorContext})
	if m.SubmitErr != nil {
		return "", m.SubmitErr
	}
	return m.TaskID, nil
}

func (m *MockMemoryService) PollStatus(ctx context.Context, taskID string) (domain.TaskStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PollCalls++
	if m.PollErr != nil {
		return domain.TaskFailed, m.PollErr
	}
	if len(m.Statuses) == 0 {
		return domain.TaskPending, nil
	}
	i := min(m.PollCalls, len(m.Statuses)) - 1
	return m.Statuses[i], nil
}

func (m *MockMemoryService) FetchCategories(ctx context.Context) ([]domain.RemoteCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCalls++
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return m.Categories, nil
}

func (m *MockMemoryService) Retrieve(ctx context.Context, query string) (*domain.Retrieval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RetrieveCalls = append(m.RetrieveCalls, query)
	if m.RetrieveErr != nil {
		return nil, m.RetrieveErr
	}
	if m.Retrieval == nil {
		return &domain.Retrieval{}, nil
	}
	return m.Retrieval, nil
}

// SetCategories replaces the categories returned by FetchCategories.
func (m *MockMemoryService) SetCategories(categories ...domain.RemoteCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Categories = categories
}

// SetFetchErr replaces the error returned by FetchCategories.
func (m *MockMemoryService) SetFetchErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchErr = err
}
