package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded benchmark run.
type Entry struct {
	ID          uuid.UUID      `json:"id"`
	StartedAt   time.Time      `json:"started_at"`
	DurationMs  float64        `json:"duration_ms"`
	Dialect     string         `json:"dialect"`
	Query       string         `json:"query"`
	Parallel    bool           `json:"parallel"`
	Concurrency int            `json:"concurrency"`
	SamplerMode string         `json:"sampler_mode"`
	Error       string         `json:"error,omitempty"`
	Backends    []BackendEntry `json:"backends,omitempty"`
}

type BackendEntry struct {
	Backend       string  `json:"backend"`
	Query         string  `json:"query,omitempty"`
	ExecutionTime float64 `json:"execution_time"`
	CPUUsage      float64 `json:"cpu_usage"`
	MemoryUsage   int64   `json:"memory_usage"`
	Attempts      int     `json:"attempts"`
	Failed        int     `json:"failed"`
	Error         string  `json:"error,omitempty"`
}

type Store interface {
	Save(ctx context.Context, e Entry) error
	// Recent returns up to size entries, newest first.
	Recent(ctx context.Context, size int) ([]Entry, error)
}

const DefaultMemoryCapacity = 256

// Memory keeps the most recent entries in process.
type Memory struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &Memory{capacity: capacity}
}

func (m *Memory) Save(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, e)
	if over := len(m.entries) - m.capacity; over > 0 {
		m.entries = append([]Entry(nil), m.entries[over:]...)
	}
	return nil
}

func (m *Memory) Recent(_ context.Context, size int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if size <= 0 || size > len(m.entries) {
		size = len(m.entries)
	}
	out := make([]Entry, 0, size)
	for i := len(m.entries) - 1; i >= 0 && len(out) < size; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

var _ Store = (*Memory)(nil)
