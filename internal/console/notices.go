package console

import (
	"context"
	"sync"
	"time"

	"github.com/ayush/user-console/internal/models"
)

// NoticeStore keeps the transient form-message banner of each session.
// A notice is gone once its ttl has elapsed.
type NoticeStore interface {
	Set(ctx context.Context, sessionID string, n models.Notice, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (models.Notice, error)
}

type memoryNotice struct {
	notice  models.Notice
	expires time.Time
}

// MemoryNotices is an in-process NoticeStore used when Redis is not configured.
type MemoryNotices struct {
	mu      sync.Mutex
	notices map[string]memoryNotice
	now     func() time.Time
}

func NewMemoryNotices() *MemoryNotices {
	return &MemoryNotices{notices: make(map[string]memoryNotice), now: time.Now}
}

func (m *MemoryNotices) Set(_ context.Context, sessionID string, n models.Notice, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, entry := range m.notices {
		if !now.Before(entry.expires) {
			delete(m.notices, id)
		}
	}
	m.notices[sessionID] = memoryNotice{notice: n, expires: now.Add(ttl)}
	return nil
}

func (m *MemoryNotices) Get(_ context.Context, sessionID string) (models.Notice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.notices[sessionID]
	if !ok {
		return models.Notice{}, nil
	}
	if !m.now().Before(entry.expires) {
		delete(m.notices, sessionID)
		return models.Notice{}, nil
	}
	return entry.notice, nil
}
