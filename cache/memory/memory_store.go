package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cruisedesk/sales-service/cache"
	"github.com/cruisedesk/sales-service/model"
)

// MemoryStore is an in-process session store and availability cache for
// tests and single-instance development runs.
type MemoryStore struct {
	mu           sync.RWMutex
	sessions     map[string]entry
	availability map[string]entry
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:     make(map[string]entry),
		availability: make(map[string]entry),
	}
}

func (m *MemoryStore) GetSession(_ context.Context, sessionID string) (*model.SalesSession, error) {
	m.mu.RLock()
	e, ok := m.sessions[sessionID]
	m.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		return nil, cache.ErrSessionNotFound
	}

	var session model.SalesSession
	if err := json.Unmarshal(e.data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (m *MemoryStore) SaveSession(_ context.Context, session *model.SalesSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.sessions[session.ID] = entry{data: data, expiresAt: expiry(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) DeleteSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetUnavailableCabins(_ context.Context, sailingID string) ([]string, bool, error) {
	m.mu.RLock()
	e, ok := m.availability[sailingID]
	m.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		return nil, false, nil
	}

	var cabinIDs []string
	if err := json.Unmarshal(e.data, &cabinIDs); err != nil {
		return nil, false, err
	}
	return cabinIDs, true, nil
}

func (m *MemoryStore) SetUnavailableCabins(_ context.Context, sailingID string, cabinIDs []string, ttl time.Duration) error {
	data, err := json.Marshal(cabinIDs)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.availability[sailingID] = entry{data: data, expiresAt: expiry(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) InvalidateUnavailableCabins(_ context.Context, sailingID string) error {
	m.mu.Lock()
	delete(m.availability, sailingID)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}
