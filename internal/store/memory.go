package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"bliq/internal/ledger"
)

// MemoryStore keeps snapshots in process memory. Snapshots are stored
// encoded so that callers never share state with the store.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]memorySnapshot
	failSaves bool
}

type memorySnapshot struct {
	data    []byte
	version int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]memorySnapshot)}
}

// Load implements SnapshotStore.
func (s *MemoryStore) Load(_ context.Context, userID string) (*ledger.State, int64, error) {
	s.mu.RLock()
	snap, ok := s.snapshots[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, 0, ErrSnapshotNotFound
	}

	state := ledger.NewState()
	if err := json.Unmarshal(snap.data, state); err != nil {
		return nil, 0, fmt.Errorf("decode snapshot of user %s: %w", userID, err)
	}
	return state, snap.version, nil
}

// Save implements SnapshotStore.
func (s *MemoryStore) Save(_ context.Context, userID string, state *ledger.State) (int64, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return 0, fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSaves {
		return 0, fmt.Errorf("save snapshot: store unavailable")
	}

	snap := s.snapshots[userID]
	snap.data = data
	snap.version++
	s.snapshots[userID] = snap
	return snap.version, nil
}

// SetFailSaves makes every subsequent Save fail until reset.
func (s *MemoryStore) SetFailSaves(fail bool) {
	s.mu.Lock()
	s.failSaves = fail
	s.mu.Unlock()
}
