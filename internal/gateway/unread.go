package gateway

import "sync"

// UnreadStore tracks per-conversation unread counters in memory, keyed
// owner -> peer. It is a fast-path cache over the durable counts in the
// messages table; Replace reconciles it from a database snapshot and
// always overwrites, never merges.
type UnreadStore struct {
	mu     sync.RWMutex
	counts map[int64]map[int64]int
}

// NewUnreadStore creates an empty UnreadStore
func NewUnreadStore() *UnreadStore {
	return &UnreadStore{
		counts: make(map[int64]map[int64]int),
	}
}

// Increment bumps owner's counter for messages from peer and returns the
// new value.
func (s *UnreadStore) Increment(owner, peer int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	byPeer, exists := s.counts[owner]
	if !exists {
		byPeer = make(map[int64]int)
		s.counts[owner] = byPeer
	}
	byPeer[peer]++
	return byPeer[peer]
}

// Reset zeroes owner's counter for peer
func (s *UnreadStore) Reset(owner, peer int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if byPeer, exists := s.counts[owner]; exists {
		delete(byPeer, peer)
		if len(byPeer) == 0 {
			delete(s.counts, owner)
		}
	}
}

// Replace overwrites all of owner's counters with a durable snapshot.
// Counters absent from the snapshot are dropped.
func (s *UnreadStore) Replace(owner int64, counts map[int64]int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(counts) == 0 {
		delete(s.counts, owner)
		return
	}

	byPeer := make(map[int64]int, len(counts))
	for peer, n := range counts {
		if n > 0 {
			byPeer[peer] = n
		}
	}
	s.counts[owner] = byPeer
}

// Get returns owner's counter for peer
func (s *UnreadStore) Get(owner, peer int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[owner][peer]
}

// Snapshot returns a copy of owner's counters
func (s *UnreadStore) Snapshot(owner int64) map[int64]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byPeer := s.counts[owner]
	out := make(map[int64]int, len(byPeer))
	for peer, n := range byPeer {
		out[peer] = n
	}
	return out
}

// Drop discards all of owner's counters
func (s *UnreadStore) Drop(owner int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, owner)
}
