package ws

import "sync"

// PresenceRegistry maps a user id to that user's most recent live
// connection. Exactly one entry per tracked user; absence means no
// known connection. A distributed implementation can replace the
// in-memory one without touching the callers.
type PresenceRegistry interface {
	// Register records connID as the user's current connection,
	// overwriting any previous entry (last-connect-wins).
	Register(userID, connID string)
	// Release removes the user's entry only if it still points at
	// connID, so a late disconnect from a superseded connection never
	// evicts the newer one.
	Release(userID, connID string)
	Lookup(userID string) (string, bool)
}

type memoryPresence struct {
	mu     sync.RWMutex
	byUser map[string]string
}

func NewPresenceRegistry() PresenceRegistry {
	return &memoryPresence{byUser: make(map[string]string)}
}

func (p *memoryPresence) Register(userID, connID string) {
	p.mu.Lock()
	p.byUser[userID] = connID
	p.mu.Unlock()
}

func (p *memoryPresence) Release(userID, connID string) {
	p.mu.Lock()
	if p.byUser[userID] == connID {
		delete(p.byUser, userID)
	}
	p.mu.Unlock()
}

func (p *memoryPresence) Lookup(userID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	id, ok := p.byUser[userID]
	return id, ok
}
