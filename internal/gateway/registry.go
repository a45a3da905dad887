package gateway

import "sync"

// Registry maps user ids to their single live connection. A user has at
// most one entry; registering over an existing entry displaces it and the
// previous client is handed back to the caller for the kick.
type Registry struct {
	mu      sync.RWMutex
	clients map[int64]*Client
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[int64]*Client),
	}
}

// Register installs client as the connection for its user and returns
// the displaced client, if any.
func (r *Registry) Register(client *Client) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.clients[client.UserId]
	if prev == client {
		return nil
	}
	r.clients[client.UserId] = client
	return prev
}

// Unregister removes client only if it is still the registered
// connection for its user. A client displaced by a newer registration
// must not remove its successor, so the handle is compared, not the id.
func (r *Registry) Unregister(client *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.clients[client.UserId]
	if !exists || current != client {
		return false
	}
	delete(r.clients, client.UserId)
	return true
}

// Lookup returns the live connection for userId, or nil
func (r *Registry) Lookup(userId int64) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[userId]
}

// OnlineIds returns the ids of all connected users
func (r *Registry) OnlineIds() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.clients))
	for id := range r.clients {
		ids = append(ids, id)
	}
	return ids
}

// Snapshot returns a copy of all live connections
func (r *Registry) Snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	return clients
}

// Count returns the number of connected users
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
