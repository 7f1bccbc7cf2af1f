package ws

import (
	"sort"
	"sync"
)

type member struct {
	conn *clientConn
	seq  uint64 // join order, drives snapshot ordering
}

type room struct {
	members map[string]*member // conn id -> member
}

func newRoom() *room { return &room{members: map[string]*member{}} }

// Hub is the room membership index: per room the set of member
// connections, per connection the set of joined rooms. The two sides
// are mutated together under one lock so they can never disagree, and
// a room exists exactly as long as it has members.
type Hub struct {
	mu        sync.Mutex
	rooms     map[string]*room
	connRooms map[string]map[string]struct{}
	seq       uint64
}

func NewHub() *Hub {
	return &Hub{
		rooms:     make(map[string]*room),
		connRooms: make(map[string]map[string]struct{}),
	}
}

// Join adds c to the room (idempotent: a second join from the same
// connection leaves a single membership edge) and returns, computed
// inside the same critical section as the mutation, the other current
// members, the full member set and the ordered membership snapshot.
func (h *Hub) Join(roomID string, c *clientConn) (others, all []*clientConn, snapshot []ActiveUser) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[roomID]
	if !ok {
		r = newRoom()
		h.rooms[roomID] = r
	}
	if _, ok := r.members[c.id]; !ok {
		h.seq++
		r.members[c.id] = &member{conn: c, seq: h.seq}
		if _, ok := h.connRooms[c.id]; !ok {
			h.connRooms[c.id] = make(map[string]struct{})
		}
		h.connRooms[c.id][roomID] = struct{}{}
	}

	ordered := r.ordered()
	snapshot = make([]ActiveUser, 0, len(ordered))
	all = make([]*clientConn, 0, len(ordered))
	others = make([]*clientConn, 0, len(ordered)-1)
	for _, m := range ordered {
		all = append(all, m.conn)
		snapshot = append(snapshot, ActiveUser{
			UserID:   m.conn.identity.UserID,
			Username: m.conn.identity.Email,
		})
		if m.conn.id != c.id {
			others = append(others, m.conn)
		}
	}
	return others, all, snapshot
}

// Leave removes c from the room (no-op when absent) and returns the
// remaining members. An empty room is dropped from the index.
func (h *Hub) Leave(roomID string, c *clientConn) []*clientConn {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.leaveLocked(roomID, c.id)
}

// RemoveConn detaches the connection from every room it belongs to and
// returns, per room, the members left behind. Called once on transport
// close.
func (h *Hub) RemoveConn(c *clientConn) map[string][]*clientConn {
	h.mu.Lock()
	defer h.mu.Unlock()

	rooms, ok := h.connRooms[c.id]
	if !ok {
		return nil
	}
	remaining := make(map[string][]*clientConn, len(rooms))
	for roomID := range rooms {
		remaining[roomID] = h.leaveLocked(roomID, c.id)
	}
	return remaining
}

// Members returns the current member connections of a room.
func (h *Hub) Members(roomID string) []*clientConn {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]*clientConn, 0, len(r.members))
	for _, m := range r.ordered() {
		out = append(out, m.conn)
	}
	return out
}

// RoomCount reports how many rooms currently have members.
func (h *Hub) RoomCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

func (h *Hub) leaveLocked(roomID, connID string) []*clientConn {
	if rooms, ok := h.connRooms[connID]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(h.connRooms, connID)
		}
	}

	r, ok := h.rooms[roomID]
	if !ok {
		return nil
	}
	delete(r.members, connID)
	if len(r.members) == 0 {
		delete(h.rooms, roomID)
		return nil
	}

	out := make([]*clientConn, 0, len(r.members))
	for _, m := range r.ordered() {
		out = append(out, m.conn)
	}
	return out
}

func (r *room) ordered() []*member {
	out := make([]*member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}
