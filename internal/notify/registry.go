// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package notify

import (
	"sort"
	"sync"

	"github.com/nvoronin/taskboard/internal/logging"
	"github.com/nvoronin/taskboard/internal/metrics"
)

// Registry tracks the open websocket connections per user. A user may hold
// any number of simultaneous connections; each delivery goes to all of them.
//
// The mutex only guards the map. Payloads are handed to each client's
// buffered send channel, never written to a socket while the lock is held.
type Registry struct {
	mu    sync.Mutex
	conns map[int64]map[*Client]struct{}
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[int64]map[*Client]struct{}),
	}
}

// Join registers a connection for a user. Joining the same connection twice
// is a no-op.
func (r *Registry) Join(userID int64, c *Client) {
	r.mu.Lock()
	set, ok := r.conns[userID]
	if !ok {
		set = make(map[*Client]struct{})
		r.conns[userID] = set
	}
	set[c] = struct{}{}
	total := len(set)
	r.mu.Unlock()

	logging.Debug().
		Int64("user_id", userID).
		Int("user_connections", total).
		Msg("websocket connection joined")
}

// Leave removes a connection for a user. Leaving a connection that was
// never joined, or was already removed, is a silent no-op. The user's entry
// is dropped entirely once its last connection leaves.
func (r *Registry) Leave(userID int64, c *Client) {
	r.mu.Lock()
	set, ok := r.conns[userID]
	if ok {
		delete(set, c)
		if len(set) == 0 {
			delete(r.conns, userID)
		}
	}
	r.mu.Unlock()

	if ok {
		logging.Debug().Int64("user_id", userID).Msg("websocket connection left")
	}
}

// Deliver enqueues the payload on every connection the user currently
// holds. A connection whose buffer is full is evicted and closed; the
// remaining connections are unaffected. Delivering to a user with no
// connections drops the payload silently.
func (r *Registry) Deliver(userID int64, payload []byte) {
	r.mu.Lock()
	set := r.conns[userID]
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	r.mu.Unlock()

	if len(clients) == 0 {
		metrics.RecordNotificationDropped("no_connections")
		return
	}

	// Stable order keeps multi-connection delivery reproducible.
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, c := range clients {
		if c.enqueue(payload) {
			metrics.NotificationsDelivered.Inc()
			continue
		}
		metrics.RecordNotificationDropped("slow_consumer")
		logging.Warn().
			Int64("user_id", userID).
			Uint64("conn_id", c.id).
			Msg("send buffer full, evicting connection")
		c.close()
	}
}

// ConnectionCount reports the number of open connections for a user.
func (r *Registry) ConnectionCount(userID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns[userID])
}

// CloseAll closes every registered connection. Called on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	var clients []*Client
	for _, set := range r.conns {
		for c := range set {
			clients = append(clients, c)
		}
	}
	r.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}
