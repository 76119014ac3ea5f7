// Package runtime handles event propagation between the store and the
// connected transports. It orchestrates the system without containing
// business logic or domain rules.
package runtime

import (
	"sync"

	"charette-lab/contract"
)

type Set map[string]struct{}

// GroupKey names a broadcast group. An empty roomID addresses the whole
// session, otherwise one breakout room of that session.
func GroupKey(sessionID, roomID string) string {
	if roomID == "" {
		return sessionID
	}
	return sessionID + "/" + roomID
}

// Registry tracks live connections and their broadcast groups.
type Registry struct {
	mu     sync.RWMutex
	sinks  map[string]contract.EventSink // map connection -> Sink
	groups map[string]Set                // map group -> connections
}

func NewRegistry() *Registry {
	return &Registry{
		sinks:  make(map[string]contract.EventSink),
		groups: make(map[string]Set),
	}
}

// SinksFor retrieves all active communication channels for a group.
// It performs a two-step lookup:
// 1. Identifies connection IDs associated with the group.
// 2. Resolves those IDs into actual EventSinks using the sinks map.
//
// This decoupled approach ensures that even if a connection joined several
// breakout rooms, its Sink is managed in a single place.
// Returns nil if the group doesn't exist or has no members.
func (r *Registry) SinksFor(group string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.groups[group]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for connID := range members {
		if sink, exists := r.sinks[connID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a connection's sink and assigns it to a group.
// Calling it again for the same connection and group is a no-op, so a stale
// client re-sending a join does no harm.
func (r *Registry) Subscribe(connID, group string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sinks[connID] = sink
	r.addToGroup(connID, group)
}

// JoinGroup adds an already-subscribed connection to an extra group.
func (r *Registry) JoinGroup(connID, group string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sinks[connID]; !ok {
		return
	}
	r.addToGroup(connID, group)
}

func (r *Registry) addToGroup(connID, group string) {
	if _, ok := r.groups[group]; !ok {
		r.groups[group] = make(Set)
	}
	r.groups[group][connID] = struct{}{}
}

func (r *Registry) LeaveGroup(connID, group string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeFromGroup(connID, group)
}

// Unsubscribe removes a connection from the registry and every group it
// joined. Empty groups are dropped so the map does not leak over time.
func (r *Registry) Unsubscribe(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sinks, connID)
	for group := range r.groups {
		r.removeFromGroup(connID, group)
	}
}

func (r *Registry) removeFromGroup(connID, group string) {
	members, ok := r.groups[group]
	if !ok {
		return
	}
	delete(members, connID)

	// If no one is left in the group, remove the entry entirely
	if len(members) == 0 {
		delete(r.groups, group)
	}
}
