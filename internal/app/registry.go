package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Aloksingh622/orbit-server/internal/core"
	"github.com/Aloksingh622/orbit-server/internal/domain"
)

// Registry binds each registered user to exactly one live connection.
// Disconnects are reported by connection id, so a reverse index is kept.
type Registry struct {
	mu     sync.RWMutex
	byUser map[domain.UserID]core.SignalConnection
	byConn map[core.ConnID]domain.UserID
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[domain.UserID]core.SignalConnection),
		byConn: make(map[core.ConnID]domain.UserID),
	}
}

// Register binds uid to conn, superseding any prior binding for uid.
// Last write wins; a stale connection keeps running until it drops on
// its own, but it can no longer be addressed.
func (r *Registry) Register(uid domain.UserID, conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byUser[uid]; ok && prev.ID() != conn.ID() {
		delete(r.byConn, prev.ID())
		log.Info().Str("module", "app.registry").Str("user", string(uid)).Str("stale_conn", string(prev.ID())).Msg("superseded binding")
	}
	if prevUID, ok := r.byConn[conn.ID()]; ok && prevUID != uid {
		delete(r.byUser, prevUID)
	}
	r.byUser[uid] = conn
	r.byConn[conn.ID()] = uid
	log.Info().Str("module", "app.registry").Str("user", string(uid)).Str("conn", string(conn.ID())).Msg("registered")
}

// Lookup resolves a destination. Absence is not an error: it is the
// normal "recipient offline" signal.
func (r *Registry) Lookup(uid domain.UserID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.byUser[uid]
	return conn, ok
}

// UserOf resolves the user currently bound to a connection, if any.
func (r *Registry) UserOf(id core.ConnID) (domain.UserID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	uid, ok := r.byConn[id]
	return uid, ok
}

// UnregisterConn removes whichever user is bound to this connection and
// returns it, so callers can key further cleanup on the user id.
func (r *Registry) UnregisterConn(id core.ConnID) (domain.UserID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	uid, ok := r.byConn[id]
	if !ok {
		return "", false
	}
	delete(r.byConn, id)
	// Only drop the user binding if it still points at this connection;
	// a re-register may already have moved it.
	if cur, ok := r.byUser[uid]; ok && cur.ID() == id {
		delete(r.byUser, uid)
	}
	log.Info().Str("module", "app.registry").Str("user", string(uid)).Str("conn", string(id)).Msg("unregistered")
	return uid, true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
