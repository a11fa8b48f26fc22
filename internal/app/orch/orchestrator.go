package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/Aloksingh622/orbit-server/internal/app"
	"github.com/Aloksingh622/orbit-server/internal/core"
	"github.com/Aloksingh622/orbit-server/internal/domain"
)

// Orchestrator owns the shared coordination state and the cleanup
// ordering across it. Per-connection logic never touches the registry or
// pool except through here or through the fields it exposes.
type Orchestrator struct {
	Registry *app.Registry
	Pool     *app.Pool
	Limiter  *app.PoolRateLimiter
}

// Disconnect unwinds everything a dropped connection owned. The pool
// entry goes first (that also cancels its no-match timer), then the
// registry binding is resolved and removed; pairing cleanup keys on the
// user id, so resolution has to happen before the binding disappears.
// Safe to run again for an already-cleaned connection.
func (o *Orchestrator) Disconnect(id core.ConnID) {
	o.Pool.DropConn(id)

	uid, ok := o.Registry.UnregisterConn(id)
	if !ok {
		log.Info().Str("module", "orch").Str("conn", string(id)).Msg("disconnect of unregistered connection")
		return
	}
	o.Pool.ClearPairing(uid)
	log.Info().Str("module", "orch").Str("conn", string(id)).Str("user", string(uid)).Msg("disconnected")
}

// EndPairing clears any pairing either side is part of. Covers the odd
// state where the two ids no longer point at each other.
func (o *Orchestrator) EndPairing(a, b domain.UserID) {
	o.Pool.ClearPairing(a)
	o.Pool.ClearPairing(b)
}
