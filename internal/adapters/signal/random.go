package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/Aloksingh622/orbit-server/internal/core"
	"github.com/Aloksingh622/orbit-server/internal/domain"
)

func (ctl *SignalWSController) handleJoinPool(c core.SignalConnection, data []byte) {
	var p struct {
		Type   string        `json:"type"`
		UserID domain.UserID `json:"userId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join-random-pool payload")
		sendError(c, "bad_payload")
		return
	}
	if err := p.UserID.Validate(); err != nil {
		sendError(c, err.Error())
		return
	}
	if ctl.Orch.Limiter != nil && !ctl.Orch.Limiter.Allow(p.UserID) {
		log.Warn().Str("module", "signal").Str("user", string(p.UserID)).Msg("pool join rate limited")
		sendError(c, "too many matchmaking attempts")
		return
	}
	ctl.Orch.Pool.Join(p.UserID, c)
}

func (ctl *SignalWSController) handleLeavePool(c core.SignalConnection, data []byte) {
	var p struct {
		Type   string        `json:"type"`
		UserID domain.UserID `json:"userId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave-random-pool payload")
		sendError(c, "bad_payload")
		return
	}
	if err := p.UserID.Validate(); err != nil {
		sendError(c, err.Error())
		return
	}
	ctl.Orch.Pool.Leave(p.UserID)
	ctl.Orch.Pool.ClearPairing(p.UserID)
}

func (ctl *SignalWSController) handleSkipPartner(c core.SignalConnection, data []byte) {
	var p struct {
		Type string        `json:"type"`
		To   domain.UserID `json:"to"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad skip-partner payload")
		sendError(c, "bad_payload")
		return
	}
	if dest, ok := ctl.Orch.Registry.Lookup(p.To); ok {
		sendJSON(dest, struct {
			Type string `json:"type"`
		}{core.EventPartnerSkipped})
	}

	// Neither side is re-enqueued; each client rejoins explicitly if it
	// wants another match.
	if uid, ok := ctl.Orch.Registry.UserOf(c.ID()); ok {
		log.Info().Str("module", "signal").Str("user", string(uid)).Str("to", string(p.To)).Msg("partner skipped")
		ctl.Orch.EndPairing(uid, p.To)
	}
}
