package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/Aloksingh622/orbit-server/internal/core"
	"github.com/Aloksingh622/orbit-server/internal/domain"
)

func (ctl *SignalWSController) handleRegister(c core.SignalConnection, data []byte) {
	var p struct {
		Type   string        `json:"type"`
		UserID domain.UserID `json:"userId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad register payload")
		sendError(c, "bad_payload")
		return
	}
	if err := p.UserID.Validate(); err != nil {
		sendError(c, err.Error())
		return
	}
	ctl.Orch.Registry.Register(p.UserID, c)
}

func (ctl *SignalWSController) handleOutgoingCall(c core.SignalConnection, data []byte) {
	var p struct {
		Type     string          `json:"type"`
		From     domain.UserID   `json:"from"`
		To       domain.UserID   `json:"to"`
		CallKind domain.CallKind `json:"callKind"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad outgoing-call payload")
		sendError(c, "bad_payload")
		return
	}
	if p.From == "" || p.To == "" {
		sendError(c, "missing from/to")
		return
	}

	dest, ok := ctl.Orch.Registry.Lookup(p.To)
	if !ok {
		log.Info().Str("module", "signal").Str("from", string(p.From)).Str("to", string(p.To)).Msg("callee offline")
		sendError(c, "user is not online")
		return
	}

	log.Info().Str("module", "signal").Str("from", string(p.From)).Str("to", string(p.To)).Str("kind", string(p.CallKind.OrDefault())).Msg("outgoing call")
	sendJSON(dest, struct {
		Type     string          `json:"type"`
		From     domain.UserID   `json:"from"`
		CallKind domain.CallKind `json:"callKind"`
	}{core.EventIncomingCall, p.From, p.CallKind.OrDefault()})
}

func (ctl *SignalWSController) handleCallAccepted(c core.SignalConnection, data []byte) {
	var p struct {
		Type     string          `json:"type"`
		From     domain.UserID   `json:"from"`
		To       domain.UserID   `json:"to"`
		CallKind domain.CallKind `json:"callKind"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad call-accepted payload")
		sendError(c, "bad_payload")
		return
	}

	// The call is already underway; if the caller vanished there is
	// nothing useful to tell the acceptor, so an absent destination is
	// a silent drop from here on.
	dest, ok := ctl.Orch.Registry.Lookup(p.To)
	if !ok {
		return
	}
	log.Info().Str("module", "signal").Str("from", string(p.From)).Str("to", string(p.To)).Msg("call accepted")
	sendJSON(dest, struct {
		Type     string          `json:"type"`
		From     domain.UserID   `json:"from"`
		CallKind domain.CallKind `json:"callKind"`
	}{core.EventCallAccepted, p.From, p.CallKind.OrDefault()})
}

func (ctl *SignalWSController) handleCallRejected(c core.SignalConnection, data []byte) {
	var p struct {
		Type string        `json:"type"`
		From domain.UserID `json:"from"`
		To   domain.UserID `json:"to"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad call-rejected payload")
		sendError(c, "bad_payload")
		return
	}
	dest, ok := ctl.Orch.Registry.Lookup(p.To)
	if !ok {
		return
	}
	log.Info().Str("module", "signal").Str("from", string(p.From)).Str("to", string(p.To)).Msg("call rejected")
	sendJSON(dest, struct {
		Type string        `json:"type"`
		From domain.UserID `json:"from"`
	}{core.EventCallRejected, p.From})
}

func (ctl *SignalWSController) handleCancelCall(c core.SignalConnection, data []byte) {
	var p struct {
		Type string        `json:"type"`
		To   domain.UserID `json:"to"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad cancel-call payload")
		sendError(c, "bad_payload")
		return
	}
	dest, ok := ctl.Orch.Registry.Lookup(p.To)
	if !ok {
		return
	}
	log.Info().Str("module", "signal").Str("to", string(p.To)).Msg("call canceled")
	sendJSON(dest, struct {
		Type string `json:"type"`
	}{core.EventCallCanceled})
}

// handleCalleeReady sequences negotiation start: the responder announces
// it is prepared to receive an offer, and only then is the initiator told
// to produce one.
func (ctl *SignalWSController) handleCalleeReady(c core.SignalConnection, data []byte) {
	var p struct {
		Type string        `json:"type"`
		To   domain.UserID `json:"to"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad callee-ready payload")
		sendError(c, "bad_payload")
		return
	}
	dest, ok := ctl.Orch.Registry.Lookup(p.To)
	if !ok {
		return
	}
	sendJSON(dest, struct {
		Type string `json:"type"`
	}{core.EventInitiateOffer})
}

func (ctl *SignalWSController) handleHangUp(c core.SignalConnection, data []byte) {
	var p struct {
		Type string        `json:"type"`
		To   domain.UserID `json:"to"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad hang-up payload")
		sendError(c, "bad_payload")
		return
	}
	if dest, ok := ctl.Orch.Registry.Lookup(p.To); ok {
		sendJSON(dest, struct {
			Type string `json:"type"`
		}{core.EventCallEnded})
	}

	if uid, ok := ctl.Orch.Registry.UserOf(c.ID()); ok {
		log.Info().Str("module", "signal").Str("user", string(uid)).Str("to", string(p.To)).Msg("hang up")
		ctl.Orch.EndPairing(uid, p.To)
	}
}
