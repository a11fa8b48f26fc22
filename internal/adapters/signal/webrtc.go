package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/Aloksingh622/orbit-server/internal/core"
	"github.com/Aloksingh622/orbit-server/internal/domain"
)

// The SDP and ICE payloads below are relayed verbatim; this server never
// parses them.

func (ctl *SignalWSController) handleOffer(c core.SignalConnection, data []byte) {
	var p struct {
		Type  string          `json:"type"`
		To    domain.UserID   `json:"to"`
		From  domain.UserID   `json:"from"`
		Offer json.RawMessage `json:"offer"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad offer payload")
		sendError(c, "bad_payload")
		return
	}
	dest, ok := ctl.Orch.Registry.Lookup(p.To)
	if !ok {
		return
	}
	log.Debug().Str("module", "signal").Str("from", string(p.From)).Str("to", string(p.To)).Int("offer_bytes", len(p.Offer)).Msg("relay offer")
	sendJSON(dest, struct {
		Type  string          `json:"type"`
		From  domain.UserID   `json:"from"`
		Offer json.RawMessage `json:"offer"`
	}{core.EventWebRTCOffer, p.From, p.Offer})
}

func (ctl *SignalWSController) handleAnswer(c core.SignalConnection, data []byte) {
	var p struct {
		Type   string          `json:"type"`
		To     domain.UserID   `json:"to"`
		Answer json.RawMessage `json:"answer"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad answer payload")
		sendError(c, "bad_payload")
		return
	}
	dest, ok := ctl.Orch.Registry.Lookup(p.To)
	if !ok {
		return
	}
	log.Debug().Str("module", "signal").Str("to", string(p.To)).Int("answer_bytes", len(p.Answer)).Msg("relay answer")
	sendJSON(dest, struct {
		Type   string          `json:"type"`
		Answer json.RawMessage `json:"answer"`
	}{core.EventWebRTCAnswer, p.Answer})
}

// handleCandidate relays trickle-ICE candidates. They arrive many times
// per call, so they stay out of the logs.
func (ctl *SignalWSController) handleCandidate(c core.SignalConnection, data []byte) {
	var p struct {
		Type      string          `json:"type"`
		To        domain.UserID   `json:"to"`
		Candidate json.RawMessage `json:"candidate"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad candidate payload")
		sendError(c, "bad_payload")
		return
	}
	dest, ok := ctl.Orch.Registry.Lookup(p.To)
	if !ok {
		return
	}
	sendJSON(dest, struct {
		Type      string          `json:"type"`
		Candidate json.RawMessage `json:"candidate"`
	}{core.EventWebRTCCandidate, p.Candidate})
}
