package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Aloksingh622/orbit-server/internal/core"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.Cfg.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(c.id)).Msg("readPump closing")
		ctl.Orch.Disconnect(c.id)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("conn", string(c.id)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("readPump read error")
				return
			}
			ctl.handleSignal(c, data)
		}
	}
}

// handleSignal dispatches one inbound frame. A panic in a handler is
// contained here: the sender gets a generic error and every other
// connection keeps running.
func (ctl *SignalWSController) handleSignal(c core.SignalConnection, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "signal").Str("conn", string(c.ID())).Interface("panic", r).Msg("handler panic")
			sendError(c, "internal error")
		}
	}()

	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		sendError(c, "bad_payload")
		return
	}

	switch env.Type {
	case core.EventRegister:
		ctl.handleRegister(c, data)
	case core.EventOutgoingCall:
		ctl.handleOutgoingCall(c, data)
	case core.EventCallAccepted:
		ctl.handleCallAccepted(c, data)
	case core.EventCallRejected:
		ctl.handleCallRejected(c, data)
	case core.EventCancelCall:
		ctl.handleCancelCall(c, data)
	case core.EventCalleeReady:
		ctl.handleCalleeReady(c, data)
	case core.EventHangUp:
		ctl.handleHangUp(c, data)
	case core.EventWebRTCOffer:
		ctl.handleOffer(c, data)
	case core.EventWebRTCAnswer:
		ctl.handleAnswer(c, data)
	case core.EventWebRTCCandidate:
		ctl.handleCandidate(c, data)
	case core.EventJoinRandomPool:
		ctl.handleJoinPool(c, data)
	case core.EventLeaveRandomPool:
		ctl.handleLeavePool(c, data)
	case core.EventSkipPartner:
		ctl.handleSkipPartner(c, data)
	case core.EventPing:
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}

func sendJSON(c core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func sendError(c core.SignalConnection, reason string) {
	sendJSON(c, struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}{core.EventCallError, reason})
}
