package signal

import (
	"github.com/Aloksingh622/orbit-server/internal/core"
	"github.com/Aloksingh622/orbit-server/internal/domain"
)

// PoolNotifier translates matchmaking outcomes into wire frames. It is
// the pool's only path to a client, which keeps marshaling out of the
// app layer.
type PoolNotifier struct{}

func (PoolNotifier) MatchFound(conn core.SignalConnection, partner domain.UserID, isInitiator bool) {
	sendJSON(conn, struct {
		Type        string        `json:"type"`
		PartnerID   domain.UserID `json:"partnerId"`
		IsInitiator bool          `json:"isInitiator"`
	}{core.EventMatchFound, partner, isInitiator})
}

func (PoolNotifier) NoMatchFound(conn core.SignalConnection) {
	sendJSON(conn, struct {
		Type string `json:"type"`
	}{core.EventNoMatchFound})
}
