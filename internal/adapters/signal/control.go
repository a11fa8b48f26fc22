package signal

import "github.com/Aloksingh622/orbit-server/internal/core"

func (ctl *SignalWSController) handlePing(c core.SignalConnection) {
	sendJSON(c, struct {
		Type string `json:"type"`
	}{core.EventPong})
}
