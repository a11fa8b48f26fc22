package domain

// CallKind tags an invitation as audio-only or audio+video.
type CallKind string

const (
	CallVoice CallKind = "voice"
	CallVideo CallKind = "video"
)

// OrDefault keeps the wire behavior of clients that omit the kind.
func (k CallKind) OrDefault() CallKind {
	if k == "" {
		return CallVoice
	}
	return k
}
