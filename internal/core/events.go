package core

// Event names carried in the "type" field of every signal frame.
const (
	// client -> server
	EventRegister        = "register"
	EventOutgoingCall    = "outgoing-call"
	EventCallAccepted    = "call-accepted"
	EventCallRejected    = "call-rejected"
	EventCancelCall      = "cancel-call"
	EventCalleeReady     = "callee-ready"
	EventHangUp          = "hang-up"
	EventWebRTCOffer     = "webrtc-offer"
	EventWebRTCAnswer    = "webrtc-answer"
	EventWebRTCCandidate = "webrtc-candidate"
	EventJoinRandomPool  = "join-random-pool"
	EventLeaveRandomPool = "leave-random-pool"
	EventSkipPartner     = "skip-partner"
	EventPing            = "ping"

	// server -> client
	EventIncomingCall   = "incoming-call"
	EventCallError      = "call-error"
	EventCallCanceled   = "call-canceled"
	EventInitiateOffer  = "initiate-offer"
	EventCallEnded      = "call-ended"
	EventMatchFound     = "match-found"
	EventNoMatchFound   = "no-match-found"
	EventPartnerSkipped = "partner-skipped"
	EventPong           = "pong"
)
