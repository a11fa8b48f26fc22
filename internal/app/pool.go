package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Aloksingh622/orbit-server/internal/core"
	"github.com/Aloksingh622/orbit-server/internal/domain"
)

// PoolEvents receives matchmaking outcomes for delivery to clients.
// Implemented by the signal adapter; the pool never marshals frames.
type PoolEvents interface {
	MatchFound(conn core.SignalConnection, partner domain.UserID, isInitiator bool)
	NoMatchFound(conn core.SignalConnection)
}

type waitingEntry struct {
	user  domain.UserID
	conn  core.SignalConnection
	timer *time.Timer
}

// Pool is the anonymous-matchmaking waiting list plus the set of active
// pairings. All state is owned by one mutex; the no-match timer callback
// re-acquires it, so whichever of {drain, timer, leave} claims an entry
// first wins and the others see it gone.
type Pool struct {
	mu      sync.Mutex
	waiting []*waitingEntry
	matches map[domain.UserID]domain.UserID
	timeout time.Duration
	events  PoolEvents
}

func NewPool(timeout time.Duration, events PoolEvents) *Pool {
	return &Pool{
		matches: make(map[domain.UserID]domain.UserID),
		timeout: timeout,
		events:  events,
	}
}

// Join enqueues uid for matching. It is a silent no-op if uid is already
// matched (must skip or leave first) or already waiting. A timer is armed
// only for a sole occupant: anyone else is either paired immediately or
// queued behind someone who already carries the timer.
func (p *Pool) Join(uid domain.UserID, conn core.SignalConnection) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if partner, ok := p.matches[uid]; ok {
		log.Info().Str("module", "app.pool").Str("user", string(uid)).Str("partner", string(partner)).Msg("join ignored, already matched")
		return
	}
	if p.indexOfLocked(uid) >= 0 {
		return
	}

	e := &waitingEntry{user: uid, conn: conn}
	p.waiting = append(p.waiting, e)
	if len(p.waiting) == 1 {
		e.timer = time.AfterFunc(p.timeout, func() { p.expire(e) })
	}
	log.Info().Str("module", "app.pool").Str("user", string(uid)).Int("waiting", len(p.waiting)).Msg("joined pool")

	p.drainLocked()
}

// drainLocked pairs waiting users two at a time in strict join order.
func (p *Pool) drainLocked() {
	for len(p.waiting) >= 2 {
		a, b := p.waiting[0], p.waiting[1]
		p.waiting = p.waiting[2:]
		stopTimer(a)
		stopTimer(b)

		if _, ok := p.matches[a.user]; ok {
			continue
		}
		if _, ok := p.matches[b.user]; ok {
			continue
		}

		p.matches[a.user] = b.user
		p.matches[b.user] = a.user

		// The greater user id initiates; deterministic for both sides.
		aInitiates := a.user > b.user

		log.Info().Str("module", "app.pool").
			Str("user1", string(a.user)).Str("user2", string(b.user)).
			Bool("user1_initiates", aInitiates).Msg("match found")

		p.events.MatchFound(a.conn, b.user, aInitiates)
		p.events.MatchFound(b.conn, a.user, !aInitiates)
	}
}

// expire fires when a sole occupant was never matched. The entry may have
// been claimed by a pairing or a leave in the meantime; then this is a no-op.
func (p *Pool) expire(e *waitingEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, w := range p.waiting {
		if w == e {
			p.waiting = append(p.waiting[:i], p.waiting[i+1:]...)
			log.Info().Str("module", "app.pool").Str("user", string(e.user)).Msg("no match before timeout")
			p.events.NoMatchFound(e.conn)
			return
		}
	}
}

// Leave removes uid from the waiting list, if present. It does not touch
// an active pairing; flows that need that call ClearPairing as well.
func (p *Pool) Leave(uid domain.UserID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.removeLocked(func(w *waitingEntry) bool { return w.user == uid })
}

// DropConn removes any waiting entry owned by this connection. Used on
// disconnect, which is reported by connection id rather than by user.
func (p *Pool) DropConn(id core.ConnID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.removeLocked(func(w *waitingEntry) bool { return w.conn.ID() == id })
}

func (p *Pool) removeLocked(match func(*waitingEntry) bool) bool {
	for i, w := range p.waiting {
		if match(w) {
			stopTimer(w)
			p.waiting = append(p.waiting[:i], p.waiting[i+1:]...)
			log.Info().Str("module", "app.pool").Str("user", string(w.user)).Msg("left pool")
			return true
		}
	}
	return false
}

// ClearPairing removes the pairing for uid in both directions. Idempotent.
func (p *Pool) ClearPairing(uid domain.UserID) (domain.UserID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	partner, ok := p.matches[uid]
	if !ok {
		return "", false
	}
	delete(p.matches, uid)
	delete(p.matches, partner)
	log.Info().Str("module", "app.pool").Str("user", string(uid)).Str("partner", string(partner)).Msg("cleared pairing")
	return partner, true
}

// PartnerOf reports the current pairing for uid, if any.
func (p *Pool) PartnerOf(uid domain.UserID) (domain.UserID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	partner, ok := p.matches[uid]
	return partner, ok
}

// Waiting reports whether uid is currently in the waiting list.
func (p *Pool) Waiting(uid domain.UserID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.indexOfLocked(uid) >= 0
}

func (p *Pool) WaitingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.waiting)
}

func (p *Pool) indexOfLocked(uid domain.UserID) int {
	for i, w := range p.waiting {
		if w.user == uid {
			return i
		}
	}
	return -1
}

func stopTimer(e *waitingEntry) {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
