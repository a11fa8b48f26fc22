package app

import (
	"sync"
	"testing"
	"time"

	"github.com/Aloksingh622/orbit-server/internal/core"
	"github.com/Aloksingh622/orbit-server/internal/domain"
)

type matchNotice struct {
	conn        core.ConnID
	partner     domain.UserID
	isInitiator bool
}

type recordingEvents struct {
	mu      sync.Mutex
	matches []matchNotice
	noMatch []core.ConnID
}

func (r *recordingEvents) MatchFound(conn core.SignalConnection, partner domain.UserID, isInitiator bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches = append(r.matches, matchNotice{conn: conn.ID(), partner: partner, isInitiator: isInitiator})
}

func (r *recordingEvents) NoMatchFound(conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.noMatch = append(r.noMatch, conn.ID())
}

func (r *recordingEvents) matchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matches)
}

func (r *recordingEvents) noMatchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.noMatch)
}

func newTestPool(timeout time.Duration) (*Pool, *recordingEvents) {
	ev := &recordingEvents{}
	return NewPool(timeout, ev), ev
}

func TestPool_PairsTwoWaiters(t *testing.T) {
	p, ev := newTestPool(time.Minute)

	p.Join("u1", newFakeConn("c1"))
	if got := ev.matchCount(); got != 0 {
		t.Fatalf("matches after first join = %d, want 0", got)
	}
	p.Join("u2", newFakeConn("c2"))

	if got := ev.matchCount(); got != 2 {
		t.Fatalf("matches after second join = %d, want 2", got)
	}
	if ev.matches[0].partner != "u2" || ev.matches[1].partner != "u1" {
		t.Errorf("partners = %q, %q, want u2, u1", ev.matches[0].partner, ev.matches[1].partner)
	}
	if p.WaitingCount() != 0 {
		t.Errorf("WaitingCount() = %d, want 0", p.WaitingCount())
	}
	if partner, ok := p.PartnerOf("u1"); !ok || partner != "u2" {
		t.Errorf("PartnerOf(u1) = %q, %v, want u2, true", partner, ok)
	}
	if partner, ok := p.PartnerOf("u2"); !ok || partner != "u1" {
		t.Errorf("PartnerOf(u2) = %q, %v, want u1, true", partner, ok)
	}
}

func TestPool_FIFOOrder(t *testing.T) {
	p, ev := newTestPool(time.Minute)

	// a joins alone, then c and d arrive; the first pairing must be (a, c),
	// never (a, d) or (c, d).
	p.Join("a", newFakeConn("ca"))
	p.Join("c", newFakeConn("cc"))
	p.Join("d", newFakeConn("cd"))

	if got := ev.matchCount(); got != 2 {
		t.Fatalf("matches = %d, want 2", got)
	}
	if ev.matches[0].partner != "c" {
		t.Errorf("first match partner for a = %q, want c", ev.matches[0].partner)
	}
	if !p.Waiting("d") {
		t.Errorf("Waiting(d) = false, want true (d is third in line)")
	}
}

func TestPool_InitiatorIsGreaterID(t *testing.T) {
	for _, order := range [][2]domain.UserID{{"u1", "u2"}, {"u2", "u1"}} {
		p, ev := newTestPool(time.Minute)
		p.Join(order[0], newFakeConn("c-"+string(order[0])))
		p.Join(order[1], newFakeConn("c-"+string(order[1])))

		initiators := 0
		for _, m := range ev.matches {
			if m.isInitiator {
				initiators++
				// the initiator's partner is the lesser id
				if m.partner != "u1" {
					t.Errorf("join order %v: initiator partner = %q, want u1", order, m.partner)
				}
			}
		}
		if initiators != 1 {
			t.Errorf("join order %v: initiators = %d, want exactly 1", order, initiators)
		}
	}
}

func TestPool_DuplicateJoinIsNoop(t *testing.T) {
	p, ev := newTestPool(time.Minute)
	conn := newFakeConn("c1")

	p.Join("u1", conn)
	p.Join("u1", conn)

	if p.WaitingCount() != 1 {
		t.Fatalf("WaitingCount() = %d, want 1", p.WaitingCount())
	}
	if ev.matchCount() != 0 {
		t.Errorf("matches = %d, want 0", ev.matchCount())
	}
}

func TestPool_MatchedUserCannotRejoin(t *testing.T) {
	p, ev := newTestPool(time.Minute)
	p.Join("u1", newFakeConn("c1"))
	p.Join("u2", newFakeConn("c2"))

	p.Join("u1", newFakeConn("c1"))
	if p.Waiting("u1") {
		t.Fatalf("Waiting(u1) = true, want false while u1 is matched")
	}
	if got := ev.matchCount(); got != 2 {
		t.Errorf("matches = %d, want 2 (no re-pairing)", got)
	}
}

func TestPool_NoMatchTimeout(t *testing.T) {
	p, ev := newTestPool(30 * time.Millisecond)
	p.Join("u1", newFakeConn("c1"))

	time.Sleep(80 * time.Millisecond)

	if got := ev.noMatchCount(); got != 1 {
		t.Fatalf("no-match notifications = %d, want exactly 1", got)
	}
	if p.Waiting("u1") {
		t.Errorf("Waiting(u1) = true after timeout, want false")
	}
	if p.WaitingCount() != 0 {
		t.Errorf("WaitingCount() = %d, want 0", p.WaitingCount())
	}
}

func TestPool_MatchBeforeTimeoutCancelsTimer(t *testing.T) {
	p, ev := newTestPool(30 * time.Millisecond)
	p.Join("u1", newFakeConn("c1"))
	p.Join("u2", newFakeConn("c2"))

	time.Sleep(80 * time.Millisecond)

	if got := ev.noMatchCount(); got != 0 {
		t.Fatalf("no-match notifications = %d, want 0 for matched users", got)
	}
}

func TestPool_LeaveCancelsTimer(t *testing.T) {
	p, ev := newTestPool(30 * time.Millisecond)
	p.Join("u1", newFakeConn("c1"))

	if !p.Leave("u1") {
		t.Fatalf("Leave(u1) = false, want true")
	}

	time.Sleep(80 * time.Millisecond)
	if got := ev.noMatchCount(); got != 0 {
		t.Errorf("no-match notifications = %d, want 0 after leave", got)
	}
}

func TestPool_DropConn(t *testing.T) {
	p, _ := newTestPool(time.Minute)
	p.Join("u1", newFakeConn("c1"))

	if !p.DropConn("c1") {
		t.Fatalf("DropConn(c1) = false, want true")
	}
	if p.Waiting("u1") {
		t.Errorf("Waiting(u1) = true after DropConn, want false")
	}
	if p.DropConn("c1") {
		t.Errorf("second DropConn(c1) = true, want false")
	}
}

func TestPool_ClearPairing(t *testing.T) {
	p, _ := newTestPool(time.Minute)
	p.Join("u1", newFakeConn("c1"))
	p.Join("u2", newFakeConn("c2"))

	partner, ok := p.ClearPairing("u1")
	if !ok || partner != "u2" {
		t.Fatalf("ClearPairing(u1) = %q, %v, want u2, true", partner, ok)
	}
	if _, ok := p.PartnerOf("u2"); ok {
		t.Errorf("PartnerOf(u2) = present after clear, want absent (symmetric removal)")
	}
	if _, ok := p.ClearPairing("u1"); ok {
		t.Errorf("second ClearPairing(u1) = true, want false")
	}
}

func TestPool_NeverDoubleBooked(t *testing.T) {
	p, ev := newTestPool(time.Minute)
	users := []domain.UserID{"a", "b", "c", "d", "e", "f"}
	for _, u := range users {
		p.Join(u, newFakeConn("conn-"+string(u)))
	}

	if got := ev.matchCount(); got != 6 {
		t.Fatalf("matches = %d, want 6", got)
	}
	seen := make(map[domain.UserID]domain.UserID)
	for _, u := range users {
		partner, ok := p.PartnerOf(u)
		if !ok {
			t.Fatalf("PartnerOf(%s) = absent, want present", u)
		}
		seen[u] = partner
	}
	for u, partner := range seen {
		if seen[partner] != u {
			t.Errorf("pairing not symmetric: %s -> %s but %s -> %s", u, partner, partner, seen[partner])
		}
	}
}

func TestPool_ConcurrentJoins(t *testing.T) {
	p, ev := newTestPool(time.Minute)

	users := []domain.UserID{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, u := range users {
		wg.Add(1)
		go func(u domain.UserID) {
			defer wg.Done()
			p.Join(u, newFakeConn("conn-"+string(u)))
		}(u)
	}
	wg.Wait()

	if got := ev.matchCount(); got != 8 {
		t.Fatalf("matches = %d, want 8", got)
	}
	if p.WaitingCount() != 0 {
		t.Errorf("WaitingCount() = %d, want 0", p.WaitingCount())
	}
	for _, u := range users {
		partner, ok := p.PartnerOf(u)
		if !ok {
			t.Fatalf("PartnerOf(%s) = absent, want present", u)
		}
		back, ok := p.PartnerOf(partner)
		if !ok || back != u {
			t.Errorf("pairing not mutual for %s: partner %s maps to %s", u, partner, back)
		}
	}
}
