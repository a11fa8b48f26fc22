package orch

import (
	"sync"
	"testing"
	"time"

	"github.com/Aloksingh622/orbit-server/internal/app"
	"github.com/Aloksingh622/orbit-server/internal/core"
	"github.com/Aloksingh622/orbit-server/internal/domain"
)

type fakeConn struct {
	id core.ConnID

	mu     sync.Mutex
	frames []core.Frame
}

func (c *fakeConn) ID() core.ConnID { return c.id }

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {}

type nopEvents struct{}

func (nopEvents) MatchFound(core.SignalConnection, domain.UserID, bool) {}
func (nopEvents) NoMatchFound(core.SignalConnection)                    {}

func newTestOrchestrator() *Orchestrator {
	return &Orchestrator{
		Registry: app.NewRegistry(),
		Pool:     app.NewPool(time.Minute, nopEvents{}),
	}
}

func TestDisconnect_ClearsPairingForBothSides(t *testing.T) {
	o := newTestOrchestrator()
	c1 := &fakeConn{id: "c1"}
	c2 := &fakeConn{id: "c2"}

	o.Registry.Register("u1", c1)
	o.Registry.Register("u2", c2)
	o.Pool.Join("u1", c1)
	o.Pool.Join("u2", c2)

	o.Disconnect("c1")

	if _, ok := o.Registry.Lookup("u1"); ok {
		t.Errorf("Lookup(u1) = present after disconnect, want absent")
	}
	if _, ok := o.Pool.PartnerOf("u1"); ok {
		t.Errorf("PartnerOf(u1) = present after disconnect, want absent")
	}
	if _, ok := o.Pool.PartnerOf("u2"); ok {
		t.Errorf("PartnerOf(u2) = present after partner's disconnect, want absent")
	}
	// The partner itself stays registered.
	if _, ok := o.Registry.Lookup("u2"); !ok {
		t.Errorf("Lookup(u2) = absent, want present")
	}
}

func TestDisconnect_RemovesWaitingEntry(t *testing.T) {
	o := newTestOrchestrator()
	c1 := &fakeConn{id: "c1"}

	// Pool joins do not require registration; cleanup keys on the handle.
	o.Pool.Join("u1", c1)
	o.Disconnect("c1")

	if o.Pool.Waiting("u1") {
		t.Errorf("Waiting(u1) = true after disconnect, want false")
	}
}

func TestDisconnect_Idempotent(t *testing.T) {
	o := newTestOrchestrator()
	c1 := &fakeConn{id: "c1"}
	o.Registry.Register("u1", c1)
	o.Pool.Join("u1", c1)

	o.Disconnect("c1")
	o.Disconnect("c1")

	if _, ok := o.Registry.Lookup("u1"); ok {
		t.Errorf("Lookup(u1) = present, want absent")
	}
}

func TestDisconnect_UnregisteredConnection(t *testing.T) {
	o := newTestOrchestrator()
	// Nothing registered; must not panic or mutate anything.
	o.Disconnect("ghost")
	if o.Registry.Count() != 0 {
		t.Errorf("Count() = %d, want 0", o.Registry.Count())
	}
}

func TestEndPairing_ClearsBothDirections(t *testing.T) {
	o := newTestOrchestrator()
	c1 := &fakeConn{id: "c1"}
	c2 := &fakeConn{id: "c2"}
	o.Pool.Join("u1", c1)
	o.Pool.Join("u2", c2)

	o.EndPairing("u1", "u2")

	if _, ok := o.Pool.PartnerOf("u1"); ok {
		t.Errorf("PartnerOf(u1) = present after EndPairing, want absent")
	}
	if _, ok := o.Pool.PartnerOf("u2"); ok {
		t.Errorf("PartnerOf(u2) = present after EndPairing, want absent")
	}

	// Idempotent for unpaired ids.
	o.EndPairing("u1", "u2")
}
