package coordinator

import (
	"sync"
	"testing"
	"time"
)

// fakeConn records everything the coordinator delivers to one connection.
type fakeConn struct {
	mu     sync.Mutex
	events []fakeEvent
}

type fakeEvent struct {
	name string
	data interface{}
}

func (f *fakeConn) SendEvent(name string, data interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, fakeEvent{name: name, data: data})
	return nil
}

func (f *fakeConn) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ev := range f.events {
		if ev.name == name {
			n++
		}
	}
	return n
}

func (f *fakeConn) last(name string) (interface{}, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].name == name {
			return f.events[i].data, true
		}
	}
	return nil, false
}

func newTestCoordinator() *Coordinator {
	return New(DefaultGrace)
}

func connect(c *Coordinator, userID, username string) *fakeConn {
	conn := &fakeConn{}
	c.Connect(userID, username, "conn-"+userID, conn)
	return conn
}

// checkPairingSymmetry verifies the core invariant: whenever an entry has a
// partner, that partner exists and points back.
func checkPairingSymmetry(t *testing.T, c *Coordinator) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, entry := range c.users {
		if entry.partnerID == "" {
			continue
		}
		partner, ok := c.users[entry.partnerID]
		if !ok {
			t.Fatalf("entry %s points at missing partner %s", id, entry.partnerID)
		}
		if partner.partnerID != id {
			t.Fatalf("pairing not symmetric: %s -> %s but %s -> %s",
				id, entry.partnerID, entry.partnerID, partner.partnerID)
		}
	}
}

func entryState(t *testing.T, c *Coordinator, userID string) (Status, string) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.users[userID]
	if !ok {
		t.Fatalf("no presence entry for %s", userID)
	}
	return entry.status, entry.partnerID
}

func TestConnectBroadcastsSnapshot(t *testing.T) {
	c := newTestCoordinator()

	aliceConn := connect(c, "u1", "alice")
	bobConn := connect(c, "u2", "bob")

	// alice saw both her own connect and bob's
	if got := aliceConn.count(EventUpdateUserList); got != 2 {
		t.Errorf("alice received %d user-list broadcasts, want 2", got)
	}

	data, ok := bobConn.last(EventUpdateUserList)
	if !ok {
		t.Fatal("bob never received a user list")
	}
	list := data.([]UserListEntry)
	if len(list) != 2 {
		t.Fatalf("snapshot has %d entries, want 2", len(list))
	}
	for _, entry := range list {
		if entry.Status != StatusOnline {
			t.Errorf("user %s has status %q, want online", entry.UserID, entry.Status)
		}
	}
}

func TestSnapshotReflectsBusyStatus(t *testing.T) {
	c := newTestCoordinator()
	connect(c, "u1", "alice")
	connect(c, "u2", "bob")
	if err := c.InitiateCall("u1", "u2", nil); err != nil {
		t.Fatalf("InitiateCall: %v", err)
	}

	for _, entry := range c.Snapshot() {
		if entry.Status != StatusBusy {
			t.Errorf("user %s has status %q, want busy", entry.UserID, entry.Status)
		}
	}
}

func TestReconnectReplacesConnection(t *testing.T) {
	c := newTestCoordinator()
	connect(c, "u1", "alice")

	newConn := &fakeConn{}
	c.Connect("u1", "alice", "conn-u1-b", newConn)

	if got := len(c.Snapshot()); got != 1 {
		t.Fatalf("registry has %d entries after reconnect, want 1", got)
	}

	c.mu.Lock()
	connID := c.users["u1"].connID
	c.mu.Unlock()
	if connID != "conn-u1-b" {
		t.Errorf("entry kept connection %q, want conn-u1-b", connID)
	}
}

// A reconnect must tear the in-flight call down: the fresh connection cannot
// resume it, and the partner must not stay stranded as busy.
func TestReconnectClearsPairingAndFreesPartner(t *testing.T) {
	c := newTestCoordinator()
	connect(c, "u1", "alice")
	bobConn := connect(c, "u2", "bob")

	if err := c.InitiateCall("u1", "u2", nil); err != nil {
		t.Fatalf("InitiateCall: %v", err)
	}

	c.Connect("u1", "alice", "conn-u1-b", &fakeConn{})

	status, partner := entryState(t, c, "u1")
	if status != StatusOnline || partner != "" {
		t.Errorf("alice after reconnect: status=%q partner=%q, want online/none", status, partner)
	}
	status, partner = entryState(t, c, "u2")
	if status != StatusOnline || partner != "" {
		t.Errorf("bob after alice reconnect: status=%q partner=%q, want online/none", status, partner)
	}
	if got := bobConn.count(EventCallEnded); got != 1 {
		t.Errorf("bob received %d call-ended notices, want 1", got)
	}
	checkPairingSymmetry(t, c)
}

func TestGet(t *testing.T) {
	c := newTestCoordinator()
	connect(c, "u1", "alice")

	entry, ok := c.Get("u1")
	if !ok {
		t.Fatal("Get missed a connected user")
	}
	if entry.Username != "alice" || entry.Status != StatusOnline {
		t.Errorf("unexpected entry: %+v", entry)
	}

	if _, ok := c.Get("u9"); ok {
		t.Error("Get found a user that never connected")
	}
}

func TestGraceWindowDefault(t *testing.T) {
	if DefaultGrace != 3*time.Second {
		t.Errorf("DefaultGrace = %v, want 3s", DefaultGrace)
	}
}
