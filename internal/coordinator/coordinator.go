// Package coordinator owns the in-memory presence registry, the one-to-one
// call pairing state machine and the chat-room registry. All mutations are
// serialized behind a single mutex so multi-entry updates (pairing both sides
// of a call, tearing a call down on disconnect) are applied atomically.
package coordinator

import (
	"log"
	"sync"
	"time"
)

// DefaultGrace is the window a disconnected user has to reconnect before the
// coordinator tears down their call and room memberships.
const DefaultGrace = 3 * time.Second

// Sender delivers a named event to one live connection. Delivery must not
// block: a slow client gets dropped messages, not a stalled coordinator.
type Sender interface {
	SendEvent(name string, data interface{}) error
}

// Status of a presence entry as reported in the user-list snapshot.
type Status string

const (
	StatusOnline Status = "online"
	StatusBusy   Status = "busy"
)

type presenceEntry struct {
	userID   string
	username string
	connID   string
	conn     Sender
	status   Status
	// partnerID is set iff status == StatusBusy and a call is active or
	// being negotiated. Pairing is always mutual: if A points at B then B
	// points back at A.
	partnerID string
}

// Coordinator is the single owner of all volatile presence/room state for
// this process.
type Coordinator struct {
	mu    sync.Mutex
	users map[string]*presenceEntry
	rooms map[string]*room
	grace time.Duration
}

func New(grace time.Duration) *Coordinator {
	return &Coordinator{
		users: make(map[string]*presenceEntry),
		rooms: make(map[string]*room),
		grace: grace,
	}
}

// Connect registers a verified user on a new connection. A reconnect updates
// the existing entry in place: the connection handle is replaced, status goes
// back to online and any in-flight call is torn down (a reconnecting client
// cannot resume a call, it has to re-establish it).
func (c *Coordinator) Connect(userID, username, connID string, conn Sender) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.users[userID]; ok {
		log.Printf("user reconnected: %s (%s)", username, userID)
		entry.connID = connID
		entry.conn = conn
		entry.username = username
		if entry.partnerID != "" {
			c.dropPairingLocked(entry)
		}
		entry.status = StatusOnline
		// The fresh connection starts with a clean slate: prior room
		// memberships do not carry over, the client rejoins explicitly.
		c.removeFromRoomsLocked(userID)
		c.broadcastRoomListLocked()
	} else {
		log.Printf("user connected: %s (%s)", username, userID)
		c.users[userID] = &presenceEntry{
			userID:   userID,
			username: username,
			connID:   connID,
			conn:     conn,
			status:   StatusOnline,
		}
	}

	c.broadcastUserListLocked()
}

// Disconnect schedules the deferred reconciliation for a lost connection.
// Cleanup is not immediate: the grace window tolerates page reloads and
// transient network blips without tearing down an active call.
func (c *Coordinator) Disconnect(userID, connID string) {
	time.AfterFunc(c.grace, func() {
		c.reconcile(userID, connID)
	})
}

// dropPairingLocked resets the partner of entry back to online and notifies
// it that the call is over. entry's own fields are left for the caller.
func (c *Coordinator) dropPairingLocked(entry *presenceEntry) {
	partner, ok := c.users[entry.partnerID]
	if ok && partner.partnerID == entry.userID {
		partner.status = StatusOnline
		partner.partnerID = ""
		c.sendLocked(partner, EventCallEnded, CallEndedNotice{FromID: entry.userID})
	}
	entry.partnerID = ""
}

// sendLocked delivers an event to one entry's current connection, dropping it
// if the connection's queue is full.
func (c *Coordinator) sendLocked(entry *presenceEntry, name string, data interface{}) {
	if entry.conn == nil {
		return
	}
	if err := entry.conn.SendEvent(name, data); err != nil {
		log.Printf("dropping %s for %s: %v", name, entry.userID, err)
	}
}
