package coordinator

import "log"

// reconcile runs when the grace window after a disconnect expires. The check
// is keyed on the connection handle: if the user reconnected in the interim
// the entry carries a new handle and this run is stale, so it backs off
// without touching anything. Otherwise the user is really gone: tear down any
// call, drop room memberships and remove the entry.
func (c *Coordinator) reconcile(userID, connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.users[userID]
	if !ok || entry.connID != connID {
		return
	}

	log.Printf("user disconnected: %s (%s)", entry.username, userID)

	if entry.partnerID != "" {
		c.dropPairingLocked(entry)
	}
	c.removeFromRoomsLocked(userID)
	c.unregisterLocked(userID)

	c.broadcastUserListLocked()
	c.broadcastRoomListLocked()
}
