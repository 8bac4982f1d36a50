package coordinator

// Snapshot returns the full presence list as broadcast to clients. Internal
// fields (connection handle, partner) are not exposed.
func (c *Coordinator) Snapshot() []UserListEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Coordinator) snapshotLocked() []UserListEntry {
	list := make([]UserListEntry, 0, len(c.users))
	for _, entry := range c.users {
		list = append(list, UserListEntry{
			UserID:   entry.userID,
			Username: entry.username,
			Status:   entry.status,
		})
	}
	return list
}

// Get reports the public view of one presence entry.
func (c *Coordinator) Get(userID string) (UserListEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.users[userID]
	if !ok {
		return UserListEntry{}, false
	}
	return UserListEntry{
		UserID:   entry.userID,
		Username: entry.username,
		Status:   entry.status,
	}, true
}

// broadcastUserListLocked pushes the current snapshot to every connection.
// This full-snapshot broadcast is the only way clients learn of presence
// changes; there is no incremental diff protocol.
func (c *Coordinator) broadcastUserListLocked() {
	snapshot := c.snapshotLocked()
	for _, entry := range c.users {
		c.sendLocked(entry, EventUpdateUserList, snapshot)
	}
}

// unregisterLocked removes an entry entirely. Only the disconnect
// reconciliation path calls this, after the grace window confirmed that no
// reconnect happened.
func (c *Coordinator) unregisterLocked(userID string) {
	delete(c.users, userID)
}
