package coordinator

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type room struct {
	id        string
	name      string
	isPrivate bool
	members   map[string]struct{}
}

// slugify turns a public room name into its deterministic id: lowercased,
// whitespace runs collapsed to single hyphens.
func slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// ListPublicRooms returns the discoverable rooms with their member counts.
func (c *Coordinator) ListPublicRooms() []RoomListEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publicRoomsLocked()
}

func (c *Coordinator) publicRoomsLocked() []RoomListEntry {
	list := make([]RoomListEntry, 0, len(c.rooms))
	for _, r := range c.rooms {
		if r.isPrivate {
			continue
		}
		list = append(list, RoomListEntry{
			ID:           r.id,
			Name:         r.name,
			MembersCount: len(r.members),
		})
	}
	return list
}

// broadcastRoomListLocked refreshes the public room list for every connected
// client. Private rooms are never part of this broadcast.
func (c *Coordinator) broadcastRoomListLocked() {
	list := c.publicRoomsLocked()
	for _, entry := range c.users {
		c.sendLocked(entry, EventUpdateRoomList, list)
	}
}

// SendRoomList answers a get-rooms request for one user.
func (c *Coordinator) SendRoomList(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.users[userID]
	if !ok {
		return
	}
	c.sendLocked(entry, EventUpdateRoomList, c.publicRoomsLocked())
}

// CreateRoom registers a room and tells the creator its id. Public ids are
// name slugs and a colliding slug reuses the existing room; private ids are
// unguessable random tokens kept out of the public list. Creation does not
// join the creator, the client follows up with join-room.
func (c *Coordinator) CreateRoom(creatorID, name string, isPrivate bool) {
	if strings.TrimSpace(name) == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	creator, ok := c.users[creatorID]
	if !ok {
		return
	}

	var roomID string
	if isPrivate {
		roomID = uuid.NewString()
	} else {
		roomID = slugify(name)
	}

	if _, exists := c.rooms[roomID]; !exists {
		c.rooms[roomID] = &room{
			id:        roomID,
			name:      name,
			isPrivate: isPrivate,
			members:   make(map[string]struct{}),
		}
		log.Printf("room created: %s (%s) private=%t", name, roomID, isPrivate)
	}

	c.sendLocked(creator, EventRoomCreated, RoomCreatedNotice{
		RoomID:    roomID,
		Name:      name,
		IsPrivate: isPrivate,
	})

	if !isPrivate {
		c.broadcastRoomListLocked()
	}
}

// JoinRoom adds a user to a room, creating it on first reference (public by
// default). Existing members are told about the newcomer and everyone gets a
// fresh public room list so member counts stay current.
func (c *Coordinator) JoinRoom(userID, roomID string) {
	if roomID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.users[userID]
	if !ok {
		return
	}

	r, exists := c.rooms[roomID]
	if !exists {
		r = &room{
			id:        roomID,
			name:      roomID,
			isPrivate: false,
			members:   make(map[string]struct{}),
		}
		c.rooms[roomID] = r
	}

	r.members[userID] = struct{}{}
	log.Printf("user %s joined room %s", entry.username, roomID)

	notice := UserJoinedRoomNotice{
		UserID:   userID,
		Username: entry.username,
		RoomID:   roomID,
	}
	for memberID := range r.members {
		if memberID == userID {
			continue
		}
		if member, ok := c.users[memberID]; ok {
			c.sendLocked(member, EventUserJoinedRoom, notice)
		}
	}

	c.broadcastRoomListLocked()
}

// LeaveRoom drops the membership and garbage-collects the room the moment it
// has no members left.
func (c *Coordinator) LeaveRoom(userID, roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.rooms[roomID]
	if !ok {
		return
	}

	delete(r.members, userID)
	if len(r.members) == 0 {
		delete(c.rooms, roomID)
	}

	c.broadcastRoomListLocked()
}

// SendMessage fans a chat message out to every member of the room, the
// sender included: the sender sees its own message through this relay, not a
// local echo. Blank messages and messages into rooms the sender is not a
// member of are dropped silently.
func (c *Coordinator) SendMessage(senderID, roomID, text string) {
	if roomID == "" || strings.TrimSpace(text) == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sender, ok := c.users[senderID]
	if !ok {
		return
	}
	r, ok := c.rooms[roomID]
	if !ok {
		return
	}
	if _, member := r.members[senderID]; !member {
		return
	}

	msg := ChatMessage{
		ID:         newMessageID(),
		RoomID:     roomID,
		SenderID:   senderID,
		SenderName: sender.username,
		Text:       text,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	for memberID := range r.members {
		if member, ok := c.users[memberID]; ok {
			c.sendLocked(member, EventNewMessage, msg)
		}
	}
}

// newMessageID is unique per message for client-side keying; monotonicity is
// not required.
func newMessageID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + uuid.NewString()[:8]
}

// removeFromRoomsLocked strips a user from every room it belongs to,
// destroying rooms left empty. Used by disconnect reconciliation.
func (c *Coordinator) removeFromRoomsLocked(userID string) {
	for roomID, r := range c.rooms {
		if _, ok := r.members[userID]; !ok {
			continue
		}
		delete(r.members, userID)
		if len(r.members) == 0 {
			delete(c.rooms, roomID)
		}
	}
}
