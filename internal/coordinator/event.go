package coordinator

import "encoding/json"

// Event names carried on the wire, client-to-server and server-to-client.
const (
	EventUpdateUserList = "update-user-list"
	EventCallUser       = "call-user"
	EventIncomingCall   = "incoming-call"
	EventUserBusy       = "user-busy"
	EventAnswerCall     = "answer-call"
	EventCallAnswered   = "call-answered"
	EventIceCandidate   = "ice-candidate"
	EventEndCall        = "end-call"
	EventCallEnded      = "call-ended"
	EventGetRooms       = "get-rooms"
	EventUpdateRoomList = "update-room-list"
	EventCreateRoom     = "create-room"
	EventRoomCreated    = "room-created"
	EventJoinRoom       = "join-room"
	EventUserJoinedRoom = "user-joined-room"
	EventLeaveRoom      = "leave-room"
	EventSendMessage    = "send-message"
	EventNewMessage     = "new-message"
	EventError          = "error"
)

// UserListEntry is one row of the presence snapshot broadcast to every client.
type UserListEntry struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Status   Status `json:"status"`
}

// CallRequest asks the coordinator to ring another user. The offer is an
// opaque SDP blob relayed to the callee untouched.
type CallRequest struct {
	ToID  string          `json:"toId"`
	Offer json.RawMessage `json:"offer"`
}

type IncomingCallNotice struct {
	FromID   string          `json:"fromId"`
	FromName string          `json:"fromName"`
	Offer    json.RawMessage `json:"offer"`
}

type UserBusyNotice struct {
	ToID string `json:"toId"`
}

type AnswerRequest struct {
	ToID   string          `json:"toId"`
	Answer json.RawMessage `json:"answer"`
}

type CallAnsweredNotice struct {
	FromID string          `json:"fromId"`
	Answer json.RawMessage `json:"answer"`
}

// IceCandidate is relayed in both directions: ToID is set on the inbound leg,
// FromID on the outbound one.
type IceCandidate struct {
	ToID      string          `json:"toId,omitempty"`
	FromID    string          `json:"fromId,omitempty"`
	Candidate json.RawMessage `json:"candidate"`
}

type EndCallRequest struct {
	ToID string `json:"toId"`
}

type CallEndedNotice struct {
	FromID string `json:"fromId"`
}

// RoomListEntry is one row of the public room list; private rooms never appear.
type RoomListEntry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MembersCount int    `json:"membersCount"`
}

type CreateRoomRequest struct {
	Name      string `json:"name"`
	IsPrivate bool   `json:"isPrivate"`
}

type RoomCreatedNotice struct {
	RoomID    string `json:"roomId"`
	Name      string `json:"name"`
	IsPrivate bool   `json:"isPrivate"`
}

type UserJoinedRoomNotice struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
}

type SendMessageRequest struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// ChatMessage exists only for the duration of the fan-out; nothing is stored.
type ChatMessage struct {
	ID         string `json:"id"`
	RoomID     string `json:"roomId"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Text       string `json:"text"`
	Timestamp  string `json:"timestamp"`
}

type ErrorNotice struct {
	Message string `json:"message"`
}
