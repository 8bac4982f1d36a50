package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/vkotovv/meet-lite/internal/coordinator"
	"github.com/vkotovv/meet-lite/internal/ws"
)

// SignalHandler translates inbound wire events into coordinator operations.
// It is the only place that knows both the event surface and the coordinator
// API; the coordinator itself never parses JSON envelopes.
type SignalHandler struct {
	coord *coordinator.Coordinator
}

func NewSignalHandler(coord *coordinator.Coordinator) *SignalHandler {
	return &SignalHandler{coord: coord}
}

func (h *SignalHandler) HandleEvent(c *ws.Client, ev *ws.Event) error {
	switch ev.Name {
	case coordinator.EventCallUser:
		var req coordinator.CallRequest
		if err := json.Unmarshal(ev.Data, &req); err != nil {
			return ws.ErrInvalidEvent
		}
		return h.handleCall(c, req)

	case coordinator.EventAnswerCall:
		var req coordinator.AnswerRequest
		if err := json.Unmarshal(ev.Data, &req); err != nil {
			return ws.ErrInvalidEvent
		}
		h.coord.AnswerCall(c.UserID, req.ToID, req.Answer)

	case coordinator.EventIceCandidate:
		var req coordinator.IceCandidate
		if err := json.Unmarshal(ev.Data, &req); err != nil {
			return ws.ErrInvalidEvent
		}
		h.coord.RelayIceCandidate(c.UserID, req.ToID, req.Candidate)

	case coordinator.EventEndCall:
		var req coordinator.EndCallRequest
		if err := json.Unmarshal(ev.Data, &req); err != nil {
			return ws.ErrInvalidEvent
		}
		h.coord.EndCall(c.UserID, req.ToID)

	case coordinator.EventGetRooms:
		h.coord.SendRoomList(c.UserID)

	case coordinator.EventCreateRoom:
		var req coordinator.CreateRoomRequest
		if err := json.Unmarshal(ev.Data, &req); err != nil {
			return ws.ErrInvalidEvent
		}
		h.coord.CreateRoom(c.UserID, req.Name, req.IsPrivate)

	case coordinator.EventJoinRoom:
		roomID, err := roomIDPayload(ev.Data)
		if err != nil {
			return err
		}
		h.coord.JoinRoom(c.UserID, roomID)

	case coordinator.EventLeaveRoom:
		roomID, err := roomIDPayload(ev.Data)
		if err != nil {
			return err
		}
		h.coord.LeaveRoom(c.UserID, roomID)

	case coordinator.EventSendMessage:
		var req coordinator.SendMessageRequest
		if err := json.Unmarshal(ev.Data, &req); err != nil {
			return ws.ErrInvalidEvent
		}
		h.coord.SendMessage(c.UserID, req.RoomID, req.Message)

	default:
		log.Printf("unknown event %q from %s", ev.Name, c.UserID)
	}

	return nil
}

// handleCall maps pairing failures onto their wire events: a busy target
// answers the caller with user-busy, an offline one with a plain error.
func (h *SignalHandler) handleCall(c *ws.Client, req coordinator.CallRequest) error {
	err := h.coord.InitiateCall(c.UserID, req.ToID, req.Offer)
	switch {
	case errors.Is(err, coordinator.ErrTargetBusy):
		c.SendEvent(coordinator.EventUserBusy, coordinator.UserBusyNotice{ToID: req.ToID})
		return nil
	case errors.Is(err, coordinator.ErrTargetOffline):
		return errors.New("User is offline")
	default:
		return err
	}
}

func (h *SignalHandler) HandleDisconnect(c *ws.Client) {
	h.coord.Disconnect(c.UserID, c.ID.String())
}

// join-room and leave-room carry the room id as a bare JSON string.
func roomIDPayload(data json.RawMessage) (string, error) {
	var roomID string
	if err := json.Unmarshal(data, &roomID); err != nil {
		return "", ws.ErrInvalidEvent
	}
	return roomID, nil
}
