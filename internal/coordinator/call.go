package coordinator

import (
	"encoding/json"
	"log"
)

// InitiateCall pairs caller and target and relays the offer. Both entries are
// switched to busy under one lock so no observer ever sees a half-applied
// pairing. Returns ErrTargetOffline or ErrTargetBusy without mutating
// anything when the target cannot take the call.
func (c *Coordinator) InitiateCall(callerID, targetID string, offer json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	caller, ok := c.users[callerID]
	if !ok {
		return ErrNotConnected
	}
	// A busy caller cannot dial out: overwriting its pairing would strand
	// the current partner pointing at a caller that no longer points back.
	if caller.status == StatusBusy {
		return ErrCallerBusy
	}
	target, ok := c.users[targetID]
	if !ok {
		return ErrTargetOffline
	}
	if target.status == StatusBusy {
		log.Printf("call rejected: %s is busy", target.username)
		return ErrTargetBusy
	}

	caller.status = StatusBusy
	caller.partnerID = targetID
	target.status = StatusBusy
	target.partnerID = callerID

	log.Printf("relaying call from %s to %s", caller.username, target.username)
	c.broadcastUserListLocked()
	c.sendLocked(target, EventIncomingCall, IncomingCallNotice{
		FromID:   callerID,
		FromName: caller.username,
		Offer:    offer,
	})
	return nil
}

// AnswerCall relays the answer back to the caller. Status is not touched
// here; both sides were already marked busy at initiation.
func (c *Coordinator) AnswerCall(answererID, callerID string, answer json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	caller, ok := c.users[callerID]
	if !ok {
		return
	}
	c.sendLocked(caller, EventCallAnswered, CallAnsweredNotice{
		FromID: answererID,
		Answer: answer,
	})
}

// RelayIceCandidate is best-effort: if the peer is gone the candidate is
// silently dropped. The offer/answer exchange is the authoritative handshake.
func (c *Coordinator) RelayIceCandidate(fromID, toID string, candidate json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target, ok := c.users[toID]
	if !ok {
		return
	}
	c.sendLocked(target, EventIceCandidate, IceCandidate{
		FromID:    fromID,
		Candidate: candidate,
	})
}

// EndCall resets both sides of a pairing to online and notifies the other
// party. It is idempotent: ending an already-ended call is a no-op and the
// remaining party is notified at most once.
func (c *Coordinator) EndCall(fromID, toID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endCallLocked(fromID, toID)
}

func (c *Coordinator) endCallLocked(fromID, toID string) {
	from := c.users[fromID]
	to := c.users[toID]

	linked := (from != nil && from.partnerID == toID) || (to != nil && to.partnerID == fromID)
	if !linked {
		return
	}

	if from != nil {
		from.status = StatusOnline
		from.partnerID = ""
	}
	if to != nil {
		to.status = StatusOnline
		to.partnerID = ""
	}

	c.broadcastUserListLocked()
	if to != nil {
		c.sendLocked(to, EventCallEnded, CallEndedNotice{FromID: fromID})
	}
}
