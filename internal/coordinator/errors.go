package coordinator

import "errors"

var (
	ErrTargetOffline = errors.New("target user is offline")
	ErrTargetBusy    = errors.New("target user is busy")
	ErrCallerBusy    = errors.New("caller is already in a call")
	ErrNotConnected  = errors.New("user is not connected")
)
