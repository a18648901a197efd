package domain

import "errors"

// ErrSessionNotFound is returned by session stores when no session exists
// for the requested user.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownEvent is returned when an event kind is not one of start,
// answer or cancel.
var ErrUnknownEvent = errors.New("unknown event kind")
