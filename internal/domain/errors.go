package domain

import "errors"

var (
	// ErrGameExists is returned when a game with the same game identifier already exists
	ErrGameExists = errors.New("game already exists")

	// ErrGameNotFound is returned when a game is not found
	ErrGameNotFound = errors.New("game not found")

	// ErrUnknownMessageType is returned when an inbound message carries an unknown type discriminator
	ErrUnknownMessageType = errors.New("unknown message type")

	// ErrMissingTimestamp is returned when an inbound message has no timestamp field
	ErrMissingTimestamp = errors.New("missing timestamp")
)
