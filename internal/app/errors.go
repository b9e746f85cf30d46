package app

import "errors"

// Local, recoverable conditions. Each is surfaced as an error frame to the
// offending session only; none close the connection.
var (
	ErrDuplicateSession = errors.New("session id already in use")
	ErrNotJoined        = errors.New("not joined to a house")
	ErrNotAuthorized    = errors.New("only the housemaster can do that")
	ErrAlreadyActive    = errors.New("already active")
	ErrNoActivePoll     = errors.New("no active poll")
	ErrNoActiveGame     = errors.New("no active game")
	ErrInvalidOption    = errors.New("vote option out of range")
	ErrInvalidMode      = errors.New("invalid house mode")
	ErrNoSuchRoom       = errors.New("room does not exist")
	ErrRoomExists       = errors.New("room already exists")
	ErrBadPoll          = errors.New("poll needs a question and at least two options")
)
