// Package domain contains entities without behavior, just meta-data.
package domain

import "errors"

const (
	MaxSessionIDLen   = 64
	MaxDisplayNameLen = 36
)

var (
	ErrSessionIDEmpty     = errors.New("session id empty")
	ErrSessionIDTooLong   = errors.New("session id too long")
	ErrDisplayNameEmpty   = errors.New("display name empty")
	ErrDisplayNameTooLong = errors.New("display name too long")
)

type SessionID string

// Member is one connected client's identity inside a house.
type Member struct {
	ID          SessionID `json:"id"`
	DisplayName string    `json:"name"`
	Housemaster bool      `json:"isHousemaster"`
}

// NewMember validates inputs so adapters never build ad-hoc literals.
func NewMember(id SessionID, name string) (*Member, error) {
	if len(id) == 0 {
		return nil, ErrSessionIDEmpty
	}
	if len(id) > MaxSessionIDLen {
		return nil, ErrSessionIDTooLong
	}
	if len(name) == 0 {
		return nil, ErrDisplayNameEmpty
	}
	if len(name) > MaxDisplayNameLen {
		return nil, ErrDisplayNameTooLong
	}
	return &Member{ID: id, DisplayName: name}, nil
}
