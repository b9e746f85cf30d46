package domain

const MaxRoomNameLen = 36

type RoomName string

// Room is a sub-grouping of members within a house. Non-permanent rooms are
// deleted as soon as the last occupant leaves.
type Room struct {
	ID        string   `json:"id"`
	Name      RoomName `json:"name"`
	Permanent bool     `json:"permanent"`
}
