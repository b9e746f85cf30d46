package app

import (
	"github.com/rs/zerolog/log"

	"github.com/antirom-design/funkhaus/internal/domain"
)

// CreateRoom makes a named room explicitly. Only the housemaster may mark a
// room permanent; for everyone else the flag is ignored.
func (i *Intercom) CreateRoom(sid domain.SessionID, name domain.RoomName, permanent bool) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, _, err := i.memberLocked(sid)
	if err != nil {
		return err
	}
	if name == "" || len(name) > domain.MaxRoomNameLen {
		return ErrNoSuchRoom
	}
	if _, exists := h.rooms[name]; exists {
		return ErrRoomExists
	}
	if permanent && h.housemaster != sid {
		return ErrNotAuthorized
	}
	h.rooms[name] = &roomState{
		meta:      domain.Room{ID: newRoomID(), Name: name, Permanent: permanent},
		occupants: make(map[domain.SessionID]struct{}),
	}
	i.broadcastRoomsLocked(h)
	log.Info().Str("module", "app.rooms").Str("house", string(h.code)).Str("room", string(name)).Bool("permanent", permanent).Msg("room created")
	return nil
}

// JoinRoom moves a session into a room, creating it lazily and leaving the
// previous room first. A member occupies at most one room.
func (i *Intercom) JoinRoom(sid domain.SessionID, name domain.RoomName) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, _, err := i.memberLocked(sid)
	if err != nil {
		return err
	}
	if name == "" || len(name) > domain.MaxRoomNameLen {
		return ErrNoSuchRoom
	}
	i.enterRoomLocked(h, sid, name, true)
	i.broadcastRoomsLocked(h)
	return nil
}

// LeaveRoom drops the session back to the house floor.
func (i *Intercom) LeaveRoom(sid domain.SessionID) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, _, err := i.memberLocked(sid)
	if err != nil {
		return err
	}
	i.exitRoomLocked(h, sid)
	i.broadcastRoomsLocked(h)
	return nil
}

func (i *Intercom) enterRoomLocked(h *house, sid domain.SessionID, name domain.RoomName, announce bool) {
	i.exitRoomLocked(h, sid)
	r, ok := h.rooms[name]
	if !ok {
		r = &roomState{
			meta:      domain.Room{ID: newRoomID(), Name: name},
			occupants: make(map[domain.SessionID]struct{}),
		}
		h.rooms[name] = r
	}
	r.occupants[sid] = struct{}{}
	if announce {
		log.Info().Str("module", "app.rooms").Str("sid", string(sid)).Str("room", string(name)).Msg("joined room")
	}
}

// exitRoomLocked removes the session from whatever room holds it and reaps
// the room if it became empty and is not permanent.
func (i *Intercom) exitRoomLocked(h *house, sid domain.SessionID) {
	for name, r := range h.rooms {
		if _, ok := r.occupants[sid]; !ok {
			continue
		}
		delete(r.occupants, sid)
		if len(r.occupants) == 0 && !r.meta.Permanent {
			delete(h.rooms, name)
			log.Info().Str("module", "app.rooms").Str("house", string(h.code)).Str("room", string(name)).Msg("empty room deleted")
		}
		return
	}
}
