// Package app implements the in-memory coordination core of the intercom:
// connection registry, house directory, room membership, broadcast fan-out,
// role succession, signaling relay and the per-house activity engines.
package app

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/antirom-design/funkhaus/internal/core"
	"github.com/antirom-design/funkhaus/internal/domain"
	"github.com/antirom-design/funkhaus/internal/protocol"
)

type session struct {
	id   domain.SessionID
	name string
	code domain.HouseCode
	conn core.SignalConnection
}

type roomState struct {
	meta      domain.Room
	occupants map[domain.SessionID]struct{}
}

type house struct {
	code        domain.HouseCode
	mode        domain.Mode
	housemaster domain.SessionID
	members     map[domain.SessionID]*domain.Member
	order       []domain.SessionID // join order, drives succession
	rooms       map[domain.RoomName]*roomState

	poll    *domain.Poll
	pollGen uint64

	game    *gameState
	gameGen uint64
}

// Intercom owns every house and session. A single mutex serializes all
// mutation, handlers and timer callbacks alike, so each operation runs to
// completion before the next one observes state.
type Intercom struct {
	mu       sync.Mutex
	sessions map[domain.SessionID]*session
	conns    map[core.SignalConnection]domain.SessionID
	houses   map[domain.HouseCode]*house

	now   func() time.Time
	after func(time.Duration, func()) *time.Timer
	rng   *rand.Rand
}

func NewIntercom() *Intercom {
	return &Intercom{
		sessions: make(map[domain.SessionID]*session),
		conns:    make(map[core.SignalConnection]domain.SessionID),
		houses:   make(map[domain.HouseCode]*house),
		now:      time.Now,
		after:    time.AfterFunc,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Join registers a session, lazily creating its house, and announces the new
// member to everyone already there. The first member becomes housemaster.
func (i *Intercom) Join(code domain.HouseCode, roomName domain.RoomName, sid domain.SessionID, displayName string, conn core.SignalConnection) error {
	member, err := domain.NewMember(sid, displayName)
	if err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.sessions[sid]; exists {
		return ErrDuplicateSession
	}

	h, ok := i.houses[code]
	if !ok {
		h = &house{
			code:    code,
			mode:    domain.DefaultMode,
			members: make(map[domain.SessionID]*domain.Member),
			rooms:   make(map[domain.RoomName]*roomState),
		}
		i.houses[code] = h
		log.Info().Str("module", "app.intercom").Str("house", string(code)).Msg("house created")
	}

	if len(h.members) == 0 {
		member.Housemaster = true
		h.housemaster = sid
	}
	h.members[sid] = member
	h.order = append(h.order, sid)

	i.sessions[sid] = &session{id: sid, name: displayName, code: code, conn: conn}
	i.conns[conn] = sid

	if roomName != "" {
		i.enterRoomLocked(h, sid, roomName, false)
	}

	i.sendTo(sid, protocol.Encode(protocol.NotifyJoined, struct {
		IsHousemaster bool            `json:"isHousemaster"`
		Mode          domain.Mode     `json:"mode"`
		Rooms         []roomInfo      `json:"rooms"`
		Members       []domain.Member `json:"members"`
	}{
		IsHousemaster: member.Housemaster,
		Mode:          h.mode,
		Rooms:         h.roomList(),
		Members:       h.memberList(),
	}))
	i.broadcastRoomsLocked(h)

	log.Info().Str("module", "app.intercom").Str("sid", string(sid)).Str("house", string(code)).Bool("housemaster", member.Housemaster).Msg("joined")
	return nil
}

// Leave removes a session from its house, transferring the housemaster role
// or deleting the house as needed. Safe to call for unknown sessions.
func (i *Intercom) Leave(sid domain.SessionID) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.leaveLocked(sid)
}

// OnDisconnect is the transport close hook; disconnects arrive keyed by
// connection, not session id.
func (i *Intercom) OnDisconnect(conn core.SignalConnection) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sid, ok := i.conns[conn]
	if !ok {
		return
	}
	i.leaveLocked(sid)
}

func (i *Intercom) leaveLocked(sid domain.SessionID) {
	s, ok := i.sessions[sid]
	if !ok {
		return
	}
	delete(i.sessions, sid)
	delete(i.conns, s.conn)

	h, ok := i.houses[s.code]
	if !ok {
		return
	}

	delete(h.members, sid)
	for idx, id := range h.order {
		if id == sid {
			h.order = append(h.order[:idx], h.order[idx+1:]...)
			break
		}
	}
	i.exitRoomLocked(h, sid)

	if len(h.members) == 0 {
		// Bump generations so in-flight timers for this house's poll or
		// game find nothing to act on.
		h.pollGen++
		h.gameGen++
		delete(i.houses, s.code)
		log.Info().Str("module", "app.intercom").Str("house", string(s.code)).Msg("house deleted")
		return
	}

	if h.housemaster == sid {
		next := h.order[0]
		h.housemaster = next
		h.members[next].Housemaster = true
		i.sendTo(next, protocol.SystemFrame("You are now the Housemaster!"))
		log.Info().Str("module", "app.intercom").Str("house", string(s.code)).Str("sid", string(next)).Msg("housemaster promoted")
	}

	// The leaver may have been the last member holding a round open.
	if h.game != nil && h.game.roundActive && h.allSubmitted() {
		i.endRoundLocked(h, h.gameGen)
	}

	i.broadcastRoomsLocked(h)
	log.Info().Str("module", "app.intercom").Str("sid", string(sid)).Str("house", string(s.code)).Msg("left")
}

// ChangeMode is housemaster-only and is broadcast to the whole house.
func (i *Intercom) ChangeMode(sid domain.SessionID, mode domain.Mode) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, _, err := i.housemasterLocked(sid)
	if err != nil {
		return err
	}
	if !domain.ValidMode(mode) {
		return ErrInvalidMode
	}
	h.mode = mode
	i.broadcastLocked(h, protocol.Encode(protocol.NotifyModeChange, struct {
		Mode domain.Mode `json:"mode"`
	}{Mode: mode}), "")
	log.Info().Str("module", "app.intercom").Str("house", string(h.code)).Str("mode", string(mode)).Msg("mode changed")
	return nil
}

// memberLocked resolves a session to its house and member record.
func (i *Intercom) memberLocked(sid domain.SessionID) (*house, *domain.Member, error) {
	s, ok := i.sessions[sid]
	if !ok {
		return nil, nil, ErrNotJoined
	}
	h, ok := i.houses[s.code]
	if !ok {
		return nil, nil, ErrNotJoined
	}
	m, ok := h.members[sid]
	if !ok {
		return nil, nil, ErrNotJoined
	}
	return h, m, nil
}

func (i *Intercom) housemasterLocked(sid domain.SessionID) (*house, *domain.Member, error) {
	h, m, err := i.memberLocked(sid)
	if err != nil {
		return nil, nil, err
	}
	if h.housemaster != sid {
		return nil, nil, ErrNotAuthorized
	}
	return h, m, nil
}

// memberList returns members in join order so clients render stable lists.
func (h *house) memberList() []domain.Member {
	out := make([]domain.Member, 0, len(h.order))
	for _, sid := range h.order {
		if m, ok := h.members[sid]; ok {
			out = append(out, *m)
		}
	}
	return out
}

type roomInfo struct {
	ID        string            `json:"id"`
	Name      domain.RoomName   `json:"name"`
	Permanent bool              `json:"permanent"`
	Occupants []domain.SessionID `json:"occupants"`
}

func (h *house) roomList() []roomInfo {
	out := make([]roomInfo, 0, len(h.rooms))
	for _, r := range h.rooms {
		info := roomInfo{
			ID:        r.meta.ID,
			Name:      r.meta.Name,
			Permanent: r.meta.Permanent,
			Occupants: make([]domain.SessionID, 0, len(r.occupants)),
		}
		for sid := range r.occupants {
			info.Occupants = append(info.Occupants, sid)
		}
		sort.Slice(info.Occupants, func(a, b int) bool { return info.Occupants[a] < info.Occupants[b] })
		out = append(out, info)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

func (i *Intercom) broadcastRoomsLocked(h *house) {
	i.broadcastLocked(h, protocol.Encode(protocol.NotifyRooms, struct {
		Rooms   []roomInfo      `json:"rooms"`
		Members []domain.Member `json:"members"`
	}{Rooms: h.roomList(), Members: h.memberList()}), "")
}

func newRoomID() string { return uuid.NewString() }

// HouseOverview is the admin-facing snapshot of one live house.
type HouseOverview struct {
	Code        domain.HouseCode `json:"code"`
	Mode        domain.Mode      `json:"mode"`
	Members     int              `json:"members"`
	Rooms       int              `json:"rooms"`
	Housemaster string           `json:"housemaster"`
	PollActive  bool             `json:"pollActive"`
	GameActive  bool             `json:"gameActive"`
}

// Overview lists live houses for the admin endpoint, sorted by code.
func (i *Intercom) Overview() []HouseOverview {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]HouseOverview, 0, len(i.houses))
	for code, h := range i.houses {
		ov := HouseOverview{
			Code:       code,
			Mode:       h.mode,
			Members:    len(h.members),
			Rooms:      len(h.rooms),
			PollActive: h.poll != nil,
			GameActive: h.game != nil,
		}
		if m, ok := h.members[h.housemaster]; ok {
			ov.Housemaster = m.DisplayName
		}
		out = append(out, ov)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Code < out[b].Code })
	return out
}
