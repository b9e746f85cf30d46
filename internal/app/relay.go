package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/antirom-design/funkhaus/internal/core"
	"github.com/antirom-design/funkhaus/internal/domain"
	"github.com/antirom-design/funkhaus/internal/protocol"
)

// sendTo delivers one frame to one session. Delivery to a missing or closed
// connection is silently dropped; disconnects are detected by the transport's
// own close event, never here.
func (i *Intercom) sendTo(sid domain.SessionID, frame core.Frame) bool {
	if frame == nil {
		return false
	}
	s, ok := i.sessions[sid]
	if !ok {
		return false
	}
	if err := s.conn.TrySend(frame); err != nil {
		log.Debug().Str("module", "app.relay").Str("sid", string(sid)).Err(err).Msg("frame dropped")
		return false
	}
	return true
}

// broadcastLocked fans out to every member of the house except exclude,
// iterating a snapshot of membership taken at call time so mid-broadcast
// leaves cannot disturb iteration.
func (i *Intercom) broadcastLocked(h *house, frame core.Frame, exclude domain.SessionID) core.PublishResult {
	targets := make([]domain.SessionID, 0, len(h.order))
	for _, sid := range h.order {
		if sid == exclude {
			continue
		}
		targets = append(targets, sid)
	}

	res := core.PublishResult{}
	for _, sid := range targets {
		if i.sendTo(sid, frame) {
			res.SentTo++
		} else {
			res.Dropped++
		}
	}
	if res.Dropped > 0 {
		log.Debug().Str("module", "app.relay").Str("house", string(h.code)).Int("sentTo", res.SentTo).Int("dropped", res.Dropped).Msg("broadcast frames dropped")
	}
	return res
}

// sendToRoomLocked delivers to every occupant of a named room except exclude.
func (i *Intercom) sendToRoomLocked(h *house, name domain.RoomName, frame core.Frame, exclude domain.SessionID) core.PublishResult {
	res := core.PublishResult{}
	r, ok := h.rooms[name]
	if !ok {
		return res
	}
	targets := make([]domain.SessionID, 0, len(r.occupants))
	for sid := range r.occupants {
		if sid == exclude {
			continue
		}
		targets = append(targets, sid)
	}
	for _, sid := range targets {
		if i.sendTo(sid, frame) {
			res.SentTo++
		} else {
			res.Dropped++
		}
	}
	if res.Dropped > 0 {
		log.Debug().Str("module", "app.relay").Str("house", string(h.code)).Str("room", string(name)).Int("sentTo", res.SentTo).Int("dropped", res.Dropped).Msg("room frames dropped")
	}
	return res
}

// Chat routes a text message: "ALL" to the house, a room name to its
// occupants, anything else to the named session plus an echo to the sender.
func (i *Intercom) Chat(sid domain.SessionID, text, target string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, m, err := i.memberLocked(sid)
	if err != nil {
		return err
	}

	frame := protocol.Encode(protocol.NotifyChat, struct {
		Sender     domain.SessionID `json:"sender"`
		SenderName string           `json:"senderName"`
		Target     string           `json:"target"`
		Text       string           `json:"text"`
		Timestamp  int64            `json:"timestamp"`
	}{
		Sender:     sid,
		SenderName: m.DisplayName,
		Target:     target,
		Text:       text,
		Timestamp:  i.now().UnixMilli(),
	})

	switch {
	case target == protocol.TargetAll:
		i.broadcastLocked(h, frame, "")
	case h.hasRoom(target):
		i.sendToRoomLocked(h, domain.RoomName(target), frame, "")
		if _, inRoom := h.rooms[domain.RoomName(target)].occupants[sid]; !inRoom {
			i.sendTo(sid, frame)
		}
	default:
		// The sender is not a broadcast recipient of a direct message, so
		// echo it back explicitly.
		i.sendTo(domain.SessionID(target), frame)
		i.sendTo(sid, frame)
	}
	return nil
}

// Typing is a lightweight broadcast-with-exclude indicator.
func (i *Intercom) Typing(sid domain.SessionID, isTyping bool, target string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, m, err := i.memberLocked(sid)
	if err != nil {
		return err
	}
	frame := protocol.Encode(protocol.NotifyTyping, struct {
		Sender     domain.SessionID `json:"sender"`
		SenderName string           `json:"senderName"`
		IsTyping   bool             `json:"isTyping"`
		Target     string           `json:"target"`
	}{Sender: sid, SenderName: m.DisplayName, IsTyping: isTyping, Target: target})
	i.broadcastLocked(h, frame, sid)
	return nil
}

// Passthrough relays collaborative-drawing style events verbatim to every
// other house member, adding only a server-assigned timestamp.
func (i *Intercom) Passthrough(sid domain.SessionID, typ string, payload json.RawMessage) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, _, err := i.memberLocked(sid)
	if err != nil {
		return err
	}

	body := map[string]any{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &body); err != nil {
			return protocol.ErrMalformedFrame
		}
	}
	body["sender"] = sid
	body["timestamp"] = i.now().UnixMilli()

	i.broadcastLocked(h, protocol.Encode(typ, body), sid)
	return nil
}

func (h *house) hasRoom(name string) bool {
	_, ok := h.rooms[domain.RoomName(name)]
	return ok
}
