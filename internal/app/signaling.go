package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/antirom-design/funkhaus/internal/domain"
	"github.com/antirom-design/funkhaus/internal/protocol"
)

// StartTalk announces a talker to the house and hands the initiator the
// resolved list of peers to negotiate with. The relay never looks inside a
// negotiation payload; it only computes who should receive it.
func (i *Intercom) StartTalk(sid domain.SessionID, target string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, m, err := i.memberLocked(sid)
	if err != nil {
		return err
	}

	i.broadcastLocked(h, protocol.Encode(protocol.NotifyTalkState, struct {
		Talking    bool             `json:"talking"`
		SessionID  domain.SessionID `json:"sessionId"`
		SenderName string           `json:"senderName"`
		Target     string           `json:"target"`
	}{Talking: true, SessionID: sid, SenderName: m.DisplayName, Target: target}), "")

	peers := i.resolvePeersLocked(h, sid, target)
	i.sendTo(sid, protocol.Encode(protocol.NotifySignal, struct {
		Signal  map[string]string  `json:"signal"`
		Targets []domain.SessionID `json:"targets"`
		Target  string             `json:"target"`
	}{
		Signal:  map[string]string{"type": protocol.SignalStartOffers},
		Targets: peers,
		Target:  target,
	}))

	log.Info().Str("module", "app.signaling").Str("sid", string(sid)).Str("target", target).Int("peers", len(peers)).Msg("talk started")
	return nil
}

// StopTalk clears the talker announcement.
func (i *Intercom) StopTalk(sid domain.SessionID) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, m, err := i.memberLocked(sid)
	if err != nil {
		return err
	}
	i.broadcastLocked(h, protocol.Encode(protocol.NotifyTalkState, struct {
		Talking    bool             `json:"talking"`
		SessionID  domain.SessionID `json:"sessionId"`
		SenderName string           `json:"senderName"`
	}{Talking: false, SessionID: sid, SenderName: m.DisplayName}), "")
	return nil
}

// KillAllAudio is housemaster-only and tells every client to tear down talk
// state regardless of who initiated it.
func (i *Intercom) KillAllAudio(sid domain.SessionID) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, _, err := i.housemasterLocked(sid)
	if err != nil {
		return err
	}
	i.broadcastLocked(h, protocol.Encode(protocol.NotifyForceStop, struct {
		Reason string `json:"reason"`
	}{Reason: "Housemaster stopped all audio"}), "")
	log.Info().Str("module", "app.signaling").Str("house", string(h.code)).Msg("all audio killed")
	return nil
}

// RelaySignal forwards an opaque negotiation payload. The forwarded frame
// always carries the original sender so the recipient can attribute it to
// the right peer connection.
func (i *Intercom) RelaySignal(sid domain.SessionID, recipient string, signal json.RawMessage) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, _, err := i.memberLocked(sid)
	if err != nil {
		return err
	}
	if len(signal) == 0 {
		return protocol.ErrMalformedFrame
	}

	build := func(target string) []byte {
		return protocol.Encode(protocol.NotifySignal, struct {
			From   domain.SessionID `json:"from"`
			Signal json.RawMessage  `json:"signal"`
			Target string           `json:"target"`
		}{From: sid, Signal: signal, Target: target})
	}

	switch {
	case recipient == protocol.TargetAll:
		i.broadcastLocked(h, build(protocol.TargetAll), sid)
	case h.hasRoom(recipient):
		i.sendToRoomLocked(h, domain.RoomName(recipient), build(recipient), sid)
	default:
		i.sendTo(domain.SessionID(recipient), build(recipient))
	}
	return nil
}

// resolvePeersLocked computes the peer set for a talk target: every other
// member for ALL, the other occupants for a room name, else the single
// named session if it is actually in the house.
func (i *Intercom) resolvePeersLocked(h *house, sid domain.SessionID, target string) []domain.SessionID {
	peers := make([]domain.SessionID, 0, len(h.order))
	switch {
	case target == protocol.TargetAll:
		for _, other := range h.order {
			if other != sid {
				peers = append(peers, other)
			}
		}
	case h.hasRoom(target):
		for other := range h.rooms[domain.RoomName(target)].occupants {
			if other != sid {
				peers = append(peers, other)
			}
		}
	default:
		if _, ok := h.members[domain.SessionID(target)]; ok && domain.SessionID(target) != sid {
			peers = append(peers, domain.SessionID(target))
		}
	}
	return peers
}
