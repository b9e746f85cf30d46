package protocol

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/antirom-design/funkhaus/internal/core"
)

// Outbound notification types.
const (
	NotifyJoined          = "joined"
	NotifyRooms           = "rooms"
	NotifyModeChange      = "modeChange"
	NotifyChat            = "chat"
	NotifyTyping          = "typing"
	NotifyTalkState       = "talkState"
	NotifySignal          = "signal"
	NotifyError           = "error"
	NotifySystem          = "system"
	NotifyForceStop       = "forceStopTalking"
	NotifyPollStarted     = "pollStarted"
	NotifyPollUpdate      = "pollUpdate"
	NotifyPollEnded       = "pollEnded"
	NotifyPollCanceled    = "pollCanceled"
	NotifyCircleStarted   = "circleSortStarted"
	NotifyCircleEnded     = "circleSortEnded"
	NotifyCircleGameEnded = "circleSortGameEnded"
)

// SignalStartOffers is the distinguished signal kind carried back to a talk
// initiator with the resolved peer list.
const SignalStartOffers = "start-offers"

// Encode marshals an outbound {type, data} frame. Marshal failures are a
// programming error; they are logged and yield nil so TrySend drops them.
func Encode(typ string, data any) core.Frame {
	raw, err := json.Marshal(Envelope{Type: typ, Data: mustMarshal(data)})
	if err != nil {
		log.Error().Err(err).Str("module", "protocol").Str("type", typ).Msg("encode frame")
		return nil
	}
	return raw
}

func mustMarshal(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "protocol").Msg("marshal payload")
		return json.RawMessage(`{}`)
	}
	return raw
}

// ErrorFrame builds the uniform error reply sent to the offending session.
func ErrorFrame(message string) core.Frame {
	return Encode(NotifyError, map[string]string{"message": message})
}

// SystemFrame carries operator-ish notices such as housemaster promotion.
func SystemFrame(message string) core.Frame {
	return Encode(NotifySystem, map[string]string{"message": message})
}
