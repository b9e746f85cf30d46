package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/antirom-design/funkhaus/internal/protocol"
)

// handleFrame routes one inbound envelope. Malformed frames are logged and
// dropped; unknown types are logged and ignored; every other failure is a
// recoverable condition answered with an error frame to this session only.
func (ctl *Controller) handleFrame(c *WsConn, data []byte) {
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		log.Warn().Str("module", "signal").Str("sid", string(c.sessionID())).Msg("malformed frame dropped")
		return
	}

	switch env.Type {
	case protocol.CmdJoin:
		ctl.handleJoin(c, env)
	case protocol.CmdCreateRoom:
		ctl.handleCreateRoom(c, env)
	case protocol.CmdJoinRoom:
		ctl.handleJoinRoom(c, env)
	case protocol.CmdLeaveRoom:
		ctl.reply(c, ctl.Intercom.LeaveRoom(c.sessionID()))
	case protocol.CmdChangeMode:
		ctl.handleChangeMode(c, env)
	case protocol.CmdChat:
		ctl.handleChat(c, env)
	case protocol.CmdTyping:
		ctl.handleTyping(c, env)
	case protocol.CmdStartTalk:
		ctl.handleStartTalk(c, env)
	case protocol.CmdStopTalk:
		ctl.reply(c, ctl.Intercom.StopTalk(c.sessionID()))
	case protocol.CmdKillAllAudio:
		ctl.reply(c, ctl.Intercom.KillAllAudio(c.sessionID()))
	case protocol.CmdSignal, protocol.CmdWebRTCSignal:
		ctl.handleSignal(c, env)
	case protocol.CmdStartPoll:
		ctl.handleStartPoll(c, env)
	case protocol.CmdVote:
		ctl.handleVote(c, env)
	case protocol.CmdEndPoll:
		ctl.reply(c, ctl.Intercom.EndPoll(c.sessionID()))
	case protocol.CmdCancelPoll:
		ctl.reply(c, ctl.Intercom.CancelPoll(c.sessionID()))
	case protocol.CmdStartCircleSort:
		ctl.handleStartCircleSort(c, env)
	case protocol.CmdSubmitCircle:
		ctl.handleSubmitCircleSort(c, env)
	default:
		if protocol.PassthroughTypes[env.Type] {
			ctl.handlePassthrough(c, env)
			return
		}
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown command ignored")
	}
}

// reply sends an error frame when an operation failed and stays silent when
// it succeeded; successful operations broadcast their own notifications.
func (ctl *Controller) reply(c *WsConn, err error) {
	if err == nil {
		return
	}
	if err == protocol.ErrMalformedFrame {
		log.Warn().Str("module", "signal").Str("sid", string(c.sessionID())).Msg("malformed payload dropped")
		return
	}
	ctl.sendError(c, err)
}
