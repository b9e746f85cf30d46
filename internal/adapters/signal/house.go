package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/antirom-design/funkhaus/internal/domain"
	"github.com/antirom-design/funkhaus/internal/protocol"
)

func (ctl *Controller) handleJoin(c *WsConn, env protocol.Envelope) {
	var cmd protocol.JoinCmd
	if err := protocol.DecodeData(env, &cmd); err != nil {
		ctl.reply(c, err)
		return
	}

	sid := domain.SessionID(cmd.SessionID)
	if !ctl.limiter.Allow(sid) {
		ctl.sendJSON(c, protocol.ErrorFrame("too many join attempts"))
		return
	}

	// The display name defaults to the room name the client picked; the flat
	// protocol variant used them interchangeably.
	name := cmd.RoomName
	if name == "" {
		name = cmd.SessionID
	}

	err := ctl.Intercom.Join(
		domain.HouseCode(cmd.HouseCode),
		domain.RoomName(cmd.RoomName),
		sid,
		name,
		c,
	)
	if err != nil {
		ctl.sendError(c, err)
		return
	}
	c.bind(sid)
	log.Info().Str("module", "signal").Str("sid", cmd.SessionID).Str("house", cmd.HouseCode).Msg("join")
}

func (ctl *Controller) handleCreateRoom(c *WsConn, env protocol.Envelope) {
	var cmd protocol.CreateRoomCmd
	if err := protocol.DecodeData(env, &cmd); err != nil {
		ctl.reply(c, err)
		return
	}
	ctl.reply(c, ctl.Intercom.CreateRoom(c.sessionID(), domain.RoomName(cmd.Name), cmd.Permanent))
}

func (ctl *Controller) handleJoinRoom(c *WsConn, env protocol.Envelope) {
	var cmd protocol.JoinRoomCmd
	if err := protocol.DecodeData(env, &cmd); err != nil {
		ctl.reply(c, err)
		return
	}
	ctl.reply(c, ctl.Intercom.JoinRoom(c.sessionID(), domain.RoomName(cmd.Name)))
}

func (ctl *Controller) handleChangeMode(c *WsConn, env protocol.Envelope) {
	var cmd protocol.ChangeModeCmd
	if err := protocol.DecodeData(env, &cmd); err != nil {
		ctl.reply(c, err)
		return
	}
	ctl.reply(c, ctl.Intercom.ChangeMode(c.sessionID(), domain.Mode(cmd.Mode)))
}

func (ctl *Controller) handleChat(c *WsConn, env protocol.Envelope) {
	var cmd protocol.ChatCmd
	if err := protocol.DecodeData(env, &cmd); err != nil {
		ctl.reply(c, err)
		return
	}
	ctl.reply(c, ctl.Intercom.Chat(c.sessionID(), cmd.Text, cmd.Target))
}

func (ctl *Controller) handleTyping(c *WsConn, env protocol.Envelope) {
	var cmd protocol.TypingCmd
	if err := protocol.DecodeData(env, &cmd); err != nil {
		ctl.reply(c, err)
		return
	}
	ctl.reply(c, ctl.Intercom.Typing(c.sessionID(), cmd.IsTyping, cmd.Target))
}

func (ctl *Controller) handlePassthrough(c *WsConn, env protocol.Envelope) {
	ctl.reply(c, ctl.Intercom.Passthrough(c.sessionID(), env.Type, env.Data))
}
