package signal

import (
	"github.com/antirom-design/funkhaus/internal/protocol"
)

func (ctl *Controller) handleStartTalk(c *WsConn, env protocol.Envelope) {
	var cmd protocol.StartTalkCmd
	if err := protocol.DecodeData(env, &cmd); err != nil {
		ctl.reply(c, err)
		return
	}
	if cmd.Target == "" {
		cmd.Target = protocol.TargetAll
	}
	ctl.reply(c, ctl.Intercom.StartTalk(c.sessionID(), cmd.Target))
}

func (ctl *Controller) handleSignal(c *WsConn, env protocol.Envelope) {
	var cmd protocol.SignalCmd
	if err := protocol.DecodeData(env, &cmd); err != nil {
		ctl.reply(c, err)
		return
	}
	ctl.reply(c, ctl.Intercom.RelaySignal(c.sessionID(), cmd.Recipient(), cmd.Signal))
}
