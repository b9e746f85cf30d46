package signal

import (
	"github.com/antirom-design/funkhaus/internal/protocol"
)

func (ctl *Controller) handleStartPoll(c *WsConn, env protocol.Envelope) {
	var cmd protocol.StartPollCmd
	if err := protocol.DecodeData(env, &cmd); err != nil {
		ctl.reply(c, err)
		return
	}
	ctl.reply(c, ctl.Intercom.StartPoll(c.sessionID(), cmd))
}

func (ctl *Controller) handleVote(c *WsConn, env protocol.Envelope) {
	var cmd protocol.VoteCmd
	if err := protocol.DecodeData(env, &cmd); err != nil {
		ctl.reply(c, err)
		return
	}
	ctl.reply(c, ctl.Intercom.Vote(c.sessionID(), cmd.OptionIndex))
}

func (ctl *Controller) handleStartCircleSort(c *WsConn, env protocol.Envelope) {
	var cmd protocol.StartCircleSortCmd
	if err := protocol.DecodeData(env, &cmd); err != nil {
		ctl.reply(c, err)
		return
	}
	ctl.reply(c, ctl.Intercom.StartCircleSort(c.sessionID(), cmd))
}

func (ctl *Controller) handleSubmitCircleSort(c *WsConn, env protocol.Envelope) {
	var cmd protocol.SubmitCircleSortCmd
	if err := protocol.DecodeData(env, &cmd); err != nil {
		ctl.reply(c, err)
		return
	}
	ctl.reply(c, ctl.Intercom.SubmitCircleSort(c.sessionID(), cmd))
}
