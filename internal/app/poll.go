package app

import (
	"github.com/rs/zerolog/log"

	"github.com/antirom-design/funkhaus/internal/domain"
	"github.com/antirom-design/funkhaus/internal/protocol"
)

// StartPoll creates the house's single poll. With a duration it also arms an
// auto-end timer; the timer carries the poll generation and is a no-op if a
// different poll (or none) is live when it fires.
func (i *Intercom) StartPoll(sid domain.SessionID, cmd protocol.StartPollCmd) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, _, err := i.housemasterLocked(sid)
	if err != nil {
		return err
	}
	if h.poll != nil {
		return ErrAlreadyActive
	}
	if cmd.Question == "" || len(cmd.Options) < 2 {
		return ErrBadPoll
	}

	poll := domain.NewPoll(cmd.Question, cmd.Options, cmd.MultipleChoice, cmd.ShowRealtime, i.now())
	duration := domain.ClampPollDuration(cmd.Duration)
	if duration > 0 {
		poll.EndsAt = poll.StartedAt.Add(duration)
	}
	h.poll = poll
	h.pollGen++
	gen := h.pollGen

	i.broadcastLocked(h, protocol.Encode(protocol.NotifyPollStarted, pollStartedData(poll)), "")
	log.Info().Str("module", "app.poll").Str("house", string(h.code)).Str("question", cmd.Question).Dur("duration", duration).Msg("poll started")

	if duration > 0 {
		code := h.code
		i.after(duration, func() { i.pollExpired(code, gen) })
	}
	return nil
}

// Vote records or toggles a vote. Single-choice re-votes move the vote
// instead of adding a second one.
func (i *Intercom) Vote(sid domain.SessionID, optionIndex int) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, _, err := i.memberLocked(sid)
	if err != nil {
		return err
	}
	if h.poll == nil {
		return ErrNoActivePoll
	}
	if optionIndex < 0 || optionIndex >= len(h.poll.Options) {
		return ErrInvalidOption
	}

	opt := &h.poll.Options[optionIndex]
	if h.poll.MultipleChoice {
		if _, voted := opt.Votes[sid]; voted {
			delete(opt.Votes, sid)
		} else {
			opt.Votes[sid] = struct{}{}
		}
	} else {
		for idx := range h.poll.Options {
			delete(h.poll.Options[idx].Votes, sid)
		}
		opt.Votes[sid] = struct{}{}
	}

	if h.poll.ShowRealtime {
		i.broadcastLocked(h, protocol.Encode(protocol.NotifyPollUpdate, struct {
			Question string             `json:"question"`
			Tallies  []domain.PollTally `json:"tallies"`
		}{Question: h.poll.Question, Tallies: h.poll.Tallies()}), "")
	}
	return nil
}

// EndPoll broadcasts final tallies and clears the poll.
func (i *Intercom) EndPoll(sid domain.SessionID) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, _, err := i.housemasterLocked(sid)
	if err != nil {
		return err
	}
	if h.poll == nil {
		return ErrNoActivePoll
	}
	i.endPollLocked(h)
	return nil
}

// CancelPoll discards the poll without publishing tallies.
func (i *Intercom) CancelPoll(sid domain.SessionID) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, _, err := i.housemasterLocked(sid)
	if err != nil {
		return err
	}
	if h.poll == nil {
		return ErrNoActivePoll
	}
	h.poll = nil
	h.pollGen++
	i.broadcastLocked(h, protocol.Encode(protocol.NotifyPollCanceled, struct{}{}), "")
	log.Info().Str("module", "app.poll").Str("house", string(h.code)).Msg("poll canceled")
	return nil
}

// pollExpired is the timer callback. It must produce the exact broadcast an
// explicit end does, and must do nothing when its poll is no longer current.
func (i *Intercom) pollExpired(code domain.HouseCode, gen uint64) {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, ok := i.houses[code]
	if !ok || h.poll == nil || h.pollGen != gen {
		return
	}
	i.endPollLocked(h)
}

func (i *Intercom) endPollLocked(h *house) {
	poll := h.poll
	h.poll = nil
	h.pollGen++
	i.broadcastLocked(h, protocol.Encode(protocol.NotifyPollEnded, struct {
		Question string             `json:"question"`
		Tallies  []domain.PollTally `json:"tallies"`
	}{Question: poll.Question, Tallies: poll.Tallies()}), "")
	log.Info().Str("module", "app.poll").Str("house", string(h.code)).Msg("poll ended")
}

func pollStartedData(p *domain.Poll) any {
	data := struct {
		Question       string             `json:"question"`
		Tallies        []domain.PollTally `json:"tallies"`
		MultipleChoice bool               `json:"multipleChoice"`
		ShowRealtime   bool               `json:"showRealtime"`
		EndsAt         int64              `json:"endsAt,omitempty"`
	}{
		Question:       p.Question,
		Tallies:        p.Tallies(),
		MultipleChoice: p.MultipleChoice,
		ShowRealtime:   p.ShowRealtime,
	}
	if !p.EndsAt.IsZero() {
		data.EndsAt = p.EndsAt.UnixMilli()
	}
	return data
}
