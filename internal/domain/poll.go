package domain

import "time"

// Poll duration bounds in seconds. A requested duration outside the range is
// clamped, not rejected.
const (
	MinPollDurationSec = 5
	MaxPollDurationSec = 120
)

// ClampPollDuration maps a requested duration in seconds to the allowed
// range. Zero means "no automatic end".
func ClampPollDuration(sec int) time.Duration {
	if sec <= 0 {
		return 0
	}
	if sec < MinPollDurationSec {
		sec = MinPollDurationSec
	}
	if sec > MaxPollDurationSec {
		sec = MaxPollDurationSec
	}
	return time.Duration(sec) * time.Second
}

type PollOption struct {
	Text  string
	Votes map[SessionID]struct{}
}

// Poll is the per-house ballot state. At most one exists per house.
type Poll struct {
	Question       string
	Options        []PollOption
	MultipleChoice bool
	ShowRealtime   bool
	StartedAt      time.Time
	EndsAt         time.Time // zero when no duration was given
}

func NewPoll(question string, options []string, multiple, realtime bool, startedAt time.Time) *Poll {
	p := &Poll{
		Question:       question,
		Options:        make([]PollOption, 0, len(options)),
		MultipleChoice: multiple,
		ShowRealtime:   realtime,
		StartedAt:      startedAt,
	}
	for _, text := range options {
		p.Options = append(p.Options, PollOption{Text: text, Votes: make(map[SessionID]struct{})})
	}
	return p
}

// PollTally is the broadcast-facing view of one option.
type PollTally struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

func (p *Poll) Tallies() []PollTally {
	out := make([]PollTally, 0, len(p.Options))
	for _, opt := range p.Options {
		out = append(out, PollTally{Text: opt.Text, Votes: len(opt.Votes)})
	}
	return out
}
