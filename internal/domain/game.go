package domain

import "time"

// CircleSortConfig bounds. Values outside are clamped on start.
const (
	MinGridSize      = 2
	MaxGridSize      = 10
	MinColorCount    = 2
	MaxColorCount    = 8
	MinRoundTimeSec  = 10
	MaxRoundTimeSec  = 300
	MinRounds        = 1
	MaxRounds        = 10
	DefaultGridSize  = 6
	DefaultColors    = 4
	DefaultRoundTime = 60
	DefaultRounds    = 3
)

// CircleSortConfig is the housemaster-chosen shape of a sorting game.
type CircleSortConfig struct {
	GridSize   int `json:"gridSize"`
	ColorCount int `json:"colorCount"`
	TimeLimit  int `json:"timeLimit"` // seconds per round
	Rounds     int `json:"rounds"`
}

func (c CircleSortConfig) Clamped() CircleSortConfig {
	out := c
	if out.GridSize == 0 {
		out.GridSize = DefaultGridSize
	}
	if out.ColorCount == 0 {
		out.ColorCount = DefaultColors
	}
	if out.TimeLimit == 0 {
		out.TimeLimit = DefaultRoundTime
	}
	if out.Rounds == 0 {
		out.Rounds = DefaultRounds
	}
	out.GridSize = clamp(out.GridSize, MinGridSize, MaxGridSize)
	out.ColorCount = clamp(out.ColorCount, MinColorCount, MaxColorCount)
	out.TimeLimit = clamp(out.TimeLimit, MinRoundTimeSec, MaxRoundTimeSec)
	out.Rounds = clamp(out.Rounds, MinRounds, MaxRounds)
	return out
}

func (c CircleSortConfig) RoundDuration() time.Duration {
	return time.Duration(c.TimeLimit) * time.Second
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RoundResult is one session's submission for one round.
type RoundResult struct {
	SessionID      SessionID `json:"sessionId"`
	DisplayName    string    `json:"name"`
	CompletionTime float64   `json:"completionTime"` // seconds
	Clicks         int       `json:"clicks"`
	Score          int       `json:"score"`
	Completed      bool      `json:"completed"`
}

// Standing is a cumulative leaderboard row.
type Standing struct {
	SessionID   SessionID `json:"sessionId"`
	DisplayName string    `json:"name"`
	TotalScore  int       `json:"totalScore"`
}
