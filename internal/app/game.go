package app

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/antirom-design/funkhaus/internal/domain"
	"github.com/antirom-design/funkhaus/internal/protocol"
)

// Delay between a round's leaderboard broadcast and the next round (or the
// final standings).
const (
	roundBreakDelay     = 5 * time.Second
	finalStandingsDelay = 5 * time.Second
)

type gameState struct {
	cfg         domain.CircleSortConfig
	round       int // 1-based
	grid        [][]int
	roundActive bool
	results     []domain.RoundResult
	totals      map[domain.SessionID]int
}

// StartCircleSort launches the multi-round sorting game for a house. Every
// player receives the identical grid; a round-end timer is armed per round.
func (i *Intercom) StartCircleSort(sid domain.SessionID, cmd protocol.StartCircleSortCmd) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, _, err := i.housemasterLocked(sid)
	if err != nil {
		return err
	}
	if h.game != nil {
		return ErrAlreadyActive
	}

	cfg := domain.CircleSortConfig{
		GridSize:   cmd.GridSize,
		ColorCount: cmd.ColorCount,
		TimeLimit:  cmd.TimeLimit,
		Rounds:     cmd.Rounds,
	}.Clamped()

	h.game = &gameState{
		cfg:    cfg,
		round:  1,
		totals: make(map[domain.SessionID]int),
	}
	h.gameGen++
	i.startRoundLocked(h, h.gameGen)

	log.Info().Str("module", "app.game").Str("house", string(h.code)).Int("rounds", cfg.Rounds).Int("grid", cfg.GridSize).Msg("circle sort started")
	return nil
}

// SubmitCircleSort records a player's round result. Duplicate submissions in
// the same round are logged and ignored; the round ends early once every
// current member has submitted.
func (i *Intercom) SubmitCircleSort(sid domain.SessionID, cmd protocol.SubmitCircleSortCmd) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, m, err := i.memberLocked(sid)
	if err != nil {
		return err
	}
	g := h.game
	if g == nil || !g.roundActive {
		return ErrNoActiveGame
	}

	for _, r := range g.results {
		if r.SessionID == sid {
			log.Debug().Str("module", "app.game").Str("sid", string(sid)).Int("round", g.round).Msg("duplicate submission ignored")
			return nil
		}
	}

	g.results = append(g.results, domain.RoundResult{
		SessionID:      sid,
		DisplayName:    m.DisplayName,
		CompletionTime: cmd.CompletionTime,
		Clicks:         cmd.Clicks,
		Score:          cmd.Score,
		Completed:      cmd.Completed,
	})

	if h.allSubmitted() {
		i.endRoundLocked(h, h.gameGen)
	}
	return nil
}

// allSubmitted reports whether every current member has a result for the live
// round. Results from members who have since left do not stand in for anyone.
func (h *house) allSubmitted() bool {
	for sid := range h.members {
		found := false
		for _, r := range h.game.results {
			if r.SessionID == sid {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (i *Intercom) startRoundLocked(h *house, gen uint64) {
	g := h.game
	g.grid = i.newGrid(g.cfg)
	g.results = nil
	g.roundActive = true

	i.broadcastLocked(h, protocol.Encode(protocol.NotifyCircleStarted, struct {
		Round      int     `json:"round"`
		Rounds     int     `json:"rounds"`
		Grid       [][]int `json:"grid"`
		GridSize   int     `json:"gridSize"`
		ColorCount int     `json:"colorCount"`
		TimeLimit  int     `json:"timeLimit"`
	}{
		Round:      g.round,
		Rounds:     g.cfg.Rounds,
		Grid:       g.grid,
		GridSize:   g.cfg.GridSize,
		ColorCount: g.cfg.ColorCount,
		TimeLimit:  g.cfg.TimeLimit,
	}), "")

	code, round := h.code, g.round
	i.after(g.cfg.RoundDuration(), func() { i.roundTimeUp(code, gen, round) })
}

// roundTimeUp fires when a round's clock runs out. A timer for a superseded
// round or a finished game must be a no-op.
func (i *Intercom) roundTimeUp(code domain.HouseCode, gen uint64, round int) {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, ok := i.houses[code]
	if !ok || h.game == nil || h.gameGen != gen {
		return
	}
	if !h.game.roundActive || h.game.round != round {
		return
	}
	i.endRoundLocked(h, gen)
}

func (i *Intercom) endRoundLocked(h *house, gen uint64) {
	g := h.game
	g.roundActive = false

	sort.SliceStable(g.results, func(a, b int) bool {
		if g.results[a].Score != g.results[b].Score {
			return g.results[a].Score > g.results[b].Score
		}
		return g.results[a].CompletionTime < g.results[b].CompletionTime
	})
	for _, r := range g.results {
		g.totals[r.SessionID] += r.Score
	}

	final := g.round >= g.cfg.Rounds
	i.broadcastLocked(h, protocol.Encode(protocol.NotifyCircleEnded, struct {
		Round   int                  `json:"round"`
		Rounds  int                  `json:"rounds"`
		Final   bool                 `json:"final"`
		Results []domain.RoundResult `json:"results"`
	}{Round: g.round, Rounds: g.cfg.Rounds, Final: final, Results: g.results}), "")
	log.Info().Str("module", "app.game").Str("house", string(h.code)).Int("round", g.round).Bool("final", final).Msg("round ended")

	code := h.code
	if final {
		i.after(finalStandingsDelay, func() { i.finishGame(code, gen) })
		return
	}
	round := g.round
	i.after(roundBreakDelay, func() { i.nextRound(code, gen, round) })
}

// nextRound advances to the following round after the break, unless the game
// it was scheduled for is gone.
func (i *Intercom) nextRound(code domain.HouseCode, gen uint64, prevRound int) {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, ok := i.houses[code]
	if !ok || h.game == nil || h.gameGen != gen {
		return
	}
	g := h.game
	if g.roundActive || g.round != prevRound {
		return
	}
	g.round++
	i.startRoundLocked(h, gen)
}

// finishGame publishes cumulative standings, dropping sessions that have
// since left the house, and clears game state.
func (i *Intercom) finishGame(code domain.HouseCode, gen uint64) {
	i.mu.Lock()
	defer i.mu.Unlock()

	h, ok := i.houses[code]
	if !ok || h.game == nil || h.gameGen != gen {
		return
	}
	g := h.game
	h.game = nil
	h.gameGen++

	standings := make([]domain.Standing, 0, len(g.totals))
	for sid, total := range g.totals {
		m, present := h.members[sid]
		if !present {
			continue
		}
		standings = append(standings, domain.Standing{
			SessionID:   sid,
			DisplayName: m.DisplayName,
			TotalScore:  total,
		})
	}
	sort.SliceStable(standings, func(a, b int) bool {
		if standings[a].TotalScore != standings[b].TotalScore {
			return standings[a].TotalScore > standings[b].TotalScore
		}
		return standings[a].SessionID < standings[b].SessionID
	})

	i.broadcastLocked(h, protocol.Encode(protocol.NotifyCircleGameEnded, struct {
		Standings []domain.Standing `json:"standings"`
	}{Standings: standings}), "")
	log.Info().Str("module", "app.game").Str("house", string(h.code)).Int("players", len(standings)).Msg("circle sort finished")
}

// newGrid builds one shared gridSize x gridSize field of color tokens.
func (i *Intercom) newGrid(cfg domain.CircleSortConfig) [][]int {
	grid := make([][]int, cfg.GridSize)
	for row := range grid {
		grid[row] = make([]int, cfg.GridSize)
		for col := range grid[row] {
			grid[row][col] = i.rng.Intn(cfg.ColorCount)
		}
	}
	return grid
}
