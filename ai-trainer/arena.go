package main

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
)

type standing struct {
	ID     string  `json:"id"`
	Elo    float64 `json:"elo"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	Draws  int     `json:"draws"`
}

type matchInfo struct {
	ID    string `json:"id"`
	Round int    `json:"round"`
	Black string `json:"black"`
	White string `json:"white"`
	Stage string `json:"stage"`
}

type matchEntry struct {
	ID     string `json:"id"`
	Black  string `json:"black"`
	White  string `json:"white"`
	Winner int    `json:"winner"`
	Moves  int    `json:"moves"`
}

// scoreForBlack is 1, 0 or 0.5 for a black win, loss or draw.
func (m matchEntry) scoreForBlack() float64 {
	switch m.Winner {
	case 1:
		return 1
	case 2:
		return 0
	default:
		return 0.5
	}
}

type table struct {
	byID map[string]*standing
	k    float64
}

func newTable(ids []string, initialElo, k float64) *table {
	t := &table{byID: make(map[string]*standing, len(ids)), k: k}
	for _, id := range ids {
		t.byID[id] = &standing{ID: id, Elo: initialElo}
	}
	return t
}

func (t *table) record(m matchEntry) {
	black, white := t.byID[m.Black], t.byID[m.White]
	if black == nil || white == nil {
		return
	}
	result := m.scoreForBlack()
	updateElo(black, white, result, t.k)
	switch result {
	case 1:
		black.Wins++
		white.Losses++
	case 0:
		black.Losses++
		white.Wins++
	default:
		black.Draws++
		white.Draws++
	}
}

// ranked returns a copy ordered by Elo, best first; ties keep id order.
func (t *table) ranked() []standing {
	out := make([]standing, 0, len(t.byID))
	for _, s := range t.byID {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Elo != out[j].Elo {
			return out[i].Elo > out[j].Elo
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func updateElo(a, b *standing, resultForA, k float64) {
	expA := 1.0 / (1.0 + math.Pow(10, (b.Elo-a.Elo)/400.0))
	expB := 1.0 - expA
	a.Elo += k * (resultForA - expA)
	b.Elo += k * ((1.0 - resultForA) - expB)
}

// roundRobin pairs every strategy with every other once.
func roundRobin(ids []string) [][2]string {
	pairs := [][2]string{}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			pairs = append(pairs, [2]string{ids[i], ids[j]})
		}
	}
	return pairs
}

func (a *arena) resolveStrategies() ([]string, error) {
	infos, err := a.backend.strategies()
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(infos))
	all := make([]string, 0, len(infos))
	for _, info := range infos {
		known[info.ID] = true
		all = append(all, info.ID)
	}
	ids := all
	if len(a.cfg.Strategies) > 0 {
		ids = a.cfg.Strategies
		for _, id := range ids {
			if !known[id] {
				return nil, fmt.Errorf("backend has no strategy %q", id)
			}
		}
	}
	if len(ids) < 2 {
		return nil, fmt.Errorf("need at least two strategies, got %d", len(ids))
	}
	return ids, nil
}

func (a *arena) run(ctx context.Context) error {
	ids, err := a.resolveStrategies()
	if err != nil {
		return err
	}
	standings := newTable(ids, a.cfg.InitialElo, a.cfg.EloK)
	a.updateStatus(func(s *arenaStatus) {
		s.Phase = "running"
		s.Message = fmt.Sprintf("%d strategies", len(ids))
		s.Standings = standings.ranked()
	})

	for round := 1; a.cfg.Rounds == 0 || round <= a.cfg.Rounds; round++ {
		pairs := roundRobin(ids)
		frand.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
		a.updateStatus(func(s *arenaStatus) { s.Round = round })
		for _, pair := range pairs {
			for _, seats := range [][2]string{{pair[0], pair[1]}, {pair[1], pair[0]}} {
				entry, err := a.playMatch(ctx, round, seats[0], seats[1])
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if err != nil {
					log.Warn().Err(err).Str("black", seats[0]).Str("white", seats[1]).Msg("match abandoned")
					continue
				}
				standings.record(entry)
				log.Info().
					Str("match", entry.ID).
					Str("black", entry.Black).
					Str("white", entry.White).
					Int("winner", entry.Winner).
					Int("moves", entry.Moves).
					Msg("match finished")
				a.updateStatus(func(s *arenaStatus) {
					s.GamesPlayed++
					s.Standings = standings.ranked()
					s.LastResult = &entry
				})
			}
		}
	}
	return nil
}

func (a *arena) playMatch(ctx context.Context, round int, black, white string) (matchEntry, error) {
	info := matchInfo{ID: uuid.NewString(), Round: round, Black: black, White: white, Stage: "opening"}
	a.updateStatus(func(s *arenaStatus) { s.CurrentMatch = &info })

	if err := a.backend.startOpening(a.cfg.BoardSize, a.cfg.Adjacency); err != nil {
		return matchEntry{}, err
	}
	sticky := a.cfg.Adjacency == "sticky"
	for ply := 0; ply < a.cfg.OpeningPlies; ply++ {
		moves, err := a.backend.validMoves()
		if err != nil {
			return matchEntry{}, err
		}
		status, err := a.backend.status()
		if err != nil {
			return matchEntry{}, err
		}
		move, ok := pickOpeningMove(moves, status.Stones, sticky, frand.Intn)
		if !ok {
			break
		}
		if err := a.backend.play(move); err != nil {
			return matchEntry{}, err
		}
	}

	info.Stage = "playing"
	a.updateStatus(func(s *arenaStatus) { s.CurrentMatch = &info })
	if err := a.backend.seatEngines(black, white); err != nil {
		return matchEntry{}, err
	}
	status, err := a.waitForResult(ctx)
	if err != nil {
		return matchEntry{}, err
	}
	return matchEntry{ID: info.ID, Black: black, White: white, Winner: status.Winner, Moves: status.MoveCount}, nil
}

func (a *arena) waitForResult(ctx context.Context) (statusResponse, error) {
	deadline := time.Now().Add(a.cfg.GameTimeout)
	for {
		status, err := a.backend.status()
		if err != nil {
			return statusResponse{}, err
		}
		if status.Status != "running" {
			return status, nil
		}
		if a.cfg.GameTimeout > 0 && time.Now().After(deadline) {
			_ = a.backend.stopGame()
			return statusResponse{}, fmt.Errorf("game timeout after %s", a.cfg.GameTimeout)
		}
		if !sleepWithContext(ctx, a.cfg.PollInterval) {
			_ = a.backend.stopGame()
			return statusResponse{}, ctx.Err()
		}
	}
}

// pickOpeningMove draws a random cell from moves. With sticky adjacency and
// stones on the board only face neighbours of a stone qualify.
func pickOpeningMove(moves []cell, stones []stone, sticky bool, intn func(int) int) (cell, bool) {
	pool := moves
	if sticky && len(stones) > 0 {
		pool = make([]cell, 0, len(moves))
		for _, m := range moves {
			if touchesStone(m, stones) {
				pool = append(pool, m)
			}
		}
	}
	if len(pool) == 0 {
		return cell{}, false
	}
	return pool[intn(len(pool))], true
}

func touchesStone(c cell, stones []stone) bool {
	for _, s := range stones {
		d := abs(c.X-s.X) + abs(c.Y-s.Y) + abs(c.Z-s.Z) + abs(c.W-s.W)
		if d == 1 {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
