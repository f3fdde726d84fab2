// Command handfoot plays one seeded Hand and Foot game headlessly, choosing
// the first sensible legal move for every seat. It exercises the table
// service with whatever action log and result store are configured.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/handfoot/engine"
	"github.com/jason-s-yu/handfoot/internal/cache"
	"github.com/jason-s-yu/handfoot/internal/config"
	"github.com/jason-s-yu/handfoot/internal/database"
	"github.com/jason-s-yu/handfoot/internal/game"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "handfoot:", err)
		os.Exit(1)
	}
}

// connectTimeout bounds dialling the stores; historyTimeout bounds the action
// log read after the game.
const (
	connectTimeout = 10 * time.Second
	historyTimeout = 5 * time.Second
)

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	var opts []game.Option
	opts = append(opts, game.WithLogger(log))

	var pub *cache.Publisher
	if cfg.RedisAddr != "" {
		pub, err = cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer pub.Close()
		opts = append(opts, game.WithActionPublisher(pub))
		log.WithField("addr", cfg.RedisAddr).Info("action log enabled")
	}

	if cfg.DatabaseURL != "" {
		store, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		opts = append(opts, game.WithResultRecorder(store))
		log.Info("result store enabled")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rules := engine.DefaultRules()
	rules.NumPlayers = cfg.Players

	players := make([]game.PlayerInfo, cfg.Players)
	for i := range players {
		players[i] = game.PlayerInfo{ID: uuid.New(), Name: fmt.Sprintf("Seat %d", i+1)}
	}
	tbl, err := game.NewTable(rules, seed, players, opts...)
	if err != nil {
		return err
	}
	tbl.OnRoundEnd = func(_ uuid.UUID, round int, scores []engine.TeamScore) {
		for _, s := range scores {
			log.WithFields(logrus.Fields{
				"round": round,
				"team":  s.Team,
				"total": s.Total,
				"score": s.ScoreAfter,
			}).Info("round scored")
		}
	}

	turns, err := playOut(tbl, cfg.MaxTurns)
	tbl.Close()
	if err != nil {
		return err
	}

	final := tbl.View(uuid.Nil)
	for _, tm := range final.Teams {
		log.WithFields(logrus.Fields{"team": tm.Name, "score": tm.Score}).Info("final score")
	}
	log.WithFields(logrus.Fields{"table": tbl.ID, "seed": seed, "moves": turns}).Info("game finished")

	if pub != nil {
		return logHistory(pub, tbl.ID, log)
	}
	return nil
}

type historyReader interface {
	History(ctx context.Context, tableID uuid.UUID) ([]cache.ActionRecord, error)
}

// logHistory reads back the table's action log under a fresh historyTimeout
// deadline.
func logHistory(h historyReader, tableID uuid.UUID, log logrus.FieldLogger) error {
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()
	history, err := h.History(ctx, tableID)
	if err != nil {
		return fmt.Errorf("read action log: %w", err)
	}
	log.WithField("records", len(history)).Info("action log written")
	return nil
}

// playOut drives the table to the end of the game and returns the number of
// moves played.
func playOut(tbl *game.Table, maxTurns int) (int, error) {
	moves := 0
	for {
		switch tbl.Phase() {
		case engine.PhaseGameComplete:
			return moves, nil
		case engine.PhaseRoundComplete:
			if err := tbl.StartNextRound(); err != nil {
				return moves, err
			}
			continue
		}
		if moves >= maxTurns {
			return moves, fmt.Errorf("game not finished after %d moves", moves)
		}
		current := tbl.CurrentPlayer()
		m, ok, err := tbl.NextMove(current)
		if err != nil {
			return moves, err
		}
		if !ok {
			return moves, fmt.Errorf("no legal move for player %s", current)
		}
		if err := tbl.Play(current, m); err != nil {
			return moves, fmt.Errorf("move %d (%s): %w", moves, m.Kind, err)
		}
		moves++
	}
}
