// Package database stores finished round results in Postgres.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// conn is the subset of pgxpool.Pool the store needs. A pgx.Tx satisfies it
// too, with Begin opening a savepoint.
type conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TeamResult is one team's line in a finished round.
type TeamResult struct {
	Team        int
	Name        string
	CleanBooks  int
	DirtyBooks  int
	WildBooks   int
	ThreesBooks int
	BookPoints  int
	MeldPoints  int
	Penalty     int
	GoingOut    int
	Total       int
	ScoreAfter  int
}

// RoundResult is a finished round as recorded by a table.
type RoundResult struct {
	TableID    uuid.UUID
	Round      int
	EndReason  string
	WentOut    uuid.UUID // uuid.Nil when the stock ran out
	Teams      []TeamResult
	RecordedAt time.Time
}

// Store writes round results.
type Store struct {
	db   conn
	pool *pgxpool.Pool
}

// NewStore wraps an open connection, such as a pgx.Tx.
func NewStore(db conn) *Store {
	return &Store{db: db}
}

// Connect opens a pool for databaseURL and pings it.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 4
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: pool, pool: pool}, nil
}

// Close releases the pool, if the store owns one.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS round_results (
		table_id     UUID        NOT NULL,
		round        INTEGER     NOT NULL,
		end_reason   TEXT        NOT NULL,
		went_out     UUID,
		recorded_at  TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (table_id, round)
	)`,
	`CREATE TABLE IF NOT EXISTS round_team_scores (
		table_id     UUID    NOT NULL,
		round        INTEGER NOT NULL,
		team         INTEGER NOT NULL,
		team_name    TEXT    NOT NULL,
		clean_books  INTEGER NOT NULL,
		dirty_books  INTEGER NOT NULL,
		wild_books   INTEGER NOT NULL,
		threes_books INTEGER NOT NULL,
		book_points  INTEGER NOT NULL,
		meld_points  INTEGER NOT NULL,
		penalty      INTEGER NOT NULL,
		going_out    INTEGER NOT NULL,
		total        INTEGER NOT NULL,
		score_after  INTEGER NOT NULL,
		PRIMARY KEY (table_id, round, team),
		FOREIGN KEY (table_id, round) REFERENCES round_results (table_id, round) ON DELETE CASCADE
	)`,
}

// Migrate creates the result tables when missing.
func (s *Store) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

const insertRound = `INSERT INTO round_results (table_id, round, end_reason, went_out, recorded_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (table_id, round) DO UPDATE
SET end_reason = EXCLUDED.end_reason, went_out = EXCLUDED.went_out, recorded_at = EXCLUDED.recorded_at`

const insertTeamScore = `INSERT INTO round_team_scores (table_id, round, team, team_name,
	clean_books, dirty_books, wild_books, threes_books,
	book_points, meld_points, penalty, going_out, total, score_after)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (table_id, round, team) DO UPDATE
SET team_name = EXCLUDED.team_name,
	clean_books = EXCLUDED.clean_books, dirty_books = EXCLUDED.dirty_books,
	wild_books = EXCLUDED.wild_books, threes_books = EXCLUDED.threes_books,
	book_points = EXCLUDED.book_points, meld_points = EXCLUDED.meld_points,
	penalty = EXCLUDED.penalty, going_out = EXCLUDED.going_out,
	total = EXCLUDED.total, score_after = EXCLUDED.score_after`

// RecordRound stores res in one transaction. Recording the same round again
// overwrites it.
func (s *Store) RecordRound(ctx context.Context, res RoundResult) error {
	if res.RecordedAt.IsZero() {
		res.RecordedAt = time.Now().UTC()
	}
	var wentOut any
	if res.WentOut != uuid.Nil {
		wentOut = res.WentOut
	}
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertRound, res.TableID, res.Round, res.EndReason, wentOut, res.RecordedAt); err != nil {
			return fmt.Errorf("record round %d for table %s: %w", res.Round, res.TableID, err)
		}
		for _, t := range res.Teams {
			_, err := tx.Exec(ctx, insertTeamScore, res.TableID, res.Round, t.Team, t.Name,
				t.CleanBooks, t.DirtyBooks, t.WildBooks, t.ThreesBooks,
				t.BookPoints, t.MeldPoints, t.Penalty, t.GoingOut, t.Total, t.ScoreAfter)
			if err != nil {
				return fmt.Errorf("record team %d score for round %d: %w", t.Team, res.Round, err)
			}
		}
		return nil
	})
}
