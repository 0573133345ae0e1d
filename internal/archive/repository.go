package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

const schema = `CREATE TABLE IF NOT EXISTS fics_games (
    game_id TEXT PRIMARY KEY,
    slot INTEGER NOT NULL,
    white_name TEXT NOT NULL,
    black_name TEXT NOT NULL,
    white_rating TEXT,
    black_rating TEXT,
    time_control TEXT NOT NULL,
    result TEXT NOT NULL,
    result_description TEXT,
    start_fen TEXT,
    final_fen TEXT NOT NULL,
    moves_san JSONB NOT NULL,
    eco TEXT,
    opening TEXT,
    pgn TEXT NOT NULL,
    started_at TIMESTAMPTZ NOT NULL,
    ended_at TIMESTAMPTZ NOT NULL,
    duration_ms BIGINT NOT NULL
)`

const upsertGame = `INSERT INTO fics_games (
    game_id, slot, white_name, black_name, white_rating, black_rating,
    time_control, result, result_description, start_fen, final_fen,
    moves_san, eco, opening, pgn, started_at, ended_at, duration_ms
  ) VALUES (
    $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18
  ) ON CONFLICT (game_id) DO UPDATE SET
    slot=EXCLUDED.slot,
    white_name=EXCLUDED.white_name,
    black_name=EXCLUDED.black_name,
    white_rating=EXCLUDED.white_rating,
    black_rating=EXCLUDED.black_rating,
    time_control=EXCLUDED.time_control,
    result=EXCLUDED.result,
    result_description=EXCLUDED.result_description,
    start_fen=EXCLUDED.start_fen,
    final_fen=EXCLUDED.final_fen,
    moves_san=EXCLUDED.moves_san,
    eco=EXCLUDED.eco,
    opening=EXCLUDED.opening,
    pgn=EXCLUDED.pgn,
    started_at=EXCLUDED.started_at,
    ended_at=EXCLUDED.ended_at,
    duration_ms=EXCLUDED.duration_ms`

// Repository stores finished games in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Repository{db: db}, nil
}

// EnsureSchema creates the games table when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if r == nil || r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveGame upserts a finished game.
func (r *Repository) SaveGame(ctx context.Context, rec *Record) error {
	if r == nil || r.db == nil || rec == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, upsertGame, upsertArgs(rec)...); err != nil {
		return fmt.Errorf("upsert game %s: %w", rec.ID, err)
	}
	return nil
}

func upsertArgs(rec *Record) []any {
	moves := rec.Moves
	if moves == nil {
		moves = []string{}
	}
	movesRaw, _ := json.Marshal(moves)
	return []any{
		rec.ID.String(), rec.Slot,
		rec.White, rec.Black,
		nullable(rec.WhiteRating), nullable(rec.BlackRating),
		fmt.Sprintf("%d+%d", rec.InitialMinutes*60, rec.IncrementSeconds),
		mapResultToPGN(rec.Result), nullable(rec.Description),
		nullable(rec.StartFEN), rec.FinalFEN,
		string(movesRaw), nullable(rec.ECO), nullable(rec.Opening), rec.PGN,
		rec.StartedAt, rec.EndedAt, rec.Duration().Milliseconds(),
	}
}

func nullable(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
