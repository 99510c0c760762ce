package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"holdco/internal/game"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("not the owner")
)

// Store persists games as schema-versioned JSON snapshots plus challenge
// metadata. Game state is opaque to SQL; ranking columns are denormalized
// on write so the leaderboard is a plain index scan.
type Store struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func New(db *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, log: logger}
}

// EnsureSchema creates the tables on first boot. Idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS games (
			id          TEXT PRIMARY KEY,
			player      TEXT NOT NULL,
			mode        TEXT NOT NULL,
			seed        BIGINT NOT NULL,
			round       INT NOT NULL,
			outcome     TEXT NOT NULL,
			state       JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS games_player_idx ON games (player, updated_at DESC);

		CREATE TABLE IF NOT EXISTS challenges (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			mode        TEXT NOT NULL,
			seed        BIGINT NOT NULL,
			created_by  TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS challenge_runs (
			id           TEXT PRIMARY KEY,
			challenge_id TEXT NOT NULL REFERENCES challenges(id),
			player       TEXT NOT NULL,
			fev_micros   BIGINT NOT NULL,
			score_total  INT NOT NULL,
			grade        TEXT NOT NULL,
			actions      JSONB NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (challenge_id, player)
		);
		CREATE INDEX IF NOT EXISTS challenge_runs_rank_idx
			ON challenge_runs (challenge_id, fev_micros DESC);
	`)
	return err
}

type GameRow struct {
	ID        string    `json:"id"`
	Player    string    `json:"player"`
	Mode      string    `json:"mode"`
	Seed      uint32    `json:"seed"`
	Round     int       `json:"round"`
	Outcome   string    `json:"outcome"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Store) CreateGame(ctx context.Context, player string, st *game.GameState) error {
	raw, err := game.Encode(st)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO games (id, player, mode, seed, round, outcome, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, st.ID, player, st.Mode, int64(st.Seed), st.Round, string(st.Outcome), raw)
	return err
}

// SaveGame rewrites the snapshot after an action. The owner check rides on
// the WHERE clause so a stale or foreign write is a no-op we can report.
func (s *Store) SaveGame(ctx context.Context, player string, st *game.GameState) error {
	raw, err := game.Encode(st)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE games
		SET round = $1, outcome = $2, state = $3, updated_at = now()
		WHERE id = $4 AND player = $5
	`, st.Round, string(st.Outcome), raw, st.ID, player)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrForbidden
	}
	return nil
}

func (s *Store) GetGame(ctx context.Context, player, id string) (*game.GameState, error) {
	var owner string
	var raw []byte
	err := s.db.QueryRow(ctx, `
		SELECT player, state FROM games WHERE id = $1
	`, id).Scan(&owner, &raw)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if owner != player {
		return nil, ErrForbidden
	}
	return game.Decode(raw)
}

func (s *Store) ListGames(ctx context.Context, player string, limit int) ([]GameRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, player, mode, seed, round, outcome, updated_at
		FROM games
		WHERE player = $1
		ORDER BY updated_at DESC
		LIMIT $2
	`, player, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]GameRow, 0)
	for rows.Next() {
		var r GameRow
		var seed int64
		if err := rows.Scan(&r.ID, &r.Player, &r.Mode, &seed, &r.Round, &r.Outcome, &r.UpdatedAt); err != nil {
			return nil, err
		}
		r.Seed = uint32(seed)
		out = append(out, r)
	}
	return out, rows.Err()
}

type Challenge struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Mode      string    `json:"mode"`
	Seed      uint32    `json:"seed"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Store) CreateChallenge(ctx context.Context, c Challenge) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO challenges (id, name, mode, seed, created_by)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Name, c.Mode, int64(c.Seed), c.CreatedBy)
	return err
}

func (s *Store) GetChallenge(ctx context.Context, id string) (Challenge, error) {
	var c Challenge
	var seed int64
	err := s.db.QueryRow(ctx, `
		SELECT id, name, mode, seed, created_by, created_at
		FROM challenges WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Mode, &seed, &c.CreatedBy, &c.CreatedAt)
	if err == pgx.ErrNoRows {
		return c, ErrNotFound
	}
	if err != nil {
		return c, err
	}
	c.Seed = uint32(seed)
	return c, nil
}

type ChallengeRun struct {
	ID          string `json:"id"`
	ChallengeID string `json:"challenge_id"`
	Player      string `json:"player"`
	FEVMicros   int64  `json:"fev_micros"` // founder equity value, mode-weighted for ranking
	ScoreTotal  int    `json:"score_total"`
	Grade       string `json:"grade"`
}

// SubmitRun records a verified replay. A new attempt by the same player
// keeps whichever run marks higher.
func (s *Store) SubmitRun(ctx context.Context, run ChallengeRun, actions []byte) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO challenge_runs (id, challenge_id, player, fev_micros, score_total, grade, actions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (challenge_id, player) DO UPDATE
		SET id = EXCLUDED.id,
		    fev_micros = EXCLUDED.fev_micros,
		    score_total = EXCLUDED.score_total,
		    grade = EXCLUDED.grade,
		    actions = EXCLUDED.actions,
		    created_at = now()
		WHERE challenge_runs.fev_micros < EXCLUDED.fev_micros
	`, run.ID, run.ChallengeID, run.Player, run.FEVMicros, run.ScoreTotal, run.Grade, actions)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type LeaderboardRow struct {
	Rank       int    `json:"rank"`
	Player     string `json:"player"`
	FEVMicros  int64  `json:"fev_micros"`
	ScoreTotal int    `json:"score_total"`
	Grade      string `json:"grade"`
}

func (s *Store) Leaderboard(ctx context.Context, challengeID string, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.Query(ctx, `
		SELECT player, fev_micros, score_total, grade
		FROM challenge_runs
		WHERE challenge_id = $1
		ORDER BY fev_micros DESC, created_at ASC
		LIMIT $2
	`, challengeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaderboardRow, 0)
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.Player, &r.FEVMicros, &r.ScoreTotal, &r.Grade); err != nil {
			return nil, err
		}
		r.Rank = len(out) + 1
		out = append(out, r)
	}
	return out, rows.Err()
}
