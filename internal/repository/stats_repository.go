package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrStatsNotFound is returned when no statistics blob exists for a user.
var ErrStatsNotFound = errors.New("practice stats not found")

const statsTable = "practice_stats"

// StatsRepository persists one serialized PracticeStats blob per user in a SQL table.
// It works against PostgreSQL (JSONB column) and SQLite (TEXT column).
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs the repository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// EnsureSchema creates the statistics table when it does not exist.
func (r *StatsRepository) EnsureSchema(ctx context.Context) error {
	dataType := "TEXT"
	tsType := "TEXT"
	if r.db.DriverName() == "postgres" {
		dataType = "JSONB"
		tsType = "TIMESTAMPTZ"
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	user_id VARCHAR(191) PRIMARY KEY,
	data %s NOT NULL,
	updated_at %s NOT NULL
)`, statsTable, dataType, tsType)
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s table: %w", statsTable, err)
	}
	return nil
}

// Get returns the raw blob for userID or ErrStatsNotFound.
func (r *StatsRepository) Get(ctx context.Context, userID string) ([]byte, error) {
	query := r.db.Rebind(`SELECT data FROM practice_stats WHERE user_id = ?`)
	var payload []byte
	if err := r.db.GetContext(ctx, &payload, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatsNotFound
		}
		return nil, fmt.Errorf("get practice stats: %w", err)
	}
	return payload, nil
}

// Put overwrites the blob for userID in a single statement.
func (r *StatsRepository) Put(ctx context.Context, userID string, payload []byte) error {
	query := r.db.Rebind(`INSERT INTO practice_stats (user_id, data, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (user_id)
DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`)
	if _, err := r.db.ExecContext(ctx, query, userID, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("put practice stats: %w", err)
	}
	return nil
}

// Delete removes every stored row for userID. Deleting a missing user is not an error.
func (r *StatsRepository) Delete(ctx context.Context, userID string) error {
	query := r.db.Rebind(`DELETE FROM practice_stats WHERE user_id = ?`)
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete practice stats: %w", err)
	}
	return nil
}
