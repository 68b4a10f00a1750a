package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush/user-console/internal/models"
)

// PostgresJournal stores console activity in PostgreSQL.
type PostgresJournal struct {
	pool *pgxpool.Pool
}

func NewPostgresJournal(pool *pgxpool.Pool) *PostgresJournal {
	return &PostgresJournal{pool: pool}
}

// Migrate creates the console_events table if it doesn't exist.
func (s *PostgresJournal) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS console_events (
			id         BIGSERIAL PRIMARY KEY,
			kind       VARCHAR(20)  NOT NULL,
			ok         BOOLEAN      NOT NULL,
			message    TEXT         NOT NULL,
			created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (s *PostgresJournal) Record(ctx context.Context, ev models.Event) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO console_events (kind, ok, message, created_at)
		 VALUES ($1, $2, $3, $4)`,
		ev.Kind, ev.OK, ev.Message, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// Recent returns the newest events first.
func (s *PostgresJournal) Recent(ctx context.Context, limit int) ([]models.Event, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, kind, ok, message, created_at
		 FROM console_events ORDER BY id DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Event, error) {
		var ev models.Event
		err := row.Scan(&ev.ID, &ev.Kind, &ev.OK, &ev.Message, &ev.CreatedAt)
		return ev, err
	})
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	return events, nil
}
