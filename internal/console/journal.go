package console

import (
	"context"

	"github.com/ayush/user-console/internal/models"
)

// Journal records the outcome of console operations.
type Journal interface {
	Record(ctx context.Context, ev models.Event) error
	Recent(ctx context.Context, limit int) ([]models.Event, error)
}

// NopJournal discards everything. Used when no database is configured.
type NopJournal struct{}

func (NopJournal) Record(context.Context, models.Event) error { return nil }

func (NopJournal) Recent(context.Context, int) ([]models.Event, error) { return nil, nil }
