package ports

import (
	"context"

	"github.com/bnema/otctl/internal/domain"
)

type CommandJournal interface {
	Record(ctx context.Context, entry domain.JournalEntry) error
	List(ctx context.Context, runID domain.RunID) ([]domain.JournalEntry, error)
}

// NopJournal discards entries.
type NopJournal struct{}

func (NopJournal) Record(context.Context, domain.JournalEntry) error { return nil }

func (NopJournal) List(context.Context, domain.RunID) ([]domain.JournalEntry, error) {
	return nil, nil
}
