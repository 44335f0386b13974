package ports

import (
	"context"

	"github.com/bnema/otctl/internal/domain"
)

type SessionRepository interface {
	Load(ctx context.Context) (domain.SessionState, error)
	Save(ctx context.Context, state domain.SessionState) error
	Clear(ctx context.Context) error
}
