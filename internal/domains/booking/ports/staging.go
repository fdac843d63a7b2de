package ports

import (
	"context"

	"github.com/Apurer/petcare-booking/internal/domains/booking/domain"
)

// StagingStore persists booking sessions. Load answers an apperr.ErrNotFound
// wrapped error for unknown or expired sessions.
type StagingStore interface {
	Load(ctx context.Context, sessionID string) (*domain.Staging, error)
	Save(ctx context.Context, staging *domain.Staging) error
	Delete(ctx context.Context, sessionID string) error
}
