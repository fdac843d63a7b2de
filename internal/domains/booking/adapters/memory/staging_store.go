package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Apurer/petcare-booking/internal/domains/booking/domain"
	"github.com/Apurer/petcare-booking/internal/domains/booking/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

var _ ports.StagingStore = (*StagingStore)(nil)

// StagingStore keeps booking sessions in process memory.
type StagingStore struct {
	sessions sync.Map
}

func NewStagingStore() *StagingStore {
	return &StagingStore{}
}

func (s *StagingStore) Load(_ context.Context, sessionID string) (*domain.Staging, error) {
	value, ok := s.sessions.Load(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: booking session %s", apperr.ErrNotFound, sessionID)
	}
	return value.(*domain.Staging).Clone(), nil
}

func (s *StagingStore) Save(_ context.Context, staging *domain.Staging) error {
	if staging == nil || staging.SessionID == "" {
		return errors.New("booking session id is required")
	}
	s.sessions.Store(staging.SessionID, staging.Clone())
	return nil
}

func (s *StagingStore) Delete(_ context.Context, sessionID string) error {
	s.sessions.Delete(sessionID)
	return nil
}
