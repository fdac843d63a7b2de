package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/petcare-booking/internal/domains/booking/domain"
	"github.com/Apurer/petcare-booking/internal/domains/booking/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

// Staging manages the selection a customer has put aside for checkout.
// A session has a single owner, so read-modify-write needs no locking.
type Staging struct {
	store ports.StagingStore
	now   func() time.Time
}

func NewStaging(store ports.StagingStore, now func() time.Time) *Staging {
	if now == nil {
		now = time.Now
	}
	return &Staging{store: store, now: now}
}

// Begin opens a fresh session, discarding whatever a previous one left behind.
func (s *Staging) Begin(ctx context.Context, accountID, previousSessionID string) (*domain.Staging, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, apperr.Validation("accountId", "is required")
	}
	if previous := strings.TrimSpace(previousSessionID); previous != "" {
		if err := s.store.Delete(ctx, previous); err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("discard previous session: %w", err)
		}
	}
	staging := &domain.Staging{
		SessionID: uuid.NewString(),
		AccountID: accountID,
		UpdatedAt: s.now(),
	}
	if err := s.store.Save(ctx, staging); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return staging, nil
}

func (s *Staging) Get(ctx context.Context, sessionID string) (*domain.Staging, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperr.Validation("sessionId", "is required")
	}
	return s.store.Load(ctx, sessionID)
}

// Put replaces the staged selection with a single service or combo.
func (s *Staging) Put(ctx context.Context, sessionID string, item domain.LineItem) (*domain.Staging, error) {
	selection, err := domain.NewSingleSelection(item)
	if err != nil {
		return nil, mapError(err)
	}
	return s.update(ctx, sessionID, func(st *domain.Staging) error {
		st.PutSelection(selection)
		return nil
	})
}

// AddCartItem adds item to the cart; the total is the sum of line prices.
func (s *Staging) AddCartItem(ctx context.Context, sessionID string, item domain.LineItem) (*domain.Staging, error) {
	return s.update(ctx, sessionID, func(st *domain.Staging) error {
		selection := st.CurrentSelection.Clone()
		if selection == nil {
			selection = &domain.Selection{Kind: domain.SelectionCart}
		}
		if err := selection.AddItem(item); err != nil {
			return mapError(err)
		}
		st.PutSelection(selection)
		return nil
	})
}

func (s *Staging) RemoveCartItem(ctx context.Context, sessionID, productID string) (*domain.Staging, error) {
	return s.update(ctx, sessionID, func(st *domain.Staging) error {
		selection := st.CurrentSelection.Clone()
		if selection == nil {
			return mapError(domain.ErrItemNotFound)
		}
		if err := selection.RemoveItem(productID); err != nil {
			return mapError(err)
		}
		if selection.Empty() {
			selection = nil
		}
		st.PutSelection(selection)
		return nil
	})
}

// Save writes back a staging the caller modified.
func (s *Staging) Save(ctx context.Context, staging *domain.Staging) error {
	staging.UpdatedAt = s.now()
	return s.store.Save(ctx, staging)
}

// Commit clears the session after the booking was paid.
func (s *Staging) Commit(ctx context.Context, sessionID string) error {
	return s.clear(ctx, sessionID)
}

// Abandon clears the session without booking.
func (s *Staging) Abandon(ctx context.Context, sessionID string) error {
	return s.clear(ctx, sessionID)
}

func (s *Staging) clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Staging) update(ctx context.Context, sessionID string, mutate func(*domain.Staging) error) (*domain.Staging, error) {
	staging, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := mutate(staging); err != nil {
		return nil, err
	}
	// A new selection invalidates any unpaid order made for the old one.
	if staging.BookingDraft != nil {
		staging.BookingDraft.PendingOrderID = ""
	}
	if err := s.Save(ctx, staging); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return staging, nil
}
