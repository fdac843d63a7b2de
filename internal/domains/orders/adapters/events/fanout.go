package events

import (
	"context"
	"errors"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
)

// Fanout publishes to every configured publisher; one failing sink does not starve the others.
type Fanout []ports.EventPublisher

func (f Fanout) Publish(ctx context.Context, events ...domain.Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ ports.EventPublisher = Fanout(nil)
