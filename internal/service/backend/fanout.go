package backend

import (
	"context"
	"errors"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

// FanOut рассылает событие всем получателям и объединяет их ошибки.
type FanOut []domain.EventPublisher

// Publish реализует domain.EventPublisher.
func (f FanOut) Publish(ctx context.Context, event domain.ChangeEvent) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ domain.EventPublisher = FanOut(nil)
