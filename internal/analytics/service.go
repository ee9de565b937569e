package analytics

import (
	"context"
	"errors"

	"github.com/bazarly/storefront-backend/pkg/enums"
	"github.com/bazarly/storefront-backend/pkg/logger"
)

type spooler interface {
	Enqueue(ctx context.Context, eventType enums.AnalyticsEventType, payload any) error
}

// Service records tracking events. Recording is strictly best-effort: every
// failure is logged and swallowed so callers never see an error from here.
type Service interface {
	ItemAdded(ctx context.Context, event ItemEvent)
	ItemUpdated(ctx context.Context, event ItemEvent)
	ItemRemoved(ctx context.Context, event ItemEvent)
	CheckoutStarted(ctx context.Context, event CheckoutEvent)
}

type service struct {
	spool spooler
	logg  *logger.Logger
}

// NewService builds the tracking recorder backed by the local spool.
func NewService(spool spooler, logg *logger.Logger) (Service, error) {
	if spool == nil {
		return nil, errors.New("spool repository is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &service{spool: spool, logg: logg}, nil
}

func (s *service) ItemAdded(ctx context.Context, event ItemEvent) {
	s.record(ctx, enums.AnalyticsEventAddToCart, event)
}

func (s *service) ItemUpdated(ctx context.Context, event ItemEvent) {
	s.record(ctx, enums.AnalyticsEventUpdateCart, event)
}

func (s *service) ItemRemoved(ctx context.Context, event ItemEvent) {
	s.record(ctx, enums.AnalyticsEventRemoveFromCart, event)
}

func (s *service) CheckoutStarted(ctx context.Context, event CheckoutEvent) {
	s.record(ctx, enums.AnalyticsEventBeginCheckout, event)
}

func (s *service) record(ctx context.Context, eventType enums.AnalyticsEventType, payload any) {
	if err := s.spool.Enqueue(ctx, eventType, payload); err != nil {
		ctx = s.logg.WithField(ctx, "event_type", eventType.String())
		s.logg.Error(ctx, "analytics.enqueue_failed", err)
	}
}
