package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bazarly/storefront-backend/internal/analytics"
	"github.com/bazarly/storefront-backend/pkg/config"
	"github.com/bazarly/storefront-backend/pkg/logger"
)

const (
	defaultBatchSize    = 50
	defaultPollInterval = 5 * time.Second
	defaultMaxAttempts  = 10
	jitterWindow        = 250 * time.Millisecond
)

var jitterSource = rand.New(rand.NewSource(time.Now().UnixNano()))

type spoolRepository interface {
	FetchPending(ctx context.Context, limit, maxAttempts int) ([]analytics.SpooledEvent, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) error
	MarkAttemptFailed(ctx context.Context, id uuid.UUID, cause error, maxAttempts int) error
}

type sender interface {
	Send(ctx context.Context, event analytics.SpooledEvent) error
}

type ServiceParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	Repository spoolRepository
	Sender     sender
}

// Service drains the local analytics spool and delivers each event to the
// pixel endpoint. A failed delivery is retried on later passes until the
// attempt cap flips the row to failed.
type Service struct {
	cfg          *config.Config
	logg         *logger.Logger
	repo         spoolRepository
	sender       sender
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Repository == nil {
		return nil, errors.New("spool repository is required")
	}

	send := params.Sender
	if send == nil {
		if params.Config.Analytics.PixelURL == "" {
			return nil, errors.New("pixel url is required")
		}
		send = newPixelSender(params.Config.Analytics)
	}

	batch := params.Config.Analytics.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	attempts := params.Config.Analytics.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	interval := params.Config.Analytics.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	return &Service{
		cfg:          params.Config,
		logg:         params.Logger,
		repo:         params.Repository,
		sender:       send,
		batchSize:    batch,
		maxAttempts:  attempts,
		pollInterval: interval,
	}, nil
}

// Run polls until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	for {
		processed, err := s.processBatch(ctx)
		if err != nil {
			s.logg.Error(ctx, "spool.batch_failed", err)
		}

		wait := s.pollInterval
		if processed {
			// Drain quickly while there is work.
			wait = jitterWindow
		}
		wait += time.Duration(jitterSource.Int63n(int64(jitterWindow)))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// processBatch delivers one batch of pending events. One bad event never
// stalls the rest of the batch.
func (s *Service) processBatch(ctx context.Context) (bool, error) {
	events, err := s.repo.FetchPending(ctx, s.batchSize, s.maxAttempts)
	if err != nil {
		return false, fmt.Errorf("fetch pending events: %w", err)
	}
	if len(events) == 0 {
		return false, nil
	}

	for _, event := range events {
		eventCtx := s.logg.WithFields(ctx, map[string]any{
			"event_id":   event.ID.String(),
			"event_type": event.EventType.String(),
		})

		if err := s.sender.Send(ctx, event); err != nil {
			s.logg.Warn(eventCtx, "spool.delivery_failed")
			if markErr := s.repo.MarkAttemptFailed(ctx, event.ID, err, s.maxAttempts); markErr != nil {
				s.logg.Error(eventCtx, "spool.mark_failed_error", markErr)
			}
			continue
		}

		if err := s.repo.MarkDelivered(ctx, event.ID); err != nil {
			s.logg.Error(eventCtx, "spool.mark_delivered_error", err)
			continue
		}
		s.logg.Info(eventCtx, "spool.delivered")
	}

	return true, nil
}

// pixelPayload is the wire shape the pixel endpoint accepts.
type pixelPayload struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

type pixelSender struct {
	url    string
	client *http.Client
}

func newPixelSender(cfg config.AnalyticsConfig) *pixelSender {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &pixelSender{
		url:    cfg.PixelURL,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *pixelSender) Send(ctx context.Context, event analytics.SpooledEvent) error {
	body, err := json.Marshal(pixelPayload{
		EventID:    event.ID.String(),
		EventType:  event.EventType.String(),
		OccurredAt: event.CreatedAt,
		Data:       event.Payload,
	})
	if err != nil {
		return fmt.Errorf("encode pixel payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build pixel request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("post pixel event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("pixel endpoint returned %d", resp.StatusCode)
	}
	return nil
}
