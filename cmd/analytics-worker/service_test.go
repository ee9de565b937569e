package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bazarly/storefront-backend/internal/analytics"
	"github.com/bazarly/storefront-backend/pkg/config"
	"github.com/bazarly/storefront-backend/pkg/enums"
	"github.com/bazarly/storefront-backend/pkg/logger"
)

type fakeSpoolRepo struct {
	events    []analytics.SpooledEvent
	fetchErr  error
	delivered []uuid.UUID
	failed    []uuid.UUID
}

func (f *fakeSpoolRepo) FetchPending(_ context.Context, limit, _ int) ([]analytics.SpooledEvent, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if len(f.events) > limit {
		return f.events[:limit], nil
	}
	return f.events, nil
}

func (f *fakeSpoolRepo) MarkDelivered(_ context.Context, id uuid.UUID) error {
	f.delivered = append(f.delivered, id)
	return nil
}

func (f *fakeSpoolRepo) MarkAttemptFailed(_ context.Context, id uuid.UUID, _ error, _ int) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakeSender struct {
	errs  []error
	calls int
}

func (f *fakeSender) Send(context.Context, analytics.SpooledEvent) error {
	call := f.calls
	f.calls++
	if call < len(f.errs) {
		return f.errs[call]
	}
	return nil
}

func spooledEvent(t *testing.T) analytics.SpooledEvent {
	t.Helper()
	return analytics.SpooledEvent{
		ID:        uuid.New(),
		EventType: enums.AnalyticsEventAddToCart,
		Payload:   json.RawMessage(`{"product_id":1}`),
		Status:    enums.SpoolStatusPending,
		CreatedAt: time.Now(),
	}
}

func newTestService(t *testing.T, repo spoolRepository, send sender) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.Analytics.PixelURL = "https://pixel.test/collect"
	service, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Repository: repo,
		Sender:     send,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return service
}

func TestProcessBatchContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	repo := &fakeSpoolRepo{events: []analytics.SpooledEvent{spooledEvent(t), spooledEvent(t)}}
	send := &fakeSender{errs: []error{errors.New("transient"), nil}}
	service := newTestService(t, repo, send)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !processed {
		t.Fatal("expected batch to report processed")
	}
	if len(repo.failed) != 1 || repo.failed[0] != repo.events[0].ID {
		t.Errorf("expected first event marked failed, got %v", repo.failed)
	}
	if len(repo.delivered) != 1 || repo.delivered[0] != repo.events[1].ID {
		t.Errorf("expected second event delivered, got %v", repo.delivered)
	}
}

func TestProcessBatchEmptySpool(t *testing.T) {
	t.Parallel()

	service := newTestService(t, &fakeSpoolRepo{}, &fakeSender{})

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if processed {
		t.Error("expected idle batch")
	}
}

func TestProcessBatchFetchError(t *testing.T) {
	t.Parallel()

	repo := &fakeSpoolRepo{fetchErr: errors.New("disk gone")}
	service := newTestService(t, repo, &fakeSender{})

	if _, err := service.processBatch(context.Background()); err == nil {
		t.Error("expected fetch error to surface")
	}
}

func TestProcessBatchHonorsBatchSize(t *testing.T) {
	t.Parallel()

	repo := &fakeSpoolRepo{events: []analytics.SpooledEvent{spooledEvent(t), spooledEvent(t), spooledEvent(t)}}
	send := &fakeSender{}
	service := newTestService(t, repo, send)
	service.batchSize = 2

	if _, err := service.processBatch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if send.calls != 2 {
		t.Errorf("expected 2 deliveries, got %d", send.calls)
	}
}

func TestNewServiceValidation(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	if _, err := NewService(ServiceParams{Logger: logg, Repository: &fakeSpoolRepo{}}); err == nil {
		t.Error("expected error for missing config")
	}
	if _, err := NewService(ServiceParams{Config: cfg, Repository: &fakeSpoolRepo{}}); err == nil {
		t.Error("expected error for missing logger")
	}
	if _, err := NewService(ServiceParams{Config: cfg, Logger: logg}); err == nil {
		t.Error("expected error for missing repository")
	}
	// Without an injected sender the pixel url must be configured.
	if _, err := NewService(ServiceParams{Config: cfg, Logger: logg, Repository: &fakeSpoolRepo{}}); err == nil {
		t.Error("expected error for missing pixel url")
	}
}

func TestPixelSender(t *testing.T) {
	t.Parallel()

	var received pixelPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("unexpected decode error: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	send := newPixelSender(config.AnalyticsConfig{PixelURL: server.URL, RequestTimeout: time.Second})
	event := spooledEvent(t)
	if err := send.Send(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received.EventID != event.ID.String() || received.EventType != "add_to_cart" {
		t.Errorf("unexpected payload %+v", received)
	}
}

func TestPixelSenderNon2xx(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	send := newPixelSender(config.AnalyticsConfig{PixelURL: server.URL, RequestTimeout: time.Second})
	if err := send.Send(context.Background(), spooledEvent(t)); err == nil {
		t.Error("expected error for non-2xx response")
	}
}
