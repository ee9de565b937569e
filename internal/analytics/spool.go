package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bazarly/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SpooledEvent is one tracking event awaiting delivery to the pixel endpoint.
// Events are written locally first so a slow or unreachable tracker never
// blocks or fails a cart mutation.
type SpooledEvent struct {
	ID           uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	EventType    enums.AnalyticsEventType `gorm:"column:event_type;not null"`
	Payload      json.RawMessage          `gorm:"column:payload;not null"`
	Status       enums.SpoolStatus        `gorm:"column:status;not null;default:pending;index"`
	AttemptCount int                      `gorm:"column:attempt_count;not null;default:0"`
	LastError    *string                  `gorm:"column:last_error"`
	CreatedAt    time.Time                `gorm:"column:created_at;autoCreateTime"`
	DeliveredAt  *time.Time               `gorm:"column:delivered_at"`
}

// TableName keeps the spool table name stable.
func (SpooledEvent) TableName() string {
	return "analytics_spool"
}

// SpoolRepository persists tracking events in the local sqlite spool.
type SpoolRepository struct {
	db *gorm.DB
}

func NewSpoolRepository(db *gorm.DB) (*SpoolRepository, error) {
	if db == nil {
		return nil, errors.New("spool db is required")
	}
	return &SpoolRepository{db: db}, nil
}

// Migrate creates the spool table when absent.
func (r *SpoolRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&SpooledEvent{})
}

// Enqueue appends one event in pending state.
func (r *SpoolRepository) Enqueue(ctx context.Context, eventType enums.AnalyticsEventType, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := SpooledEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   body,
		Status:    enums.SpoolStatusPending,
	}
	return r.db.WithContext(ctx).Create(&event).Error
}

// FetchPending returns the oldest undelivered events still under the attempt cap.
func (r *SpoolRepository) FetchPending(ctx context.Context, limit, maxAttempts int) ([]SpooledEvent, error) {
	var rows []SpooledEvent
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.SpoolStatusPending).
		Where("attempt_count < ?", maxAttempts).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// MarkDelivered stamps the event as delivered.
func (r *SpoolRepository) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&SpooledEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       enums.SpoolStatusDelivered,
			"delivered_at": now,
		}).Error
}

// MarkAttemptFailed records a delivery failure; once the attempt cap is hit
// the event flips to failed and is no longer retried.
func (r *SpoolRepository) MarkAttemptFailed(ctx context.Context, id uuid.UUID, cause error, maxAttempts int) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&SpooledEvent{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"last_error":    msg,
				"attempt_count": gorm.Expr("attempt_count + 1"),
			}).Error; err != nil {
			return err
		}
		return tx.Model(&SpooledEvent{}).
			Where("id = ?", id).
			Where("attempt_count >= ?", maxAttempts).
			Update("status", enums.SpoolStatusFailed).Error
	})
}
