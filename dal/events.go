package dal

import (
	"context"
	"errors"
	"fmt"

	"rollcall/models"

	"github.com/samber/mo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRegistry persists the messages that are tracked as events.
type EventRegistry struct {
	db *gorm.DB
}

// NewEventRegistry returns an event registry backed by db.
func NewEventRegistry(db *gorm.DB) *EventRegistry {
	return &EventRegistry{db: db}
}

// Register records a new active event. It fails with ErrConflict when the
// message is already registered.
func (r *EventRegistry) Register(ctx context.Context, event models.ActiveEvent) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&event)
	if result.Error != nil {
		return fmt.Errorf("failed to register event %v: %w", event.MessageID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event %v: %w", event.MessageID, ErrConflict)
	}
	return nil
}

// Lookup returns the event registered for messageID, if any.
func (r *EventRegistry) Lookup(
	ctx context.Context,
	messageID string,
) (mo.Option[models.ActiveEvent], error) {
	var event models.ActiveEvent
	err := r.db.WithContext(ctx).
		Where(&models.ActiveEvent{MessageID: messageID}).
		Take(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return mo.None[models.ActiveEvent](), nil
	}
	if err != nil {
		return mo.None[models.ActiveEvent](), fmt.Errorf("failed to look up event %v: %w", messageID, err)
	}
	return mo.Some(event), nil
}

// List returns every registered event.
func (r *EventRegistry) List(ctx context.Context) ([]models.ActiveEvent, error) {
	var events []models.ActiveEvent
	if err := r.db.WithContext(ctx).Order("rowid").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}
