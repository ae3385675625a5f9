package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/mood-tracker/internal/events"
)

// AuditService logs entry lifecycle events as they are published.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventEntryCreated, a.handleEvent)
	a.dispatcher.Subscribe(events.EventEntryUpdated, a.handleEvent)
	a.dispatcher.Subscribe(events.EventEntryDeleted, a.handleEvent)
}

func (a *AuditService) handleEvent(_ context.Context, event events.Event) error {
	a.logger.Info("entry event",
		zap.String("event_type", string(event.Type)),
		zap.String("entry_id", event.EntryID),
		zap.String("user_id", event.UserID),
		zap.Any("payload", event.Payload))
	return nil
}
