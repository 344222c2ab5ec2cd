package simplelisting

import (
	"context"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful for production when you don't need event handling or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// ListingBuilt does nothing and returns nil
func (n *NoopEventSink) ListingBuilt(ctx context.Context, listing *Listing) error {
	return nil
}

// ItemNormalized does nothing and returns nil
func (n *NoopEventSink) ItemNormalized(ctx context.Context, record *ContentRecord, item *ListItem) error {
	return nil
}

// ItemDegraded does nothing and returns nil
func (n *NoopEventSink) ItemDegraded(ctx context.Context, recordID uuid.UUID, field string, err error) error {
	return nil
}

// Logger interface for logging events
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// LoggingEventSink is an event sink that logs events but takes no other
// action. Useful for development and debugging.
type LoggingEventSink struct {
	logger Logger
}

// NewLoggingEventSink creates a new logging event sink
func NewLoggingEventSink(logger Logger) EventSink {
	return &LoggingEventSink{logger: logger}
}

// ListingBuilt logs the listing assembly event
func (l *LoggingEventSink) ListingBuilt(ctx context.Context, listing *Listing) error {
	l.logger.Infof("Listing built: Title=%q, Items=%d, ViewAll=%t", listing.Title, len(listing.Items), listing.ViewAll != nil)
	return nil
}

// ItemNormalized logs the record normalization event
func (l *LoggingEventSink) ItemNormalized(ctx context.Context, record *ContentRecord, item *ListItem) error {
	l.logger.Infof("Item normalized: ID=%s, Kind=%s, Title=%q", record.ID, record.Kind, item.Title)
	return nil
}

// ItemDegraded logs the degradation event
func (l *LoggingEventSink) ItemDegraded(ctx context.Context, recordID uuid.UUID, field string, err error) error {
	l.logger.Errorf("Item degraded: ID=%s, Field=%s: %v", recordID, field, err)
	return nil
}
