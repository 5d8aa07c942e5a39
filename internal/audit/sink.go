// Package audit emits fire-and-forget events for an external audit or
// notification consumer. Emission failure is never allowed to fail the
// operation that produced the event.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the core.
const (
	EventDocumentCreated  = "document.created"
	EventDocumentUploaded = "document.uploaded"
	EventDocumentDeleted  = "document.deleted"
	EventFolderCreated    = "folder.created"
	EventFolderRenamed    = "folder.renamed"
	EventFolderDeleted    = "folder.deleted"
)

// Event is one audit record.
type Event struct {
	ID      string
	Type    string
	OwnerID string
	Subject string // document id or folder name
	Detail  map[string]any
	At      time.Time
}

// Sink consumes events. Implementations must not block the caller on
// downstream failures.
type Sink interface {
	Emit(ctx context.Context, ev Event)
}

// LogSink writes events to the structured log. It stands in for a real
// notification transport; swapping it out does not touch the services.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a log-backed sink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit logs the event. Missing id/timestamp are filled in.
func (s *LogSink) Emit(ctx context.Context, ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	s.logger.InfoContext(ctx, "audit event",
		"event_id", ev.ID,
		"event_type", ev.Type,
		"owner_id", ev.OwnerID,
		"subject", ev.Subject,
		"detail", ev.Detail,
		"at", ev.At,
	)
}
