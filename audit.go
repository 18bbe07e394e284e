package sessiongate

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Audit event names emitted by the gate.
const (
	EventLoginSuccess        = "login_success"
	EventLoginFailure        = "login_failure"
	EventLoginRateLimited    = "login_rate_limited"
	EventRefreshSuccess      = "refresh_success"
	EventRefreshFailure      = "refresh_failure"
	EventLogout              = "logout"
	EventCsrfRejected        = "csrf_rejected"
	EventVerificationIssued  = "verification_code_issued"
	EventVerificationLimited = "verification_code_rate_limited"
	EventVerificationFailed  = "verification_code_failed"
)

// AuditEvent is a single security-relevant occurrence. Events are emitted
// synchronously on the request path; sinks must be cheap.
type AuditEvent struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	Identity  string            `json:"identity,omitempty"`
	IP        string            `json:"ip,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AuditSink receives gate audit events.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink discards all events.
type NoOpSink struct{}

// Emit discards the event.
func (NoOpSink) Emit(context.Context, AuditEvent) {}

// JSONWriterSink writes one JSON object per line to an io.Writer.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink creates a line-delimited JSON sink.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

// Emit marshals and writes the event. Marshal or write failures are
// dropped; audit must never fail the request it describes.
func (s *JSONWriterSink) Emit(_ context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

// ZerologSink emits events through a zerolog logger at info (success) or
// warn (failure) level.
type ZerologSink struct {
	logger zerolog.Logger
}

// NewZerologSink creates a zerolog-backed sink.
func NewZerologSink(logger zerolog.Logger) *ZerologSink {
	return &ZerologSink{logger: logger}
}

// Emit logs the event.
func (s *ZerologSink) Emit(_ context.Context, event AuditEvent) {
	if s == nil {
		return
	}

	entry := s.logger.Info()
	if !event.Success {
		entry = s.logger.Warn()
	}
	entry = entry.
		Str("audit_id", event.ID).
		Str("event", event.EventType).
		Time("at", event.Timestamp).
		Bool("success", event.Success)
	if event.Identity != "" {
		entry = entry.Str("identity", event.Identity)
	}
	if event.IP != "" {
		entry = entry.Str("ip", event.IP)
	}
	if event.Error != "" {
		entry = entry.Str("error", event.Error)
	}
	for k, v := range event.Metadata {
		entry = entry.Str(k, v)
	}
	entry.Msg("audit")
}

func (g *Gate) emitAudit(ctx context.Context, eventType, identity string, success bool, cause error, metadata map[string]string) {
	if g.audit == nil {
		return
	}

	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: g.now(),
		EventType: eventType,
		Identity:  identity,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	g.audit.Emit(ctx, event)
}
