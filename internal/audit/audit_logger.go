package audit

import (
	"time"

	"go.uber.org/zap"
)

type Event struct {
	Timestamp time.Time
	EventType string
	Pipeline  string
	RequestID int64
	Action    string
	Status    string
	Operator  string
	Ticket    string
	Details   map[string]string
}

// Logger writes an append-only trail of lifecycle actions.
type Logger struct {
	logger *zap.Logger
}

func NewLogger(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{logger: logger.With(zap.String("component", "audit"))}
}

// LogTransition records an applied status change.
func (a *Logger) LogTransition(pipeline string, requestID int64, action, toStatus, operator, ticket string) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: "TRANSITION",
		Pipeline:  pipeline,
		RequestID: requestID,
		Action:    action,
		Status:    toStatus,
		Operator:  operator,
		Ticket:    ticket,
	})
}

// LogRefused records an action that did not apply.
func (a *Logger) LogRefused(pipeline string, requestID int64, action, operator, kind, reason string) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: "REFUSED",
		Pipeline:  pipeline,
		RequestID: requestID,
		Action:    action,
		Status:    "FAILED",
		Operator:  operator,
		Details:   map[string]string{"kind": kind, "reason": reason},
	})
}

// LogUnreconciled records a ledger adjustment whose ticket could not be
// persisted. These need manual reconciliation against the MT5 ledger.
func (a *Logger) LogUnreconciled(pipeline string, requestID int64, action, ticket string, err error) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: "UNRECONCILED",
		Pipeline:  pipeline,
		RequestID: requestID,
		Action:    action,
		Status:    "FAILED",
		Ticket:    ticket,
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *Logger) log(event Event) {
	fields := []zap.Field{
		zap.Time("timestamp", event.Timestamp),
		zap.String("event_type", event.EventType),
		zap.String("pipeline", event.Pipeline),
		zap.Int64("request_id", event.RequestID),
		zap.String("action", event.Action),
		zap.String("status", event.Status),
	}
	if event.Operator != "" {
		fields = append(fields, zap.String("operator", event.Operator))
	}
	if event.Ticket != "" {
		fields = append(fields, zap.String("ticket", event.Ticket))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	if event.EventType == "UNRECONCILED" {
		a.logger.Error("AUDIT", fields...)
		return
	}
	a.logger.Info("AUDIT", fields...)
}
