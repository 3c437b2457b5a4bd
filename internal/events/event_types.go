package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/complaint-hotline/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventSessionPhaseChanged EventType = "session_phase_changed"
	EventToolCallCompleted   EventType = "tool_call_completed"
	EventSessionEscalated    EventType = "session_escalated"
)

// Event represents a domain event emitted during a call or by operators.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Reference string              `json:"reference"`
	UnitID    string              `json:"unit_id"`
	Category  domain.Category     `json:"category"`
	Severity  domain.SeverityTier `json:"severity"`
	Team      string              `json:"team"`
	DueBy     time.Time           `json:"due_by"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	Reference string              `json:"reference"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// SessionPhaseChangedPayload payload.
type SessionPhaseChangedPayload struct {
	OldPhase string `json:"old_phase"`
	NewPhase string `json:"new_phase"`
}

// ToolCallCompletedPayload payload.
type ToolCallCompletedPayload struct {
	InvocationID string `json:"invocation_id"`
	Operation    string `json:"operation"`
	Outcome      string `json:"outcome"`
	DurationMS   int64  `json:"duration_ms"`
}

// SessionEscalatedPayload payload.
type SessionEscalatedPayload struct {
	Reason  string `json:"reason"`
	Retries int    `json:"retries"`
}

func newEvent(eventType EventType, sessionID string, payload interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// NewTicketCreated builds a ticket_created event for a freshly filed ticket.
func NewTicketCreated(sessionID string, ticket *domain.Ticket) Event {
	return newEvent(EventTicketCreated, sessionID, TicketCreatedPayload{
		Reference: ticket.Reference,
		UnitID:    ticket.UnitID,
		Category:  ticket.Category,
		Severity:  ticket.Severity,
		Team:      ticket.Team,
		DueBy:     ticket.DueBy,
	})
}

// NewTicketStatusChanged builds a ticket_status_changed event.
func NewTicketStatusChanged(reference string, oldStatus, newStatus domain.TicketStatus) Event {
	return newEvent(EventTicketStatusChanged, "", TicketStatusChangedPayload{
		Reference: reference,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	})
}

// NewSessionPhaseChanged builds a session_phase_changed event.
func NewSessionPhaseChanged(sessionID, oldPhase, newPhase string) Event {
	return newEvent(EventSessionPhaseChanged, sessionID, SessionPhaseChangedPayload{
		OldPhase: oldPhase,
		NewPhase: newPhase,
	})
}

// NewToolCallCompleted builds a tool_call_completed event.
func NewToolCallCompleted(sessionID, invocationID, operation, outcome string, duration time.Duration) Event {
	return newEvent(EventToolCallCompleted, sessionID, ToolCallCompletedPayload{
		InvocationID: invocationID,
		Operation:    operation,
		Outcome:      outcome,
		DurationMS:   duration.Milliseconds(),
	})
}

// NewSessionEscalated builds a session_escalated event.
func NewSessionEscalated(sessionID, reason string, retries int) Event {
	return newEvent(EventSessionEscalated, sessionID, SessionEscalatedPayload{
		Reason:  reason,
		Retries: retries,
	})
}
