package domain

import "time"

// TicketStatus enumerates lifecycle states for complaint tickets. Status
// only moves forward; tickets are never deleted.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
)

// SeverityTier splits categories into emergency and non-emergency handling.
type SeverityTier string

const (
	SeverityEmergency    SeverityTier = "emergency"
	SeverityNonEmergency SeverityTier = "non_emergency"
)

// Ticket is the aggregate for a filed complaint.
type Ticket struct {
	Reference      string
	UnitID         string
	Category       Category
	Label          string
	Description    string
	Severity       SeverityTier
	Team           string
	Priority       int
	ResponseTime   time.Duration
	DueBy          time.Time
	Status         TicketStatus
	CallerName     string
	CallbackNumber string
	ResponsePlan   string
	CreatedAt      time.Time
}

var allowedStatusTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusResolved},
	TicketStatusInProgress: {TicketStatusResolved},
	TicketStatusResolved:   {},
}

// IsValidStatusTransition reports whether a ticket may move from current
// to next. Transitions are forward-only.
func IsValidStatusTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedStatusTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
