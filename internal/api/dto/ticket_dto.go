package dto

import (
	"time"

	"github.com/spec-kit/complaint-hotline/internal/domain"
)

// TicketSummary response.
type TicketSummary struct {
	Reference string              `json:"reference"`
	UnitID    string              `json:"unit_id"`
	Category  domain.Category     `json:"category"`
	Label     string              `json:"label"`
	Severity  domain.SeverityTier `json:"severity"`
	Status    domain.TicketStatus `json:"status"`
	Team      string              `json:"team"`
	Priority  int                 `json:"priority"`
	CreatedAt time.Time           `json:"created_at"`
	DueBy     time.Time           `json:"due_by"`
}

// TicketDetailResponse provides full ticket info for operators.
type TicketDetailResponse struct {
	Reference      string              `json:"reference"`
	UnitID         string              `json:"unit_id"`
	Category       domain.Category     `json:"category"`
	Label          string              `json:"label"`
	Description    string              `json:"description"`
	Severity       domain.SeverityTier `json:"severity"`
	Status         domain.TicketStatus `json:"status"`
	Team           string              `json:"team"`
	Priority       int                 `json:"priority"`
	CallerName     string              `json:"caller_name"`
	CallbackNumber string              `json:"callback_number,omitempty"`
	ResponsePlan   string              `json:"response_plan"`
	CreatedAt      time.Time           `json:"created_at"`
	DueBy          time.Time           `json:"due_by"`
}

// TransitionStatusRequest payload.
type TransitionStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// FromTicket maps a domain ticket to its summary response.
func FromTicket(t *domain.Ticket) TicketSummary {
	return TicketSummary{
		Reference: t.Reference,
		UnitID:    t.UnitID,
		Category:  t.Category,
		Label:     t.Label,
		Severity:  t.Severity,
		Status:    t.Status,
		Team:      t.Team,
		Priority:  t.Priority,
		CreatedAt: t.CreatedAt,
		DueBy:     t.DueBy,
	}
}

// DetailFromTicket maps a domain ticket to its detail response.
func DetailFromTicket(t *domain.Ticket) TicketDetailResponse {
	return TicketDetailResponse{
		Reference:      t.Reference,
		UnitID:         t.UnitID,
		Category:       t.Category,
		Label:          t.Label,
		Description:    t.Description,
		Severity:       t.Severity,
		Status:         t.Status,
		Team:           t.Team,
		Priority:       t.Priority,
		CallerName:     t.CallerName,
		CallbackNumber: t.CallbackNumber,
		ResponsePlan:   t.ResponsePlan,
		CreatedAt:      t.CreatedAt,
		DueBy:          t.DueBy,
	}
}
