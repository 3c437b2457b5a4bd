package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-hotline/internal/domain"
	"github.com/spec-kit/complaint-hotline/internal/events"
	"github.com/spec-kit/complaint-hotline/internal/repository"
	"github.com/spec-kit/complaint-hotline/internal/sla"
	"github.com/spec-kit/complaint-hotline/pkg/util"
)

// HotlineService coordinates the complaint workflows behind the call tools
// and the operator API.
type HotlineService struct {
	directory  repository.TenantDirectory
	tickets    repository.TicketStore
	rules      *sla.Engine
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// HotlineDependencies bundles collaborators for the hotline service.
type HotlineDependencies struct {
	Directory  repository.TenantDirectory
	Tickets    repository.TicketStore
	Rules      *sla.Engine
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewHotlineService constructs the service.
func NewHotlineService(deps HotlineDependencies) *HotlineService {
	return &HotlineService{
		directory:  deps.Directory,
		tickets:    deps.Tickets,
		rules:      deps.Rules,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// VerifyResult is the outcome of a tenant directory lookup, shaped for the
// reasoning engine to read back.
type VerifyResult struct {
	Verified   bool   `json:"verified"`
	UnitNumber string `json:"unit_number,omitempty"`
	TenantName string `json:"tenant_name,omitempty"`
	Message    string `json:"message,omitempty"`
}

// CategorySummary is one entry in the category listing.
type CategorySummary struct {
	Category domain.Category `json:"category"`
	Label    string          `json:"label"`
	SLA      string          `json:"sla"`
}

// CategoriesResult groups the category listing by severity tier.
type CategoriesResult struct {
	EmergencyCategories    []CategorySummary `json:"emergency_categories"`
	NonEmergencyCategories []CategorySummary `json:"non_emergency_categories"`
}

// FileComplaintInput carries the collected complaint details.
type FileComplaintInput struct {
	UnitNumber    string
	Category      string
	Description   string
	TenantName    string
	ContactNumber string
}

// FileComplaintResult is returned after a ticket is filed. AssuranceMessage
// must be read to the caller word for word.
type FileComplaintResult struct {
	Success          bool            `json:"success"`
	TicketID         string          `json:"ticket_id"`
	IsEmergency      bool            `json:"is_emergency"`
	Category         domain.Category `json:"category"`
	Label            string          `json:"label"`
	Team             string          `json:"team"`
	SLAHours         float64         `json:"sla_hours"`
	SLADescription   string          `json:"sla_description"`
	DueBy            string          `json:"due_by"`
	ResponsePlan     string          `json:"response_plan"`
	AssuranceMessage string          `json:"assurance_message"`
}

// StatusResult is the outcome of a ticket status lookup.
type StatusResult struct {
	Found          bool    `json:"found"`
	TicketID       string  `json:"ticket_id,omitempty"`
	Label          string  `json:"label,omitempty"`
	Status         string  `json:"status,omitempty"`
	Team           string  `json:"team,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"`
	SLADescription string  `json:"sla_description,omitempty"`
	HoursRemaining float64 `json:"hours_remaining"`
	ResponsePlan   string  `json:"response_plan,omitempty"`
	IsEmergency    bool    `json:"is_emergency"`
	Message        string  `json:"message,omitempty"`
}

// ComplaintSummary is one row in a unit's complaint listing.
type ComplaintSummary struct {
	TicketID       string `json:"ticket_id"`
	Label          string `json:"label"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
	SLADescription string `json:"sla_description"`
}

// ListComplaintsResult is the outcome of a unit complaint listing.
type ListComplaintsResult struct {
	Found      bool               `json:"found"`
	UnitNumber string             `json:"unit_number,omitempty"`
	Count      int                `json:"count,omitempty"`
	Complaints []ComplaintSummary `json:"complaints,omitempty"`
	Message    string             `json:"message,omitempty"`
}

// VerifyTenant looks a unit up in the directory. A lookup miss is a normal
// result, not an error; the message guides the caller to retry.
func (s *HotlineService) VerifyTenant(ctx context.Context, unitNumber string) (*VerifyResult, error) {
	unitNumber = strings.TrimSpace(unitNumber)
	if unitNumber == "" {
		return nil, util.NewValidationError("unit_number must not be empty", nil)
	}
	tenant, err := s.directory.LookupTenant(ctx, unitNumber)
	if errors.Is(err, repository.ErrNotFound) {
		return &VerifyResult{
			Verified: false,
			Message: fmt.Sprintf(
				"I couldn't find unit %s in our system. Could you double-check that number? "+
					"If you've recently moved in, I can still take your complaint and we'll verify your details afterwards.",
				unitNumber),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &VerifyResult{
		Verified:   true,
		UnitNumber: tenant.UnitID,
		TenantName: tenant.Name,
	}, nil
}

// LookupTenant fetches the directory record for a verified unit.
func (s *HotlineService) LookupTenant(ctx context.Context, unitID string) (*domain.Tenant, error) {
	return s.directory.LookupTenant(ctx, unitID)
}

// GetComplaintCategories returns the full category listing grouped by tier,
// with the response bound phrased for speech.
func (s *HotlineService) GetComplaintCategories(_ context.Context) *CategoriesResult {
	result := &CategoriesResult{}
	for _, rule := range s.rules.Rules() {
		summary := CategorySummary{
			Category: rule.Category,
			Label:    rule.Label,
			SLA:      sla.ResponseTimeWords(rule.Category, rule.ResponseTime),
		}
		if rule.Severity == domain.SeverityEmergency {
			result.EmergencyCategories = append(result.EmergencyCategories, summary)
		} else {
			result.NonEmergencyCategories = append(result.NonEmergencyCategories, summary)
		}
	}
	return result
}

// FileComplaint classifies the complaint, persists the ticket and returns
// the filing receipt with the assurance script. Unknown category labels fall
// back to the catch-all category rather than failing the call.
func (s *HotlineService) FileComplaint(ctx context.Context, sessionID string, input FileComplaintInput) (*FileComplaintResult, error) {
	if strings.TrimSpace(input.UnitNumber) == "" {
		return nil, util.NewValidationError("unit_number must not be empty", nil)
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, util.NewValidationError("description must not be empty", nil)
	}
	if strings.TrimSpace(input.TenantName) == "" {
		return nil, util.NewValidationError("tenant_name must not be empty", nil)
	}

	category, ok := domain.ParseCategory(input.Category)
	if !ok {
		category = domain.CategoryOther
	}
	rule := s.rules.Classify(category)

	ticket := &domain.Ticket{
		UnitID:         strings.TrimSpace(input.UnitNumber),
		Category:       category,
		Label:          rule.Label,
		Description:    strings.TrimSpace(input.Description),
		Severity:       rule.Severity,
		Team:           rule.Team,
		Priority:       rule.Priority,
		ResponseTime:   rule.ResponseTime,
		CallerName:     strings.TrimSpace(input.TenantName),
		CallbackNumber: strings.TrimSpace(input.ContactNumber),
		ResponsePlan:   sla.PlanText(rule.Steps),
	}

	reference, err := s.tickets.CreateTicket(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.logger.Info("complaint filed",
		zap.String("reference", reference),
		zap.String("unit", ticket.UnitID),
		zap.String("category", string(category)),
		zap.String("severity", string(rule.Severity)))

	_ = s.dispatcher.Publish(ctx, events.NewTicketCreated(sessionID, ticket))

	return &FileComplaintResult{
		Success:          true,
		TicketID:         reference,
		IsEmergency:      rule.Severity == domain.SeverityEmergency,
		Category:         category,
		Label:            rule.Label,
		Team:             rule.Team,
		SLAHours:         rule.ResponseTime.Hours(),
		SLADescription:   sla.ResponseTimeWords(category, rule.ResponseTime),
		DueBy:            ticket.DueBy.Format(time.RFC3339),
		ResponsePlan:     ticket.ResponsePlan,
		AssuranceMessage: rule.Assurance,
	}, nil
}

// CheckComplaintStatus looks a ticket up by reference and reports remaining
// time against its response bound.
func (s *HotlineService) CheckComplaintStatus(ctx context.Context, ticketID string) (*StatusResult, error) {
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return nil, util.NewValidationError("ticket_id must not be empty", nil)
	}
	ticket, err := s.tickets.GetTicket(ctx, ticketID)
	if errors.Is(err, repository.ErrNotFound) {
		return &StatusResult{
			Found: false,
			Message: fmt.Sprintf(
				"I couldn't find ticket %s. The reference starts with MAD- followed by eight characters. "+
					"Would you like to check whether you have the right number?",
				ticketID),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	remaining := time.Until(ticket.DueBy).Hours()
	if remaining < 0 {
		remaining = 0
	}

	return &StatusResult{
		Found:          true,
		TicketID:       ticket.Reference,
		Label:          ticket.Label,
		Status:         string(ticket.Status),
		Team:           ticket.Team,
		CreatedAt:      ticket.CreatedAt.Format(time.RFC3339),
		SLADescription: sla.ResponseTimeWords(ticket.Category, ticket.ResponseTime),
		HoursRemaining: math.Round(remaining*10) / 10,
		ResponsePlan:   ticket.ResponsePlan,
		IsEmergency:    ticket.Severity == domain.SeverityEmergency,
	}, nil
}

// ListTenantComplaints returns every complaint on record for a unit, oldest
// first.
func (s *HotlineService) ListTenantComplaints(ctx context.Context, unitNumber string) (*ListComplaintsResult, error) {
	unitNumber = strings.TrimSpace(unitNumber)
	if unitNumber == "" {
		return nil, util.NewValidationError("unit_number must not be empty", nil)
	}
	tickets, err := s.tickets.ListTicketsForUnit(ctx, unitNumber)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return &ListComplaintsResult{
			Found:   false,
			Message: fmt.Sprintf("There are no logged complaints for unit %s.", unitNumber),
		}, nil
	}

	summaries := make([]ComplaintSummary, 0, len(tickets))
	for _, t := range tickets {
		summaries = append(summaries, ComplaintSummary{
			TicketID:       t.Reference,
			Label:          t.Label,
			Status:         string(t.Status),
			CreatedAt:      t.CreatedAt.Format(time.RFC3339),
			SLADescription: sla.ResponseTimeWords(t.Category, t.ResponseTime),
		})
	}
	return &ListComplaintsResult{
		Found:      true,
		UnitNumber: unitNumber,
		Count:      len(summaries),
		Complaints: summaries,
	}, nil
}

// GetTicket fetches a single ticket for the operator API.
func (s *HotlineService) GetTicket(ctx context.Context, reference string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetTicket(ctx, reference)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, util.NewNotFound("ticket", nil)
	}
	return ticket, err
}

// ListUnitTickets fetches a unit's tickets for the operator API.
func (s *HotlineService) ListUnitTickets(ctx context.Context, unitID string) ([]domain.Ticket, error) {
	return s.tickets.ListTicketsForUnit(ctx, unitID)
}

// TransitionTicketStatus applies an operator status change and publishes the
// transition.
func (s *HotlineService) TransitionTicketStatus(ctx context.Context, reference string, status domain.TicketStatus) (*domain.Ticket, error) {
	current, err := s.tickets.GetTicket(ctx, reference)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, util.NewNotFound("ticket", nil)
	}
	if err != nil {
		return nil, err
	}
	if !domain.IsValidStatusTransition(current.Status, status) {
		return nil, util.NewValidationError(fmt.Sprintf("cannot move ticket from %s to %s", current.Status, status), nil)
	}
	updated, err := s.tickets.UpdateTicketStatus(ctx, reference, status)
	if err != nil {
		return nil, err
	}
	_ = s.dispatcher.Publish(ctx, events.NewTicketStatusChanged(updated.Reference, current.Status, updated.Status))
	return updated, nil
}
