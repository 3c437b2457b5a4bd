package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-hotline/internal/api/dto"
	"github.com/spec-kit/complaint-hotline/internal/domain"
	"github.com/spec-kit/complaint-hotline/internal/service"
	"github.com/spec-kit/complaint-hotline/pkg/util"
)

// TicketsHandler exposes the operator ticket read and transition endpoints.
type TicketsHandler struct {
	hotline *service.HotlineService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(hotline *service.HotlineService) *TicketsHandler {
	return &TicketsHandler{hotline: hotline}
}

// ListByUnit handles GET /tickets?unit_id=...
func (h *TicketsHandler) ListByUnit(c *fiber.Ctx) error {
	unitID := c.Query("unit_id")
	if unitID == "" {
		return util.NewValidationError("unit_id query parameter required", nil)
	}

	tickets, err := h.hotline.ListUnitTickets(c.UserContext(), unitID)
	if err != nil {
		return err
	}

	summaries := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		summaries = append(summaries, dto.FromTicket(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": summaries})
}

// Get handles GET /tickets/:reference.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.hotline.GetTicket(c.UserContext(), c.Params("reference"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DetailFromTicket(ticket)})
}

// TransitionStatus handles PATCH /tickets/:reference/status.
func (h *TicketsHandler) TransitionStatus(c *fiber.Ctx) error {
	var req dto.TransitionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	switch req.Status {
	case domain.TicketStatusInProgress, domain.TicketStatusResolved:
	default:
		return util.NewValidationError("status must be in_progress or resolved", nil)
	}

	ticket, err := h.hotline.TransitionTicketStatus(c.UserContext(), c.Params("reference"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DetailFromTicket(ticket)})
}
