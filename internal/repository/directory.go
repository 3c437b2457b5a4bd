package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/complaint-hotline/internal/domain"
)

// ErrNotFound is returned when a tenant or ticket lookup misses. Lookup
// misses are normal result variants for the session retry logic, not
// failures.
var ErrNotFound = errors.New("not found")

// TenantDirectory exposes the read-only tenant registry.
type TenantDirectory interface {
	LookupTenant(ctx context.Context, unitID string) (*domain.Tenant, error)
}

// TicketStore encapsulates complaint ticket persistence. Implementations
// must be safe for concurrent use from arbitrarily many call sessions:
// reference generation and insertion are atomic, and two simultaneous
// CreateTicket calls never collide on the generated reference. Tickets
// are append-only; no deletion is exposed.
type TicketStore interface {
	// CreateTicket assigns a unique reference, stamps creation time and
	// due-by, stores the ticket, and returns the reference.
	CreateTicket(ctx context.Context, ticket *domain.Ticket) (string, error)
	GetTicket(ctx context.Context, reference string) (*domain.Ticket, error)
	// ListTicketsForUnit returns the unit's tickets in creation order.
	ListTicketsForUnit(ctx context.Context, unitID string) ([]domain.Ticket, error)
	// UpdateTicketStatus applies a forward-only status transition.
	UpdateTicketStatus(ctx context.Context, reference string, status domain.TicketStatus) (*domain.Ticket, error)
}
