package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/complaint-hotline/internal/domain"
)

// MemoryDirectory is the in-memory tenant registry. It is populated once
// at startup and read-only afterwards, so lookups need no locking.
type MemoryDirectory struct {
	tenants map[string]domain.Tenant
}

// NewMemoryDirectory builds the registry from provisioned tenant records.
func NewMemoryDirectory(tenants []domain.Tenant) *MemoryDirectory {
	byUnit := make(map[string]domain.Tenant, len(tenants))
	for _, tenant := range tenants {
		byUnit[tenant.UnitID] = tenant
	}
	return &MemoryDirectory{tenants: byUnit}
}

// LookupTenant returns the tenant for a unit, or ErrNotFound.
func (d *MemoryDirectory) LookupTenant(_ context.Context, unitID string) (*domain.Tenant, error) {
	tenant, ok := d.tenants[strings.TrimSpace(unitID)]
	if !ok {
		return nil, ErrNotFound
	}
	out := tenant
	return &out, nil
}

// SeedTenants returns the built-in development directory used when no
// provisioning file is configured.
func SeedTenants() []domain.Tenant {
	seed := []domain.Tenant{
		{UnitID: "101", Name: "Priya Sharma", Phone: "+447700900001", Email: "priya@example.com"},
		{UnitID: "202", Name: "James O'Brien", Phone: "+447700900002", Email: "james@example.com"},
		{UnitID: "305", Name: "Aisha Patel", Phone: "+447700900003", Email: "aisha@example.com"},
		{UnitID: "410", Name: "Carlos Mendez", Phone: "+447700900004", Email: "carlos@example.com"},
		{UnitID: "4B", Name: "Dana Whitfield", Phone: "+447700900005", Email: "dana@example.com"},
	}
	for i := range seed {
		seed[i].VerifyToken = seed[i].Phone[len(seed[i].Phone)-4:]
	}
	return seed
}

// LoadTenants reads a provisioned tenant directory from a JSON file.
func LoadTenants(path string) ([]domain.Tenant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tenants file: %w", err)
	}
	var tenants []domain.Tenant
	if err := json.Unmarshal(data, &tenants); err != nil {
		return nil, fmt.Errorf("parse tenants file %s: %w", path, err)
	}
	return tenants, nil
}

// MemoryTicketStore keeps tickets in a mutex-guarded map with a per-unit
// creation-order index. It satisfies the TicketStore contract without any
// external dependency and is the default backend.
type MemoryTicketStore struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
	order   map[string][]string
}

// NewMemoryTicketStore builds an empty store.
func NewMemoryTicketStore() *MemoryTicketStore {
	return &MemoryTicketStore{
		tickets: make(map[string]*domain.Ticket),
		order:   make(map[string][]string),
	}
}

// CreateTicket generates a collision-free reference and stores the ticket.
// Reference generation and insertion happen in one critical section so
// concurrent creations cannot collide.
func (s *MemoryTicketStore) CreateTicket(_ context.Context, ticket *domain.Ticket) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reference := generateReference()
	for s.tickets[reference] != nil {
		reference = generateReference()
	}

	now := time.Now().UTC()
	stored := *ticket
	stored.Reference = reference
	stored.Status = domain.TicketStatusOpen
	stored.CreatedAt = now
	stored.DueBy = now.Add(stored.ResponseTime)

	s.tickets[reference] = &stored
	s.order[stored.UnitID] = append(s.order[stored.UnitID], reference)

	*ticket = stored
	return reference, nil
}

// GetTicket returns a copy of the ticket for a reference, or ErrNotFound.
func (s *MemoryTicketStore) GetTicket(_ context.Context, reference string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[normalizeReference(reference)]
	if !ok {
		return nil, ErrNotFound
	}
	out := *ticket
	return &out, nil
}

// ListTicketsForUnit returns the unit's tickets in creation order.
func (s *MemoryTicketStore) ListTicketsForUnit(_ context.Context, unitID string) ([]domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs := s.order[strings.TrimSpace(unitID)]
	out := make([]domain.Ticket, 0, len(refs))
	for _, ref := range refs {
		out = append(out, *s.tickets[ref])
	}
	return out, nil
}

// UpdateTicketStatus applies a forward-only status transition.
func (s *MemoryTicketStore) UpdateTicketStatus(_ context.Context, reference string, status domain.TicketStatus) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[normalizeReference(reference)]
	if !ok {
		return nil, ErrNotFound
	}
	if !domain.IsValidStatusTransition(ticket.Status, status) {
		return nil, fmt.Errorf("invalid status transition %s -> %s", ticket.Status, status)
	}
	ticket.Status = status
	out := *ticket
	return &out, nil
}

func generateReference() string {
	return "MAD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func normalizeReference(reference string) string {
	return strings.ToUpper(strings.TrimSpace(reference))
}
