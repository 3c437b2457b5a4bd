package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spec-kit/complaint-hotline/internal/domain"
)

func newTicket(unit string) *domain.Ticket {
	return &domain.Ticket{
		UnitID:       unit,
		Category:     domain.CategoryPlumbing,
		Label:        "Plumbing Issue",
		Description:  "kitchen tap dripping",
		Severity:     domain.SeverityNonEmergency,
		Team:         "Maintenance Team",
		Priority:     3,
		ResponseTime: 24 * time.Hour,
		CallerName:   "Priya Sharma",
	}
}

func TestCreateTicketStampsFields(t *testing.T) {
	t.Parallel()

	store := NewMemoryTicketStore()
	ticket := newTicket("101")
	before := time.Now().UTC()

	ref, err := store.CreateTicket(context.Background(), ticket)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(ref, "MAD-") || len(ref) != len("MAD-")+8 {
		t.Fatalf("unexpected reference format: %s", ref)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("new ticket must be open, got %s", ticket.Status)
	}
	if ticket.CreatedAt.Before(before) {
		t.Fatalf("created_at not stamped: %s", ticket.CreatedAt)
	}
	if got := ticket.DueBy.Sub(ticket.CreatedAt); got != ticket.ResponseTime {
		t.Fatalf("due_by must be created_at plus response time, got %s", got)
	}
}

func TestCreateTicketConcurrentReferencesDistinct(t *testing.T) {
	t.Parallel()

	store := NewMemoryTicketStore()
	const n = 64

	refs := make([]string, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			ref, err := store.CreateTicket(context.Background(), newTicket("202"))
			if err != nil {
				t.Errorf("create %d: %v", i, err)
				return
			}
			refs[i] = ref
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, ref := range refs {
		if seen[ref] {
			t.Fatalf("duplicate reference issued: %s", ref)
		}
		seen[ref] = true
	}
}

func TestGetTicketNormalizesReference(t *testing.T) {
	t.Parallel()

	store := NewMemoryTicketStore()
	ref, err := store.CreateTicket(context.Background(), newTicket("305"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetTicket(context.Background(), "  "+strings.ToLower(ref)+" ")
	if err != nil {
		t.Fatalf("lookup with unnormalized reference failed: %v", err)
	}
	if got.Reference != ref {
		t.Fatalf("expected %s, got %s", ref, got.Reference)
	}

	if _, err := store.GetTicket(context.Background(), "MAD-00000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTicketsForUnitCreationOrder(t *testing.T) {
	t.Parallel()

	store := NewMemoryTicketStore()
	var refs []string
	for i := 0; i < 3; i++ {
		ref, err := store.CreateTicket(context.Background(), newTicket("410"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		refs = append(refs, ref)
	}
	if _, err := store.CreateTicket(context.Background(), newTicket("101")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tickets, err := store.ListTicketsForUnit(context.Background(), "410")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tickets) != 3 {
		t.Fatalf("expected 3 tickets, got %d", len(tickets))
	}
	for i, ticket := range tickets {
		if ticket.Reference != refs[i] {
			t.Fatalf("position %d: expected %s, got %s", i, refs[i], ticket.Reference)
		}
	}

	empty, err := store.ListTicketsForUnit(context.Background(), "999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty listing, got %d", len(empty))
	}
}

func TestUpdateTicketStatusForwardOnly(t *testing.T) {
	t.Parallel()

	store := NewMemoryTicketStore()
	ref, err := store.CreateTicket(context.Background(), newTicket("101"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := store.UpdateTicketStatus(context.Background(), ref, domain.TicketStatusInProgress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.TicketStatusInProgress {
		t.Fatalf("expected in_progress, got %s", updated.Status)
	}

	if _, err := store.UpdateTicketStatus(context.Background(), ref, domain.TicketStatusOpen); err == nil {
		t.Fatal("backward transition must be rejected")
	}
}

func TestMemoryDirectoryLookup(t *testing.T) {
	t.Parallel()

	directory := NewMemoryDirectory(SeedTenants())

	tenant, err := directory.LookupTenant(context.Background(), "101")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tenant.Name != "Priya Sharma" {
		t.Fatalf("unexpected tenant: %s", tenant.Name)
	}

	if _, err := directory.LookupTenant(context.Background(), "710"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
