package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-hotline/internal/domain"
	"github.com/spec-kit/complaint-hotline/internal/events"
	"github.com/spec-kit/complaint-hotline/internal/repository"
	"github.com/spec-kit/complaint-hotline/internal/sla"
)

type eventRecorder struct {
	mu    sync.Mutex
	types []events.EventType
}

func (r *eventRecorder) record(bus events.Dispatcher, types ...events.EventType) {
	for _, eventType := range types {
		bus.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.types = append(r.types, event.Type)
			return nil
		})
	}
}

func (r *eventRecorder) seen() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.EventType{}, r.types...)
}

func newTestService(t *testing.T) (*HotlineService, *eventRecorder) {
	t.Helper()
	engine, err := sla.NewEngine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bus := events.NewInMemoryDispatcher()
	recorder := &eventRecorder{}
	recorder.record(bus, events.EventTicketCreated, events.EventTicketStatusChanged)
	svc := NewHotlineService(HotlineDependencies{
		Directory:  repository.NewMemoryDirectory(repository.SeedTenants()),
		Tickets:    repository.NewMemoryTicketStore(),
		Rules:      engine,
		Dispatcher: bus,
		Logger:     zap.NewNop(),
	})
	return svc, recorder
}

func TestVerifyTenantMissGuidesRetry(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	result, err := svc.VerifyTenant(context.Background(), "999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Verified {
		t.Fatal("unknown unit must not verify")
	}
	if !strings.Contains(result.Message, "unit 999") {
		t.Fatalf("unexpected message: %s", result.Message)
	}

	if _, err := svc.VerifyTenant(context.Background(), "   "); err == nil {
		t.Fatal("blank unit number must be rejected")
	}
}

func TestGetComplaintCategoriesGroupsBySeverity(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	result := svc.GetComplaintCategories(context.Background())
	if len(result.EmergencyCategories) != 8 {
		t.Fatalf("expected 8 emergency categories, got %d", len(result.EmergencyCategories))
	}
	if len(result.EmergencyCategories)+len(result.NonEmergencyCategories) != len(domain.AllCategories) {
		t.Fatalf("listing does not cover every category")
	}
	for _, summary := range result.EmergencyCategories {
		if summary.SLA == "" {
			t.Fatalf("category %s has no response bound", summary.Category)
		}
	}
}

func TestFileComplaintEmitsTicketCreated(t *testing.T) {
	t.Parallel()
	svc, recorder := newTestService(t)

	result, err := svc.FileComplaint(context.Background(), "sess-1", FileComplaintInput{
		UnitNumber:  "101",
		Category:    "no_heat_winter",
		Description: "No heating since last night",
		TenantName:  "Priya Sharma",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || !result.IsEmergency {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.SLAHours != 4 {
		t.Fatalf("unexpected sla hours: %v", result.SLAHours)
	}
	if result.AssuranceMessage == "" || result.ResponsePlan == "" {
		t.Fatalf("missing scripts: %+v", result)
	}
	dueBy, err := time.Parse(time.RFC3339, result.DueBy)
	if err != nil {
		t.Fatalf("due_by not RFC3339: %v", err)
	}
	if remaining := time.Until(dueBy).Hours(); remaining < 3.9 || remaining > 4 {
		t.Fatalf("due_by must sit the response bound ahead of filing, got %.2fh", remaining)
	}

	seen := recorder.seen()
	if len(seen) != 1 || seen[0] != events.EventTicketCreated {
		t.Fatalf("unexpected events: %v", seen)
	}
}

func TestFileComplaintRejectsMissingDetails(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	cases := []FileComplaintInput{
		{Category: "plumbing", Description: "leak", TenantName: "A"},
		{UnitNumber: "101", Category: "plumbing", TenantName: "A"},
		{UnitNumber: "101", Category: "plumbing", Description: "leak"},
	}
	for i, input := range cases {
		if _, err := svc.FileComplaint(context.Background(), "sess-1", input); err == nil {
			t.Fatalf("case %d: incomplete input must be rejected", i)
		}
	}
}

func TestCheckComplaintStatusReportsRemainingHours(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	filed, err := svc.FileComplaint(context.Background(), "sess-1", FileComplaintInput{
		UnitNumber:  "202",
		Category:    "pest",
		Description: "Mice in the kitchen",
		TenantName:  "James O'Brien",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, err := svc.CheckComplaintStatus(context.Background(), filed.TicketID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.Found || status.Status != string(domain.TicketStatusOpen) {
		t.Fatalf("unexpected status: %+v", status)
	}
	// filed just now against a 48 hour bound, so most of it remains
	if status.HoursRemaining < 47 || status.HoursRemaining > 48 {
		t.Fatalf("unexpected hours remaining: %v", status.HoursRemaining)
	}
	if status.IsEmergency {
		t.Fatal("pest infestation is not an emergency")
	}
}

func TestCheckComplaintStatusMissIsNotAnError(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	status, err := svc.CheckComplaintStatus(context.Background(), "MAD-DEADBEEF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Found {
		t.Fatal("unknown ticket must not be found")
	}
	if !strings.Contains(status.Message, "MAD-DEADBEEF") || !strings.Contains(status.Message, "MAD- followed by eight characters") {
		t.Fatalf("unexpected message: %s", status.Message)
	}
}

func TestListTenantComplaintsOrdering(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	empty, err := svc.ListTenantComplaints(context.Background(), "305")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.Found || !strings.Contains(empty.Message, "unit 305") {
		t.Fatalf("unexpected result: %+v", empty)
	}

	for _, category := range []string{"plumbing", "noise_complaint"} {
		if _, err := svc.FileComplaint(context.Background(), "sess-1", FileComplaintInput{
			UnitNumber:  "305",
			Category:    category,
			Description: "details",
			TenantName:  "Aisha Patel",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	listed, err := svc.ListTenantComplaints(context.Background(), "305")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !listed.Found || listed.Count != 2 || len(listed.Complaints) != 2 {
		t.Fatalf("unexpected listing: %+v", listed)
	}
}

func TestTransitionTicketStatusForwardOnly(t *testing.T) {
	t.Parallel()
	svc, recorder := newTestService(t)

	filed, err := svc.FileComplaint(context.Background(), "sess-1", FileComplaintInput{
		UnitNumber:  "410",
		Category:    "electrical",
		Description: "Socket sparking",
		TenantName:  "Carlos Mendez",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.TransitionTicketStatus(context.Background(), filed.TicketID, domain.TicketStatusInProgress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.TicketStatusInProgress {
		t.Fatalf("unexpected status: %s", updated.Status)
	}

	if _, err := svc.TransitionTicketStatus(context.Background(), filed.TicketID, domain.TicketStatusOpen); err == nil {
		t.Fatal("moving a ticket backwards must be rejected")
	}
	if _, err := svc.TransitionTicketStatus(context.Background(), "MAD-MISSING1", domain.TicketStatusResolved); err == nil {
		t.Fatal("unknown ticket must be rejected")
	}

	seen := recorder.seen()
	if len(seen) != 2 || seen[1] != events.EventTicketStatusChanged {
		t.Fatalf("unexpected events: %v", seen)
	}
}
