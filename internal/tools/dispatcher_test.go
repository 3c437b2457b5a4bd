package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-hotline/internal/events"
	"github.com/spec-kit/complaint-hotline/internal/repository"
	"github.com/spec-kit/complaint-hotline/internal/service"
	"github.com/spec-kit/complaint-hotline/internal/session"
	"github.com/spec-kit/complaint-hotline/internal/sla"
)

type fixture struct {
	dispatcher *Dispatcher
	store      *repository.MemoryTicketStore
	sess       *session.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	rules, err := sla.NewEngine()
	if err != nil {
		t.Fatalf("rule table: %v", err)
	}
	store := repository.NewMemoryTicketStore()
	bus := events.NewInMemoryDispatcher()
	svc := service.NewHotlineService(service.HotlineDependencies{
		Directory:  repository.NewMemoryDirectory(repository.SeedTenants()),
		Tickets:    store,
		Rules:      rules,
		Dispatcher: bus,
		Logger:     zap.NewNop(),
	})
	return &fixture{
		dispatcher: NewDispatcher(svc, bus, zap.NewNop(), "One moment please."),
		store:      store,
		sess:       session.New("MZ1", 3, bus),
	}
}

func dispatch(t *testing.T, f *fixture, name, args string) map[string]any {
	t.Helper()

	raw, err := f.dispatcher.Dispatch(context.Background(), f.sess, "inv-1", name, json.RawMessage(args))
	if err != nil {
		t.Fatalf("dispatch %s: %v", name, err)
	}
	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("result not JSON: %v", err)
	}
	return result
}

func verify(t *testing.T, f *fixture, unit string) {
	t.Helper()
	result := dispatch(t, f, "verify_tenant", `{"unit_number":"`+unit+`"}`)
	if result["verified"] != true {
		t.Fatalf("verification of unit %s failed: %v", unit, result)
	}
}

func TestDispatchUnknownOperation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	result := dispatch(t, f, "reboot_building", `{}`)
	if result["success"] != false {
		t.Fatalf("unknown operation must fail: %v", result)
	}
	if !strings.Contains(result["error"].(string), "Unknown function") {
		t.Fatalf("unexpected error message: %v", result["error"])
	}
}

func TestDispatchFillerDefaultsMessage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	result := dispatch(t, f, "agent_filler", `{}`)
	if result["success"] != true || result["message"] != "One moment please." {
		t.Fatalf("unexpected filler result: %v", result)
	}
}

func TestDispatchVerifyTenantBindsSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	result := dispatch(t, f, "verify_tenant", `{"unit_number":"101"}`)
	if result["verified"] != true || result["tenant_name"] != "Priya Sharma" {
		t.Fatalf("unexpected verify result: %v", result)
	}
	if !f.sess.Verified() {
		t.Fatal("session must be bound after verification")
	}
}

func TestDispatchVerifyTenantMissGuidesRetry(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	result := dispatch(t, f, "verify_tenant", `{"unit_number":"999"}`)
	if result["verified"] != false {
		t.Fatalf("unexpected verify result: %v", result)
	}
	if !strings.Contains(result["message"].(string), "couldn't find unit 999") {
		t.Fatalf("unexpected guidance: %v", result["message"])
	}
	if f.sess.Verified() {
		t.Fatal("session must stay unverified")
	}
}

func TestDispatchVerifyRetryCeilingEscalates(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for i := 0; i < 2; i++ {
		dispatch(t, f, "verify_tenant", `{"unit_number":"999"}`)
	}
	result := dispatch(t, f, "verify_tenant", `{"unit_number":"999"}`)
	if result["escalate"] != true {
		t.Fatalf("third miss must escalate: %v", result)
	}
	if !f.sess.Escalated() {
		t.Fatal("session must be escalated")
	}
	if !f.sess.Closed() {
		t.Fatal("escalated session must move to closing")
	}
}

func TestDispatchFileComplaintRequiresVerification(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	result := dispatch(t, f, "file_complaint",
		`{"unit_number":"101","category":"plumbing","description":"leaking tap","tenant_name":"Priya Sharma"}`)
	if result["success"] != false {
		t.Fatalf("unverified filing must fail: %v", result)
	}

	tickets, err := f.store.ListTicketsForUnit(context.Background(), "101")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tickets) != 0 {
		t.Fatalf("no ticket may be persisted, found %d", len(tickets))
	}
}

func TestDispatchFileComplaintForOtherUnitRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	verify(t, f, "101")

	result := dispatch(t, f, "file_complaint",
		`{"unit_number":"202","category":"plumbing","description":"leaking tap","tenant_name":"Priya Sharma"}`)
	if result["success"] != false {
		t.Fatalf("cross-unit filing must fail: %v", result)
	}
}

func TestDispatchFileComplaintSuccess(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	verify(t, f, "101")

	result := dispatch(t, f, "file_complaint",
		`{"unit_number":"101","category":"gas_leak","description":"smell of gas in hallway","tenant_name":"Priya Sharma","contact_number":"+447700900001"}`)
	if result["success"] != true {
		t.Fatalf("filing failed: %v", result)
	}
	if result["is_emergency"] != true {
		t.Fatalf("gas leak must be an emergency: %v", result)
	}
	reference := result["ticket_id"].(string)
	if !strings.HasPrefix(reference, "MAD-") {
		t.Fatalf("unexpected reference: %s", reference)
	}
	if !strings.HasPrefix(result["assurance_message"].(string), "Please leave your flat immediately") {
		t.Fatalf("unexpected assurance: %v", result["assurance_message"])
	}

	ticket, err := f.store.GetTicket(context.Background(), reference)
	if err != nil {
		t.Fatalf("ticket not persisted: %v", err)
	}
	if ticket.UnitID != "101" {
		t.Fatalf("unexpected unit: %s", ticket.UnitID)
	}
	if f.sess.Phase().String() != "assurance" {
		t.Fatalf("session must be in assurance, got %s", f.sess.Phase())
	}
}

func TestDispatchSecondComplaintAfterAssurance(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	verify(t, f, "101")

	dispatch(t, f, "file_complaint",
		`{"unit_number":"101","category":"plumbing","description":"kitchen tap dripping","tenant_name":"Priya Sharma"}`)
	if f.sess.Phase() != session.PhaseAssurance {
		t.Fatalf("expected assurance after first filing, got %s", f.sess.Phase())
	}

	result := dispatch(t, f, "file_complaint",
		`{"unit_number":"101","category":"noise_complaint","description":"loud music nightly from the flat above","tenant_name":"Priya Sharma"}`)
	if result["success"] != true {
		t.Fatalf("second filing failed: %v", result)
	}
	if f.sess.Phase() != session.PhaseAssurance {
		t.Fatalf("expected assurance after second filing, got %s", f.sess.Phase())
	}
	if tickets := f.sess.FiledTickets(); len(tickets) != 2 {
		t.Fatalf("expected two filed tickets, got %v", tickets)
	}
}

func TestDispatchUnknownCategoryFallsBack(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	verify(t, f, "202")

	result := dispatch(t, f, "file_complaint",
		`{"unit_number":"202","category":"ghost_sightings","description":"strange noises","tenant_name":"James O'Brien"}`)
	if result["success"] != true {
		t.Fatalf("filing failed: %v", result)
	}
	if result["category"] != "other" {
		t.Fatalf("unknown category must fall back to other: %v", result["category"])
	}
}

func TestDispatchCheckStatusNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	result := dispatch(t, f, "check_complaint_status", `{"ticket_id":"MAD-ZZZZZZZZ"}`)
	if result["found"] != false {
		t.Fatalf("unexpected status result: %v", result)
	}
	if !strings.Contains(result["message"].(string), "starts with MAD-") {
		t.Fatalf("unexpected guidance: %v", result["message"])
	}
}

func TestDispatchListComplaintsRoundTrip(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	verify(t, f, "305")

	empty := dispatch(t, f, "list_tenant_complaints", `{"unit_number":"305"}`)
	if empty["found"] != false {
		t.Fatalf("expected empty listing: %v", empty)
	}

	dispatch(t, f, "file_complaint",
		`{"unit_number":"305","category":"pest","description":"mice in kitchen","tenant_name":"Aisha Patel"}`)

	listed := dispatch(t, f, "list_tenant_complaints", `{"unit_number":"305"}`)
	if listed["found"] != true || listed["count"] != float64(1) {
		t.Fatalf("unexpected listing: %v", listed)
	}
	complaints := listed["complaints"].([]any)
	first := complaints[0].(map[string]any)
	if first["label"] != "Pest Infestation" {
		t.Fatalf("unexpected label: %v", first["label"])
	}
}

func TestDefinitionsCoverEveryOperation(t *testing.T) {
	t.Parallel()

	defs := Definitions()
	if len(defs) != 6 {
		t.Fatalf("expected 6 definitions, got %d", len(defs))
	}
	for _, def := range defs {
		if _, ok := ParseOperation(def.Name); !ok {
			t.Fatalf("definition %s outside the operation set", def.Name)
		}
	}

	for _, def := range defs {
		if def.Name != string(OpFileComplaint) {
			continue
		}
		categories := def.Parameters.Properties["category"].Enum
		if len(categories) != 23 {
			t.Fatalf("expected 23 category options, got %d", len(categories))
		}
	}
}
