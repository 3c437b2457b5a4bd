package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/complaint-hotline/internal/domain"
	"github.com/spec-kit/complaint-hotline/internal/events"
	"github.com/spec-kit/complaint-hotline/pkg/util"
)

// Session tracks one phone call from greeting to hangup: the conversation
// phase, the verified tenant (if any), the verification retry count and the
// single in-flight tool invocation the engine is allowed at a time.
type Session struct {
	ID         string
	StreamSID  string
	StartedAt  time.Time
	retryLimit int
	dispatcher events.Dispatcher

	mu            sync.Mutex
	phase         Phase
	tenant        *domain.Tenant
	verifyFails   int
	escalated     bool
	hungUp        bool
	inFlightID    string
	filedTickets  []string
	lastEmergency domain.Category
}

// New creates a session in the greeting phase. retryLimit is the number of
// failed verification attempts tolerated before the call is escalated.
func New(streamSID string, retryLimit int, dispatcher events.Dispatcher) *Session {
	if retryLimit <= 0 {
		retryLimit = 3
	}
	return &Session{
		ID:         uuid.New().String(),
		StreamSID:  streamSID,
		StartedAt:  time.Now().UTC(),
		retryLimit: retryLimit,
		dispatcher: dispatcher,
		phase:      PhaseGreeting,
	}
}

// Phase returns the current conversation phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Advance moves the session to the given phase. Illegal jumps are rejected
// with a protocol violation so the bridge can report and tear the call down.
func (s *Session) Advance(to Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceLocked(to)
}

func (s *Session) advanceLocked(to Phase) error {
	if !isLegalTransition(s.phase, to) {
		return util.NewProtocolViolation(fmt.Sprintf("illegal phase transition %s -> %s", s.phase, to))
	}
	from := s.phase
	s.phase = to
	s.publishPhaseChange(from, to)
	return nil
}

// Hangup moves the session to closing regardless of the current phase.
// Caller hangup is legal at any point in the call.
func (s *Session) Hangup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hungUp = true
	if s.phase == PhaseClosing {
		return
	}
	from := s.phase
	s.phase = PhaseClosing
	s.publishPhaseChange(from, PhaseClosing)
}

// Closed reports whether the session has reached the closing phase.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == PhaseClosing
}

// HungUp reports whether the call itself ended, as opposed to the session
// reaching closing through verification escalation.
func (s *Session) HungUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hungUp
}

// BindTenant records a successful verification and moves the session out of
// the verifying phase. The bound tenant is immutable for the rest of the call.
func (s *Session) BindTenant(tenant *domain.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tenant != nil {
		return util.NewProtocolViolation("tenant already verified for this session")
	}
	if s.phase == PhaseGreeting {
		if err := s.advanceLocked(PhaseVerifying); err != nil {
			return err
		}
	}
	if err := s.advanceLocked(PhaseCategorizing); err != nil {
		return err
	}
	s.tenant = tenant
	s.verifyFails = 0
	return nil
}

// Tenant returns the verified tenant or nil before verification.
func (s *Session) Tenant() *domain.Tenant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tenant
}

// Verified reports whether a tenant has been bound to the session.
func (s *Session) Verified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tenant != nil
}

// RecordVerifyFailure counts a failed verification attempt. Once the retry
// limit is exhausted the session is marked escalated and moved to closing;
// the caller is handed to a human operator from there.
func (s *Session) RecordVerifyFailure() (escalate bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseGreeting {
		_ = s.advanceLocked(PhaseVerifying)
	}
	s.verifyFails++
	if s.verifyFails >= s.retryLimit && !s.escalated {
		s.escalated = true
		if s.dispatcher != nil {
			_ = s.dispatcher.Publish(context.Background(), events.NewSessionEscalated(s.ID, "verification retry limit reached", s.verifyFails))
		}
		if s.phase != PhaseClosing {
			from := s.phase
			s.phase = PhaseClosing
			s.publishPhaseChange(from, PhaseClosing)
		}
	}
	return s.escalated
}

// VerifyFailures returns the number of failed verification attempts so far.
func (s *Session) VerifyFailures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifyFails
}

// Escalated reports whether the call has been flagged for a human operator.
func (s *Session) Escalated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.escalated
}

// BeginInvocation claims the single tool-invocation slot. A second request
// arriving while one is outstanding is a protocol violation.
func (s *Session) BeginInvocation(invocationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if invocationID == "" {
		return util.NewValidationError("invocation id must not be empty", nil)
	}
	if s.inFlightID != "" {
		return util.NewProtocolViolation(fmt.Sprintf("invocation %s requested while %s is still in flight", invocationID, s.inFlightID))
	}
	s.inFlightID = invocationID
	return nil
}

// EndInvocation releases the invocation slot. The id must match the one
// passed to BeginInvocation.
func (s *Session) EndInvocation(invocationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlightID != invocationID {
		return util.NewProtocolViolation(fmt.Sprintf("end of invocation %s does not match in-flight %s", invocationID, s.inFlightID))
	}
	s.inFlightID = ""
	return nil
}

// InFlight returns the id of the outstanding invocation, or "" when idle.
func (s *Session) InFlight() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlightID
}

// RecordFiling notes a filed ticket reference and moves the session into the
// assurance phase so the scripted reassurance is read before closing.
func (s *Session) RecordFiling(reference string, category domain.Category, severity domain.SeverityTier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filedTickets = append(s.filedTickets, reference)
	if severity == domain.SeverityEmergency {
		s.lastEmergency = category
	}
	switch s.phase {
	case PhaseCategorizing:
		_ = s.advanceLocked(PhaseCollectingDetails)
		_ = s.advanceLocked(PhaseFiling)
	case PhaseCollectingDetails:
		_ = s.advanceLocked(PhaseFiling)
	}
	if s.phase == PhaseFiling {
		_ = s.advanceLocked(PhaseAssurance)
	}
}

// FiledTickets returns the references filed during this call, in order.
func (s *Session) FiledTickets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.filedTickets))
	copy(out, s.filedTickets)
	return out
}

// PendingEmergency returns the emergency category awaiting its assurance
// script, or "" when none is pending.
func (s *Session) PendingEmergency() domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastEmergency
}

// AssuranceDelivered clears the pending emergency once the script is read.
func (s *Session) AssuranceDelivered() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastEmergency = ""
}

func (s *Session) publishPhaseChange(from, to Phase) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(context.Background(), events.NewSessionPhaseChanged(s.ID, from.String(), to.String()))
}
