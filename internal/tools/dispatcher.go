package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-hotline/internal/domain"
	"github.com/spec-kit/complaint-hotline/internal/events"
	"github.com/spec-kit/complaint-hotline/internal/service"
	"github.com/spec-kit/complaint-hotline/internal/session"
)

// Dispatcher routes engine tool requests onto the hotline service, applying
// the session's authorization and verification rules on the way through.
type Dispatcher struct {
	service       *service.HotlineService
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	defaultFiller string
}

// NewDispatcher constructs a tool dispatcher. defaultFiller is spoken when
// the engine requests a filler without supplying a phrase.
func NewDispatcher(svc *service.HotlineService, dispatcher events.Dispatcher, logger *zap.Logger, defaultFiller string) *Dispatcher {
	if defaultFiller == "" {
		defaultFiller = "One moment while I check that for you."
	}
	return &Dispatcher{service: svc, dispatcher: dispatcher, logger: logger, defaultFiller: defaultFiller}
}

type verifyResponse struct {
	service.VerifyResult
	Escalate bool `json:"escalate,omitempty"`
}

// Dispatch executes one named tool request and returns the JSON result to
// hand back to the engine. Domain failures are reported inside the result
// payload so the engine can speak them; only marshalling ever returns an
// error.
func (d *Dispatcher) Dispatch(ctx context.Context, sess *session.Session, invocationID, name string, rawArgs json.RawMessage) ([]byte, error) {
	started := time.Now()
	op, ok := ParseOperation(name)
	if !ok {
		d.logger.Warn("unknown tool requested", zap.String("name", name), zap.String("invocation_id", invocationID))
		d.publishCompleted(ctx, sess, invocationID, name, "rejected", started)
		return marshalResult(ErrorResult{Success: false, Error: fmt.Sprintf("Unknown function: %s", name)})
	}

	result, outcome := d.execute(ctx, sess, op, rawArgs)
	d.publishCompleted(ctx, sess, invocationID, string(op), outcome, started)
	return marshalResult(result)
}

func (d *Dispatcher) execute(ctx context.Context, sess *session.Session, op Operation, rawArgs json.RawMessage) (any, string) {
	switch op {
	case OpAgentFiller:
		var args AgentFillerArgs
		if err := decodeArgs(rawArgs, &args); err != nil {
			return ErrorResult{Success: false, Error: err.Error()}, "invalid_args"
		}
		if strings.TrimSpace(args.Message) == "" {
			args.Message = d.defaultFiller
		}
		return FillerResult{Success: true, Message: args.Message}, "ok"

	case OpVerifyTenant:
		var args VerifyTenantArgs
		if err := decodeArgs(rawArgs, &args); err != nil {
			return ErrorResult{Success: false, Error: err.Error()}, "invalid_args"
		}
		return d.verifyTenant(ctx, sess, args)

	case OpGetComplaintCategories:
		return d.service.GetComplaintCategories(ctx), "ok"

	case OpFileComplaint:
		var args FileComplaintArgs
		if err := decodeArgs(rawArgs, &args); err != nil {
			return ErrorResult{Success: false, Error: err.Error()}, "invalid_args"
		}
		return d.fileComplaint(ctx, sess, args)

	case OpCheckComplaintStatus:
		var args CheckStatusArgs
		if err := decodeArgs(rawArgs, &args); err != nil {
			return ErrorResult{Success: false, Error: err.Error()}, "invalid_args"
		}
		result, err := d.service.CheckComplaintStatus(ctx, args.TicketID)
		if err != nil {
			return ErrorResult{Success: false, Error: err.Error()}, "error"
		}
		return result, "ok"

	case OpListTenantComplaints:
		var args ListComplaintsArgs
		if err := decodeArgs(rawArgs, &args); err != nil {
			return ErrorResult{Success: false, Error: err.Error()}, "invalid_args"
		}
		result, err := d.service.ListTenantComplaints(ctx, args.UnitNumber)
		if err != nil {
			return ErrorResult{Success: false, Error: err.Error()}, "error"
		}
		return result, "ok"
	}
	// unreachable: ParseOperation bounds op to the cases above
	return ErrorResult{Success: false, Error: fmt.Sprintf("Unknown function: %s", op)}, "rejected"
}

func (d *Dispatcher) verifyTenant(ctx context.Context, sess *session.Session, args VerifyTenantArgs) (any, string) {
	result, err := d.service.VerifyTenant(ctx, args.UnitNumber)
	if err != nil {
		return ErrorResult{Success: false, Error: err.Error()}, "error"
	}
	if !result.Verified {
		escalate := sess.RecordVerifyFailure()
		response := verifyResponse{VerifyResult: *result, Escalate: escalate}
		if escalate {
			response.Message = "I'm having trouble verifying that unit. Let me transfer you to a member of our team who can help directly."
			return response, "escalated"
		}
		return response, "not_found"
	}

	if err := d.lookupAndBind(ctx, sess, result.UnitNumber); err != nil {
		return ErrorResult{Success: false, Error: err.Error()}, "error"
	}
	return verifyResponse{VerifyResult: *result}, "ok"
}

func (d *Dispatcher) fileComplaint(ctx context.Context, sess *session.Session, args FileComplaintArgs) (any, string) {
	tenant := sess.Tenant()
	if tenant == nil {
		return ErrorResult{
			Success: false,
			Error:   "The caller must be verified with verify_tenant before a complaint can be filed.",
		}, "unauthorized"
	}
	if !strings.EqualFold(strings.TrimSpace(args.UnitNumber), tenant.UnitID) {
		return ErrorResult{
			Success: false,
			Error:   fmt.Sprintf("Complaints can only be filed for the verified unit %s.", tenant.UnitID),
		}, "unauthorized"
	}

	// an additional complaint after assurance reopens detail collection
	if sess.Phase() == session.PhaseAssurance {
		if err := sess.Advance(session.PhaseCollectingDetails); err != nil {
			return ErrorResult{Success: false, Error: err.Error()}, "error"
		}
	}

	result, err := d.service.FileComplaint(ctx, sess.ID, service.FileComplaintInput{
		UnitNumber:    tenant.UnitID,
		Category:      args.Category,
		Description:   args.Description,
		TenantName:    args.TenantName,
		ContactNumber: args.ContactNumber,
	})
	if err != nil {
		return ErrorResult{Success: false, Error: err.Error()}, "error"
	}

	severity := domain.SeverityNonEmergency
	if result.IsEmergency {
		severity = domain.SeverityEmergency
	}
	sess.RecordFiling(result.TicketID, result.Category, severity)
	return result, "ok"
}

func (d *Dispatcher) lookupAndBind(ctx context.Context, sess *session.Session, unitID string) error {
	tenant, err := d.service.LookupTenant(ctx, unitID)
	if err != nil {
		return err
	}
	return sess.BindTenant(tenant)
}

func (d *Dispatcher) publishCompleted(ctx context.Context, sess *session.Session, invocationID, operation, outcome string, started time.Time) {
	if d.dispatcher == nil {
		return
	}
	sessionID := ""
	if sess != nil {
		sessionID = sess.ID
	}
	_ = d.dispatcher.Publish(ctx, events.NewToolCallCompleted(sessionID, invocationID, operation, outcome, time.Since(started)))
}

func decodeArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func marshalResult(result any) ([]byte, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return payload, nil
}
