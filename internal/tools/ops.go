package tools

// Operation is the closed set of tool operations the reasoning engine may
// request. Requests outside the set are rejected, never executed.
type Operation string

const (
	OpAgentFiller            Operation = "agent_filler"
	OpVerifyTenant           Operation = "verify_tenant"
	OpGetComplaintCategories Operation = "get_complaint_categories"
	OpFileComplaint          Operation = "file_complaint"
	OpCheckComplaintStatus   Operation = "check_complaint_status"
	OpListTenantComplaints   Operation = "list_tenant_complaints"
)

// ParseOperation maps an engine-supplied name onto the operation set.
func ParseOperation(name string) (Operation, bool) {
	switch Operation(name) {
	case OpAgentFiller, OpVerifyTenant, OpGetComplaintCategories,
		OpFileComplaint, OpCheckComplaintStatus, OpListTenantComplaints:
		return Operation(name), true
	}
	return "", false
}

// AgentFillerArgs carries the holding phrase to speak during a lookup.
type AgentFillerArgs struct {
	Message string `json:"message"`
}

// VerifyTenantArgs identifies the unit to verify.
type VerifyTenantArgs struct {
	UnitNumber string `json:"unit_number"`
}

// FileComplaintArgs carries the collected complaint details.
type FileComplaintArgs struct {
	UnitNumber    string `json:"unit_number"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	TenantName    string `json:"tenant_name"`
	ContactNumber string `json:"contact_number"`
}

// CheckStatusArgs identifies the ticket to look up.
type CheckStatusArgs struct {
	TicketID string `json:"ticket_id"`
}

// ListComplaintsArgs identifies the unit to list complaints for.
type ListComplaintsArgs struct {
	UnitNumber string `json:"unit_number"`
}

// FillerResult acknowledges a spoken holding phrase.
type FillerResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResult is the engine-facing shape for a failed invocation.
type ErrorResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
