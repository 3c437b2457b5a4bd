package tools

import "github.com/spec-kit/complaint-hotline/internal/domain"

// Definition describes one tool in the engine settings payload.
type Definition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
}

// Parameters is a JSON-schema object describing a tool's arguments.
type Parameters struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property is one JSON-schema argument property.
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Definitions returns the tool table advertised to the engine on connect.
func Definitions() []Definition {
	categories := make([]string, 0, len(domain.AllCategories))
	for _, c := range domain.AllCategories {
		categories = append(categories, string(c))
	}

	return []Definition{
		{
			Name: string(OpAgentFiller),
			Description: "Speak a brief holding phrase while a lookup is in progress. " +
				"ALWAYS call this before any other function so the tenant isn't greeted with silence.",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"message": {Type: "string", Description: "Short natural phrase, e.g. 'Let me pull that up for you.'"},
				},
				Required: []string{"message"},
			},
		},
		{
			Name: string(OpVerifyTenant),
			Description: "Verify a caller is a registered tenant by their unit number. " +
				"Call this first for every new call before filing anything.",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"unit_number": {Type: "string", Description: "The flat or unit number the caller gave, e.g. '101'."},
				},
				Required: []string{"unit_number"},
			},
		},
		{
			Name: string(OpGetComplaintCategories),
			Description: "Return the full list of available complaint categories, both emergency and " +
				"non-emergency, so you can guide an uncertain caller to the right option.",
			Parameters: Parameters{
				Type:       "object",
				Properties: map[string]Property{},
			},
		},
		{
			Name: string(OpFileComplaint),
			Description: "File a new complaint (emergency or non-emergency). " +
				"Returns a ticket ID, SLA, a step-by-step response plan, and a full assurance " +
				"message that you MUST read aloud word-for-word to the tenant.",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"unit_number":    {Type: "string", Description: "Tenant's unit number."},
					"category":       {Type: "string", Enum: categories, Description: "Category that best matches the issue."},
					"description":    {Type: "string", Description: "Verbatim description of the problem as the tenant described it."},
					"tenant_name":    {Type: "string", Description: "Full name of the caller."},
					"contact_number": {Type: "string", Description: "Best callback number. Optional if not provided."},
				},
				Required: []string{"unit_number", "category", "description", "tenant_name"},
			},
		},
		{
			Name:        string(OpCheckComplaintStatus),
			Description: "Check the current status and remaining SLA for an existing complaint ticket.",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"ticket_id": {Type: "string", Description: "Ticket reference, e.g. 'MAD-A1B2C3D4'."},
				},
				Required: []string{"ticket_id"},
			},
		},
		{
			Name:        string(OpListTenantComplaints),
			Description: "List all complaints on record for a given unit number.",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"unit_number": {Type: "string", Description: "The unit number to look up."},
				},
				Required: []string{"unit_number"},
			},
		},
	}
}
