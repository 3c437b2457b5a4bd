package sla

import (
	"time"

	"github.com/spec-kit/complaint-hotline/internal/domain"
)

// Rule binds one complaint category to its service-level commitment.
type Rule struct {
	Category     domain.Category
	Label        string
	Severity     domain.SeverityTier
	ResponseTime time.Duration
	Team         string
	Priority     int
	Steps        []string
	Assurance    string
}

// ruleSpec is the compact static form the rule table is declared in.
type ruleSpec struct {
	label    string
	hours    int
	team     string
	priority int
	severity domain.SeverityTier
}

var ruleSpecs = map[domain.Category]ruleSpec{
	domain.CategoryGasLeak:          {"Gas Leak", 1, "Emergency Response", 1, domain.SeverityEmergency},
	domain.CategoryFire:             {"Fire / Smoke", 1, "Emergency Response", 1, domain.SeverityEmergency},
	domain.CategoryFlood:            {"Flooding / Burst Pipe", 2, "Emergency Response", 1, domain.SeverityEmergency},
	domain.CategoryStructuralDamage: {"Structural Damage", 2, "Emergency Response", 1, domain.SeverityEmergency},
	domain.CategoryNoHeatWinter:     {"No Heating (Winter)", 4, "Emergency Maintenance", 2, domain.SeverityEmergency},
	domain.CategoryPowerOutage:      {"Power Outage", 4, "Emergency Maintenance", 2, domain.SeverityEmergency},
	domain.CategorySecurityBreach:   {"Security / Break-in", 2, "Security Team", 1, domain.SeverityEmergency},
	domain.CategoryMedicalEmergency: {"Medical Emergency", 1, "Emergency Services (999)", 1, domain.SeverityEmergency},

	domain.CategoryPlumbing:         {"Plumbing Issue", 24, "Maintenance Team", 3, domain.SeverityNonEmergency},
	domain.CategoryElectrical:       {"Electrical Issue", 24, "Maintenance Team", 3, domain.SeverityNonEmergency},
	domain.CategoryHVAC:             {"Heating / AC Issue", 24, "Maintenance Team", 3, domain.SeverityNonEmergency},
	domain.CategoryAppliance:        {"Appliance Fault", 48, "Maintenance Team", 4, domain.SeverityNonEmergency},
	domain.CategoryPest:             {"Pest Infestation", 48, "Pest Control Team", 4, domain.SeverityNonEmergency},
	domain.CategoryNoiseComplaint:   {"Noise Complaint", 24, "Property Management", 3, domain.SeverityNonEmergency},
	domain.CategoryNeighbourDispute: {"Neighbour Dispute", 48, "Property Management", 4, domain.SeverityNonEmergency},
	domain.CategoryParking:          {"Parking Issue", 48, "Property Management", 4, domain.SeverityNonEmergency},
	domain.CategoryCommonArea:       {"Common Area Issue", 48, "Facilities Team", 4, domain.SeverityNonEmergency},
	domain.CategoryLift:             {"Lift / Elevator Issue", 12, "Maintenance Team", 3, domain.SeverityNonEmergency},
	domain.CategoryEntrySystem:      {"Entry System / Keys", 12, "Maintenance Team", 3, domain.SeverityNonEmergency},
	domain.CategoryRubbish:          {"Waste / Rubbish", 72, "Facilities Team", 5, domain.SeverityNonEmergency},
	domain.CategoryLeaking:          {"Leak (non-urgent)", 24, "Maintenance Team", 3, domain.SeverityNonEmergency},
	domain.CategoryDampMould:        {"Damp / Mould", 72, "Maintenance Team", 4, domain.SeverityNonEmergency},
	domain.CategoryOther:            {"General Complaint", 48, "Property Management", 4, domain.SeverityNonEmergency},
}
