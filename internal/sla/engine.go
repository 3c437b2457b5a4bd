package sla

import (
	"fmt"
	"time"

	"github.com/spec-kit/complaint-hotline/internal/domain"
)

// Engine resolves complaint categories to their service-level rules.
// The rule table is built once at startup and read-only thereafter, so
// the engine is safe for concurrent use from any number of call sessions.
type Engine struct {
	rules map[domain.Category]Rule
}

// NewEngine builds the rule table. It returns an error if any category in
// the enumeration lacks a rule, a script, or a positive response-time
// bound; a gap here is a configuration defect, not a runtime condition.
func NewEngine() (*Engine, error) {
	rules := make(map[domain.Category]Rule, len(domain.AllCategories))
	for _, category := range domain.AllCategories {
		spec, ok := ruleSpecs[category]
		if !ok {
			return nil, fmt.Errorf("sla: no rule for category %q", category)
		}
		script, ok := assuranceScripts[category]
		if !ok {
			return nil, fmt.Errorf("sla: no assurance script for category %q", category)
		}
		if spec.hours <= 0 {
			return nil, fmt.Errorf("sla: non-positive response time for category %q", category)
		}
		if spec.team == "" {
			return nil, fmt.Errorf("sla: empty team for category %q", category)
		}
		rule := Rule{
			Category:     category,
			Label:        spec.label,
			Severity:     spec.severity,
			ResponseTime: time.Duration(spec.hours) * time.Hour,
			Team:         spec.team,
			Priority:     spec.priority,
			Assurance:    script,
		}
		rule.Steps = responseSteps(rule)
		rules[category] = rule
	}
	return &Engine{rules: rules}, nil
}

// Classify returns the rule for a category. The mapping is total over the
// enumeration; calling with a label outside it is a programming error and
// panics rather than producing a caller-facing failure.
func (e *Engine) Classify(category domain.Category) Rule {
	rule, ok := e.rules[category]
	if !ok {
		panic(fmt.Sprintf("sla: unrecognized category %q", category))
	}
	return rule
}

// Rules returns every rule in enumeration order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, 0, len(e.rules))
	for _, category := range domain.AllCategories {
		out = append(out, e.rules[category])
	}
	return out
}

// ResponseTimeWords renders a response-time bound as spoken phrasing.
// Medical emergencies are special-cased: the commitment is immediate 999
// contact, and no on-site arrival time is promised.
func ResponseTimeWords(category domain.Category, bound time.Duration) string {
	if category == domain.CategoryMedicalEmergency {
		return "immediate – call 999 now"
	}
	hours := int(bound / time.Hour)
	switch {
	case hours == 1:
		return "within 1 hour"
	case hours < 24:
		return fmt.Sprintf("within %d hours", hours)
	default:
		days := hours / 24
		if days == 1 {
			return "within 1 working day"
		}
		return fmt.Sprintf("within %d working days", days)
	}
}

// PlanText renders ordered remediation steps as the spoken response plan.
func PlanText(steps []string) string {
	out := ""
	for i, step := range steps {
		if i > 0 {
			out += "\n"
		}
		out += fmt.Sprintf("Step %d – %s", i+1, step)
	}
	return out
}

// responseSteps builds the ordered remediation plan spoken to the caller.
func responseSteps(rule Rule) []string {
	if rule.Category == domain.CategoryMedicalEmergency {
		return []string{
			"Call 999 immediately for the ambulance service.",
			"Your property manager has been notified and will follow up.",
			"A welfare check will be arranged if needed.",
		}
	}
	words := ResponseTimeWords(rule.Category, rule.ResponseTime)
	if rule.Severity == domain.SeverityEmergency {
		return []string{
			fmt.Sprintf("Your complaint has been flagged as an EMERGENCY with our %s.", rule.Team),
			fmt.Sprintf("A specialist will be dispatched %s.", words),
			"You will receive a call-back within 15–30 minutes to confirm the engineer's ETA.",
			"Once the immediate risk is made safe, a follow-up inspection will be scheduled.",
			"A written incident report will be sent to you within 24 hours of resolution.",
		}
	}
	return []string{
		fmt.Sprintf("Your %s complaint has been logged and assigned to the %s.", rule.Label, rule.Team),
		fmt.Sprintf("A team member will contact you %s to arrange access or discuss next steps.", words),
		"All repair work will be carried out by a qualified contractor at no cost to you.",
		"You will receive SMS and email updates as the ticket progresses.",
		"Once the work is complete, we will ask you to confirm the issue is resolved before closing the ticket.",
	}
}
