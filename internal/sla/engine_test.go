package sla

import (
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/complaint-hotline/internal/domain"
)

func TestNewEngineCoversEveryCategory(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rules := engine.Rules()
	if len(rules) != len(domain.AllCategories) {
		t.Fatalf("expected %d rules, got %d", len(domain.AllCategories), len(rules))
	}
	for _, category := range domain.AllCategories {
		rule := engine.Classify(category)
		if rule.ResponseTime <= 0 {
			t.Fatalf("category %s has non-positive response time", category)
		}
		if rule.Team == "" {
			t.Fatalf("category %s has no team", category)
		}
		if rule.Assurance == "" {
			t.Fatalf("category %s has no assurance script", category)
		}
		if len(rule.Steps) == 0 {
			t.Fatalf("category %s has no response plan", category)
		}
	}
}

func TestClassifyGasLeak(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rule := engine.Classify(domain.CategoryGasLeak)
	if rule.Severity != domain.SeverityEmergency {
		t.Fatalf("gas leak must be an emergency, got %s", rule.Severity)
	}
	if rule.ResponseTime != time.Hour {
		t.Fatalf("expected 1h response time, got %s", rule.ResponseTime)
	}
	if rule.Team != "Emergency Response" {
		t.Fatalf("unexpected team: %s", rule.Team)
	}
	if rule.Priority != 1 {
		t.Fatalf("unexpected priority: %d", rule.Priority)
	}
	if !strings.HasPrefix(rule.Assurance, "Please leave your flat immediately") {
		t.Fatalf("gas leak assurance must open with evacuation wording, got: %s", rule.Assurance)
	}
}

func TestClassifyMedicalEmergency(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rule := engine.Classify(domain.CategoryMedicalEmergency)
	if rule.ResponseTime <= 0 {
		t.Fatal("medical emergency must carry a positive internal bound")
	}
	if words := ResponseTimeWords(domain.CategoryMedicalEmergency, rule.ResponseTime); words != "immediate – call 999 now" {
		t.Fatalf("unexpected phrasing: %q", words)
	}
	if !strings.HasPrefix(rule.Assurance, "Please call 999 immediately") {
		t.Fatalf("medical emergency assurance must direct to 999 first, got: %s", rule.Assurance)
	}
	if strings.Contains(rule.Assurance, "within") {
		t.Fatalf("medical emergency assurance must not promise an arrival window: %s", rule.Assurance)
	}
}

func TestClassifyUnknownCategoryPanics(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for category outside the enumeration")
		}
	}()
	engine.Classify(domain.Category("bogus"))
}

func TestResponseTimeWords(t *testing.T) {
	t.Parallel()

	cases := []struct {
		category domain.Category
		bound    time.Duration
		want     string
	}{
		{domain.CategoryGasLeak, time.Hour, "within 1 hour"},
		{domain.CategoryPowerOutage, 4 * time.Hour, "within 4 hours"},
		{domain.CategoryPlumbing, 24 * time.Hour, "within 1 working day"},
		{domain.CategoryOther, 48 * time.Hour, "within 2 working days"},
		{domain.CategoryMedicalEmergency, time.Hour, "immediate – call 999 now"},
	}
	for _, tc := range cases {
		if got := ResponseTimeWords(tc.category, tc.bound); got != tc.want {
			t.Fatalf("ResponseTimeWords(%s, %s) = %q, want %q", tc.category, tc.bound, got, tc.want)
		}
	}
}

func TestRulesOrderedEmergenciesFirst(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rules := engine.Rules()
	seenNonEmergency := false
	for _, rule := range rules {
		if rule.Severity == domain.SeverityNonEmergency {
			seenNonEmergency = true
		} else if seenNonEmergency {
			t.Fatalf("emergency category %s listed after non-emergencies", rule.Category)
		}
	}
}

func TestPlanText(t *testing.T) {
	t.Parallel()

	text := PlanText([]string{"First thing.", "Second thing."})
	want := "Step 1 – First thing.\nStep 2 – Second thing."
	if text != want {
		t.Fatalf("unexpected plan text:\n%s", text)
	}
}
