package domain

import "strings"

// Category identifies one complaint type. The string values are spoken by
// the reasoning engine and stored on tickets, so they never change.
type Category string

const (
	CategoryGasLeak          Category = "gas_leak"
	CategoryFire             Category = "fire"
	CategoryFlood            Category = "flood"
	CategoryStructuralDamage Category = "structural_damage"
	CategoryNoHeatWinter     Category = "no_heat_winter"
	CategoryPowerOutage      Category = "power_outage"
	CategorySecurityBreach   Category = "security_breach"
	CategoryMedicalEmergency Category = "medical_emergency"

	CategoryPlumbing         Category = "plumbing"
	CategoryElectrical       Category = "electrical"
	CategoryHVAC             Category = "hvac"
	CategoryAppliance        Category = "appliance"
	CategoryPest             Category = "pest"
	CategoryNoiseComplaint   Category = "noise_complaint"
	CategoryNeighbourDispute Category = "neighbour_dispute"
	CategoryParking          Category = "parking"
	CategoryCommonArea       Category = "common_area"
	CategoryLift             Category = "lift"
	CategoryEntrySystem      Category = "entry_system"
	CategoryRubbish          Category = "rubbish"
	CategoryLeaking          Category = "leaking"
	CategoryDampMould        Category = "damp_mould"
	CategoryOther            Category = "other"
)

// AllCategories lists every category, emergencies first. Listings and the
// tool schema preserve this order.
var AllCategories = []Category{
	CategoryGasLeak,
	CategoryFire,
	CategoryFlood,
	CategoryStructuralDamage,
	CategoryNoHeatWinter,
	CategoryPowerOutage,
	CategorySecurityBreach,
	CategoryMedicalEmergency,
	CategoryPlumbing,
	CategoryElectrical,
	CategoryHVAC,
	CategoryAppliance,
	CategoryPest,
	CategoryNoiseComplaint,
	CategoryNeighbourDispute,
	CategoryParking,
	CategoryCommonArea,
	CategoryLift,
	CategoryEntrySystem,
	CategoryRubbish,
	CategoryLeaking,
	CategoryDampMould,
	CategoryOther,
}

var categoriesByValue = func() map[Category]struct{} {
	set := make(map[Category]struct{}, len(AllCategories))
	for _, c := range AllCategories {
		set[c] = struct{}{}
	}
	return set
}()

// ParseCategory normalizes a spoken category label and reports whether it is
// known. Callers decide the fallback for unknown labels.
func ParseCategory(raw string) (Category, bool) {
	category := Category(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := categoriesByValue[category]
	return category, ok
}
