package domain

import "time"

// Tenant is a read-only directory record for a unit. Tenants are created
// by external provisioning, never by this service.
type Tenant struct {
	UnitID      string     `json:"unit_id"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email,omitempty"`
	VerifyToken string     `json:"verify_token,omitempty"`
	LeaseStart  *time.Time `json:"lease_start,omitempty"`
	LeaseEnd    *time.Time `json:"lease_end,omitempty"`
}
