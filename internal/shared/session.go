package shared

import "time"

// Role enumerates user authorization levels.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// PlanType enumerates subscription tiers.
type PlanType string

const (
	PlanStarter      PlanType = "STARTER"
	PlanProfessional PlanType = "PROFESSIONAL"
	PlanEnterprise   PlanType = "ENTERPRISE"
)

// ParsePlan maps a submitted plan name to a PlanType. Unrecognized values
// fall back to PROFESSIONAL rather than being rejected; the registration
// flow treats the plan selector as a hint, not a hard input.
func ParsePlan(s string) PlanType {
	switch s {
	case "starter":
		return PlanStarter
	case "professional":
		return PlanProfessional
	case "enterprise":
		return PlanEnterprise
	default:
		return PlanProfessional
	}
}

// CompanySnapshot is the company state captured into a session token at
// login time. It is not refreshed on subsequent requests.
type CompanySnapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry,omitempty"`
	Size     string `json:"size,omitempty"`
}

// SubscriptionSnapshot is the subscription state captured into a session
// token at login time.
type SubscriptionSnapshot struct {
	ID       string   `json:"id"`
	Plan     PlanType `json:"plan"`
	Amount   int64    `json:"amount"`
	MaxUsers int64    `json:"max_users"` // 0 means unlimited
}

// SessionClaims is the identity carried by a session token. The store is
// not re-queried per request: a role or plan change elsewhere does not
// invalidate already-issued tokens before they expire.
type SessionClaims struct {
	SubjectID    string               `json:"sub_id"`
	Email        string               `json:"email"`
	FirstName    string               `json:"first_name"`
	LastName     string               `json:"last_name"`
	Role         Role                 `json:"role"`
	CompanyID    string               `json:"company_id"`
	Company      CompanySnapshot      `json:"company"`
	Subscription SubscriptionSnapshot `json:"subscription"`
}

// FullName joins the first and last name for display.
func (c SessionClaims) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// planPricing is the canonical pricing table per tier.
var planPricing = map[PlanType]SubscriptionSnapshot{
	PlanStarter:      {Plan: PlanStarter, Amount: 2500, MaxUsers: 100},
	PlanProfessional: {Plan: PlanProfessional, Amount: 7500, MaxUsers: 500},
	PlanEnterprise:   {Plan: PlanEnterprise, Amount: 15000, MaxUsers: 0},
}

// PlanPricing returns the amount and user ceiling for a tier.
func PlanPricing(plan PlanType) (amount int64, maxUsers int64) {
	p, ok := planPricing[plan]
	if !ok {
		p = planPricing[PlanProfessional]
	}
	return p.Amount, p.MaxUsers
}

// SessionTTLDefault is the validity window for issued session tokens.
const SessionTTLDefault = 720 * time.Hour
