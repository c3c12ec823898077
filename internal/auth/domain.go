package auth

import (
	"time"

	"github.com/mapleai/mapleai/internal/shared"
)

// User represents a user account. PasswordHash holds a bcrypt digest with
// the per-password salt embedded; it is never the plaintext.
type User struct {
	ID             string
	Email          string
	FirstName      string
	LastName       string
	PasswordHash   string
	Role           shared.Role
	CompanyID      string
	SubscriptionID string
	LoginCount     int64
	LastLoginAt    time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Company represents a tenant organization.
type Company struct {
	ID        string
	Name      string
	Industry  string
	Size      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subscription represents a company's plan.
type Subscription struct {
	ID        string
	Plan      shared.PlanType
	Amount    int64
	MaxUsers  int64
	CompanyID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account bundles the rows read for login or created by registration.
type Account struct {
	User         User
	Company      Company
	Subscription Subscription
}

// Claims snapshots the account into session claims at login time.
func (a Account) Claims() shared.SessionClaims {
	return shared.SessionClaims{
		SubjectID: a.User.ID,
		Email:     a.User.Email,
		FirstName: a.User.FirstName,
		LastName:  a.User.LastName,
		Role:      a.User.Role,
		CompanyID: a.User.CompanyID,
		Company: shared.CompanySnapshot{
			ID:       a.Company.ID,
			Name:     a.Company.Name,
			Industry: a.Company.Industry,
			Size:     a.Company.Size,
		},
		Subscription: shared.SubscriptionSnapshot{
			ID:       a.Subscription.ID,
			Plan:     a.Subscription.Plan,
			Amount:   a.Subscription.Amount,
			MaxUsers: a.Subscription.MaxUsers,
		},
	}
}
