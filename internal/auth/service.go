package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mapleai/mapleai/internal/shared"
)

// bcryptCost matches the cost used when seeding credentials.
const bcryptCost = 12

// Service wraps authentication and registration business rules.
type Service struct {
	repo   Repository
	logger *slog.Logger
	audit  *shared.AuditLogger
	now    func() time.Time
}

// NewService constructs a new Service. The audit logger may be nil.
func NewService(repo Repository, logger *slog.Logger, audit *shared.AuditLogger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, audit: audit, now: time.Now}
}

// Authenticate validates email/password credentials and returns session
// claims on success. Unknown email, a credential with no password hash and
// a wrong password all produce the same ErrInvalidCredentials so callers
// cannot enumerate accounts.
func (s *Service) Authenticate(ctx context.Context, email, password string) (shared.SessionClaims, error) {
	if email == "" || password == "" {
		return shared.SessionClaims{}, shared.ErrInvalidCredentials
	}
	account, err := s.repo.FindAccountByEmail(ctx, email)
	if err != nil {
		// A store failure still presents as bad credentials to the caller,
		// but it is an operational problem and gets logged here.
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("find account", slog.Any("error", err))
		}
		return shared.SessionClaims{}, shared.ErrInvalidCredentials
	}
	if account.User.PasswordHash == "" {
		return shared.SessionClaims{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.User.PasswordHash), []byte(password)); err != nil {
		return shared.SessionClaims{}, shared.ErrInvalidCredentials
	}

	// Login bookkeeping is best-effort: a failed update never fails the login.
	if err := s.repo.RecordLogin(ctx, account.User.ID, s.now()); err != nil {
		s.logger.Warn("record login", slog.String("user_id", account.User.ID), slog.Any("error", err))
	}
	s.recordAudit(ctx, account.User.ID, "user.login", "user", account.User.ID, nil)

	return account.Claims(), nil
}

// RegisterInput carries the registration payload after field validation.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Company     string
	CompanySize string
	Industry    string
	Plan        string
}

// Register creates a company, a subscription for the selected plan and the
// first user of the organization, who becomes an admin. A duplicate email
// returns shared.ErrDuplicate.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Account, error) {
	exists, err := s.repo.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	plan := shared.ParsePlan(input.Plan)
	amount, maxUsers := shared.PlanPricing(plan)
	now := s.now().UTC()

	account := &Account{
		Company: Company{
			ID:        uuid.NewString(),
			Name:      input.Company,
			Industry:  input.Industry,
			Size:      input.CompanySize,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	account.Subscription = Subscription{
		ID:        uuid.NewString(),
		Plan:      plan,
		Amount:    amount,
		MaxUsers:  maxUsers,
		CompanyID: account.Company.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	account.User = User{
		ID:             uuid.NewString(),
		Email:          input.Email,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		PasswordHash:   string(hash),
		Role:           shared.RoleAdmin,
		CompanyID:      account.Company.ID,
		SubscriptionID: account.Subscription.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, account.User.ID, "user.register", "company", account.Company.ID, map[string]any{
		"plan": string(plan),
	})
	return account, nil
}

func (s *Service) recordAudit(ctx context.Context, actorID, action, entity, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Meta:     meta,
		At:       s.now().UTC(),
	}); err != nil {
		s.logger.Warn("audit record", slog.String("action", action), slog.Any("error", err))
	}
}
