package staff

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

const MinPasswordLength = 8

type Auditor interface {
	Dispatch(ev audit.Event)
}

type Deps struct {
	Repo      catalog.Repository
	Tokens    *auth.Tokens
	AllowList auth.AllowList
	Audit     Auditor
	Log       *slog.Logger
	// EmailDomainOK defaults to a DNS lookup of the email's domain.
	EmailDomainOK func(email string) bool
}

type nopAuditor struct{}

func (nopAuditor) Dispatch(audit.Event) {}

// Session is what register and login hand back to the dashboard.
type Session struct {
	User  *models.StaffUser `json:"user"`
	Token string            `json:"token"`
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type Accounts struct {
	deps Deps
}

func NewAccounts(deps Deps) *Accounts {
	if deps.Audit == nil {
		deps.Audit = nopAuditor{}
	}
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}
	if deps.EmailDomainOK == nil {
		deps.EmailDomainOK = validators.IsEmailDomainValid
	}
	return &Accounts{deps: deps}
}

// Register creates a staff account. Only allow-listed emails may register
// when an allow-list is configured.
func (uc *Accounts) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)

	fields := map[string]string{}
	if name == "" {
		fields["name"] = "is required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "must be a valid email"
	}
	if len(in.Password) < MinPasswordLength {
		fields["password"] = "must be at least 8 characters"
	}
	if len(fields) > 0 {
		return nil, httperr.Validation("invalid_input", fields)
	}

	if !uc.deps.AllowList.Allows(email) {
		uc.deps.Log.Warn("registration refused", "email", email)
		return nil, httperr.Forbidden("not_staff")
	}
	if !uc.deps.EmailDomainOK(email) {
		return nil, httperr.Field("invalid_email_domain", "email", "domain does not accept mail")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, httperr.Unavailable(err)
	}

	user := models.StaffUser{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		IsActive:     true,
	}
	if err := uc.deps.Repo.CreateStaff(ctx, &user); err != nil {
		if errors.Is(err, catalog.ErrDuplicate) {
			return nil, httperr.Conflict("email_taken")
		}
		return nil, httperr.Unavailable(err)
	}

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  &user.ID,
		Action:   "staff_registered",
		Entity:   "staff_user",
		EntityID: &user.ID,
	})
	return uc.session(&user)
}

func (uc *Accounts) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := uc.deps.Repo.GetStaffByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, httperr.Unauthorized("invalid_credentials")
		}
		return nil, httperr.Unavailable(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, httperr.Unauthorized("invalid_credentials")
	}
	if !user.IsActive || !uc.deps.AllowList.Allows(user.Email) {
		return nil, httperr.Forbidden("not_staff")
	}

	uc.deps.Log.Info("staff login", "staff_id", user.ID)
	return uc.session(user)
}

func (uc *Accounts) session(user *models.StaffUser) (*Session, error) {
	token, err := uc.deps.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, httperr.Unavailable(err)
	}
	return &Session{User: user, Token: token}, nil
}

// Profile loads the signed-in user for the dashboard header.
func (uc *Accounts) Profile(ctx context.Context, email string) (*models.StaffUser, error) {
	user, err := uc.deps.Repo.GetStaffByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, httperr.NotFound("staff_not_found")
		}
		return nil, httperr.Unavailable(err)
	}
	return user, nil
}
