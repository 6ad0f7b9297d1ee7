package staff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
)

func newAccounts(t *testing.T, allow []string, domainOK bool) (*Accounts, *repository.MemoryRepository, *auth.Tokens) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	tokens := auth.NewTokens("staff-secret")
	return NewAccounts(Deps{
		Repo:          repo,
		Tokens:        tokens,
		AllowList:     auth.NewAllowList(allow),
		EmailDomainOK: func(string) bool { return domainOK },
	}), repo, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	accounts, _, tokens := newAccounts(t, []string{"front@headz.test"}, true)
	ctx := context.Background()

	session, err := accounts.Register(ctx, RegisterInput{Name: "Front Desk", Email: " Front@Headz.test ", Password: "hunter22!"})
	require.NoError(t, err)
	assert.Equal(t, "front@headz.test", session.User.Email)
	assert.NotEqual(t, "hunter22!", session.User.PasswordHash)

	claims, err := tokens.Parse(session.Token)
	require.NoError(t, err)
	id, err := claims.StaffID()
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, id)

	_, err = accounts.Register(ctx, RegisterInput{Name: "Again", Email: "front@headz.test", Password: "hunter22!"})
	assert.True(t, httperr.Is(err, "email_taken"))

	_, err = accounts.Login(ctx, "front@headz.test", "wrong-password")
	assert.True(t, httperr.Is(err, "invalid_credentials"))

	_, err = accounts.Login(ctx, "ghost@headz.test", "hunter22!")
	assert.True(t, httperr.Is(err, "invalid_credentials"))

	session, err = accounts.Login(ctx, "FRONT@headz.test", "hunter22!")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	me, err := accounts.Profile(ctx, "front@headz.test")
	require.NoError(t, err)
	assert.Equal(t, "Front Desk", me.Name)
}

func TestRegisterValidation(t *testing.T) {
	accounts, _, _ := newAccounts(t, nil, true)

	_, err := accounts.Register(context.Background(), RegisterInput{Name: "", Email: "not-an-email", Password: "short"})
	var he *httperr.Error
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "invalid_input", he.Code)
	assert.Contains(t, he.Fields, "name")
	assert.Contains(t, he.Fields, "email")
	assert.Contains(t, he.Fields, "password")
}

func TestRegisterRefusesOutsiders(t *testing.T) {
	accounts, _, _ := newAccounts(t, []string{"owner@headz.test"}, true)

	_, err := accounts.Register(context.Background(), RegisterInput{Name: "Eve", Email: "eve@else.test", Password: "long-enough"})
	assert.True(t, httperr.Is(err, "not_staff"))
	assert.Equal(t, httperr.KindForbidden, httperr.KindOf(err))
}

func TestRegisterChecksEmailDomain(t *testing.T) {
	accounts, _, _ := newAccounts(t, nil, false)

	_, err := accounts.Register(context.Background(), RegisterInput{Name: "Sam", Email: "sam@nowhere.invalid", Password: "long-enough"})
	assert.True(t, httperr.Is(err, "invalid_email_domain"))
}

func TestLoginRefusesRemovedStaff(t *testing.T) {
	ctx := context.Background()
	open, repo, tokens := newAccounts(t, nil, true)
	_, err := open.Register(ctx, RegisterInput{Name: "Old Hand", Email: "old@headz.test", Password: "long-enough"})
	require.NoError(t, err)

	// Same store, but the allow-list no longer names them.
	restricted := NewAccounts(Deps{
		Repo:      repo,
		Tokens:    tokens,
		AllowList: auth.NewAllowList([]string{"owner@headz.test"}),
	})
	_, err = restricted.Login(ctx, "old@headz.test", "long-enough")
	assert.True(t, httperr.Is(err, "not_staff"))
}
