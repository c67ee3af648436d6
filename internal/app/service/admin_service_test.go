package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/sifan077/LinkDesk/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memoryAdminRepository stores copies so the service cannot mutate stored
// state without calling Update.
type memoryAdminRepository struct {
	admins  map[uint]model.Admin
	nextID  uint
	updates int
}

func newMemoryAdminRepository() *memoryAdminRepository {
	return &memoryAdminRepository{admins: map[uint]model.Admin{}, nextID: 1}
}

func (m *memoryAdminRepository) Create(_ context.Context, admin *model.Admin) error {
	for _, a := range m.admins {
		if a.Email == admin.Email {
			return repository.ErrDuplicateEmail
		}
	}
	admin.ID = m.nextID
	m.nextID++
	m.admins[admin.ID] = *admin
	return nil
}

func (m *memoryAdminRepository) GetByID(_ context.Context, id uint) (*model.Admin, error) {
	a, ok := m.admins[id]
	if !ok {
		return nil, repository.ErrAdminNotFound
	}
	return &a, nil
}

func (m *memoryAdminRepository) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	for _, a := range m.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, repository.ErrAdminNotFound
}

func (m *memoryAdminRepository) Update(_ context.Context, admin *model.Admin) error {
	for id, a := range m.admins {
		if id != admin.ID && a.Email == admin.Email {
			return repository.ErrDuplicateEmail
		}
	}
	m.updates++
	m.admins[admin.ID] = *admin
	return nil
}

func newAdminFixture(t *testing.T) (AdminService, *memoryAdminRepository, *model.Admin) {
	t.Helper()
	repo := newMemoryAdminRepository()
	svc := NewAdminService(repo, NewBcryptHasher(bcrypt.MinCost))

	admin, created, err := svc.SeedAdmin(context.Background(), SeedAdminInput{
		Email:    "admin@example.com",
		Password: "old-secret",
		Nickname: "root",
	})
	require.NoError(t, err)
	require.True(t, created)
	return svc, repo, admin
}

func TestSeedAdmin(t *testing.T) {
	svc, repo, admin := newAdminFixture(t)

	assert.Equal(t, "admin@example.com", admin.Email)
	assert.Equal(t, []string{model.RoleAdmin}, admin.Roles)
	require.NotNil(t, admin.Nickname)
	assert.Equal(t, "root", *admin.Nickname)
	assert.NotEqual(t, "old-secret", admin.Password)

	again, created, err := svc.SeedAdmin(context.Background(), SeedAdminInput{
		Email:    "admin@example.com",
		Password: "another-secret",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)
	assert.Len(t, repo.admins, 1)
}

func TestSeedAdmin_RejectsShortPassword(t *testing.T) {
	svc := NewAdminService(newMemoryAdminRepository(), NewBcryptHasher(bcrypt.MinCost))

	_, _, err := svc.SeedAdmin(context.Background(), SeedAdminInput{Email: "a@example.com", Password: "123"})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestAuthenticate(t *testing.T) {
	svc, _, admin := newAdminFixture(t)
	ctx := context.Background()

	got, err := svc.Authenticate(ctx, " admin@example.com ", "old-secret")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	_, err = svc.Authenticate(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "old-secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword_WrongCurrentKeepsHash(t *testing.T) {
	svc, repo, admin := newAdminFixture(t)
	before := repo.admins[admin.ID].Password

	err := svc.ChangePassword(context.Background(), admin.ID, "not-the-password", "new-secret")
	require.ErrorIs(t, err, ErrCredentialMismatch)

	assert.Equal(t, before, repo.admins[admin.ID].Password)
	assert.Zero(t, repo.updates)
}

func TestChangePassword_EmptyCurrentIsMismatch(t *testing.T) {
	svc, _, admin := newAdminFixture(t)

	err := svc.ChangePassword(context.Background(), admin.ID, "", "new-secret")
	assert.ErrorIs(t, err, ErrCredentialMismatch)
}

func TestChangePassword_Success(t *testing.T) {
	svc, repo, admin := newAdminFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.ChangePassword(ctx, admin.ID, "old-secret", "new-secret"))
	assert.Equal(t, 1, repo.updates)

	_, err := svc.Authenticate(ctx, "admin@example.com", "new-secret")
	assert.NoError(t, err)
	_, err = svc.Authenticate(ctx, "admin@example.com", "old-secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword_EmptyNewIsNoop(t *testing.T) {
	svc, repo, admin := newAdminFixture(t)

	require.NoError(t, svc.ChangePassword(context.Background(), admin.ID, "whatever", ""))
	assert.Zero(t, repo.updates)
}

func TestChangePassword_TooShort(t *testing.T) {
	svc, repo, admin := newAdminFixture(t)

	err := svc.ChangePassword(context.Background(), admin.ID, "old-secret", "abc")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "new_password")
	assert.Zero(t, repo.updates)
}

func TestUpdateCredentials_MismatchPersistsNothing(t *testing.T) {
	svc, repo, admin := newAdminFixture(t)
	before := repo.admins[admin.ID]

	_, err := svc.UpdateCredentials(context.Background(), admin.ID, CredentialsInput{
		Email:           "renamed@example.com",
		Nickname:        strPtr("boss"),
		CurrentPassword: "wrong-password",
		NewPassword:     "new-secret",
	})
	require.ErrorIs(t, err, ErrCredentialMismatch)

	after := repo.admins[admin.ID]
	assert.Equal(t, before.Email, after.Email)
	assert.Equal(t, before.Password, after.Password)
	assert.Equal(t, *before.Nickname, *after.Nickname)
	assert.Zero(t, repo.updates)
}

func TestUpdateCredentials_ProfileOnly(t *testing.T) {
	svc, repo, admin := newAdminFixture(t)
	before := repo.admins[admin.ID].Password

	updated, err := svc.UpdateCredentials(context.Background(), admin.ID, CredentialsInput{
		Email:    "renamed@example.com",
		Nickname: strPtr("  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed@example.com", updated.Email)
	assert.Nil(t, updated.Nickname)
	assert.Equal(t, before, repo.admins[admin.ID].Password)
}

func TestUpdateCredentials_WithPassword(t *testing.T) {
	svc, _, admin := newAdminFixture(t)
	ctx := context.Background()

	_, err := svc.UpdateCredentials(ctx, admin.ID, CredentialsInput{
		Email:           "renamed@example.com",
		CurrentPassword: "old-secret",
		NewPassword:     "new-secret",
	})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "renamed@example.com", "new-secret")
	assert.NoError(t, err)
}

func TestUpdateProfile_Validation(t *testing.T) {
	svc, repo, admin := newAdminFixture(t)
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, admin.ID, ProfileInput{Email: "not-an-email"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "email")

	other := &model.Admin{Email: "taken@example.com", Roles: []string{model.RoleAdmin}}
	require.NoError(t, repo.Create(ctx, other))

	_, err = svc.UpdateProfile(ctx, admin.ID, ProfileInput{Email: "taken@example.com"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email is already in use", verr.Fields["email"])
}

func TestGetAdmin_NotFound(t *testing.T) {
	svc, _, _ := newAdminFixture(t)

	_, err := svc.GetAdmin(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrAdminNotFound)
}
