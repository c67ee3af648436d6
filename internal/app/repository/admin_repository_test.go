package repository

import (
	"context"
	"testing"

	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRepository_RoundTrip(t *testing.T) {
	repo := NewAdminRepository(newTestDB(t))
	ctx := context.Background()

	admin := &model.Admin{Email: "admin@example.com", Password: "hash", Roles: []string{model.RoleAdmin}}
	require.NoError(t, repo.Create(ctx, admin))

	stored, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleAdmin}, stored.Roles)
	assert.Nil(t, stored.Nickname)

	stored.Nickname = strPtr("root")
	stored.Email = "root@example.com"
	require.NoError(t, repo.Update(ctx, stored))

	byID, err := repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", byID.Email)
	require.NotNil(t, byID.Nickname)
	assert.Equal(t, "root", *byID.Nickname)

	_, err = repo.GetByEmail(ctx, "admin@example.com")
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestAdminRepository_DuplicateEmail(t *testing.T) {
	repo := NewAdminRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Admin{Email: "a@example.com", Password: "x"}))
	assert.ErrorIs(t, repo.Create(ctx, &model.Admin{Email: "a@example.com", Password: "y"}), ErrDuplicateEmail)
}
