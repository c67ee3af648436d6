package repository

import (
	"context"
	"testing"
	"time"

	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClickEventRepository_CreateIgnoresRedelivery(t *testing.T) {
	repo := NewClickEventRepository(newTestDB(t))
	ctx := context.Background()

	event := &model.ClickEvent{ID: "evt-1", ShortCode: "abc123", Timestamp: baseTime}
	require.NoError(t, repo.Create(ctx, event))
	require.NoError(t, repo.Create(ctx, &model.ClickEvent{ID: "evt-1", ShortCode: "abc123", Timestamp: baseTime}))

	count, err := repo.CountByShortCode(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestClickEventRepository_DeleteOlderThan(t *testing.T) {
	repo := NewClickEventRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.ClickEvent{ID: "old", ShortCode: "abc123", Timestamp: baseTime.Add(-48 * time.Hour)}))
	require.NoError(t, repo.Create(ctx, &model.ClickEvent{ID: "new", ShortCode: "abc123", Timestamp: baseTime}))

	deleted, err := repo.DeleteOlderThan(ctx, baseTime.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	count, err := repo.CountByShortCode(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
