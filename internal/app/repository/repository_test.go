package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every pooled connection would otherwise open its own empty in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

var baseTime = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

func seedURL(t *testing.T, repo URLRepository, code string, clicks int64, age int, tagID *uint) *model.URL {
	t.Helper()
	created := baseTime.Add(time.Duration(age) * time.Minute)
	url := &model.URL{
		OriginalURL: fmt.Sprintf("https://example.com/%s", code),
		ShortCode:   code,
		Clicks:      clicks,
		CreatedAt:   created,
		UpdatedAt:   created,
		TagID:       tagID,
	}
	require.NoError(t, repo.Create(context.Background(), url))
	return url
}

func strPtr(s string) *string { return &s }
