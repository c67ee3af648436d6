package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/sifan077/LinkDesk/internal/app/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testStore struct {
	db   *gorm.DB
	urls repository.URLRepository
	tags repository.TagRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))

	return &testStore{
		db:   db,
		urls: repository.NewURLRepository(db),
		tags: repository.NewTagRepository(db),
	}
}

var epoch = time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)

// addURL stores a URL created minutesAfter the epoch.
func (s *testStore) addURL(t *testing.T, code string, clicks int64, minutesAfter int, tagID *uint) *model.URL {
	t.Helper()
	created := epoch.Add(time.Duration(minutesAfter) * time.Minute)
	url := &model.URL{
		OriginalURL: "https://example.com/" + code,
		ShortCode:   code,
		Clicks:      clicks,
		CreatedAt:   created,
		UpdatedAt:   created,
		TagID:       tagID,
	}
	require.NoError(t, s.urls.Create(context.Background(), url))
	return url
}

func (s *testStore) addURLs(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		s.addURL(t, fmt.Sprintf("u%05d", i), 0, i, nil)
	}
}

func codesOf(urls []model.URL) []string {
	codes := make([]string, len(urls))
	for i, u := range urls {
		codes[i] = u.ShortCode
	}
	return codes
}

func strPtr(s string) *string { return &s }
func uintPtr(v uint) *uint    { return &v }

type mockURLRepository struct {
	repository.URLRepository
	createFn  func(ctx context.Context, url *model.URL) error
	getByIDFn func(ctx context.Context, id uint) (*model.URL, error)
	updateFn  func(ctx context.Context, url *model.URL) error
}

func (m *mockURLRepository) Create(ctx context.Context, url *model.URL) error {
	if m.createFn != nil {
		return m.createFn(ctx, url)
	}
	return nil
}

func (m *mockURLRepository) GetByID(ctx context.Context, id uint) (*model.URL, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrURLNotFound
}

func (m *mockURLRepository) Update(ctx context.Context, url *model.URL) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, url)
	}
	return nil
}

type mockTagRepository struct {
	repository.TagRepository
	tags     map[uint]*model.Tag
	createFn func(ctx context.Context, tag *model.Tag) error
}

func (m *mockTagRepository) GetByID(_ context.Context, id uint) (*model.Tag, error) {
	if tag, ok := m.tags[id]; ok {
		clone := *tag
		return &clone, nil
	}
	return nil, repository.ErrTagNotFound
}

func (m *mockTagRepository) Create(ctx context.Context, tag *model.Tag) error {
	if m.createFn != nil {
		return m.createFn(ctx, tag)
	}
	return nil
}
