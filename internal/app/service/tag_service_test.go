package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/sifan077/LinkDesk/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":        "hello-world",
		"  Go -- Lang!! ":    "go-lang",
		"C++ & Rust":         "c-rust",
		"already-a-slug":     "already-a-slug",
		"Zażółć gęślą jaźń":  "za-g-l-ja",
		"2025 Roadmap/Q3":    "2025-roadmap-q3",
		"---":                "",
		"MiXeD_case__Name42": "mixed-case-name42",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{"Hello World", "  __x__ ", "Ünïcödé Tag", "a--b", "Tag #42 (beta)", ""}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "input %q", in)
	}
}

func TestTagService_CreateTagDerivesSlug(t *testing.T) {
	var stored *model.Tag
	repo := &mockTagRepository{createFn: func(_ context.Context, tag *model.Tag) error {
		stored = tag
		return nil
	}}

	tag, err := NewTagService(repo).CreateTag(context.Background(), TagInput{Name: "  Web Dev  "})
	require.NoError(t, err)
	assert.Equal(t, "Web Dev", tag.Name)
	assert.Equal(t, "web-dev", tag.Slug)
	assert.Same(t, tag, stored)
}

func TestTagService_CreateTagRejectsEmptySlug(t *testing.T) {
	repo := &mockTagRepository{createFn: func(context.Context, *model.Tag) error {
		t.Fatal("repository must not be called")
		return nil
	}}

	_, err := NewTagService(repo).CreateTag(context.Background(), TagInput{Name: "!!!"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
}

func TestTagService_DuplicateSlugIsValidationError(t *testing.T) {
	repo := &mockTagRepository{createFn: func(context.Context, *model.Tag) error {
		return repository.ErrDuplicateSlug
	}}

	_, err := NewTagService(repo).CreateTag(context.Background(), TagInput{Name: "Go"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "a tag with this name already exists", verr.Fields["name"])
}

func TestTagService_UpdateAndDeleteWithStore(t *testing.T) {
	store := newTestStore(t)
	svc := NewTagService(store.tags)
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, TagInput{Name: "Old Name"})
	require.NoError(t, err)
	url := store.addURL(t, "abc123", 0, 0, &tag.ID)

	updated, err := svc.UpdateTag(ctx, tag.ID, TagInput{Name: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "new-name", updated.Slug)

	require.NoError(t, svc.DeleteTag(ctx, tag.ID))
	assert.ErrorIs(t, svc.DeleteTag(ctx, tag.ID), repository.ErrTagNotFound)

	stored, err := store.urls.GetByID(ctx, url.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.TagID)
}

func TestTagService_GetTagBySlug(t *testing.T) {
	store := newTestStore(t)
	svc := NewTagService(store.tags)
	ctx := context.Background()

	created, err := svc.CreateTag(ctx, TagInput{Name: "Web Dev"})
	require.NoError(t, err)

	tag, err := svc.GetTagBySlug(ctx, "web-dev")
	require.NoError(t, err)
	assert.Equal(t, created.ID, tag.ID)

	_, err = svc.GetTagBySlug(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrTagNotFound)
}
