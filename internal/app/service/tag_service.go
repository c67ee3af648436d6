package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/sifan077/LinkDesk/internal/app/repository"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name, collapses every run of characters outside
// [a-z0-9] into one hyphen and trims hyphens from both ends.
// Slugify(Slugify(x)) == Slugify(x).
func Slugify(name string) string {
	return strings.Trim(nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// TagService defines behaviour-level operations on tags.
type TagService interface {
	CreateTag(ctx context.Context, input TagInput) (*model.Tag, error)
	UpdateTag(ctx context.Context, id uint, input TagInput) (*model.Tag, error)
	DeleteTag(ctx context.Context, id uint) error
	GetTag(ctx context.Context, id uint) (*model.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*model.Tag, error)
	ListTags(ctx context.Context) ([]model.Tag, error)
}

// TagInput captures the editable fields of a tag.
type TagInput struct {
	Name string
}

type tagService struct {
	repo repository.TagRepository
}

// NewTagService returns a service implementation backed by the given repository.
func NewTagService(repo repository.TagRepository) TagService {
	return &tagService{repo: repo}
}

func (s *tagService) CreateTag(ctx context.Context, input TagInput) (*model.Tag, error) {
	tag := &model.Tag{}
	if err := applyTagInput(tag, input); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, mapTagWriteError("create tag", err)
	}
	return tag, nil
}

func (s *tagService) UpdateTag(ctx context.Context, id uint, input TagInput) (*model.Tag, error) {
	tag, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load tag: %w", err)
	}
	if err := applyTagInput(tag, input); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, tag); err != nil {
		return nil, mapTagWriteError("update tag", err)
	}
	return tag, nil
}

func (s *tagService) DeleteTag(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

func (s *tagService) GetTag(ctx context.Context, id uint) (*model.Tag, error) {
	tag, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

func (s *tagService) GetTagBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	tag, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get tag by slug: %w", err)
	}
	return tag, nil
}

func (s *tagService) ListTags(ctx context.Context) ([]model.Tag, error) {
	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func applyTagInput(tag *model.Tag, input TagInput) error {
	name := strings.TrimSpace(input.Name)
	slug := Slugify(name)
	if slug == "" {
		return newValidationError("name", "name must contain at least one letter or digit")
	}
	tag.Name = name
	tag.Slug = slug
	return nil
}

func mapTagWriteError(op string, err error) error {
	if errors.Is(err, repository.ErrDuplicateSlug) {
		return newValidationError("name", "a tag with this name already exists")
	}
	return fmt.Errorf("%s: %w", op, err)
}
