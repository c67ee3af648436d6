package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/sifan077/LinkDesk/internal/app/repository"
)

const (
	// PageSize is the number of URLs on each latest/popular listing page.
	PageSize = 10

	maxCodeAttempts = 5
)

// URLService defines behaviour-level operations on short URLs.
type URLService interface {
	CreateShortURL(ctx context.Context, input CreateURLInput) (*model.URL, error)
	HandleRedirect(ctx context.Context, code string) (*model.URL, error)
	GetLatestPaginated(ctx context.Context, page int) (*URLPage, error)
	GetMostClickedPaginated(ctx context.Context, page int) (*URLPage, error)
	GetURLsByTagSlug(ctx context.Context, slug string) ([]model.URL, error)
	SearchURLs(ctx context.Context, filter model.URLFilter) ([]model.URL, error)
	GetURL(ctx context.Context, id uint) (*model.URL, error)
	UpdateURL(ctx context.Context, id uint, input UpdateURLInput) (*model.URL, error)
	DeleteURL(ctx context.Context, id uint) error
	ListAll(ctx context.Context) ([]model.URL, error)
}

// CreateURLInput captures data required to shorten a URL.
type CreateURLInput struct {
	OriginalURL string
	Email       *string
	TagID       *uint
}

// UpdateURLInput replaces the editable fields of an existing URL.
type UpdateURLInput struct {
	OriginalURL string
	Email       *string
	TagID       *uint
}

// URLPage is one page of a listing plus the numbers needed to render a pager.
type URLPage struct {
	Items      []model.URL `json:"items"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalItems int64       `json:"total_items"`
	TotalPages int         `json:"total_pages"`
}

// URLServiceOption customises a URLService.
type URLServiceOption func(*urlService)

// WithCodeFilter makes code generation skip codes already known to the filter.
func WithCodeFilter(f *CodeFilter) URLServiceOption {
	return func(s *urlService) { s.filter = f }
}

// WithCodeGenerator replaces the random short-code source.
func WithCodeGenerator(gen func() (string, error)) URLServiceOption {
	return func(s *urlService) { s.generate = gen }
}

// WithClock replaces time.Now for created/updated timestamps.
func WithClock(now func() time.Time) URLServiceOption {
	return func(s *urlService) { s.now = now }
}

type urlService struct {
	urls     repository.URLRepository
	tags     repository.TagRepository
	filter   *CodeFilter
	generate func() (string, error)
	now      func() time.Time
}

// NewURLService returns a service implementation backed by the given repositories.
func NewURLService(urls repository.URLRepository, tags repository.TagRepository, opts ...URLServiceOption) URLService {
	s := &urlService{
		urls:     urls,
		tags:     tags,
		generate: GenerateShortCode,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *urlService) CreateShortURL(ctx context.Context, input CreateURLInput) (*model.URL, error) {
	tag, err := s.resolveTag(ctx, input.TagID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	lastErr := repository.ErrDuplicateShortCode
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.generate()
		if err != nil {
			return nil, fmt.Errorf("generate short code: %w", err)
		}
		if s.filter != nil && s.filter.MayContain(code) {
			continue
		}

		url := &model.URL{
			OriginalURL: strings.TrimSpace(input.OriginalURL),
			ShortCode:   code,
			Email:       normalizeEmail(input.Email),
			Clicks:      0,
			CreatedAt:   now,
			UpdatedAt:   now,
			TagID:       input.TagID,
		}

		err = s.urls.Create(ctx, url)
		if err == nil {
			if s.filter != nil {
				s.filter.Add(code)
			}
			url.Tag = tag
			return url, nil
		}
		if !errors.Is(err, repository.ErrDuplicateShortCode) {
			return nil, fmt.Errorf("create url: %w", err)
		}
		if s.filter != nil {
			s.filter.Add(code)
		}
		lastErr = err
	}

	return nil, fmt.Errorf("create url: no free short code after %d attempts: %w", maxCodeAttempts, lastErr)
}

func (s *urlService) HandleRedirect(ctx context.Context, code string) (*model.URL, error) {
	url, err := s.urls.IncrementClicks(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("handle redirect: %w", err)
	}
	return url, nil
}

func (s *urlService) GetLatestPaginated(ctx context.Context, page int) (*URLPage, error) {
	return s.paginate(ctx, page, s.urls.ListLatest)
}

func (s *urlService) GetMostClickedPaginated(ctx context.Context, page int) (*URLPage, error) {
	return s.paginate(ctx, page, s.urls.ListMostClicked)
}

func (s *urlService) paginate(ctx context.Context, page int, list func(ctx context.Context, limit, offset int) ([]model.URL, error)) (*URLPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.urls.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count urls: %w", err)
	}

	result := &URLPage{
		Items:      []model.URL{},
		Page:       page,
		PageSize:   PageSize,
		TotalItems: total,
		TotalPages: int((total + PageSize - 1) / PageSize),
	}

	offset := (page - 1) * PageSize
	if int64(offset) >= total {
		return result, nil
	}

	items, err := list(ctx, PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list urls: %w", err)
	}
	if items != nil {
		result.Items = items
	}
	return result, nil
}

func (s *urlService) GetURLsByTagSlug(ctx context.Context, slug string) ([]model.URL, error) {
	urls, err := s.urls.ListByTagSlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("list urls by tag: %w", err)
	}
	return urls, nil
}

func (s *urlService) SearchURLs(ctx context.Context, filter model.URLFilter) ([]model.URL, error) {
	filter.Email = strings.TrimSpace(filter.Email)
	filter.OriginalURL = strings.TrimSpace(filter.OriginalURL)
	filter.ShortCode = strings.TrimSpace(filter.ShortCode)
	if filter.IsEmpty() {
		return s.ListAll(ctx)
	}

	urls, err := s.urls.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search urls: %w", err)
	}
	return urls, nil
}

func (s *urlService) GetURL(ctx context.Context, id uint) (*model.URL, error) {
	url, err := s.urls.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get url: %w", err)
	}
	return url, nil
}

func (s *urlService) UpdateURL(ctx context.Context, id uint, input UpdateURLInput) (*model.URL, error) {
	url, err := s.urls.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load url: %w", err)
	}

	if _, err := s.resolveTag(ctx, input.TagID); err != nil {
		return nil, err
	}

	url.OriginalURL = strings.TrimSpace(input.OriginalURL)
	url.Email = normalizeEmail(input.Email)
	url.TagID = input.TagID
	url.UpdatedAt = s.now()

	if err := s.urls.Update(ctx, url); err != nil {
		return nil, fmt.Errorf("update url: %w", err)
	}
	return url, nil
}

func (s *urlService) DeleteURL(ctx context.Context, id uint) error {
	if err := s.urls.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete url: %w", err)
	}
	return nil
}

func (s *urlService) ListAll(ctx context.Context) ([]model.URL, error) {
	urls, err := s.urls.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list urls: %w", err)
	}
	return urls, nil
}

func (s *urlService) resolveTag(ctx context.Context, id *uint) (*model.Tag, error) {
	if id == nil {
		return nil, nil
	}
	tag, err := s.tags.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return nil, newValidationError("tag_id", "tag does not exist")
		}
		return nil, fmt.Errorf("load tag: %w", err)
	}
	return tag, nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*email)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
