package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/sifan077/LinkDesk/internal/app/repository"
	"github.com/sifan077/LinkDesk/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRedirectURLs struct {
	service.URLService
	urls map[string]*model.URL
}

func (s *stubRedirectURLs) HandleRedirect(_ context.Context, code string) (*model.URL, error) {
	url, ok := s.urls[code]
	if !ok {
		return nil, repository.ErrURLNotFound
	}
	clone := *url
	return &clone, nil
}

// gatedPublisher holds every Publish call until release is closed.
type gatedPublisher struct {
	release chan struct{}
	mu      sync.Mutex
	clicks  []service.Click
}

func (p *gatedPublisher) Publish(click service.Click) (*model.ClickEvent, error) {
	<-p.release
	p.mu.Lock()
	p.clicks = append(p.clicks, click)
	p.mu.Unlock()
	return &model.ClickEvent{ShortCode: click.ShortCode}, nil
}

func (p *gatedPublisher) recorded() []service.Click {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]service.Click(nil), p.clicks...)
}

func TestRedirectClickSurvivesLaterRequests(t *testing.T) {
	publisher := &gatedPublisher{release: make(chan struct{})}
	app := fiber.New()
	NewRedirectHandler(RedirectDeps{
		URLs: &stubRedirectURLs{urls: map[string]*model.URL{
			"abc123": {ShortCode: "abc123", OriginalURL: "https://example.com/a"},
			"zzz999": {ShortCode: "zzz999", OriginalURL: "https://example.com/z"},
		}},
		ClickPublisher: publisher,
	}).Register(app)

	firstUA := strings.Repeat("A", 64)
	firstReferer := "https://first.example/" + strings.Repeat("a", 32)

	req := httptest.NewRequest(http.MethodGet, "/s/abc123", nil)
	req.Header.Set(fiber.HeaderUserAgent, firstUA)
	req.Header.Set(fiber.HeaderReferer, firstReferer)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	// Later requests reuse the pooled request buffers while the first
	// publish is still pending.
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/s/zzz999", nil)
		req.Header.Set(fiber.HeaderUserAgent, strings.Repeat("B", 64))
		req.Header.Set(fiber.HeaderReferer, "https://other.example/"+strings.Repeat("b", 32))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusFound, resp.StatusCode)
	}
	close(publisher.release)

	require.Eventually(t, func() bool { return len(publisher.recorded()) == 6 }, 2*time.Second, 10*time.Millisecond)

	var first *service.Click
	for _, click := range publisher.recorded() {
		if click.ShortCode == "abc123" {
			first = &click
			break
		}
	}
	require.NotNil(t, first, "no click recorded for abc123")
	assert.Equal(t, firstUA, first.UserAgent)
	assert.Equal(t, firstReferer, first.Referer)
}
