package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/sifan077/LinkDesk/internal/app/repository"
	"github.com/sifan077/LinkDesk/internal/app/service"
	"github.com/sifan077/LinkDesk/internal/infra/prometheus"
	"go.uber.org/zap"
)

// URLDeps groups dependencies required by the public URL pages.
type URLDeps struct {
	Logger  *zap.Logger
	URLs    service.URLService
	Tags    service.TagService
	Stats   service.StatService
	Metrics *prometheus.Metrics
	BaseURL string
}

// URLHandler serves shortening, listings, tag pages, stats and search.
type URLHandler struct {
	logger  *zap.Logger
	urls    service.URLService
	tags    service.TagService
	stats   service.StatService
	metrics *prometheus.Metrics
	baseURL string
}

// NewURLHandler creates a URL handler with the provided dependencies.
func NewURLHandler(deps URLDeps) *URLHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = prometheus.NewMetrics(nil)
	}
	return &URLHandler{
		logger:  logger,
		urls:    deps.URLs,
		tags:    deps.Tags,
		stats:   deps.Stats,
		metrics: metrics,
		baseURL: strings.TrimRight(deps.BaseURL, "/"),
	}
}

// Register wires public routes onto the provided router.
func (h *URLHandler) Register(router fiber.Router) {
	router.Get("/shorten", h.ShortenForm)
	router.Post("/shorten", h.Shorten)
	router.Get("/latest/:page?", h.Latest)
	router.Get("/popular/:page?", h.Popular)
	router.Get("/tag/:slug", h.ByTag)
	router.Get("/stats", h.Stats)
	router.Get("/search", h.Search)
	router.Post("/search", h.Search)
}

// ShortenRequest is the body of POST /shorten.
type ShortenRequest struct {
	OriginalURL string     `json:"original_url" form:"original_url" validate:"required,http_url,max=255"`
	Email       string     `json:"email" form:"email" validate:"omitempty,email,max=180"`
	TagID       optionalID `json:"tag_id" form:"tag_id"`
}

// ShortenResponse is returned for a created short URL.
type ShortenResponse struct {
	URL      *model.URL `json:"url"`
	ShortURL string     `json:"short_url"`
}

// ShortenForm handles GET /shorten with the tag choices for the form.
func (h *URLHandler) ShortenForm(c *fiber.Ctx) error {
	tags, err := h.tags.ListTags(requestContext(c))
	if err != nil {
		return writeError(c, h.logger, err, "list tags")
	}
	return c.JSON(fiber.Map{"tags": tags})
}

// Shorten handles POST /shorten.
func (h *URLHandler) Shorten(c *fiber.Ctx) error {
	var req ShortenRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, h.logger, err, "shorten url")
	}

	url, err := h.urls.CreateShortURL(requestContext(c), service.CreateURLInput{
		OriginalURL: req.OriginalURL,
		Email:       optionalString(req.Email),
		TagID:       req.TagID.ID,
	})
	if err != nil {
		return writeError(c, h.logger, err, "shorten url")
	}
	h.metrics.URLsCreated.Inc()

	return c.Status(fiber.StatusCreated).JSON(ShortenResponse{
		URL:      url,
		ShortURL: h.shortURL(url.ShortCode),
	})
}

// Latest handles GET /latest/:page?.
func (h *URLHandler) Latest(c *fiber.Ctx) error {
	page, err := h.urls.GetLatestPaginated(requestContext(c), pageParam(c))
	if err != nil {
		return writeError(c, h.logger, err, "list latest urls")
	}
	return c.JSON(page)
}

// Popular handles GET /popular/:page?.
func (h *URLHandler) Popular(c *fiber.Ctx) error {
	page, err := h.urls.GetMostClickedPaginated(requestContext(c), pageParam(c))
	if err != nil {
		return writeError(c, h.logger, err, "list popular urls")
	}
	return c.JSON(page)
}

// ByTag handles GET /tag/:slug. Unknown slugs yield a null tag and an empty list.
func (h *URLHandler) ByTag(c *fiber.Ctx) error {
	ctx := requestContext(c)
	slug := c.Params("slug")

	tag, err := h.tags.GetTagBySlug(ctx, slug)
	if err != nil && !errors.Is(err, repository.ErrTagNotFound) {
		return writeError(c, h.logger, err, "load tag")
	}

	urls := []model.URL{}
	if tag != nil {
		if urls, err = h.urls.GetURLsByTagSlug(ctx, slug); err != nil {
			return writeError(c, h.logger, err, "list urls by tag")
		}
		if urls == nil {
			urls = []model.URL{}
		}
	}
	return c.JSON(fiber.Map{"slug": slug, "tag": tag, "urls": urls})
}

// Stats handles GET /stats.
func (h *URLHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.stats.GetStats(requestContext(c))
	if err != nil {
		return writeError(c, h.logger, err, "compute stats")
	}
	return c.JSON(stats)
}

// SearchRequest carries the optional, AND-combined search filters.
type SearchRequest struct {
	Email       string     `json:"email" form:"email" query:"email"`
	OriginalURL string     `json:"original_url" form:"original_url" query:"original_url"`
	ShortCode   string     `json:"short_code" form:"short_code" query:"short_code"`
	Tag         optionalID `json:"tag" form:"tag" query:"tag"`
}

// Search handles GET and POST /search. GET reads the query string.
func (h *URLHandler) Search(c *fiber.Ctx) error {
	var req SearchRequest
	if c.Method() == fiber.MethodGet {
		if err := c.QueryParser(&req); err != nil {
			return writeError(c, h.logger, errInvalidBody, "search urls")
		}
	} else if err := bind(c, &req); err != nil {
		return writeError(c, h.logger, err, "search urls")
	}

	filter := model.URLFilter{
		Email:       req.Email,
		OriginalURL: req.OriginalURL,
		ShortCode:   req.ShortCode,
		TagID:       req.Tag.ID,
	}
	urls, err := h.urls.SearchURLs(requestContext(c), filter)
	if err != nil {
		return writeError(c, h.logger, err, "search urls")
	}
	if urls == nil {
		urls = []model.URL{}
	}
	return c.JSON(fiber.Map{"urls": urls, "count": len(urls)})
}

func (h *URLHandler) shortURL(code string) string {
	return h.baseURL + "/s/" + code
}
