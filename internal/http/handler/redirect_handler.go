package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/sifan077/LinkDesk/internal/app/repository"
	"github.com/sifan077/LinkDesk/internal/app/service"
	"github.com/sifan077/LinkDesk/internal/infra/prometheus"
	"go.uber.org/zap"
)

// ClickPublisher hands click events to the stream.
type ClickPublisher interface {
	Publish(click service.Click) (*model.ClickEvent, error)
}

// RedirectDeps groups dependencies required by the redirect handler.
type RedirectDeps struct {
	Logger         *zap.Logger
	URLs           service.URLService
	ClickPublisher ClickPublisher
	Metrics        *prometheus.Metrics
}

// RedirectHandler resolves short codes.
type RedirectHandler struct {
	logger         *zap.Logger
	urls           service.URLService
	clickPublisher ClickPublisher
	metrics        *prometheus.Metrics
}

// NewRedirectHandler creates a redirect handler with the provided dependencies.
func NewRedirectHandler(deps RedirectDeps) *RedirectHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = prometheus.NewMetrics(nil)
	}
	return &RedirectHandler{
		logger:         logger,
		urls:           deps.URLs,
		clickPublisher: deps.ClickPublisher,
		metrics:        metrics,
	}
}

// Register wires redirect routes onto the provided router.
func (h *RedirectHandler) Register(router fiber.Router) {
	router.Get("/s/:shortCode", h.Redirect)
}

// Redirect handles GET /s/:shortCode: count the click, then 302 to the target.
func (h *RedirectHandler) Redirect(c *fiber.Ctx) error {
	code := c.Params("shortCode")

	url, err := h.urls.HandleRedirect(requestContext(c), code)
	if err != nil {
		if errors.Is(err, repository.ErrURLNotFound) {
			h.metrics.Redirects.WithLabelValues(prometheus.RedirectNotFound).Inc()
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "short link not found",
			})
		}
		h.metrics.Redirects.WithLabelValues(prometheus.RedirectError).Inc()
		return writeError(c, h.logger, err, "resolve short link")
	}
	h.metrics.Redirects.WithLabelValues(prometheus.RedirectFound).Inc()

	if h.clickPublisher != nil {
		// Ctx strings alias fasthttp's pooled buffers, which are reused
		// once the handler returns.
		click := service.Click{
			ShortCode: utils.CopyString(url.ShortCode),
			IP:        utils.CopyString(c.IP()),
			UserAgent: utils.CopyString(c.Get(fiber.HeaderUserAgent)),
			Referer:   utils.CopyString(c.Get(fiber.HeaderReferer)),
		}
		go h.publishClick(click)
	}

	h.logger.Debug("redirecting short link", zap.String("code", code), zap.Int64("clicks", url.Clicks))
	return c.Redirect(url.OriginalURL, fiber.StatusFound)
}

func (h *RedirectHandler) publishClick(click service.Click) {
	if _, err := h.clickPublisher.Publish(click); err != nil {
		h.metrics.ClicksPublished.WithLabelValues("error").Inc()
		h.logger.Error("failed to publish click event", zap.Error(err), zap.String("code", click.ShortCode))
		return
	}
	h.metrics.ClicksPublished.WithLabelValues("ok").Inc()
}
