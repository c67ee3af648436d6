package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/LinkDesk/internal/app/repository"
	"github.com/sifan077/LinkDesk/internal/app/service"
)

// URLEditRequest is the admin URL edit form. Every field is replaced.
type URLEditRequest struct {
	OriginalURL string     `json:"original_url" form:"original_url" validate:"required,http_url,max=255"`
	Email       string     `json:"email" form:"email" validate:"omitempty,email,max=180"`
	TagID       optionalID `json:"tag_id" form:"tag_id"`
}

// ListURLs handles GET /admin/url.
func (h *AdminHandler) ListURLs(c *fiber.Ctx) error {
	urls, err := h.urls.ListAll(requestContext(c))
	if err != nil {
		return writeError(c, h.logger, err, "list urls")
	}
	return h.withToken(c, fiber.Map{"urls": urls})
}

// ShowURL handles GET /admin/url/:id. recorded_clicks counts the stored click
// events, which lag the clicks column and drop out after the retention window.
func (h *AdminHandler) ShowURL(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return writeError(c, h.logger, repository.ErrURLNotFound, "load url")
	}
	ctx := requestContext(c)
	url, err := h.urls.GetURL(ctx, id)
	if err != nil {
		return writeError(c, h.logger, err, "load url")
	}

	body := fiber.Map{"url": url}
	if h.clicks != nil {
		recorded, err := h.clicks.CountByShortCode(ctx, url.ShortCode)
		if err != nil {
			return writeError(c, h.logger, err, "count click events")
		}
		body["recorded_clicks"] = recorded
	}
	return h.withToken(c, body)
}

// EditURL handles POST /admin/url/:id/edit. The short code and clicks are not editable.
func (h *AdminHandler) EditURL(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return writeError(c, h.logger, repository.ErrURLNotFound, "update url")
	}
	var req URLEditRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, h.logger, err, "update url")
	}
	url, err := h.urls.UpdateURL(requestContext(c), id, service.UpdateURLInput{
		OriginalURL: req.OriginalURL,
		Email:       optionalString(req.Email),
		TagID:       req.TagID.ID,
	})
	if err != nil {
		return writeError(c, h.logger, err, "update url")
	}
	return c.JSON(fiber.Map{"url": url})
}

// DeleteURL handles POST /admin/url/:id/delete.
func (h *AdminHandler) DeleteURL(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return writeError(c, h.logger, repository.ErrURLNotFound, "delete url")
	}
	if err := h.urls.DeleteURL(requestContext(c), id); err != nil {
		return writeError(c, h.logger, err, "delete url")
	}
	return c.JSON(fiber.Map{"deleted": id})
}
