package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/LinkDesk/internal/app/repository"
	"github.com/sifan077/LinkDesk/internal/app/service"
)

// TagRequest is the tag create/edit form.
type TagRequest struct {
	Name string `json:"name" form:"name" validate:"required,max=255"`
}

// ListTags handles GET /admin/tag.
func (h *AdminHandler) ListTags(c *fiber.Ctx) error {
	tags, err := h.tags.ListTags(requestContext(c))
	if err != nil {
		return writeError(c, h.logger, err, "list tags")
	}
	return h.withToken(c, fiber.Map{"tags": tags})
}

// CreateTag handles POST /admin/tag/new.
func (h *AdminHandler) CreateTag(c *fiber.Ctx) error {
	var req TagRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, h.logger, err, "create tag")
	}
	tag, err := h.tags.CreateTag(requestContext(c), service.TagInput{Name: req.Name})
	if err != nil {
		return writeError(c, h.logger, err, "create tag")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"tag": tag})
}

// ShowTag handles GET /admin/tag/:id.
func (h *AdminHandler) ShowTag(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return writeError(c, h.logger, repository.ErrTagNotFound, "load tag")
	}
	tag, err := h.tags.GetTag(requestContext(c), id)
	if err != nil {
		return writeError(c, h.logger, err, "load tag")
	}
	return h.withToken(c, fiber.Map{"tag": tag})
}

// EditTag handles POST /admin/tag/:id/edit.
func (h *AdminHandler) EditTag(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return writeError(c, h.logger, repository.ErrTagNotFound, "update tag")
	}
	var req TagRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, h.logger, err, "update tag")
	}
	tag, err := h.tags.UpdateTag(requestContext(c), id, service.TagInput{Name: req.Name})
	if err != nil {
		return writeError(c, h.logger, err, "update tag")
	}
	return c.JSON(fiber.Map{"tag": tag})
}

// DeleteTag handles POST /admin/tag/:id/delete. Tagged URLs are kept and untagged.
func (h *AdminHandler) DeleteTag(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return writeError(c, h.logger, repository.ErrTagNotFound, "delete tag")
	}
	if err := h.tags.DeleteTag(requestContext(c), id); err != nil {
		return writeError(c, h.logger, err, "delete tag")
	}
	return c.JSON(fiber.Map{"deleted": id})
}
