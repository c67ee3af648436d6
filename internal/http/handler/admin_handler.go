package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/LinkDesk/internal/app/service"
	"github.com/sifan077/LinkDesk/internal/http/middleware"
	"github.com/sifan077/LinkDesk/internal/http/util"
	"go.uber.org/zap"
)

// ClickCounter counts the click events recorded for a short code.
type ClickCounter interface {
	CountByShortCode(ctx context.Context, code string) (int64, error)
}

// AdminDeps groups dependencies required by the admin panel.
type AdminDeps struct {
	Logger *zap.Logger
	Admins service.AdminService
	URLs   service.URLService
	Tags   service.TagService
	Stats  service.StatService
	Clicks ClickCounter
	Tokens *util.TokenSigner
}

// AdminHandler serves the dashboard, the profile and tag/url management.
// Routes are expected behind middleware.RequireAdmin and middleware.CSRF.
type AdminHandler struct {
	logger *zap.Logger
	admins service.AdminService
	urls   service.URLService
	tags   service.TagService
	stats  service.StatService
	clicks ClickCounter
	tokens *util.TokenSigner
}

// NewAdminHandler creates an admin handler with the provided dependencies.
func NewAdminHandler(deps AdminDeps) *AdminHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{
		logger: logger,
		admins: deps.Admins,
		urls:   deps.URLs,
		tags:   deps.Tags,
		stats:  deps.Stats,
		clicks: deps.Clicks,
		tokens: deps.Tokens,
	}
}

// Register wires admin routes onto the provided router.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/", h.Dashboard)
	router.Get("/profil", h.Profile)
	router.Post("/profil", h.UpdateProfile)
	router.Post("/change-password", h.ChangePassword)

	tags := router.Group("/tag")
	tags.Get("/", h.ListTags)
	tags.Post("/new", h.CreateTag)
	tags.Get("/:id", h.ShowTag)
	tags.Post("/:id/edit", h.EditTag)
	tags.Post("/:id/delete", h.DeleteTag)

	urls := router.Group("/url")
	urls.Get("/", h.ListURLs)
	urls.Get("/:id", h.ShowURL)
	urls.Post("/:id/edit", h.EditURL)
	urls.Post("/:id/delete", h.DeleteURL)
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	ctx := requestContext(c)
	admin, err := h.admins.GetAdmin(ctx, middleware.GetSession(c).AdminID)
	if err != nil {
		return writeError(c, h.logger, err, "load admin")
	}
	stats, err := h.stats.GetStats(ctx)
	if err != nil {
		return writeError(c, h.logger, err, "compute stats")
	}
	return h.withToken(c, fiber.Map{"admin": admin, "stats": stats})
}

// Profile handles GET /admin/profil.
func (h *AdminHandler) Profile(c *fiber.Ctx) error {
	admin, err := h.admins.GetAdmin(requestContext(c), middleware.GetSession(c).AdminID)
	if err != nil {
		return writeError(c, h.logger, err, "load admin")
	}
	return h.withToken(c, fiber.Map{"admin": admin})
}

// ProfileRequest is the combined profile and password form.
type ProfileRequest struct {
	Email           string  `json:"email" form:"email" validate:"required,email,max=180"`
	Nickname        *string `json:"nickname" form:"nickname" validate:"omitempty,max=255"`
	CurrentPassword string  `json:"current_password" form:"current_password"`
	NewPassword     string  `json:"new_password" form:"new_password"`
}

// UpdateProfile handles POST /admin/profil. Nothing is saved when a new
// password is given with a wrong current password.
func (h *AdminHandler) UpdateProfile(c *fiber.Ctx) error {
	var req ProfileRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, h.logger, err, "update profile")
	}

	admin, err := h.admins.UpdateCredentials(requestContext(c), middleware.GetSession(c).AdminID, service.CredentialsInput{
		Email:           req.Email,
		Nickname:        req.Nickname,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return writeError(c, h.logger, err, "update profile")
	}
	return c.JSON(fiber.Map{"admin": admin})
}

// ChangePasswordRequest is the body of POST /admin/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

// ChangePassword handles POST /admin/change-password. An empty new password
// changes nothing.
func (h *AdminHandler) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, h.logger, err, "change password")
	}

	adminID := middleware.GetSession(c).AdminID
	if err := h.admins.ChangePassword(requestContext(c), adminID, req.CurrentPassword, req.NewPassword); err != nil {
		return writeError(c, h.logger, err, "change password")
	}
	if req.NewPassword == "" {
		return c.JSON(fiber.Map{"status": "unchanged"})
	}
	h.logger.Info("admin password changed", zap.Uint("admin_id", adminID))
	return c.JSON(fiber.Map{"status": "password updated"})
}

func (h *AdminHandler) withToken(c *fiber.Ctx, body fiber.Map) error {
	token, err := h.tokens.Issue(middleware.GetSessionID(c))
	if err != nil {
		return writeError(c, h.logger, err, "issue csrf token")
	}
	body["csrf_token"] = token
	return c.JSON(body)
}
