package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/LinkDesk/internal/app/service"
	"github.com/sifan077/LinkDesk/internal/http/middleware"
	"github.com/sifan077/LinkDesk/internal/http/session"
	"github.com/sifan077/LinkDesk/internal/http/util"
	"github.com/sifan077/LinkDesk/internal/http/view"
	"go.uber.org/zap"
)

// AuthDeps groups dependencies required by login and logout.
type AuthDeps struct {
	Logger       *zap.Logger
	Admins       service.AdminService
	Sessions     *session.Store
	Tokens       *util.TokenSigner
	CookieName   string
	SecureCookie bool
}

// AuthHandler signs admins in and out.
type AuthHandler struct {
	logger       *zap.Logger
	admins       service.AdminService
	sessions     *session.Store
	tokens       *util.TokenSigner
	cookieName   string
	secureCookie bool
}

// NewAuthHandler creates an auth handler with the provided dependencies.
func NewAuthHandler(deps AuthDeps) *AuthHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		logger:       logger,
		admins:       deps.Admins,
		sessions:     deps.Sessions,
		tokens:       deps.Tokens,
		cookieName:   deps.CookieName,
		secureCookie: deps.SecureCookie,
	}
}

// Register wires login/logout onto the provided router.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Get("/login", h.LoginPage)
	router.Post("/login", h.Login)
	router.Get("/logout", h.Logout)
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	if middleware.GetSession(c) != nil {
		return c.Redirect("/admin", fiber.StatusFound)
	}
	return h.renderLogin(c, fiber.StatusOK, view.LoginPageData{})
}

// Login handles POST /login. JSON callers get the CSRF token in the body,
// form posts are redirected to the dashboard.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	wantsJSON := c.Is("json")

	var req LoginRequest
	if err := bind(c, &req); err != nil {
		if wantsJSON {
			return writeError(c, h.logger, err, "log in")
		}
		return h.renderLogin(c, fiber.StatusUnprocessableEntity, view.LoginPageData{
			Email: req.Email,
			Error: "Email and password are required.",
		})
	}

	ctx := requestContext(c)
	admin, err := h.admins.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) && !wantsJSON {
			return h.renderLogin(c, fiber.StatusUnauthorized, view.LoginPageData{
				Email: req.Email,
				Error: "Invalid credentials.",
			})
		}
		return writeError(c, h.logger, err, "log in")
	}

	// A fresh id on every login; the previous session, if any, is dropped.
	if old := c.Cookies(h.cookieName); old != "" {
		_ = h.sessions.Delete(ctx, old)
	}
	sid, err := h.sessions.Create(ctx, session.Data{
		AdminID: admin.ID,
		Email:   admin.Email,
		Roles:   admin.AllRoles(),
	})
	if err != nil {
		return writeError(c, h.logger, err, "create session")
	}
	// No fixed expiry: the sliding Redis TTL bounds the session.
	c.Cookie(&fiber.Cookie{
		Name:        h.cookieName,
		Value:       sid,
		Path:        "/",
		HTTPOnly:    true,
		Secure:      h.secureCookie,
		SameSite:    fiber.CookieSameSiteLaxMode,
		SessionOnly: true,
	})
	h.logger.Info("admin logged in", zap.Uint("admin_id", admin.ID))

	if !wantsJSON {
		return c.Redirect("/admin", fiber.StatusFound)
	}
	token, err := h.tokens.Issue(sid)
	if err != nil {
		return writeError(c, h.logger, err, "issue csrf token")
	}
	return c.JSON(fiber.Map{"admin": admin, "csrf_token": token})
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies(h.cookieName); sid != "" {
		if err := h.sessions.Delete(requestContext(c), sid); err != nil {
			h.logger.Error("failed to delete session", zap.Error(err))
		}
	}
	c.ClearCookie(h.cookieName)
	return c.Redirect("/login", fiber.StatusFound)
}

func (h *AuthHandler) renderLogin(c *fiber.Ctx, status int, data view.LoginPageData) error {
	html, err := view.RenderLoginPage(data)
	if err != nil {
		h.logger.Error("failed to render login page", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to render page",
		})
	}
	return c.Status(status).Type("html", "utf-8").SendString(html)
}
