package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/sifan077/LinkDesk/internal/http/session"
	"github.com/sifan077/LinkDesk/internal/http/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const cookieName = "sid"

type adminApp struct {
	app    *fiber.App
	store  *session.Store
	tokens *util.TokenSigner
}

func newAdminApp(t *testing.T) *adminApp {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := session.NewStore(rdb, time.Hour)
	tokens := util.NewTokenSigner([]byte("test-secret"), time.Hour)

	app := fiber.New()
	app.Use(RequestID(), Session(store, cookieName, zap.NewNop()))
	admin := app.Group("/admin", RequireAdmin(), CSRF(tokens))
	admin.Get("/", func(c *fiber.Ctx) error { return c.SendString("dashboard") })
	admin.Post("/thing", func(c *fiber.Ctx) error { return c.SendString("done") })

	return &adminApp{app: app, store: store, tokens: tokens}
}

func (a *adminApp) login(t *testing.T, roles ...string) string {
	t.Helper()
	id, err := a.store.Create(context.Background(), session.Data{AdminID: 1, Roles: roles})
	require.NoError(t, err)
	return id
}

func (a *adminApp) do(t *testing.T, req *http.Request, sid string) *http.Response {
	t.Helper()
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: sid})
	}
	resp, err := a.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestRequireAdmin(t *testing.T) {
	a := newAdminApp(t)

	resp := a.do(t, httptest.NewRequest(http.MethodGet, "/admin/", nil), "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = a.do(t, httptest.NewRequest(http.MethodGet, "/admin/", nil), "expired-session")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = a.do(t, httptest.NewRequest(http.MethodGet, "/admin/", nil), a.login(t, model.RoleUser))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = a.do(t, httptest.NewRequest(http.MethodGet, "/admin/", nil), a.login(t, model.RoleAdmin))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCSRF(t *testing.T) {
	a := newAdminApp(t)
	sid := a.login(t, model.RoleAdmin)
	token, err := a.tokens.Issue(sid)
	require.NoError(t, err)

	resp := a.do(t, httptest.NewRequest(http.MethodPost, "/admin/thing", nil), sid)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "missing token")

	req := httptest.NewRequest(http.MethodPost, "/admin/thing", nil)
	req.Header.Set(CSRFHeader, token)
	resp = a.do(t, req, sid)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "header token")

	form := url.Values{CSRFFormField: {token}}
	req = httptest.NewRequest(http.MethodPost, "/admin/thing", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp = a.do(t, req, sid)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "form token")

	req = httptest.NewRequest(http.MethodPost, "/admin/thing", strings.NewReader(`{"_token":"`+token+`"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp = a.do(t, req, sid)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "json token")

	other := a.login(t, model.RoleAdmin)
	req = httptest.NewRequest(http.MethodPost, "/admin/thing", nil)
	req.Header.Set(CSRFHeader, token)
	resp = a.do(t, req, other)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "token from another session")
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "abc-123", string(body))
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(RequestIDHeader), 36)
}

func TestRecovery(t *testing.T) {
	app := fiber.New()
	app.Use(Recovery(zap.NewNop()))
	app.Get("/", func(c *fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	app := fiber.New()
	app.Use(CORS("https://links.example.com/"))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodOptions, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://links.example.com", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlAllowHeaders), CSRFHeader)
}
