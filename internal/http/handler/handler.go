package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/LinkDesk/internal/app/repository"
	"github.com/sifan077/LinkDesk/internal/app/service"
	"go.uber.org/zap"
)

var errInvalidBody = errors.New("invalid request body")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under their wire names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// bind decodes a JSON or form body into dst and validates it.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return errInvalidBody
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &service.ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this value should not be blank"
	case "email":
		return "this value is not a valid email address"
	case "url", "http_url":
		return "this value is not a valid URL"
	case "max":
		return "this value is too long (max " + fe.Param() + ")"
	case "min":
		return "this value is too short (min " + fe.Param() + ")"
	default:
		return "this value is not valid"
	}
}

// writeError maps service and repository errors onto HTTP responses.
func writeError(c *fiber.Ctx, logger *zap.Logger, err error, action string) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	case errors.Is(err, errInvalidBody):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errInvalidBody.Error()})
	case errors.Is(err, repository.ErrURLNotFound),
		errors.Is(err, repository.ErrTagNotFound),
		errors.Is(err, repository.ErrAdminNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": rootMessage(err)})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": service.ErrInvalidCredentials.Error()})
	case errors.Is(err, service.ErrCredentialMismatch):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": map[string]string{"current_password": service.ErrCredentialMismatch.Error()},
		})
	}

	logger.Error("failed to "+action, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "failed to " + action,
	})
}

func rootMessage(err error) string {
	for _, sentinel := range []error{repository.ErrURLNotFound, repository.ErrTagNotFound, repository.ErrAdminNotFound} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func requestContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// pageParam reads the page from the :page segment or ?page=; anything
// unparseable is page 1.
func pageParam(c *fiber.Ctx) int {
	raw := c.Params("page")
	if raw == "" {
		raw = c.Query("page")
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// idParam reads a positive integer path parameter.
func idParam(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// optionalID is a nullable id accepted as JSON number, JSON string or form value.
type optionalID struct {
	ID *uint
}

func (o *optionalID) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		o.ID = nil
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	id := uint(n)
	o.ID = &id
	return nil
}

func (o *optionalID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		o.ID = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return o.UnmarshalText([]byte(s))
	}
	return o.UnmarshalText(b)
}

// optionalString turns a blank value into nil.
func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
