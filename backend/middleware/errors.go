package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/achivio/achivio-core/achivio/chain"
)

// ErrorHandler maps contract errors onto HTTP statuses and a stable JSON
// error shape: {"error":{"contract","code","kind"}}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var cerr *chain.Error
	if errors.As(err, &cerr) {
		return c.Status(statusFor(cerr)).JSON(fiber.Map{
			"error": fiber.Map{
				"contract": cerr.Contract,
				"code":     cerr.Code,
				"kind":     cerr.Kind,
			},
		})
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return c.Status(ferr.Code).JSON(fiber.Map{
			"error": fiber.Map{
				"code": "http-error",
				"kind": ferr.Message,
			},
		})
	}

	slog.Error("Unhandled gateway error",
		slog.String("type", "api"),
		slog.String("path", c.Path()),
		slog.Any("error", err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fiber.Map{
			"code": "internal",
			"kind": "internal server error",
		},
	})
}

func statusFor(err *chain.Error) int {
	switch {
	case strings.HasSuffix(err.Kind, "not-found"):
		return fiber.StatusNotFound
	case strings.Contains(err.Kind, "unauthorized"),
		strings.Contains(err.Kind, "owner-only"),
		strings.Contains(err.Kind, "not-token-owner"),
		strings.Contains(err.Kind, "not-item-owner"):
		return fiber.StatusForbidden
	case strings.Contains(err.Kind, "paused"):
		return fiber.StatusServiceUnavailable
	case strings.Contains(err.Kind, "already"):
		return fiber.StatusConflict
	case strings.Contains(err.Kind, "insufficient"):
		return fiber.StatusPaymentRequired
	case strings.Contains(err.Kind, "requirement-not-met"),
		strings.Contains(err.Kind, "not-current"):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}
