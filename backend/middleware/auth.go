package middleware

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/achivio/achivio-core/achivio/chain"
)

// PrincipalHeader carries the authenticated signer identity. The gateway
// trusts its upstream auth layer and substitutes this principal as the
// caller of every contract operation it invokes.
const PrincipalHeader = "X-Achivio-Principal"

// PrincipalRequired rejects requests without a valid principal header and
// stores the principal in the request context.
func PrincipalRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := chain.Principal(strings.TrimSpace(c.Get(PrincipalHeader)))
		if err := chain.ValidPrincipal(p); err != nil || p.IsContract() {
			slog.Debug("Rejected request without principal",
				slog.String("type", "api"),
				slog.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": fiber.Map{
					"code": "missing-principal",
					"kind": "a valid " + PrincipalHeader + " header is required",
				},
			})
		}
		c.Locals("principal", p)
		return c.Next()
	}
}

// Principal returns the authenticated principal set by PrincipalRequired.
func Principal(c *fiber.Ctx) chain.Principal {
	p, _ := c.Locals("principal").(chain.Principal)
	return p
}

// AdminRequired gates privileged routes behind a shared token.
func AdminRequired(adminToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("X-Admin-Token")
		if token == "" {
			auth := c.Get(fiber.HeaderAuthorization)
			token = strings.TrimPrefix(auth, "Bearer ")
		}
		if adminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
			slog.Warn("Rejected admin request",
				slog.String("type", "api"),
				slog.String("path", c.Path()))
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": fiber.Map{
					"code": "admin-required",
					"kind": "admin token missing or invalid",
				},
			})
		}
		return c.Next()
	}
}
