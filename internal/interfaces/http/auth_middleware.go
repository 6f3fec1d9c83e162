package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/pkg/jwt"
)

// Locals keys para la identidad verificada en Fiber.
const (
	LocalAccountID = "account_id"
	LocalEmail     = "email"
)

// AuthMiddleware valida el Bearer Token JWT y guarda la identidad en c.Locals.
// El rol nunca viaja en el token: se resuelve contra role_assignments en cada operación.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return unauthorized(c, "MISSING_TOKEN", "Authorization header requerido")
		}
		return authenticate(c, jwtSecret)
	}
}

// OptionalAuth como AuthMiddleware pero deja pasar llamadores anónimos.
// Un token presente pero inválido sigue siendo 401.
func OptionalAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		return authenticate(c, jwtSecret)
	}
}

func authenticate(c *fiber.Ctx, jwtSecret string) error {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return unauthorized(c, "INVALID_TOKEN", "formato: Bearer <token>")
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return unauthorized(c, "MISSING_TOKEN", "token vacío")
	}
	accountID, email, err := jwt.Parse(jwtSecret, tokenString)
	if err != nil {
		return unauthorized(c, "INVALID_TOKEN", "token inválido o expirado")
	}
	c.Locals(LocalAccountID, accountID)
	c.Locals(LocalEmail, email)
	return c.Next()
}

func unauthorized(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg, Category: domain.CategoryAuth})
}

// CurrentIdentity devuelve la identidad del llamador; vacía si es anónimo.
func CurrentIdentity(c *fiber.Ctx) entity.Identity {
	id, _ := c.Locals(LocalAccountID).(string)
	email, _ := c.Locals(LocalEmail).(string)
	return entity.Identity{AccountID: id, Email: email}
}
