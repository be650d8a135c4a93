package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain/identity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/jwt"
)

// LocalActor clave en c.Locals para el identity.Actor autenticado.
const LocalActor = "actor"

// AuthMiddleware valida el Bearer Token JWT, resuelve los permisos del usuario
// y deja el identity.Actor en c.Locals.
func AuthMiddleware(signer *jwt.Signer, perms repository.PermissionRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := signer.Parse(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		names, err := perms.ListByUser(c.UserContext(), claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PERMISSION_CHECK_FAILED", Message: "no se pudieron resolver los permisos, intente más tarde"})
		}
		actor := identity.NewActor(claims.UserID, claims.Username, names)
		c.Locals(LocalActor, actor)
		c.SetUserContext(identity.WithActor(c.UserContext(), actor))
		return c.Next()
	}
}

// RequirePermission exige que el actor autenticado tenga el permiso name.
// Debe usarse DESPUÉS de AuthMiddleware.
//   - 401 si no hay actor en el contexto.
//   - 403 si el actor no tiene el permiso.
func RequirePermission(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := GetActor(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no autenticado"})
		}
		if !actor.HasPermission(name) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "permiso requerido: " + name,
			})
		}
		return c.Next()
	}
}

// GetActor devuelve el actor del contexto (después del middleware de auth).
func GetActor(c *fiber.Ctx) (identity.Actor, bool) {
	actor, ok := c.Locals(LocalActor).(identity.Actor)
	return actor, ok
}
