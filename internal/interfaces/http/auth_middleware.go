package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/baisoft/marketplace-api/internal/application/dto"
	"github.com/baisoft/marketplace-api/internal/domain/authz"
	"github.com/baisoft/marketplace-api/pkg/jwt"
)

// Local key para el Caller resuelto en Fiber.
const LocalCaller = "caller"

// callerLoader contrato mínimo que necesita el middleware para resolver la
// identidad fresca del caller. Lo implementa *auth.AuthUseCase; la interfaz
// evita el import circular.
type callerLoader interface {
	CallerByID(ctx context.Context, userID int64) (authz.Caller, error)
}

// AuthMiddleware valida el Bearer Token JWT y resuelve la identidad del
// caller. El rol, la empresa y el flag activo se releen de la DB en cada
// petición: un token emitido antes de desactivar la cuenta o cambiar el rol
// no conserva los permisos viejos. Cuentas inactivas no autentican.
func AuthMiddleware(jwtSecret string, loader callerLoader) fiber.Handler {
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
		userID, _, _, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		caller, err := loader.CallerByID(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "usuario no válido"})
		}
		if !caller.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INACTIVE", Message: "cuenta inactiva"})
		}
		c.Locals(LocalCaller, caller)
		return c.Next()
	}
}

// GetCaller devuelve el Caller del contexto (después del middleware de auth).
func GetCaller(c *fiber.Ctx) authz.Caller {
	v := c.Locals(LocalCaller)
	if v == nil {
		return authz.Caller{}
	}
	caller, _ := v.(authz.Caller)
	return caller
}

// GetUserID devuelve el UserID del contexto.
func GetUserID(c *fiber.Ctx) int64 {
	return GetCaller(c).UserID
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	return GetCaller(c).Role
}

// RequireRole autoriza el acceso a los roles indicados. Debe usarse DESPUÉS
// de AuthMiddleware (necesita el Caller en locals).
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para este recurso"})
	}
}
