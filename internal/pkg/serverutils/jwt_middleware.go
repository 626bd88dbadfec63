package serverutils

import (
	"os"
	"strings"

	"research-link-be/internal/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const SessionCookieName = "rl_session"

// JwtMiddleware authenticates the request from the session cookie, falling
// back to a Bearer header for non-browser clients. Claims land in Locals.
func JwtMiddleware(ctx *fiber.Ctx) error {
	tokenStr := ctx.Cookies(SessionCookieName)
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return unauthorized(ctx, "Missing token")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return unauthorized(ctx, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return unauthorized(ctx, "Invalid claims")
	}

	ctx.Locals("user_id", claims["user_id"])
	ctx.Locals("role", claims["role"])
	ctx.Locals("college_id", claims["college_id"])
	if v, ok := claims["student_id"]; ok {
		ctx.Locals("student_id", v)
	}
	if v, ok := claims["professor_id"]; ok {
		ctx.Locals("professor_id", v)
	}
	return ctx.Next()
}

func RequireStudent(ctx *fiber.Ctx) error {
	if role, _ := ctx.Locals("role").(string); role != string(entity.UserRoleStudent) {
		return forbidden(ctx, "Only students can perform this action")
	}
	return ctx.Next()
}

func RequireProfessor(ctx *fiber.Ctx) error {
	if role, _ := ctx.Locals("role").(string); role != string(entity.UserRoleProfessor) {
		return forbidden(ctx, "Only professors can perform this action")
	}
	return ctx.Next()
}

// LocalUUID parses a UUID claim previously stored in Locals. The zero UUID
// means the claim was absent or malformed.
func LocalUUID(ctx *fiber.Ctx, key string) uuid.UUID {
	raw, _ := ctx.Locals(key).(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func unauthorized(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"code":    fiber.StatusUnauthorized,
		"message": message,
	})
}

func forbidden(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"success": false,
		"code":    fiber.StatusForbidden,
		"message": message,
	})
}
