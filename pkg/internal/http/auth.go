package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/veles-crm/fieldwork/pkg/internal/services"
)

// authMiddleware resolves the bearer token into an account and stashes
// it in locals. Requests without a usable token pass through anonymous;
// the per-route guards decide whether that is acceptable.
func authMiddleware(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return c.Next()
	}

	token, err := jwt.ParseWithClaims(
		strings.TrimPrefix(header, "Bearer "),
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			return []byte(viper.GetString("security.jwt_secret")), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return c.Next()
	}

	claims := token.Claims.(*jwt.RegisteredClaims)
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return c.Next()
	}

	account, err := services.GetAccount(uint(id))
	if err != nil {
		return c.Next()
	}

	c.Locals("user", account)
	return c.Next()
}
