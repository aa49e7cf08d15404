package middleware

import (
	"errors"
	"os"
	"strings"

	"travel_manager/constants"
	"travel_manager/helper"
	"travel_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("access_token")

		if token == "" {
			// check header Authorization: Bearer xxx
			auth := c.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if token == "" {
			return utils.ErrorResponse(c, 401, "Missing token", errors.New("no token"))
		}

		jwtToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !jwtToken.Valid {
			return utils.ErrorResponse(c, 401, "Invalid token", err)
		}

		c.Locals("user", jwtToken)
		return c.Next()
	}
}

// RequireAdmin chỉ cho qua khi token mang role ADMIN, dùng sau Protected()
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claim, _ := helper.GetInfoCustomerFromToken(c)
		if claim.Role != constants.ROLE_ADMIN {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Bạn không có quyền thực hiện thao tác này", errors.New("admin only"))
		}
		return c.Next()
	}
}
