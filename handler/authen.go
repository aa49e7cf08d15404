package handler

import (
	"errors"
	"time"

	"travel_manager/constants"
	"travel_manager/database"
	"travel_manager/helper"
	"travel_manager/model"
	"travel_manager/service"
	"travel_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthHandler nhận VoucherService để cấp voucher chào mừng khi đăng ký
type AuthHandler struct {
	vouchers *service.VoucherService
}

func NewAuthHandler(vouchers *service.VoucherService) *AuthHandler {
	return &AuthHandler{vouchers: vouchers}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	input := c.Locals("inputRegisterCustomer").(model.RegisterCustomerInput)

	existing, err := helper.GetCustomerByEmail(input.Email)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if existing != nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Email đã được sử dụng", errors.New("email exists"))
	}

	hashed, err := helper.HashPassword(input.Password)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CAN_NOT_HASH_PASSWORD, err)
	}

	customer := model.Customer{
		Email:    input.Email,
		Phone:    input.Phone,
		Password: hashed,
		FullName: input.FullName,
		Role:     constants.ROLE_CUSTOMER,
		IsActive: true,
	}
	if err := database.DB.Create(&customer).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}

	// Voucher chào mừng best-effort, đăng ký vẫn thành công khi cấp lỗi
	welcomeCode := h.vouchers.AssignWelcomeVoucher(customer.ID)
	utils.SendWelcomeEmail(customer.Email, customer.FullName, welcomeCode)

	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{
		"id":       customer.ID,
		"email":    customer.Email,
		"fullName": customer.FullName,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	input := c.Locals("inputLogin").(model.LoginInput)

	customer, err := helper.GetCustomerByEmail(input.Email)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if customer == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.INVALID_USERNAME, errors.New("email not exists"))
	}

	if !helper.CheckPasswordHash(input.Password, customer.Password) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_PASSWORD, errors.New("password does not match email"))
	}

	if !customer.IsActive {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ACCOUNT_NOT_ACTIVE, errors.New("active false"))
	}

	tokenClaim := model.TokenClaim{
		CustomerId: customer.ID,
		Email:      customer.Email,
		Role:       customer.Role,
	}

	token, err := helper.GenerateAccessToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	refreshToken, err := helper.GenerateRefreshToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	// set access token vào HTTPOnly cookie
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		HTTPOnly: true,
		SameSite: "None",
		Secure:   false, // nếu deploy HTTPS thì true
		Path:     "/",
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HTTPOnly: true,
		SameSite: "None",
		Secure:   false,
		Path:     "/",
	})

	return c.JSON(fiber.Map{
		"message": "login success",
		"customer": fiber.Map{
			"id":       customer.ID,
			"email":    customer.Email,
			"fullName": customer.FullName,
			"role":     customer.Role,
		},
	})
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshCookie := c.Cookies("refresh_token")
	if refreshCookie == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "refresh token not found"})
	}

	token, err := helper.ParseToken(refreshCookie)
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid refresh token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	customerIdFloat, ok := claims["customerId"].(float64)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid customerId in payload"})
	}
	email, ok := claims["email"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email in payload"})
	}

	var customer model.Customer
	if err := database.DB.First(&customer, uint(customerIdFloat)).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Customer not found"})
	}

	tokenClaim := model.TokenClaim{
		CustomerId: uint(customerIdFloat),
		Email:      email,
		Role:       customer.Role,
	}

	newAccessToken, err := helper.GenerateAccessToken(tokenClaim)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not generate access token"})
	}

	newRefreshToken, err := helper.GenerateRefreshToken(tokenClaim)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not generate refresh token"})
	}

	// update lại cookie
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    newAccessToken,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   false,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    newRefreshToken,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   false,
		Path:     "/",
	})

	return c.JSON(fiber.Map{
		"message": "refresh success",
		"token": model.TokenData{
			AccessToken:  newAccessToken,
			RefreshToken: newRefreshToken,
		},
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claim, customer := helper.GetInfoCustomerFromToken(c)
	if claim.CustomerId == 0 {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Phiên đăng nhập không hợp lệ", errors.New("no customer"))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, customer)
}
