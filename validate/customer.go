package validate

import (
	"fmt"
	"regexp"
	"strings"

	"travel_manager/model"

	"github.com/gofiber/fiber/v2"
)

func isValidEmail(email string) bool {
	const emailRegex = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	re := regexp.MustCompile(emailRegex)
	return re.MatchString(email)
}

// Hàm kiểm tra số điện thoại Việt Nam (10 số, bắt đầu bằng 0 hoặc +84)
func isValidPhoneVN(phone string) bool {
	// Loại bỏ khoảng trắng, dấu gạch
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")

	if strings.HasPrefix(phone, "+84") && len(phone) == 12 {
		return true
	}
	if strings.HasPrefix(phone, "0") && len(phone) == 10 {
		return true
	}
	return false
}

func RegisterCustomer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.RegisterCustomerInput

		// Parse JSON từ request body vào struct
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Invalid input %s", err.Error()),
			})
		}

		if input.Email == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Email không được để trống",
				"field": "email",
			})
		}
		if !isValidEmail(input.Email) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Email không hợp lệ",
				"field": "email",
			})
		}

		if input.Phone == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Số điện thoại không được để trống",
				"field": "phone",
			})
		}
		if !isValidPhoneVN(input.Phone) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Số điện thoại không hợp lệ (10 số, bắt đầu bằng 0 hoặc +84)",
				"field": "phone",
			})
		}

		if len(input.Password) < 8 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Mật khẩu phải ít nhất 8 ký tự",
				"field": "password",
			})
		}

		// Validate input
		if err := validate.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		// Save input to context locals
		c.Locals("inputRegisterCustomer", input)

		// Continue to next handler
		return c.Next()
	}
}

func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.LoginInput

		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Invalid input %s", err.Error()),
			})
		}

		if err := validate.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.Locals("inputLogin", input)

		return c.Next()
	}
}
