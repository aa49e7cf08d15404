package validate

import (
	"fmt"

	"travel_manager/model"

	"github.com/gofiber/fiber/v2"
)

func CreateVoucher() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateVoucherInput

		// Parse JSON từ request body vào struct
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Invalid input %s", err.Error()),
			})
		}

		// Validate input
		if err := validate.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		if !input.EndDate.After(input.StartDate) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Ngày kết thúc phải sau ngày bắt đầu",
				"field": "endDate",
			})
		}

		c.Locals("inputCreateVoucher", input)

		return c.Next()
	}
}

func ApplyVoucher() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.ApplyVoucherInput

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

		c.Locals("inputApplyVoucher", input)

		return c.Next()
	}
}

func AssignVoucher() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.AssignVoucherInput

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

		c.Locals("inputAssignVoucher", input)

		return c.Next()
	}
}
