package validate

import (
	"errors"
	"fmt"
	"strconv"

	"travel_manager/constants"
	"travel_manager/model"
	"travel_manager/utils"

	"github.com/gofiber/fiber/v2"
)

func InitiatePayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.InitiatePaymentInput

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

		c.Locals("inputInitiatePayment", input)

		return c.Next()
	}
}

func ConfirmPayment(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.Atoi(params)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		var input model.ConfirmPaymentInput

		// Body có thể rỗng, admin không bắt buộc nhập gì thêm
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&input); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": fmt.Sprintf("Invalid input %s", err.Error()),
				})
			}
		}

		c.Locals("inputConfirmPayment", input)
		c.Locals("inputPaymentId", uint(valueKey))

		return c.Next()
	}
}
