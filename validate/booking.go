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

func CreateBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateBookingInput

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

		if len(input.Passengers) != input.NumberOfPeople {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Số hành khách không khớp với số người đã chọn",
				"field": "passengers",
			})
		}

		// Save input to context locals
		c.Locals("inputCreateBooking", input)

		// Continue to next handler
		return c.Next()
	}
}

func PreviewPrice() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.PreviewPriceInput

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

		c.Locals("inputPreviewPrice", input)

		return c.Next()
	}
}

func UpdateBookingStatus(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.Atoi(params)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		var input model.UpdateBookingStatusInput

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

		c.Locals("inputUpdateStatus", input)
		c.Locals("inputBookingId", uint(valueKey))

		return c.Next()
	}
}
