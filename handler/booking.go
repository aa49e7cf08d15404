package handler

import (
	"errors"

	"travel_manager/constants"
	"travel_manager/helper"
	"travel_manager/model"
	"travel_manager/service"
	"travel_manager/utils"

	"github.com/gofiber/fiber/v2"
)

type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	input := c.Locals("inputCreateBooking").(model.CreateBookingInput)

	claim, _ := helper.GetInfoCustomerFromToken(c)
	if claim.CustomerId == 0 {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Phiên đăng nhập không hợp lệ", errors.New("no customer"))
	}

	booking, err := h.bookings.Create(claim.CustomerId, input)
	if err != nil {
		return utils.AppError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, booking)
}

// PreviewPrice tính thử bảng giá trước khi khách bấm đặt, không ghi gì vào DB
func (h *BookingHandler) PreviewPrice(c *fiber.Ctx) error {
	input := c.Locals("inputPreviewPrice").(model.PreviewPriceInput)

	claim, _ := helper.GetInfoCustomerFromToken(c)
	if claim.CustomerId == 0 {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Phiên đăng nhập không hợp lệ", errors.New("no customer"))
	}

	breakdown, err := h.bookings.PreviewPrice(claim.CustomerId, input)
	if err != nil {
		return utils.AppError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, breakdown)
}

func (h *BookingHandler) MyBookings(c *fiber.Ctx) error {
	claim, _ := helper.GetInfoCustomerFromToken(c)
	if claim.CustomerId == 0 {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Phiên đăng nhập không hợp lệ", errors.New("no customer"))
	}

	bookings, err := h.bookings.ListByCustomer(claim.CustomerId)
	if err != nil {
		return utils.AppError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, bookings)
}

func (h *BookingHandler) GetById(c *fiber.Ctx) error {
	bookingId := uint(c.Locals("inputId").(int))

	claim, _ := helper.GetInfoCustomerFromToken(c)
	if claim.CustomerId == 0 {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Phiên đăng nhập không hợp lệ", errors.New("no customer"))
	}

	// Admin xem được mọi booking, khách chỉ xem booking của mình
	var ownerScope *uint
	if claim.Role != constants.ROLE_ADMIN {
		ownerScope = &claim.CustomerId
	}

	booking, err := h.bookings.GetById(bookingId, ownerScope)
	if err != nil {
		return utils.AppError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	bookingId := uint(c.Locals("inputId").(int))

	claim, _ := helper.GetInfoCustomerFromToken(c)
	if claim.CustomerId == 0 {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Phiên đăng nhập không hợp lệ", errors.New("no customer"))
	}

	booking, err := h.bookings.Cancel(bookingId, claim.CustomerId)
	if err != nil {
		return utils.AppError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

// UpdateStatus là thao tác dành cho admin, đi qua bảng chuyển trạng thái
func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	bookingId := c.Locals("inputBookingId").(uint)
	input := c.Locals("inputUpdateStatus").(model.UpdateBookingStatusInput)

	booking, err := h.bookings.UpdateStatus(bookingId, input.Status)
	if err != nil {
		return utils.AppError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

// List là danh sách booking cho admin, lọc theo status và phân trang
func (h *BookingHandler) List(c *fiber.Ctx) error {
	var pagination model.Pagination
	if limit := c.QueryInt("limit", 0); limit > 0 {
		pagination.Limit = utils.Ptr(limit)
	}
	if page := c.QueryInt("page", 0); page > 0 {
		pagination.Page = utils.Ptr(page)
	}

	result, err := h.bookings.List(c.Query("status"), pagination)
	if err != nil {
		return utils.AppError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, result)
}
