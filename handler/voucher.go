package handler

import (
	"errors"

	"travel_manager/helper"
	"travel_manager/model"
	"travel_manager/service"
	"travel_manager/utils"

	"github.com/gofiber/fiber/v2"
)

type VoucherHandler struct {
	vouchers *service.VoucherService
}

func NewVoucherHandler(vouchers *service.VoucherService) *VoucherHandler {
	return &VoucherHandler{vouchers: vouchers}
}

// Create tạo voucher mới (admin)
func (h *VoucherHandler) Create(c *fiber.Ctx) error {
	input := c.Locals("inputCreateVoucher").(model.CreateVoucherInput)

	voucher, err := h.vouchers.Create(input)
	if err != nil {
		return utils.AppError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, voucher)
}

// Assign cấp voucher private/system cho một khách (admin)
func (h *VoucherHandler) Assign(c *fiber.Ctx) error {
	input := c.Locals("inputAssignVoucher").(model.AssignVoucherInput)

	grant, err := h.vouchers.Assign(input.CustomerId, input.Code)
	if err != nil {
		return utils.AppError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, grant)
}

// Apply kiểm tra voucher và trả về số tiền giảm, chưa ghi nhận lượt dùng
func (h *VoucherHandler) Apply(c *fiber.Ctx) error {
	input := c.Locals("inputApplyVoucher").(model.ApplyVoucherInput)

	claim, _ := helper.GetInfoCustomerFromToken(c)
	if claim.CustomerId == 0 {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Phiên đăng nhập không hợp lệ", errors.New("no customer"))
	}

	validation, err := h.vouchers.Validate(input.Code, claim.CustomerId, input.OrderTotal)
	if err != nil {
		return utils.AppError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, validation)
}

func (h *VoucherHandler) MyVouchers(c *fiber.Ctx) error {
	claim, _ := helper.GetInfoCustomerFromToken(c)
	if claim.CustomerId == 0 {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Phiên đăng nhập không hợp lệ", errors.New("no customer"))
	}

	grants, err := h.vouchers.MyVouchers(claim.CustomerId)
	if err != nil {
		return utils.AppError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, grants)
}
