package handler

import (
	"fmt"
	"net/url"
	"os"

	"travel_manager/constants"
	"travel_manager/gateway"
	"travel_manager/model"
	"travel_manager/service"
	"travel_manager/utils"

	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Initiate tạo giao dịch thanh toán cho một booking
func (h *PaymentHandler) Initiate(c *fiber.Ctx) error {
	input := c.Locals("inputInitiatePayment").(model.InitiatePaymentInput)

	result, err := h.payments.Initiate(input, c.IP())
	if err != nil {
		return utils.AppError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, result)
}

// VNPayCallback nhận redirect từ VNPay sau khi khách thanh toán.
// Chữ ký sai trả 400 ngay, không redirect.
func (h *PaymentHandler) VNPayCallback(c *fiber.Ctx) error {
	query := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		query.Add(string(k), string(v))
	})

	payment, err := h.payments.HandleVNPayCallback(query)
	if err != nil {
		return utils.AppError(c, err)
	}

	appUrl := os.Getenv("APP_URL")
	if payment.Status == constants.PAYMENT_COMPLETED {
		return c.Redirect(fmt.Sprintf("%s/booking/%d/success", appUrl, payment.BookingId))
	}
	return c.Redirect(fmt.Sprintf("%s/booking/%d/payment-failed", appUrl, payment.BookingId))
}

// MomoIPN nhận thông báo server-to-server từ MoMo (nguồn sự thật của trạng thái)
func (h *PaymentHandler) MomoIPN(c *fiber.Ctx) error {
	var ipn gateway.MoMoIPN
	if err := c.BodyParser(&ipn); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Không thể phân tích IPN", err)
	}

	if _, err := h.payments.HandleMomoIPN(ipn); err != nil {
		return utils.AppError(c, err)
	}

	// MoMo chỉ cần biết đã nhận thành công
	return c.SendStatus(fiber.StatusNoContent)
}

// MomoReturn chỉ là redirect cho trình duyệt, trạng thái thật chốt qua IPN
func (h *PaymentHandler) MomoReturn(c *fiber.Ctx) error {
	appUrl := os.Getenv("APP_URL")
	orderId := c.Query("orderId")
	if c.QueryInt("resultCode", -1) == 0 {
		return c.Redirect(fmt.Sprintf("%s/payment/success?orderId=%s", appUrl, orderId))
	}
	return c.Redirect(fmt.Sprintf("%s/payment/failed?orderId=%s", appUrl, orderId))
}

// Confirm xác nhận thủ công cho chuyển khoản / tiền mặt (admin)
func (h *PaymentHandler) Confirm(c *fiber.Ctx) error {
	paymentId := c.Locals("inputPaymentId").(uint)
	input := c.Locals("inputConfirmPayment").(model.ConfirmPaymentInput)

	payment, err := h.payments.ConfirmManual(paymentId, input)
	if err != nil {
		return utils.AppError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, payment)
}

func (h *PaymentHandler) GetById(c *fiber.Ctx) error {
	paymentId := uint(c.Locals("inputId").(int))

	payment, err := h.payments.GetById(paymentId)
	if err != nil {
		return utils.AppError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, payment)
}
