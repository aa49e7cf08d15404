package router

import (
	"travel_manager/handler"
	"travel_manager/middleware"
	"travel_manager/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// Handlers gom các handler đã được bơm service, router chỉ nối route
type Handlers struct {
	Auth    *handler.AuthHandler
	Booking *handler.BookingHandler
	Voucher *handler.VoucherHandler
	Payment *handler.PaymentHandler
}

func SetupRoutes(app *fiber.App, h Handlers) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1", logger.New())

	auth := v1.Group("/auth")
	auth.Post("/register", validate.RegisterCustomer(), h.Auth.Register)
	auth.Post("/login", validate.Login(), h.Auth.Login)
	auth.Post("/refresh-token", h.Auth.RefreshToken)
	auth.Get("/me", middleware.Protected(), h.Auth.Me)

	tour := v1.Group("/tours", logger.New())
	tour.Get("/", handler.GetTours)
	tour.Get("/:slug", handler.GetTourBySlug)
	tour.Get("/:tourId/services", validate.GetById("tourId"), handler.GetTourServices)

	booking := v1.Group("/bookings", logger.New())
	booking.Post("/", middleware.Protected(), validate.CreateBooking(), h.Booking.Create)
	booking.Post("/preview-price", middleware.Protected(), validate.PreviewPrice(), h.Booking.PreviewPrice)
	booking.Get("/my-bookings", middleware.Protected(), h.Booking.MyBookings)
	booking.Get("/", middleware.Protected(), middleware.RequireAdmin(), h.Booking.List)
	booking.Get("/:bookingId", middleware.Protected(), validate.GetById("bookingId"), h.Booking.GetById)
	booking.Patch("/:bookingId/cancel", middleware.Protected(), validate.GetById("bookingId"), h.Booking.Cancel)
	booking.Patch("/:bookingId/status", middleware.Protected(), middleware.RequireAdmin(), validate.UpdateBookingStatus("bookingId"), h.Booking.UpdateStatus)

	voucher := v1.Group("/vouchers", logger.New())
	voucher.Post("/", middleware.Protected(), middleware.RequireAdmin(), validate.CreateVoucher(), h.Voucher.Create)
	voucher.Post("/assign", middleware.Protected(), middleware.RequireAdmin(), validate.AssignVoucher(), h.Voucher.Assign)
	voucher.Post("/apply", middleware.Protected(), validate.ApplyVoucher(), h.Voucher.Apply)
	voucher.Get("/my-vouchers", middleware.Protected(), h.Voucher.MyVouchers)

	payment := v1.Group("/payments", logger.New())
	payment.Post("/", middleware.Protected(), validate.InitiatePayment(), h.Payment.Initiate)
	payment.Get("/vnpay/callback", h.Payment.VNPayCallback)
	payment.Post("/momo/ipn", h.Payment.MomoIPN)
	payment.Get("/momo/return", h.Payment.MomoReturn)
	payment.Post("/:paymentId/confirm", middleware.Protected(), middleware.RequireAdmin(), validate.ConfirmPayment("paymentId"), h.Payment.Confirm)
	payment.Get("/:paymentId", middleware.Protected(), validate.GetById("paymentId"), h.Payment.GetById)

	// Websocket theo dõi trạng thái thanh toán của một booking
	ws := v1.Group("/ws")
	ws.Use("/bookings/:id/payments", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	ws.Get("/bookings/:id/payments", websocket.New(handler.PaymentSocket))
}
