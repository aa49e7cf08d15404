package main

import (
	"log"
	"time"

	"travel_manager/config"
	"travel_manager/database"
	"travel_manager/gateway"
	"travel_manager/handler"
	"travel_manager/router"
	"travel_manager/service"

	"github.com/go-co-op/gocron/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.ConfigOr("CORS_ORIGIN", "http://localhost:5173"),
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))

	database.ConnectDB()

	pricing := service.NewPricingService(database.DB)
	vouchers := service.NewVoucherService(database.DB)
	bookings := service.NewBookingService(database.DB, pricing, vouchers)
	payments := service.NewPaymentService(database.DB, gateway.NewVNPay(), gateway.NewMoMo(), vouchers, handler.RedisClient())

	router.SetupRoutes(app, router.Handlers{
		Auth:    handler.NewAuthHandler(vouchers),
		Booking: handler.NewBookingHandler(bookings),
		Voucher: handler.NewVoucherHandler(vouchers),
		Payment: handler.NewPaymentHandler(payments),
	})

	// Quét payment pending quá hạn mỗi 10 phút
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(payments.ExpireStalePayments),
	)
	if err != nil {
		log.Fatal(err)
	}
	scheduler.Start()
	defer scheduler.Shutdown()

	log.Fatal(app.Listen(":" + config.ConfigOr("PORT", "8002")))
}
