package database

import (
	"log"
	"time"

	"travel_manager/constants"
	"travel_manager/model"

	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func parseDate(dateStr string) time.Time {
	t, _ := time.Parse("2006-01-02", dateStr)
	return t
}

func SeedData(db *gorm.DB) {
	bytes, err := bcrypt.GenerateFromPassword([]byte("123456cn"), 10)
	HashPassword := string(bytes)
	if err != nil {
		HashPassword = "123456cn"
	}
	admins := []model.Customer{
		{Email: "admin@saigontravel.vn", Phone: "0900000000", Password: HashPassword, FullName: "Administration", Role: constants.ROLE_ADMIN, IsActive: true},
	}
	for _, admin := range admins {
		if err := db.Where(model.Customer{Email: admin.Email}).FirstOrCreate(&admin).Error; err != nil {
			log.Println("failed to seed data for account:", admin.Email, "error:", err)
		}
	}

	tours := []model.Tour{
		{
			Title:        "Đà Nẵng - Hội An - Bà Nà Hills",
			Destination:  "Đà Nẵng",
			Description:  "Khám phá phố cổ Hội An và cầu Vàng Bà Nà Hills",
			Duration:     "3 ngày 2 đêm",
			Price:        2000000,
			MaxGroupSize: 20,
			IsActive:     true,
			StartDates: []model.TourStartDate{
				{Date: parseDate("2026-09-15")},
				{Date: parseDate("2026-10-01")},
				{Date: parseDate("2026-10-20")},
			},
			AdditionalServices: []model.AdditionalService{
				{Name: "Vé Bà Nà Hills", Description: "Vé cáp treo trọn gói", Price: 100000, Unit: "đ/khách", MaxQuantity: intPtr(20), IsActive: true},
				{Name: "Thuê xe máy", Description: "Xe máy tự lái theo ngày", Price: 150000, Unit: "đ/ngày", MaxQuantity: intPtr(5), IsActive: true},
			},
		},
		{
			Title:        "Phú Quốc - Thiên đường biển đảo",
			Destination:  "Phú Quốc",
			Description:  "Nghỉ dưỡng biển đảo, lặn ngắm san hô",
			Duration:     "4 ngày 3 đêm",
			Price:        5500000,
			MaxGroupSize: 15,
			IsActive:     true,
			StartDates: []model.TourStartDate{
				{Date: parseDate("2026-09-20")},
				{Date: parseDate("2026-10-10")},
			},
			AdditionalServices: []model.AdditionalService{
				{Name: "Tour lặn san hô", Description: "Bao gồm thiết bị lặn", Price: 450000, Unit: "đ/khách", MaxQuantity: intPtr(15), IsActive: true},
			},
		},
	}
	for i := range tours {
		tours[i].Slug = slug.Make(tours[i].Title)
		if err := db.Where(model.Tour{Slug: tours[i].Slug}).FirstOrCreate(&tours[i]).Error; err != nil {
			log.Println("failed to seed data for tour:", tours[i].Title, "error:", err)
		}
	}

	vouchers := []model.Voucher{
		{
			Code:          "WELCOME10",
			Description:   "Giảm 10% cho khách hàng mới",
			DiscountType:  constants.DISCOUNT_PERCENTAGE,
			DiscountValue: 10,
			MaxDiscount:   floatPtr(300000),
			MinOrderValue: 1000000,
			StartDate:     parseDate("2026-01-01"),
			EndDate:       parseDate("2026-12-31"),
			UsageLimit:    1000,
			LimitPerUser:  1,
			Type:          constants.VOUCHER_SYSTEM,
			Trigger:       constants.TRIGGER_WELCOME,
			IsActive:      true,
		},
		{
			Code:          "SUMMER50K",
			Description:   "Giảm 50.000đ cho đơn từ 1 triệu",
			DiscountType:  constants.DISCOUNT_FIXED,
			DiscountValue: 50000,
			MinOrderValue: 1000000,
			StartDate:     parseDate("2026-06-01"),
			EndDate:       parseDate("2026-09-30"),
			UsageLimit:    500,
			LimitPerUser:  1,
			Type:          constants.VOUCHER_PUBLIC,
			Trigger:       constants.TRIGGER_NONE,
			IsActive:      true,
		},
	}
	for _, voucher := range vouchers {
		if err := db.Where(model.Voucher{Code: voucher.Code}).FirstOrCreate(&voucher).Error; err != nil {
			log.Println("failed to seed data for voucher:", voucher.Code, "error:", err)
		}
	}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
