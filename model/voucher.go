package model

import "time"

type Voucher struct {
	DTO
	Code          string    `gorm:"unique;not null" json:"code"`
	Description   string    `gorm:"type:text" json:"description"`
	DiscountType  string    `gorm:"not null" json:"discountType"` // fixed | percentage
	DiscountValue float64   `gorm:"type:decimal(12,2);not null" json:"discountValue"`
	MaxDiscount   *float64  `gorm:"column:max_discount_amount" json:"maxDiscountAmount,omitempty"` // chỉ áp dụng cho percentage
	MinOrderValue float64   `gorm:"default:0" json:"minOrderValue"`
	StartDate     time.Time `gorm:"not null" json:"startDate"`
	EndDate       time.Time `gorm:"not null" json:"endDate"`
	UsageLimit    int       `gorm:"default:0" json:"usageLimit"` // 0 = không giới hạn
	UsedCount     int       `gorm:"default:0" json:"usedCount"`
	LimitPerUser  int       `gorm:"default:1" json:"limitPerUser"`
	Type          string    `gorm:"default:'public'" json:"type"`  // public | private | system
	Trigger       string    `gorm:"default:'none'" json:"trigger"` // welcome | loyalty | none
	IsActive      bool      `gorm:"default:true" json:"isActive"`
}

type Vouchers []Voucher

type CreateVoucherInput struct {
	Code          string    `validate:"required" json:"code"`
	Description   string    `json:"description"`
	DiscountType  string    `validate:"required,oneof=fixed percentage" json:"discountType"`
	DiscountValue float64   `validate:"required,gt=0" json:"discountValue"`
	MaxDiscount   *float64  `json:"maxDiscountAmount"`
	MinOrderValue float64   `validate:"gte=0" json:"minOrderValue"`
	StartDate     time.Time `validate:"required" json:"startDate"`
	EndDate       time.Time `validate:"required" json:"endDate"`
	UsageLimit    int       `validate:"gte=0" json:"usageLimit"`
	LimitPerUser  int       `validate:"gte=0" json:"limitPerUser"`
	Type          string    `validate:"required,oneof=public private system" json:"type"`
	Trigger       string    `validate:"omitempty,oneof=welcome loyalty none" json:"trigger"`
}

type ApplyVoucherInput struct {
	Code       string  `validate:"required" json:"code"`
	OrderTotal float64 `validate:"required,gt=0" json:"orderTotal"`
}

type AssignVoucherInput struct {
	CustomerId uint   `validate:"required,gt=0" json:"customerId"`
	Code       string `validate:"required" json:"code"`
}

// VoucherValidation là kết quả kiểm tra voucher, chưa ghi nhận lượt dùng
type VoucherValidation struct {
	IsValid        bool     `json:"isValid"`
	DiscountAmount float64  `json:"discountAmount"`
	Voucher        *Voucher `json:"voucher"`
}
