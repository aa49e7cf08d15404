package model

import "time"

type Customer struct {
	DTO
	Email    string `gorm:"unique;not null" json:"email"`
	Phone    string `gorm:"not null" json:"phone"`
	Password string `gorm:"not null" json:"-"`
	FullName string `gorm:"not null" json:"fullName"`
	Role     string `gorm:"default:CUSTOMER" json:"role"`

	IsActive bool `gorm:"default:true" json:"isActive"`

	Vouchers []UserVoucher `gorm:"foreignKey:CustomerId" json:"vouchers,omitempty"`
}

type Customers []Customer

type RegisterCustomerInput struct {
	FullName string `validate:"required" json:"fullName"`
	Email    string `validate:"required,email" json:"email"`
	Phone    string `validate:"required" json:"phone"`
	Password string `validate:"required,min=8" json:"password"`
}

type LoginInput struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required" json:"password"`
}

// UserVoucher là bằng chứng sở hữu voucher private/system của một khách hàng
type UserVoucher struct {
	DTO
	CustomerId uint       `gorm:"not null;index" json:"customerId"`
	VoucherId  uint       `gorm:"not null;index" json:"voucherId"`
	Voucher    Voucher    `gorm:"foreignKey:VoucherId" json:"voucher"`
	AssignedAt time.Time  `gorm:"not null" json:"assignedAt"`
	IsUsed     bool       `gorm:"default:false" json:"isUsed"`
	UsedAt     *time.Time `json:"usedAt,omitempty"`
}
