package model

import "time"

type Tour struct {
	DTO
	Title        string  `gorm:"not null;index" json:"title"`
	Slug         string  `gorm:"uniqueIndex" json:"slug"`
	Destination  string  `gorm:"not null" json:"destination"`
	Description  string  `gorm:"type:text" json:"description"`
	Duration     string  `json:"duration"` // ví dụ: "3 ngày 2 đêm"
	Price        float64 `gorm:"not null" json:"price"`
	MaxGroupSize int     `gorm:"not null" json:"maxGroupSize"`
	IsActive     bool    `gorm:"default:true" json:"isActive"`

	StartDates         []TourStartDate     `gorm:"foreignKey:TourId" json:"startDates"`
	AdditionalServices []AdditionalService `gorm:"foreignKey:TourId" json:"additionalServices,omitempty"`
}

type Tours []Tour

type TourStartDate struct {
	DTO
	TourId uint      `gorm:"not null;index" json:"tourId"`
	Date   time.Time `gorm:"not null" json:"date"`
}

// AdditionalService là dịch vụ cộng thêm gắn với một tour cụ thể
type AdditionalService struct {
	DTO
	TourId      uint    `gorm:"not null;index" json:"tourId"`
	Tour        Tour    `gorm:"foreignKey:TourId" json:"-"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Unit        string  `gorm:"default:'đ/khách'" json:"unit"`
	MaxQuantity *int    `json:"maxQuantity,omitempty"`
	IsActive    bool    `gorm:"default:true" json:"isActive"`
}
