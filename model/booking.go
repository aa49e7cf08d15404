package model

import "time"

type Booking struct {
	DTO
	TourId     uint      `gorm:"not null;index" json:"tourId"`
	Tour       Tour      `gorm:"foreignKey:TourId" json:"tour"`
	CustomerId uint      `gorm:"not null;index" json:"customerId"`
	Customer   Customer  `gorm:"foreignKey:CustomerId" json:"-"`
	StartDate  time.Time `gorm:"not null" json:"startDate"`

	NumberOfPeople int         `gorm:"not null" json:"numberOfPeople"`
	Passengers     []Passenger `gorm:"foreignKey:BookingId" json:"passengers"`

	// Snapshot giá dịch vụ tại thời điểm đặt, không tính lại về sau
	AdditionalServices []BookingAdditionalService `gorm:"foreignKey:BookingId" json:"additionalServices"`

	BasePrice      float64 `gorm:"not null" json:"basePrice"`
	DiscountCode   *string `json:"discountCode,omitempty"`
	DiscountAmount float64 `gorm:"default:0" json:"discountAmount"`
	Surcharge      float64 `gorm:"default:0" json:"surcharge"`
	TotalPrice     float64 `gorm:"not null" json:"totalPrice"`

	PaymentType   string `gorm:"not null" json:"paymentType"`         // 100% | 50%
	Status        string `gorm:"default:'pending'" json:"status"`     // pending | confirmed | cancelled | completed
	PaymentStatus string `gorm:"default:'pending'" json:"paymentStatus"` // pending | paid | partial | refunded
	PaymentMethod *string `json:"paymentMethod,omitempty"`
	PaymentId     *uint   `json:"paymentId,omitempty"`

	CustomerName  string `gorm:"not null" json:"customerName"`
	CustomerEmail string `gorm:"not null" json:"customerEmail"`
	CustomerPhone string `gorm:"not null" json:"customerPhone"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`

	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

type Bookings []Booking

type Passenger struct {
	DTO
	BookingId   uint      `gorm:"not null;index" json:"bookingId"`
	FullName    string    `gorm:"not null" json:"fullName"`
	Gender      string    `gorm:"not null" json:"gender"` // male | female | other
	DateOfBirth time.Time `gorm:"not null" json:"dateOfBirth"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
}

type BookingAdditionalService struct {
	DTO
	BookingId uint              `gorm:"not null;index" json:"bookingId"`
	ServiceId uint              `gorm:"not null" json:"serviceId"`
	Service   AdditionalService `gorm:"foreignKey:ServiceId" json:"service"`
	Quantity  int               `gorm:"not null" json:"quantity"`
	UnitPrice float64           `gorm:"not null" json:"unitPrice"`
	Subtotal  float64           `gorm:"not null" json:"subtotal"`
}

type PassengerInput struct {
	FullName    string    `validate:"required" json:"fullName"`
	Gender      string    `validate:"required,oneof=male female other" json:"gender"`
	DateOfBirth time.Time `validate:"required" json:"dateOfBirth"`
	Email       string    `validate:"omitempty,email" json:"email"`
	Phone       string    `json:"phone"`
}

type AdditionalServiceInput struct {
	ServiceId uint `validate:"required,gt=0" json:"serviceId"`
	Quantity  int  `validate:"required,gte=1" json:"quantity"`
}

type CustomerInfoInput struct {
	FullName string `validate:"required" json:"fullName"`
	Email    string `validate:"required,email" json:"email"`
	Phone    string `validate:"required" json:"phone"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

type CreateBookingInput struct {
	TourId             uint                     `validate:"required,gt=0" json:"tourId"`
	StartDate          time.Time                `validate:"required" json:"startDate"`
	NumberOfPeople     int                      `validate:"required,gte=1" json:"numberOfPeople"`
	Passengers         []PassengerInput         `validate:"required,min=1,dive" json:"passengers"`
	AdditionalServices []AdditionalServiceInput `validate:"omitempty,dive" json:"additionalServices"`
	DiscountCode       *string                  `json:"discountCode"`
	PaymentType        string                   `validate:"required,oneof=100% 50%" json:"paymentType"`
	CustomerInfo       CustomerInfoInput        `validate:"required" json:"customerInfo"`
}

type PreviewPriceInput struct {
	TourId             uint                     `validate:"required,gt=0" json:"tourId"`
	NumberOfPeople     int                      `validate:"required,gte=1" json:"numberOfPeople"`
	AdditionalServices []AdditionalServiceInput `validate:"omitempty,dive" json:"additionalServices"`
	DiscountCode       *string                  `json:"discountCode"`
}

type UpdateBookingStatusInput struct {
	Status string `validate:"required,oneof=pending confirmed cancelled completed" json:"status"`
}

// ServiceLine là một dòng dịch vụ trong bảng giá trả về cho UI
type ServiceLine struct {
	ServiceId uint    `json:"serviceId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// PriceBreakdown là kết quả tính giá đầy đủ, dùng cho cả preview lẫn tạo booking
type PriceBreakdown struct {
	PricePerPerson          float64       `json:"pricePerPerson"`
	BasePrice               float64       `json:"basePrice"`
	AdditionalServicesTotal float64       `json:"additionalServicesTotal"`
	Services                []ServiceLine `json:"services"`
	DiscountAmount          float64       `json:"discountAmount"`
	Surcharge               float64       `json:"surcharge"`
	TotalPrice              float64       `json:"totalPrice"`
}
