package model

import "time"

type Payment struct {
	DTO
	BookingId uint    `gorm:"not null;index" json:"bookingId"`
	Booking   Booking `gorm:"foreignKey:BookingId" json:"-"`
	Amount    float64 `gorm:"not null" json:"amount"`
	Method    string  `gorm:"not null" json:"method"`          // momo | atm | credit_card | bank_transfer | cash
	Status    string  `gorm:"default:'pending'" json:"status"` // pending | processing | completed | failed | refunded

	TransactionId *string `gorm:"uniqueIndex" json:"transactionId,omitempty"`

	// Phản hồi thô của cổng thanh toán, chỉ lưu để đối soát
	GatewayResponse *string `gorm:"type:text" json:"gatewayResponse,omitempty"`

	PaymentDate *time.Time `json:"paymentDate,omitempty"`
	ExpiresAt   time.Time  `gorm:"not null" json:"expiresAt"`

	BankCode *string `json:"bankCode,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

type Payments []Payment

type InitiatePaymentInput struct {
	BookingId uint   `validate:"required,gt=0" json:"bookingId"`
	Method    string `validate:"required,oneof=momo atm credit_card bank_transfer cash" json:"method"`
	ReturnUrl string `json:"returnUrl"`
	CancelUrl string `json:"cancelUrl"`
	BankCode  string `json:"bankCode"`
}

type ConfirmPaymentInput struct {
	TransactionId *string `json:"transactionId"`
	Notes         *string `json:"notes"`
}

// PaymentInitiation là kết quả khởi tạo thanh toán trả về cho client
type PaymentInitiation struct {
	Payment      *Payment `json:"payment"`
	PaymentUrl   string   `json:"paymentUrl,omitempty"`
	QRCode       string   `json:"qrCode,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
}
