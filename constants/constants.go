package constants

// Role
const (
	ROLE_ADMIN    = "ADMIN"
	ROLE_CUSTOMER = "CUSTOMER"
)

// Message chung
const (
	ERROR_INTERNAL_ERROR     = "Lỗi hệ thống, vui lòng thử lại sau"
	ERROR_CREATE             = "Không thể tạo bản ghi"
	MISSING_LOGIN_INPUT      = "Thiếu thông tin đăng nhập"
	INVALID_USERNAME         = "Tài khoản không tồn tại"
	INVALID_PASSWORD         = "Mật khẩu không đúng"
	ACCOUNT_NOT_ACTIVE       = "Tài khoản đã bị khoá"
	CAN_NOT_HASH_PASSWORD    = "Không thể mã hoá mật khẩu"
	DATA_INPUT_IS_NOT_NUMBER = "Dữ liệu đầu vào không phải là số"
)

// Booking status
const (
	BOOKING_PENDING   = "pending"
	BOOKING_CONFIRMED = "confirmed"
	BOOKING_CANCELLED = "cancelled"
	BOOKING_COMPLETED = "completed"
)

// Booking payment status
const (
	PAYMENT_STATUS_PENDING  = "pending"
	PAYMENT_STATUS_PAID     = "paid"
	PAYMENT_STATUS_PARTIAL  = "partial"
	PAYMENT_STATUS_REFUNDED = "refunded"
)

// Payment record status
const (
	PAYMENT_PENDING    = "pending"
	PAYMENT_PROCESSING = "processing"
	PAYMENT_COMPLETED  = "completed"
	PAYMENT_FAILED     = "failed"
	PAYMENT_REFUNDED   = "refunded"
)

// Payment method
const (
	METHOD_MOMO          = "momo"
	METHOD_ATM           = "atm"
	METHOD_CREDIT_CARD   = "credit_card"
	METHOD_BANK_TRANSFER = "bank_transfer"
	METHOD_CASH          = "cash"
)

// Payment type
const (
	PAYMENT_TYPE_FULL = "100%"
	PAYMENT_TYPE_HALF = "50%"
)

// Voucher
const (
	DISCOUNT_FIXED      = "fixed"
	DISCOUNT_PERCENTAGE = "percentage"

	VOUCHER_PUBLIC  = "public"
	VOUCHER_PRIVATE = "private"
	VOUCHER_SYSTEM  = "system"

	TRIGGER_WELCOME = "welcome"
	TRIGGER_LOYALTY = "loyalty"
	TRIGGER_NONE    = "none"
)
