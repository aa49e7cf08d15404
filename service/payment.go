package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/url"
	"strings"
	"time"

	"travel_manager/apperror"
	"travel_manager/constants"
	"travel_manager/gateway"
	"travel_manager/model"
	"travel_manager/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var redirectMethods = map[string]bool{
	constants.METHOD_MOMO:        true,
	constants.METHOD_ATM:         true,
	constants.METHOD_CREDIT_CARD: true,
}

// PaymentService sở hữu vòng đời Payment và lan truyền kết quả sang Booking
type PaymentService struct {
	db       *gorm.DB
	vnpay    *gateway.VNPay
	momo     *gateway.MoMo
	vouchers *VoucherService
	redis    *redis.Client
}

func NewPaymentService(db *gorm.DB, vnpay *gateway.VNPay, momo *gateway.MoMo, vouchers *VoucherService, redisClient *redis.Client) *PaymentService {
	return &PaymentService{db: db, vnpay: vnpay, momo: momo, vouchers: vouchers, redis: redisClient}
}

func newPaymentCode() string {
	return fmt.Sprintf("PAY_%s_%s", time.Now().Format("20060102"), strings.ToUpper(uuid.New().String()[:8]))
}

// Initiate tạo Payment cho booking rồi đẩy sang cổng tương ứng.
// Tạo Payment nằm trong transaction có khoá booking: hai lần initiate song song
// không thể cùng lách qua guard và sinh hai Payment chưa kết thúc.
func (s *PaymentService) Initiate(input model.InitiatePaymentInput, ipAddr string) (*model.PaymentInitiation, error) {
	if redirectMethods[input.Method] && input.ReturnUrl == "" {
		return nil, apperror.BadRequest("returnUrl là bắt buộc với phương thức thanh toán online")
	}

	var booking model.Booking
	var payment model.Payment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", input.BookingId).Error; err != nil {
			return apperror.FromStorage(err, "Không tìm thấy booking")
		}

		if booking.PaymentStatus == constants.PAYMENT_STATUS_PAID {
			return apperror.BadRequest("Booking đã được thanh toán")
		}

		var active int64
		if err := tx.Model(&model.Payment{}).
			Where("booking_id = ? AND status IN ?", booking.ID,
				[]string{constants.PAYMENT_PENDING, constants.PAYMENT_PROCESSING}).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperror.BadRequest("Booking đang có giao dịch chưa hoàn tất")
		}

		amount := booking.TotalPrice
		if booking.PaymentType == constants.PAYMENT_TYPE_HALF {
			amount = math.Round(booking.TotalPrice * 0.5)
		}

		code := newPaymentCode()
		payment = model.Payment{
			BookingId:     booking.ID,
			Amount:        amount,
			Method:        input.Method,
			Status:        constants.PAYMENT_PENDING,
			TransactionId: &code,
			ExpiresAt:     time.Now().Add(48 * time.Hour),
		}
		payment.BankCode = utils.StringPtr(input.BankCode)
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		return tx.Model(&model.Booking{}).Where("id = ?", booking.ID).
			Updates(map[string]any{"payment_id": payment.ID, "payment_method": input.Method}).Error
	})
	if err != nil {
		return nil, err
	}

	orderInfo := fmt.Sprintf("Thanh toán booking %d", booking.ID)

	switch input.Method {
	case constants.METHOD_MOMO:
		resp, err := s.momo.CreatePayment(gateway.MoMoRequest{
			Amount:    payment.Amount,
			OrderId:   *payment.TransactionId,
			RequestId: *payment.TransactionId,
			OrderInfo: orderInfo,
			ReturnUrl: input.ReturnUrl,
		})
		if err != nil {
			s.abandonDispatch(&payment)
			return nil, err
		}
		raw, _ := json.Marshal(resp)
		s.markProcessing(&payment, string(raw))
		return &model.PaymentInitiation{Payment: &payment, PaymentUrl: resp.PayUrl, QRCode: resp.QRCodeUrl}, nil

	case constants.METHOD_ATM, constants.METHOD_CREDIT_CARD:
		paymentUrl, err := s.vnpay.BuildPaymentUrl(gateway.VNPayRequest{
			Amount:    payment.Amount,
			OrderInfo: orderInfo,
			TxnRef:    *payment.TransactionId,
			IPAddr:    ipAddr,
			ReturnUrl: input.ReturnUrl,
			BankCode:  input.BankCode,
		})
		if err != nil {
			s.abandonDispatch(&payment)
			return nil, apperror.Wrap(apperror.KindBadRequest, "Không tạo được URL thanh toán", err)
		}
		s.markProcessing(&payment, "")
		return &model.PaymentInitiation{Payment: &payment, PaymentUrl: paymentUrl}, nil

	case constants.METHOD_BANK_TRANSFER:
		instructions := s.bankTransferInstructions(&payment)
		qr := ""
		if qrBytes, err := utils.GenerateQRCode(s.bankTransferContent(&payment), 300); err == nil {
			qr = "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrBytes)
		} else {
			log.Printf("Lỗi tạo QR chuyển khoản cho payment %d: %v", payment.ID, err)
		}
		return &model.PaymentInitiation{Payment: &payment, Instructions: instructions, QRCode: qr}, nil

	default: // cash
		return &model.PaymentInitiation{Payment: &payment, Instructions: s.cashInstructions(&payment)}, nil
	}
}

// abandonDispatch đánh fail payment vừa tạo khi cổng từ chối khởi tạo,
// booking có thể initiate lại ngay không phải chờ reaper quét.
func (s *PaymentService) abandonDispatch(payment *model.Payment) {
	if err := s.db.Model(&model.Payment{}).Where("id = ?", payment.ID).
		Update("status", constants.PAYMENT_FAILED).Error; err != nil {
		log.Printf("Lỗi đánh fail payment %d sau khi cổng từ chối: %v", payment.ID, err)
		return
	}
	payment.Status = constants.PAYMENT_FAILED
}

func (s *PaymentService) markProcessing(payment *model.Payment, gatewayResponse string) {
	updates := map[string]any{"status": constants.PAYMENT_PROCESSING}
	if gatewayResponse != "" {
		updates["gateway_response"] = gatewayResponse
	}
	if err := s.db.Model(payment).Updates(updates).Error; err != nil {
		log.Printf("Lỗi cập nhật payment %d sang processing: %v", payment.ID, err)
		return
	}
	payment.Status = constants.PAYMENT_PROCESSING
}

// HandleVNPayCallback xác minh chữ ký trước khi đụng tới DB.
// Chữ ký sai trả BadRequest và không có bất kỳ thay đổi trạng thái nào.
func (s *PaymentService) HandleVNPayCallback(query url.Values) (*model.Payment, error) {
	result, err := s.vnpay.VerifyCallback(query)
	if err != nil {
		return nil, err
	}

	var payment model.Payment
	if err := s.db.Preload("Booking").Where("transaction_id = ?", result.TxnRef).First(&payment).Error; err != nil {
		return nil, apperror.FromStorage(err, "Không tìm thấy giao dịch")
	}

	if payment.Status == constants.PAYMENT_COMPLETED {
		return &payment, nil
	}

	if result.IsSuccess {
		return s.complete(&payment, result.RawQuery)
	}
	return s.fail(&payment, result.RawQuery)
}

// HandleMomoIPN xử lý IPN server-to-server của MoMo, cùng chính sách với VNPay
func (s *PaymentService) HandleMomoIPN(ipn gateway.MoMoIPN) (*model.Payment, error) {
	if err := s.momo.VerifyIPN(ipn); err != nil {
		return nil, err
	}

	var payment model.Payment
	if err := s.db.Preload("Booking").Where("transaction_id = ?", ipn.RequestId).First(&payment).Error; err != nil {
		return nil, apperror.FromStorage(err, "Không tìm thấy giao dịch")
	}

	if payment.Status == constants.PAYMENT_COMPLETED {
		return &payment, nil
	}

	raw, _ := json.Marshal(ipn)
	if ipn.ResultCode == 0 {
		return s.complete(&payment, string(raw))
	}
	return s.fail(&payment, string(raw))
}

// ConfirmManual là đường xác nhận cho bank_transfer/cash, do admin gọi nên
// không cần chữ ký; cascade sang booking giống hệt callback đã xác minh.
func (s *PaymentService) ConfirmManual(paymentId uint, input model.ConfirmPaymentInput) (*model.Payment, error) {
	var payment model.Payment
	if err := s.db.Preload("Booking").First(&payment, "id = ?", paymentId).Error; err != nil {
		return nil, apperror.FromStorage(err, "Không tìm thấy giao dịch")
	}

	if payment.Status == constants.PAYMENT_COMPLETED {
		return nil, apperror.BadRequest("Giao dịch đã được xác nhận trước đó")
	}

	transactionId := fmt.Sprintf("MANUAL-%d", time.Now().UnixMilli())
	if input.TransactionId != nil && *input.TransactionId != "" {
		transactionId = *input.TransactionId
	}

	updates := map[string]any{"transaction_id": transactionId}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if err := s.db.Model(&payment).Omit(clause.Associations).Updates(updates).Error; err != nil {
		return nil, apperror.FromStorage(err, "")
	}
	payment.TransactionId = &transactionId

	return s.complete(&payment, "")
}

// complete chuyển Payment sang completed và lan truyền sang Booking:
// 100% → paid, 50% → partial; booking được confirm trong cùng transaction.
// Booking đã huỷ không bị kéo ngược về confirmed, payment vẫn ghi completed
// để đối soát hoàn tiền.
func (s *PaymentService) complete(payment *model.Payment, gatewayResponse string) (*model.Payment, error) {
	now := time.Now()

	var cascaded bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": constants.PAYMENT_COMPLETED, "payment_date": now}
		if gatewayResponse != "" {
			updates["gateway_response"] = gatewayResponse
		}
		if err := tx.Model(payment).Omit(clause.Associations).Updates(updates).Error; err != nil {
			return err
		}

		paymentStatus := constants.PAYMENT_STATUS_PAID
		if payment.Booking.PaymentType == constants.PAYMENT_TYPE_HALF {
			paymentStatus = constants.PAYMENT_STATUS_PARTIAL
		}
		result := tx.Model(&model.Booking{}).
			Where("id = ? AND status <> ?", payment.BookingId, constants.BOOKING_CANCELLED).
			Updates(map[string]any{"payment_status": paymentStatus, "status": constants.BOOKING_CONFIRMED})
		if result.Error != nil {
			return result.Error
		}
		cascaded = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	payment.Status = constants.PAYMENT_COMPLETED
	payment.PaymentDate = &now

	if !cascaded {
		log.Printf("Payment %d completed nhưng booking %d đã huỷ, cần đối soát hoàn tiền", payment.ID, payment.BookingId)
		return payment, nil
	}

	if payment.Booking.PaymentType == constants.PAYMENT_TYPE_HALF {
		payment.Booking.PaymentStatus = constants.PAYMENT_STATUS_PARTIAL
	} else {
		payment.Booking.PaymentStatus = constants.PAYMENT_STATUS_PAID
	}
	payment.Booking.Status = constants.BOOKING_CONFIRMED

	// Ghi nhận lượt dùng voucher sau khi booking có kết quả thanh toán
	if payment.Booking.DiscountCode != nil {
		if err := s.vouchers.RecordUsage(payment.Booking.CustomerId, *payment.Booking.DiscountCode); err != nil {
			log.Printf("Lỗi ghi nhận voucher %s cho booking %d: %v", *payment.Booking.DiscountCode, payment.BookingId, err)
		}
	}

	s.publishStatus(&payment.Booking)

	utils.SendBookingConfirmationEmail(payment.Booking.CustomerEmail, utils.BookingConfirmationData{
		BookingId:     payment.BookingId,
		CustomerName:  payment.Booking.CustomerName,
		StartDate:     payment.Booking.StartDate.Format("02/01/2006"),
		TotalPrice:    payment.Booking.TotalPrice,
		PaidAmount:    payment.Amount,
		PaymentMethod: payment.Method,
	})

	return payment, nil
}

// fail đánh dấu Payment thất bại, booking giữ nguyên (không tự huỷ)
func (s *PaymentService) fail(payment *model.Payment, gatewayResponse string) (*model.Payment, error) {
	updates := map[string]any{"status": constants.PAYMENT_FAILED}
	if gatewayResponse != "" {
		updates["gateway_response"] = gatewayResponse
	}
	if err := s.db.Model(payment).Omit(clause.Associations).Updates(updates).Error; err != nil {
		return nil, err
	}
	payment.Status = constants.PAYMENT_FAILED
	s.publishStatus(&payment.Booking)
	return payment, nil
}

// publishStatus đẩy trạng thái mới lên kênh Redis cho websocket
func (s *PaymentService) publishStatus(booking *model.Booking) {
	if s.redis == nil {
		return
	}
	payload, _ := json.Marshal(map[string]any{
		"bookingId":     booking.ID,
		"status":        booking.Status,
		"paymentStatus": booking.PaymentStatus,
	})
	if err := s.redis.Publish(context.Background(), fmt.Sprintf("booking:%d", booking.ID), payload).Err(); err != nil {
		log.Printf("Lỗi publish trạng thái booking %d: %v", booking.ID, err)
	}
}

// GetById đọc một giao dịch kèm booking
func (s *PaymentService) GetById(paymentId uint) (*model.Payment, error) {
	var payment model.Payment
	if err := s.db.Preload("Booking").Preload("Booking.Tour").First(&payment, "id = ?", paymentId).Error; err != nil {
		return nil, apperror.FromStorage(err, "Không tìm thấy giao dịch")
	}
	return &payment, nil
}

// ExpireStalePayments quét các payment pending/processing đã quá hạn 48h và đánh fail.
// Payment processing bị bỏ giữa chừng (khách không quay lại từ cổng) cũng phải được
// giải phóng, nếu không booking bị khoá initiate vĩnh viễn. Chạy định kỳ bằng scheduler.
func (s *PaymentService) ExpireStalePayments() {
	result := s.db.Model(&model.Payment{}).
		Where("status IN ? AND expires_at < ?",
			[]string{constants.PAYMENT_PENDING, constants.PAYMENT_PROCESSING}, time.Now()).
		Update("status", constants.PAYMENT_FAILED)
	if result.Error != nil {
		log.Printf("Lỗi quét payment quá hạn: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Đã đánh fail %d payment quá hạn", result.RowsAffected)
	}
}

func (s *PaymentService) bankTransferContent(payment *model.Payment) string {
	return fmt.Sprintf("BOOKING %d - %s - %.0f VND", payment.BookingId, *payment.TransactionId, payment.Amount)
}

func (s *PaymentService) bankTransferInstructions(payment *model.Payment) string {
	return strings.TrimSpace(fmt.Sprintf(`
Thông tin chuyển khoản:
- Ngân hàng: Vietcombank
- Số tài khoản: 1234567890
- Chủ tài khoản: CÔNG TY SAIGON TRAVEL
- Số tiền: %.0f VNĐ
- Nội dung: BOOKING %d - %s

Lưu ý: Sau khi chuyển khoản, vui lòng gửi ảnh chụp biên lai về email hoặc liên hệ hotline để xác nhận thanh toán.`,
		payment.Amount, payment.BookingId, *payment.TransactionId))
}

func (s *PaymentService) cashInstructions(payment *model.Payment) string {
	return strings.TrimSpace(fmt.Sprintf(`
Quý khách vui lòng đến văn phòng Saigon Travel để thanh toán:

- Địa chỉ: 45 Lê Thánh Tôn, Q.1, TP.HCM
- Giờ làm việc: 8:00 - 17:00 (Thứ 2 - Thứ 7)

Số tiền: %.0f VNĐ
Mã giao dịch: %s`,
		payment.Amount, *payment.TransactionId))
}
