package service

import (
	"fmt"
	"time"

	"travel_manager/apperror"
	"travel_manager/constants"
	"travel_manager/model"
	"travel_manager/utils"

	"gorm.io/gorm"
)

// bookingTransitions là bảng chuyển trạng thái cho phép.
// cancelled và completed là trạng thái cuối, không đi tiếp được.
var bookingTransitions = map[string][]string{
	constants.BOOKING_PENDING:   {constants.BOOKING_CONFIRMED, constants.BOOKING_CANCELLED},
	constants.BOOKING_CONFIRMED: {constants.BOOKING_CANCELLED, constants.BOOKING_COMPLETED},
	constants.BOOKING_CANCELLED: {},
	constants.BOOKING_COMPLETED: {},
}

// CanTransition kiểm tra cặp (trạng thái hiện tại, trạng thái yêu cầu) có hợp lệ không
func CanTransition(from, to string) bool {
	for _, allowed := range bookingTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// BookingService sở hữu vòng đời booking: tạo với giá chốt, chuyển trạng thái, huỷ
type BookingService struct {
	db       *gorm.DB
	pricing  *PricingService
	vouchers *VoucherService
}

func NewBookingService(db *gorm.DB, pricing *PricingService, vouchers *VoucherService) *BookingService {
	return &BookingService{db: db, pricing: pricing, vouchers: vouchers}
}

// sameCalendarDay so theo ngày, bỏ qua giờ để chấp nhận lệch múi giờ từ client
func sameCalendarDay(a, b time.Time) bool {
	return a.UTC().Format("2006-01-02") == b.UTC().Format("2006-01-02")
}

// resolveDiscount tính giảm giá từ voucher. Voucher lỗi không chặn checkout,
// booking vẫn đi tiếp với giảm giá 0 (caller ở API quyết định có coi là fatal không).
func (s *BookingService) resolveDiscount(code *string, customerId uint, orderTotal float64) (float64, *string) {
	if code == nil || *code == "" {
		return 0, nil
	}
	validation, err := s.vouchers.Validate(*code, customerId, orderTotal)
	if err != nil {
		return 0, nil
	}
	return validation.DiscountAmount, code
}

// Create tạo booking mới với toàn bộ giá chốt tại thời điểm đặt
func (s *BookingService) Create(customerId uint, input model.CreateBookingInput) (*model.Booking, error) {
	var tour model.Tour
	if err := s.db.Preload("StartDates").First(&tour, "id = ?", input.TourId).Error; err != nil {
		return nil, apperror.FromStorage(err, "Không tìm thấy tour")
	}

	if !tour.IsActive {
		return nil, apperror.BadRequest("Tour hiện không mở bán")
	}

	validDate := false
	for _, sd := range tour.StartDates {
		if sameCalendarDay(sd.Date, input.StartDate) {
			validDate = true
			break
		}
	}
	if !validDate {
		return nil, apperror.BadRequest("Ngày khởi hành không hợp lệ cho tour này")
	}

	if input.NumberOfPeople > tour.MaxGroupSize {
		return nil, apperror.BadRequest(fmt.Sprintf("Số khách vượt quá quy mô đoàn tối đa %d", tour.MaxGroupSize))
	}

	if len(input.Passengers) != input.NumberOfPeople {
		return nil, apperror.BadRequest("Số hành khách phải khớp với số khách đã khai")
	}

	lines, err := s.pricing.ResolveServiceLines(tour.ID, input.AdditionalServices)
	if err != nil {
		return nil, err
	}

	subtotal := tour.Price * float64(input.NumberOfPeople)
	for _, line := range lines {
		subtotal += line.Subtotal
	}
	discountAmount, discountCode := s.resolveDiscount(input.DiscountCode, customerId, subtotal)

	breakdown := ComputeBreakdown(tour.Price, input.NumberOfPeople, lines, discountAmount, 0)

	booking := model.Booking{
		TourId:         tour.ID,
		CustomerId:     customerId,
		StartDate:      input.StartDate,
		NumberOfPeople: input.NumberOfPeople,
		BasePrice:      breakdown.BasePrice,
		DiscountCode:   discountCode,
		DiscountAmount: breakdown.DiscountAmount,
		Surcharge:      breakdown.Surcharge,
		TotalPrice:     breakdown.TotalPrice,
		PaymentType:    input.PaymentType,
		Status:         constants.BOOKING_PENDING,
		PaymentStatus:  constants.PAYMENT_STATUS_PENDING,
		CustomerName:   input.CustomerInfo.FullName,
		CustomerEmail:  input.CustomerInfo.Email,
		CustomerPhone:  input.CustomerInfo.Phone,
		Address:        input.CustomerInfo.Address,
		Notes:          input.CustomerInfo.Notes,
	}

	for _, p := range input.Passengers {
		booking.Passengers = append(booking.Passengers, model.Passenger{
			FullName:    p.FullName,
			Gender:      p.Gender,
			DateOfBirth: p.DateOfBirth,
			Email:       p.Email,
			Phone:       p.Phone,
		})
	}

	for _, line := range lines {
		booking.AdditionalServices = append(booking.AdditionalServices, model.BookingAdditionalService{
			ServiceId: line.ServiceId,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		})
	}

	if err := s.db.Create(&booking).Error; err != nil {
		return nil, apperror.FromStorage(err, "")
	}

	booking.Tour = tour
	return &booking, nil
}

// PreviewPrice tính bảng giá không tạo bản ghi nào
func (s *BookingService) PreviewPrice(customerId uint, input model.PreviewPriceInput) (*model.PriceBreakdown, error) {
	breakdown, err := s.pricing.Calculate(input.TourId, input.NumberOfPeople, input.AdditionalServices, 0)
	if err != nil {
		return nil, err
	}

	discountAmount, _ := s.resolveDiscount(input.DiscountCode, customerId, breakdown.TotalPrice)
	if discountAmount > 0 {
		breakdown = ComputeBreakdown(breakdown.PricePerPerson, input.NumberOfPeople, breakdown.Services, discountAmount, breakdown.Surcharge)
	}
	return breakdown, nil
}

// UpdateStatus chuyển trạng thái theo bảng chuyển, cặp không hợp lệ trả BadRequest
func (s *BookingService) UpdateStatus(bookingId uint, status string) (*model.Booking, error) {
	var booking model.Booking
	if err := s.db.First(&booking, "id = ?", bookingId).Error; err != nil {
		return nil, apperror.FromStorage(err, "Không tìm thấy booking")
	}

	if !CanTransition(booking.Status, status) {
		return nil, apperror.BadRequest(fmt.Sprintf("Không thể chuyển booking từ %s sang %s", booking.Status, status))
	}

	if err := s.db.Model(&booking).Update("status", status).Error; err != nil {
		return nil, err
	}
	booking.Status = status
	return &booking, nil
}

// Cancel huỷ booking của chính chủ. UPDATE có điều kiện trên status để một callback
// thanh toán chạy song song không bị ghi đè mù.
func (s *BookingService) Cancel(bookingId, customerId uint) (*model.Booking, error) {
	var booking model.Booking
	if err := s.db.Where("id = ? AND customer_id = ?", bookingId, customerId).First(&booking).Error; err != nil {
		return nil, apperror.FromStorage(err, "Không tìm thấy booking")
	}

	if booking.Status == constants.BOOKING_CANCELLED {
		return nil, apperror.BadRequest("Booking đã bị huỷ trước đó")
	}
	if booking.Status == constants.BOOKING_COMPLETED {
		return nil, apperror.BadRequest("Không thể huỷ booking đã hoàn thành")
	}

	now := time.Now()
	result := s.db.Model(&model.Booking{}).
		Where("id = ? AND customer_id = ? AND status IN ?", bookingId, customerId,
			[]string{constants.BOOKING_PENDING, constants.BOOKING_CONFIRMED}).
		Updates(map[string]any{"status": constants.BOOKING_CANCELLED, "cancelled_at": now})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperror.BadRequest("Booking vừa đổi trạng thái, không thể huỷ")
	}

	booking.Status = constants.BOOKING_CANCELLED
	booking.CancelledAt = &now
	return &booking, nil
}

// GetById đọc một booking, giới hạn theo chủ sở hữu nếu không phải admin
func (s *BookingService) GetById(bookingId uint, customerId *uint) (*model.Booking, error) {
	query := s.db.Preload("Tour").Preload("Passengers").Preload("AdditionalServices").Preload("AdditionalServices.Service")
	if customerId != nil {
		query = query.Where("customer_id = ?", *customerId)
	}

	var booking model.Booking
	if err := query.First(&booking, "bookings.id = ?", bookingId).Error; err != nil {
		return nil, apperror.FromStorage(err, "Không tìm thấy booking")
	}
	return &booking, nil
}

// ListByCustomer liệt kê booking của một khách hàng, mới nhất trước
func (s *BookingService) ListByCustomer(customerId uint) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := s.db.Preload("Tour").Where("customer_id = ?", customerId).Order("created_at desc").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// List cho admin, lọc theo trạng thái và phân trang
func (s *BookingService) List(status string, pagination model.Pagination) (*model.ResponseCustom, error) {
	query := s.db.Model(&model.Booking{}).Preload("Tour")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var bookings []model.Booking
	if err := utils.ApplyPagination(query, pagination.Limit, pagination.Page).Order("created_at desc").Find(&bookings).Error; err != nil {
		return nil, err
	}

	return &model.ResponseCustom{
		Rows:       bookings,
		Limit:      pagination.Limit,
		Page:       pagination.Page,
		TotalCount: total,
	}, nil
}
