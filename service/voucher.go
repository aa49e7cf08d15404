package service

import (
	"fmt"
	"log"
	"time"

	"travel_manager/apperror"
	"travel_manager/constants"
	"travel_manager/model"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// VoucherService quản lý vòng đời voucher: kiểm tra, ghi nhận lượt dùng, cấp phát
type VoucherService struct {
	db *gorm.DB
}

func NewVoucherService(db *gorm.DB) *VoucherService {
	return &VoucherService{db: db}
}

// ComputeDiscount tính số tiền giảm của một voucher đã qua kiểm tra điều kiện.
// Voucher percentage bị chặn ở MaxDiscount nếu có đặt.
func ComputeDiscount(voucher *model.Voucher, orderTotal float64) float64 {
	if voucher.DiscountType == constants.DISCOUNT_FIXED {
		return voucher.DiscountValue
	}
	discount := orderTotal * voucher.DiscountValue / 100
	if voucher.MaxDiscount != nil && discount > *voucher.MaxDiscount {
		discount = *voucher.MaxDiscount
	}
	return discount
}

// Validate kiểm tra voucher cho một đơn hàng, KHÔNG ghi nhận lượt dùng.
// Ghi nhận chỉ xảy ra ở RecordUsage sau khi booking có kết quả thanh toán.
func (s *VoucherService) Validate(code string, customerId uint, orderTotal float64) (*model.VoucherValidation, error) {
	var voucher model.Voucher
	if err := s.db.Where("code = ? AND is_active = true", code).First(&voucher).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.BadRequest("Mã giảm giá không hợp lệ")
		}
		return nil, err
	}

	now := time.Now()
	if now.Before(voucher.StartDate) || now.After(voucher.EndDate) {
		return nil, apperror.BadRequest("Mã giảm giá đã hết hạn hoặc chưa có hiệu lực")
	}

	if voucher.UsageLimit > 0 && voucher.UsedCount >= voucher.UsageLimit {
		return nil, apperror.BadRequest("Mã giảm giá đã hết lượt sử dụng")
	}

	if orderTotal < voucher.MinOrderValue {
		return nil, apperror.BadRequest(fmt.Sprintf("Đơn hàng phải đạt tối thiểu %.0f", voucher.MinOrderValue))
	}

	if customerId > 0 && voucher.Type != constants.VOUCHER_PUBLIC {
		var grant model.UserVoucher
		err := s.db.Where("customer_id = ? AND voucher_id = ?", customerId, voucher.ID).First(&grant).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			// voucher system không cần cấp trước, khách nào cũng dùng được
			if voucher.Type == constants.VOUCHER_PRIVATE {
				return nil, apperror.Forbidden("Bạn không sở hữu mã giảm giá này")
			}
		case err != nil:
			return nil, err
		case grant.IsUsed:
			return nil, apperror.BadRequest("Bạn đã sử dụng mã giảm giá này")
		}
	}
	// voucher public: chưa kiểm soát limit_per_user, xem DESIGN.md

	return &model.VoucherValidation{
		IsValid:        true,
		DiscountAmount: ComputeDiscount(&voucher, orderTotal),
		Voucher:        &voucher,
	}, nil
}

// RecordUsage cộng lượt dùng bằng một UPDATE có điều kiện duy nhất:
// không còn lượt thì không có hàng nào bị ảnh hưởng, coi như kiểm tra thất bại.
// Tránh hẳn cửa sổ đua read-then-write giữa hai lần đổi voucher đồng thời.
func (s *VoucherService) RecordUsage(customerId uint, code string) error {
	var voucher model.Voucher
	if err := s.db.Where("code = ?", code).First(&voucher).Error; err != nil {
		return apperror.FromStorage(err, "Không tìm thấy mã giảm giá")
	}

	result := s.db.Model(&model.Voucher{}).
		Where("id = ? AND (usage_limit = 0 OR used_count < usage_limit)", voucher.ID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.BadRequest("Mã giảm giá đã hết lượt sử dụng")
	}

	if customerId > 0 {
		if err := s.db.Model(&model.UserVoucher{}).
			Where("customer_id = ? AND voucher_id = ? AND is_used = false", customerId, voucher.ID).
			Updates(map[string]any{"is_used": true, "used_at": time.Now()}).Error; err != nil {
			return err
		}
	}
	return nil
}

// Assign cấp một voucher private/system cho khách hàng, mỗi khách một lần
func (s *VoucherService) Assign(customerId uint, code string) (*model.UserVoucher, error) {
	var voucher model.Voucher
	if err := s.db.Where("code = ? AND is_active = true", code).First(&voucher).Error; err != nil {
		return nil, apperror.FromStorage(err, "Không tìm thấy mã giảm giá hoặc đã ngưng hoạt động")
	}

	if voucher.Type == constants.VOUCHER_PUBLIC {
		return nil, apperror.BadRequest("Không thể cấp thủ công voucher công khai")
	}

	var existing model.UserVoucher
	if err := s.db.Where("customer_id = ? AND voucher_id = ?", customerId, voucher.ID).First(&existing).Error; err == nil {
		return nil, apperror.BadRequest("Khách hàng đã sở hữu mã giảm giá này")
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	grant := model.UserVoucher{
		CustomerId: customerId,
		VoucherId:  voucher.ID,
		AssignedAt: time.Now(),
	}
	if err := s.db.Create(&grant).Error; err != nil {
		return nil, apperror.FromStorage(err, "")
	}
	grant.Voucher = voucher
	return &grant, nil
}

// AssignWelcomeVoucher cấp voucher chào mừng khi đăng ký, best-effort:
// lỗi ở đây chỉ log, không được làm hỏng việc đăng ký.
// Trả về code đã cấp để đưa vào email chào mừng, "" nếu không cấp được.
func (s *VoucherService) AssignWelcomeVoucher(customerId uint) string {
	var voucher model.Voucher
	if err := s.db.Where("trigger = ? AND is_active = true", constants.TRIGGER_WELCOME).First(&voucher).Error; err != nil {
		return ""
	}
	if _, err := s.Assign(customerId, voucher.Code); err != nil {
		log.Printf("Không cấp được voucher chào mừng cho khách %d: %v", customerId, err)
		return ""
	}
	return voucher.Code
}

// Create tạo voucher mới (admin), trùng code trả Conflict
func (s *VoucherService) Create(input model.CreateVoucherInput) (*model.Voucher, error) {
	var existing model.Voucher
	if err := s.db.Where("code = ?", input.Code).First(&existing).Error; err == nil {
		return nil, apperror.Conflict("Mã giảm giá đã tồn tại")
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	voucher := new(model.Voucher)
	copier.Copy(voucher, &input)
	voucher.IsActive = true
	if voucher.Trigger == "" {
		voucher.Trigger = constants.TRIGGER_NONE
	}
	if err := s.db.Create(voucher).Error; err != nil {
		return nil, apperror.FromStorage(err, "")
	}
	return voucher, nil
}

// MyVouchers liệt kê các voucher đã cấp cho khách hàng
func (s *VoucherService) MyVouchers(customerId uint) ([]model.UserVoucher, error) {
	var grants []model.UserVoucher
	if err := s.db.Preload("Voucher").Where("customer_id = ?", customerId).Order("assigned_at desc").Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}
