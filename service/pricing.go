package service

import (
	"fmt"

	"travel_manager/apperror"
	"travel_manager/model"

	"gorm.io/gorm"
)

// PricingService tính giá booking từ tour, số khách, dịch vụ cộng thêm và giảm giá.
// Thuần tính toán + tra cứu, không ghi gì vào DB nên dùng chung cho cả preview.
type PricingService struct {
	db *gorm.DB
}

func NewPricingService(db *gorm.DB) *PricingService {
	return &PricingService{db: db}
}

// ResolveService tra dịch vụ theo tour, chặn dịch vụ ngưng hoạt động và số lượng vượt trần
func (s *PricingService) ResolveService(tourId uint, input model.AdditionalServiceInput) (*model.AdditionalService, error) {
	if input.Quantity < 1 {
		return nil, apperror.BadRequest("Số lượng dịch vụ phải lớn hơn 0")
	}

	var svc model.AdditionalService
	if err := s.db.Where("id = ? AND tour_id = ? AND is_active = true", input.ServiceId, tourId).First(&svc).Error; err != nil {
		return nil, apperror.FromStorage(err, fmt.Sprintf("Không tìm thấy dịch vụ cộng thêm %d", input.ServiceId))
	}

	if svc.MaxQuantity != nil && input.Quantity > *svc.MaxQuantity {
		return nil, apperror.BadRequest(fmt.Sprintf("Số lượng vượt mức tối đa cho dịch vụ %s", svc.Name))
	}
	return &svc, nil
}

// ResolveServiceLines quy đổi danh sách dịch vụ yêu cầu thành các dòng giá đã chốt
func (s *PricingService) ResolveServiceLines(tourId uint, inputs []model.AdditionalServiceInput) ([]model.ServiceLine, error) {
	lines := make([]model.ServiceLine, 0, len(inputs))
	for _, input := range inputs {
		svc, err := s.ResolveService(tourId, input)
		if err != nil {
			return nil, err
		}
		lines = append(lines, model.ServiceLine{
			ServiceId: svc.ID,
			Name:      svc.Name,
			UnitPrice: svc.Price,
			Quantity:  input.Quantity,
			Subtotal:  svc.Price * float64(input.Quantity),
		})
	}
	return lines, nil
}

// ComputeBreakdown ghép các thành phần giá thành bảng giá cuối cùng.
// Giảm giá bị chặn không vượt quá tổng trước giảm nên tổng không bao giờ âm.
func ComputeBreakdown(pricePerPerson float64, numberOfPeople int, lines []model.ServiceLine, discountAmount, surcharge float64) *model.PriceBreakdown {
	basePrice := pricePerPerson * float64(numberOfPeople)

	servicesTotal := 0.0
	for _, line := range lines {
		servicesTotal += line.Subtotal
	}

	if maxDiscount := basePrice + servicesTotal + surcharge; discountAmount > maxDiscount {
		discountAmount = maxDiscount
	}

	return &model.PriceBreakdown{
		PricePerPerson:          pricePerPerson,
		BasePrice:               basePrice,
		AdditionalServicesTotal: servicesTotal,
		Services:                lines,
		DiscountAmount:          discountAmount,
		Surcharge:               surcharge,
		TotalPrice:              basePrice + servicesTotal + surcharge - discountAmount,
	}
}

// Calculate tính bảng giá cho một tour đang mở bán
func (s *PricingService) Calculate(tourId uint, numberOfPeople int, services []model.AdditionalServiceInput, discountAmount float64) (*model.PriceBreakdown, error) {
	var tour model.Tour
	if err := s.db.First(&tour, "id = ?", tourId).Error; err != nil {
		return nil, apperror.FromStorage(err, "Không tìm thấy tour")
	}

	if !tour.IsActive {
		return nil, apperror.BadRequest("Tour hiện không mở bán")
	}

	if numberOfPeople > tour.MaxGroupSize {
		return nil, apperror.BadRequest(fmt.Sprintf("Số khách vượt quá quy mô đoàn tối đa %d", tour.MaxGroupSize))
	}

	lines, err := s.ResolveServiceLines(tourId, services)
	if err != nil {
		return nil, err
	}

	// surcharge luôn bằng 0, chưa có quy tắc tính
	return ComputeBreakdown(tour.Price, numberOfPeople, lines, discountAmount, 0), nil
}
