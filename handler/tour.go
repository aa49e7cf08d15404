package handler

import (
	"errors"

	"travel_manager/database"
	"travel_manager/model"
	"travel_manager/utils"

	"github.com/gofiber/fiber/v2"
)

// GetTours trả danh sách tour đang mở bán, kèm ngày khởi hành
func GetTours(c *fiber.Ctx) error {
	var pagination model.Pagination
	if limit := c.QueryInt("limit", 0); limit > 0 {
		pagination.Limit = utils.Ptr(limit)
	}
	if page := c.QueryInt("page", 0); page > 0 {
		pagination.Page = utils.Ptr(page)
	}

	db := database.DB
	query := db.Model(&model.Tour{}).Where("is_active = true")

	if destination := c.Query("destination"); destination != "" {
		query = query.Where("destination ILIKE ?", "%"+destination+"%")
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn tour", err)
	}

	var tours model.Tours
	query = utils.ApplyPagination(query, pagination.Limit, pagination.Page)
	if err := query.Preload("StartDates").Order("id").Find(&tours).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn tour", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       tours,
		Limit:      pagination.Limit,
		Page:       pagination.Page,
		TotalCount: totalCount,
	})
}

// GetTourBySlug trả chi tiết một tour kèm ngày khởi hành và dịch vụ cộng thêm
func GetTourBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Thiếu slug tour", errors.New("slug empty"))
	}

	var tour model.Tour
	if err := database.DB.
		Preload("StartDates").
		Preload("AdditionalServices", "is_active = true").
		Where("slug = ? AND is_active = true", slug).
		First(&tour).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Không tìm thấy tour", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, tour)
}

// GetTourServices trả danh sách dịch vụ cộng thêm đang mở của một tour
func GetTourServices(c *fiber.Ctx) error {
	tourId := c.Locals("inputId").(int)

	var services []model.AdditionalService
	if err := database.DB.
		Where("tour_id = ? AND is_active = true", tourId).
		Find(&services).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn dịch vụ", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, services)
}
