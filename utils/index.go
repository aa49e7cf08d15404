package utils

import (
	"travel_manager/apperror"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	var errMsg interface{}
	if err != nil {
		errMsg = err.Error()
	} else {
		errMsg = nil
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   errMsg,
	})
}

func SuccessResponse(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// AppError dịch lỗi nghiệp vụ từ tầng service sang response HTTP
func AppError(c *fiber.Ctx, err error) error {
	return c.Status(apperror.StatusOf(err)).JSON(fiber.Map{
		"message": apperror.MessageOf(err),
	})
}

func ApplyPagination(query *gorm.DB, limit, page *int) *gorm.DB {
	// Chỉ phân trang khi có đủ limit và page hợp lệ
	if limit != nil && *limit > 0 && page != nil && *page >= 1 {
		query = query.Limit(*limit)
		offset := *limit * (*page - 1)
		query = query.Offset(offset)
	}

	return query
}

func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func Ptr[T any](v T) *T {
	return &v
}
