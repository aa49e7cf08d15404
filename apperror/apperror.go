// Package apperror định nghĩa các loại lỗi nghiệp vụ dùng chung giữa service và handler.
package apperror

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Kind int

const (
	KindBadRequest Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(message string) *Error { return &Error{Kind: KindBadRequest, Message: message} }
func NotFound(message string) *Error   { return &Error{Kind: KindNotFound, Message: message} }
func Forbidden(message string) *Error  { return &Error{Kind: KindForbidden, Message: message} }
func Conflict(message string) *Error   { return &Error{Kind: KindConflict, Message: message} }

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// StatusOf trả về HTTP status tương ứng với lỗi, 500 nếu không phải lỗi nghiệp vụ
func StatusOf(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindForbidden:
		return fiber.StatusForbidden
	case KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}

// MessageOf trả về message nghiệp vụ, che chi tiết lỗi hệ thống
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Lỗi hệ thống, vui lòng thử lại sau"
}

// FromStorage dịch lỗi tầng lưu trữ về lỗi nghiệp vụ gần nhất,
// không để lộ chi tiết driver ra API
func FromStorage(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(notFoundMessage)
	}
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return Conflict("Dữ liệu đã tồn tại")
	}
	return err
}
