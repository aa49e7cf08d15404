package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"travel_manager/apperror"
	"travel_manager/constants"
	"travel_manager/gateway"
	"travel_manager/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tour_id", "customer_id", "total_price", "payment_type",
		"status", "payment_status", "customer_name", "customer_email", "discount_code",
	})
}

func TestInitiateRequiresReturnUrlForRedirectMethods(t *testing.T) {
	db, _ := newMockDB(t)
	payments := NewPaymentService(db, nil, nil, nil, nil)

	for _, method := range []string{constants.METHOD_MOMO, constants.METHOD_ATM, constants.METHOD_CREDIT_CARD} {
		result, err := payments.Initiate(model.InitiatePaymentInput{BookingId: 1, Method: method}, "127.0.0.1")
		assert.Nil(t, result)
		require.Error(t, err)
		assert.Equal(t, 400, apperror.StatusOf(err))
	}
}

func TestInitiateRejectsPaidBooking(t *testing.T) {
	db, mock := newMockDB(t)
	payments := NewPaymentService(db, nil, nil, nil, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "bookings"`).WillReturnRows(bookingRows().
		AddRow(7, 1, 1, 4150000.0, "100%", "confirmed", "paid", "Nguyễn Văn A", "a@example.com", nil))
	mock.ExpectRollback()

	result, err := payments.Initiate(model.InitiatePaymentInput{BookingId: 7, Method: constants.METHOD_CASH}, "127.0.0.1")
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, "Booking đã được thanh toán", apperror.MessageOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitiateRejectsWhenActivePaymentExists(t *testing.T) {
	db, mock := newMockDB(t)
	payments := NewPaymentService(db, nil, nil, nil, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "bookings"`).WillReturnRows(bookingRows().
		AddRow(7, 1, 1, 4150000.0, "100%", "pending", "pending", "Nguyễn Văn A", "a@example.com", nil))
	// đã có một payment pending/processing → không cho tạo thêm
	mock.ExpectQuery(`SELECT count\(\*\) FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	result, err := payments.Initiate(model.InitiatePaymentInput{BookingId: 7, Method: constants.METHOD_CASH}, "127.0.0.1")
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, apperror.MessageOf(err), "chưa hoàn tất")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitiateCashHalfPayment(t *testing.T) {
	db, mock := newMockDB(t)
	payments := NewPaymentService(db, nil, nil, nil, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "bookings"`).WillReturnRows(bookingRows().
		AddRow(7, 1, 1, 4150000.0, "50%", "pending", "pending", "Nguyễn Văn A", "a@example.com", nil))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := payments.Initiate(model.InitiatePaymentInput{BookingId: 7, Method: constants.METHOD_CASH}, "127.0.0.1")
	require.NoError(t, err)

	// đặt cọc 50% của 4.150.000
	assert.Equal(t, float64(2075000), result.Payment.Amount)
	assert.Equal(t, constants.PAYMENT_PENDING, result.Payment.Status)
	require.NotNil(t, result.Payment.TransactionId)
	assert.True(t, strings.HasPrefix(*result.Payment.TransactionId, "PAY_"))
	assert.Contains(t, result.Instructions, "văn phòng")

	// hạn thanh toán 48h
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), result.Payment.ExpiresAt, time.Minute)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitiateMarksPaymentFailedWhenGatewayRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(gateway.MoMoCreateResponse{ResultCode: 1006, Message: "Giao dịch bị từ chối"})
	}))
	defer server.Close()

	db, mock := newMockDB(t)
	momo := gateway.NewMoMoWith(gateway.MoMoConfig{
		PartnerCode: "PARTNER",
		AccessKey:   "ACCESS",
		SecretKey:   "SECRET",
		Endpoint:    server.URL,
		IPNURL:      "https://api.example.com/api/v1/payments/momo/ipn",
	})
	payments := NewPaymentService(db, nil, momo, nil, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "bookings"`).WillReturnRows(bookingRows().
		AddRow(7, 1, 1, 4150000.0, "100%", "pending", "pending", "Nguyễn Văn A", "a@example.com", nil))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// cổng từ chối → payment vừa tạo bị đánh fail ngay, booking initiate lại được
	mock.ExpectExec(`UPDATE "payments"`).WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := payments.Initiate(model.InitiatePaymentInput{
		BookingId: 7,
		Method:    constants.METHOD_MOMO,
		ReturnUrl: "https://app.example.com/return",
	}, "127.0.0.1")
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MoMo từ chối giao dịch")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func paymentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "booking_id", "amount", "method", "status", "transaction_id", "expires_at",
	})
}

func TestConfirmManualCascadesToBooking(t *testing.T) {
	db, mock := newMockDB(t)
	payments := NewPaymentService(db, nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT .* FROM "payments"`).WillReturnRows(paymentRows().
		AddRow(11, 7, 4150000.0, "bank_transfer", "pending", "PAY_20260831_AB12CD34", time.Now().Add(48*time.Hour)))
	mock.ExpectQuery(`SELECT .* FROM "bookings"`).WillReturnRows(bookingRows().
		AddRow(7, 1, 1, 4150000.0, "100%", "pending", "pending", "Nguyễn Văn A", "a@example.com", nil))

	// ghi transaction id thủ công
	mock.ExpectExec(`UPDATE "payments"`).WillReturnResult(sqlmock.NewResult(0, 1))

	// cascade: payment completed + booking paid/confirmed trong một transaction
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, err := payments.ConfirmManual(11, model.ConfirmPaymentInput{})
	require.NoError(t, err)

	assert.Equal(t, constants.PAYMENT_COMPLETED, payment.Status)
	assert.NotNil(t, payment.PaymentDate)
	assert.True(t, strings.HasPrefix(*payment.TransactionId, "MANUAL-"))
	assert.Equal(t, constants.PAYMENT_STATUS_PAID, payment.Booking.PaymentStatus)
	assert.Equal(t, constants.BOOKING_CONFIRMED, payment.Booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmManualHalfPaymentGivesPartial(t *testing.T) {
	db, mock := newMockDB(t)
	payments := NewPaymentService(db, nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT .* FROM "payments"`).WillReturnRows(paymentRows().
		AddRow(11, 7, 2075000.0, "cash", "pending", "PAY_20260831_AB12CD34", time.Now().Add(48*time.Hour)))
	mock.ExpectQuery(`SELECT .* FROM "bookings"`).WillReturnRows(bookingRows().
		AddRow(7, 1, 1, 4150000.0, "50%", "pending", "pending", "Nguyễn Văn A", "a@example.com", nil))

	mock.ExpectExec(`UPDATE "payments"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, err := payments.ConfirmManual(11, model.ConfirmPaymentInput{})
	require.NoError(t, err)

	assert.Equal(t, constants.PAYMENT_STATUS_PARTIAL, payment.Booking.PaymentStatus)
	assert.Equal(t, constants.BOOKING_CONFIRMED, payment.Booking.Status)
}

func TestConfirmManualAlreadyCompleted(t *testing.T) {
	db, mock := newMockDB(t)
	payments := NewPaymentService(db, nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT .* FROM "payments"`).WillReturnRows(paymentRows().
		AddRow(11, 7, 4150000.0, "cash", "completed", "MANUAL-1756600000000", time.Now().Add(48*time.Hour)))
	mock.ExpectQuery(`SELECT .* FROM "bookings"`).WillReturnRows(bookingRows().
		AddRow(7, 1, 1, 4150000.0, "100%", "confirmed", "paid", "Nguyễn Văn A", "a@example.com", nil))

	payment, err := payments.ConfirmManual(11, model.ConfirmPaymentInput{})
	assert.Nil(t, payment)
	require.Error(t, err)
	assert.Contains(t, apperror.MessageOf(err), "đã được xác nhận")
}

func TestConfirmManualKeepsCancelledBookingCancelled(t *testing.T) {
	db, mock := newMockDB(t)
	payments := NewPaymentService(db, nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT .* FROM "payments"`).WillReturnRows(paymentRows().
		AddRow(11, 7, 4150000.0, "bank_transfer", "processing", "PAY_20260831_AB12CD34", time.Now().Add(48*time.Hour)))
	mock.ExpectQuery(`SELECT .* FROM "bookings"`).WillReturnRows(bookingRows().
		AddRow(7, 1, 1, 4150000.0, "100%", "cancelled", "pending", "Nguyễn Văn A", "a@example.com", nil))

	mock.ExpectExec(`UPDATE "payments"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments"`).WillReturnResult(sqlmock.NewResult(0, 1))
	// booking đã huỷ → UPDATE có điều kiện không chạm dòng nào
	mock.ExpectExec(`UPDATE "bookings" SET .+ AND status <>`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	payment, err := payments.ConfirmManual(11, model.ConfirmPaymentInput{})
	require.NoError(t, err)

	// tiền đã nhận vẫn ghi completed để đối soát, booking không bị kéo về confirmed
	assert.Equal(t, constants.PAYMENT_COMPLETED, payment.Status)
	assert.Equal(t, constants.BOOKING_CANCELLED, payment.Booking.Status)
	assert.Equal(t, constants.PAYMENT_STATUS_PENDING, payment.Booking.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpireStalePayments(t *testing.T) {
	db, mock := newMockDB(t)
	payments := NewPaymentService(db, nil, nil, nil, nil)

	// quét cả pending lẫn processing bị bỏ giữa chừng
	mock.ExpectExec(`UPDATE "payments" SET .+ WHERE status IN .+ AND expires_at <`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	payments.ExpireStalePayments()
	assert.NoError(t, mock.ExpectationsWereMet())
}
