package service

import (
	"testing"
	"time"

	"travel_manager/apperror"
	"travel_manager/constants"
	"travel_manager/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{constants.BOOKING_PENDING, constants.BOOKING_CONFIRMED, true},
		{constants.BOOKING_PENDING, constants.BOOKING_CANCELLED, true},
		{constants.BOOKING_PENDING, constants.BOOKING_COMPLETED, false},
		{constants.BOOKING_CONFIRMED, constants.BOOKING_CANCELLED, true},
		{constants.BOOKING_CONFIRMED, constants.BOOKING_COMPLETED, true},
		{constants.BOOKING_CONFIRMED, constants.BOOKING_PENDING, false},
		{constants.BOOKING_CANCELLED, constants.BOOKING_CONFIRMED, false},
		{constants.BOOKING_COMPLETED, constants.BOOKING_CANCELLED, false},
		{constants.BOOKING_PENDING, constants.BOOKING_PENDING, false},
		{"unknown", constants.BOOKING_CONFIRMED, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestSameCalendarDay(t *testing.T) {
	morning := time.Date(2026, 9, 15, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 9, 15, 22, 30, 0, 0, time.UTC)
	nextDay := time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)

	assert.True(t, sameCalendarDay(morning, evening))
	assert.False(t, sameCalendarDay(morning, nextDay))
}

func newBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewBookingService(db, NewPricingService(db), NewVoucherService(db)), mock
}

func tourRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "slug", "price", "max_group_size", "is_active"})
}

func startDateRows(tourId uint, date time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "tour_id", "date"}).AddRow(1, tourId, date)
}

func TestCreateRejectsOversizedGroup(t *testing.T) {
	bookings, mock := newBookingService(t)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM "tours"`).WillReturnRows(tourRows().
		AddRow(1, "Đà Nẵng - Hội An", "da-nang-hoi-an", 2000000.0, 5, true))
	mock.ExpectQuery(`SELECT .* FROM "tour_start_dates"`).WillReturnRows(startDateRows(1, start))

	booking, err := bookings.Create(1, model.CreateBookingInput{
		TourId:         1,
		StartDate:      start,
		NumberOfPeople: 6,
		PaymentType:    constants.PAYMENT_TYPE_FULL,
	})
	assert.Nil(t, booking)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.StatusOf(err))
	assert.Contains(t, apperror.MessageOf(err), "tối đa 5")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsPassengerCountMismatch(t *testing.T) {
	bookings, mock := newBookingService(t)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM "tours"`).WillReturnRows(tourRows().
		AddRow(1, "Đà Nẵng - Hội An", "da-nang-hoi-an", 2000000.0, 20, true))
	mock.ExpectQuery(`SELECT .* FROM "tour_start_dates"`).WillReturnRows(startDateRows(1, start))

	// khai 2 khách nhưng chỉ gửi 1 hành khách
	booking, err := bookings.Create(1, model.CreateBookingInput{
		TourId:         1,
		StartDate:      start,
		NumberOfPeople: 2,
		Passengers: []model.PassengerInput{
			{FullName: "Nguyễn Văn A", Gender: "male"},
		},
		PaymentType: constants.PAYMENT_TYPE_FULL,
	})
	assert.Nil(t, booking)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.StatusOf(err))
	assert.Contains(t, apperror.MessageOf(err), "hành khách")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func cancelBookingRows(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "customer_id", "status", "payment_status", "total_price"}).
		AddRow(7, 1, status, "pending", 4150000.0)
}

func TestCancelRejectsAlreadyCancelled(t *testing.T) {
	bookings, mock := newBookingService(t)

	mock.ExpectQuery(`SELECT .* FROM "bookings"`).WillReturnRows(cancelBookingRows(constants.BOOKING_CANCELLED))

	booking, err := bookings.Cancel(7, 1)
	assert.Nil(t, booking)
	require.Error(t, err)
	assert.Contains(t, apperror.MessageOf(err), "đã bị huỷ")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelRejectsCompletedBooking(t *testing.T) {
	bookings, mock := newBookingService(t)

	mock.ExpectQuery(`SELECT .* FROM "bookings"`).WillReturnRows(cancelBookingRows(constants.BOOKING_COMPLETED))

	booking, err := bookings.Cancel(7, 1)
	assert.Nil(t, booking)
	require.Error(t, err)
	assert.Contains(t, apperror.MessageOf(err), "hoàn thành")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelOwnerSucceeds(t *testing.T) {
	bookings, mock := newBookingService(t)

	mock.ExpectQuery(`SELECT .* FROM "bookings"`).WillReturnRows(cancelBookingRows(constants.BOOKING_PENDING))
	// UPDATE có điều kiện trên status, chạm đúng một dòng
	mock.ExpectExec(`UPDATE "bookings" SET .+ AND status IN`).WillReturnResult(sqlmock.NewResult(0, 1))

	booking, err := bookings.Cancel(7, 1)
	require.NoError(t, err)
	assert.Equal(t, constants.BOOKING_CANCELLED, booking.Status)
	require.NotNil(t, booking.CancelledAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelLosesRaceWhenStatusJustChanged(t *testing.T) {
	bookings, mock := newBookingService(t)

	mock.ExpectQuery(`SELECT .* FROM "bookings"`).WillReturnRows(cancelBookingRows(constants.BOOKING_PENDING))
	// một callback thanh toán chen ngang đổi trạng thái → UPDATE không chạm dòng nào
	mock.ExpectExec(`UPDATE "bookings" SET .+ AND status IN`).WillReturnResult(sqlmock.NewResult(0, 0))

	booking, err := bookings.Cancel(7, 1)
	assert.Nil(t, booking)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.StatusOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
