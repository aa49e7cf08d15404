package service

import (
	"testing"

	"travel_manager/apperror"
	"travel_manager/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestComputeBreakdown(t *testing.T) {
	// 2 khách x 2.000.000, thêm 2 dịch vụ 100.000, giảm 50.000
	lines := []model.ServiceLine{
		{ServiceId: 1, Name: "Vé Bà Nà Hills", UnitPrice: 100000, Quantity: 2, Subtotal: 200000},
	}

	breakdown := ComputeBreakdown(2000000, 2, lines, 50000, 0)

	assert.Equal(t, float64(4000000), breakdown.BasePrice)
	assert.Equal(t, float64(200000), breakdown.AdditionalServicesTotal)
	assert.Equal(t, float64(50000), breakdown.DiscountAmount)
	assert.Equal(t, float64(4150000), breakdown.TotalPrice)
}

func TestComputeBreakdownNoServices(t *testing.T) {
	breakdown := ComputeBreakdown(5500000, 3, nil, 0, 0)

	assert.Equal(t, float64(16500000), breakdown.BasePrice)
	assert.Equal(t, float64(0), breakdown.AdditionalServicesTotal)
	assert.Equal(t, float64(16500000), breakdown.TotalPrice)
}

func TestComputeBreakdownClampsDiscount(t *testing.T) {
	// giảm giá lớn hơn tổng đơn → chặn lại, tổng không được âm
	breakdown := ComputeBreakdown(1000000, 1, nil, 9999999, 0)

	assert.Equal(t, float64(1000000), breakdown.DiscountAmount)
	assert.Equal(t, float64(0), breakdown.TotalPrice)
}

func TestResolveServiceInvalidQuantity(t *testing.T) {
	db, _ := newMockDB(t)
	pricing := NewPricingService(db)

	svc, err := pricing.ResolveService(1, model.AdditionalServiceInput{ServiceId: 1, Quantity: 0})
	assert.Nil(t, svc)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.StatusOf(err))
}

func TestResolveServiceNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	pricing := NewPricingService(db)

	mock.ExpectQuery(`SELECT .* FROM "additional_services"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tour_id", "name", "price", "max_quantity", "is_active"}))

	svc, err := pricing.ResolveService(1, model.AdditionalServiceInput{ServiceId: 99, Quantity: 1})
	assert.Nil(t, svc)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.StatusOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveServiceOverMaxQuantity(t *testing.T) {
	db, mock := newMockDB(t)
	pricing := NewPricingService(db)

	mock.ExpectQuery(`SELECT .* FROM "additional_services"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tour_id", "name", "price", "max_quantity", "is_active"}).
			AddRow(2, 1, "Thuê xe máy", 150000.0, 2, true))

	svc, err := pricing.ResolveService(1, model.AdditionalServiceInput{ServiceId: 2, Quantity: 3})
	assert.Nil(t, svc)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.StatusOf(err))
	assert.Contains(t, apperror.MessageOf(err), "Thuê xe máy")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalculateRejectsOversizedGroup(t *testing.T) {
	db, mock := newMockDB(t)
	pricing := NewPricingService(db)

	mock.ExpectQuery(`SELECT .* FROM "tours"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "max_group_size", "is_active"}).
			AddRow(1, "Đà Nẵng - Hội An", 2000000.0, 5, true))

	breakdown, err := pricing.Calculate(1, 10, nil, 0)
	assert.Nil(t, breakdown)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.StatusOf(err))
	assert.Contains(t, apperror.MessageOf(err), "tối đa 5")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalculateRejectsInactiveTour(t *testing.T) {
	db, mock := newMockDB(t)
	pricing := NewPricingService(db)

	mock.ExpectQuery(`SELECT .* FROM "tours"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "max_group_size", "is_active"}).
			AddRow(1, "Đà Nẵng - Hội An", 2000000.0, 20, false))

	breakdown, err := pricing.Calculate(1, 2, nil, 0)
	assert.Nil(t, breakdown)
	require.Error(t, err)
	assert.Contains(t, apperror.MessageOf(err), "không mở bán")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveServiceLinesFreezesPrices(t *testing.T) {
	db, mock := newMockDB(t)
	pricing := NewPricingService(db)

	mock.ExpectQuery(`SELECT .* FROM "additional_services"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tour_id", "name", "price", "max_quantity", "is_active"}).
			AddRow(1, 1, "Vé Bà Nà Hills", 100000.0, nil, true))

	lines, err := pricing.ResolveServiceLines(1, []model.AdditionalServiceInput{
		{ServiceId: 1, Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, float64(100000), lines[0].UnitPrice)
	assert.Equal(t, float64(200000), lines[0].Subtotal)
	assert.NoError(t, mock.ExpectationsWereMet())
}
