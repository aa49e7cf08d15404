package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMoMo(endpoint string) *MoMo {
	return NewMoMoWith(MoMoConfig{
		PartnerCode: "PARTNER",
		AccessKey:   "ACCESS",
		SecretKey:   "SECRET",
		Endpoint:    endpoint,
		IPNURL:      "https://api.example.com/api/v1/payments/momo/ipn",
	})
}

func TestCreatePayment(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(MoMoCreateResponse{
			ResultCode: 0,
			PayUrl:     "https://test-payment.momo.vn/pay/abc",
			QRCodeUrl:  "https://test-payment.momo.vn/qr/abc",
		})
	}))
	defer server.Close()

	momo := testMoMo(server.URL)
	resp, err := momo.CreatePayment(MoMoRequest{
		Amount:    4150000,
		OrderId:   "PAY_20250101_AB12CD34",
		RequestId: "PAY_20250101_AB12CD34",
		OrderInfo: "Thanh toan booking 7",
		ReturnUrl: "https://app.example.com/return",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://test-payment.momo.vn/pay/abc", resp.PayUrl)
	assert.Equal(t, "https://test-payment.momo.vn/qr/abc", resp.QRCodeUrl)

	// amount gửi đi là số, không phải chuỗi
	assert.Equal(t, float64(4150000), received["amount"])
	assert.Equal(t, "captureWallet", received["requestType"])
	assert.NotEmpty(t, received["signature"])
}

func TestCreatePaymentRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(MoMoCreateResponse{
			ResultCode: 1006,
			Message:    "Giao dịch bị từ chối",
		})
	}))
	defer server.Close()

	momo := testMoMo(server.URL)
	resp, err := momo.CreatePayment(MoMoRequest{Amount: 1000, OrderId: "PAY_1", RequestId: "PAY_1"})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MoMo từ chối giao dịch")
}

func TestVerifyIPN(t *testing.T) {
	momo := testMoMo("")
	ipn := MoMoIPN{
		PartnerCode:  "PARTNER",
		OrderId:      "PAY_20250101_AB12CD34",
		RequestId:    "PAY_20250101_AB12CD34",
		Amount:       4150000,
		OrderInfo:    "Thanh toan booking 7",
		OrderType:    "momo_wallet",
		TransId:      123456789,
		ResultCode:   0,
		Message:      "Successful.",
		PayType:      "qr",
		ResponseTime: 1735689600000,
	}
	ipn.Signature = momo.SignIPN(ipn)

	assert.NoError(t, momo.VerifyIPN(ipn))
}

func TestVerifyIPNTampered(t *testing.T) {
	momo := testMoMo("")
	ipn := MoMoIPN{
		PartnerCode:  "PARTNER",
		OrderId:      "PAY_1",
		RequestId:    "PAY_1",
		Amount:       1000000,
		ResultCode:   0,
		ResponseTime: 1735689600000,
	}
	ipn.Signature = momo.SignIPN(ipn)

	// đổi số tiền sau khi ký
	ipn.Amount = 1

	err := momo.VerifyIPN(ipn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid signature")
}
