package gateway

import (
	"crypto/sha512"
	"math"
	"net/url"
	"strconv"
	"time"

	"travel_manager/apperror"
	"travel_manager/config"
)

type VNPayConfig struct {
	TmnCode    string
	HashSecret string
	BaseURL    string
	ReturnURL  string
}

type VNPayRequest struct {
	Amount    float64
	OrderInfo string
	TxnRef    string
	IPAddr    string
	ReturnUrl string
	BankCode  string
}

type VNPayResult struct {
	IsSuccess    bool
	TxnRef       string
	Amount       float64
	ResponseCode string
	Message      string
	RawQuery     string
}

// VNPay Service (ATM / thẻ tín dụng, redirect)
type VNPay struct {
	Config VNPayConfig
	signer *Signer
}

func NewVNPay() *VNPay {
	cfg := VNPayConfig{
		TmnCode:    config.Config("VNP_TMNCODE"),
		HashSecret: config.Config("VNP_HASHSECRET"),
		BaseURL:    config.ConfigOr("VNP_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
		ReturnURL:  config.Config("API_URL") + "/api/v1/payments/vnpay/callback",
	}
	return NewVNPayWith(cfg)
}

func NewVNPayWith(cfg VNPayConfig) *VNPay {
	return &VNPay{
		Config: cfg,
		signer: NewSigner(SortedQueryStrategy{}, sha512.New, cfg.HashSecret),
	}
}

// BuildPaymentUrl tạo URL redirect sang VNPay, đã gắn vnp_SecureHash
func (v *VNPay) BuildPaymentUrl(req VNPayRequest) (string, error) {
	returnUrl := req.ReturnUrl
	if returnUrl == "" {
		returnUrl = v.Config.ReturnURL
	}

	params := map[string]string{
		"vnp_Version":    "2.1.0",
		"vnp_Command":    "pay",
		"vnp_TmnCode":    v.Config.TmnCode,
		"vnp_Amount":     strconv.FormatInt(int64(math.Round(req.Amount))*100, 10), // VND * 100
		"vnp_CreateDate": time.Now().Format("20060102150405"),
		"vnp_CurrCode":   "VND",
		"vnp_IpAddr":     req.IPAddr,
		"vnp_Locale":     "vn",
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  "other",
		"vnp_ReturnUrl":  returnUrl,
		"vnp_TxnRef":     req.TxnRef,
		"vnp_ExpireDate": time.Now().Add(15 * time.Minute).Format("20060102150405"),
	}
	if req.BankCode != "" {
		params["vnp_BankCode"] = req.BankCode
	}

	hash := v.signer.Sign(params)

	values := url.Values{}
	for k, val := range params {
		values.Set(k, val)
	}
	return v.Config.BaseURL + "?" + values.Encode() + "&vnp_SecureHash=" + hash, nil
}

// VerifyCallback xác minh chữ ký trước, chữ ký sai trả lỗi ngay và không đọc gì thêm
func (v *VNPay) VerifyCallback(query url.Values) (*VNPayResult, error) {
	secureHash := query.Get("vnp_SecureHash")
	query.Del("vnp_SecureHash")
	query.Del("vnp_SecureHashType")

	params := map[string]string{}
	for k := range query {
		params[k] = query.Get(k)
	}

	if !v.signer.Verify(params, secureHash) {
		return nil, apperror.BadRequest("Invalid signature")
	}

	result := &VNPayResult{
		TxnRef:       query.Get("vnp_TxnRef"),
		ResponseCode: query.Get("vnp_ResponseCode"),
		RawQuery:     query.Encode(),
	}

	if amount, err := strconv.ParseInt(query.Get("vnp_Amount"), 10, 64); err == nil {
		result.Amount = float64(amount) / 100
	}

	if result.ResponseCode == "00" {
		result.IsSuccess = true
	} else {
		result.Message = "Payment failed"
	}
	return result, nil
}
