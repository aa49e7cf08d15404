package gateway

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"travel_manager/apperror"
	"travel_manager/config"
)

// Thứ tự field ký của MoMo là cố định, không phải sort key
var momoCreateFields = []string{
	"accessKey", "amount", "extraData", "ipnUrl", "orderId",
	"orderInfo", "partnerCode", "redirectUrl", "requestId", "requestType",
}

var momoIPNFields = []string{
	"accessKey", "amount", "extraData", "message", "orderId", "orderInfo",
	"orderType", "partnerCode", "payType", "requestId", "responseTime",
	"resultCode", "transId",
}

type MoMoConfig struct {
	PartnerCode string
	AccessKey   string
	SecretKey   string
	Endpoint    string
	IPNURL      string
}

type MoMoRequest struct {
	Amount    float64
	OrderId   string
	RequestId string
	OrderInfo string
	ReturnUrl string
}

type MoMoCreateResponse struct {
	PartnerCode  string `json:"partnerCode"`
	OrderId      string `json:"orderId"`
	RequestId    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	ResponseTime int64  `json:"responseTime"`
	Message      string `json:"message"`
	ResultCode   int    `json:"resultCode"`
	PayUrl       string `json:"payUrl"`
	QRCodeUrl    string `json:"qrCodeUrl"`
}

type MoMoIPN struct {
	PartnerCode  string `json:"partnerCode"`
	OrderId      string `json:"orderId"`
	RequestId    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransId      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

// MoMo Service (ví điện tử, redirect)
type MoMo struct {
	Config MoMoConfig
	signer *Signer
	client *http.Client
}

func NewMoMo() *MoMo {
	cfg := MoMoConfig{
		PartnerCode: config.Config("MOMO_PARTNER_CODE"),
		AccessKey:   config.Config("MOMO_ACCESS_KEY"),
		SecretKey:   config.Config("MOMO_SECRET_KEY"),
		Endpoint:    config.ConfigOr("MOMO_ENDPOINT", "https://test-payment.momo.vn/v2/gateway/api/create"),
		IPNURL:      config.Config("API_URL") + "/api/v1/payments/momo/ipn",
	}
	return NewMoMoWith(cfg)
}

func NewMoMoWith(cfg MoMoConfig) *MoMo {
	return &MoMo{
		Config: cfg,
		signer: NewSigner(FixedOrderStrategy{Fields: momoCreateFields}, sha256.New, cfg.SecretKey),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// CreatePayment gọi MoMo tạo giao dịch, trả payUrl + qrCodeUrl.
// Không retry: lỗi cổng trả thẳng cho caller để khởi tạo lại.
func (m *MoMo) CreatePayment(req MoMoRequest) (*MoMoCreateResponse, error) {
	amount := strconv.FormatInt(int64(req.Amount), 10)
	params := map[string]string{
		"accessKey":   m.Config.AccessKey,
		"amount":      amount,
		"extraData":   "",
		"ipnUrl":      m.Config.IPNURL,
		"orderId":     req.OrderId,
		"orderInfo":   req.OrderInfo,
		"partnerCode": m.Config.PartnerCode,
		"redirectUrl": req.ReturnUrl,
		"requestId":   req.RequestId,
		"requestType": "captureWallet",
	}
	signature := m.signer.Sign(params)

	body := map[string]any{
		"partnerCode": m.Config.PartnerCode,
		"accessKey":   m.Config.AccessKey,
		"requestId":   req.RequestId,
		"amount":      int64(req.Amount),
		"orderId":     req.OrderId,
		"orderInfo":   req.OrderInfo,
		"redirectUrl": req.ReturnUrl,
		"ipnUrl":      m.Config.IPNURL,
		"extraData":   "",
		"requestType": "captureWallet",
		"signature":   signature,
		"lang":        "vi",
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	resp, err := m.client.Post(m.Config.Endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindBadRequest, "Không gọi được cổng MoMo", err)
	}
	defer resp.Body.Close()

	var result MoMoCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperror.Wrap(apperror.KindBadRequest, "Phản hồi MoMo không hợp lệ", err)
	}

	if result.ResultCode != 0 {
		return nil, apperror.BadRequest(fmt.Sprintf("MoMo từ chối giao dịch: %s", result.Message))
	}
	return &result, nil
}

// VerifyIPN xác minh chữ ký IPN trước khi tin payload
func (m *MoMo) VerifyIPN(ipn MoMoIPN) error {
	params := map[string]string{
		"accessKey":    m.Config.AccessKey,
		"amount":       strconv.FormatInt(ipn.Amount, 10),
		"extraData":    ipn.ExtraData,
		"message":      ipn.Message,
		"orderId":      ipn.OrderId,
		"orderInfo":    ipn.OrderInfo,
		"orderType":    ipn.OrderType,
		"partnerCode":  ipn.PartnerCode,
		"payType":      ipn.PayType,
		"requestId":    ipn.RequestId,
		"responseTime": strconv.FormatInt(ipn.ResponseTime, 10),
		"resultCode":   strconv.Itoa(ipn.ResultCode),
		"transId":      strconv.FormatInt(ipn.TransId, 10),
	}
	verifier := NewSigner(FixedOrderStrategy{Fields: momoIPNFields}, sha256.New, m.Config.SecretKey)
	if !verifier.Verify(params, ipn.Signature) {
		return apperror.BadRequest("Invalid signature")
	}
	return nil
}

// SignIPN ký một payload IPN, dùng cho test và giả lập môi trường sandbox
func (m *MoMo) SignIPN(ipn MoMoIPN) string {
	params := map[string]string{
		"accessKey":    m.Config.AccessKey,
		"amount":       strconv.FormatInt(ipn.Amount, 10),
		"extraData":    ipn.ExtraData,
		"message":      ipn.Message,
		"orderId":      ipn.OrderId,
		"orderInfo":    ipn.OrderInfo,
		"orderType":    ipn.OrderType,
		"partnerCode":  ipn.PartnerCode,
		"payType":      ipn.PayType,
		"requestId":    ipn.RequestId,
		"responseTime": strconv.FormatInt(ipn.ResponseTime, 10),
		"resultCode":   strconv.Itoa(ipn.ResultCode),
		"transId":      strconv.FormatInt(ipn.TransId, 10),
	}
	signer := NewSigner(FixedOrderStrategy{Fields: momoIPNFields}, sha256.New, m.Config.SecretKey)
	return signer.Sign(params)
}
