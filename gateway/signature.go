package gateway

import (
	"crypto/hmac"
	"encoding/hex"
	"hash"
	"net/url"
	"strings"
)

// SignatureStrategy chuẩn hoá tham số trước khi ký.
// Mỗi cổng thanh toán có một cách chuẩn hoá riêng nên tách thành strategy
// để test độc lập với vector cố định.
type SignatureStrategy interface {
	Canonicalize(params map[string]string) string
}

// SortedQueryStrategy sắp xếp key tăng dần và encode như query string (VNPay)
type SortedQueryStrategy struct{}

func (SortedQueryStrategy) Canonicalize(params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	// url.Values.Encode đã sort key tăng dần
	return values.Encode()
}

// FixedOrderStrategy nối k=v theo đúng thứ tự field cho trước, không encode (MoMo)
type FixedOrderStrategy struct {
	Fields []string
}

func (s FixedOrderStrategy) Canonicalize(params map[string]string) string {
	pairs := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		pairs = append(pairs, field+"="+params[field])
	}
	return strings.Join(pairs, "&")
}

// Signer ký và xác minh HMAC trên tham số đã chuẩn hoá.
// Dùng chung cho chiều đi (ký request) và chiều về (xác minh callback).
type Signer struct {
	strategy SignatureStrategy
	newHash  func() hash.Hash
	secret   []byte
}

func NewSigner(strategy SignatureStrategy, newHash func() hash.Hash, secret string) *Signer {
	return &Signer{strategy: strategy, newHash: newHash, secret: []byte(secret)}
}

func (s *Signer) Sign(params map[string]string) string {
	h := hmac.New(s.newHash, s.secret)
	h.Write([]byte(s.strategy.Canonicalize(params)))
	return hex.EncodeToString(h.Sum(nil))
}

// Verify so sánh constant-time, chữ ký sai không được tạo side effect nào
func (s *Signer) Verify(params map[string]string, signature string) bool {
	expected := s.Sign(params)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
