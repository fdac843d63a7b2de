package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/Apurer/petcare-booking/internal/domains/booking/ports"
)

var _ ports.PaymentGateway = (*SandboxGateway)(nil)

// SandboxGateway hands out fake checkout URLs and records every request.
// It stands in for the remote payment endpoint in local runs and tests.
type SandboxGateway struct {
	mu       sync.Mutex
	baseURL  string
	requests []ports.PaymentRequest
	failures int
}

func NewSandboxGateway(baseURL string) *SandboxGateway {
	if baseURL == "" {
		baseURL = "https://sandbox.vnpayment.local/paymentv2/vpcpay.html"
	}
	return &SandboxGateway{baseURL: baseURL}
}

// FailNext makes the next n initiations fail.
func (g *SandboxGateway) FailNext(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures = n
}

// Requests returns what was asked of the gateway so far.
func (g *SandboxGateway) Requests() []ports.PaymentRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]ports.PaymentRequest(nil), g.requests...)
}

func (g *SandboxGateway) InitiatePayment(_ context.Context, req ports.PaymentRequest) (*ports.PaymentHandle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.failures > 0 {
		g.failures--
		return nil, errors.New("payment gateway declined the request")
	}
	checkout, err := url.Parse(g.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	query := checkout.Query()
	query.Set("vnp_TxnRef", req.OrderID)
	query.Set("vnp_Amount", req.Amount.StringFixed(0))
	query.Set("vnp_ReturnUrl", req.CallbackURL)
	checkout.RawQuery = query.Encode()
	return &ports.PaymentHandle{OrderID: req.OrderID, Amount: req.Amount, PaymentURL: checkout.String()}, nil
}
