//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	pacttest "github.com/Apurer/petcare-booking/test/pact"
)

type petTypePayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
	AccountID string `json:"accountId"`
}

type orderPayload struct {
	OrderID     string `json:"orderId"`
	AccountID   string `json:"accountId"`
	Status      string `json:"status"`
	FinalAmount string `json:"finalAmount"`
	Deposit     string `json:"deposit"`
}

// problem is the RFC 7807 body the API answers failures with.
type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func (p *problem) Error() string {
	return fmt.Sprintf("%d %s: %s", p.Status, p.Title, p.Detail)
}

func TestBookingPortalContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	price := fmt.Sprint(pacttest.ExamplePrice())

	pact.AddInteraction().
		Given(pacttest.StateCatalogBaseline).
		UponReceiving("a request for the pet types").
		WithRequest("GET", "/v1/pet-types").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(matchers.Map{
				"id":   matchers.Like("dog"),
				"name": matchers.Like("Dog"),
			}, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogBaseline).
		UponReceiving("a request to start a booking session").
		WithRequest("POST", "/v1/booking/sessions", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"accountId": matchers.S(pacttest.AccountID)})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"sessionId": matchers.Like("5b0e7a4c-2f7d-4f0f-9a4a-3c1d2e9f8b11"),
				"accountId": matchers.S(pacttest.AccountID),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrdersBaseline).
		UponReceiving("a request for the account's orders").
		WithRequest("GET", "/v1/accounts/"+pacttest.AccountID+"/orders").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(matchers.Map{
				"orderId":     matchers.Like(pacttest.OrderID),
				"accountId":   matchers.S(pacttest.AccountID),
				"status":      matchers.Term("UNPAID", "UNPAID|PAID|COMPLETED|CANCELED"),
				"finalAmount": matchers.Like(price),
				"deposit":     matchers.Like("30000"),
			}, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing order").
		WithRequest("GET", "/v1/orders/"+pacttest.MissingOrderID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newPortalClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var types []petTypePayload
		if err := client.do(ctx, http.MethodGet, "/v1/pet-types", nil, &types); err != nil {
			return fmt.Errorf("list pet types: %w", err)
		}
		if len(types) == 0 || types[0].ID == "" {
			return fmt.Errorf("expected at least one pet type, got %+v", types)
		}

		var session sessionPayload
		if err := client.do(ctx, http.MethodPost, "/v1/booking/sessions", map[string]string{"accountId": pacttest.AccountID}, &session); err != nil {
			return fmt.Errorf("begin session: %w", err)
		}
		if session.SessionID == "" || session.AccountID != pacttest.AccountID {
			return fmt.Errorf("unexpected session %+v", session)
		}

		var orders []orderPayload
		if err := client.do(ctx, http.MethodGet, "/v1/accounts/"+url.PathEscape(pacttest.AccountID)+"/orders", nil, &orders); err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		if len(orders) == 0 || orders[0].AccountID != pacttest.AccountID {
			return fmt.Errorf("unexpected orders %+v", orders)
		}

		var missing *problem
		err := client.do(ctx, http.MethodGet, "/v1/orders/"+pacttest.MissingOrderID, nil, nil)
		if !errors.As(err, &missing) || missing.Status != http.StatusNotFound {
			return fmt.Errorf("expected 404 problem for order %s, got %v", pacttest.MissingOrderID, err)
		}
		return nil
	})
	require.NoError(t, err)
}

type portalClient struct {
	baseURL    string
	httpClient *http.Client
}

func newPortalClient(config pactconsumer.MockServerConfig) *portalClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &portalClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *portalClient) do(ctx context.Context, method, path string, body, out any) error {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		p := &problem{Status: res.StatusCode}
		_ = json.NewDecoder(res.Body).Decode(p)
		return p
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
