package directory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	loc := time.FixedZone("ICT", 7*3600)
	c, err := NewClient(srv.URL+"/api/", WithHTTPClient(srv.Client()), WithLocation(loc))
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ")
	require.Error(t, err)
}

func TestListStaffSendsRoleQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/accounts", r.URL.Path)
		assert.Equal(t, "STAFF", r.URL.Query().Get("Role"))
		_, _ = io.WriteString(w, `{"items":[{"id":"st-1","fullName":"Lan","status":"ACTIVE"}]}`)
	})

	staff, err := c.ListStaff(context.Background())
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "Lan", staff[0].FullName)
}

func TestListOrdersQuery(t *testing.T) {
	cutoff := time.Date(2026, 3, 1, 2, 30, 0, 0, time.UTC)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "acc 1", q.Get("AccountId"))
		assert.Equal(t, "UNPAID", q.Get("Status"))
		assert.Equal(t, "2026-03-01T09:30:00", q.Get("CreatedBefore"))
		_, _ = io.WriteString(w, `{"items":[{"id":"o-1","finalAmount":150000,"productList":[{"productId":"p-1","quantity":1,"sellingPrice":"150000"}]}]}`)
	})

	orders, err := c.ListOrders(context.Background(), OrderQuery{AccountID: "acc 1", Status: "UNPAID", CreatedBefore: cutoff})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].FinalAmount.Equal(decimal.NewFromInt(150000)))
	assert.True(t, orders[0].ProductList[0].SellingPrice.Equal(decimal.NewFromInt(150000)))
}

func TestCreateOrderEncodesAmountsAsNumbers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		line := body["productList"].([]any)[0].(map[string]any)
		assert.Equal(t, float64(99000.5), line["sellingPrice"])
		assert.Nil(t, body["staffId"])
		assert.Equal(t, OrderTypeManagerRequest, body["type"])
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"o-9","status":"UNPAID"}`)
	})

	order, err := c.CreateOrder(context.Background(), CreateOrderRequest{
		ProductList: []ProductLine{{ProductID: "p-1", Quantity: 1, SellingPrice: NewAmount(decimal.RequireFromString("99000.5"))}},
		Type:        OrderTypeManagerRequest,
		StaffID:     OptionalID(" "),
	})
	require.NoError(t, err)
	assert.Equal(t, "o-9", order.ID)
}

func TestUpdateOrderEscapesPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/orders/a%2Fb", r.URL.EscapedPath())
		_, _ = io.WriteString(w, `{"id":"a/b","status":"CANCELED"}`)
	})

	order, err := c.UpdateOrder(context.Background(), "a/b", UpdateOrderRequest{Status: "CANCELED", ExpectedStatus: "UNPAID"})
	require.NoError(t, err)
	assert.Equal(t, "CANCELED", order.Status)
}

func TestStatusCodesMapToAppErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{status: http.StatusNotFound, want: apperr.ErrNotFound},
		{status: http.StatusConflict, want: apperr.ErrConflict},
		{status: http.StatusBadRequest, want: apperr.ErrValidation},
		{status: http.StatusServiceUnavailable, want: apperr.ErrTransientRemote},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"message":"nope"}`)
			})
			_, err := c.GetOrder(context.Background(), "o-1")
			require.ErrorIs(t, err, tt.want)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, "nope", apiErr.Message)
		})
	}
}

func TestNetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	srv.Close()

	_, err = c.ListPetTypes(context.Background())
	require.ErrorIs(t, err, apperr.ErrTransientRemote)
}

func TestParseLocal(t *testing.T) {
	c, err := NewClient("http://backend", WithLocation(time.FixedZone("ICT", 7*3600)))
	require.NoError(t, err)

	got, err := c.ParseLocal("2026-03-02T10:00")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02T03:00:00Z", got.UTC().Format(time.RFC3339))
	assert.Equal(t, "2026-03-02T10:00:00", c.FormatLocal(got))

	_, err = c.ParseLocal("yesterday")
	require.Error(t, err)
}
