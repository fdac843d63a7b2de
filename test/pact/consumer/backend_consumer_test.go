//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	directory "github.com/Apurer/petcare-booking/internal/clients/http/directory"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
	pacttest "github.com/Apurer/petcare-booking/test/pact"
)

func TestBookingBackendContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.BookingConsumerName,
		Provider: pacttest.BackendProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	order := pacttest.ExampleOrderPayload()
	orderMatcher := matchers.Map{
		"id":           matchers.Like(order["id"]),
		"petId":        matchers.Like(order["petId"]),
		"accountId":    matchers.Like(order["accountId"]),
		"productList":  matchers.EachLike(matchers.Map{"productId": matchers.Like(pacttest.ProductID), "quantity": matchers.Like(1), "sellingPrice": matchers.Like(pacttest.ExamplePrice())}, 1),
		"excutionDate": matchers.Regex(order["excutionDate"].(string), `\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2})?`),
		"status":       matchers.Term("UNPAID", "UNPAID|PAID|COMPLETED|CANCELED"),
		"type":         matchers.Term("CUSTOMERREQUEST", "MANAGERREQUEST|CUSTOMERREQUEST"),
		"staffId":      matchers.Like(pacttest.StaffID),
		"finalAmount":  matchers.Like(pacttest.ExamplePrice()),
		"createdDate":  matchers.Regex(order["createdDate"].(string), `\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2})?`),
	}

	pact.AddInteraction().
		Given(pacttest.StatePetTypesSeeded).
		UponReceiving("a request for pet types").
		WithRequest("GET", "/typePet").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"items": matchers.EachLike(matchers.Map{
				"id":   matchers.Like("dog"),
				"name": matchers.Like("Dog"),
			}, 1)})
		})

	pact.AddInteraction().
		Given(pacttest.StateStaffSeeded).
		UponReceiving("a request for staff accounts").
		WithRequest("GET", "/accounts", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("Role", matchers.S("STAFF"))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"items": matchers.EachLike(matchers.Map{
				"id":       matchers.Like(pacttest.StaffID),
				"fullName": matchers.Like("Pact Groomer"),
				"status":   matchers.Term("ACTIVE", "ACTIVE|INACTIVE"),
			}, 1)})
		})

	pact.AddInteraction().
		Given(pacttest.StateBookingReady).
		UponReceiving("a request to create a customer order").
		WithRequest("POST", "/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"productList":  matchers.EachLike(matchers.Map{"productId": matchers.Like(pacttest.ProductID), "quantity": matchers.Like(1), "sellingPrice": matchers.Like(pacttest.ExamplePrice())}, 1),
				"excutionDate": matchers.Regex(order["excutionDate"].(string), `\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`),
				"note":         matchers.Like(""),
				"description":  matchers.Like(""),
				"type":         matchers.S("CUSTOMERREQUEST"),
				"petId":        matchers.S(pacttest.PetID),
				"accountId":    matchers.S(pacttest.AccountID),
				"staffId":      matchers.S(pacttest.StaffID),
			})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderCanceled).
		UponReceiving("a stale cancel of an order that moved on").
		WithRequest("PUT", "/orders/"+pacttest.OrderID, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"status":         matchers.S("CANCELED"),
				"expectedStatus": matchers.S("UNPAID"),
				"note":           matchers.Like("customer canceled"),
				"description":    matchers.Like(""),
				"staffId":        nil,
			})
		}).
		WillRespondWith(http.StatusConflict, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"message": matchers.Like("order status changed")})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderUnpaid).
		UponReceiving("a request to start a deposit payment").
		WithRequest("POST", "/payments", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"orderId":     matchers.S(pacttest.OrderID),
				"accountId":   matchers.S(pacttest.AccountID),
				"amount":      matchers.Like(30000),
				"paymentType": matchers.S("VNPAY"),
				"callbackUrl": matchers.Like("https://booking.example/payments/callback"),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"orderId":    matchers.Like(pacttest.OrderID),
				"paymentUrl": matchers.Like("https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?vnp_TxnRef=ord-pact"),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		host := config.Host
		if host == "" {
			host = "localhost"
		}
		loc := time.FixedZone("ICT", 7*3600)
		c, err := directory.NewClient(fmt.Sprintf("http://%s:%d", host, config.Port),
			directory.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
			directory.WithLocation(loc))
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		types, err := c.ListPetTypes(ctx)
		if err != nil || len(types) == 0 {
			return fmt.Errorf("list pet types: %v (%d)", err, len(types))
		}
		staff, err := c.ListStaff(ctx)
		if err != nil || len(staff) == 0 {
			return fmt.Errorf("list staff: %v (%d)", err, len(staff))
		}

		price := directory.NewAmount(decimal.NewFromInt(int64(pacttest.ExamplePrice())))
		created, err := c.CreateOrder(ctx, directory.CreateOrderRequest{
			ProductList:  []directory.ProductLine{{ProductID: pacttest.ProductID, Quantity: 1, SellingPrice: price}},
			ExcutionDate: c.FormatLocal(time.Date(2026, 6, 12, 10, 0, 0, 0, loc)),
			Type:         directory.OrderTypeCustomerRequest,
			PetID:        pacttest.PetID,
			AccountID:    pacttest.AccountID,
			StaffID:      directory.OptionalID(pacttest.StaffID),
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if created.ID == "" {
			return fmt.Errorf("expected created order id")
		}

		_, err = c.UpdateOrder(ctx, pacttest.OrderID, directory.UpdateOrderRequest{
			Status: "CANCELED", ExpectedStatus: "UNPAID", Note: "customer canceled",
		})
		if !errors.Is(err, apperr.ErrConflict) {
			return fmt.Errorf("expected 409 on stale cancel, got %v", err)
		}

		payment, err := c.CreatePayment(ctx, directory.PaymentRequest{
			OrderID:     pacttest.OrderID,
			AccountID:   pacttest.AccountID,
			Amount:      directory.NewAmount(decimal.NewFromInt(30000)),
			PaymentType: "VNPAY",
			CallbackURL: "https://booking.example/payments/callback",
		})
		if err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		if payment.PaymentURL == "" {
			return fmt.Errorf("expected payment url")
		}
		return nil
	})
	require.NoError(t, err)
}
