//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	bookingserver "github.com/Apurer/petcare-booking/go"
	bookingmemory "github.com/Apurer/petcare-booking/internal/domains/booking/adapters/memory"
	bookingobs "github.com/Apurer/petcare-booking/internal/domains/booking/adapters/observability"
	"github.com/Apurer/petcare-booking/internal/domains/booking/adapters/payment"
	bookingapp "github.com/Apurer/petcare-booking/internal/domains/booking/application"
	"github.com/Apurer/petcare-booking/internal/domains/orders/adapters/events"
	ordermemory "github.com/Apurer/petcare-booking/internal/domains/orders/adapters/memory"
	orderapp "github.com/Apurer/petcare-booking/internal/domains/orders/application"
	orderdomain "github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	petsmemory "github.com/Apurer/petcare-booking/internal/domains/pets/adapters/memory"
	petsapp "github.com/Apurer/petcare-booking/internal/domains/pets/application"
	staffmemory "github.com/Apurer/petcare-booking/internal/domains/staff/adapters/memory"
	staffapp "github.com/Apurer/petcare-booking/internal/domains/staff/application"
	staffdomain "github.com/Apurer/petcare-booking/internal/domains/staff/domain"
	pacttest "github.com/Apurer/petcare-booking/test/pact"
)

func TestBookingProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	reset := func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
		app.reset(t)
		return nil, nil
	}
	verifier := pactprovider.NewVerifier()
	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers: models.StateHandlers{
			pacttest.StateCatalogBaseline: reset,
			pacttest.StateSessionStarted:  reset,
			pacttest.StateOrderMissing:    reset,
			pacttest.StateOrdersBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
				app.reset(t)
				if setup {
					app.seedOrder(t)
				}
				return nil, nil
			},
		},
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds the whole in-memory stack on every reset so
// provider states never leak into each other.
type contractProviderApp struct {
	mu     sync.RWMutex
	router *gin.Engine
	orders *ordermemory.Directory
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	orders := ordermemory.NewDirectory()
	staff := staffapp.NewService(staffmemory.NewDirectory(
		staffdomain.Member{ID: pacttest.StaffID, FullName: "Pact Groomer", Status: staffdomain.StatusActive},
	))
	broadcaster := events.NewBroadcaster(nil)
	lifecycle := orderapp.NewLifecycle(orders, orderapp.WithEventPublisher(broadcaster))
	staging := bookingapp.NewStaging(bookingmemory.NewStagingStore(), time.Now)
	booking := bookingobs.New(bookingapp.NewOrchestrator(bookingapp.Dependencies{
		Staging:  staging,
		Slots:    bookingapp.NewSlotAllocator(time.UTC, time.Now),
		Payments: bookingapp.NewPayments(payment.NewSandboxGateway(""), lifecycle, staging, "http://booking.pact/v1/booking/payments/callback", nil),
		Pets:     petsapp.NewService(petsmemory.NewDirectory()),
		Staff:    staff,
		Orders:   lifecycle,
	}))

	router := gin.New()
	router.Use(gin.Recovery())
	router = bookingserver.NewRouterWithGinEngine(router, bookingserver.ApiHandleFunctions{
		BookingAPI:   bookingserver.NewBookingAPI(booking),
		OrderAPI:     bookingserver.NewOrderAPI(lifecycle, orderapp.NewReschedule(orders, staff, orderapp.WithRescheduleLocation(time.UTC)), broadcaster, time.UTC),
		ReferenceAPI: bookingserver.NewReferenceAPI(booking),
	})

	a.mu.Lock()
	a.router = router
	a.orders = orders
	a.mu.Unlock()
}

func (a *contractProviderApp) seedOrder(t testing.TB) {
	t.Helper()
	price := decimal.NewFromInt(int64(pacttest.ExamplePrice()))
	a.mu.RLock()
	orders := a.orders
	a.mu.RUnlock()
	_, err := orders.CreateOrder(context.Background(), &orderdomain.Order{
		ID:            pacttest.OrderID,
		PetID:         pacttest.PetID,
		AccountID:     pacttest.AccountID,
		Products:      []orderdomain.ProductLine{{ProductID: pacttest.ProductID, Quantity: 1, Price: price}},
		ExecutionDate: time.Now().Add(48 * time.Hour),
		Status:        orderdomain.StatusUnpaid,
		Type:          orderdomain.TypeCustomerRequest,
		StaffID:       pacttest.StaffID,
		FinalAmount:   price,
	})
	require.NoError(t, err)
}
