//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// The booking service consumes the pet-care backend and is itself consumed by
// the customer portal.
const (
	BackendProviderName = "petcare-backend"
	BookingConsumerName = "petcare-booking"

	ProviderName = "petcare-booking-api"
	ConsumerName = "petcare-portal"
)

// Backend provider states.
const (
	StatePetTypesSeeded = "pet types are seeded"
	StateStaffSeeded    = "staff accounts exist"
	StateBookingReady   = "account acc-pact owns pet pet-pact"
	StateOrderCanceled  = "order ord-pact is already canceled"
	StateOrderUnpaid    = "order ord-pact is unpaid"
)

// Booking API provider states.
const (
	StateCatalogBaseline = "catalog baseline"
	StateSessionStarted  = "booking session exists"
	StateOrdersBaseline  = "account has orders"
	StateOrderMissing    = "no order with id ghost-order"
)

const (
	AccountID      = "acc-pact"
	PetID          = "pet-pact"
	StaffID        = "staff-pact"
	OrderID        = "ord-pact"
	MissingOrderID = "ghost-order"
	ProductID      = "svc-bath"
)

const (
	examplePrice     = 150000
	exampleExecution = "2026-06-12T10:00:00"
	exampleCreated   = "2026-06-11T09:00:00"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the pact file the portal consumer writes for the booking API.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExamplePetTypePayload is a pet type as the backend lists it.
func ExamplePetTypePayload() map[string]any {
	return map[string]any{"id": "dog", "name": "Dog"}
}

// ExampleStaffPayload is a STAFF account as the backend lists it.
func ExampleStaffPayload() map[string]any {
	return map[string]any{"id": StaffID, "fullName": "Pact Groomer", "status": "ACTIVE"}
}

// ExampleOrderPayload is an unpaid customer order as the backend returns it.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"id":        OrderID,
		"petId":     PetID,
		"accountId": AccountID,
		"productList": []map[string]any{
			{"productId": ProductID, "quantity": 1, "sellingPrice": examplePrice},
		},
		"excutionDate":   exampleExecution,
		"status":         "UNPAID",
		"type":           "CUSTOMERREQUEST",
		"staffId":        StaffID,
		"note":           "",
		"description":    "",
		"finalAmount":    examplePrice,
		"createdDate":    exampleCreated,
		"changeConsumed": false,
	}
}

// ExamplePrice is the selling price used across interactions.
func ExamplePrice() int { return examplePrice }

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
