package directory

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LocalTimeLayout is the zone-less timestamp format of the backend.
const LocalTimeLayout = "2006-01-02T15:04:05"

var localTimeLayouts = []string{LocalTimeLayout, "2006-01-02T15:04", time.RFC3339Nano}

// Amount is a money value sent as a bare JSON number.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount { return Amount{Decimal: d} }

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

type PetType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Account struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Role     string `json:"role,omitempty"`
	Status   string `json:"status"`
}

type Pet struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Weight    float64 `json:"weight"`
	Age       int     `json:"age"`
	Image     string  `json:"image,omitempty"`
	TypePetID string  `json:"typePetId"`
	AccountID string  `json:"accountId"`
}

type CreatePetRequest struct {
	Name      string  `json:"name"`
	Weight    float64 `json:"weight"`
	Age       int     `json:"age"`
	Image     string  `json:"image"`
	TypePetID string  `json:"typePetId"`
	AccountID string  `json:"accountId"`
}

type ProductLine struct {
	ProductID    string `json:"productId"`
	Quantity     int    `json:"quantity"`
	SellingPrice Amount `json:"sellingPrice"`
}

// Order types as spelled on the wire.
const (
	OrderTypeManagerRequest  = "MANAGERREQUEST"
	OrderTypeCustomerRequest = "CUSTOMERREQUEST"
)

type Order struct {
	ID             string        `json:"id"`
	PetID          string        `json:"petId"`
	AccountID      string        `json:"accountId"`
	ProductList    []ProductLine `json:"productList"`
	ExcutionDate   string        `json:"excutionDate"`
	Status         string        `json:"status"`
	Type           string        `json:"type"`
	StaffID        *string       `json:"staffId"`
	Note           string        `json:"note"`
	Description    string        `json:"description"`
	FinalAmount    Amount        `json:"finalAmount"`
	CreatedDate    string        `json:"createdDate"`
	ChangeConsumed bool          `json:"changeConsumed"`
}

type CreateOrderRequest struct {
	ProductList  []ProductLine `json:"productList"`
	ExcutionDate string        `json:"excutionDate"`
	Note         string        `json:"note"`
	Description  string        `json:"description"`
	Type         string        `json:"type"`
	PetID        string        `json:"petId"`
	AccountID    string        `json:"accountId"`
	StaffID      *string       `json:"staffId"`
}

// UpdateOrderRequest is applied only while the stored status equals
// ExpectedStatus; the backend answers 409 otherwise.
type UpdateOrderRequest struct {
	Status         string  `json:"status"`
	ExpectedStatus string  `json:"expectedStatus,omitempty"`
	Note           string  `json:"note"`
	Description    string  `json:"description"`
	StaffID        *string `json:"staffId"`
}

type ChangeRequest struct {
	OrderID      string  `json:"orderId"`
	Note         string  `json:"note"`
	ExcutionDate string  `json:"excutionDate"`
	StaffID      *string `json:"staffId"`
}

// OrderQuery filters GET /orders. Zero fields are omitted.
type OrderQuery struct {
	AccountID     string
	Status        string
	CreatedBefore time.Time
}

type PaymentRequest struct {
	OrderID     string `json:"orderId"`
	AccountID   string `json:"accountId"`
	Amount      Amount `json:"amount"`
	PaymentType string `json:"paymentType"`
	CallbackURL string `json:"callbackUrl"`
}

type Payment struct {
	OrderID    string `json:"orderId"`
	Amount     Amount `json:"amount"`
	PaymentURL string `json:"paymentUrl"`
}

// OptionalID maps "" to a JSON null.
func OptionalID(id string) *string {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return &id
}

// FormatLocal renders t in the client's zone without an offset.
func (c *Client) FormatLocal(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(c.loc).Format(LocalTimeLayout)
}

// ParseLocal reads a backend timestamp; zone-less values are in the client's zone.
func (c *Client) ParseLocal(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range localTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, c.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
