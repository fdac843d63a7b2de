package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/petcare-booking/internal/domains/booking/domain"
	"github.com/Apurer/petcare-booking/internal/domains/booking/ports"
	ordermapper "github.com/Apurer/petcare-booking/internal/domains/orders/adapters/http/mapper"
	orderdomain "github.com/Apurer/petcare-booking/internal/domains/orders/domain"
)

// LineItem is the HTTP representation of a staged product.
type LineItem struct {
	ProductID    string          `json:"productId"`
	Name         string          `json:"name,omitempty"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	Quantity     int             `json:"quantity"`
}

// Selection is the staged purchase.
type Selection struct {
	Kind        string          `json:"kind"`
	Items       []LineItem      `json:"items"`
	FinalAmount decimal.Decimal `json:"finalAmount"`
}

// Draft echoes the last submitted booking form.
type Draft struct {
	Date           string `json:"date"`
	Time           string `json:"time"`
	StaffMode      string `json:"staffMode"`
	StaffID        string `json:"staffId,omitempty"`
	Note           string `json:"note,omitempty"`
	Description    string `json:"description,omitempty"`
	PendingOrderID string `json:"pendingOrderId,omitempty"`
}

// Session is the HTTP representation of a booking session.
type Session struct {
	SessionID    string          `json:"sessionId"`
	AccountID    string          `json:"accountId"`
	Selection    *Selection      `json:"selection,omitempty"`
	Draft        *Draft          `json:"draft,omitempty"`
	FinalAmount  decimal.Decimal `json:"finalAmount"`
	Deposit      decimal.Decimal `json:"deposit"`
	PendingPetID string          `json:"pendingPetId,omitempty"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Slot is one bookable half hour.
type Slot struct {
	Time       string    `json:"time"`
	Start      time.Time `json:"start"`
	Selectable bool      `json:"selectable"`
}

// Payment is where the customer pays the deposit.
type Payment struct {
	OrderID    string          `json:"orderId"`
	Amount     decimal.Decimal `json:"amount"`
	PaymentURL string          `json:"paymentUrl"`
}

// SubmitResponse is the answer to a booking submission.
type SubmitResponse struct {
	Order   ordermapper.Order `json:"order"`
	Payment *Payment          `json:"payment,omitempty"`
	Reused  bool              `json:"reused"`
}

// PaymentCallbackRequest carries the paid amount; ids come from the query string.
type PaymentCallbackRequest struct {
	Amount decimal.Decimal `json:"amount" form:"amount"`
}

func FromStaging(s *domain.Staging) Session {
	if s == nil {
		return Session{}
	}
	out := Session{
		SessionID:    s.SessionID,
		AccountID:    s.AccountID,
		FinalAmount:  s.FinalAmount,
		Deposit:      orderdomain.Deposit(s.FinalAmount),
		PendingPetID: s.PendingPetID,
		UpdatedAt:    s.UpdatedAt,
	}
	if sel := s.CurrentSelection; sel != nil {
		items := make([]LineItem, 0, len(sel.Items))
		for _, item := range sel.Items {
			items = append(items, LineItem{ProductID: item.ProductID, Name: item.Name, SellingPrice: item.SellingPrice, Quantity: item.Quantity})
		}
		out.Selection = &Selection{Kind: string(sel.Kind), Items: items, FinalAmount: sel.FinalAmount}
	}
	if d := s.BookingDraft; d != nil {
		out.Draft = &Draft{
			Date:           d.Date,
			Time:           d.Time,
			StaffMode:      string(d.StaffMode),
			StaffID:        d.StaffID,
			Note:           d.Note,
			Description:    d.Description,
			PendingOrderID: d.PendingOrderID,
		}
	}
	return out
}

func FromSlots(slots []domain.Slot) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		out = append(out, Slot{Time: s.Label, Start: s.Start, Selectable: s.Selectable})
	}
	return out
}

func FromSubmitResult(res *ports.SubmitResult) SubmitResponse {
	if res == nil {
		return SubmitResponse{}
	}
	out := SubmitResponse{Order: ordermapper.FromDomainOrder(res.Order), Reused: res.Reused}
	if res.Payment != nil {
		out.Payment = &Payment{OrderID: res.Payment.OrderID, Amount: res.Payment.Amount, PaymentURL: res.Payment.PaymentURL}
	}
	return out
}
