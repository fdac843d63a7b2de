package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// SelectionKind tells a single purchase apart from a cart checkout.
type SelectionKind string

const (
	SelectionSingle SelectionKind = "single"
	SelectionCart   SelectionKind = "cart"
)

var (
	ErrMissingProduct = errors.New("product id is required")
	ErrInvalidPrice   = errors.New("selling price must be greater than zero")
	ErrItemNotFound   = errors.New("cart item not found")
	ErrEmptySelection = errors.New("nothing has been selected")
)

// LineItem is a product staged for purchase.
type LineItem struct {
	ProductID    string
	Name         string
	SellingPrice decimal.Decimal
	Quantity     int
}

// Selection is the staged purchase: one service or combo, or a cart.
type Selection struct {
	Kind        SelectionKind
	Items       []LineItem
	FinalAmount decimal.Decimal
}

// NewSingleSelection stages one service or combo.
func NewSingleSelection(item LineItem) (*Selection, error) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if err := item.validate(); err != nil {
		return nil, err
	}
	s := &Selection{Kind: SelectionSingle, Items: []LineItem{item}}
	s.recompute()
	return s, nil
}

// AddItem puts item in the cart, replacing an entry for the same product.
// A single selection becomes a cart.
func (s *Selection) AddItem(item LineItem) error {
	item.Quantity = 1
	if err := item.validate(); err != nil {
		return err
	}
	s.Kind = SelectionCart
	for i := range s.Items {
		if s.Items[i].ProductID == item.ProductID {
			s.Items[i] = item
			s.recompute()
			return nil
		}
	}
	s.Items = append(s.Items, item)
	s.recompute()
	return nil
}

// RemoveItem drops a product from the cart.
func (s *Selection) RemoveItem(productID string) error {
	for i := range s.Items {
		if s.Items[i].ProductID == productID {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			s.recompute()
			return nil
		}
	}
	return ErrItemNotFound
}

// Empty reports whether nothing is staged.
func (s *Selection) Empty() bool {
	return s == nil || len(s.Items) == 0
}

// OrderLines lists what is sent to the order directory.
// Cart lines always carry quantity 1.
func (s *Selection) OrderLines() []LineItem {
	lines := make([]LineItem, 0, len(s.Items))
	for _, item := range s.Items {
		if s.Kind == SelectionCart {
			item.Quantity = 1
		}
		lines = append(lines, item)
	}
	return lines
}

// Clone returns a deep copy.
func (s *Selection) Clone() *Selection {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Items = append([]LineItem(nil), s.Items...)
	return &clone
}

func (s *Selection) recompute() {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.SellingPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	s.FinalAmount = total
}

func (i LineItem) validate() error {
	if strings.TrimSpace(i.ProductID) == "" {
		return ErrMissingProduct
	}
	if !i.SellingPrice.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}
