package domain

import (
	"errors"
	"strings"
	"time"
)

// Status enumerates order progression.
type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusPaid           Status = "PAID"
	StatusCancelled      Status = "CANCELLED"
)

var (
	ErrEmptyOrder        = errors.New("order needs at least one item")
	ErrInvalidProduct    = errors.New("item product id must be greater than zero")
	ErrInvalidQuantity   = errors.New("item quantity must be greater than zero")
	ErrInvalidPrice      = errors.New("item price must not be negative")
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidTransition = errors.New("order status transition not allowed")
)

// Item is one ordered product. Name and unit price are copied at submit time.
type Item struct {
	ProductID      int64
	ProductName    string
	Quantity       int32
	UnitPriceCents int64
}

func (i Item) SubtotalCents() int64 {
	return int64(i.Quantity) * i.UnitPriceCents
}

// Order models a table's purchase.
type Order struct {
	ID         int64
	OrderNo    string
	TableNo    string
	Status     Status
	Items      []Item
	TotalCents int64
	CreatedAt  time.Time
}

// NewOrder validates the items and constructs an order awaiting payment.
func NewOrder(orderNo, tableNo string, items []Item, now time.Time) (*Order, error) {
	order := &Order{
		OrderNo:   orderNo,
		TableNo:   strings.TrimSpace(tableNo),
		Status:    StatusPendingPayment,
		Items:     append([]Item(nil), items...),
		CreatedAt: now.UTC(),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	order.TotalCents = order.computeTotal()
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range o.Items {
		if item.ProductID <= 0 {
			return ErrInvalidProduct
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if item.UnitPriceCents < 0 {
			return ErrInvalidPrice
		}
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (o *Order) computeTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.SubtotalCents()
	}
	return total
}

// Cancel moves a pending order to CANCELLED.
func (o *Order) Cancel() error {
	return o.transition(StatusCancelled)
}

// MarkPaid moves a pending order to PAID.
func (o *Order) MarkPaid() error {
	return o.transition(StatusPaid)
}

func (o *Order) transition(to Status) error {
	if o.Status != StatusPendingPayment {
		return ErrInvalidTransition
	}
	o.Status = to
	return nil
}

// Valid reports whether the status is known.
func (s Status) Valid() bool {
	switch s {
	case StatusPendingPayment, StatusPaid, StatusCancelled:
		return true
	default:
		return false
	}
}

// ParseStatus accepts an empty value as "any".
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if s == "" || s.Valid() {
		return s, nil
	}
	return "", ErrInvalidStatus
}
