package domain

import (
	"errors"
	"strings"
	"time"
)

// Method is how the customer paid.
type Method string

const (
	MethodCash    Method = "CASH"
	MethodCard    Method = "CARD"
	MethodLinePay Method = "LINE_PAY"
)

// Status enumerates payment progression.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

var (
	ErrInvalidOrder      = errors.New("order id must be greater than zero")
	ErrInvalidAmount     = errors.New("amount must not be negative")
	ErrInvalidMethod     = errors.New("payment method is invalid")
	ErrInvalidTransition = errors.New("payment status transition not allowed")
)

// Payment settles one order.
type Payment struct {
	ID          int64
	OrderID     int64
	AmountCents int64
	Method      Method
	Status      Status
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// NewPendingPayment opens a payment awaiting settlement. The method is chosen
// when the payment completes.
func NewPendingPayment(orderID, amountCents int64, now time.Time) (*Payment, error) {
	if orderID <= 0 {
		return nil, ErrInvalidOrder
	}
	if amountCents < 0 {
		return nil, ErrInvalidAmount
	}
	return &Payment{OrderID: orderID, AmountCents: amountCents, Status: StatusPending, CreatedAt: now.UTC()}, nil
}

// Complete settles a pending payment with the given method.
func (p *Payment) Complete(method Method, now time.Time) error {
	if !method.Valid() {
		return ErrInvalidMethod
	}
	if p.Status != StatusPending {
		return ErrInvalidTransition
	}
	completed := now.UTC()
	p.Method = method
	p.Status = StatusCompleted
	p.CompletedAt = &completed
	return nil
}

func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodLinePay:
		return true
	default:
		return false
	}
}

// ParseMethod normalizes raw and validates it.
func ParseMethod(raw string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(raw)))
	if !m.Valid() {
		return "", ErrInvalidMethod
	}
	return m, nil
}
