// Package events defines the domain events exchanged between bounded contexts
// to keep denormalized columns in sync with the entities that own them.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type identifies an event variant.
type Type string

const (
	TypeCategoryRenamed  Type = "catalog.category.renamed"
	TypeProductChanged   Type = "catalog.product.changed"
	TypeMaterialChanged  Type = "inventory.material.changed"
	TypeOrderSubmitted   Type = "orders.order.submitted"
	TypeOrderCancelled   Type = "orders.order.cancelled"
	TypePaymentCompleted Type = "payments.payment.completed"
)

// Source modules tagged on every envelope.
const (
	SourceCatalog   = "catalog"
	SourceInventory = "inventory"
	SourceOrders    = "orders"
	SourcePayments  = "payments"
)

// Event is implemented only by the variants declared in this package.
type Event interface {
	Type() Type
	Meta() Envelope
	sealed()
}

// Envelope carries the metadata shared by all events. It is stamped at
// construction and cannot be changed afterwards.
type Envelope struct {
	id         string
	occurredAt time.Time
	source     string
}

// NewEnvelope stamps a fresh identifier and timestamp for the given source module.
func NewEnvelope(source string) Envelope {
	return Envelope{
		id:         uuid.NewString(),
		occurredAt: time.Now().UTC(),
		source:     source,
	}
}

// ID returns the unique event identifier.
func (e Envelope) ID() string { return e.id }

// OccurredAt returns when the event was raised.
func (e Envelope) OccurredAt() time.Time { return e.occurredAt }

// SourceModule returns the module that published the event.
func (e Envelope) SourceModule() string { return e.source }

// Meta returns the envelope itself so variants embedding it satisfy Event.
func (e Envelope) Meta() Envelope { return e }

func (Envelope) sealed() {}

// Publisher hands events to the dispatch pipeline. Implementations never
// report failures to the caller.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, Event) {}
