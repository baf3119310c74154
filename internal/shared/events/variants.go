package events

// CategorySnapshot holds the category fields copied onto products and combos.
type CategorySnapshot struct {
	Name string
}

// CategoryRenamed is raised after a category update is persisted.
type CategoryRenamed struct {
	Envelope
	CategoryID int64
	Before     CategorySnapshot
	After      CategorySnapshot
}

// NewCategoryRenamed builds the event for a persisted category update.
func NewCategoryRenamed(categoryID int64, before, after CategorySnapshot) CategoryRenamed {
	return CategoryRenamed{Envelope: NewEnvelope(SourceCatalog), CategoryID: categoryID, Before: before, After: after}
}

func (CategoryRenamed) Type() Type { return TypeCategoryRenamed }

func (e CategoryRenamed) NameChanged() bool { return e.Before.Name != e.After.Name }

// ProductSnapshot holds the product fields copied onto combo items and recipes.
type ProductSnapshot struct {
	Code string
	Name string
}

// ProductChanged is raised after a product update is persisted.
type ProductChanged struct {
	Envelope
	ProductID int64
	Before    ProductSnapshot
	After     ProductSnapshot
}

// NewProductChanged builds the event for a persisted product update.
func NewProductChanged(productID int64, before, after ProductSnapshot) ProductChanged {
	return ProductChanged{Envelope: NewEnvelope(SourceCatalog), ProductID: productID, Before: before, After: after}
}

func (ProductChanged) Type() Type { return TypeProductChanged }

func (e ProductChanged) NameChanged() bool { return e.Before.Name != e.After.Name }

func (e ProductChanged) CodeChanged() bool { return e.Before.Code != e.After.Code }

// MaterialSnapshot holds the material fields copied onto recipes.
type MaterialSnapshot struct {
	Code string
	Name string
	Unit string
}

// MaterialChanged is raised after a material update is persisted.
type MaterialChanged struct {
	Envelope
	MaterialID int64
	Before     MaterialSnapshot
	After      MaterialSnapshot
}

// NewMaterialChanged builds the event for a persisted material update.
func NewMaterialChanged(materialID int64, before, after MaterialSnapshot) MaterialChanged {
	return MaterialChanged{Envelope: NewEnvelope(SourceInventory), MaterialID: materialID, Before: before, After: after}
}

func (MaterialChanged) Type() Type { return TypeMaterialChanged }

func (e MaterialChanged) CodeChanged() bool { return e.Before.Code != e.After.Code }

func (e MaterialChanged) NameChanged() bool { return e.Before.Name != e.After.Name }

func (e MaterialChanged) UnitChanged() bool { return e.Before.Unit != e.After.Unit }

// AnyChanged reports whether any field tracked on recipes differs.
func (e MaterialChanged) AnyChanged() bool { return e.Before != e.After }

// OrderSubmitted is raised once an order has been stored awaiting payment.
type OrderSubmitted struct {
	Envelope
	OrderID     int64
	OrderNo     string
	AmountCents int64
}

func NewOrderSubmitted(orderID int64, orderNo string, amountCents int64) OrderSubmitted {
	return OrderSubmitted{Envelope: NewEnvelope(SourceOrders), OrderID: orderID, OrderNo: orderNo, AmountCents: amountCents}
}

func (OrderSubmitted) Type() Type { return TypeOrderSubmitted }

// OrderCancelled is raised when a pending order is cancelled.
type OrderCancelled struct {
	Envelope
	OrderID int64
	OrderNo string
	Reason  string
}

func NewOrderCancelled(orderID int64, orderNo, reason string) OrderCancelled {
	return OrderCancelled{Envelope: NewEnvelope(SourceOrders), OrderID: orderID, OrderNo: orderNo, Reason: reason}
}

func (OrderCancelled) Type() Type { return TypeOrderCancelled }

// PaymentCompleted is raised when a pending payment is settled.
type PaymentCompleted struct {
	Envelope
	PaymentID   int64
	OrderID     int64
	AmountCents int64
	Method      string
}

func NewPaymentCompleted(paymentID, orderID, amountCents int64, method string) PaymentCompleted {
	return PaymentCompleted{
		Envelope:    NewEnvelope(SourcePayments),
		PaymentID:   paymentID,
		OrderID:     orderID,
		AmountCents: amountCents,
		Method:      method,
	}
}

func (PaymentCompleted) Type() Type { return TypePaymentCompleted }
