// Package http exposes orders over gin.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/breakfast-erp/internal/domains/orders/application"
	"github.com/Apurer/breakfast-erp/internal/domains/orders/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/orders/ports"
	apierrors "github.com/Apurer/breakfast-erp/internal/shared/errors"
	"github.com/Apurer/breakfast-erp/internal/shared/params"
)

// IdempotencyKeyHeader carries the client's key for safely retrying a submission.
const IdempotencyKeyHeader = "Idempotency-Key"

type itemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int32 `json:"quantity" binding:"required"`
}

type submitOrderRequest struct {
	TableNo string        `json:"tableNo"`
	Items   []itemRequest `json:"items" binding:"required,dive"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

type Item struct {
	ProductID      int64  `json:"productId"`
	ProductName    string `json:"productName"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

type Order struct {
	ID         int64     `json:"id"`
	OrderNo    string    `json:"orderNo"`
	TableNo    string    `json:"tableNo,omitempty"`
	Status     string    `json:"status"`
	Items      []Item    `json:"items"`
	TotalCents int64     `json:"totalCents"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *domain.Order) Order {
	out := Order{
		ID:         order.ID,
		OrderNo:    order.OrderNo,
		TableNo:    order.TableNo,
		Status:     string(order.Status),
		TotalCents: order.TotalCents,
		CreatedAt:  order.CreatedAt,
		Items:      make([]Item, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		out.Items = append(out.Items, Item{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return out
}

// Handler serves the order endpoints.
type Handler struct {
	service   ports.Service
	responder *apierrors.ChainedResponder
}

type Option func(*Handler)

// WithLogger sets where errors answered with a 500 are logged.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.responder.WithLogger(logger)
	}
}

func NewHandler(service ports.Service, opts ...Option) *Handler {
	h := &Handler{service: service, responder: apierrors.NewChainedResponder("", MapError)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/orders", h.SubmitOrder)
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:id", h.GetOrder)
	r.POST("/orders/:id/cancel", h.CancelOrder)
}

// MapError translates order errors into problem details.
func MapError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func (h *Handler) SubmitOrder(c *gin.Context) {
	var req submitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BindingFailed(c, err)
		return
	}
	input := ports.SubmitOrderInput{
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
		TableNo:        req.TableNo,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, ports.ItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	order, err := h.service.SubmitOrder(c.Request.Context(), input)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, FromDomainOrder(order))
}

func (h *Handler) CancelOrder(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req cancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.responder.BindingFailed(c, err)
			return
		}
	}
	order, err := h.service.CancelOrder(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromDomainOrder(order))
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, FromDomainOrder(order))
}

// ListOrders accepts an optional status filter.
func (h *Handler) ListOrders(c *gin.Context) {
	page, ok := params.Page(c)
	if !ok {
		return
	}
	status, err := domain.ParseStatus(c.Query("status"))
	if err != nil {
		h.responder.ValidationFailed(c, map[string]string{"status": err.Error()})
		return
	}
	result, err := h.service.ListOrders(c.Request.Context(), status, page)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, params.NewPageBody(result, FromDomainOrder))
}
