// Package http exposes payments over gin.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/breakfast-erp/internal/domains/payments/application"
	"github.com/Apurer/breakfast-erp/internal/domains/payments/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/payments/ports"
	apierrors "github.com/Apurer/breakfast-erp/internal/shared/errors"
	"github.com/Apurer/breakfast-erp/internal/shared/params"
)

type completePaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

type Payment struct {
	ID          int64      `json:"id"`
	OrderID     int64      `json:"orderId"`
	AmountCents int64      `json:"amountCents"`
	Method      string     `json:"method,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func fromPayment(p *domain.Payment) Payment {
	return Payment{
		ID:          p.ID,
		OrderID:     p.OrderID,
		AmountCents: p.AmountCents,
		Method:      string(p.Method),
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		CompletedAt: p.CompletedAt,
	}
}

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
	r.GET("/orders/:id/payments", h.ListByOrder)
	r.GET("/payments/:id", h.GetPayment)
	r.POST("/payments/:id/complete", h.CompletePayment)
}

// MapError translates payment errors into problem details.
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

func (h *Handler) CompletePayment(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req completePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BindingFailed(c, err)
		return
	}
	payment, err := h.service.CompletePayment(c.Request.Context(), id, req.Method)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromPayment(payment))
}

func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	payment, err := h.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromPayment(payment))
}

func (h *Handler) ListByOrder(c *gin.Context) {
	orderID, ok := params.ID(c, "id")
	if !ok {
		return
	}
	payments, err := h.service.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	out := make([]Payment, 0, len(payments))
	for _, p := range payments {
		out = append(out, fromPayment(p))
	}
	c.JSON(http.StatusOK, out)
}
