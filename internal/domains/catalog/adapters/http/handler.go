// Package http exposes the catalog over gin.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/breakfast-erp/internal/domains/catalog/application"
	"github.com/Apurer/breakfast-erp/internal/domains/catalog/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/breakfast-erp/internal/shared/errors"
	"github.com/Apurer/breakfast-erp/internal/shared/params"
)

// Handler serves categories, products and combos.
type Handler struct {
	service   *application.Service
	responder *apierrors.ChainedResponder
}

type Option func(*Handler)

// WithLogger sets where errors answered with a 500 are logged.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.responder.WithLogger(logger)
	}
}

func NewHandler(service *application.Service, opts ...Option) *Handler {
	h := &Handler{service: service, responder: apierrors.NewChainedResponder("", MapError)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the catalog routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/categories", h.CreateCategory)
	r.GET("/categories", h.ListCategories)
	r.GET("/categories/:id", h.GetCategory)
	r.PUT("/categories/:id", h.UpdateCategory)

	r.POST("/products", h.CreateProduct)
	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)
	r.PUT("/products/:id", h.UpdateProduct)

	r.POST("/combos", h.CreateCombo)
	r.GET("/combos", h.ListCombos)
	r.GET("/combos/:id", h.GetCombo)
}

// MapError translates catalog errors into problem details.
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

func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BindingFailed(c, err)
		return
	}
	saved, err := h.service.CreateCategory(c.Request.Context(), application.CategoryInput{Code: req.Code, Name: req.Name})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromCategory(saved))
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BindingFailed(c, err)
		return
	}
	saved, err := h.service.UpdateCategory(c.Request.Context(), application.UpdateCategoryInput{ID: id, Code: req.Code, Name: req.Name})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCategory(saved))
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	category, err := h.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCategory(category))
}

func (h *Handler) ListCategories(c *gin.Context) {
	page, ok := params.Page(c)
	if !ok {
		return
	}
	result, err := h.service.ListCategories(c.Request.Context(), page)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, params.NewPageBody(result, fromCategory))
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BindingFailed(c, err)
		return
	}
	saved, err := h.service.CreateProduct(c.Request.Context(), application.ProductInput{
		Code:       req.Code,
		Name:       req.Name,
		CategoryID: req.CategoryID,
		PriceCents: req.PriceCents,
		Status:     req.Status,
		ImageKeys:  req.ImageKeys,
	})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromProduct(saved))
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BindingFailed(c, err)
		return
	}
	saved, err := h.service.UpdateProduct(c.Request.Context(), req.toInput(id))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromProduct(saved))
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromProduct(product))
}

// ListProducts accepts optional categoryId and status filters.
func (h *Handler) ListProducts(c *gin.Context) {
	page, ok := params.Page(c)
	if !ok {
		return
	}
	categoryID, ok := params.OptionalInt64(c, "categoryId")
	if !ok {
		return
	}
	filter := ports.ProductFilter{CategoryID: categoryID, Status: domain.ProductStatus(c.Query("status"))}
	result, err := h.service.ListProducts(c.Request.Context(), filter, page)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, params.NewPageBody(result, fromProduct))
}

func (h *Handler) CreateCombo(c *gin.Context) {
	var req comboRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BindingFailed(c, err)
		return
	}
	saved, err := h.service.CreateCombo(c.Request.Context(), req.toInput())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromCombo(saved))
}

func (h *Handler) GetCombo(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	combo, err := h.service.GetCombo(c.Request.Context(), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCombo(combo))
}

func (h *Handler) ListCombos(c *gin.Context) {
	page, ok := params.Page(c)
	if !ok {
		return
	}
	categoryID, ok := params.OptionalInt64(c, "categoryId")
	if !ok {
		return
	}
	result, err := h.service.ListCombos(c.Request.Context(), categoryID, page)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, params.NewPageBody(result, fromCombo))
}
