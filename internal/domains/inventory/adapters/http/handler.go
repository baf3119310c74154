// Package http exposes materials and recipes over gin.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/breakfast-erp/internal/domains/inventory/application"
	"github.com/Apurer/breakfast-erp/internal/domains/inventory/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/inventory/ports"
	apierrors "github.com/Apurer/breakfast-erp/internal/shared/errors"
	"github.com/Apurer/breakfast-erp/internal/shared/params"
)

type materialRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
	Unit string `json:"unit" binding:"required"`
}

type updateMaterialRequest struct {
	Code *string `json:"code"`
	Name *string `json:"name"`
	Unit *string `json:"unit"`
}

type recipeRequest struct {
	MaterialID int64   `json:"materialId" binding:"required"`
	Quantity   float64 `json:"quantity" binding:"required"`
}

type Material struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

type Recipe struct {
	ID           int64   `json:"id"`
	ProductID    int64   `json:"productId"`
	ProductName  string  `json:"productName"`
	MaterialID   int64   `json:"materialId"`
	MaterialCode string  `json:"materialCode"`
	MaterialName string  `json:"materialName"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
}

func fromMaterial(m *domain.Material) Material {
	return Material{ID: m.ID, Code: m.Code, Name: m.Name, Unit: string(m.Unit)}
}

func fromRecipe(r *domain.ProductRecipe) Recipe {
	return Recipe{
		ID:           r.ID,
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		MaterialID:   r.MaterialID,
		MaterialCode: r.MaterialCode,
		MaterialName: r.MaterialName,
		Unit:         string(r.Unit),
		Quantity:     r.Quantity,
	}
}

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

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/materials", h.CreateMaterial)
	r.GET("/materials", h.ListMaterials)
	r.GET("/materials/:id", h.GetMaterial)
	r.PUT("/materials/:id", h.UpdateMaterial)

	r.POST("/products/:id/recipes", h.AddRecipe)
	r.GET("/products/:id/recipes", h.ListRecipes)
}

// MapError translates inventory errors into problem details.
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

func (h *Handler) CreateMaterial(c *gin.Context) {
	var req materialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BindingFailed(c, err)
		return
	}
	saved, err := h.service.CreateMaterial(c.Request.Context(), application.MaterialInput{Code: req.Code, Name: req.Name, Unit: req.Unit})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromMaterial(saved))
}

func (h *Handler) UpdateMaterial(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req updateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BindingFailed(c, err)
		return
	}
	saved, err := h.service.UpdateMaterial(c.Request.Context(), application.UpdateMaterialInput{
		ID: id, Code: req.Code, Name: req.Name, Unit: req.Unit,
	})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromMaterial(saved))
}

func (h *Handler) GetMaterial(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	material, err := h.service.GetMaterial(c.Request.Context(), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromMaterial(material))
}

func (h *Handler) ListMaterials(c *gin.Context) {
	page, ok := params.Page(c)
	if !ok {
		return
	}
	result, err := h.service.ListMaterials(c.Request.Context(), page)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, params.NewPageBody(result, fromMaterial))
}

func (h *Handler) AddRecipe(c *gin.Context) {
	productID, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BindingFailed(c, err)
		return
	}
	saved, err := h.service.AddRecipe(c.Request.Context(), application.RecipeInput{
		ProductID: productID, MaterialID: req.MaterialID, Quantity: req.Quantity,
	})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromRecipe(saved))
}

func (h *Handler) ListRecipes(c *gin.Context) {
	productID, ok := params.ID(c, "id")
	if !ok {
		return
	}
	recipes, err := h.service.ListRecipes(c.Request.Context(), productID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, fromRecipe(r))
	}
	c.JSON(http.StatusOK, out)
}
