package http

import (
	"github.com/Apurer/breakfast-erp/internal/domains/catalog/application"
	"github.com/Apurer/breakfast-erp/internal/domains/catalog/domain"
)

type categoryRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type updateCategoryRequest struct {
	Code *string `json:"code" binding:"omitempty,min=1,max=32"`
	Name *string `json:"name" binding:"omitempty,min=1,max=64"`
}

type Category struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type productRequest struct {
	Code       string   `json:"code" binding:"required"`
	Name       string   `json:"name" binding:"required"`
	CategoryID int64    `json:"categoryId" binding:"required"`
	PriceCents int64    `json:"priceCents"`
	Status     string   `json:"status"`
	ImageKeys  []string `json:"imageKeys"`
}

type updateProductRequest struct {
	Code       *string   `json:"code"`
	Name       *string   `json:"name"`
	CategoryID *int64    `json:"categoryId"`
	PriceCents *int64    `json:"priceCents"`
	Status     *string   `json:"status"`
	ImageKeys  *[]string `json:"imageKeys"`
}

type Product struct {
	ID           int64    `json:"id"`
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	CategoryID   int64    `json:"categoryId"`
	CategoryName string   `json:"categoryName"`
	PriceCents   int64    `json:"priceCents"`
	Status       string   `json:"status"`
	ImageKeys    []string `json:"imageKeys"`
}

type comboItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int32 `json:"quantity" binding:"required"`
}

type comboRequest struct {
	Code       string             `json:"code" binding:"required"`
	Name       string             `json:"name" binding:"required"`
	CategoryID int64              `json:"categoryId" binding:"required"`
	PriceCents int64              `json:"priceCents"`
	Items      []comboItemRequest `json:"items" binding:"required,dive"`
}

type ComboItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int32  `json:"quantity"`
}

type Combo struct {
	ID           int64       `json:"id"`
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	CategoryID   int64       `json:"categoryId"`
	CategoryName string      `json:"categoryName"`
	PriceCents   int64       `json:"priceCents"`
	Items        []ComboItem `json:"items"`
}

func fromCategory(c *domain.Category) Category {
	return Category{ID: c.ID, Code: c.Code, Name: c.Name}
}

func fromProduct(p *domain.Product) Product {
	keys := p.ImageKeys
	if keys == nil {
		keys = []string{}
	}
	return Product{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		PriceCents:   p.PriceCents,
		Status:       string(p.Status),
		ImageKeys:    keys,
	}
}

func fromCombo(c *domain.Combo) Combo {
	out := Combo{
		ID:           c.ID,
		Code:         c.Code,
		Name:         c.Name,
		CategoryID:   c.CategoryID,
		CategoryName: c.CategoryName,
		PriceCents:   c.PriceCents,
		Items:        make([]ComboItem, 0, len(c.Items)),
	}
	for _, item := range c.Items {
		out.Items = append(out.Items, ComboItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		})
	}
	return out
}

func (r updateProductRequest) toInput(id int64) application.UpdateProductInput {
	return application.UpdateProductInput{
		ID:         id,
		Code:       r.Code,
		Name:       r.Name,
		CategoryID: r.CategoryID,
		PriceCents: r.PriceCents,
		Status:     r.Status,
		ImageKeys:  r.ImageKeys,
	}
}

func (r comboRequest) toInput() application.ComboInput {
	input := application.ComboInput{
		Code:       r.Code,
		Name:       r.Name,
		CategoryID: r.CategoryID,
		PriceCents: r.PriceCents,
	}
	for _, item := range r.Items {
		input.Items = append(input.Items, application.ComboItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return input
}
