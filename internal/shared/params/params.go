// Package params parses path and query parameters shared by the HTTP adapters.
package params

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/breakfast-erp/internal/shared/errors"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

// ID reads a positive int64 path parameter. On failure it writes a 400
// problem response and returns false.
func ID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		apierrors.Respond(c, apierrors.NewValidationProblem(map[string]string{
			name: fmt.Sprintf("must be a positive integer, got %q", c.Param(name)),
		}))
		return 0, false
	}
	return id, true
}

// OptionalInt64 reads an int64 query parameter, returning 0 when absent.
func OptionalInt64(c *gin.Context, name string) (int64, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		apierrors.Respond(c, apierrors.NewValidationProblem(map[string]string{
			name: fmt.Sprintf("must be a non-negative integer, got %q", raw),
		}))
		return 0, false
	}
	return v, true
}

// Page reads the page and size query parameters.
func Page(c *gin.Context) (projection.PageQuery, bool) {
	page, ok := OptionalInt64(c, "page")
	if !ok {
		return projection.PageQuery{}, false
	}
	size, ok := OptionalInt64(c, "size")
	if !ok {
		return projection.PageQuery{}, false
	}
	return projection.PageQuery{Page: int(page), Size: int(size)}.Normalize(), true
}

// PageBody is the JSON envelope for paged listings.
type PageBody[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

// NewPageBody converts a page of domain values into its JSON envelope.
func NewPageBody[T, U any](p projection.Page[T], fn func(T) U) PageBody[U] {
	mapped := projection.Map(p, fn)
	return PageBody[U]{Items: mapped.Items, Total: mapped.Total, Page: mapped.Page, Size: mapped.Size}
}
