package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/breakfast-erp/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/breakfast-erp/internal/domains/catalog/application"
	apierrors "github.com/Apurer/breakfast-erp/internal/shared/errors"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	apierrors.UseJSONFieldNames()
	r := gin.New()
	svc := application.NewService(memory.NewCategoryRepository(), memory.NewProductRepository(), memory.NewComboRepository(), nil)
	NewHandler(svc).Register(r.Group("/api/v1"))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) apierrors.ProblemDetail {
	t.Helper()
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func createCategory(t *testing.T, r http.Handler) Category {
	t.Helper()
	rec := do(r, http.MethodPost, "/api/v1/categories", `{"code":"BRK","name":"Breakfast"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var out Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandler_UpdateCategoryRenames(t *testing.T) {
	r := newRouter()
	created := createCategory(t, r)

	rec := do(r, http.MethodPut, "/api/v1/categories/"+strconv.FormatInt(created.ID, 10), `{"name":"Morning Set"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "BRK", updated.Code)
	assert.Equal(t, "Morning Set", updated.Name)
}

func TestHandler_UpdateCategoryReportsInvalidFields(t *testing.T) {
	r := newRouter()
	created := createCategory(t, r)

	rec := do(r, http.MethodPut, "/api/v1/categories/"+strconv.FormatInt(created.ID, 10), `{"code":"","name":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, apierrors.TypeValidation, problem.Type)
	fields, ok := problem.Extensions["fields"].(map[string]any)
	require.True(t, ok, "fields extension: %v", problem.Extensions)
	assert.Equal(t, "must be at least 1", fields["code"])
	assert.Equal(t, "must be at least 1", fields["name"])

	rec = do(r, http.MethodPut, "/api/v1/categories/"+strconv.FormatInt(created.ID, 10), `{"name":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierrors.TypeBadRequest, decodeProblem(t, rec).Type)
}

func TestHandler_UpdateMissingCategoryIsNotFound(t *testing.T) {
	r := newRouter()

	rec := do(r, http.MethodPut, "/api/v1/categories/99", `{"name":"Ghost"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, apierrors.TypeNotFound, problem.Type)
	assert.Equal(t, "/api/v1/categories/99", problem.Instance)

	rec = do(r, http.MethodPut, "/api/v1/categories/abc", `{"name":"Ghost"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_CreateRequiresFields(t *testing.T) {
	r := newRouter()

	rec := do(r, http.MethodPost, "/api/v1/categories", `{"name":"Breakfast"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields, ok := decodeProblem(t, rec).Extensions["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "is required", fields["code"])

	createCategory(t, r)
	rec = do(r, http.MethodPost, "/api/v1/categories", `{"code":"BRK","name":"Brunch"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(r, http.MethodPost, "/api/v1/products", `{"code":"P-1","name":"Ham Toast","categoryId":42}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierrors.TypeValidation, decodeProblem(t, rec).Type)
}
