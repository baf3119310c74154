package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/breakfast-erp/internal/domains/inventory/adapters/memory"
	"github.com/Apurer/breakfast-erp/internal/domains/inventory/domain"
	"github.com/Apurer/breakfast-erp/internal/shared/events"
)

type materialCall struct {
	materialID int64
	code, name string
	unit       domain.Unit
}

type spyRecipes struct {
	*memory.RecipeRepository
	productCalls  int
	materialCalls []materialCall
}

func (s *spyRecipes) UpdateProductName(ctx context.Context, productID int64, name string) (int64, error) {
	s.productCalls++
	return s.RecipeRepository.UpdateProductName(ctx, productID, name)
}

func (s *spyRecipes) UpdateMaterial(ctx context.Context, materialID int64, code, name string, unit domain.Unit) (int64, error) {
	s.materialCalls = append(s.materialCalls, materialCall{materialID, code, name, unit})
	return s.RecipeRepository.UpdateMaterial(ctx, materialID, code, name, unit)
}

func seedRecipe(t *testing.T, repo *memory.RecipeRepository, productID, materialID int64) *domain.ProductRecipe {
	t.Helper()
	r, err := repo.Create(context.Background(), &domain.ProductRecipe{
		ProductID: productID, ProductName: "Ham Toast",
		MaterialID: materialID, MaterialCode: "M01", MaterialName: "Egg", Unit: domain.UnitPiece,
		Quantity: 1,
	})
	require.NoError(t, err)
	return r
}

func TestSyncRecipeMaterial_UnitOnlyChangeWritesAllColumns(t *testing.T) {
	ctx := context.Background()
	recipes := &spyRecipes{RecipeRepository: memory.NewRecipeRepository()}
	seedRecipe(t, recipes.RecipeRepository, 11, 3)
	seedRecipe(t, recipes.RecipeRepository, 12, 3)
	seedRecipe(t, recipes.RecipeRepository, 11, 4)
	listeners := NewListeners(recipes, nil)

	ev := events.NewMaterialChanged(3,
		events.MaterialSnapshot{Code: "M01", Name: "Egg", Unit: "PIECE"},
		events.MaterialSnapshot{Code: "M01", Name: "Egg", Unit: "DOZEN"})
	require.NoError(t, listeners.SyncRecipeMaterial(ctx, ev))

	require.Equal(t, []materialCall{{3, "M01", "Egg", domain.UnitDozen}}, recipes.materialCalls)
	for _, productID := range []int64{11, 12} {
		list, err := recipes.ListByProduct(ctx, productID)
		require.NoError(t, err)
		for _, r := range list {
			if r.MaterialID == 3 {
				assert.Equal(t, domain.UnitDozen, r.Unit)
				assert.Equal(t, "M01", r.MaterialCode)
				assert.Equal(t, "Egg", r.MaterialName)
			} else {
				assert.Equal(t, domain.UnitPiece, r.Unit)
			}
		}
	}
}

func TestSyncRecipeMaterial_SkipsUnchangedSnapshot(t *testing.T) {
	recipes := &spyRecipes{RecipeRepository: memory.NewRecipeRepository()}
	listeners := NewListeners(recipes, nil)

	same := events.MaterialSnapshot{Code: "M01", Name: "Egg", Unit: "PIECE"}
	require.NoError(t, listeners.SyncRecipeMaterial(context.Background(), events.NewMaterialChanged(3, same, same)))
	assert.Empty(t, recipes.materialCalls)
}

func TestSyncRecipeProductName(t *testing.T) {
	ctx := context.Background()
	recipes := &spyRecipes{RecipeRepository: memory.NewRecipeRepository()}
	seedRecipe(t, recipes.RecipeRepository, 11, 3)
	listeners := NewListeners(recipes, nil)

	codeOnly := events.NewProductChanged(11,
		events.ProductSnapshot{Code: "P-11", Name: "Ham Toast"},
		events.ProductSnapshot{Code: "P-11B", Name: "Ham Toast"})
	require.NoError(t, listeners.SyncRecipeProductName(ctx, codeOnly))
	assert.Zero(t, recipes.productCalls)

	renamed := events.NewProductChanged(11,
		events.ProductSnapshot{Code: "P-11", Name: "Ham Toast"},
		events.ProductSnapshot{Code: "P-11", Name: "Ham & Egg Toast"})
	require.NoError(t, listeners.SyncRecipeProductName(ctx, renamed))
	require.NoError(t, listeners.SyncRecipeProductName(ctx, renamed))

	list, err := recipes.ListByProduct(ctx, 11)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ham & Egg Toast", list[0].ProductName)
	assert.Equal(t, 2, recipes.productCalls)
}
