package application

type MaterialInput struct {
	Code string
	Name string
	Unit string
}

// UpdateMaterialInput is a partial update; nil fields are left unchanged.
type UpdateMaterialInput struct {
	ID   int64
	Code *string
	Name *string
	Unit *string
}

type RecipeInput struct {
	ProductID  int64
	MaterialID int64
	Quantity   float64
}
