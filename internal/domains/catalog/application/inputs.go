package application

// CategoryInput carries the fields for creating a category.
type CategoryInput struct {
	Code string
	Name string
}

// UpdateCategoryInput is a partial update; nil fields are left unchanged.
type UpdateCategoryInput struct {
	ID   int64
	Code *string
	Name *string
}

type ProductInput struct {
	Code       string
	Name       string
	CategoryID int64
	PriceCents int64
	Status     string
	ImageKeys  []string
}

// UpdateProductInput is a partial update; nil fields are left unchanged.
type UpdateProductInput struct {
	ID         int64
	Code       *string
	Name       *string
	CategoryID *int64
	PriceCents *int64
	Status     *string
	ImageKeys  *[]string
}

type ComboItemInput struct {
	ProductID int64
	Quantity  int32
}

type ComboInput struct {
	Code       string
	Name       string
	CategoryID int64
	PriceCents int64
	Items      []ComboItemInput
}
