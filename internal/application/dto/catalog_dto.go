package dto

// CreateProductRequest alta de producto en el catálogo. El registro de
// inventario nace junto al producto, en cantidad cero.
type CreateProductRequest struct {
	Name       string `json:"name" validate:"required"`
	Barcode    string `json:"barcode,omitempty" validate:"omitempty,numeric"`
	CategoryID *int64 `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	CostPrice  int64  `json:"cost_price" validate:"gte=0"`
	SellPrice  int64  `json:"sell_price" validate:"gte=0"`
}

// CreateCustomerRequest alta de cliente. Phone es el identificador de 9
// dígitos ^9\d{8}$, único a nivel global.
type CreateCustomerRequest struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone" validate:"required,phone9"`
}

// AddIdentifierRequest asociación de un código de departamento ^[1-9]\d{2,3}$.
type AddIdentifierRequest struct {
	CustomerID int64  `json:"customer_id" validate:"required,gt=0"`
	Code       string `json:"code" validate:"required,deptcode"`
}

// CreateCategoryRequest alta de categoría (nombre único).
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}
