package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shoptrack/pos-api/internal/application/dto"
	"github.com/shoptrack/pos-api/internal/domain"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto con sus umbrales de stock.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, _ := uc.repo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	isTracked := true
	if in.IsTracked != nil {
		isTracked = *in.IsTracked
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           in.SKU,
		Name:          in.Name,
		Category:      in.Category,
		Cost:          in.Cost,
		Price:         in.Price,
		MinStockLevel: in.MinStockLevel,
		ReorderPoint:  in.ReorderPoint,
		MaxStockLevel: in.MaxStockLevel,
		IsTracked:     isTracked,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if !product.ValidateThresholds() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// GetBySKU obtiene un producto por SKU.
func (uc *ProductUseCase) GetBySKU(sku string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. La identidad (SKU) no se modifica.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Cost != nil {
		product.Cost = *in.Cost
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.MinStockLevel != nil {
		product.MinStockLevel = *in.MinStockLevel
	}
	if in.ReorderPoint != nil {
		product.ReorderPoint = *in.ReorderPoint
	}
	if in.MaxStockLevel != nil {
		product.MaxStockLevel = *in.MaxStockLevel
	}
	if in.IsTracked != nil {
		product.IsTracked = *in.IsTracked
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if !product.ValidateThresholds() {
		return nil, domain.ErrInvalidInput
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación. activeOnly filtra los desactivados.
func (uc *ProductUseCase) List(activeOnly bool, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(activeOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Deactivate desactiva un producto (soft delete; los movimientos lo siguen referenciando).
func (uc *ProductUseCase) Deactivate(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	product.IsActive = false
	product.UpdatedAt = time.Now()
	return uc.repo.Update(product)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Category:      p.Category,
		Cost:          p.Cost,
		Price:         p.Price,
		MinStockLevel: p.MinStockLevel,
		ReorderPoint:  p.ReorderPoint,
		MaxStockLevel: p.MaxStockLevel,
		IsTracked:     p.IsTracked,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
