package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoptrack/pos-api/internal/application/dto"
	"github.com/shoptrack/pos-api/internal/application/usecase"
	"github.com/shoptrack/pos-api/internal/domain"
	"github.com/shoptrack/pos-api/internal/infrastructure/memory"
)

func newProductUC(t *testing.T) *usecase.ProductUseCase {
	t.Helper()
	return usecase.NewProductUseCase(memory.NewProductRepo())
}

func validCreateRequest() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		SKU:           "MILK001",
		Name:          "Fresh Whole Milk",
		Category:      "food",
		Cost:          decimal.RequireFromString("2.50"),
		Price:         decimal.RequireFromString("3.99"),
		MinStockLevel: 10,
		ReorderPoint:  20,
		MaxStockLevel: 100,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ProductoNuevo(t *testing.T) {
	uc := newProductUC(t)

	resp, err := uc.Create(validCreateRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "MILK001", resp.SKU)
	assert.True(t, resp.IsTracked, "sin indicar, los productos se rastrean")
	assert.True(t, resp.IsActive)
	assert.False(t, resp.CreatedAt.IsZero())
}

func TestCreate_SKUDuplicado(t *testing.T) {
	uc := newProductUC(t)
	_, err := uc.Create(validCreateRequest())
	require.NoError(t, err)

	_, err = uc.Create(validCreateRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_UmbralesInvalidos(t *testing.T) {
	uc := newProductUC(t)

	cases := []struct {
		name                string
		min, reorder, max   int
	}{
		{"mínimo negativo", -1, 5, 10},
		{"reorden por debajo del mínimo", 10, 5, 20},
		{"máximo por debajo del reorden", 5, 10, 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			req.MinStockLevel = tc.min
			req.ReorderPoint = tc.reorder
			req.MaxStockLevel = tc.max
			_, err := uc.Create(req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreate_SinSeguimiento(t *testing.T) {
	uc := newProductUC(t)
	untracked := false
	req := validCreateRequest()
	req.IsTracked = &untracked

	resp, err := uc.Create(req)
	require.NoError(t, err)
	assert.False(t, resp.IsTracked)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de consulta y actualización
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_Inexistente(t *testing.T) {
	uc := newProductUC(t)
	resp, err := uc.GetByID("no-existe")
	require.NoError(t, err)
	assert.Nil(t, resp, "producto inexistente no es un error, es nil")
}

func TestGetBySKU(t *testing.T) {
	uc := newProductUC(t)
	created, err := uc.Create(validCreateRequest())
	require.NoError(t, err)

	resp, err := uc.GetBySKU("MILK001")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, created.ID, resp.ID)
}

func TestUpdate_Parcial(t *testing.T) {
	uc := newProductUC(t)
	created, err := uc.Create(validCreateRequest())
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("4.25")
	newName := "Fresh Whole Milk 1L"
	resp, err := uc.Update(created.ID, dto.UpdateProductRequest{
		Name:  &newName,
		Price: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, "Fresh Whole Milk 1L", resp.Name)
	assert.True(t, resp.Price.Equal(newPrice))
	// Lo no indicado queda igual
	assert.Equal(t, "food", resp.Category)
	assert.Equal(t, 10, resp.MinStockLevel)
}

func TestUpdate_UmbralInvalidoRechazado(t *testing.T) {
	uc := newProductUC(t)
	created, err := uc.Create(validCreateRequest())
	require.NoError(t, err)

	badReorder := 5 // queda por debajo del mínimo (10)
	_, err = uc.Update(created.ID, dto.UpdateProductRequest{ReorderPoint: &badReorder})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// El producto persistido no se tocó
	current, err := uc.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, current.ReorderPoint)
}

func TestUpdate_Inexistente(t *testing.T) {
	uc := newProductUC(t)
	name := "da igual"
	resp, err := uc.Update("no-existe", dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests List / Deactivate
// ──────────────────────────────────────────────────────────────────────────────

func TestList_SoloActivos(t *testing.T) {
	uc := newProductUC(t)
	first, err := uc.Create(validCreateRequest())
	require.NoError(t, err)

	second := validCreateRequest()
	second.SKU = "BREAD001"
	second.Name = "Artisan Sourdough Bread"
	_, err = uc.Create(second)
	require.NoError(t, err)

	require.NoError(t, uc.Deactivate(first.ID))

	active, err := uc.List(true, 50, 0)
	require.NoError(t, err)
	require.Len(t, active.Items, 1)
	assert.Equal(t, "BREAD001", active.Items[0].SKU)

	all, err := uc.List(false, 50, 0)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}

func TestDeactivate(t *testing.T) {
	uc := newProductUC(t)
	created, err := uc.Create(validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, uc.Deactivate(created.ID))

	resp, err := uc.GetByID(created.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive, "la desactivación es un soft delete")

	assert.ErrorIs(t, uc.Deactivate("no-existe"), domain.ErrNotFound)
}
