package service

import (
	"testing"

	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/internal/app/repository"
	"github.com/clickmobile/clickmobile-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProductServiceTest(t *testing.T) ProductService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return NewProductService(repository.NewProductRepository(testDB))
}

func TestProductService_CreateAndGet(t *testing.T) {
	svc := setupProductServiceTest(t)

	product := &model.Product{
		Name:  "Phone X",
		Brand: "Acme",
		Variants: []model.Variant{
			{Size: "6.1", Color: "Red", BasePrice: 1000, Discount: 100, Quantity: 10},
		},
	}
	require.NoError(t, svc.CreateProduct(product))
	assert.Equal(t, model.ProductActive, product.Status)

	loaded, err := svc.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Phone X", loaded.Name)
	require.Len(t, loaded.Variants, 1)
	assert.Equal(t, int64(1000), loaded.Variants[0].BasePrice)
}

func TestProductService_GetProduct_NotFound(t *testing.T) {
	svc := setupProductServiceTest(t)

	_, err := svc.GetProductByID(4242)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_Create_DuplicateVariant(t *testing.T) {
	svc := setupProductServiceTest(t)

	err := svc.CreateProduct(&model.Product{
		Name: "Phone X",
		Variants: []model.Variant{
			{Size: "6.1", Color: "Red", BasePrice: 1000},
			{Size: "6.1", Color: "Red", BasePrice: 1200},
		},
	})
	assert.ErrorIs(t, err, ErrDuplicateVariant)
}

func TestProductService_Create_SameColorDifferentSizeAllowed(t *testing.T) {
	svc := setupProductServiceTest(t)

	err := svc.CreateProduct(&model.Product{
		Name: "Phone X",
		Variants: []model.Variant{
			{Size: "6.1", Color: "Red", BasePrice: 1000},
			{Size: "6.7", Color: "Red", BasePrice: 1200},
		},
	})
	assert.NoError(t, err)
}

func TestProductService_Create_DuplicateSubVariant(t *testing.T) {
	svc := setupProductServiceTest(t)

	err := svc.CreateProduct(&model.Product{
		Name: "Phone X",
		Variants: []model.Variant{
			{
				Size: "6.1", Color: "Red", BasePrice: 1000,
				SubVariants: []model.SubVariant{
					{Specification: "Storage", Value: "128GB"},
					{Specification: "Storage", Value: "128GB"},
				},
			},
		},
	})
	assert.ErrorIs(t, err, ErrDuplicateSubVariant)
}

func TestProductService_Create_NegativePrice(t *testing.T) {
	svc := setupProductServiceTest(t)

	err := svc.CreateProduct(&model.Product{
		Name: "Phone X",
		Variants: []model.Variant{
			{Size: "6.1", Color: "Red", BasePrice: -1},
		},
	})
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestProductService_Create_DiscountTooLarge(t *testing.T) {
	svc := setupProductServiceTest(t)

	err := svc.CreateProduct(&model.Product{
		Name: "Phone X",
		Variants: []model.Variant{
			{Size: "6.1", Color: "Red", BasePrice: 100, Discount: 101},
		},
	})
	assert.ErrorIs(t, err, ErrDiscountTooLarge)
}

func TestProductService_ListProducts_Filter(t *testing.T) {
	svc := setupProductServiceTest(t)

	require.NoError(t, svc.CreateProduct(&model.Product{
		Name: "Phone X", Brand: "Acme",
		Variants: []model.Variant{{Size: "6.1", Color: "Red", BasePrice: 1000}},
	}))
	require.NoError(t, svc.CreateProduct(&model.Product{
		Name: "Phone Y", Brand: "Umbrella",
		Variants: []model.Variant{{Size: "6.1", Color: "Blue", BasePrice: 500}},
	}))

	products, total, err := svc.ListProducts(repository.ProductFilter{Brand: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Phone X", products[0].Name)
}

func TestProductService_Delete(t *testing.T) {
	svc := setupProductServiceTest(t)

	product := &model.Product{
		Name:     "Phone X",
		Variants: []model.Variant{{Size: "6.1", Color: "Red", BasePrice: 1000}},
	}
	require.NoError(t, svc.CreateProduct(product))
	require.NoError(t, svc.DeleteProduct(product.ID))

	_, err := svc.GetProductByID(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
