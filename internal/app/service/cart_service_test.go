package service

import (
	"testing"

	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/internal/app/repository"
	"github.com/clickmobile/clickmobile-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	product := createPhone(t, testDB)

	return cartService, user, product, testDB
}

func TestCartService_AddToCart_Success(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	cart, err := cartService.AddToCart(user.ID, product.ID, Selection{Color: "Blue"}, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Blue", cart.Items[0].Color)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	// Snapshot: base 800, no discount
	assert.Equal(t, int64(800), cart.Items[0].UnitPrice)
	assert.Equal(t, int64(1600), cart.Subtotal())
}

func TestCartService_AddToCart_SnapshotsDiscountedPrice(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	cart, err := cartService.AddToCart(user.ID, product.ID, Selection{
		Color:         "Red",
		Specification: strPtr("Storage"),
		Value:         strPtr("256GB"),
	}, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	// 1000 + 200 - 100
	assert.Equal(t, int64(1100), cart.Items[0].UnitPrice)
}

func TestCartService_AddToCart_MergesSameSelection(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	sel := Selection{Color: "Blue"}
	_, err := cartService.AddToCart(user.ID, product.ID, sel, 1)
	require.NoError(t, err)

	cart, err := cartService.AddToCart(user.ID, product.ID, sel, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCartService_AddToCart_DifferentSubVariantsAreSeparateLines(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, Selection{
		Color:         "Red",
		Specification: strPtr("Storage"),
		Value:         strPtr("128GB"),
	}, 1)
	require.NoError(t, err)

	cart, err := cartService.AddToCart(user.ID, product.ID, Selection{
		Color:         "Red",
		Specification: strPtr("Storage"),
		Value:         strPtr("256GB"),
	}, 1)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestCartService_AddToCart_ProductNotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, 9999, Selection{Color: "Red"}, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddToCart_UnknownColor(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, Selection{Color: "Green"}, 1)
	assert.ErrorIs(t, err, ErrSelectionUnavailable)
}

func TestCartService_AddToCart_HalfSpecifiedSubVariant(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, Selection{
		Color:         "Red",
		Specification: strPtr("Storage"),
	}, 1)
	assert.ErrorIs(t, err, ErrSelectionUnavailable)
}

func TestCartService_AddToCart_InactiveProduct(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	require.NoError(t, testDB.Model(product).Update("status", model.ProductInactive).Error)

	_, err := cartService.AddToCart(user.ID, product.ID, Selection{Color: "Blue"}, 1)
	assert.ErrorIs(t, err, ErrSelectionUnavailable)
}

func TestCartService_AddToCart_InvalidQuantity(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, Selection{Color: "Blue"}, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_AddToCart_InsufficientStock(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	// Blue variant has 4 in stock
	_, err := cartService.AddToCart(user.ID, product.ID, Selection{Color: "Blue"}, 5)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_StockPoolsAreNotCombined(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	// The Red variant pool is 10, but the 256GB sub-variant pool is 3. A
	// sub-variant selection is bounded by its own pool only.
	_, err := cartService.AddToCart(user.ID, product.ID, Selection{
		Color:         "Red",
		Specification: strPtr("Storage"),
		Value:         strPtr("256GB"),
	}, 4)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	cart, err := cartService.AddToCart(user.ID, product.ID, Selection{
		Color:         "Red",
		Specification: strPtr("Storage"),
		Value:         strPtr("256GB"),
	}, 3)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCartService_IncreaseQuantity(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	sel := Selection{Color: "Blue"}
	_, err := cartService.AddToCart(user.ID, product.ID, sel, 1)
	require.NoError(t, err)

	cart, err := cartService.IncreaseQuantity(user.ID, product.ID, sel)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCartService_IncreaseQuantity_BoundByStock(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	sel := Selection{Color: "Blue"}
	_, err := cartService.AddToCart(user.ID, product.ID, sel, 4)
	require.NoError(t, err)

	_, err = cartService.IncreaseQuantity(user.ID, product.ID, sel)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_IncreaseQuantity_KeepsPriceSnapshot(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	sel := Selection{Color: "Blue"}
	_, err := cartService.AddToCart(user.ID, product.ID, sel, 1)
	require.NoError(t, err)

	// Price changes after the add; increase must not re-price the line
	require.NoError(t, testDB.Model(&model.Variant{}).
		Where("product_id = ? AND color = ?", product.ID, "Blue").
		Update("base_price", 999).Error)

	cart, err := cartService.IncreaseQuantity(user.ID, product.ID, sel)
	require.NoError(t, err)
	assert.Equal(t, int64(800), cart.Items[0].UnitPrice)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCartService_IncreaseQuantity_RemovedProductRejected(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	sel := Selection{Color: "Blue"}
	_, err := cartService.AddToCart(user.ID, product.ID, sel, 1)
	require.NoError(t, err)

	require.NoError(t, testDB.Delete(product).Error)

	_, err = cartService.IncreaseQuantity(user.ID, product.ID, sel)
	assert.ErrorIs(t, err, ErrSelectionUnavailable)
}

func TestCartService_IncreaseQuantity_MissingLine(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, Selection{Color: "Blue"}, 1)
	require.NoError(t, err)

	_, err = cartService.IncreaseQuantity(user.ID, product.ID, Selection{Color: "Red", Specification: strPtr("Storage"), Value: strPtr("128GB")})
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_DecreaseQuantity(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	sel := Selection{Color: "Blue"}
	_, err := cartService.AddToCart(user.ID, product.ID, sel, 2)
	require.NoError(t, err)

	cart, err := cartService.DecreaseQuantity(user.ID, product.ID, sel)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCartService_DecreaseQuantity_RemovesLineAtOne(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	sel := Selection{Color: "Blue"}
	_, err := cartService.AddToCart(user.ID, product.ID, sel, 1)
	require.NoError(t, err)

	cart, err := cartService.DecreaseQuantity(user.ID, product.ID, sel)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 0)

	// The line is gone, not persisted at zero
	fresh, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, fresh.Items, 0)
}

func TestCartService_RemoveItem_Specific(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, Selection{Color: "Blue"}, 1)
	require.NoError(t, err)
	_, err = cartService.AddToCart(user.ID, product.ID, Selection{
		Color: "Red", Specification: strPtr("Storage"), Value: strPtr("128GB"),
	}, 1)
	require.NoError(t, err)

	cart, err := cartService.RemoveItem(user.ID, product.ID, &Selection{Color: "Blue"})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Red", cart.Items[0].Color)
}

func TestCartService_RemoveItem_AllLinesOfProduct(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, Selection{Color: "Blue"}, 1)
	require.NoError(t, err)
	_, err = cartService.AddToCart(user.ID, product.ID, Selection{
		Color: "Red", Specification: strPtr("Storage"), Value: strPtr("128GB"),
	}, 1)
	require.NoError(t, err)

	cart, err := cartService.RemoveItem(user.ID, product.ID, nil)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 0)
}

func TestCartService_RemoveItem_AbsentLineIsNoop(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, Selection{Color: "Blue"}, 1)
	require.NoError(t, err)

	cart, err := cartService.RemoveItem(user.ID, product.ID, &Selection{Color: "Red", Specification: strPtr("Storage"), Value: strPtr("128GB")})
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCartService_ClearCart(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, Selection{Color: "Blue"}, 2)
	require.NoError(t, err)

	require.NoError(t, cartService.ClearCart(user.ID))

	cart, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 0)
}

func TestCartService_ClearCart_MissingCartIsNoop(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	assert.NoError(t, cartService.ClearCart(user.ID))
}

func TestCartService_GetCart_NotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	_, err := cartService.GetCart(user.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)
}
