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

type recordingNotifier struct {
	created []*model.Order
}

func (n *recordingNotifier) OrderCreated(order *model.Order) {
	n.created = append(n.created, order)
}

type checkoutFixture struct {
	checkout CheckoutService
	cart     CartService
	user     *model.User
	product  *model.Product
	notifier *recordingNotifier
	db       *gorm.DB
}

func setupCheckoutTest(t *testing.T) *checkoutFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	pricing := NewPricingService(cartRepo, productRepo)
	notifier := &recordingNotifier{}

	checkout := NewCheckoutService(userRepo, cartRepo, orderRepo, pricing, testDB, nil, notifier)
	cartService := NewCartService(cartRepo, productRepo)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Buyer",
		Role:         model.RoleUser,
		Active:       true,
	}
	require.NoError(t, testDB.Create(user).Error)

	return &checkoutFixture{
		checkout: checkout,
		cart:     cartService,
		user:     user,
		product:  createPhone(t, testDB),
		notifier: notifier,
		db:       testDB,
	}
}

func TestCheckoutService_Success(t *testing.T) {
	f := setupCheckoutTest(t)

	_, err := f.cart.AddToCart(f.user.ID, f.product.ID, Selection{Color: "Blue"}, 2)
	require.NoError(t, err)

	order, err := f.checkout.AttemptCheckout(f.user.ID, "123 Nguyen Trai, District 1")
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.NotEmpty(t, order.Code)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, int64(1600), order.TotalAmount)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, int64(800), order.OrderItems[0].Price)
	assert.Equal(t, 2, order.OrderItems[0].Quantity)

	// Variant pool decremented
	var variant model.Variant
	require.NoError(t, f.db.Where("product_id = ? AND color = ?", f.product.ID, "Blue").First(&variant).Error)
	assert.Equal(t, 2, variant.Quantity)

	// Cart cleared, row kept
	var cart model.Cart
	require.NoError(t, f.db.Preload("Items").Where("user_id = ?", f.user.ID).First(&cart).Error)
	assert.Len(t, cart.Items, 0)

	// Dashboard feed notified
	require.Len(t, f.notifier.created, 1)
	assert.Equal(t, order.ID, f.notifier.created[0].ID)
}

func TestCheckoutService_SubVariantPoolDecremented(t *testing.T) {
	f := setupCheckoutTest(t)

	_, err := f.cart.AddToCart(f.user.ID, f.product.ID, Selection{
		Color:         "Red",
		Specification: strPtr("Storage"),
		Value:         strPtr("256GB"),
	}, 2)
	require.NoError(t, err)

	order, err := f.checkout.AttemptCheckout(f.user.ID, "addr")
	require.NoError(t, err)
	assert.Equal(t, int64(2200), order.TotalAmount)

	// Only the sub-variant pool moves; the variant pool is untouched
	var sub model.SubVariant
	require.NoError(t, f.db.Where("specification = ? AND value = ?", "Storage", "256GB").First(&sub).Error)
	assert.Equal(t, 1, sub.Quantity)

	var variant model.Variant
	require.NoError(t, f.db.Where("product_id = ? AND color = ?", f.product.ID, "Red").First(&variant).Error)
	assert.Equal(t, 10, variant.Quantity)
}

func TestCheckoutService_MissingCart(t *testing.T) {
	f := setupCheckoutTest(t)

	_, err := f.checkout.AttemptCheckout(f.user.ID, "addr")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCheckoutService_EmptyCart(t *testing.T) {
	f := setupCheckoutTest(t)

	_, err := f.cart.AddToCart(f.user.ID, f.product.ID, Selection{Color: "Blue"}, 1)
	require.NoError(t, err)
	require.NoError(t, f.cart.ClearCart(f.user.ID))

	_, err = f.checkout.AttemptCheckout(f.user.ID, "addr")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutService_DeactivatedAccount(t *testing.T) {
	f := setupCheckoutTest(t)

	_, err := f.cart.AddToCart(f.user.ID, f.product.ID, Selection{Color: "Blue"}, 1)
	require.NoError(t, err)

	require.NoError(t, f.db.Model(f.user).Updates(map[string]interface{}{
		"active":              false,
		"deactivation_reason": "chargeback abuse",
	}).Error)

	_, err = f.checkout.AttemptCheckout(f.user.ID, "addr")
	var deactivated *AccountDeactivatedError
	require.ErrorAs(t, err, &deactivated)
	assert.Equal(t, "chargeback abuse", deactivated.Reason)

	// Cart untouched by the account rejection
	cart, err := f.cart.GetCart(f.user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCheckoutService_PriceDriftClearsCart(t *testing.T) {
	f := setupCheckoutTest(t)

	_, err := f.cart.AddToCart(f.user.ID, f.product.ID, Selection{Color: "Blue"}, 1)
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&model.Variant{}).
		Where("product_id = ? AND color = ?", f.product.ID, "Blue").
		Update("base_price", 850).Error)

	_, err = f.checkout.AttemptCheckout(f.user.ID, "addr")
	var drift *PriceDriftError
	require.ErrorAs(t, err, &drift)
	require.Len(t, drift.Reasons, 1)
	assert.Equal(t, DriftPriceChanged, drift.Reasons[0].Code)
	assert.Equal(t, int64(800), drift.Reasons[0].OldPrice)
	assert.Equal(t, int64(850), drift.Reasons[0].NewPrice)

	// Cart row survives, line items do not
	cart, err := f.cart.GetCart(f.user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 0)

	// No order was created
	var count int64
	f.db.Model(&model.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCheckoutService_RemovedProductDrifts(t *testing.T) {
	f := setupCheckoutTest(t)

	_, err := f.cart.AddToCart(f.user.ID, f.product.ID, Selection{Color: "Blue"}, 1)
	require.NoError(t, err)
	require.NoError(t, f.db.Delete(f.product).Error)

	_, err = f.checkout.AttemptCheckout(f.user.ID, "addr")
	var drift *PriceDriftError
	require.ErrorAs(t, err, &drift)
	require.Len(t, drift.Reasons, 1)
	assert.Equal(t, DriftProductRemoved, drift.Reasons[0].Code)
}

func TestCheckoutService_InsufficientStockRollsBack(t *testing.T) {
	f := setupCheckoutTest(t)

	_, err := f.cart.AddToCart(f.user.ID, f.product.ID, Selection{Color: "Blue"}, 3)
	require.NoError(t, err)

	// Stock drains between add and checkout; price stays put so
	// reconciliation passes and the transaction hits the stock wall.
	require.NoError(t, f.db.Model(&model.Variant{}).
		Where("product_id = ? AND color = ?", f.product.ID, "Blue").
		Update("quantity", 1).Error)

	_, err = f.checkout.AttemptCheckout(f.user.ID, "addr")
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Everything rolled back: no order, stock as it was, cart intact
	var count int64
	f.db.Model(&model.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)

	var variant model.Variant
	require.NoError(t, f.db.Where("product_id = ? AND color = ?", f.product.ID, "Blue").First(&variant).Error)
	assert.Equal(t, 1, variant.Quantity)

	cart, err := f.cart.GetCart(f.user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCheckoutService_UserNotFound(t *testing.T) {
	f := setupCheckoutTest(t)

	_, err := f.checkout.AttemptCheckout(9999, "addr")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
