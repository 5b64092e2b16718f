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

type recordingStatusNotifier struct {
	changed []*model.Order
}

func (n *recordingStatusNotifier) OrderStatusChanged(order *model.Order) {
	n.changed = append(n.changed, order)
}

func setupOrderServiceTest(t *testing.T) (OrderService, *recordingStatusNotifier, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	notifier := &recordingStatusNotifier{}
	svc := NewOrderService(repository.NewOrderRepository(testDB), notifier)
	return svc, notifier, testDB
}

func createOrder(t *testing.T, testDB *gorm.DB, userID uint, code string, total int64) *model.Order {
	order := &model.Order{
		Code:            code,
		UserID:          userID,
		TotalAmount:     total,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		ShippingAddress: "1 Main St",
		OrderItems: []model.OrderItem{
			{ProductID: 1, Name: "Phone X", Color: "Red", Quantity: 1, Price: total},
		},
	}
	require.NoError(t, testDB.Create(order).Error)
	return order
}

func TestOrderService_GetUserOrders(t *testing.T) {
	svc, _, testDB := setupOrderServiceTest(t)

	createOrder(t, testDB, 1, "ORD-1", 1000)
	createOrder(t, testDB, 1, "ORD-2", 2000)
	createOrder(t, testDB, 2, "ORD-3", 3000)

	orders, err := svc.GetUserOrders(1)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, uint(1), o.UserID)
	}
}

func TestOrderService_GetOrderByID(t *testing.T) {
	svc, _, testDB := setupOrderServiceTest(t)

	order := createOrder(t, testDB, 1, "ORD-1", 1500)

	loaded, err := svc.GetOrderByID(1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", loaded.Code)
	require.Len(t, loaded.OrderItems, 1)
	assert.Equal(t, "Phone X", loaded.OrderItems[0].Name)
}

func TestOrderService_GetOrderByID_OwnershipMismatch(t *testing.T) {
	svc, _, testDB := setupOrderServiceTest(t)

	order := createOrder(t, testDB, 1, "ORD-1", 1500)

	// Another user's order reads as not found
	_, err := svc.GetOrderByID(2, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_GetOrderByID_NotFound(t *testing.T) {
	svc, _, _ := setupOrderServiceTest(t)

	_, err := svc.GetOrderByID(1, 4242)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	svc, notifier, testDB := setupOrderServiceTest(t)

	order := createOrder(t, testDB, 1, "ORD-1", 1500)

	require.NoError(t, svc.UpdateOrderStatus(order.ID, model.OrderStatusShipping))

	loaded, err := svc.GetOrderByID(1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipping, loaded.Status)

	require.Len(t, notifier.changed, 1)
	assert.Equal(t, order.ID, notifier.changed[0].ID)
	assert.Equal(t, model.OrderStatusShipping, notifier.changed[0].Status)
}

func TestOrderService_UpdateOrderStatus_NotFound(t *testing.T) {
	svc, notifier, _ := setupOrderServiceTest(t)

	err := svc.UpdateOrderStatus(4242, model.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Empty(t, notifier.changed)
}

func TestOrderService_UpdatePaymentStatus(t *testing.T) {
	svc, _, testDB := setupOrderServiceTest(t)

	order := createOrder(t, testDB, 1, "ORD-1", 1500)

	require.NoError(t, svc.UpdatePaymentStatus(order.ID, model.PaymentStatusCompleted))

	loaded, err := svc.GetOrderByID(1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, loaded.PaymentStatus)
}

func TestOrderService_UpdatePaymentStatus_NotFound(t *testing.T) {
	svc, _, _ := setupOrderServiceTest(t)

	err := svc.UpdatePaymentStatus(4242, model.PaymentStatusRefunded)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_ListAllOrders_Paging(t *testing.T) {
	svc, _, testDB := setupOrderServiceTest(t)

	createOrder(t, testDB, 1, "ORD-1", 100)
	createOrder(t, testDB, 2, "ORD-2", 200)
	createOrder(t, testDB, 3, "ORD-3", 300)

	orders, total, err := svc.ListAllOrders(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, orders, 2)

	orders, total, err = svc.ListAllOrders(2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, orders, 1)
}
