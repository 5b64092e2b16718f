package service

import (
	"errors"

	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/internal/app/repository"
	"github.com/clickmobile/clickmobile-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderService covers the order lifecycle after checkout has created the
// order: history, detail and back-office status updates.
type OrderService interface {
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	ListAllOrders(page, pageSize int) ([]model.Order, int64, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) error
	UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error
}

// StatusNotifier pushes status transitions to connected admin dashboards.
// Nil disables the feed.
type StatusNotifier interface {
	OrderStatusChanged(order *model.Order)
}

type orderService struct {
	orderRepo repository.OrderRepository
	notifier  StatusNotifier
}

func NewOrderService(orderRepo repository.OrderRepository, notifier StatusNotifier) OrderService {
	return &orderService{orderRepo: orderRepo, notifier: notifier}
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListAllOrders(page, pageSize int) ([]model.Order, int64, error) {
	return s.orderRepo.ListAll(page, pageSize)
}

func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) error {
	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	if s.notifier != nil {
		if order, err := s.orderRepo.FindByID(orderID); err == nil {
			s.notifier.OrderStatusChanged(order)
		}
	}
	return nil
}

func (s *orderService) UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error {
	if err := s.orderRepo.UpdatePaymentStatus(orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	logger.Info("Payment status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return nil
}
