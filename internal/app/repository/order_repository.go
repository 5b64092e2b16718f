package repository

import (
	"errors"
	"time"

	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/pkg/logger"
	"gorm.io/gorm"
)

// DailySales is one day of the admin revenue series. Day is the calendar
// date as "2006-01-02".
type DailySales struct {
	Day     string `json:"day"`
	Orders  int64  `json:"orders"`
	Revenue int64  `json:"revenue"`
}

type OrderRepository interface {
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	UpdateStatus(orderID uint, status model.OrderStatus) error
	UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error
	CountAll() (int64, error)
	TotalRevenue() (int64, error)
	SalesSince(since time.Time) ([]DailySales, error)
	ListAll(page, pageSize int) ([]model.Order, int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("OrderItems").
		Preload("OrderItems.Product").
		First(&order, id).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
				"order_id": id,
			})
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("user_id = ?", userID).
		Preload("OrderItems").
		Order("orders.created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(orderID uint, status model.OrderStatus) error {
	res := r.db.Model(&model.Order{}).Where("id = ?", orderID).Update("status", status)
	if res.Error != nil {
		logger.Error("Failed to update order status in database", res.Error, map[string]interface{}{
			"order_id": orderID,
		})
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error {
	res := r.db.Model(&model.Order{}).Where("id = ?", orderID).Update("payment_status", status)
	if res.Error != nil {
		logger.Error("Failed to update payment status in database", res.Error, map[string]interface{}{
			"order_id": orderID,
		})
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).Count(&count).Error
	return count, err
}

func (r *orderRepository) TotalRevenue() (int64, error) {
	var revenue int64
	err := r.db.Model(&model.Order{}).
		Where("status <> ?", model.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error
	return revenue, err
}

func (r *orderRepository) SalesSince(since time.Time) ([]DailySales, error) {
	var rows []DailySales
	err := r.db.Model(&model.Order{}).
		Where("created_at >= ? AND status <> ?", since, model.OrderStatusCancelled).
		Select("CAST(DATE(created_at) AS TEXT) AS day, COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS revenue").
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to aggregate daily sales in database", err, nil)
		return nil, err
	}
	return rows, nil
}

func (r *orderRepository) ListAll(page, pageSize int) ([]model.Order, int64, error) {
	var total int64
	if err := r.db.Model(&model.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.
		Preload("OrderItems").
		Preload("User").
		Order("orders.created_at DESC")
	if page > 0 && pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	var orders []model.Order
	if err := query.Find(&orders).Error; err != nil {
		logger.Error("Failed to list orders in database", err, nil)
		return nil, 0, err
	}
	return orders, total, nil
}
