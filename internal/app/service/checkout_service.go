package service

import (
	"errors"
	"fmt"

	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/internal/app/repository"
	"github.com/clickmobile/clickmobile-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmptyCart    = errors.New("cart is empty")
)

// AccountDeactivatedError rejects checkout for a deactivated account,
// carrying the reason stored on the user record.
type AccountDeactivatedError struct {
	Reason string
}

func (e *AccountDeactivatedError) Error() string {
	if e.Reason == "" {
		return "account is deactivated"
	}
	return fmt.Sprintf("account is deactivated: %s", e.Reason)
}

// PriceDriftError rejects checkout because the cart no longer matches the
// catalog. The cart's line items have been cleared by the time the caller
// sees this error.
type PriceDriftError struct {
	Reasons []DriftReason
}

func (e *PriceDriftError) Error() string {
	return fmt.Sprintf("cart price or availability changed (%d item(s))", len(e.Reasons))
}

// ConfirmationMailer sends the order confirmation mail. Nil disables mail.
type ConfirmationMailer interface {
	SendOrderConfirmation(toEmail string, order *model.Order) error
}

// OrderNotifier pushes order events to connected admin dashboards. Nil
// disables the feed.
type OrderNotifier interface {
	OrderCreated(order *model.Order)
}

type CheckoutService interface {
	// AttemptCheckout validates the account, reconciles the cart against
	// the catalog and, when everything holds, creates the order, decrements
	// stock and clears the cart in one transaction.
	AttemptCheckout(userID uint, shippingAddress string) (*model.Order, error)
}

type checkoutService struct {
	userRepo  repository.UserRepository
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
	pricing   PricingService
	db        *gorm.DB
	mailer    ConfirmationMailer
	notifier  OrderNotifier
}

func NewCheckoutService(
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	pricing PricingService,
	db *gorm.DB,
	mailer ConfirmationMailer,
	notifier OrderNotifier,
) CheckoutService {
	return &checkoutService{
		userRepo:  userRepo,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		pricing:   pricing,
		db:        db,
		mailer:    mailer,
		notifier:  notifier,
	}
}

func (s *checkoutService) AttemptCheckout(userID uint, shippingAddress string) (*model.Order, error) {
	logger.Info("Attempting checkout", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.Active {
		logger.Warn("Checkout rejected: account deactivated", map[string]interface{}{
			"user_id": userID,
			"reason":  user.DeactivationReason,
		})
		return nil, &AccountDeactivatedError{Reason: user.DeactivationReason}
	}

	cart, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	result, err := s.pricing.ReconcileCart(cart, false)
	if err != nil {
		return nil, err
	}
	if result.Drifted {
		// Clear the stale cart so the user rebuilds it against current
		// prices; the reasons travel back with the rejection.
		cart.Items = nil
		if err := s.cartRepo.Save(cart); err != nil && !errors.Is(err, repository.ErrVersionConflict) {
			logger.Error("Failed to clear drifted cart", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil, err
		}
		return nil, &PriceDriftError{Reasons: result.Reasons}
	}

	if len(cart.Items) == 0 {
		logger.Warn("Checkout rejected: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	// Snapshot prices were just proven equal to live prices, so the total
	// is computed from the snapshots.
	order, err := s.createOrder(user, cart, shippingAddress, result.Total)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		go func(email string, o *model.Order) {
			if err := s.mailer.SendOrderConfirmation(email, o); err != nil {
				logger.Error("Failed to send order confirmation mail", err, map[string]interface{}{
					"order_id": o.ID,
				})
			}
		}(user.Email, order)
	}
	if s.notifier != nil {
		s.notifier.OrderCreated(order)
	}

	logger.Info("Checkout completed", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"order_code":   order.Code,
		"total_amount": order.TotalAmount,
	})
	return order, nil
}

func (s *checkoutService) createOrder(user *model.User, cart *model.Cart, shippingAddress string, total int64) (*model.Order, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": user.ID,
			})
		}
	}()

	var orderItems []model.OrderItem
	for _, item := range cart.Items {
		variant, sub, err := s.lockSelection(tx, &item)
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		// Stock comes out of exactly one pool: the sub-variant's when one
		// was selected, the variant's otherwise.
		if sub != nil {
			if sub.Quantity < item.Quantity {
				tx.Rollback()
				return nil, ErrInsufficientStock
			}
			if err := tx.Model(&model.SubVariant{}).
				Where("id = ?", sub.ID).
				Update("quantity", gorm.Expr("quantity - ?", item.Quantity)).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		} else {
			if variant.Quantity < item.Quantity {
				tx.Rollback()
				return nil, ErrInsufficientStock
			}
			if err := tx.Model(&model.Variant{}).
				Where("id = ?", variant.ID).
				Update("quantity", gorm.Expr("quantity - ?", item.Quantity)).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}

		var selectionSnapshot string
		if item.HasSubVariant() {
			selectionSnapshot = fmt.Sprintf("%s: %s", *item.Specification, *item.Value)
		}
		orderItems = append(orderItems, model.OrderItem{
			ProductID:         item.ProductID,
			Name:              item.Name,
			Size:              item.Size,
			Color:             item.Color,
			SelectionSnapshot: selectionSnapshot,
			Quantity:          item.Quantity,
			Price:             item.UnitPrice,
		})
	}

	order := &model.Order{
		Code:            uuid.New().String(),
		UserID:          user.ID,
		TotalAmount:     total,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		ShippingAddress: shippingAddress,
		OrderItems:      orderItems,
	}
	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	// The cart is cleared, not deleted, inside the same transaction. The
	// version bump keeps racing mutations honest.
	res := tx.Model(&model.Cart{}).
		Where("id = ? AND version = ?", cart.ID, cart.Version).
		Update("version", gorm.Expr("version + 1"))
	if res.Error != nil {
		tx.Rollback()
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrCartConflict
	}
	if err := tx.Unscoped().Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit checkout transaction", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	return s.orderRepo.FindByID(order.ID)
}

// lockSelection re-reads the line item's variant (and sub-variant) with row
// locks for the stock decrement. Reconciliation already proved the
// selection resolvable moments ago, so a miss here means it raced away.
func (s *checkoutService) lockSelection(tx *gorm.DB, item *model.CartItem) (*model.Variant, *model.SubVariant, error) {
	var variant model.Variant
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND color = ?", item.ProductID, item.Color).
		First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSelectionUnavailable
		}
		return nil, nil, err
	}

	if !item.HasSubVariant() {
		return &variant, nil, nil
	}

	var sub model.SubVariant
	err = tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("variant_id = ? AND specification = ? AND value = ?", variant.ID, *item.Specification, *item.Value).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSelectionUnavailable
		}
		return nil, nil, err
	}
	return &variant, &sub, nil
}
