package service

import (
	"errors"

	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/internal/app/repository"
	"github.com/clickmobile/clickmobile-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrCartNotFound = errors.New("cart not found")

type DriftCode string

const (
	DriftProductRemoved    DriftCode = "product_removed"
	DriftVariantRemoved    DriftCode = "variant_removed"
	DriftSubVariantRemoved DriftCode = "sub_variant_removed"
	DriftPriceChanged      DriftCode = "price_changed"
)

// DriftReason names one line item whose catalog state no longer matches its
// add-time snapshot.
type DriftReason struct {
	Code          DriftCode `json:"code"`
	ProductID     uint      `json:"product_id"`
	Color         string    `json:"color,omitempty"`
	Specification string    `json:"specification,omitempty"`
	Value         string    `json:"value,omitempty"`
	OldPrice      int64     `json:"old_price,omitempty"`
	NewPrice      int64     `json:"new_price,omitempty"`
}

// ReconcileResult is the outcome of one reconciliation pass. Total is the
// snapshot total and is only meaningful when Drifted is false.
type ReconcileResult struct {
	Drifted   bool          `json:"drifted"`
	Reasons   []DriftReason `json:"reasons,omitempty"`
	Total     int64         `json:"total"`
	ItemCount int           `json:"item_count"`
}

// PricingService re-derives the price of every cart line item from current
// catalog state and flags drift. It is read-only: detecting drift never
// mutates the cart; the checkout gate decides what to do with the result.
type PricingService interface {
	// Reconcile stops at the first drifted line item. This is the mode
	// checkout uses.
	Reconcile(userID uint) (*ReconcileResult, error)
	// ReconcileAll walks the whole cart and collects every drift reason,
	// for user-facing diagnostics.
	ReconcileAll(userID uint) (*ReconcileResult, error)
	// ReconcileCart runs the pass against an already-loaded cart.
	ReconcileCart(cart *model.Cart, collectAll bool) (*ReconcileResult, error)
}

type pricingService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewPricingService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) PricingService {
	return &pricingService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *pricingService) Reconcile(userID uint) (*ReconcileResult, error) {
	return s.reconcile(userID, false)
}

func (s *pricingService) ReconcileAll(userID uint) (*ReconcileResult, error) {
	return s.reconcile(userID, true)
}

func (s *pricingService) reconcile(userID uint, collectAll bool) (*ReconcileResult, error) {
	cart, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A missing cart is a precondition failure, not an empty-cart
			// consistent result. Callers branch on it separately.
			logger.Warn("Cannot reconcile: cart not found", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrCartNotFound
		}
		logger.Error("Failed to fetch cart for reconciliation", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return s.ReconcileCart(cart, collectAll)
}

func (s *pricingService) ReconcileCart(cart *model.Cart, collectAll bool) (*ReconcileResult, error) {
	result := &ReconcileResult{ItemCount: len(cart.Items)}
	if len(cart.Items) == 0 {
		return result, nil
	}

	// Each distinct product is resolved once per pass.
	products := make(map[uint]*model.Product)

	for i := range cart.Items {
		item := &cart.Items[i]

		reason, err := s.reconcileItem(item, products)
		if err != nil {
			return nil, err
		}
		if reason != nil {
			result.Drifted = true
			result.Reasons = append(result.Reasons, *reason)
			if !collectAll {
				break
			}
			continue
		}

		result.Total += item.Subtotal()
	}

	if result.Drifted {
		result.Total = 0
		logger.Warn("Cart drifted from catalog", map[string]interface{}{
			"cart_id":      cart.ID,
			"user_id":      cart.UserID,
			"reason_count": len(result.Reasons),
			"first_reason": result.Reasons[0].Code,
		})
	} else {
		logger.Debug("Cart consistent with catalog", map[string]interface{}{
			"cart_id":    cart.ID,
			"user_id":    cart.UserID,
			"item_count": result.ItemCount,
			"total":      result.Total,
		})
	}
	return result, nil
}

// reconcileItem resolves one line item against the catalog and returns a
// drift reason, or nil when the snapshot still matches exactly.
func (s *pricingService) reconcileItem(item *model.CartItem, products map[uint]*model.Product) (*DriftReason, error) {
	product, ok := products[item.ProductID]
	if !ok {
		var err error
		product, err = s.productRepo.FindByID(item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &DriftReason{
					Code:      DriftProductRemoved,
					ProductID: item.ProductID,
				}, nil
			}
			return nil, err
		}
		products[item.ProductID] = product
	}

	variant := product.FindVariantByColor(item.Color)
	if variant == nil {
		return &DriftReason{
			Code:      DriftVariantRemoved,
			ProductID: item.ProductID,
			Color:     item.Color,
		}, nil
	}

	var sub *model.SubVariant
	if item.HasSubVariant() {
		sub = variant.FindSubVariant(*item.Specification, *item.Value)
		if sub == nil {
			return &DriftReason{
				Code:          DriftSubVariantRemoved,
				ProductID:     item.ProductID,
				Color:         item.Color,
				Specification: *item.Specification,
				Value:         *item.Value,
			}, nil
		}
	}

	// Prices are integral currency units, so the comparison is exact.
	if live := variant.EffectivePrice(sub); live != item.UnitPrice {
		reason := &DriftReason{
			Code:      DriftPriceChanged,
			ProductID: item.ProductID,
			Color:     item.Color,
			OldPrice:  item.UnitPrice,
			NewPrice:  live,
		}
		if item.HasSubVariant() {
			reason.Specification = *item.Specification
			reason.Value = *item.Value
		}
		return reason, nil
	}

	return nil, nil
}
