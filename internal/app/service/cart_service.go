package service

import (
	"errors"

	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/internal/app/repository"
	"github.com/clickmobile/clickmobile-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrSelectionUnavailable = errors.New("selection no longer available")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrCartConflict         = errors.New("cart was modified concurrently")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
)

// Selection identifies a purchasable configuration: the variant by color
// plus an optional sub-variant by (specification, value). Size is carried
// for display only and never used for lookup.
type Selection struct {
	Color         string  `json:"color"`
	Specification *string `json:"specification,omitempty"`
	Value         *string `json:"value,omitempty"`
}

// valid reports whether the sub-variant part of the selection is either
// fully absent or fully present. A half-specified sub-variant is treated
// like a missing one, never defaulted.
func (sel Selection) valid() bool {
	return (sel.Specification == nil) == (sel.Value == nil)
}

type CartService interface {
	GetCart(userID uint) (*model.Cart, error)
	AddToCart(userID, productID uint, sel Selection, quantity int) (*model.Cart, error)
	IncreaseQuantity(userID, productID uint, sel Selection) (*model.Cart, error)
	DecreaseQuantity(userID, productID uint, sel Selection) (*model.Cart, error)
	// RemoveItem deletes the matching line items. A nil selection removes
	// every line of the product. Removing an absent line is a no-op success.
	RemoveItem(userID, productID uint, sel *Selection) (*model.Cart, error)
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetCart(userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return cart, nil
}

// resolved is a selection resolved against the live catalog.
type resolved struct {
	product *model.Product
	variant *model.Variant
	sub     *model.SubVariant
}

// availableQuantity is the stock pool backing the selection: the
// sub-variant's own pool when one is selected, otherwise the variant's.
// The two pools are never combined.
func (r *resolved) availableQuantity() int {
	if r.sub != nil {
		return r.sub.Quantity
	}
	return r.variant.Quantity
}

func (s *cartService) resolveSelection(productID uint, sel Selection) (*resolved, error) {
	if !sel.valid() {
		return nil, ErrSelectionUnavailable
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.Status != model.ProductActive {
		return nil, ErrSelectionUnavailable
	}

	variant := product.FindVariantByColor(sel.Color)
	if variant == nil {
		return nil, ErrSelectionUnavailable
	}

	res := &resolved{product: product, variant: variant}
	if sel.Specification != nil {
		res.sub = variant.FindSubVariant(*sel.Specification, *sel.Value)
		if res.sub == nil {
			return nil, ErrSelectionUnavailable
		}
	}
	return res, nil
}

func (s *cartService) AddToCart(userID, productID uint, sel Selection, quantity int) (*model.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"color":      sel.Color,
		"quantity":   quantity,
	})

	return s.mutate(userID, true, func(cart *model.Cart) error {
		res, err := s.resolveSelection(productID, sel)
		if err != nil {
			return err
		}

		existing := findLine(cart, productID, sel.Color, sel.Specification, sel.Value)
		requested := quantity
		if existing != nil {
			requested += existing.Quantity
		}
		if requested > res.availableQuantity() {
			logger.Warn("Cannot add to cart: insufficient stock", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
				"requested":  requested,
				"available":  res.availableQuantity(),
			})
			return ErrInsufficientStock
		}

		if existing != nil {
			// Re-adding the same selection merges into the existing line.
			// The add-time price snapshot is kept as is.
			existing.Quantity = requested
			return nil
		}

		var image string
		if len(res.product.Images) > 0 {
			image = res.product.Images[0]
		}
		cart.Items = append(cart.Items, model.CartItem{
			ProductID:     productID,
			Name:          res.product.Name,
			Image:         image,
			Size:          res.variant.Size,
			Color:         sel.Color,
			Specification: sel.Specification,
			Value:         sel.Value,
			UnitPrice:     res.variant.EffectivePrice(res.sub),
			Quantity:      quantity,
		})
		return nil
	})
}

func (s *cartService) IncreaseQuantity(userID, productID uint, sel Selection) (*model.Cart, error) {
	logger.Info("Increasing cart item quantity", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"color":      sel.Color,
	})

	return s.mutate(userID, false, func(cart *model.Cart) error {
		line := findLine(cart, productID, sel.Color, sel.Specification, sel.Value)
		if line == nil {
			return ErrCartItemNotFound
		}

		// The selection is re-resolved against the live catalog before any
		// mutation; a resolution failure rejects the operation outright.
		res, err := s.resolveSelection(productID, sel)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				return ErrSelectionUnavailable
			}
			return err
		}

		if line.Quantity+1 > res.availableQuantity() {
			logger.Warn("Cannot increase quantity: insufficient stock", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
				"requested":  line.Quantity + 1,
				"available":  res.availableQuantity(),
			})
			return ErrInsufficientStock
		}

		// Quantity only; the unit price snapshot is never rewritten here.
		line.Quantity++
		return nil
	})
}

func (s *cartService) DecreaseQuantity(userID, productID uint, sel Selection) (*model.Cart, error) {
	logger.Info("Decreasing cart item quantity", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"color":      sel.Color,
	})

	return s.mutate(userID, false, func(cart *model.Cart) error {
		line := findLine(cart, productID, sel.Color, sel.Specification, sel.Value)
		if line == nil {
			return ErrCartItemNotFound
		}

		if line.Quantity > 1 {
			line.Quantity--
			return nil
		}

		// Decreasing a quantity-1 line deletes it; a line never persists
		// with quantity zero.
		removeLines(cart, productID, sel.Color, sel.Specification, sel.Value, false)
		return nil
	})
}

func (s *cartService) RemoveItem(userID, productID uint, sel *Selection) (*model.Cart, error) {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	return s.mutate(userID, false, func(cart *model.Cart) error {
		var removed bool
		if sel == nil {
			removed = removeLines(cart, productID, "", nil, nil, true)
		} else {
			removed = removeLines(cart, productID, sel.Color, sel.Specification, sel.Value, false)
		}
		if !removed {
			// Idempotent: the line is already gone.
			return errNothingToSave
		}
		return nil
	})
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing user cart", map[string]interface{}{
		"user_id": userID,
	})

	_, err := s.mutate(userID, false, func(cart *model.Cart) error {
		cart.Items = nil
		return nil
	})
	if errors.Is(err, ErrCartNotFound) {
		return nil
	}
	return err
}

// errNothingToSave is returned by a mutation closure when the cart is
// already in the requested state; the write is skipped and the cart is
// returned as a success.
var errNothingToSave = errors.New("nothing to save")

// mutate loads the user's cart, applies fn and persists the result with a
// compare-and-swap on the cart version. A version conflict is retried once
// against a fresh read (fn re-runs its own checks); a second conflict is
// surfaced as ErrCartConflict.
func (s *cartService) mutate(userID uint, createIfMissing bool, fn func(cart *model.Cart) error) (*model.Cart, error) {
	for attempt := 0; attempt < 2; attempt++ {
		cart, err := s.cartRepo.FindByUserID(userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			if !createIfMissing {
				return nil, ErrCartNotFound
			}
			// Carts are created lazily on first add.
			cart = &model.Cart{UserID: userID}
			if err := s.cartRepo.Create(cart); err != nil {
				return nil, err
			}
		}

		if err := fn(cart); err != nil {
			if errors.Is(err, errNothingToSave) {
				return cart, nil
			}
			return nil, err
		}

		err = s.cartRepo.Save(cart)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}

		logger.Warn("Cart mutation hit version conflict, retrying", map[string]interface{}{
			"user_id": userID,
			"attempt": attempt + 1,
		})
	}

	return nil, ErrCartConflict
}

func findLine(cart *model.Cart, productID uint, color string, specification, value *string) *model.CartItem {
	for i := range cart.Items {
		if cart.Items[i].MatchesSelection(productID, color, specification, value) {
			return &cart.Items[i]
		}
	}
	return nil
}

// removeLines drops matching line items and reports whether anything was
// removed. With anyColor set, every line of the product goes regardless of
// selection.
func removeLines(cart *model.Cart, productID uint, color string, specification, value *string, anyColor bool) bool {
	kept := cart.Items[:0]
	removed := false
	for i := range cart.Items {
		item := cart.Items[i]
		match := false
		if anyColor {
			match = item.ProductID == productID
		} else {
			match = item.MatchesSelection(productID, color, specification, value)
		}
		if match {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	cart.Items = kept
	return removed
}
