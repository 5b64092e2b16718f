package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/internal/app/service"
	"github.com/clickmobile/clickmobile-backend/internal/errors"
	"github.com/clickmobile/clickmobile-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService     service.CartService
	pricingService  service.PricingService
	checkoutService service.CheckoutService
}

func NewCartController(
	cartService service.CartService,
	pricingService service.PricingService,
	checkoutService service.CheckoutService,
) *CartController {
	return &CartController{
		cartService:     cartService,
		pricingService:  pricingService,
		checkoutService: checkoutService,
	}
}

type AddToCartRequest struct {
	ProductID     uint    `json:"product_id" binding:"required"`
	Color         string  `json:"color" binding:"required"`
	Specification *string `json:"specification"`
	Value         *string `json:"value"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
}

type CartLineRequest struct {
	ProductID     uint    `json:"product_id" binding:"required"`
	Color         string  `json:"color" binding:"required"`
	Specification *string `json:"specification"`
	Value         *string `json:"value"`
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
}

func cartResponse(cart *model.Cart) gin.H {
	if cart == nil {
		return gin.H{
			"items":    []model.CartItem{},
			"count":    0,
			"subtotal": int64(0),
		}
	}
	return gin.H{
		"items":    cart.Items,
		"count":    len(cart.Items),
		"subtotal": cart.Subtotal(),
	}
}

// GetCart returns the user's cart with the snapshot subtotal. A user who has
// never added anything gets an empty cart back.
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	cart, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		if stderrors.Is(err, service.ErrCartNotFound) {
			c.JSON(http.StatusOK, cartResponse(nil))
			return
		}
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.Internal(c, "Failed to fetch cart")
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

// ValidateCart reconciles every line item against the live catalog and
// reports all drift reasons without touching the cart.
// GET /api/v1/cart/validate
func (ctrl *CartController) ValidateCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	result, err := ctrl.pricingService.ReconcileAll(userID)
	if err != nil {
		if stderrors.Is(err, service.ErrCartNotFound) {
			errors.NotFound(c, errors.CartNotFound, "Cart not found")
			return
		}
		log.Error("Cart validation failed", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.Internal(c, "Failed to validate cart")
		return
	}

	log.Info("Cart validated", map[string]interface{}{
		"user_id":    userID,
		"drifted":    result.Drifted,
		"item_count": result.ItemCount,
	})

	c.JSON(http.StatusOK, result)
}

// AddToCart adds a selection to the cart, merging with an existing line for
// the same selection.
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	sel := service.Selection{
		Color:         req.Color,
		Specification: req.Specification,
		Value:         req.Value,
	}

	cart, err := ctrl.cartService.AddToCart(userID, req.ProductID, sel, req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err, userID, req.ProductID)
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": req.ProductID,
		"color":      req.Color,
		"quantity":   req.Quantity,
	})

	c.JSON(http.StatusCreated, cartResponse(cart))
}

// IncreaseQuantity bumps a line's quantity by one at its snapshot price.
// PUT /api/v1/cart/increase
func (ctrl *CartController) IncreaseQuantity(c *gin.Context) {
	ctrl.adjustQuantity(c, ctrl.cartService.IncreaseQuantity)
}

// DecreaseQuantity lowers a line's quantity by one, removing the line at
// zero.
// PUT /api/v1/cart/decrease
func (ctrl *CartController) DecreaseQuantity(c *gin.Context) {
	ctrl.adjustQuantity(c, ctrl.cartService.DecreaseQuantity)
}

func (ctrl *CartController) adjustQuantity(c *gin.Context, fn func(userID, productID uint, sel service.Selection) (*model.Cart, error)) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req CartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cart, err := fn(userID, req.ProductID, service.Selection{
		Color:         req.Color,
		Specification: req.Specification,
		Value:         req.Value,
	})
	if err != nil {
		ctrl.respondCartError(c, err, userID, req.ProductID)
		return
	}

	log.Info("Cart quantity adjusted", map[string]interface{}{
		"user_id":    userID,
		"product_id": req.ProductID,
		"color":      req.Color,
	})

	c.JSON(http.StatusOK, cartResponse(cart))
}

// RemoveItem removes the matching lines from the cart. Without a color query
// parameter every line of the product is removed. Removing an absent line
// succeeds.
// DELETE /api/v1/cart/items/:product_id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var sel *service.Selection
	if color := c.Query("color"); color != "" {
		sel = &service.Selection{Color: color}
		if spec := c.Query("specification"); spec != "" {
			value := c.Query("value")
			sel.Specification = &spec
			sel.Value = &value
		}
	}

	cart, err := ctrl.cartService.RemoveItem(userID, uint(productID), sel)
	if err != nil {
		ctrl.respondCartError(c, err, userID, uint(productID))
		return
	}

	log.Info("Cart item removed", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	c.JSON(http.StatusOK, cartResponse(cart))
}

// ClearCart empties the cart. Clearing a missing cart succeeds.
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		ctrl.respondCartError(c, err, userID, 0)
		return
	}

	log.Info("Cart cleared", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, cartResponse(nil))
}

// Checkout runs the checkout gate: account check, price reconciliation,
// stock-locked order creation. On price drift the cart has already been
// emptied and the drift reasons are returned.
// POST /api/v1/cart/checkout
func (ctrl *CartController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Shipping address is required")
		return
	}

	order, err := ctrl.checkoutService.AttemptCheckout(userID, req.ShippingAddress)
	if err != nil {
		var deactivated *service.AccountDeactivatedError
		if stderrors.As(err, &deactivated) {
			log.Warn("Checkout rejected: account deactivated", map[string]interface{}{
				"user_id": userID,
			})
			errors.RespondWithDetails(c, http.StatusForbidden, errors.CheckoutAccountDeactivated,
				"Account is deactivated", gin.H{"reason": deactivated.Reason})
			return
		}

		var drift *service.PriceDriftError
		if stderrors.As(err, &drift) {
			log.Warn("Checkout rejected: price drift", map[string]interface{}{
				"user_id":       userID,
				"drifted_items": len(drift.Reasons),
			})
			errors.RespondWithDetails(c, http.StatusConflict, errors.CartPriceDrift,
				"Prices or availability changed, your cart has been emptied", gin.H{"reasons": drift.Reasons})
			return
		}

		switch {
		case stderrors.Is(err, service.ErrUserNotFound):
			errors.NotFound(c, errors.ResourceNotFound, "User not found")
		case stderrors.Is(err, service.ErrCartNotFound):
			errors.NotFound(c, errors.CartNotFound, "Cart not found")
		case stderrors.Is(err, service.ErrEmptyCart):
			errors.BadRequest(c, errors.CheckoutEmptyCart, "Cart is empty")
		case stderrors.Is(err, service.ErrInsufficientStock):
			errors.Conflict(c, errors.CartInsufficientStock, "Insufficient stock for one or more items")
		case stderrors.Is(err, service.ErrCartConflict):
			errors.Conflict(c, errors.CartConflict, "Cart was modified concurrently, please retry")
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"user_id": userID,
			})
			errors.Internal(c, "Checkout failed")
		}
		return
	}

	log.Info("Checkout completed", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"order_code":   order.Code,
		"total_amount": order.TotalAmount,
	})

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

// respondCartError maps cart service errors to HTTP responses.
func (ctrl *CartController) respondCartError(c *gin.Context, err error, userID, productID uint) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case stderrors.Is(err, service.ErrProductNotFound):
		errors.NotFound(c, errors.ProductNotFound, "Product not found")
	case stderrors.Is(err, service.ErrCartNotFound):
		errors.NotFound(c, errors.CartNotFound, "Cart not found")
	case stderrors.Is(err, service.ErrCartItemNotFound):
		errors.NotFound(c, errors.CartItemNotFound, "Cart item not found")
	case stderrors.Is(err, service.ErrSelectionUnavailable):
		errors.BadRequest(c, errors.CartSelectionUnavailable, "Selected option is no longer available")
	case stderrors.Is(err, service.ErrInsufficientStock):
		errors.BadRequest(c, errors.CartInsufficientStock, "Insufficient stock")
	case stderrors.Is(err, service.ErrInvalidQuantity):
		errors.BadRequest(c, errors.ValidationInvalidInput, "Quantity must be positive")
	case stderrors.Is(err, service.ErrCartConflict):
		errors.Conflict(c, errors.CartConflict, "Cart was modified concurrently, please retry")
	default:
		log.Error("Cart operation failed", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		errors.Internal(c, "Cart operation failed")
	}
}
