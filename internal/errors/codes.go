package errors

// Error code constants returned in API responses.
// Format: CATEGORY_SPECIFIC_DETAIL. The frontend maps these to messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound = "RESOURCE_NOT_FOUND"
	ResourceConflict = "RESOURCE_CONFLICT"

	// ==================== Catalog (PRODUCT_) ====================
	ProductNotFound        = "PRODUCT_NOT_FOUND"
	ProductInvalidVariants = "PRODUCT_INVALID_VARIANTS"
	CategoryNotFound       = "CATEGORY_NOT_FOUND"
	MaterialNotFound       = "MATERIAL_NOT_FOUND"

	// ==================== Cart (CART_) ====================
	CartNotFound             = "CART_NOT_FOUND"
	CartItemNotFound         = "CART_ITEM_NOT_FOUND"
	CartSelectionUnavailable = "CART_SELECTION_UNAVAILABLE"
	CartInsufficientStock    = "CART_INSUFFICIENT_STOCK"
	CartConflict             = "CART_CONFLICT"
	CartPriceDrift           = "CART_PRICE_DRIFT"

	// ==================== Checkout (CHECKOUT_) ====================
	CheckoutEmptyCart          = "CHECKOUT_EMPTY_CART"
	CheckoutAccountDeactivated = "CHECKOUT_ACCOUNT_DEACTIVATED"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound = "ORDER_NOT_FOUND"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
