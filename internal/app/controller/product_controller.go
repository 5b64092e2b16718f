package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/internal/app/repository"
	"github.com/clickmobile/clickmobile-backend/internal/app/service"
	"github.com/clickmobile/clickmobile-backend/internal/errors"
	"github.com/clickmobile/clickmobile-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type SubVariantRequest struct {
	Specification   string `json:"specification" binding:"required"`
	Value           string `json:"value" binding:"required"`
	AdditionalPrice int64  `json:"additional_price"`
	Quantity        int    `json:"quantity" binding:"gte=0"`
}

type VariantRequest struct {
	Size        string              `json:"size" binding:"required"`
	Color       string              `json:"color" binding:"required"`
	BasePrice   int64               `json:"base_price" binding:"required,gte=0"`
	Discount    int64               `json:"discount" binding:"gte=0"`
	Quantity    int                 `json:"quantity" binding:"gte=0"`
	SubVariants []SubVariantRequest `json:"sub_variants"`
}

type ProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Brand       string           `json:"brand"`
	Images      []string         `json:"images"`
	Status      string           `json:"status"`
	CategoryID  *uint            `json:"category_id"`
	MaterialID  *uint            `json:"material_id"`
	Variants    []VariantRequest `json:"variants" binding:"required,min=1,dive"`
}

func (req *ProductRequest) toModel() *model.Product {
	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Images:      pq.StringArray(req.Images),
		Status:      model.ProductActive,
		CategoryID:  req.CategoryID,
		MaterialID:  req.MaterialID,
	}
	if req.Status != "" {
		product.Status = model.ProductStatus(req.Status)
	}
	for _, v := range req.Variants {
		variant := model.Variant{
			Size:      v.Size,
			Color:     v.Color,
			BasePrice: v.BasePrice,
			Discount:  v.Discount,
			Quantity:  v.Quantity,
		}
		for _, sv := range v.SubVariants {
			variant.SubVariants = append(variant.SubVariants, model.SubVariant{
				Specification:   sv.Specification,
				Value:           sv.Value,
				AdditionalPrice: sv.AdditionalPrice,
				Quantity:        sv.Quantity,
			})
		}
		product.Variants = append(product.Variants, variant)
	}
	return product
}

// ListProducts returns a filtered page of products.
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProductFilter{
		Brand:   c.Query("brand"),
		Keyword: c.Query("keyword"),
		Status:  model.ProductStatus(c.Query("status")),
	}
	if idStr := c.Query("category_id"); idStr != "" {
		if id, err := strconv.ParseUint(idStr, 10, 32); err == nil {
			categoryID := uint(id)
			filter.CategoryID = &categoryID
		}
	}
	if idStr := c.Query("material_id"); idStr != "" {
		if id, err := strconv.ParseUint(idStr, 10, 32); err == nil {
			materialID := uint(id)
			filter.MaterialID = &materialID
		}
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	products, total, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		errors.Internal(c, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
		"page":     filter.Page,
	})
}

// GetProduct returns a product with its full variant tree.
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetProductByID(uint(id))
	if err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		errors.Internal(c, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct creates a product with its variants. Admin only.
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid product data")
		return
	}

	product := req.toModel()
	if err := ctrl.productService.CreateProduct(product); err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
		"variants":   len(product.Variants),
	})

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct replaces a product and its variant tree. Admin only.
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid product data")
		return
	}

	product := req.toModel()
	product.ID = uint(id)
	if err := ctrl.productService.UpdateProduct(product); err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	log.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct soft-deletes a product. Admin only. Carts holding the
// product surface it as drift on the next reconciliation.
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.productService.DeleteProduct(uint(id)); err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		errors.Internal(c, "Failed to delete product")
		return
	}

	log.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (ctrl *ProductController) respondProductError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case stderrors.Is(err, service.ErrProductNotFound):
		errors.NotFound(c, errors.ProductNotFound, "Product not found")
	case stderrors.Is(err, service.ErrDuplicateVariant),
		stderrors.Is(err, service.ErrDuplicateSubVariant),
		stderrors.Is(err, service.ErrNegativePrice),
		stderrors.Is(err, service.ErrDiscountTooLarge):
		errors.BadRequest(c, errors.ProductInvalidVariants, err.Error())
	default:
		log.Error("Product operation failed", err, nil)
		errors.Internal(c, "Product operation failed")
	}
}
