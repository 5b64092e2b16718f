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

// CatalogController manages the category and material taxonomies products
// hang off of.
type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

type TaxonomyRequest struct {
	Name   string `json:"name" binding:"required"`
	Status string `json:"status"`
}

// ListCategories returns every category.
// GET /api/v1/categories
func (ctrl *CatalogController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.catalogService.ListCategories()
	if err != nil {
		log.Error("Failed to list categories", err, nil)
		errors.Internal(c, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory creates a category. Admin only.
// POST /api/v1/categories
func (ctrl *CatalogController) CreateCategory(c *gin.Context) {
	var req TaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid category data")
		return
	}

	category, err := ctrl.catalogService.CreateCategory(req.Name)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to create category", err, nil)
		errors.Internal(c, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateCategory renames a category or toggles its status. Admin only.
// PUT /api/v1/categories/:id
func (ctrl *CatalogController) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid category ID")
		return
	}

	var req TaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid category data")
		return
	}

	category, err := ctrl.catalogService.UpdateCategory(uint(id), req.Name, model.CategoryStatus(req.Status))
	if err != nil {
		if stderrors.Is(err, service.ErrCategoryNotFound) {
			errors.NotFound(c, errors.CategoryNotFound, "Category not found")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to update category", err, map[string]interface{}{
			"category_id": id,
		})
		errors.Internal(c, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory removes a category. Products keep working; they simply
// lose the association. Admin only.
// DELETE /api/v1/categories/:id
func (ctrl *CatalogController) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid category ID")
		return
	}

	if err := ctrl.catalogService.DeleteCategory(uint(id)); err != nil {
		if stderrors.Is(err, service.ErrCategoryNotFound) {
			errors.NotFound(c, errors.CategoryNotFound, "Category not found")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to delete category", err, map[string]interface{}{
			"category_id": id,
		})
		errors.Internal(c, "Failed to delete category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// ListMaterials returns every material.
// GET /api/v1/materials
func (ctrl *CatalogController) ListMaterials(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	materials, err := ctrl.catalogService.ListMaterials()
	if err != nil {
		log.Error("Failed to list materials", err, nil)
		errors.Internal(c, "Failed to list materials")
		return
	}
	c.JSON(http.StatusOK, gin.H{"materials": materials})
}

// CreateMaterial creates a material. Admin only.
// POST /api/v1/materials
func (ctrl *CatalogController) CreateMaterial(c *gin.Context) {
	var req TaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid material data")
		return
	}

	material, err := ctrl.catalogService.CreateMaterial(req.Name)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to create material", err, nil)
		errors.Internal(c, "Failed to create material")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"material": material})
}

// UpdateMaterial renames a material or toggles its status. Admin only.
// PUT /api/v1/materials/:id
func (ctrl *CatalogController) UpdateMaterial(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid material ID")
		return
	}

	var req TaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid material data")
		return
	}

	material, err := ctrl.catalogService.UpdateMaterial(uint(id), req.Name, model.MaterialStatus(req.Status))
	if err != nil {
		if stderrors.Is(err, service.ErrMaterialNotFound) {
			errors.NotFound(c, errors.MaterialNotFound, "Material not found")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to update material", err, map[string]interface{}{
			"material_id": id,
		})
		errors.Internal(c, "Failed to update material")
		return
	}
	c.JSON(http.StatusOK, gin.H{"material": material})
}

// DeleteMaterial removes a material. Admin only.
// DELETE /api/v1/materials/:id
func (ctrl *CatalogController) DeleteMaterial(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid material ID")
		return
	}

	if err := ctrl.catalogService.DeleteMaterial(uint(id)); err != nil {
		if stderrors.Is(err, service.ErrMaterialNotFound) {
			errors.NotFound(c, errors.MaterialNotFound, "Material not found")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to delete material", err, map[string]interface{}{
			"material_id": id,
		})
		errors.Internal(c, "Failed to delete material")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Material deleted successfully"})
}
