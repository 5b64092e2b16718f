package service

import (
	"errors"

	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/internal/app/repository"
	"github.com/clickmobile/clickmobile-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrDuplicateVariant    = errors.New("variant with this size and color already exists")
	ErrDuplicateSubVariant = errors.New("sub-variant with this specification and value already exists")
	ErrNegativePrice       = errors.New("price fields must be non-negative")
	ErrDiscountTooLarge    = errors.New("discount exceeds the effective price")
)

type ProductService interface {
	GetProductByID(id uint) (*model.Product, error)
	ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error)
	CreateProduct(product *model.Product) error
	UpdateProduct(product *model.Product) error
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error) {
	return s.productRepo.List(filter)
}

func (s *productService) CreateProduct(product *model.Product) error {
	if err := validateVariants(product.Variants); err != nil {
		logger.Warn("Product rejected by catalog validation", map[string]interface{}{
			"name":  product.Name,
			"error": err.Error(),
		})
		return err
	}
	if product.Status == "" {
		product.Status = model.ProductActive
	}

	if err := s.productRepo.Create(product); err != nil {
		return err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id":    product.ID,
		"variant_count": len(product.Variants),
	})
	return nil
}

func (s *productService) UpdateProduct(product *model.Product) error {
	if err := validateVariants(product.Variants); err != nil {
		return err
	}
	if _, err := s.GetProductByID(product.ID); err != nil {
		return err
	}
	return s.productRepo.Update(product)
}

func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.GetProductByID(id); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}

// validateVariants enforces catalog invariants on write: (size, color)
// unique per product, (specification, value) unique per variant,
// non-negative prices, and a discount that can never push an effective
// price below zero.
func validateVariants(variants []model.Variant) error {
	type variantKey struct{ size, color string }
	seen := make(map[variantKey]bool)

	for i := range variants {
		v := &variants[i]

		key := variantKey{v.Size, v.Color}
		if seen[key] {
			return ErrDuplicateVariant
		}
		seen[key] = true

		if v.BasePrice < 0 || v.Discount < 0 {
			return ErrNegativePrice
		}
		if v.Discount > v.BasePrice {
			return ErrDiscountTooLarge
		}

		type subKey struct{ spec, value string }
		seenSub := make(map[subKey]bool)
		for j := range v.SubVariants {
			sub := &v.SubVariants[j]
			sk := subKey{sub.Specification, sub.Value}
			if seenSub[sk] {
				return ErrDuplicateSubVariant
			}
			seenSub[sk] = true

			if sub.AdditionalPrice < 0 {
				return ErrNegativePrice
			}
		}
	}
	return nil
}
