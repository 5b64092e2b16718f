package service

import (
	"errors"

	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/internal/app/repository"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrMaterialNotFound = errors.New("material not found")
)

// CatalogService manages the classification axes of the catalog: categories
// and materials, each with an active/deactive status.
type CatalogService interface {
	ListCategories() ([]model.Category, error)
	CreateCategory(name string) (*model.Category, error)
	UpdateCategory(id uint, name string, status model.CategoryStatus) (*model.Category, error)
	DeleteCategory(id uint) error

	ListMaterials() ([]model.Material, error)
	CreateMaterial(name string) (*model.Material, error)
	UpdateMaterial(id uint, name string, status model.MaterialStatus) (*model.Material, error)
	DeleteMaterial(id uint) error
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	materialRepo repository.MaterialRepository
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	materialRepo repository.MaterialRepository,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		materialRepo: materialRepo,
	}
}

func (s *catalogService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.List()
}

func (s *catalogService) CreateCategory(name string) (*model.Category, error) {
	category := &model.Category{Name: name, Status: model.CategoryActive}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(id uint, name string, status model.CategoryStatus) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if name != "" {
		category.Name = name
	}
	if status != "" {
		category.Status = status
	}
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(id uint) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return s.categoryRepo.Delete(id)
}

func (s *catalogService) ListMaterials() ([]model.Material, error) {
	return s.materialRepo.List()
}

func (s *catalogService) CreateMaterial(name string) (*model.Material, error) {
	material := &model.Material{Name: name, Status: model.MaterialActive}
	if err := s.materialRepo.Create(material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *catalogService) UpdateMaterial(id uint, name string, status model.MaterialStatus) (*model.Material, error) {
	material, err := s.materialRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}

	if name != "" {
		material.Name = name
	}
	if status != "" {
		material.Status = status
	}
	if err := s.materialRepo.Update(material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *catalogService) DeleteMaterial(id uint) error {
	if _, err := s.materialRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}
	return s.materialRepo.Delete(id)
}
