package repository

import (
	"errors"

	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/pkg/logger"
	"gorm.io/gorm"
)

type MaterialRepository interface {
	Create(material *model.Material) error
	FindByID(id uint) (*model.Material, error)
	List() ([]model.Material, error)
	Update(material *model.Material) error
	Delete(id uint) error
}

type materialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(material *model.Material) error {
	if err := r.db.Create(material).Error; err != nil {
		logger.Error("Failed to create material in database", err, map[string]interface{}{
			"name": material.Name,
		})
		return err
	}
	return nil
}

func (r *materialRepository) FindByID(id uint) (*model.Material, error) {
	var material model.Material
	if err := r.db.First(&material, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find material by ID in database", err, map[string]interface{}{
				"material_id": id,
			})
		}
		return nil, err
	}
	return &material, nil
}

func (r *materialRepository) List() ([]model.Material, error) {
	var materials []model.Material
	if err := r.db.Order("materials.name ASC").Find(&materials).Error; err != nil {
		logger.Error("Failed to list materials in database", err, nil)
		return nil, err
	}
	return materials, nil
}

func (r *materialRepository) Update(material *model.Material) error {
	if err := r.db.Save(material).Error; err != nil {
		logger.Error("Failed to update material in database", err, map[string]interface{}{
			"material_id": material.ID,
		})
		return err
	}
	return nil
}

func (r *materialRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Material{}, id).Error; err != nil {
		logger.Error("Failed to delete material from database", err, map[string]interface{}{
			"material_id": id,
		})
		return err
	}
	return nil
}
