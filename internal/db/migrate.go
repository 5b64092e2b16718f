package db

import (
	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/pkg/logger"
)

// Migrate runs the schema migrations for every aggregate.
func Migrate() error {
	logger.Info("Running database migrations", nil)

	err := DB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Material{},
		&model.Product{},
		&model.Variant{},
		&model.SubVariant{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	)
	if err != nil {
		logger.Error("Database migration failed", err, nil)
		return err
	}

	logger.Info("Database migrations completed", nil)
	return nil
}
