package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/clickmobile/clickmobile-backend/config"
	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/internal/app/repository"
	"github.com/clickmobile/clickmobile-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports a product catalog from an xlsx workbook. One row per variant or
// sub-variant; consecutive rows with the same product name are merged into
// one product.
//
// Columns:
//
//	0 name | 1 description | 2 brand | 3 size | 4 color | 5 base_price
//	6 discount | 7 quantity | 8 specification | 9 value
//	10 additional_price | 11 sub_quantity
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			log.Printf("Failed to import product %q: %v", products[i].Name, err)
			continue
		}
		imported++
	}

	fmt.Printf("Import completed: %d/%d products\n", imported, len(products))
}

func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 8 || strings.TrimSpace(row[0]) == "" {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		size := strings.TrimSpace(row[3])
		color := strings.TrimSpace(row[4])
		basePrice, err1 := parsePrice(row[5])
		discount, _ := parsePrice(cell(row, 6))
		quantity, err2 := strconv.Atoi(strings.TrimSpace(cell(row, 7)))
		if err1 != nil || err2 != nil || color == "" {
			skipped++
			continue
		}

		product := currentProduct(&products, name)
		if product == nil {
			products = append(products, model.Product{
				Name:        name,
				Description: strings.TrimSpace(cell(row, 1)),
				Brand:       strings.TrimSpace(cell(row, 2)),
				Status:      model.ProductActive,
			})
			product = &products[len(products)-1]
		}

		variant := findVariant(product, size, color)
		if variant == nil {
			product.Variants = append(product.Variants, model.Variant{
				Size:      size,
				Color:     color,
				BasePrice: basePrice,
				Discount:  discount,
				Quantity:  quantity,
			})
			variant = &product.Variants[len(product.Variants)-1]
		}

		// Optional sub-variant columns
		spec := strings.TrimSpace(cell(row, 8))
		value := strings.TrimSpace(cell(row, 9))
		if spec != "" && value != "" {
			additional, _ := parsePrice(cell(row, 10))
			subQty, _ := strconv.Atoi(strings.TrimSpace(cell(row, 11)))
			variant.SubVariants = append(variant.SubVariants, model.SubVariant{
				Specification:   spec,
				Value:           value,
				AdditionalPrice: additional,
				Quantity:        subQty,
			})
		}
	}

	if skipped > 0 {
		fmt.Printf("Skipped %d malformed rows\n", skipped)
	}
	return products, nil
}

// currentProduct only merges with the most recent product, so rows for one
// product must be consecutive.
func currentProduct(products *[]model.Product, name string) *model.Product {
	if len(*products) == 0 {
		return nil
	}
	last := &(*products)[len(*products)-1]
	if last.Name != name {
		return nil
	}
	return last
}

func findVariant(product *model.Product, size, color string) *model.Variant {
	for i := range product.Variants {
		if product.Variants[i].Size == size && product.Variants[i].Color == color {
			return &product.Variants[i]
		}
	}
	return nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parsePrice(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
