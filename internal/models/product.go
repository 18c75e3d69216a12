package models

import "fmt"

// Defaults substituted field by field when the catalog omits a value.
const (
	DefaultProductTitle       = "Unknown Product"
	DefaultProductDescription = "No description available"
	DefaultProductBrand       = "Unknown Brand"
	DefaultProductCategory    = "Uncategorized"
	DefaultProductThumbnail   = "/static/no-image.png"
)

// ProductRecord is the normalized catalog entry returned to clients.
type ProductRecord struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              string   `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
}

// FormatPrice renders an amount as a two-decimal dollar string.
func FormatPrice(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
