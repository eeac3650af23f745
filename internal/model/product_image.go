package model

// ProductImage is an image reference attached to a product.
// At most one image per product is expected to carry IsPrimary,
// though the schema does not enforce it.
type ProductImage struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID uint   `json:"product_id" gorm:"not null;index"`
	ImageURL  string `json:"image_url" gorm:"size:2048;not null"`
	IsPrimary bool   `json:"is_primary" gorm:"default:false"`

	// Relations
	Product Product `json:"-" gorm:"foreignKey:ProductID"`
}
