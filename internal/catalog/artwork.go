package catalog

import (
	"time"

	"github.com/pasarseni/pasarseni-backend/internal/cart"
	"github.com/pasarseni/pasarseni-backend/pkg/currency"
)

// Artwork is the catalog read model for a listing that can be added to a
// cart. It mirrors the artworks table.
type Artwork struct {
	ID              string         `gorm:"primaryKey;column:id"`
	Title           string         `gorm:"column:title;not null"`
	Price           currency.Money `gorm:"column:price;not null"`
	ImageURL        string         `gorm:"column:image_url"`
	ArtistFirstName string         `gorm:"column:artist_first_name;not null"`
	ArtistLastName  string         `gorm:"column:artist_last_name;not null"`
	IsDigital       bool           `gorm:"column:is_digital;not null"`
	IsActive        bool           `gorm:"column:is_active;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Artwork) TableName() string {
	return "artworks"
}

// Candidate converts the listing into a cart candidate.
func (a Artwork) Candidate() cart.Candidate {
	return cart.Candidate{
		ID:       a.ID,
		Title:    a.Title,
		Price:    a.Price,
		ImageURL: a.ImageURL,
		Artist: cart.Artist{
			FirstName: a.ArtistFirstName,
			LastName:  a.ArtistLastName,
		},
		IsDigital: a.IsDigital,
	}
}
