package catalog

import (
	"context"
	"errors"

	pkgerrors "github.com/pasarseni/pasarseni-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository reads artwork listings.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Artwork, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// FindByID returns the active listing with the given id. Inactive and
// unknown listings both surface as not found so delisted artworks cannot
// be added to a cart.
func (r *repository) FindByID(ctx context.Context, id string) (*Artwork, error) {
	var artwork Artwork
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&artwork).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "artwork not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find artwork")
	}
	return &artwork, nil
}
