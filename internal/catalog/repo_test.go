package catalog

import (
	"context"
	"testing"
	"time"

	pkgerrors "github.com/pasarseni/pasarseni-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS artworks (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  price INTEGER NOT NULL,
  image_url TEXT,
  artist_first_name TEXT NOT NULL,
  artist_last_name TEXT NOT NULL,
  is_digital INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedArtwork(t *testing.T, db *gorm.DB, id string, active bool) {
	t.Helper()

	now := time.Now().UTC()
	require.NoError(t, db.Create(&Artwork{
		ID:              id,
		Title:           "Senja di Pelabuhan",
		Price:           250_000,
		ImageURL:        "https://cdn.pasarseni.id/art/" + id + ".jpg",
		ArtistFirstName: "Raka",
		ArtistLastName:  "Wijaya",
		IsDigital:       true,
		IsActive:        active,
		CreatedAt:       now,
		UpdatedAt:       now,
	}).Error)
}

func TestFindByIDReturnsActiveArtwork(t *testing.T) {
	db := setupCatalogTestDB(t)
	seedArtwork(t, db, "art-1", true)

	repo := NewRepository(db)
	artwork, err := repo.FindByID(context.Background(), "art-1")
	require.NoError(t, err)

	assert.Equal(t, "Senja di Pelabuhan", artwork.Title)
	assert.True(t, artwork.IsDigital)

	candidate := artwork.Candidate()
	assert.Equal(t, "art-1", candidate.ID)
	assert.Equal(t, "Raka", candidate.Artist.FirstName)
	assert.Equal(t, "Wijaya", candidate.Artist.LastName)
}

func TestFindByIDHidesInactiveArtwork(t *testing.T) {
	db := setupCatalogTestDB(t)
	seedArtwork(t, db, "art-1", false)

	repo := NewRepository(db)
	_, err := repo.FindByID(context.Background(), "art-1")

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestFindByIDUnknownIsNotFound(t *testing.T) {
	db := setupCatalogTestDB(t)

	repo := NewRepository(db)
	_, err := repo.FindByID(context.Background(), "ghost")

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
