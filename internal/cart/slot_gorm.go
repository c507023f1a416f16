package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartSnapshot is the key-value row mirroring one owner's cart in the
// relational database. Used where Redis is not provisioned.
type CartSnapshot struct {
	SlotKey   string `gorm:"primaryKey;column:slot_key"`
	Payload   string `gorm:"column:payload;not null"`
	UpdatedAt time.Time
}

func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}

// GormSlot stores cart snapshots in the cart_snapshots table.
type GormSlot struct {
	db *gorm.DB
}

func NewGormSlot(db *gorm.DB) (*GormSlot, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &GormSlot{db: db}, nil
}

func slotKey(owner string) string {
	return fmt.Sprintf("cart:%s:%s", SlotVersion, owner)
}

func (s *GormSlot) Load(ctx context.Context, owner string) ([]byte, error) {
	var snapshot CartSnapshot
	err := s.db.WithContext(ctx).First(&snapshot, "slot_key = ?", slotKey(owner)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart slot: %w", err)
	}
	return []byte(snapshot.Payload), nil
}

func (s *GormSlot) Save(ctx context.Context, owner string, payload []byte) error {
	snapshot := CartSnapshot{
		SlotKey:   slotKey(owner),
		Payload:   string(payload),
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&snapshot).Error
	if err != nil {
		return fmt.Errorf("save cart slot: %w", err)
	}
	return nil
}

func (s *GormSlot) Clear(ctx context.Context, owner string) error {
	err := s.db.WithContext(ctx).
		Delete(&CartSnapshot{}, "slot_key = ?", slotKey(owner)).Error
	if err != nil {
		return fmt.Errorf("clear cart slot: %w", err)
	}
	return nil
}
