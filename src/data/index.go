package data

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// BillIndexSetting is the settings key holding the last issued bill number.
const BillIndexSetting = "bill_index"

// IndexStore persists the senate bill counter in the settings table.
type IndexStore struct {
	DB *gorm.DB
}

// Load returns the persisted index, or 0 when none was saved yet.
func (s IndexStore) Load(ctx context.Context) (int, error) {
	var row Setting
	err := s.DB.WithContext(ctx).Where("name = ?", BillIndexSetting).Limit(1).Find(&row).Error
	if err != nil {
		return 0, fmt.Errorf("data: load bill index: %w", err)
	}
	return ParseIndex(row.Value)
}

// SaveIndex writes index back to the settings table.
func (s IndexStore) SaveIndex(ctx context.Context, index int) error {
	if err := SetSetting(s.DB.WithContext(ctx), BillIndexSetting, strconv.Itoa(index)); err != nil {
		return fmt.Errorf("data: save bill index: %w", err)
	}
	return nil
}

// ParseIndex reads a stored index value. Empty means no bill was issued yet.
func ParseIndex(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("data: bill index %q is not a number", value)
	}
	if n < 0 {
		return 0, fmt.Errorf("data: bill index %d is negative", n)
	}
	return n, nil
}
