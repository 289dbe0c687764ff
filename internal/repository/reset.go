package repository

import (
	"context"

	"gorm.io/gorm"
)

// resetOrder lists the tables Reset clears. The business profile is settings,
// not records, and survives.
var resetOrder = []string{"activities", "campaigns", "leads"}

// Reset deletes every stored record and reports how many rows went per table.
func Reset(ctx context.Context, db *gorm.DB) (map[string]int64, error) {
	deleted := make(map[string]int64, len(resetOrder))
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range resetOrder {
			res := tx.Exec("DELETE FROM " + table)
			if res.Error != nil {
				return wrapErr("reset "+table, res.Error)
			}
			deleted[table] = res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
