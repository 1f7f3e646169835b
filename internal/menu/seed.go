package menu

import (
	"sahone-backend/internal/models"

	"gorm.io/gorm"
)

var defaultCategories = []struct {
	Name  string
	Order int
}{
	{"Rolls", 1},
	{"Chowmein", 2},
	{"Parathas", 3},
	{"Rice Items", 4},
	{"Breakfast", 5},
	{"Thali", 6},
}

// SeedCategories inserts the starter categories that do not exist yet and
// returns how many were added.
func SeedCategories(db *gorm.DB) (int, error) {
	added := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, dc := range defaultCategories {
			exists, err := categoryExists(tx, dc.Name)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			cat := models.Category{Name: dc.Name, IsActive: true, SortOrder: dc.Order}
			if err := tx.Create(&cat).Error; err != nil {
				return err
			}
			added++
		}
		return nil
	})
	return added, err
}
