package menu

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"sahone-backend/internal/apperr"
	"sahone-backend/internal/models"

	"gorm.io/gorm"
)

type CategoryWithCount struct {
	models.Category
	ItemCount int64 `json:"itemCount"`
}

type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	IsActive *bool  `json:"isActive"`
	Order    *int   `json:"order"`
}

type UpdateCategoryRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	IsActive *bool   `json:"isActive"`
	Order    *int    `json:"order"`
}

// ListCategoriesWithCounts returns every category with its item count,
// ordered by display order.
func ListCategoriesWithCounts(db *gorm.DB) ([]CategoryWithCount, error) {
	var cats []models.Category
	if err := db.Find(&cats).Error; err != nil {
		return nil, err
	}

	type countRow struct {
		Category string
		N        int64
	}
	var rows []countRow
	if err := db.Model(&models.MenuItem{}).
		Select("category, COUNT(*) AS n").
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Category] = r.N
	}

	out := make([]CategoryWithCount, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryWithCount{Category: c, ItemCount: counts[c.Name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func ActiveCategories(db *gorm.DB) ([]models.Category, error) {
	var cats []models.Category
	err := db.Where("is_active = ?", true).Order("sort_order asc, name asc").Find(&cats).Error
	return cats, err
}

func ActiveCategoryNames(db *gorm.DB) ([]string, error) {
	cats, err := ActiveCategories(db)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names, nil
}

func categoryExists(db *gorm.DB, name string) (bool, error) {
	var count int64
	err := db.Model(&models.Category{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func CreateCategory(db *gorm.DB, in CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Invalid("Category name is required")
	}
	exists, err := categoryExists(db, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("Category already exists")
	}

	cat := models.Category{Name: name, IsActive: true}
	if in.IsActive != nil {
		cat.IsActive = *in.IsActive
	}
	if in.Order != nil {
		cat.SortOrder = *in.Order
	}
	if err := db.Create(&cat).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &cat, nil
}

func GetCategory(db *gorm.DB, id uint) (*models.Category, error) {
	var cat models.Category
	if err := db.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Category not found")
		}
		return nil, err
	}
	return &cat, nil
}

// UpdateCategory patches a category. A rename is rejected when the new name
// is taken and moves the category's items along with it.
func UpdateCategory(db *gorm.DB, id uint, in UpdateCategoryRequest) (before, after *models.Category, err error) {
	cat, err := GetCategory(db, id)
	if err != nil {
		return nil, nil, err
	}
	snapshot := *cat

	err = db.Transaction(func(tx *gorm.DB) error {
		up := map[string]any{}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return apperr.Invalid("Category name is required")
			}
			if name != cat.Name {
				exists, err := categoryExists(tx, name)
				if err != nil {
					return err
				}
				if exists {
					return apperr.Conflict("Category already exists")
				}
				if err := tx.Model(&models.MenuItem{}).
					Where("category = ?", cat.Name).
					Update("category", name).Error; err != nil {
					return err
				}
				up["name"] = name
			}
		}
		if in.IsActive != nil {
			up["is_active"] = *in.IsActive
		}
		if in.Order != nil {
			up["sort_order"] = *in.Order
		}
		if len(up) == 0 {
			return nil
		}
		return tx.Model(cat).Updates(up).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &snapshot, cat, nil
}

// SetCategoryStatus sets the category flag and the availability of all its
// items to the same value.
func SetCategoryStatus(db *gorm.DB, id uint, active bool) (*models.Category, error) {
	cat, err := GetCategory(db, id)
	if err != nil {
		return nil, err
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(cat).Update("is_active", active).Error; err != nil {
			return err
		}
		return tx.Model(&models.MenuItem{}).
			Where("category = ?", cat.Name).
			Update("is_available", active).Error
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func DeleteCategory(db *gorm.DB, id uint) (*models.Category, error) {
	cat, err := GetCategory(db, id)
	if err != nil {
		return nil, err
	}
	var count int64
	if err := db.Model(&models.MenuItem{}).Where("category = ?", cat.Name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.Conflict("Cannot delete category with existing items")
	}
	if err := db.Delete(cat).Error; err != nil {
		return nil, err
	}
	return cat, nil
}
