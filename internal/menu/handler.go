package menu

import (
	"fmt"
	"strings"

	"sahone-backend/internal/audit"
	"sahone-backend/internal/database"
	"sahone-backend/internal/models"
	"sahone-backend/internal/request"

	"github.com/gofiber/fiber/v2"
)

type StatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

// ==================== CATEGORIES ====================

// GET /api/menu/categories/all
func ListAllCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cats, err := ListCategoriesWithCounts(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list categories")
		}
		return c.JSON(cats)
	}
}

// GET /api/menu/categories
func ListActiveCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cats, err := ActiveCategories(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list categories")
		}
		return c.JSON(cats)
	}
}

// GET /api/menu/categories/names
func CategoryNamesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		names, err := ActiveCategoryNames(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list categories")
		}
		return c.JSON(names)
	}
}

// POST /api/admin/categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategoryRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		cat, err := CreateCategory(database.DB, body)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "category",
			EntityID:    cat.ID,
			Action:      models.AuditActionCreate,
			Description: "Category created: " + cat.Name,
			After:       cat,
		})
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": cat.ID})
	}
}

// PUT /api/admin/categories/:id
func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body UpdateCategoryRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		before, after, err := UpdateCategory(database.DB, id, body)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "category",
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: "Category updated: " + after.Name,
			Before:      before,
			After:       after,
		})
		return c.JSON(fiber.Map{"success": true})
	}
}

// PATCH /api/admin/categories/:id/status
func ToggleCategoryStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body StatusRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		cat, err := SetCategoryStatus(database.DB, id, *body.IsActive)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "category",
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: "Category status changed: " + cat.Name,
			After:       fiber.Map{"isActive": *body.IsActive},
		})
		return c.JSON(fiber.Map{"success": true})
	}
}

// DELETE /api/admin/categories/:id
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		cat, err := DeleteCategory(database.DB, id)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "category",
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: "Category deleted: " + cat.Name,
			Before:      cat,
		})
		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/admin/categories/seed
func SeedCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		added, err := SeedCategories(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not seed categories")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"added":   added,
			"message": "Categories seeded successfully",
		})
	}
}

// ==================== MENU ITEMS ====================

// GET /api/menu/items/all
func ListAllItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.MenuItem
		if err := database.DB.Order("category asc, name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list menu items")
		}
		return c.JSON(items)
	}
}

// GET /api/menu/items
func ListAvailableItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.MenuItem
		if err := database.DB.Where("is_available = ?", true).Order("category asc, name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list menu items")
		}
		return c.JSON(items)
	}
}

// GET /api/menu/items/category/:category
func ListItemsByCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.MenuItem
		if err := database.DB.Where("category = ?", c.Params("category")).Order("name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list menu items")
		}
		return c.JSON(items)
	}
}

// GET /api/menu/items/search?q=
func SearchItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := SearchMenuItems(database.DB, c.Query("q"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not search menu items")
		}
		return c.JSON(items)
	}
}

// GET /api/menu/items/:id
func GetItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		item, err := GetMenuItem(database.DB, id)
		if err != nil {
			return err
		}
		return c.JSON(item)
	}
}

// POST /api/admin/menu-items
func CreateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMenuItemRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		item, err := CreateMenuItem(database.DB, body)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "menu_item",
			EntityID:    item.ID,
			Action:      models.AuditActionCreate,
			Description: "Menu item created: " + item.Name,
			After:       item,
		})
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": item.ID})
	}
}

// PUT /api/admin/menu-items/:id
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body UpdateMenuItemRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		before, after, err := UpdateMenuItem(database.DB, id, body)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "menu_item",
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: "Menu item updated: " + after.Name,
			Before:      before,
			After:       after,
		})
		return c.JSON(fiber.Map{"success": true})
	}
}

// PATCH /api/admin/menu-items/:id/availability
func ToggleItemAvailabilityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body AvailabilityRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		item, err := SetMenuItemAvailability(database.DB, id, *body.IsAvailable)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "menu_item",
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: "Menu item availability changed: " + item.Name,
			After:       fiber.Map{"isAvailable": *body.IsAvailable},
		})
		return c.JSON(fiber.Map{"success": true})
	}
}

// DELETE /api/admin/menu-items/:id
func DeleteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		item, err := DeleteMenuItem(database.DB, id)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "menu_item",
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: "Menu item deleted: " + item.Name,
			Before:      item,
		})
		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/admin/menu-items/import (multipart, field "file")
func ImportItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file is required")
		}
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Only .xlsx files can be imported")
		}
		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not open upload")
		}
		defer f.Close()

		res, err := ImportMenuItems(database.DB, f)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read workbook")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "menu_item",
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Menu import: %d imported, %d skipped", res.Imported, res.Skipped),
			After:       res,
		})
		return c.JSON(res)
	}
}
