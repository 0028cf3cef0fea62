package admin

import (
	"encoding/json"
	"strconv"

	"github.com/Niwatda/softwareshop/database"
	"github.com/Niwatda/softwareshop/model"
	"github.com/Niwatda/softwareshop/services/pagebuilder"
	"github.com/Niwatda/softwareshop/utils/response"
	"github.com/Niwatda/softwareshop/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PageRequest represents the payload for creating a builder page
type PageRequest struct {
	Title       string              `json:"title" validate:"required,max=255"`
	Slug        string              `json:"slug" validate:"omitempty,max=255"`
	Blocks      []pagebuilder.Block `json:"blocks"`
	IsPublished *bool               `json:"is_published"`
	SortOrder   *int                `json:"sort_order"`
}

// UpdatePageRequest represents the partial update payload; omitted
// fields keep their current values
type UpdatePageRequest struct {
	Title       string              `json:"title" validate:"omitempty,max=255"`
	Slug        string              `json:"slug" validate:"omitempty,max=255"`
	Blocks      []pagebuilder.Block `json:"blocks"`
	IsPublished *bool               `json:"is_published"`
	SortOrder   *int                `json:"sort_order"`
}

// ListPages retrieves all pages including drafts
// GET /admin/pages
func ListPages(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	var pages []model.Page
	err := db.Order("sort_order ASC, id ASC").Find(&pages).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch pages")
	}

	return response.Success(c, pages)
}

// GetPage retrieves one page by id
// GET /admin/pages/:id
func GetPage(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid page id")
	}

	var page model.Page
	if err := db.First(&page, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Page not found")
		}
		return response.InternalServerError(c, "Failed to fetch page")
	}

	return response.Success(c, page)
}

// CreatePage creates a new builder page
// POST /admin/pages
func CreatePage(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	var req PageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := reqValidator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := pagebuilder.ValidateBlocks(req.Blocks); err != nil {
		return response.BadRequest(c, err.Error())
	}

	slug := req.Slug
	if slug == "" {
		slug = validation.Slugify(req.Title)
	} else {
		slug = validation.Slugify(slug)
	}
	if slug == "" {
		return response.BadRequest(c, "Could not derive a slug from the page title")
	}

	blocksJSON, err := json.Marshal(req.Blocks)
	if err != nil {
		return response.BadRequest(c, "Invalid blocks")
	}

	page := model.Page{
		Title:  req.Title,
		Slug:   slug,
		Blocks: datatypes.JSON(blocksJSON),
	}
	if req.IsPublished != nil {
		page.IsPublished = *req.IsPublished
	}
	if req.SortOrder != nil {
		page.SortOrder = *req.SortOrder
	}

	if err := db.Create(&page).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, "A page with this slug already exists")
		}
		return response.InternalServerError(c, "Failed to create page")
	}

	return response.Created(c, page)
}

// UpdatePage updates an existing page, replacing its block list
// PUT /admin/pages/:id
func UpdatePage(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid page id")
	}

	var page model.Page
	if err := db.First(&page, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Page not found")
		}
		return response.InternalServerError(c, "Failed to fetch page")
	}

	var req UpdatePageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := reqValidator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := pagebuilder.ValidateBlocks(req.Blocks); err != nil {
		return response.BadRequest(c, err.Error())
	}

	if req.Title != "" {
		page.Title = req.Title
	}
	if req.Slug != "" {
		page.Slug = validation.Slugify(req.Slug)
	}
	if req.Blocks != nil {
		blocksJSON, err := json.Marshal(req.Blocks)
		if err != nil {
			return response.BadRequest(c, "Invalid blocks")
		}
		page.Blocks = datatypes.JSON(blocksJSON)
	}
	if req.IsPublished != nil {
		page.IsPublished = *req.IsPublished
	}
	if req.SortOrder != nil {
		page.SortOrder = *req.SortOrder
	}

	if err := db.Save(&page).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, "A page with this slug already exists")
		}
		return response.InternalServerError(c, "Failed to update page")
	}

	return response.Success(c, page)
}

// DeletePage soft-deletes a page
// DELETE /admin/pages/:id
func DeletePage(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid page id")
	}

	result := db.Delete(&model.Page{}, id)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete page")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Page not found")
	}

	return response.SuccessWithMessage(c, "Page deleted", nil)
}
