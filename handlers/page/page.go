package page

import (
	"errors"

	"github.com/Niwatda/softwareshop/model"
	"github.com/Niwatda/softwareshop/services/pagebuilder"
	"github.com/Niwatda/softwareshop/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PageHandler serves published builder pages and public site settings
type PageHandler struct {
	db *gorm.DB
}

// NewPageHandler creates a new page handler
func NewPageHandler(db *gorm.DB) *PageHandler {
	return &PageHandler{db: db}
}

// ListPages returns published pages ordered for navigation
func (h *PageHandler) ListPages(c *fiber.Ctx) error {
	var pages []model.Page
	err := h.db.Where("is_published = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&pages).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to load pages")
	}

	return response.Success(c, pages)
}

// GetPage returns one published page with its rendered markup
func (h *PageHandler) GetPage(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return response.BadRequest(c, "Page slug is required")
	}

	var page model.Page
	err := h.db.Where("slug = ? AND is_published = ?", slug, true).First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Page not found")
		}
		return response.InternalServerError(c, "Failed to load page")
	}

	blocks, err := pagebuilder.ParseBlocks(page.Blocks)
	if err != nil {
		return response.InternalServerError(c, "Failed to render page")
	}

	return response.Success(c, fiber.Map{
		"page": page,
		"html": pagebuilder.Render(blocks),
	})
}

// ListSiteSettings returns all site settings as a key/value map for
// the storefront to hydrate its sections from
func (h *PageHandler) ListSiteSettings(c *fiber.Ctx) error {
	var settings []model.SiteSetting
	if err := h.db.Find(&settings).Error; err != nil {
		return response.InternalServerError(c, "Failed to load site settings")
	}

	result := make(map[string]interface{}, len(settings))
	for _, s := range settings {
		result[s.Key] = s.Value
	}

	return response.Success(c, result)
}
