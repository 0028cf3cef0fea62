package catalog

import (
	"errors"

	"github.com/Niwatda/softwareshop/model"
	"github.com/Niwatda/softwareshop/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CatalogHandler serves the public product catalog. Inactive products
// are invisible here; admins manage the full catalog elsewhere.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// ListProducts returns active products, cheapest first
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	query := h.db.Model(&model.Product{}).Where("is_active = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to load products")
	}

	var products []model.Product
	err := h.db.Where("is_active = ?", true).
		Order("price ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to load products")
	}

	return response.Paginated(c, products, response.CalculatePagination(page, limit, total))
}

// GetProduct returns one active product by slug
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return response.BadRequest(c, "Product slug is required")
	}

	var product model.Product
	err := h.db.Where("slug = ? AND is_active = ?", slug, true).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Product not found")
		}
		return response.InternalServerError(c, "Failed to load product")
	}

	return response.Success(c, product)
}
