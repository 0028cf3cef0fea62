package admin

import (
	"strconv"

	"github.com/Niwatda/softwareshop/database"
	"github.com/Niwatda/softwareshop/model"
	"github.com/Niwatda/softwareshop/services"
	"github.com/Niwatda/softwareshop/utils/response"
	"github.com/Niwatda/softwareshop/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// reqValidator validates admin request payloads against their struct tags
var reqValidator = validation.NewValidator()

// ProductRequest represents the full product payload. Create and update
// share it; a PUT replaces the product wholesale, so price stays a
// pointer to tell an explicit zero apart from an omitted field.
type ProductRequest struct {
	Name            string   `json:"name" validate:"required,max=255"`
	Slug            string   `json:"slug" validate:"omitempty,max=255"`
	Description     string   `json:"description" validate:"required"`
	LongDescription string   `json:"long_description"`
	Price           *int64   `json:"price" validate:"required,min=0"`
	ComparePrice    *int64   `json:"compare_price" validate:"omitempty,min=0"`
	Features        []string `json:"features"`
	Image           string   `json:"image"`
	Images          []string `json:"images"`
	YoutubeURL      string   `json:"youtube_url"`
	Version         string   `json:"version"`
	DownloadPointer string   `json:"download_pointer"`
	IsActive        *bool    `json:"is_active"`
}

// adminProductView exposes the download pointer, which the public
// catalog never does
type adminProductView struct {
	model.Product
	DownloadPointer string             `json:"download_pointer"`
	DownloadType    model.DownloadType `json:"download_type"`
}

func toAdminView(p model.Product) adminProductView {
	return adminProductView{
		Product:         p,
		DownloadPointer: p.DownloadPointer,
		DownloadType:    p.DownloadType,
	}
}

// ListProducts retrieves all products including inactive ones
// GET /admin/products
func ListProducts(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := db.Model(&model.Product{}).Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch products")
	}

	var products []model.Product
	err := db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch products")
	}

	views := make([]adminProductView, 0, len(products))
	for _, p := range products {
		views = append(views, toAdminView(p))
	}

	return response.Paginated(c, views, response.CalculatePagination(page, limit, total))
}

// GetProduct retrieves one product by id
// GET /admin/products/:id
func GetProduct(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product id")
	}

	var product model.Product
	if err := db.First(&product, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Product not found")
		}
		return response.InternalServerError(c, "Failed to fetch product")
	}

	return response.Success(c, toAdminView(product))
}

// CreateProduct creates a new product
// POST /admin/products
func CreateProduct(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := reqValidator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	slug := req.Slug
	if slug == "" {
		slug = validation.Slugify(req.Name)
	} else {
		slug = validation.Slugify(slug)
	}
	if slug == "" {
		return response.BadRequest(c, "Could not derive a slug from the product name")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := model.Product{
		Slug:            slug,
		Name:            req.Name,
		Description:     req.Description,
		LongDescription: req.LongDescription,
		Price:           *req.Price,
		ComparePrice:    req.ComparePrice,
		Features:        pq.StringArray(req.Features),
		Image:           req.Image,
		Images:          pq.StringArray(req.Images),
		YoutubeURL:      req.YoutubeURL,
		Version:         req.Version,
		DownloadPointer: req.DownloadPointer,
		DownloadType:    services.DeriveDownloadType(req.DownloadPointer),
		IsActive:        isActive,
	}

	if err := db.Create(&product).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, "A product with this slug already exists")
		}
		return response.InternalServerError(c, "Failed to create product")
	}

	return response.Created(c, toAdminView(product))
}

// UpdateProduct replaces an existing product with the submitted
// payload, validated against the same schema as create. Orders keep
// their amount snapshot regardless of price edits here.
// PUT /admin/products/:id
func UpdateProduct(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product id")
	}

	var product model.Product
	if err := db.First(&product, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Product not found")
		}
		return response.InternalServerError(c, "Failed to fetch product")
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := reqValidator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	slug := req.Slug
	if slug == "" {
		slug = req.Name
	}
	slug = validation.Slugify(slug)
	if slug == "" {
		return response.BadRequest(c, "Could not derive a slug from the product name")
	}

	product.Name = req.Name
	product.Slug = slug
	product.Description = req.Description
	product.LongDescription = req.LongDescription
	product.Price = *req.Price
	product.ComparePrice = req.ComparePrice
	product.Features = pq.StringArray(req.Features)
	product.Image = req.Image
	product.Images = pq.StringArray(req.Images)
	product.YoutubeURL = req.YoutubeURL
	product.Version = req.Version
	if req.DownloadPointer != product.DownloadPointer {
		product.DownloadPointer = req.DownloadPointer
		product.DownloadType = services.DeriveDownloadType(req.DownloadPointer)
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := db.Save(&product).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, "A product with this slug already exists")
		}
		return response.InternalServerError(c, "Failed to update product")
	}

	return response.Success(c, toAdminView(product))
}

// DeleteProduct soft-deletes a product; order history survives
// DELETE /admin/products/:id
func DeleteProduct(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product id")
	}

	result := db.Delete(&model.Product{}, id)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete product")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Product not found")
	}

	return response.SuccessWithMessage(c, "Product deleted", nil)
}
