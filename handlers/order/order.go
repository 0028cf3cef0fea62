package order

import (
	"errors"
	"log"

	"github.com/Niwatda/softwareshop/services"
	"github.com/Niwatda/softwareshop/utils/middleware"
	"github.com/Niwatda/softwareshop/utils/response"
	"github.com/Niwatda/softwareshop/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// OrderHandler serves checkout and the buyer's account pages
type OrderHandler struct {
	db            *gorm.DB
	validator     *validation.Validator
	orderService  *services.OrderService
	uploadService *services.UploadService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB, orderService *services.OrderService, uploadService *services.UploadService) *OrderHandler {
	return &OrderHandler{
		db:            db,
		validator:     validation.NewValidator(),
		orderService:  orderService,
		uploadService: uploadService,
	}
}

// CheckoutRequest represents a checkout submission. The slip image is
// uploaded first via UploadSlip; its URL is referenced here.
type CheckoutRequest struct {
	ProductSlug string `json:"product_slug" validate:"required"`
	SlipImage   string `json:"slip_image" validate:"required"`
}

// Checkout places a PENDING order for an active product
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	order, err := h.orderService.CreateOrder(c.Context(), userID, req.ProductSlug, req.SlipImage)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			return response.NotFound(c, "Product not found")
		case errors.Is(err, services.ErrAlreadyPurchased):
			return response.Conflict(c, "You have already purchased this product")
		default:
			log.Printf("Checkout failed for user %d: %v", userID, err)
			return response.InternalServerError(c, "Failed to create order")
		}
	}

	return response.Created(c, order)
}

// UploadSlip stores a proof-of-payment image and returns its URL
func (h *OrderHandler) UploadSlip(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Slip file is required")
	}

	url, err := h.uploadService.UploadSlip(c.Context(), file)
	if err != nil {
		var rejected *services.SlipRejectedError
		if errors.As(err, &rejected) {
			return response.BadRequest(c, rejected.Reason)
		}
		log.Printf("Slip upload failed for user %d: %v", userID, err)
		return response.InternalServerError(c, "Failed to store slip")
	}

	return response.Created(c, fiber.Map{
		"url": url,
	})
}

// ListMyOrders returns the authenticated user's order history
func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	orders, err := h.orderService.ListUserOrders(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load orders")
	}

	return response.Success(c, orders)
}

// ListMyDownloads returns the products the user is entitled to download
func (h *OrderHandler) ListMyDownloads(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	products, err := h.orderService.ListPurchasedProducts(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load downloads")
	}

	return response.Success(c, products)
}

// MyStats returns purchase statistics for the account page
func (h *OrderHandler) MyStats(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	stats, err := h.orderService.GetUserStats(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load stats")
	}

	return response.Success(c, stats)
}
