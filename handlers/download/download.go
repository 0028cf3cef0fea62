package download

import (
	"errors"
	"log"
	"strconv"

	"github.com/Niwatda/softwareshop/model"
	"github.com/Niwatda/softwareshop/services"
	"github.com/Niwatda/softwareshop/utils/middleware"
	"github.com/Niwatda/softwareshop/utils/response"
	"github.com/gofiber/fiber/v2"
)

// DownloadHandler brokers access to purchased artifacts
type DownloadHandler struct {
	downloadService *services.DownloadService
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(downloadService *services.DownloadService) *DownloadHandler {
	return &DownloadHandler{downloadService: downloadService}
}

// Get resolves a download for the authenticated user. External URLs
// and single objects redirect; chunked artifacts return the full list
// of signed chunk URLs for client-side reassembly.
func (h *DownloadHandler) Get(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	productID, err := strconv.ParseUint(c.Params("product_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product id")
	}

	result, err := h.downloadService.Resolve(c.Context(), userID, uint(productID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotEntitled):
			return response.Forbidden(c, "You have not purchased this product")
		case errors.Is(err, services.ErrNoDownload):
			return response.NotFound(c, "No download is available for this product")
		default:
			log.Printf("Download resolution failed for user %d product %d: %v", userID, productID, err)
			return response.InternalServerError(c, "Failed to prepare download")
		}
	}

	if result.Type == model.DownloadTypeChunked {
		return response.Success(c, result)
	}

	return c.Redirect(result.RedirectURL, fiber.StatusFound)
}
