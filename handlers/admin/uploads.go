package admin

import (
	"errors"
	"log"

	"github.com/Niwatda/softwareshop/services"
	"github.com/Niwatda/softwareshop/services/storage"
	"github.com/Niwatda/softwareshop/utils/response"
	"github.com/gofiber/fiber/v2"
)

// UploadHandler mints multipart upload credentials for large program
// artifacts and accepts small image uploads through the server
type UploadHandler struct {
	uploadService *services.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// CreateUploadRequest starts a multipart upload for one artifact
type CreateUploadRequest struct {
	Filename string `json:"filename" validate:"required"`
}

// SignPartsRequest asks for presigned PUT URLs for the listed parts
type SignPartsRequest struct {
	Key         string  `json:"key" validate:"required"`
	PartNumbers []int64 `json:"part_numbers" validate:"required"`
}

// CompleteUploadRequest finishes a multipart upload
type CompleteUploadRequest struct {
	Key   string                  `json:"key" validate:"required"`
	Parts []storage.CompletedPart `json:"parts" validate:"required"`
}

// CreateUpload mints multipart credentials; the artifact bytes go
// straight from the admin's browser to object storage
// POST /admin/uploads
func (h *UploadHandler) CreateUpload(c *fiber.Ctx) error {
	var req CreateUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Filename == "" {
		return response.BadRequest(c, "Filename is required")
	}

	creds, err := h.uploadService.CreateProgramUpload(c.Context(), req.Filename)
	if err != nil {
		log.Printf("Failed to create multipart upload: %v", err)
		return response.InternalServerError(c, "Failed to start upload")
	}

	return response.Created(c, creds)
}

// SignParts returns presigned PUT URLs for the requested parts
// POST /admin/uploads/:upload_id/parts
func (h *UploadHandler) SignParts(c *fiber.Ctx) error {
	uploadID := c.Params("upload_id")

	var req SignPartsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Key == "" {
		return response.BadRequest(c, "Upload key is required")
	}

	urls, err := h.uploadService.SignPartURLs(c.Context(), req.Key, uploadID, req.PartNumbers)
	if err != nil {
		if errors.Is(err, services.ErrNoParts) {
			return response.BadRequest(c, "At least one part number is required")
		}
		log.Printf("Failed to sign part URLs for upload %s: %v", uploadID, err)
		return response.InternalServerError(c, "Failed to sign part URLs")
	}

	return response.Success(c, urls)
}

// CompleteUpload finishes a multipart upload from the client's ETags
// POST /admin/uploads/:upload_id/complete
func (h *UploadHandler) CompleteUpload(c *fiber.Ctx) error {
	uploadID := c.Params("upload_id")

	var req CompleteUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Key == "" {
		return response.BadRequest(c, "Upload key is required")
	}

	err := h.uploadService.CompleteProgramUpload(c.Context(), req.Key, uploadID, req.Parts)
	if err != nil {
		if errors.Is(err, services.ErrNoParts) {
			return response.BadRequest(c, "At least one completed part is required")
		}
		log.Printf("Failed to complete upload %s: %v", uploadID, err)
		return response.InternalServerError(c, "Failed to complete upload")
	}

	return response.SuccessWithMessage(c, "Upload completed", fiber.Map{
		"key": req.Key,
	})
}

// AbortUpload discards an in-progress multipart upload
// DELETE /admin/uploads/:upload_id
func (h *UploadHandler) AbortUpload(c *fiber.Ctx) error {
	uploadID := c.Params("upload_id")
	key := c.Query("key")
	if key == "" {
		return response.BadRequest(c, "Upload key is required")
	}

	if err := h.uploadService.AbortProgramUpload(c.Context(), key, uploadID); err != nil {
		log.Printf("Failed to abort upload %s: %v", uploadID, err)
		return response.InternalServerError(c, "Failed to abort upload")
	}

	return response.SuccessWithMessage(c, "Upload aborted", nil)
}

// UploadImage accepts a product or page image through the server
// POST /admin/uploads/image
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Image file is required")
	}

	url, err := h.uploadService.UploadImage(c.Context(), file)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrImageTooLarge):
			return response.BadRequest(c, "Image exceeds the maximum allowed size")
		case errors.Is(err, services.ErrInvalidImage):
			return response.BadRequest(c, "File is not a valid JPEG, PNG or WEBP image")
		default:
			log.Printf("Image upload failed: %v", err)
			return response.InternalServerError(c, "Failed to store image")
		}
	}

	return response.Created(c, fiber.Map{
		"url": url,
	})
}
