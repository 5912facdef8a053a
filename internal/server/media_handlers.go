package server

import (
	"io"

	"bulag/internal/models"
	"bulag/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/media
// @Summary Upload an image
// @Description Stores the image content-addressed by hash and generates resized variants; re-uploading identical content returns the existing record
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file (JPEG, PNG, GIF or WebP)"
// @Success 201 {object} models.Envelope
// @Failure 400 {object} object{error=string}
// @Router /media [post]
func (s *Server) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	image, err := s.mediaService.Upload(c.Context(), service.UploadImageInput{
		UserID:      currentUserID(c),
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.OK(image))
}

// ServeImage handles GET /media/i/:hash/:file
// @Summary Serve a stored image
// @Description Serves the master or a resized variant by content hash
// @Tags media
// @Produce image/jpeg
// @Param hash path string true "Image content hash"
// @Param file path string true "File name" Enums(master.jpg, master.webp, 256.jpg, 256.webp, 1080.jpg, 1080.webp)
// @Success 200 {file} binary
// @Failure 404 {object} object{error=string}
// @Router /media/i/{hash}/{file} [get]
func (s *Server) ServeImage(c *fiber.Ctx) error {
	path, err := s.mediaService.ServeFile(c.Context(), c.Params("hash"), c.Params("file"))
	if err != nil {
		return respondErr(c, err)
	}

	c.Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.SendFile(path)
}
