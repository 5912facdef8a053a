package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"bulag/internal/config"
	"bulag/internal/models"
	"bulag/internal/repository"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultMediaDir             = "/tmp/bulag/media"
	DefaultImageMaxUploadSizeMB = 10
	MasterMaxSize               = 2048
	JPEGQuality                 = 82
	WebPQuality                 = 70
)

// variantSizes are the renditions written for each uploaded image, in both
// jpg and webp.
var variantSizes = []int{256, 1080}

// UploadImageInput carries one uploaded image file.
type UploadImageInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

// MediaService stores uploaded images content-addressed by hash and produces
// resized variants for serving.
type MediaService struct {
	repo               repository.ImageRepository
	mediaDir           string
	maxUploadSizeBytes int64
}

// NewMediaService returns a new MediaService.
func NewMediaService(repo repository.ImageRepository, cfg *config.Config) *MediaService {
	mediaDir := DefaultMediaDir
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB

	if cfg != nil {
		if cfg.MediaDir != "" {
			mediaDir = cfg.MediaDir
		}
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
		}
	}

	return &MediaService{
		repo:               repo,
		mediaDir:           mediaDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Upload validates, stores and resizes the image, returning its metadata.
// Re-uploading identical content by the same user returns the existing record.
func (s *MediaService) Upload(ctx context.Context, in UploadImageInput) (*models.Image, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	if !isAllowedImageMIME(http.DetectContentType(in.Content)) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedImageFormat(format) {
		return nil, models.NewValidationError("Unsupported image format")
	}

	master := resizeToFit(decoded, MasterMaxSize, MasterMaxSize)
	masterJPG, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	hash := imageHash(in.UserID, masterJPG)
	if existing, getErr := s.repo.GetByHash(ctx, hash); getErr == nil {
		return existing, nil
	}

	if err := s.writeFile(hash, "master.jpg", masterJPG); err != nil {
		return nil, models.NewInternalError(err)
	}
	masterWebP, err := encodeWebP(master, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.writeFile(hash, "master.webp", masterWebP); err != nil {
		return nil, models.NewInternalError(err)
	}

	bounds := master.Bounds()
	record := &models.Image{
		Hash:   hash,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	if err := s.generateVariants(ctx, record, master); err != nil {
		return nil, err
	}
	return s.repo.GetByHash(ctx, hash)
}

// ServePath resolves a stored image to its on-disk master path.
func (s *MediaService) ServePath(ctx context.Context, hash string) (string, error) {
	if !isValidImageHash(hash) {
		return "", models.NewValidationError("Invalid image hash")
	}
	if _, err := s.repo.GetByHash(ctx, hash); err != nil {
		return "", err
	}
	path := filepath.Join(s.mediaDir, hash, "master.jpg")
	if _, err := os.Stat(path); err != nil {
		return "", models.NewNotFoundError("Image", hash)
	}
	return path, nil
}

// ServeFile resolves a stored image file (master or a variant) to its on-disk
// path. File names outside the generated set are rejected before touching the
// filesystem.
func (s *MediaService) ServeFile(ctx context.Context, hash, file string) (string, error) {
	if !isValidImageHash(hash) {
		return "", models.NewValidationError("Invalid image hash")
	}
	if !servableFiles[file] {
		return "", models.NewValidationError("Invalid image file")
	}
	if _, err := s.repo.GetByHash(ctx, hash); err != nil {
		return "", err
	}
	path := filepath.Join(s.mediaDir, hash, file)
	if _, err := os.Stat(path); err != nil {
		return "", models.NewNotFoundError("Image", hash)
	}
	return path, nil
}

// servableFiles is the closed set of files generated per upload. Smaller
// variants are skipped for small masters, so a listed name can still 404.
var servableFiles = map[string]bool{
	"master.jpg":  true,
	"master.webp": true,
	"256.jpg":     true,
	"256.webp":    true,
	"1080.jpg":    true,
	"1080.webp":   true,
}

func (s *MediaService) generateVariants(ctx context.Context, record *models.Image, master image.Image) error {
	b := master.Bounds()
	for _, size := range variantSizes {
		if b.Dx() < size && b.Dy() < size {
			continue
		}
		resized := resizeToFit(master, size, size)

		webpBytes, err := encodeWebP(resized, WebPQuality)
		if err != nil {
			return models.NewInternalError(err)
		}
		if err := s.writeFile(record.Hash, fmt.Sprintf("%d.webp", size), webpBytes); err != nil {
			return models.NewInternalError(err)
		}
		if err := s.repo.UpsertVariant(ctx, &models.ImageVariant{
			ImageID: record.ID, SizePx: size, Format: "webp",
		}); err != nil {
			return err
		}

		jpgBytes, err := encodeJPEG(resized, JPEGQuality)
		if err != nil {
			return models.NewInternalError(err)
		}
		if err := s.writeFile(record.Hash, fmt.Sprintf("%d.jpg", size), jpgBytes); err != nil {
			return models.NewInternalError(err)
		}
		if err := s.repo.UpsertVariant(ctx, &models.ImageVariant{
			ImageID: record.ID, SizePx: size, Format: "jpg",
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *MediaService) writeFile(hash, name string, data []byte) error {
	dir := filepath.Join(s.mediaDir, hash)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0o600)
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 || (w <= maxWidth && h <= maxHeight) {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func isSupportedImageFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

// isValidImageHash checks that the hash is strictly lowercase hex (SHA-256
// style). This prevents path traversal via crafted hash parameters.
func isValidImageHash(hash string) bool {
	if len(hash) == 0 || len(hash) > 128 {
		return false
	}
	for _, c := range hash {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func imageHash(userID uint, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%d:", userID)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
