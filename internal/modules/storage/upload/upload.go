package upload

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/athar-archive/core/internal/middleware"
	"github.com/athar-archive/core/internal/models"
	"github.com/athar-archive/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Upload types, each with its own bucket folder and size cap.
const (
	TypeFeaturedImage = "featured_image"
	TypeContentImage  = "content_image"
	TypeAuthorProfile = "author_profile"
	TypeAudio         = "audio"
)

var uploadFolders = map[string]string{
	TypeFeaturedImage: "blog/featured/",
	TypeContentImage:  "blog/content/",
	TypeAuthorProfile: "blog/authors/",
	TypeAudio:         "audio/",
}

var maxFileSize = map[string]int64{
	TypeFeaturedImage: 10 << 20,
	TypeContentImage:  10 << 20,
	TypeAuthorProfile: 5 << 20,
	TypeAudio:         200 << 20,
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var allowedAudioTypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/mp3":   true,
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/mp4":   true,
	"audio/ogg":   true,
	"audio/flac":  true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

type PresignDTO struct {
	Filename    string `json:"filename"     binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	UploadType  string `json:"upload_type"  binding:"required"`
}

type ConfirmDTO struct {
	PublicURL string `json:"public_url" binding:"required"`
}

type DeleteDTO struct {
	FileURL string `json:"file_url" binding:"required"`
}

type presignResponse struct {
	PresignedURL string `json:"presigned_url"`
	PublicURL    string `json:"public_url"`
	Key          string `json:"key"`
	MaxSize      int64  `json:"max_size"`
}

// Service issues presigned upload grants and tracks their lifecycle so the
// sweeper can reclaim objects whose upload was confirmed by nobody.
type Service struct {
	db     *gorm.DB
	client *Client
	log    *zap.Logger
	now    func() time.Time
}

func NewService(db *gorm.DB, client *Client, log *zap.Logger) *Service {
	return &Service{db: db, client: client, log: log, now: time.Now}
}

// Presign validates the request and returns the upload target plus the
// public URL the object will have once stored.
func (s *Service) Presign(ctx context.Context, dto *PresignDTO) (*presignResponse, error) {
	folder, ok := uploadFolders[dto.UploadType]
	if !ok {
		return nil, fmt.Errorf("unknown upload type %q", dto.UploadType)
	}
	if err := checkContentType(dto.UploadType, dto.ContentType); err != nil {
		return nil, err
	}

	sanitized := unsafeFilenameChars.ReplaceAllString(dto.Filename, "_")
	key := fmt.Sprintf("%s%d-%s", folder, s.now().UnixMilli(), sanitized)

	presigned, err := s.client.PresignPut(ctx, key, dto.ContentType)
	if err != nil {
		return nil, err
	}
	publicURL := s.client.PublicURL(key)

	ref := models.FileReferenceModel{
		ObjectKey:  key,
		PublicURL:  publicURL,
		UploadType: dto.UploadType,
		Status:     models.FileRefPending,
	}
	if err := s.db.Create(&ref).Error; err != nil {
		return nil, err
	}

	return &presignResponse{
		PresignedURL: presigned,
		PublicURL:    publicURL,
		Key:          key,
		MaxSize:      maxFileSize[dto.UploadType],
	}, nil
}

// Confirm marks a grant as used once the client finished its PUT. Confirmed
// objects are permanent until explicitly deleted.
func (s *Service) Confirm(publicURL string) error {
	res := s.db.Model(&models.FileReferenceModel{}).
		Where("public_url = ? AND status = ?", publicURL, models.FileRefPending).
		Update("status", models.FileRefUsed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the object and its reference row. The store call is best
// effort: a missing object is not an error worth surfacing.
func (s *Service) Delete(ctx context.Context, fileURL string) error {
	key, err := keyFromURL(fileURL)
	if err != nil {
		return err
	}
	if err := s.client.DeleteObject(ctx, key); err != nil {
		s.log.Warn("delete object", zap.String("key", key), zap.Error(err))
	}
	return s.db.Where("object_key = ?", key).Delete(&models.FileReferenceModel{}).Error
}

// SweepOrphans reclaims objects whose upload grant was never confirmed.
// Run from cron with a generous age so slow uploads are not clobbered.
func (s *Service) SweepOrphans(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := s.now().Add(-olderThan)
	var refs []models.FileReferenceModel
	if err := s.db.Where("status = ? AND created_at < ?", models.FileRefPending, cutoff).
		Find(&refs).Error; err != nil {
		return 0, err
	}

	swept := 0
	for _, ref := range refs {
		if err := s.client.DeleteObject(ctx, ref.ObjectKey); err != nil {
			s.log.Warn("sweep object", zap.String("key", ref.ObjectKey), zap.Error(err))
		}
		if err := s.db.Unscoped().Delete(&models.FileReferenceModel{}, "id = ?", ref.ID).Error; err != nil {
			return swept, err
		}
		swept++
	}
	return swept, nil
}

func checkContentType(uploadType, contentType string) error {
	if uploadType == TypeAudio {
		if !allowedAudioTypes[contentType] {
			return fmt.Errorf("only audio files are allowed for audio uploads")
		}
		return nil
	}
	if !allowedImageTypes[contentType] {
		return fmt.Errorf("only image files (JPEG, PNG, WebP, GIF) are allowed")
	}
	return nil
}

func keyFromURL(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("invalid file url: %w", err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("file url has no object key")
	}
	return key, nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/uploads", authMW, middleware.RequireRole(models.RoleAdmin))
	g.POST("/presign", h.presign)
	g.POST("/confirm", h.confirm)
	g.DELETE("", h.delete)
}

func (h *Handler) presign(c *gin.Context) {
	var dto PresignDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	resp, err := h.svc.Presign(c.Request.Context(), &dto)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, resp)
}

func (h *Handler) confirm(c *gin.Context) {
	var dto ConfirmDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Confirm(dto.PublicURL); err != nil {
		if err == gorm.ErrRecordNotFound {
			response.NotFoundMsg(c, "no pending upload for that url")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) delete(c *gin.Context) {
	var dto DeleteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Delete(c.Request.Context(), dto.FileURL); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.NoContent(c)
}
