package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"schoolerp/internal/common"
	"schoolerp/internal/logger"
	"schoolerp/internal/models"
	"schoolerp/internal/storage"
	"schoolerp/internal/tenancy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MaxLogoSize   = 2 << 20
	logoURLExpiry = 15 * time.Minute
)

var logoTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// LogoUpload is one uploaded image.
type LogoUpload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// BrandingService stores school logos in object storage.
type BrandingService interface {
	UploadLogo(ctx context.Context, p tenancy.Principal, settingID uuid.UUID, upload LogoUpload) (*models.LogoResponse, error)
}

// ObjectRemover disposes of objects that are no longer referenced.
type ObjectRemover interface {
	RemoveLater(ctx context.Context, bucket, key string) error
}

type brandingService struct {
	settings Store[models.GeneralSetting, *models.GeneralSetting]
	objects  storage.ObjectStore
	stale    ObjectRemover
	bucket   string
	policy   tenancy.Policy
	guard    *tenancy.Guard
}

func NewBrandingService(settings Store[models.GeneralSetting, *models.GeneralSetting], objects storage.ObjectStore,
	stale ObjectRemover, bucket string, policy tenancy.Policy, guard *tenancy.Guard) BrandingService {
	return &brandingService{settings: settings, objects: objects, stale: stale, bucket: bucket, policy: policy, guard: guard}
}

// UploadLogo replaces the logo of a general setting the principal may update.
// Objects are keyed <tenant>/<setting>/logo<ext>.
func (s *brandingService) UploadLogo(ctx context.Context, p tenancy.Principal, settingID uuid.UUID, upload LogoUpload) (*models.LogoResponse, error) {
	action := tenancy.Action{Verb: tenancy.VerbUpdate, Resource: tenancy.ResourceGeneralSetting}
	if !s.policy.Permits(p.Role, action) {
		return nil, fmt.Errorf("%w: %s may not %s", common.ErrForbidden, p.Role, action)
	}

	ext := strings.ToLower(path.Ext(upload.Filename))
	contentType, ok := logoTypes[ext]
	if !ok {
		return nil, common.NewValidationError("logo", "must be a png, jpg, webp or svg image")
	}
	if upload.Size <= 0 || upload.Size > MaxLogoSize {
		return nil, common.NewValidationError("logo", fmt.Sprintf("size must be between 1 and %d bytes", MaxLogoSize))
	}

	setting, err := tenancy.AuthorizeRecord[models.GeneralSetting](ctx, s.guard, p, settingID, s.settings.Find)
	if err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("%s/%s/", setting.TenantID, setting.ID)
	key := prefix + "logo" + ext
	if err := s.objects.Put(ctx, s.bucket, key, upload.Body, upload.Size, contentType); err != nil {
		return nil, fmt.Errorf("store logo: %w", err)
	}

	previous := setting.LogoKey
	setting.LogoKey = &key
	if err := s.settings.Update(ctx, setting, tenantPredicate(p)); err != nil {
		return nil, err
	}
	if previous != nil && *previous != key {
		s.removeStale(ctx, prefix, *previous)
	}

	url, err := s.objects.PresignedURL(ctx, s.bucket, key, logoURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign logo: %w", err)
	}
	return &models.LogoResponse{LogoKey: key, URL: url}, nil
}

// removeStale schedules deletion of a replaced logo. Only objects under the
// setting's own prefix are ever removed.
func (s *brandingService) removeStale(ctx context.Context, prefix, key string) {
	log := logger.FromContext(ctx)
	if !strings.HasPrefix(key, prefix) {
		log.Warn("replaced logo outside setting prefix left in place", zap.String("key", key))
		return
	}
	if err := s.stale.RemoveLater(ctx, s.bucket, key); err != nil {
		log.Warn("stale logo not scheduled for removal", zap.String("key", key), zap.Error(err))
	}
}
