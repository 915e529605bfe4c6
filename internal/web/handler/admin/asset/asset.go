// Package asset provides the admin listing, upload and removal of asset
// files.
package asset

import (
	"io"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Zsh123456-BOOP/jnu-web/internal/apperr"
	"github.com/Zsh123456-BOOP/jnu-web/internal/config"
	assetctl "github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/asset"
	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/pagination"
	"github.com/Zsh123456-BOOP/jnu-web/internal/storage"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
	mwauth "github.com/Zsh123456-BOOP/jnu-web/internal/web/middleware/auth"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/view"
)

const (
	// Path is the base path for asset management.
	Path = handler.AdminPath + "/assets"

	// UploadPath receives multipart uploads.
	UploadPath = Path + "/upload"

	// FormField is the multipart field holding the file.
	FormField = "file"

	// NotFoundMessage is returned for unknown asset IDs.
	NotFoundMessage = "Asset not found"

	// FileRequiredMessage is returned when the upload carries no file.
	FileRequiredMessage = "File is required"

	// UnsupportedTypeMessage is returned for files that are not an
	// accepted image.
	UnsupportedTypeMessage = "Only PNG, JPG and WEBP images can be uploaded"
)

// ErrStorageNotConfigured is returned by Init without a storage backend.
var ErrStorageNotConfigured = errors.New("asset storage is not configured")

var allowedMimes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
}

// Service manages uploaded assets.
type Service struct {
	deps *handler.Deps
	now  func() time.Time
}

var _ handler.Service = (*Service)(nil)

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil {
		return handler.ErrNilDeps
	}

	if deps.Storage == nil {
		return ErrStorageNotConfigured
	}

	s.deps = deps
	if s.now == nil {
		s.now = time.Now
	}

	requireAdmin := mwauth.RequireAdmin(deps.Sessions)

	router.Get(Path, requireAdmin, s.List)
	router.Post(UploadPath, requireAdmin, s.Upload)
	router.Delete(Path+"/:id", requireAdmin, s.Delete)

	return nil
}

// List returns one page of assets, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	p := pagination.Compute(c.Query("page"), c.Query("pageSize"))

	res, err := assetctl.List(s.deps.DB.WithContext(c.UserContext()), p)
	if err != nil {
		return err
	}

	url := s.deps.AssetURL(c)

	return handler.OK(c, pagination.Map(res, func(a models.Asset) view.Asset {
		return view.NewAsset(a, url)
	}))
}

func (s *Service) maxSize() int64 {
	if s.deps.Cfg != nil && s.deps.Cfg.Storage.MaxUploadSize > 0 {
		return s.deps.Cfg.Storage.MaxUploadSize
	}

	return config.DefaultMaxUploadSize
}

// Upload stores the multipart file and records it. The type is sniffed
// from the content; the client supplied type is ignored.
func (s *Service) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile(FormField)
	if err != nil {
		return apperr.Validation(FileRequiredMessage).WithCause(err)
	}

	if limit := s.maxSize(); header.Size > limit {
		return apperr.Validation("File too large, the limit is " + humanize.IBytes(uint64(limit)))
	}

	file, err := header.Open()
	if err != nil {
		return errors.Wrap(err, "open upload")
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return errors.Wrap(err, "detect upload type")
	}

	mime := mtype.String()
	if _, ok := allowedMimes[mime]; !ok {
		log.Warn().Str("detected_mime", mime).Str("filename", header.Filename).Msg("rejected upload")
		return apperr.Validation(UnsupportedTypeMessage)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "rewind upload")
	}

	originalName := storage.FixMojibake(header.Filename)
	rel := storage.UploadPath(s.now(), originalName)
	ctx := c.UserContext()

	if err := s.deps.Storage.Put(ctx, rel, file, header.Size, mime); err != nil {
		return errors.Wrap(err, "store upload")
	}

	a := &models.Asset{
		OriginalName: path.Base(strings.ReplaceAll(originalName, "\\", "/")),
		Mime:         mime,
		Size:         header.Size,
		RelativePath: rel,
		Kind:         kindOf(mime),
	}

	if err := assetctl.Create(s.deps.DB.WithContext(ctx), a); err != nil {
		if derr := s.deps.Storage.Delete(ctx, rel); derr != nil {
			log.Error().Err(derr).Str("path", rel).Msg("failed to remove orphaned upload")
		}

		return err
	}

	log.Info().Uint64("asset_id", a.ID).Str("path", rel).Int64("size", a.Size).Msg("asset uploaded")

	return handler.OK(c, view.NewAsset(*a, s.deps.AssetURL(c)))
}

func kindOf(mime string) models.AssetKind {
	if strings.HasPrefix(mime, "image/") {
		return models.AssetKindImage
	}

	return models.AssetKindFile
}

// Delete removes an asset row. With removeFile=1|true|yes the stored file
// is removed too; storage failures are logged only.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	db := s.deps.DB.WithContext(c.UserContext())

	a, err := assetctl.Get(db, id)
	if err != nil {
		return handler.NotFound(err, assetctl.ErrAssetNotFound, NotFoundMessage)
	}

	if err := assetctl.Delete(db, id); err != nil {
		return handler.NotFound(err, assetctl.ErrAssetNotFound, NotFoundMessage)
	}

	if removeFile(c.Query("removeFile")) {
		if err := s.deps.Storage.Delete(c.UserContext(), a.RelativePath); err != nil {
			log.Warn().Err(err).Str("path", a.RelativePath).Msg("failed to remove asset file")
		}
	}

	log.Info().Uint64("asset_id", id).Msg("asset deleted")

	return handler.Done(c)
}

func removeFile(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
