// Package upload stores images, videos and audio files sent by the admin panel.
package upload

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/guit-county/guit-portal/internal/config"
	"github.com/guit-county/guit-portal/internal/store"
	"github.com/guit-county/guit-portal/internal/web/handler"
)

const (
	// Path is the route below the api group.
	Path = "/upload"
	// URLPrefix is where stored files are served.
	URLPrefix = "/uploads"
	// FormField is the multipart field holding the file.
	FormField = "image"

	msgNoFile     = "No file selected"
	msgBadType    = "Upload error: Only images, videos, and audio files are allowed"
	msgTooLarge   = "Upload error: File too large (max %d MB)"
	msgServerFail = "Server error: "
)

var allowedTypes = []string{"image/", "video/", "audio/"}

// Service is the upload handler service.
type Service struct {
	cfg *config.Config
	dir string
	max int64
}

// Handler is the upload handler.
var Handler = Service{}

// Init creates the upload directory and registers the route.
func (s *Service) Init(router fiber.Router, cfg *config.Config, _ store.Store) error {
	if router == nil || cfg == nil {
		return handler.ErrNil
	}

	s.cfg = cfg
	s.dir = cfg.Upload.Dir
	s.max = cfg.Upload.MaxSize

	if err := os.MkdirAll(s.dir, 0o755); err != nil { //nolint:mnd
		return errors.Wrap(err, "failed to create upload directory")
	}

	router.Post(Path, s.Post)

	return nil
}

// Post stores the file of the image field and answers its url.
func (s *Service) Post(c *fiber.Ctx) error {
	fh, err := c.FormFile(FormField)
	if err != nil || fh == nil {
		log.Warn().Msg("no file selected in upload request")
		return handler.Error(c, fiber.StatusBadRequest, msgNoFile)
	}

	contentType, err := detectType(fh)
	if err != nil {
		return handler.Error(c, fiber.StatusInternalServerError, msgServerFail+err.Error())
	}

	if !allowed(contentType) {
		log.Warn().Str("type", contentType).Str("file", fh.Filename).Msg("upload rejected")
		return handler.Error(c, fiber.StatusBadRequest, msgBadType)
	}

	if s.max > 0 && fh.Size > s.max {
		log.Warn().Str("size", humanize.IBytes(uint64(fh.Size))).Str("file", fh.Filename).Msg("upload too large") //nolint:gosec
		return handler.Error(c, fiber.StatusBadRequest, fmt.Sprintf(msgTooLarge, s.max>>20))
	}

	name := fmt.Sprintf("%s-%d-%s%s",
		FormField, time.Now().UnixMilli(), uuid.NewString(), strings.ToLower(filepath.Ext(fh.Filename)))

	if err = c.SaveFile(fh, filepath.Join(s.dir, name)); err != nil {
		log.Error().Err(err).Str("file", name).Msg("failed to store upload")
		return handler.Error(c, fiber.StatusInternalServerError, msgServerFail+err.Error())
	}

	url := URLPrefix + "/" + name
	log.Info().Str("url", url).Str("type", contentType).Str("size", humanize.IBytes(uint64(fh.Size))).Msg("file uploaded") //nolint:gosec

	return c.JSON(fiber.Map{"url": url})
}

// detectType returns the declared content type, or the sniffed one when the
// client didn't declare a useful type.
func detectType(fh *multipart.FileHeader) (string, error) {
	declared := strings.ToLower(strings.TrimSpace(fh.Header.Get(fiber.HeaderContentType)))
	if declared != "" && declared != fiber.MIMEOctetStream {
		return declared, nil
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}

	return mt.String(), nil
}

func allowed(contentType string) bool {
	for _, prefix := range allowedTypes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}

	return false
}
