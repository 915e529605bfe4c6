// Package dashboard provides the admin dashboard with entity counts.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	assetctl "github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/asset"
	contentctl "github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/content"
	memberctl "github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/member"
	modulectl "github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/module"
	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
	mwauth "github.com/Zsh123456-BOOP/jnu-web/internal/web/middleware/auth"
)

// Path is the path to the dashboard.
const Path = handler.AdminPath + "/dashboard"

// ContentCounts splits contents by status.
type ContentCounts struct {
	Draft     int64 `json:"draft"`
	Published int64 `json:"published"`
	Total     int64 `json:"total"`
}

// Data is the dashboard document.
type Data struct {
	Modules  int64         `json:"modules"`
	Contents ContentCounts `json:"contents"`
	Members  int64         `json:"members"`
	Assets   int64         `json:"assets"`
}

// Service is the dashboard handler service.
type Service struct {
	deps *handler.Deps
}

var _ handler.Service = (*Service)(nil)

// Init registers the dashboard route.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	router.Get(Path, mwauth.RequireAdmin(deps.Sessions), s.Get)

	return nil
}

// Get counts modules, contents, members and assets.
func (s *Service) Get(c *fiber.Ctx) error {
	data, err := Collect(s.deps.DB.WithContext(c.UserContext()))
	if err != nil {
		return err
	}

	log.Debug().
		Int64("modules", data.Modules).
		Int64("contents", data.Contents.Total).
		Int64("members", data.Members).
		Int64("assets", data.Assets).
		Msg("dashboard counts retrieved")

	return handler.OK(c, data)
}

// Collect runs the counts concurrently.
func Collect(db *gorm.DB) (Data, error) {
	var data Data

	g := new(errgroup.Group)

	g.Go(func() (err error) {
		data.Modules, err = modulectl.Count(db)
		return err
	})
	g.Go(func() error {
		byStatus, err := contentctl.CountByStatus(db)
		if err != nil {
			return err
		}

		data.Contents = ContentCounts{
			Draft:     byStatus[models.ContentStatusDraft],
			Published: byStatus[models.ContentStatusPublished],
		}
		for _, n := range byStatus {
			data.Contents.Total += n
		}

		return nil
	})
	g.Go(func() (err error) {
		data.Members, err = memberctl.Count(db)
		return err
	})
	g.Go(func() (err error) {
		data.Assets, err = assetctl.Count(db)
		return err
	})

	if err := g.Wait(); err != nil {
		return Data{}, err
	}

	return data, nil
}
