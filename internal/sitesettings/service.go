// Package sitesettings keeps the site-wide settings domains (footer, meta
// and home page texts) and the composite views built from them.
//
// Every domain lives in its own row of the settings table. Reads merge the
// stored blob over the domain defaults, so a missing or partial row still
// yields a complete value. Writes merge the patch over the current value
// and replace the row; concurrent writers to the same domain are last
// write wins.
package sitesettings

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Zsh123456-BOOP/jnu-web/internal/db/controller/setting"
	"github.com/Zsh123456-BOOP/jnu-web/internal/jsonutil"
)

// Service reads and writes the settings domains.
type Service struct {
	db *gorm.DB
}

// New returns a Service backed by db.
func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) load(ctx context.Context, key string) (jsonutil.Value, error) {
	stored, err := setting.Load(s.db.WithContext(ctx), key)
	if err != nil {
		return jsonutil.Value{}, errors.Wrapf(err, "load %s", key)
	}

	return jsonutil.ParseStored(stored, jsonutil.EmptyObject()), nil
}

func (s *Service) store(ctx context.Context, key string, value jsonutil.Value) error {
	if err := setting.Store(s.db.WithContext(ctx), key, value); err != nil {
		return errors.Wrapf(err, "store %s", key)
	}

	return nil
}

// Footer returns the stored footer merged over DefaultFooter.
func (s *Service) Footer(ctx context.Context) (jsonutil.Value, error) {
	stored, err := s.load(ctx, FooterKey)
	if err != nil {
		return jsonutil.Value{}, err
	}

	return jsonutil.MergeDeep(DefaultFooter(), stored), nil
}

// UpdateFooter merges patch into the current footer and stores the result.
func (s *Service) UpdateFooter(ctx context.Context, patch jsonutil.Value) (jsonutil.Value, error) {
	current, err := s.Footer(ctx)
	if err != nil {
		return jsonutil.Value{}, err
	}

	next := jsonutil.MergeDeep(current, patch)

	if err := s.store(ctx, FooterKey, next); err != nil {
		return jsonutil.Value{}, err
	}

	return next, nil
}

// Meta returns the stored site meta merged over DefaultMeta.
func (s *Service) Meta(ctx context.Context) (jsonutil.Value, error) {
	stored, err := s.load(ctx, MetaKey)
	if err != nil {
		return jsonutil.Value{}, err
	}

	return jsonutil.MergeDeep(DefaultMeta(), stored), nil
}

// UpdateMeta merges patch into the current meta and stores the result.
func (s *Service) UpdateMeta(ctx context.Context, patch jsonutil.Value) (jsonutil.Value, error) {
	current, err := s.Meta(ctx)
	if err != nil {
		return jsonutil.Value{}, err
	}

	next := jsonutil.MergeDeep(current, patch)

	if err := s.store(ctx, MetaKey, next); err != nil {
		return jsonutil.Value{}, err
	}

	return next, nil
}

// HomeText returns the normalized home page texts.
func (s *Service) HomeText(ctx context.Context) (jsonutil.Value, error) {
	stored, err := s.load(ctx, HomeTextKey)
	if err != nil {
		return jsonutil.Value{}, err
	}

	return NormalizeHomeText(DefaultHomeText(), stored), nil
}

// UpdateHomeText applies the string fields of patch over the current texts
// and stores the normalized result.
func (s *Service) UpdateHomeText(ctx context.Context, patch jsonutil.Value) (jsonutil.Value, error) {
	current, err := s.HomeText(ctx)
	if err != nil {
		return jsonutil.Value{}, err
	}

	next := NormalizeHomeText(current, patch)

	if err := s.store(ctx, HomeTextKey, next); err != nil {
		return jsonutil.Value{}, err
	}

	return next, nil
}

// Site returns the free-form site blob, {} when nothing is stored.
func (s *Service) Site(ctx context.Context) (jsonutil.Value, error) {
	stored, err := s.load(ctx, SiteKey)
	if err != nil {
		return jsonutil.Value{}, err
	}

	if !stored.IsObject() {
		return jsonutil.EmptyObject(), nil
	}

	return stored, nil
}

// ReplaceSite validates value as a JSON object and replaces the site blob.
func (s *Service) ReplaceSite(ctx context.Context, value jsonutil.Value) (jsonutil.Value, error) {
	obj, err := jsonutil.EnsureObject(value, "value")
	if err != nil {
		return jsonutil.Value{}, err
	}

	if err := s.store(ctx, SiteKey, obj); err != nil {
		return jsonutil.Value{}, err
	}

	return obj, nil
}

type snapshot struct {
	footer   jsonutil.Value
	meta     jsonutil.Value
	homeText jsonutil.Value
}

func (s *Service) snapshot(ctx context.Context, withHomeText bool) (snapshot, error) {
	var snap snapshot

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.footer, err = s.Footer(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.meta, err = s.Meta(gctx)
		return err
	})

	if withHomeText {
		g.Go(func() (err error) {
			snap.homeText, err = s.HomeText(gctx)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}

	return snap, nil
}

func (snap snapshot) compose(withHomeText bool) jsonutil.Value {
	out := snap.meta.With("footer", snap.footer)

	if withHomeText {
		out = out.With("home_text", snap.homeText)
	}

	return out
}

// Admin returns the meta fields plus footer and home_text.
func (s *Service) Admin(ctx context.Context) (jsonutil.Value, error) {
	snap, err := s.snapshot(ctx, true)
	if err != nil {
		return jsonutil.Value{}, err
	}

	return snap.compose(true), nil
}

// Public returns the meta fields plus footer.
func (s *Service) Public(ctx context.Context) (jsonutil.Value, error) {
	snap, err := s.snapshot(ctx, false)
	if err != nil {
		return jsonutil.Value{}, err
	}

	return snap.compose(false), nil
}

// UpdateAdmin applies every non-empty domain of p, reads the untouched
// domains and returns the admin composite. Domains are written
// independently; a failure in one leaves the others applied.
func (s *Service) UpdateAdmin(ctx context.Context, p Patch) (jsonutil.Value, error) {
	var snap snapshot

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		if p.Footer.IsObject() {
			snap.footer, err = s.UpdateFooter(gctx, p.Footer)
		} else {
			snap.footer, err = s.Footer(gctx)
		}

		return err
	})
	g.Go(func() (err error) {
		if p.Meta.IsObject() {
			snap.meta, err = s.UpdateMeta(gctx, p.Meta)
		} else {
			snap.meta, err = s.Meta(gctx)
		}

		return err
	})
	g.Go(func() (err error) {
		if p.HomeText.IsObject() {
			snap.homeText, err = s.UpdateHomeText(gctx, p.HomeText)
		} else {
			snap.homeText, err = s.HomeText(gctx)
		}

		return err
	})

	if err := g.Wait(); err != nil {
		return jsonutil.Value{}, err
	}

	return snap.compose(true), nil
}
