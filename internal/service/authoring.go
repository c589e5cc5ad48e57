package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/microcosm-cc/bluemonday"

	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
)

// ContentGateway defines the interface for table-scoped store operations.
type ContentGateway interface {
	SelectAll(ctx context.Context, s *content.Schema, q data.Query) ([]data.Row, error)
	SelectOne(ctx context.Context, s *content.Schema, match string, value any) (data.Row, error)
	Insert(ctx context.Context, s *content.Schema, values map[string]any) (int64, error)
	Update(ctx context.Context, s *content.Schema, id int64, values map[string]any) error
	Delete(ctx context.Context, s *content.Schema, id int64) error
	MaxOrder(ctx context.Context, s *content.Schema) (int64, error)
	Count(ctx context.Context, s *content.Schema) (int64, error)
}

// RouteInvalidator marks cached public routes stale after a write.
type RouteInvalidator interface {
	InvalidatePrefix(route string) error
}

// SaveResult reports a successful create or update.
type SaveResult struct {
	ID   int64
	Slug string
	// RedirectTo is the canonical follow-up route: the item's detail page
	// when it has one, the admin dashboard otherwise.
	RedirectTo string
}

// AuthoringService runs the authoring pipeline in a fixed order: actor
// check, normalization, slug derivation, validation, order assignment,
// persistence, and cache invalidation. It aborts on the first failure.
type AuthoringService struct {
	gw        ContentGateway
	routes    RouteInvalidator
	sanitizer *bluemonday.Policy
	log       logger.Logger
}

// NewAuthoringService creates an AuthoringService.
func NewAuthoringService(gw ContentGateway, routes RouteInvalidator, log logger.Logger) *AuthoringService {
	// UGCPolicy allows basic formatting in markdown bodies while stripping
	// dangerous HTML before it ever reaches the store.
	return &AuthoringService{
		gw:        gw,
		routes:    routes,
		sanitizer: bluemonday.UGCPolicy(),
		log:       log,
	}
}

// Create persists a new record from a raw form submission.
func (s *AuthoringService) Create(ctx context.Context, actor string, sc *content.Schema, form url.Values) (*SaveResult, error) {
	if actor == "" {
		return nil, ErrUnauthorized
	}

	values := sc.Normalize(form)

	slug := ""
	if sc.HasSlug {
		slug, _ = values["slug"].(string)
		if slug == "" {
			slug = content.DeriveSlug(values["title"].(string))
		}
		values["slug"] = slug
	}

	if err := sc.Validate(values); err != nil {
		return nil, err
	}
	s.sanitizeMarkdown(sc, values)

	if sc.Ordered {
		max, err := s.gw.MaxOrder(ctx, sc)
		if err != nil {
			s.logStore(sc, "create", err)
			return nil, err
		}
		values["sort_order"] = max + 1
	}

	id, err := s.gw.Insert(ctx, sc, values)
	if err != nil {
		if errors.Is(err, data.ErrConflict) {
			return nil, ErrConflict
		}
		s.logStore(sc, "create", err)
		return nil, err
	}

	s.invalidate(sc, slug)
	return &SaveResult{ID: id, Slug: slug, RedirectTo: redirectTarget(sc, slug)}, nil
}

// Update replaces the editable fields of an existing record. The id and
// creation timestamp stay untouched; a blank slug field keeps the stored
// slug rather than erasing it.
func (s *AuthoringService) Update(ctx context.Context, actor string, sc *content.Schema, id int64, form url.Values) (*SaveResult, error) {
	if actor == "" {
		return nil, ErrUnauthorized
	}

	values := sc.Normalize(form)

	slug := ""
	if sc.HasSlug {
		slug, _ = values["slug"].(string)
		if slug == "" {
			delete(values, "slug")
		}
	}

	if err := sc.Validate(values); err != nil {
		return nil, err
	}
	s.sanitizeMarkdown(sc, values)

	if err := s.gw.Update(ctx, sc, id, values); err != nil {
		switch {
		case errors.Is(err, data.ErrConflict):
			return nil, ErrConflict
		case errors.Is(err, data.ErrNotFound):
			return nil, ErrNotFound
		}
		s.logStore(sc, "update", err)
		return nil, err
	}

	s.invalidate(sc, slug)
	return &SaveResult{ID: id, Slug: slug, RedirectTo: redirectTarget(sc, slug)}, nil
}

// Delete removes a record. The row is fetched first so the detail route can
// be invalidated; deletion is physical and referenced assets stay in storage.
func (s *AuthoringService) Delete(ctx context.Context, actor string, sc *content.Schema, id int64) error {
	if actor == "" {
		return ErrUnauthorized
	}

	slug := ""
	if row, err := s.gw.SelectOne(ctx, sc, "id", id); err == nil {
		slug = row.Slug()
	}

	if err := s.gw.Delete(ctx, sc, id); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return ErrNotFound
		}
		s.logStore(sc, "delete", err)
		return err
	}

	s.invalidate(sc, slug)
	return nil
}

// AddGalleryItem persists the metadata of an already-uploaded asset,
// recording the uploading user's subject.
func (s *AuthoringService) AddGalleryItem(ctx context.Context, actor, name, description, assetURL string) (int64, error) {
	if actor == "" {
		return 0, ErrUnauthorized
	}
	form := url.Values{
		"title":       {name},
		"description": {description},
		"url":         {assetURL},
		"uploader":    {actor},
	}
	res, err := s.Create(ctx, actor, content.GalleryItems, form)
	if err != nil {
		return 0, err
	}
	return res.ID, nil
}

func (s *AuthoringService) sanitizeMarkdown(sc *content.Schema, values map[string]any) {
	for _, f := range sc.Fields {
		if f.Kind != content.KindMarkdown {
			continue
		}
		if body, ok := values[f.Name].(string); ok {
			values[f.Name] = s.sanitizer.Sanitize(body)
		}
	}
}

// invalidate marks stale the admin listing and every public route that can
// surface the record. Failures are logged and swallowed; invalidation is
// not transactional with the write.
func (s *AuthoringService) invalidate(sc *content.Schema, slug string) {
	routes := append(sc.InvalidationRoutes(slug), "/admin")
	for _, route := range routes {
		if err := s.routes.InvalidatePrefix(route); err != nil {
			s.log.Error(err, fmt.Sprintf("failed to invalidate route %s", route))
		}
	}
}

func (s *AuthoringService) logStore(sc *content.Schema, op string, err error) {
	s.log.With(map[string]interface{}{"table": sc.Table, "op": op}).Error(err, "store operation failed")
}

func redirectTarget(sc *content.Schema, slug string) string {
	if sc.RedirectToDetail && slug != "" {
		return sc.DetailPrefix + slug
	}
	return "/admin"
}
