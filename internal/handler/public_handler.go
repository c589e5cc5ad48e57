package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/view"
)

// PublicHandler serves the read-only public pages. It never touches the
// session gate; everything here renders for anonymous visitors.
type PublicHandler struct {
	pub  *service.PublishingService
	view *view.View
	log  logger.Logger
}

// NewPublicHandler creates a new PublicHandler with the given dependencies.
func NewPublicHandler(pub *service.PublishingService, v *view.View, log logger.Logger) *PublicHandler {
	return &PublicHandler{pub: pub, view: v, log: log}
}

func (h *PublicHandler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) *middleware.AppError {
	if err := h.view.Render(w, r, name, data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page", Code: http.StatusInternalServerError}
	}
	return nil
}

// homeHandler aggregates hero, skills, timeline, and featured content.
func (h *PublicHandler) homeHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	home := h.pub.Home(r.Context())
	return h.render(w, r, "home.html", map[string]interface{}{
		"Home":     home,
		"UserInfo": middleware.GetUserInfo(r.Context()),
	})
}

// collectionHandler renders the listing page of a content variant,
// published rows only, featured rows pinned first.
func (h *PublicHandler) collectionHandler(sc *content.Schema, templateName string) middleware.AppHandler {
	return func(w http.ResponseWriter, r *http.Request) *middleware.AppError {
		viewModel := h.pub.Collection(r.Context(), sc, service.CollectionOpts{PublishedOnly: true})
		return h.render(w, r, templateName, map[string]interface{}{
			"Schema":     sc,
			"Collection": viewModel,
		})
	}
}

// detailHandler renders one published row by slug; a missing or
// unpublished row is terminal and yields the not-found page.
func (h *PublicHandler) detailHandler(sc *content.Schema, templateName string) middleware.AppHandler {
	return func(w http.ResponseWriter, r *http.Request) *middleware.AppError {
		slug := chi.URLParam(r, "slug")
		row, err := h.pub.Detail(r.Context(), sc, slug)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return &middleware.AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
			}
			return &middleware.AppError{Error: err, Message: "Failed to load page", Code: http.StatusInternalServerError}
		}
		return h.render(w, r, templateName, map[string]interface{}{
			"Schema": sc,
			"Item":   row,
		})
	}
}

// resumeHandler renders the resume sections in their explicit order.
func (h *PublicHandler) resumeHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.render(w, r, "resume.html", map[string]interface{}{
		"Resume": h.pub.Resume(r.Context()),
	})
}

// galleryHandler lists stored gallery items, newest first.
func (h *PublicHandler) galleryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	viewModel := h.pub.Collection(r.Context(), content.GalleryItems, service.CollectionOpts{})
	return h.render(w, r, "gallery.html", map[string]interface{}{
		"Collection": viewModel,
		"UserInfo":   middleware.GetUserInfo(r.Context()),
	})
}

// contactHandler renders the contact form. Submissions are handled
// client-side; nothing is persisted here.
func (h *PublicHandler) contactHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.render(w, r, "contact.html", nil)
}
