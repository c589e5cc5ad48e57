package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/storage"
	"go-portfolio-app/internal/view"
)

// maxUploadMemory bounds the in-memory part of multipart parsing.
const maxUploadMemory = 8 << 20

// actionResult is the JSON shape returned by in-place admin actions
// (delete, upload, gallery metadata) so client controls can update without
// a page load.
type actionResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	ID      int64  `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AdminHandler serves the authoring area: dashboard, the generic
// schema-driven editor, and the in-place endpoints.
type AdminHandler struct {
	authoring *service.AuthoringService
	pub       *service.PublishingService
	relay     *storage.Relay
	view      *view.View
	log       logger.Logger
}

// NewAdminHandler creates a new AdminHandler with the given dependencies.
func NewAdminHandler(authoring *service.AuthoringService, pub *service.PublishingService, relay *storage.Relay, v *view.View, log logger.Logger) *AdminHandler {
	return &AdminHandler{authoring: authoring, pub: pub, relay: relay, view: v, log: log}
}

// schemaParam resolves the {table} URL parameter against the registry.
func schemaParam(r *http.Request) (*content.Schema, *middleware.AppError) {
	table := chi.URLParam(r, "table")
	sc, ok := content.ByTable(table)
	if !ok {
		return nil, &middleware.AppError{Error: errors.New("unknown table " + table), Message: "Unknown content type", Code: http.StatusNotFound}
	}
	return sc, nil
}

// dashboardHandler lists every table with counts and rows, unfiltered so
// drafts show alongside published items.
func (h *AdminHandler) dashboardHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	payload := map[string]interface{}{
		"Summaries": h.pub.Dashboard(r.Context()),
		"UserInfo":  middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, r, "admin_dashboard.html", payload); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render dashboard", Code: http.StatusInternalServerError}
	}
	return nil
}

// newFormHandler renders the empty generic editor for a table.
func (h *AdminHandler) newFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	sc, appErr := schemaParam(r)
	if appErr != nil {
		return appErr
	}
	payload := map[string]interface{}{
		"Schema": sc,
		"Item":   data.Row(nil),
		"Action": "/admin/" + sc.Table,
	}
	if err := h.view.Render(w, r, "admin_form.html", payload); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render form", Code: http.StatusInternalServerError}
	}
	return nil
}

// editFormHandler renders the generic editor pre-filled with a row.
func (h *AdminHandler) editFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	sc, appErr := schemaParam(r)
	if appErr != nil {
		return appErr
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid id", Code: http.StatusBadRequest}
	}
	row, err := h.pub.Get(r.Context(), sc, id)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Record not found", Code: http.StatusNotFound}
	}
	payload := map[string]interface{}{
		"Schema": sc,
		"Item":   row,
		"Action": "/admin/" + sc.Table + "/" + strconv.FormatInt(id, 10),
	}
	if err := h.view.Render(w, r, "admin_form.html", payload); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render form", Code: http.StatusInternalServerError}
	}
	return nil
}

// createHandler runs the authoring pipeline for a new record and redirects
// to the canonical follow-up route.
func (h *AdminHandler) createHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	sc, appErr := schemaParam(r)
	if appErr != nil {
		return appErr
	}
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Malformed form submission", Code: http.StatusBadRequest}
	}
	actor := middleware.GetUserInfo(r.Context())
	res, err := h.authoring.Create(r.Context(), actorSubject(actor), sc, r.PostForm)
	if err != nil {
		return h.saveError(sc, err)
	}
	http.Redirect(w, r, res.RedirectTo, http.StatusSeeOther)
	return nil
}

// updateHandler runs the authoring pipeline against an existing record.
func (h *AdminHandler) updateHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	sc, appErr := schemaParam(r)
	if appErr != nil {
		return appErr
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid id", Code: http.StatusBadRequest}
	}
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Malformed form submission", Code: http.StatusBadRequest}
	}
	actor := middleware.GetUserInfo(r.Context())
	res, err := h.authoring.Update(r.Context(), actorSubject(actor), sc, id, r.PostForm)
	if err != nil {
		return h.saveError(sc, err)
	}
	http.Redirect(w, r, res.RedirectTo, http.StatusSeeOther)
	return nil
}

// deleteHandler removes a record and answers JSON for the inline control.
func (h *AdminHandler) deleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	sc, appErr := schemaParam(r)
	if appErr != nil {
		return appErr
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, actionResult{Error: "invalid id"})
		return nil
	}
	actor := middleware.GetUserInfo(r.Context())
	if err := h.authoring.Delete(r.Context(), actorSubject(actor), sc, id); err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			writeJSON(w, http.StatusUnauthorized, actionResult{Error: "sign in required"})
		case errors.Is(err, service.ErrNotFound):
			writeJSON(w, http.StatusNotFound, actionResult{Error: "record not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, actionResult{Error: "delete failed"})
		}
		return nil
	}
	writeJSON(w, http.StatusOK, actionResult{Success: true})
	return nil
}

// uploadHandler relays a file to object storage and answers with its
// public URL.
func (h *AdminHandler) uploadHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	actor := middleware.GetUserInfo(r.Context())
	if !actor.Authenticated() {
		writeJSON(w, http.StatusUnauthorized, actionResult{Error: "sign in required"})
		return nil
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, actionResult{Error: "no file provided"})
		return nil
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, actionResult{Error: "no file provided"})
		return nil
	}
	defer file.Close()

	category := r.FormValue("category")
	if category == "" {
		category = "gallery"
	}
	url, err := h.relay.Upload(r.Context(), category, header.Filename, header.Size, file)
	if err != nil {
		var uerr *storage.UploadError
		if errors.As(err, &uerr) {
			writeJSON(w, http.StatusBadRequest, actionResult{Error: uerr.Reason})
			return nil
		}
		h.log.Error(err, "upload relay failed")
		writeJSON(w, http.StatusInternalServerError, actionResult{Error: "upload failed"})
		return nil
	}
	writeJSON(w, http.StatusOK, actionResult{Success: true, URL: url})
	return nil
}

// galleryMetadata is the request body of the gallery metadata endpoint.
type galleryMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// galleryHandler persists the metadata of an already-uploaded asset,
// attributing it to the signed-in user.
func (h *AdminHandler) galleryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	actor := middleware.GetUserInfo(r.Context())
	if !actor.Authenticated() {
		writeJSON(w, http.StatusUnauthorized, actionResult{Error: "sign in required"})
		return nil
	}
	var meta galleryMetadata
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		writeJSON(w, http.StatusBadRequest, actionResult{Error: "malformed request body"})
		return nil
	}
	id, err := h.authoring.AddGalleryItem(r.Context(), actor.Subject, meta.Name, meta.Description, meta.URL)
	if err != nil {
		verr := &content.ValidationError{}
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, actionResult{Error: "missing field: " + verr.Field})
			return nil
		}
		writeJSON(w, http.StatusInternalServerError, actionResult{Error: "save failed"})
		return nil
	}
	writeJSON(w, http.StatusOK, actionResult{Success: true, ID: id, URL: meta.URL})
	return nil
}

// saveError maps pipeline errors to user-safe form responses.
func (h *AdminHandler) saveError(sc *content.Schema, err error) *middleware.AppError {
	verr := &content.ValidationError{}
	switch {
	case errors.As(err, &verr):
		return &middleware.AppError{Error: err, Message: "Missing required field: " + verr.Field, Code: http.StatusBadRequest}
	case errors.Is(err, service.ErrConflict):
		return &middleware.AppError{Error: err, Message: "That slug is already in use", Code: http.StatusConflict}
	case errors.Is(err, service.ErrUnauthorized):
		return &middleware.AppError{Error: err, Message: "Sign in required", Code: http.StatusUnauthorized}
	case errors.Is(err, service.ErrNotFound):
		return &middleware.AppError{Error: err, Message: "Record not found", Code: http.StatusNotFound}
	default:
		return &middleware.AppError{Error: err, Message: "Could not save " + sc.Title, Code: http.StatusInternalServerError}
	}
}

func actorSubject(u *middleware.UserInfo) string {
	if !u.Authenticated() {
		return ""
	}
	return u.Subject
}

func writeJSON(w http.ResponseWriter, code int, body actionResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
