package handler

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"go-portfolio-app/internal/cache"
	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/session"
	"go-portfolio-app/internal/view"
)

// RouterConfig bundles everything the router wires together.
type RouterConfig struct {
	Public  *PublicHandler
	Admin   *AdminHandler
	Auth    *AuthHandler
	Seo     *SeoHandler
	Session session.Manager
	// Authz resolves the session user and enforces the access policy.
	Authz func(http.Handler) http.Handler
	Cache *cache.Cache
	View  *view.View
	Log   logger.Logger
	// StaticFS serves the embedded asset tree rooted at "static".
	StaticFS fs.FS
	// UploadsDir and UploadsBase expose stored uploads over HTTP.
	UploadsDir  string
	UploadsBase string
}

// NewRouter creates and configures a new chi router.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Use(cfg.Session.LoadAndSave)
	r.Use(cfg.Authz)

	handle := middleware.Error(cfg.Log, cfg.View)

	// Static assets and stored uploads bypass the page cache.
	if sub, err := fs.Sub(cfg.StaticFS, "static"); err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
	}
	if cfg.UploadsDir != "" && cfg.UploadsBase != "" {
		base := "/" + strings.Trim(cfg.UploadsBase, "/")
		r.Handle(base+"/*", http.StripPrefix(base+"/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	r.Get("/robots.txt", cfg.Seo.robotsHandler)
	r.Get("/sitemap.xml", cfg.Seo.sitemapHandler)

	// Public pages, cached for anonymous visitors.
	r.Group(func(r chi.Router) {
		r.Use(PageCache(cfg.Cache, cfg.Log))

		r.Method(http.MethodGet, "/", handle(cfg.Public.homeHandler))
		r.Method(http.MethodGet, "/blog", handle(cfg.Public.collectionHandler(content.BlogPosts, "blog.html")))
		r.Method(http.MethodGet, "/blog/{slug}", handle(cfg.Public.detailHandler(content.BlogPosts, "blog_post.html")))
		r.Method(http.MethodGet, "/projects", handle(cfg.Public.collectionHandler(content.Projects, "projects.html")))
		r.Method(http.MethodGet, "/projects/{slug}", handle(cfg.Public.detailHandler(content.Projects, "project.html")))
		r.Method(http.MethodGet, "/code", handle(cfg.Public.collectionHandler(content.CodeItems, "collection.html")))
		r.Method(http.MethodGet, "/code/{slug}", handle(cfg.Public.detailHandler(content.CodeItems, "detail.html")))
		r.Method(http.MethodGet, "/research", handle(cfg.Public.collectionHandler(content.ResearchNotes, "collection.html")))
		r.Method(http.MethodGet, "/research/{slug}", handle(cfg.Public.detailHandler(content.ResearchNotes, "detail.html")))
		r.Method(http.MethodGet, "/gameplay", handle(cfg.Public.collectionHandler(content.GameplayItems, "collection.html")))
		r.Method(http.MethodGet, "/gameplay/{slug}", handle(cfg.Public.detailHandler(content.GameplayItems, "detail.html")))
		r.Method(http.MethodGet, "/resume", handle(cfg.Public.resumeHandler))
		r.Method(http.MethodGet, "/gallery", handle(cfg.Public.galleryHandler))
		r.Method(http.MethodGet, "/contact", handle(cfg.Public.contactHandler))
	})

	// Authentication routes
	r.Method(http.MethodGet, "/auth/login", handle(cfg.Auth.loginFormHandler))
	r.Method(http.MethodPost, "/auth/signin", handle(cfg.Auth.signInHandler))
	r.Method(http.MethodGet, "/auth/sso", handle(cfg.Auth.ssoHandler))
	r.Method(http.MethodGet, "/auth/callback", handle(cfg.Auth.callbackHandler))
	r.Method(http.MethodPost, "/auth/signout", handle(cfg.Auth.signOutHandler))

	// Authoring area; the access policy only admits editors here.
	r.Method(http.MethodGet, "/admin", handle(cfg.Admin.dashboardHandler))
	r.Method(http.MethodGet, "/admin/{table}/new", handle(cfg.Admin.newFormHandler))
	r.Method(http.MethodGet, "/admin/{table}/{id}/edit", handle(cfg.Admin.editFormHandler))
	r.Method(http.MethodPost, "/admin/{table}", handle(cfg.Admin.createHandler))
	r.Method(http.MethodPost, "/admin/{table}/{id}", handle(cfg.Admin.updateHandler))
	r.Method(http.MethodPost, "/admin/{table}/{id}/delete", handle(cfg.Admin.deleteHandler))
	r.Method(http.MethodPost, "/api/upload", handle(cfg.Admin.uploadHandler))
	r.Method(http.MethodPost, "/api/gallery", handle(cfg.Admin.galleryHandler))

	return r
}
