package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/service"
)

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	pub     *service.PublishingService
	baseURL string
}

// NewSeoHandler creates a new SeoHandler. baseURL is the public origin of
// the site, without a trailing slash.
func NewSeoHandler(pub *service.PublishingService, baseURL string) *SeoHandler {
	return &SeoHandler{pub: pub, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// robotsHandler serves robots.txt, pointing crawlers at the sitemap.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "Disallow: /admin")
	fmt.Fprintln(w, "Disallow: /auth")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Sitemap: "+h.baseURL+"/sitemap.xml")
}

const sitemapDateFormat = "2006-01-02"

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler generates sitemap.xml from the static pages plus every
// published detail page across the content tables.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	sitemap := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}

	staticPaths := []string{"/", "/resume", "/gallery", "/contact"}
	seen := map[string]bool{}
	for _, sc := range content.ContentVariants {
		if sc.CollectionPath != "" && !seen[sc.CollectionPath] {
			staticPaths = append(staticPaths, sc.CollectionPath)
			seen[sc.CollectionPath] = true
		}
	}
	for _, p := range staticPaths {
		sitemap.URLs = append(sitemap.URLs, sitemapURL{Loc: h.baseURL + p})
	}

	for _, sc := range content.ContentVariants {
		if !sc.HasSlug || sc.DetailPrefix == "" {
			continue
		}
		for _, row := range h.pub.PublishedSlugs(r.Context(), sc) {
			u := sitemapURL{Loc: h.baseURL + sc.DetailPrefix + row.Slug()}
			if t := row.CreatedAt(); !t.IsZero() {
				u.LastMod = t.Format(sitemapDateFormat)
			}
			sitemap.URLs = append(sitemap.URLs, u)
		}
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		http.Error(w, "Failed to generate sitemap XML", http.StatusInternalServerError)
		return
	}
}
