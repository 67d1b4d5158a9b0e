package http

import (
	"encoding/xml"
	"log/slog"
	"net/http"
	"strings"

	"github.com/haimng/Bestopia/internal/service"
	"github.com/haimng/Bestopia/pkg/httputil"
)

// SitemapHandler serves the search-engine sitemap.
type SitemapHandler struct {
	reviews *service.ReviewService
	baseURL string
	logger  *slog.Logger
}

// NewSitemapHandler creates a new sitemap handler. baseURL is the public
// origin of the site, without a trailing slash.
func NewSitemapHandler(reviews *service.ReviewService, baseURL string, logger *slog.Logger) *SitemapHandler {
	return &SitemapHandler{
		reviews: reviews,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap handles GET /sitemap.xml.
func (h *SitemapHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	slugs, err := h.reviews.SitemapSlugs(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	set := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(slugs)+1),
	}
	set.URLs = append(set.URLs, sitemapURL{Loc: h.baseURL + "/"})
	for _, slug := range slugs {
		set.URLs = append(set.URLs, sitemapURL{Loc: h.baseURL + "/reviews/" + slug})
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = xml.NewEncoder(w).Encode(set)
}
