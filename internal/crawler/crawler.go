// Package crawler looks products up on Amazon through the Crawlbase proxy
// and extracts a usable image and product-page URL from the search results.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/PuerkitoBio/goquery"
)

// Getter issues GET requests. Satisfied by both httpclient.Client and
// httpclient.CircuitBreakerClient.
type Getter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// ErrNoProducts is returned when the search results page has no product
// cards.
var ErrNoProducts = errors.New("no products found")

const (
	crawlbaseURL  = "https://api.crawlbase.com/"
	amazonBaseURL = "https://www.amazon.com"
)

// Crawler fetches Amazon search pages through Crawlbase and scrapes the
// first result.
type Crawler struct {
	pages  Getter
	images Getter
	token  string
	logger *slog.Logger

	crawlbase  string
	amazonBase string
}

// New creates a crawler. pages fetches the proxied search page; images
// fetches candidate images for srcset width probing and may equal pages.
func New(pages, images Getter, token string, logger *slog.Logger) *Crawler {
	return &Crawler{
		pages:      pages,
		images:     images,
		token:      token,
		logger:     logger,
		crawlbase:  crawlbaseURL,
		amazonBase: amazonBaseURL,
	}
}

// FindProduct searches Amazon for the product name and returns the first
// result's image URL and product page URL, with any /ref= tracking suffix
// stripped from the page URL.
func (c *Crawler) FindProduct(ctx context.Context, name string) (string, string, error) {
	searchURL := c.amazonBase + "/s?" + url.Values{"k": {name}}.Encode()
	proxied := c.crawlbase + "?" + url.Values{
		"token": {c.token},
		"url":   {searchURL},
	}.Encode()

	resp, err := c.pages.Get(ctx, proxied)
	if err != nil {
		return "", "", fmt.Errorf("fetch search page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("fetch search page: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("parse search page: %w", err)
	}

	first := doc.Find(`[data-component-type="s-search-result"]`).First()
	if first.Length() == 0 {
		return "", "", ErrNoProducts
	}

	img := first.Find(".s-image").First()
	imageURL, _ := img.Attr("src")
	if srcset, ok := img.Attr("srcset"); ok && srcset != "" {
		if picked := c.pickFromSrcset(ctx, srcset); picked != "" {
			imageURL = picked
		}
	}

	productPage := ""
	if href, ok := first.Find(".a-link-normal").First().Attr("href"); ok {
		productPage = c.amazonBase + href
		if idx := strings.Index(productPage, "/ref="); idx != -1 {
			productPage = productPage[:idx]
		}
	}

	if imageURL == "" || productPage == "" {
		return "", "", errors.New("failed to extract product details")
	}

	return imageURL, productPage, nil
}

// pickFromSrcset probes the srcset candidates and prefers an image between
// 500 and 700 pixels wide; the 3x candidate is the fallback. Probe failures
// just skip that candidate.
func (c *Crawler) pickFromSrcset(ctx context.Context, srcset string) string {
	var (
		selected  string
		default3x string
	)

	for _, part := range strings.Split(srcset, ",") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) < 2 {
			continue
		}
		candidate := fields[0]
		multiplier, err := strconv.ParseFloat(strings.TrimSuffix(fields[1], "x"), 64)
		if err != nil {
			continue
		}

		if multiplier == 3 {
			default3x = candidate
		}

		width, err := c.imageWidth(ctx, candidate)
		if err != nil {
			c.logger.DebugContext(ctx, "srcset candidate probe failed",
				slog.String("url", candidate),
				slog.String("error", err.Error()),
			)
			continue
		}

		if (width >= 500 && width <= 700) || (multiplier == 3 && width < 500) || (selected == "" && width > 500) {
			selected = candidate
		}
	}

	if selected == "" {
		return default3x
	}
	return selected
}

func (c *Crawler) imageWidth(ctx context.Context, imageURL string) (int, error) {
	resp, err := c.images.Get(ctx, imageURL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	cfg, _, err := image.DecodeConfig(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("decode image: %w", err)
	}

	return cfg.Width, nil
}
