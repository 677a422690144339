package branding

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"adforge/internal/domain"
)

const maxBodyBytes = 2 << 20

// Scraper extracts a best-effort branding snapshot from a business website.
// Missing fields stay empty; only transport and parse failures are errors.
type Scraper struct {
	httpClient *http.Client
}

// NewScraper builds a scraper. A nil client gets a default with timeouts.
func NewScraper(client *http.Client) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Scraper{httpClient: client}
}

// Scrape fetches the page at rawURL and extracts branding signals.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*domain.Branding, error) {
	base, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, fmt.Errorf("%w: invalid url", domain.ErrInvalidRequest)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("branding: create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; adforge/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("branding: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("branding: fetch status %d", resp.StatusCode)
	}

	return Parse(io.LimitReader(resp.Body, maxBodyBytes), base)
}

// Parse extracts branding from an HTML document. base resolves relative URLs.
func Parse(r io.Reader, base *url.URL) (*domain.Branding, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("branding: parse html: %w", err)
	}

	b := &domain.Branding{}

	b.Name = strings.TrimSpace(doc.Find(`meta[property="og:site_name"]`).AttrOr("content", ""))
	if b.Name == "" {
		b.Name = siteNameFromTitle(doc.Find("title").First().Text())
	}

	b.Tagline = strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	if b.Tagline == b.Name {
		b.Tagline = ""
	}

	b.Description = strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	if b.Description == "" {
		b.Description = strings.TrimSpace(doc.Find(`meta[property="og:description"]`).AttrOr("content", ""))
	}

	if color := strings.TrimSpace(doc.Find(`meta[name="theme-color"]`).AttrOr("content", "")); color != "" {
		b.Colors = append(b.Colors, color)
	}

	if icon, ok := doc.Find(`link[rel~="icon"]`).Attr("href"); ok {
		b.LogoURL = absoluteURL(base, icon)
	}
	if og := strings.TrimSpace(doc.Find(`meta[property="og:image"]`).AttrOr("content", "")); og != "" {
		b.ProductImageURL = absoluteURL(base, og)
	}

	seen := map[string]struct{}{}
	doc.Find("img[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src := absoluteURL(base, sel.AttrOr("src", ""))
		if src == "" || strings.HasPrefix(src, "data:") {
			return true
		}
		if src == b.LogoURL || src == b.ProductImageURL {
			return true
		}
		if _, ok := seen[src]; ok {
			return true
		}
		seen[src] = struct{}{}
		b.ImageURLs = append(b.ImageURLs, src)
		return len(b.ImageURLs) < domain.MaxReferenceImages
	})

	return b, nil
}

// siteNameFromTitle strips the common "Page – Site" separators down to the
// leading segment.
func siteNameFromTitle(title string) string {
	title = strings.TrimSpace(title)
	for _, sep := range []string{" | ", " – ", " — ", " - "} {
		if idx := strings.Index(title, sep); idx > 0 {
			return strings.TrimSpace(title[:idx])
		}
	}
	return title
}

func absoluteURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
