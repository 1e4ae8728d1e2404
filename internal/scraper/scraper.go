package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/audiencelab/seoscan/internal/config"
	"github.com/audiencelab/seoscan/internal/model"
)

// navSelectors are the elements commonly holding main navigation menus.
// Links outside these selectors (footers, inline content) are ignored to
// keep the scrape focused on the pages the site owner considers primary.
var navSelectors = []string{"nav", "header", ".menu", ".navigation", ".nav"}

// Scraper fetches and extracts text from a target website.
type Scraper struct {
	// http is the resty client used for page fetches.
	http *resty.Client

	// maxPages caps the total number of pages fetched, homepage included.
	maxPages int

	// delay is the politeness delay between page fetches.
	delay time.Duration

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithMaxPages caps the number of pages fetched per scrape.
func WithMaxPages(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// WithDelay sets the politeness delay between page fetches.
func WithDelay(d time.Duration) Option {
	return func(s *Scraper) {
		s.delay = d
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		s.http.SetTimeout(d)
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scraper) {
		s.logger = logger
	}
}

// New creates a Scraper with conservative defaults: 10 pages max and a
// 2 second delay between fetches, matching the source system's politeness
// settings.
func New(opts ...Option) *Scraper {
	http := resty.New()
	http.SetTimeout(config.DefaultHTTPTimeout)
	http.SetHeader("User-Agent", config.DefaultUserAgent)

	s := &Scraper{
		http:     http,
		maxPages: config.DefaultMaxPages,
		delay:    config.DefaultScrapeDelay,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Scrape fetches the target's homepage and its main navigation pages and
// returns the extracted text per page. Page-level failures are skipped;
// the only hard errors are context cancellation and an unusable target URL.
func (s *Scraper) Scrape(ctx context.Context, target string) ([]model.ScrapedPage, error) {
	base, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL %q: %w", target, err)
	}

	links := s.navigationLinks(ctx, base)
	if len(links) == 0 {
		s.logger.Debug("no navigation links found, scraping homepage only", "target", target)
		links = []string{target}
	}
	if len(links) > s.maxPages {
		links = links[:s.maxPages]
	}

	pages := make([]model.ScrapedPage, 0, len(links))
	for i, link := range links {
		if i > 0 && s.delay > 0 {
			select {
			case <-ctx.Done():
				return pages, ctx.Err()
			case <-time.After(s.delay):
			}
		}

		page, err := s.fetchPage(ctx, link)
		if err != nil {
			if ctx.Err() != nil {
				return pages, ctx.Err()
			}
			s.logger.Warn("page scrape failed", "url", link, "error", err)
			continue
		}
		if page.Text == "" {
			s.logger.Debug("page has no paragraph text", "url", link)
			continue
		}
		pages = append(pages, page)
	}

	s.logger.Info("scrape completed",
		"target", target,
		"pages", len(pages),
	)
	return pages, nil
}

// navigationLinks fetches the homepage and extracts internal links from
// the main navigation selectors. The homepage itself is always first in
// the returned list. Failures yield an empty list; the caller falls back
// to scraping the homepage alone.
func (s *Scraper) navigationLinks(ctx context.Context, base *url.URL) []string {
	doc, _, err := s.fetchDocument(ctx, base.String())
	if err != nil {
		s.logger.Warn("failed to fetch homepage for navigation links",
			"target", base.String(),
			"error", err,
		)
		return nil
	}

	seen := map[string]struct{}{base.String(): {}}
	links := []string{base.String()}

	for _, selector := range navSelectors {
		doc.Find(selector).Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok {
				return
			}
			resolved, err := base.Parse(href)
			if err != nil {
				return
			}
			// Internal links only; skip fragments and foreign hosts.
			if resolved.Host != base.Host || resolved.Scheme != base.Scheme {
				return
			}
			resolved.Fragment = ""

			key := resolved.String()
			if _, ok := seen[key]; ok {
				return
			}
			seen[key] = struct{}{}
			links = append(links, key)
		})
	}

	s.logger.Debug("navigation links extracted", "count", len(links)-1)
	return links
}

// fetchPage fetches one URL and extracts its paragraph text.
func (s *Scraper) fetchPage(ctx context.Context, pageURL string) (model.ScrapedPage, error) {
	doc, statusCode, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return model.ScrapedPage{}, err
	}

	return model.ScrapedPage{
		URL:        pageURL,
		Title:      strings.TrimSpace(doc.Find("title").First().Text()),
		Text:       extractText(doc),
		StatusCode: statusCode,
		FetchedAt:  time.Now(),
	}, nil
}

// fetchDocument fetches a URL and parses the body as HTML.
func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, int, error) {
	resp, err := s.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, 0, err
	}
	if resp.IsError() {
		return nil, resp.StatusCode(), fmt.Errorf("unexpected status: %s", resp.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, resp.StatusCode(), fmt.Errorf("parse HTML: %w", err)
	}
	return doc, resp.StatusCode(), nil
}

// extractText joins the trimmed text of all <p> elements with single
// spaces. Paragraphs are the only elements extracted so that menus,
// scripts and boilerplate stay out of the analysis prompt.
func extractText(doc *goquery.Document) string {
	var parts []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}
