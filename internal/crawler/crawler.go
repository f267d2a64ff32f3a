package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/site-scout/backend/internal/metrics"
	"github.com/site-scout/backend/internal/storage/models"
	"github.com/site-scout/backend/internal/storage/sqlite"
	"github.com/site-scout/backend/pkg/config"
	"github.com/site-scout/backend/pkg/logger"
)

var (
	// ErrInvalidURL rejects input before any network or storage work.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrFetchFailed covers network, parse and store failures; the
	// wrapped message carries the distinct cause.
	ErrFetchFailed = errors.New("failed to crawl website")
)

type Crawler struct {
	db         *sqlite.Client
	httpClient *http.Client
	userAgent  string

	maxContentChars int
	maxLinks        int
	maxImages       int
	maxTopics       int
}

func New(db *sqlite.Client, cfg config.CrawlerConfig) *Crawler {
	return &Crawler{
		db: db,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
		userAgent:       cfg.UserAgent,
		maxContentChars: cfg.MaxContentChars,
		maxLinks:        cfg.MaxLinks,
		maxImages:       cfg.MaxImages,
		maxTopics:       cfg.MaxTopics,
	}
}

// Crawl fetches a page, extracts its title, visible text, links,
// images and topics, and upserts the website record keyed by URL.
// Nothing is written when validation or the fetch fails.
func (c *Crawler) Crawl(ctx context.Context, rawURL string) (*models.Website, error) {
	start := time.Now()

	if !isValidURL(rawURL) {
		metrics.CrawlTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	doc, err := c.fetch(ctx, rawURL)
	if err != nil {
		metrics.CrawlTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = "No Title"
	}

	content := c.extractText(doc)
	links := c.extractLinks(doc)
	images := c.extractImages(doc)
	topics := c.extractTopics(content)

	metadata := models.WebsiteMetadata{
		Links:       links,
		Images:      images,
		Topics:      topics,
		LastCrawled: time.Now(),
	}

	website, err := c.db.UpsertWebsite(rawURL, title, content, metadata)
	if err != nil {
		metrics.CrawlTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: store: %v", ErrFetchFailed, err)
	}

	metrics.CrawlTotal.WithLabelValues("ok").Inc()
	metrics.CrawlDuration.Observe(time.Since(start).Seconds())

	logger.Info("Website crawled",
		zap.Int64("website_id", website.ID),
		zap.String("url", rawURL),
		zap.String("title", title),
		zap.Int("content_chars", len(content)),
		zap.Int("links", len(links)),
		zap.Int("images", len(images)),
	)

	return website, nil
}

func (c *Crawler) fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrFetchFailed, err)
	}

	return doc, nil
}

func (c *Crawler) extractText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, iframe").Remove()

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if len(text) > c.maxContentChars {
		text = text[:c.maxContentChars]
	}

	return text
}

func (c *Crawler) extractLinks(doc *goquery.Document) []string {
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if len(links) >= c.maxLinks {
			return
		}
		href, _ := s.Attr("href")
		if isValidURL(href) {
			links = append(links, href)
		}
	})
	return links
}

func (c *Crawler) extractImages(doc *goquery.Document) []string {
	var images []string
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if len(images) >= c.maxImages {
			return
		}
		if src, ok := s.Attr("src"); ok && src != "" {
			images = append(images, src)
		}
	})
	return images
}

func isValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
