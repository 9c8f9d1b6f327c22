package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/room-designer/internal/catalog"
	"github.com/Rrens/room-designer/internal/domain"
)

var priceNumber = regexp.MustCompile(`\d+\.?\d*`)

// Options tune the scraper
type Options struct {
	MaxResults     int
	MaxPerType     int
	RequestTimeout time.Duration
	PoliteDelay    time.Duration
	UserAgent      string
	MockFallback   bool
}

// siteStrategy scrapes one category from one website
type siteStrategy interface {
	scrape(ctx context.Context, s *Scraper, website, category string) ([]domain.FurnitureItem, error)
}

// Scraper searches vendor websites with goquery and falls back to generated items
type Scraper struct {
	catalog *catalog.Catalog
	client  *http.Client
	opts    Options
	sites   map[string]siteStrategy
	mock    *MockGenerator
}

// NewScraper creates a scraper bound to the catalog for dimensions and themes
func NewScraper(cat *catalog.Catalog, opts Options) *Scraper {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 20
	}
	if opts.MaxPerType <= 0 {
		opts.MaxPerType = 5
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}

	return &Scraper{
		catalog: cat,
		client:  &http.Client{Timeout: opts.RequestTimeout},
		opts:    opts,
		sites: map[string]siteStrategy{
			"kavehome.com": kavehomeStrategy{},
		},
		mock: NewMockGenerator(cat),
	}
}

// Search scrapes every theme website for every category until MaxResults items are collected
func (s *Scraper) Search(ctx context.Context, q Query) ([]domain.FurnitureItem, error) {
	var websites []string
	if theme, ok := s.catalog.Theme(q.Theme); ok {
		websites = theme.Websites
	}

	var all []domain.FurnitureItem
	first := true

sites:
	for _, website := range websites {
		strategy := s.strategyFor(website)

		for _, category := range q.Categories {
			if !first {
				if err := s.wait(ctx); err != nil {
					return nil, err
				}
			}
			first = false

			items, err := strategy.scrape(ctx, s, website, category)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				log.Debug().Err(err).Str("website", website).Str("category", category).Msg("scrape failed")
				continue
			}

			for i := range items {
				s.annotate(&items[i], q.RoomType, category, website)
			}
			all = append(all, items...)

			if len(all) >= s.opts.MaxResults {
				break sites
			}
		}
	}

	if len(all) == 0 && s.opts.MockFallback {
		log.Info().Str("theme", q.Theme).Msg("no scraped furniture, generating fallback items")
		all = s.mock.Generate(q, websites)
	}

	return finalize(all, q, s.opts.MaxResults), nil
}

func (s *Scraper) strategyFor(website string) siteStrategy {
	if strategy, ok := s.sites[domainOf(website)]; ok {
		return strategy
	}
	return genericStrategy{}
}

func (s *Scraper) annotate(item *domain.FurnitureItem, room, category, website string) {
	res := s.catalog.Resolve(room, category, "")
	item.Dimensions = res.Dimensions
	item.DimensionSource = string(res.Source)
	item.Category = category
	if item.Source == "" {
		item.Source = domainOf(website)
	}
	if item.Description == "" {
		item.Description = fmt.Sprintf("%s from %s", item.Name, item.Source)
	}
}

func (s *Scraper) wait(ctx context.Context) error {
	if s.opts.PoliteDelay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.opts.PoliteDelay):
		return nil
	}
}

// fetch GETs a page and parses it; non-200 responses are errors
func (s *Scraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", pageURL, resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// parsePrice extracts the first number from text such as "$1,299.00"
func parsePrice(text string) (float64, bool) {
	m := priceNumber.FindString(strings.ReplaceAll(text, ",", ""))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func domainOf(website string) string {
	u, err := url.Parse(website)
	if err != nil || u.Host == "" {
		return website
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func resolveURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func searchTerm(category string) string {
	return url.QueryEscape(strings.ToLower(category))
}
