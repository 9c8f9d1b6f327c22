package search

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Rrens/room-designer/internal/domain"
)

var errNoProducts = errors.New("no products found")

var productSelectors = []string{
	`div[class*="product"]`,
	`article[class*="product"]`,
	`li[class*="product"]`,
}

var nameSelectors = `h2[class*="title"], h2[class*="name"], h3[class*="title"], h3[class*="name"], h4[class*="title"], h4[class*="name"], p[class*="title"], p[class*="name"]`

// genericStrategy tries common search URL patterns and product markup
type genericStrategy struct{}

func (genericStrategy) scrape(ctx context.Context, s *Scraper, website, category string) ([]domain.FurnitureItem, error) {
	base := strings.TrimRight(website, "/")
	term := searchTerm(category)
	pages := []string{
		base + "/search?q=" + term,
		base + "/search/" + term,
		base + "/products?search=" + term,
	}

	var lastErr error = errNoProducts
	for _, page := range pages {
		doc, err := s.fetch(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		for _, sel := range productSelectors {
			products := doc.Find(sel)
			if products.Length() == 0 {
				continue
			}
			items := parseProducts(products, page, s.opts.MaxPerType, genericProduct)
			if len(items) > 0 {
				return items, nil
			}
		}
	}
	return nil, lastErr
}

func genericProduct(sel *goquery.Selection, page string) (domain.FurnitureItem, bool) {
	name := strings.TrimSpace(sel.Find(nameSelectors).First().Text())
	if name == "" {
		name, _ = sel.Find("a[title]").First().Attr("title")
	}

	price, ok := parsePrice(sel.Find(`[class*="price"]`).First().Text())
	if name == "" || !ok {
		return domain.FurnitureItem{}, false
	}

	href, _ := sel.Find("a[href]").First().Attr("href")
	return domain.FurnitureItem{
		Name:     strings.TrimSpace(name),
		Link:     resolveURL(page, href),
		Price:    price,
		ImageURL: resolveURL(page, imageSource(sel)),
	}, true
}

// kavehomeStrategy uses the site's product grid markup
type kavehomeStrategy struct{}

func (kavehomeStrategy) scrape(ctx context.Context, s *Scraper, website, category string) ([]domain.FurnitureItem, error) {
	page := strings.TrimRight(website, "/") + "/en/search?q=" + searchTerm(category)
	doc, err := s.fetch(ctx, page)
	if err != nil {
		return genericStrategy{}.scrape(ctx, s, website, category)
	}

	products := doc.Find("div.product-grid__item")
	if products.Length() == 0 {
		products = doc.Find(`div[class*="product"]`)
	}

	items := parseProducts(products, page, s.opts.MaxPerType, kavehomeProduct)
	if len(items) == 0 {
		return genericStrategy{}.scrape(ctx, s, website, category)
	}
	return items, nil
}

func kavehomeProduct(sel *goquery.Selection, page string) (domain.FurnitureItem, bool) {
	link := sel.Find("a[href]").First()
	href, _ := link.Attr("href")

	name := strings.TrimSpace(sel.Find(`[class*="title"], [class*="name"]`).First().Text())
	if name == "" {
		name = strings.TrimSpace(link.Text())
	}

	priceTag := sel.Find("span.money").First()
	if priceTag.Length() == 0 {
		priceTag = sel.Find(`[class*="price"]`).First()
	}
	price, ok := parsePrice(priceTag.Text())

	if name == "" || href == "" || !ok {
		return domain.FurnitureItem{}, false
	}
	return domain.FurnitureItem{
		Name:     name,
		Link:     resolveURL(page, href),
		Price:    price,
		ImageURL: resolveURL(page, imageSource(sel)),
	}, true
}

type productParser func(sel *goquery.Selection, page string) (domain.FurnitureItem, bool)

func parseProducts(products *goquery.Selection, page string, max int, parse productParser) []domain.FurnitureItem {
	var items []domain.FurnitureItem
	products.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if item, ok := parse(sel, page); ok {
			items = append(items, item)
		}
		return len(items) < max
	})
	return items
}

func imageSource(sel *goquery.Selection) string {
	img := sel.Find("img").First()
	if src, ok := img.Attr("src"); ok && src != "" {
		return src
	}
	src, _ := img.Attr("data-src")
	return src
}
