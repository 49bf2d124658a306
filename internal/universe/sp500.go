package universe

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"insider-momentum/internal/logger"
)

// SP500Scraper reads S&P 500 constituents from the Wikipedia list page.
type SP500Scraper struct {
	pageURL string
	timeout time.Duration
}

func NewSP500Scraper(pageURL string, timeout time.Duration) *SP500Scraper {
	if pageURL == "" {
		pageURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SP500Scraper{pageURL: pageURL, timeout: timeout}
}

// Constituents returns the symbol column of the constituents table in page order.
func (s *SP500Scraper) Constituents(ctx context.Context) ([]string, error) {
	u, err := url.Parse(s.pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid constituents url: %w", err)
	}

	symbols := []string{}
	var scrapeErr error

	c := colly.NewCollector(
		colly.AllowedDomains(u.Hostname()),
		colly.MaxDepth(1),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML("table#constituents tbody tr", func(e *colly.HTMLElement) {
		cell := e.DOM.Find("td").First()
		if symbol := symbolFromCell(cell); symbol != "" {
			symbols = append(symbols, symbol)
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = fmt.Errorf("constituents request failed with status %d: %w", r.StatusCode, err)
	})

	if err := c.Visit(s.pageURL); err != nil && scrapeErr == nil {
		scrapeErr = err
	}
	if scrapeErr != nil {
		return nil, scrapeErr
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no constituents found at %s", s.pageURL)
	}

	logger.Info(ctx, "Scraped S&P 500 constituents", "count", len(symbols))
	return symbols, nil
}

func symbolFromCell(cell *goquery.Selection) string {
	if cell.Length() == 0 {
		return ""
	}
	text := cell.Find("a").First().Text()
	if text == "" {
		text = cell.Text()
	}
	return strings.ToUpper(strings.TrimSpace(text))
}
