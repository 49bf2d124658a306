package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"insider-momentum/internal/types"
)

// Yahoo rejects generic clients without a browser User-Agent.
const yahooUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// YahooClient reads closing prices from the Yahoo Finance chart API.
type YahooClient struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string   `json:"symbol"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func NewYahooClient(baseURL string, timeout time.Duration) *YahooClient {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &YahooClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent": yahooUserAgent,
			"Accept":     "application/json",
		},
	}
}

// GetCloses returns ascending closes in [q.Start, q.End). Null closes are skipped.
func (y *YahooClient) GetCloses(ctx context.Context, q types.PriceQuery) ([]types.PricePoint, error) {
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(q.Start.Unix(), 10))
	params.Set("period2", strconv.FormatInt(q.End.Unix(), 10))
	params.Set("interval", string(q.Interval))

	chart, err := y.fetchChart(ctx, q.Ticker, params)
	if err != nil {
		return nil, err
	}
	if len(chart.Chart.Result) == 0 {
		return []types.PricePoint{}, nil
	}

	r := chart.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return []types.PricePoint{}, nil
	}
	closes := r.Indicators.Quote[0].Close

	points := make([]types.PricePoint, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(closes) {
			break
		}
		if closes[i] == nil {
			continue
		}
		t := time.Unix(ts, 0).UTC()
		if t.Before(q.Start) || !t.Before(q.End) {
			continue
		}
		points = append(points, types.PricePoint{Time: t, Close: *closes[i]})
	}
	return points, nil
}

// IsListed reports whether the chart meta carries a current market price.
func (y *YahooClient) IsListed(ctx context.Context, ticker string) (bool, error) {
	params := url.Values{}
	params.Set("range", "1d")
	params.Set("interval", "1d")

	chart, err := y.fetchChart(ctx, ticker, params)
	if err != nil {
		if StatusCode(err) == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}
	if len(chart.Chart.Result) == 0 {
		return false, nil
	}
	return chart.Chart.Result[0].Meta.RegularMarketPrice != nil, nil
}

func (y *YahooClient) fetchChart(ctx context.Context, ticker string, params url.Values) (*chartResponse, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.baseURL, url.PathEscape(ToYahooSymbol(ticker)), params.Encode())

	data, err := y.makeRequest(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Yahoo chart for %s: %w", ticker, err)
	}

	var chart chartResponse
	if err := json.Unmarshal(data, &chart); err != nil {
		return nil, fmt.Errorf("failed to decode Yahoo chart for %s: %w", ticker, err)
	}
	return &chart, nil
}

func (y *YahooClient) makeRequest(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	for key, value := range y.headers {
		req.Header.Set(key, value)
	}

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(resp.StatusCode, string(data))
	}
	return data, nil
}

// ToYahooSymbol converts share-class symbols to Yahoo format: BRK.B -> BRK-B
func ToYahooSymbol(symbol string) string {
	return strings.ReplaceAll(strings.TrimSpace(symbol), ".", "-")
}
