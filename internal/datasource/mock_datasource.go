package datasource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"insider-momentum/internal/types"
)

// MockMarketData serves canned closes and listings.
type MockMarketData struct {
	mu     sync.Mutex
	closes map[string][]types.PricePoint
	listed map[string]bool
	errs   map[string]error
	calls  int
	// allListed treats every ticker as listed.
	allListed bool
}

// NewMockMarketData returns a source where every ticker in listed is listed and
// gets a gently rising daily series.
func NewMockMarketData(listed ...string) *MockMarketData {
	m := &MockMarketData{
		closes: make(map[string][]types.PricePoint),
		listed: make(map[string]bool),
		errs:   make(map[string]error),
	}
	for _, t := range listed {
		m.listed[t] = true
	}
	return m
}

// NewMockMarketDataAllListed returns a source that lists every ticker.
func NewMockMarketDataAllListed() *MockMarketData {
	m := NewMockMarketData()
	m.allListed = true
	return m
}

// SetCloses fixes the series returned for ticker.
func (m *MockMarketData) SetCloses(ticker string, points []types.PricePoint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes[ticker] = points
}

// SetError makes every call for ticker fail with err.
func (m *MockMarketData) SetError(ticker string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[ticker] = err
}

func (m *MockMarketData) SetListed(ticker string, listed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listed[ticker] = listed
}

// Calls is the number of GetCloses calls served.
func (m *MockMarketData) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockMarketData) GetCloses(ctx context.Context, q types.PriceQuery) ([]types.PricePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if err := m.errs[q.Ticker]; err != nil {
		return nil, err
	}

	series, ok := m.closes[q.Ticker]
	if !ok {
		if !m.isListed(q.Ticker) {
			return []types.PricePoint{}, nil
		}
		series = syntheticSeries(q)
	}

	points := []types.PricePoint{}
	for _, p := range series {
		if !p.Time.Before(q.Start) && p.Time.Before(q.End) {
			points = append(points, p)
		}
	}
	return points, nil
}

func (m *MockMarketData) IsListed(ctx context.Context, ticker string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[ticker]; err != nil {
		return false, err
	}
	return m.isListed(ticker), nil
}

func (m *MockMarketData) isListed(ticker string) bool {
	if listed, ok := m.listed[ticker]; ok {
		return listed
	}
	return m.allListed
}

// syntheticSeries rises 0.5% per step from 100.
func syntheticSeries(q types.PriceQuery) []types.PricePoint {
	step := 24 * time.Hour
	if q.Interval == types.IntervalHour {
		step = time.Hour
	}
	points := []types.PricePoint{}
	price := 100.0
	for t := q.Start; t.Before(q.End); t = t.Add(step) {
		points = append(points, types.PricePoint{Time: t, Close: price})
		price *= 1.005
	}
	return points
}

// MockFilingsSource returns fixed response bodies per form.
type MockFilingsSource struct {
	mu        sync.Mutex
	responses map[types.FilingForm][]byte
	err       error
	Queries   []string
}

func NewMockFilingsSource() *MockFilingsSource {
	return &MockFilingsSource{responses: make(map[types.FilingForm][]byte)}
}

func (m *MockFilingsSource) SetResponse(form types.FilingForm, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[form] = body
}

func (m *MockFilingsSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockFilingsSource) Search(ctx context.Context, form types.FilingForm, query string, size int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query)

	if m.err != nil {
		return nil, m.err
	}
	if body, ok := m.responses[form]; ok {
		return body, nil
	}
	return []byte(fmt.Sprintf(`{%q: []}`, form.ResultKey())), nil
}
