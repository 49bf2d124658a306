package datasource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"insider-momentum/internal/types"
)

func dayQuery(ticker string) types.PriceQuery {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return types.PriceQuery{Ticker: ticker, Start: start, End: start.AddDate(0, 0, 30), Interval: types.IntervalDay}
}

func TestMarketDataCacheHitAvoidsSecondCall(t *testing.T) {
	mock := NewMockMarketData("ABC")
	cache, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	md := NewMarketData("MOCK", mock, cache, nil)
	ctx := context.Background()

	first, err := md.GetCloses(ctx, dayQuery("ABC"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := md.GetCloses(ctx, dayQuery("ABC"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if mock.Calls() != 1 {
		t.Errorf("Expected 1 provider call, got %d", mock.Calls())
	}
	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("Expected identical non-empty series, got %d and %d", len(first), len(second))
	}
	if !first[0].Time.Equal(second[0].Time) || first[0].Close != second[0].Close {
		t.Errorf("Cached point differs: %+v vs %+v", first[0], second[0])
	}
}

func TestMarketDataDoesNotCacheEmpty(t *testing.T) {
	mock := NewMockMarketData()
	cache, _ := NewCache(t.TempDir(), time.Hour)
	md := NewMarketData("MOCK", mock, cache, nil)

	md.GetCloses(context.Background(), dayQuery("XYZ"))
	md.GetCloses(context.Background(), dayQuery("XYZ"))

	if mock.Calls() != 2 {
		t.Errorf("Expected empty results to bypass cache, got %d calls", mock.Calls())
	}
}

func TestMarketDataPropagatesErrors(t *testing.T) {
	mock := NewMockMarketData("ABC")
	mock.SetError("ABC", errors.New("boom"))
	md := NewMarketData("MOCK", mock, nil, NewMultiRateLimiter())

	if _, err := md.GetCloses(context.Background(), dayQuery("ABC")); err == nil {
		t.Error("Expected provider error")
	}
}

func TestCacheExpiry(t *testing.T) {
	cache, err := NewCache(t.TempDir(), time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if err := cache.Set("k", []int{1, 2}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	var got []int
	if cache.Get("k", &got) {
		t.Error("Expected expired entry to miss")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := NewCache(t.TempDir(), time.Hour)
	cache.Set(MakeKey("a", "b"), map[string]float64{"close": 1.5})

	var got map[string]float64
	if !cache.Get("a:b", &got) {
		t.Fatal("Expected cache hit")
	}
	if got["close"] != 1.5 {
		t.Errorf("Expected 1.5, got %v", got["close"])
	}
}

func TestRateLimiterHonoursContext(t *testing.T) {
	rl := NewRateLimiter(1)
	ctx := context.Background()
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("Expected first token immediately, got %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestMultiRateLimiterUnknownProvider(t *testing.T) {
	m := NewMultiRateLimiter()
	if err := m.Wait(context.Background(), "UNKNOWN"); err != nil {
		t.Errorf("Expected unknown provider to pass, got %v", err)
	}
}

type fakeAlpaca struct {
	bars  []marketdata.Bar
	trade *marketdata.Trade
	req   marketdata.GetBarsRequest
}

func (f *fakeAlpaca) GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
	f.req = req
	return f.bars, nil
}

func (f *fakeAlpaca) GetLatestTrade(symbol string, req marketdata.GetLatestTradeRequest) (*marketdata.Trade, error) {
	return f.trade, nil
}

func TestAlpacaClientMapsBars(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	fake := &fakeAlpaca{
		bars: []marketdata.Bar{
			{Timestamp: time.Date(2024, 1, 2, 9, 0, 0, 0, est), Close: 100},
			{Timestamp: time.Date(2024, 1, 2, 10, 0, 0, 0, est), Close: 101},
		},
		trade: &marketdata.Trade{Price: 101},
	}
	client := &AlpacaClient{client: fake}

	start := time.Date(2024, 1, 2, 14, 0, 0, 0, time.UTC)
	points, err := client.GetCloses(context.Background(), types.PriceQuery{
		Ticker: "ABC", Start: start, End: start.Add(48 * time.Hour), Interval: types.IntervalHour,
	})
	if err != nil {
		t.Fatal(err)
	}
	if fake.req.TimeFrame != marketdata.OneHour {
		t.Errorf("Expected hourly timeframe, got %v", fake.req.TimeFrame)
	}
	if len(points) != 2 || points[0].Time.Hour() != 14 || points[0].Time.Location() != time.UTC {
		t.Errorf("Expected UTC-converted points, got %+v", points)
	}

	listed, err := client.IsListed(context.Background(), "ABC")
	if err != nil || !listed {
		t.Errorf("Expected listed, got %v %v", listed, err)
	}
}
