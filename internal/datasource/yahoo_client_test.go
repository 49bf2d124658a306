package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"insider-momentum/internal/types"
)

const chartBody = `{"chart":{"result":[{"meta":{"symbol":"ABC","regularMarketPrice":110.5},
"timestamp":[1704205800,1704292200,1705329000],
"indicators":{"quote":[{"close":[100.0,null,110.0]}]}}],"error":null}}`

func TestYahooGetCloses(t *testing.T) {
	var gotPath, gotInterval, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInterval = r.URL.Query().Get("interval")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	client := NewYahooClient(srv.URL, 5*time.Second)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	points, err := client.GetCloses(context.Background(), types.PriceQuery{
		Ticker:   "BRK.B",
		Start:    start,
		End:      start.AddDate(0, 0, 30),
		Interval: types.IntervalDay,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if gotPath != "/v8/finance/chart/BRK-B" {
		t.Errorf("Expected Yahoo symbol in path, got %s", gotPath)
	}
	if gotInterval != "1d" {
		t.Errorf("Expected interval 1d, got %s", gotInterval)
	}
	if !strings.HasPrefix(gotUA, "Mozilla/") {
		t.Errorf("Expected browser User-Agent, got %q", gotUA)
	}

	if len(points) != 2 {
		t.Fatalf("Expected 2 points (null skipped), got %d", len(points))
	}
	if points[0].Close != 100.0 || points[1].Close != 110.0 {
		t.Errorf("Unexpected closes %+v", points)
	}
	if points[1].Time.Location() != time.UTC {
		t.Errorf("Expected UTC timestamps, got %v", points[1].Time.Location())
	}
}

func TestYahooIsListed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/ABC"):
			w.Write([]byte(chartBody))
		case strings.HasSuffix(r.URL.Path, "/NOPRICE"):
			w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"NOPRICE"}}]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found"}}}`))
		}
	}))
	defer srv.Close()

	client := NewYahooClient(srv.URL, 5*time.Second)
	ctx := context.Background()

	tests := []struct {
		ticker string
		want   bool
	}{
		{"ABC", true},
		{"NOPRICE", false},
		{"GONE", false},
	}
	for _, tt := range tests {
		got, err := client.IsListed(ctx, tt.ticker)
		if err != nil {
			t.Errorf("IsListed(%s) error: %v", tt.ticker, err)
		}
		if got != tt.want {
			t.Errorf("IsListed(%s) = %v, want %v", tt.ticker, got, tt.want)
		}
	}
}

func TestYahooServerErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewYahooClient(srv.URL, 5*time.Second)
	_, err := client.GetCloses(context.Background(), types.PriceQuery{
		Ticker:   "ABC",
		Start:    time.Now().Add(-time.Hour),
		End:      time.Now(),
		Interval: types.IntervalHour,
	})
	if StatusCode(err) != http.StatusTooManyRequests {
		t.Errorf("Expected 429 HTTPError, got %v", err)
	}
}

func TestToYahooSymbol(t *testing.T) {
	if got := ToYahooSymbol("BRK.B"); got != "BRK-B" {
		t.Errorf("Expected BRK-B, got %s", got)
	}
	if got := ToYahooSymbol(" AAPL "); got != "AAPL" {
		t.Errorf("Expected AAPL, got %s", got)
	}
}
