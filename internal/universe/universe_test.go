package universe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"testing"
)

type fakeChecker struct {
	listed map[string]bool
	errs   map[string]bool
	calls  []string
}

func (f *fakeChecker) IsListed(ctx context.Context, ticker string) (bool, error) {
	f.calls = append(f.calls, ticker)
	if f.errs[ticker] {
		return false, errors.New("lookup failed")
	}
	return f.listed[ticker], nil
}

func TestSampleOversizeReturnsListedSubset(t *testing.T) {
	checker := &fakeChecker{
		listed: map[string]bool{"AAPL": true, "MSFT": true, "TSLA": true},
		errs:   map[string]bool{"BAD": true},
	}
	s := NewSampler(checker, 42)

	got, err := s.Sample(context.Background(), []string{"AAPL", "MSFT", "AAPL", "GONE", "BAD", "TSLA", "MSFT"}, 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{"AAPL", "MSFT", "TSLA"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if len(checker.calls) != 5 {
		t.Errorf("Expected 5 listing checks after dedupe, got %d", len(checker.calls))
	}
}

func TestSampleDrawsWithoutReplacement(t *testing.T) {
	listed := map[string]bool{}
	for _, tkr := range LargeCaps() {
		listed[tkr] = true
	}
	s := NewSampler(&fakeChecker{listed: listed}, 7)

	got, err := s.Sample(context.Background(), LargeCaps(), 20)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got) != 20 {
		t.Fatalf("Expected 20 tickers, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, tkr := range got {
		if seen[tkr] {
			t.Errorf("Duplicate ticker %s", tkr)
		}
		if !listed[tkr] {
			t.Errorf("Ticker %s not from pool", tkr)
		}
		seen[tkr] = true
	}
}

func TestSampleSeedIsDeterministic(t *testing.T) {
	listed := map[string]bool{}
	for _, tkr := range SmallCaps() {
		listed[tkr] = true
	}
	a, _ := NewSampler(&fakeChecker{listed: listed}, 99).Sample(context.Background(), SmallCaps(), 2)
	b, _ := NewSampler(&fakeChecker{listed: listed}, 99).Sample(context.Background(), SmallCaps(), 2)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Expected same draw for same seed, got %v and %v", a, b)
	}
}

func TestSampleEmptyUniverse(t *testing.T) {
	s := NewSampler(&fakeChecker{}, 1)
	_, err := s.Sample(context.Background(), []string{"GONE"}, 2)
	if !errors.Is(err, ErrEmptyUniverse) {
		t.Errorf("Expected ErrEmptyUniverse, got %v", err)
	}
}

func TestPools(t *testing.T) {
	if n := len(LargeCaps()); n != 40 {
		t.Errorf("Expected 40 large caps, got %d", n)
	}
	if n := len(SmallCaps()); n != 20 {
		t.Errorf("Expected 20 small caps, got %d", n)
	}

	pool := LargeCaps()
	pool[0] = "CHANGED"
	if LargeCaps()[0] != "AAPL" {
		t.Error("Expected LargeCaps to return a copy")
	}
}

func TestCandidatesStatic(t *testing.T) {
	got, err := Candidates(context.Background(), PoolStatic, []string{" aapl", "", "msft "}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"AAPL", "MSFT"}) {
		t.Errorf("Unexpected static candidates %v", got)
	}

	if _, err := Candidates(context.Background(), "mid", nil, nil); err == nil {
		t.Error("Expected error for unknown pool")
	}
	if _, err := Candidates(context.Background(), PoolSP500, nil, nil); err == nil {
		t.Error("Expected error for sp500 without a source")
	}
}

const constituentsPage = `<html><body>
<table id="constituents" class="wikitable sortable">
<thead><tr><th>Symbol</th><th>Security</th></tr></thead>
<tbody>
<tr><th>Symbol</th><th>Security</th></tr>
<tr><td><a href="/q/MMM">MMM</a></td><td>3M</td></tr>
<tr><td><a href="/q/BRK.B">BRK.B</a></td><td>Berkshire Hathaway</td></tr>
<tr><td>ZTS</td><td>Zoetis</td></tr>
</tbody>
</table>
<table id="changes"><tbody><tr><td>OLD</td></tr></tbody></table>
</body></html>`

func TestSP500ScraperParsesTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(constituentsPage))
	}))
	defer srv.Close()

	scraper := NewSP500Scraper(srv.URL+"/wiki/List", 0)
	got, err := scraper.Constituents(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{"MMM", "BRK.B", "ZTS"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	fromPool, err := Candidates(context.Background(), PoolSP500, nil, scraper)
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(fromPool)
	if len(fromPool) != 3 {
		t.Errorf("Expected 3 candidates from sp500 pool, got %v", fromPool)
	}
}

func TestSP500ScraperHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewSP500Scraper(srv.URL, 0).Constituents(context.Background()); err == nil {
		t.Error("Expected error for 503")
	}
}
