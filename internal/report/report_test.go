package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"insider-momentum/internal/types"
)

func sampleRecord() types.TransactionRecord {
	return types.TransactionRecord{
		Ticker:              "AAPL",
		TransactionDate:     null.StringFrom("2024-03-01"),
		TransactionCode:     null.StringFrom("S"),
		TransactionDesc:     "Open market or private sale",
		Shares:              null.FloatFrom(1000),
		PricePerShare:       null.FloatFrom(180.25),
		Footnotes:           "",
		TransactionCategory: types.CategoryNonDerivative,
		EquitySwapInvolved:  null.BoolFrom(false),
	}
}

func TestFlattenJSONOrderAndNesting(t *testing.T) {
	raw := []byte(`{"cik":"320193","filer":{"name":"Apple","address":{"city":"Cupertino"}},"amount":12.5,"owners":[{"n":1}],"flag":true,"gone":null}`)
	row, err := FlattenJSON(raw)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{"cik", "filer.name", "filer.address.city", "amount", "owners", "flag", "gone"}
	if !reflect.DeepEqual(row.Keys(), want) {
		t.Errorf("Expected keys %v, got %v", want, row.Keys())
	}

	if v, _ := row.Get("filer.address.city"); v.ValueOrZero() != "Cupertino" {
		t.Errorf("Expected Cupertino, got %q", v.ValueOrZero())
	}
	if v, _ := row.Get("amount"); !v.Literal || v.ValueOrZero() != "12.5" {
		t.Errorf("Expected literal 12.5, got %+v", v)
	}
	if v, _ := row.Get("owners"); v.ValueOrZero() != `[{"n":1}]` {
		t.Errorf("Expected compact array text, got %q", v.ValueOrZero())
	}
	if v, _ := row.Get("gone"); v.Valid {
		t.Error("Expected null for gone")
	}

	if _, err := FlattenJSON([]byte(`[1,2]`)); err == nil {
		t.Error("Expected error for non-object input")
	}
}

func TestTableColumnUnion(t *testing.T) {
	a := NewRow()
	a.Set("x", Text("1"))
	a.Set("y", Text("2"))
	b := NewRow()
	b.Set("z", Text("3"))
	b.Set("x", Text("4"))

	table := NewTable()
	table.Append(a, b)

	if !reflect.DeepEqual(table.Columns(), []string{"x", "y", "z"}) {
		t.Errorf("Unexpected columns %v", table.Columns())
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, table); err != nil {
		t.Fatal(err)
	}
	lines, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"x", "y", "z"}, {"1", "2", ""}, {"4", "", "3"}}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Expected %v, got %v", want, lines)
	}
}

func TestMomentumRowColumns(t *testing.T) {
	days := types.MomentumResult{
		TransactionRecord: sampleRecord(),
		Return:            null.FloatFrom(0.05),
		RealizedAt:        null.TimeFrom(time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC)),
		Elapsed:           null.FloatFrom(27),
		ElapsedUnit:       "days",
	}
	row := MomentumRow(days)
	keys := row.Keys()
	tail := keys[len(keys)-3:]
	if !reflect.DeepEqual(tail, []string{"return", "realizedDate", "daysDiff"}) {
		t.Errorf("Unexpected trailing columns %v", tail)
	}
	if keys[0] != "ticker" || keys[17] != "accessionNo" {
		t.Errorf("Unexpected record columns %v", keys[:18])
	}
	if v, _ := row.Get("realizedDate"); v.ValueOrZero() != "2024-03-28" {
		t.Errorf("Expected 2024-03-28, got %s", v.ValueOrZero())
	}

	hours := types.MomentumResult{
		TransactionRecord: sampleRecord(),
		ElapsedUnit:       "hours",
	}
	row = MomentumRow(hours)
	if _, ok := row.Get("hoursDiff"); !ok {
		t.Error("Expected hoursDiff column")
	}
	if v, _ := row.Get("return"); v.Valid {
		t.Error("Expected null return for unavailable result")
	}
}

func TestWriteJSONNulls(t *testing.T) {
	table := MomentumTable([]types.MomentumResult{{
		TransactionRecord: sampleRecord(),
		ElapsedUnit:       "days",
	}})

	var buf bytes.Buffer
	if err := WriteJSON(&buf, table); err != nil {
		t.Fatal(err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v\n%s", err, buf.String())
	}
	if len(decoded) != 1 {
		t.Fatalf("Expected 1 object, got %d", len(decoded))
	}
	obj := decoded[0]
	if obj["return"] != nil {
		t.Errorf("Expected null return, got %v", obj["return"])
	}
	if obj["shares"] != float64(1000) {
		t.Errorf("Expected numeric shares, got %v", obj["shares"])
	}
	if obj["equitySwapInvolved"] != false {
		t.Errorf("Expected false, got %v", obj["equitySwapInvolved"])
	}
	out := buf.String()
	if strings.Index(out, `"ticker"`) > strings.Index(out, `"daysDiff"`) {
		t.Error("Expected column order to be kept")
	}
}

func TestSQLiteSinkAddsColumns(t *testing.T) {
	ctx := context.Background()
	sink, err := OpenSQLite(":memory:", "trades")
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	first := NewTable()
	r1 := NewRow()
	r1.Set("ticker", Text("AAPL"))
	first.Append(r1)
	if n, err := sink.Write(ctx, "run-1", first); err != nil || n != 1 {
		t.Fatalf("Expected 1 row, got %d (%v)", n, err)
	}

	second := NewTable()
	r2 := NewRow()
	r2.Set("ticker", Text("MSFT"))
	r2.Set("holdings.value", Number(42))
	r2.Set("return", Null())
	second.Append(r2)
	if _, err := sink.Write(ctx, "run-2", second); err != nil {
		t.Fatal(err)
	}

	cols, err := sink.Columns(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"run_id", "ticker", "holdings.value", "return"}
	if !reflect.DeepEqual(cols, want) {
		t.Errorf("Expected columns %v, got %v", want, cols)
	}

	var count int
	if err := sink.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "trades" WHERE "return" IS NULL`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Expected 2 rows with null return, got %d", count)
	}
}

func TestReporterSave(t *testing.T) {
	dir := t.TempDir()
	r := NewReporter(dir, "0123456789abcdef")
	r.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }

	table := RecordTable([]types.TransactionRecord{sampleRecord()})
	path, err := r.Save(table, "insider_momentum", FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "insider_momentum_2024-05-01_09-30-00_01234567.csv" {
		t.Errorf("Unexpected file name %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "ticker,transactionDate") {
		t.Errorf("Unexpected CSV header: %s", data)
	}

	if _, err := r.Render(table, "xml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestSummary(t *testing.T) {
	table := MomentumTable([]types.MomentumResult{
		{TransactionRecord: sampleRecord(), Return: null.FloatFrom(0.1), ElapsedUnit: "days"},
		{TransactionRecord: sampleRecord(), ElapsedUnit: "days"},
	})
	if got := Summary(table); got != "2 rows, 1 with momentum, 1 unavailable" {
		t.Errorf("Unexpected summary %q", got)
	}
}
