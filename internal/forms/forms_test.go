package forms

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"insider-momentum/internal/datasource"
	"insider-momentum/internal/types"
)

const holdingsBody = `{"data":[
 {"cik":"1067983","periodOfReport":"2024-03-31","holdings":[
   {"nameOfIssuer":"TESLA INC","ticker":"TSLA","value":1200,"shrsOrPrnAmt":{"sshPrnamt":5000,"sshPrnamtType":"SH"}},
   {"nameOfIssuer":"APPLE INC","ticker":"AAPL","value":900,"putCall":null}
 ]},
 {"cik":"2000","periodOfReport":"2024-03-31","holdings":[]}
]}`

func TestHoldings13FMergesFilingMetadata(t *testing.T) {
	src := datasource.NewMockFilingsSource()
	src.SetResponse(types.Form13FHoldings, []byte(holdingsBody))

	table := NewService(src).Holdings13F(context.Background(), "holdings.ticker:TSLA", 1)
	if table.Len() != 2 {
		t.Fatalf("Expected 2 holding rows, got %d", table.Len())
	}

	want := []string{"cik", "periodOfReport", "nameOfIssuer", "ticker", "value",
		"shrsOrPrnAmt.sshPrnamt", "shrsOrPrnAmt.sshPrnamtType", "putCall"}
	if !reflect.DeepEqual(table.Columns(), want) {
		t.Errorf("Expected columns %v, got %v", want, table.Columns())
	}
	if v := table.Cell(1, "cik"); v.ValueOrZero() != "1067983" {
		t.Errorf("Expected cik on every holding, got %q", v.ValueOrZero())
	}
	if v := table.Cell(1, "shrsOrPrnAmt.sshPrnamt"); v.Valid {
		t.Error("Expected missing nested value to be null")
	}
	if src.Queries[0] != "holdings.ticker:TSLA" {
		t.Errorf("Unexpected query %v", src.Queries)
	}
}

func TestCoverPagesAndThirteenDG(t *testing.T) {
	src := datasource.NewMockFilingsSource()
	src.SetResponse(types.Form13FCoverPages, []byte(`{"total":{"value":1},"data":[{"cik":"1","filingManager":{"name":"Fund"}}]}`))
	src.SetResponse(types.Form13DG, []byte(`{"filings":[{"accessionNo":"a-1","issuer":{"tradingSymbol":"TSLA"},"owners":[{"name":"X"}]},{"accessionNo":"a-2","amendment":true}]}`))

	svc := NewService(src)
	cover := svc.CoverPages13F(context.Background(), "cik:1", 1)
	if cover.Len() != 1 || cover.Cell(0, "filingManager.name").ValueOrZero() != "Fund" {
		t.Errorf("Unexpected cover page table %v", cover.Columns())
	}

	dg := svc.Filings13DG(context.Background(), "issuer.tradingSymbol:TSLA", 50)
	if dg.Len() != 2 {
		t.Fatalf("Expected 2 filings, got %d", dg.Len())
	}
	want := []string{"accessionNo", "issuer.tradingSymbol", "owners", "amendment"}
	if !reflect.DeepEqual(dg.Columns(), want) {
		t.Errorf("Expected columns %v, got %v", want, dg.Columns())
	}
	if v := dg.Cell(0, "owners"); v.ValueOrZero() != `[{"name":"X"}]` {
		t.Errorf("Expected array text, got %q", v.ValueOrZero())
	}
}

func TestSearchFailuresYieldEmptyTables(t *testing.T) {
	src := datasource.NewMockFilingsSource()
	src.SetError(datasource.NewHTTPError(401, `{"error":"bad key"}`))
	svc := NewService(src)

	if n := svc.Holdings13F(context.Background(), "q", 1).Len(); n != 0 {
		t.Errorf("Expected empty table, got %d rows", n)
	}

	src.SetError(nil)
	src.SetResponse(types.Form13DG, []byte(`not json`))
	if n := svc.Filings13DG(context.Background(), "q", 1).Len(); n != 0 {
		t.Errorf("Expected empty table for bad body, got %d rows", n)
	}

	src.SetResponse(types.Form13FCoverPages, []byte(`{"data":{"oops":1}}`))
	if n := svc.CoverPages13F(context.Background(), "q", 1).Len(); n != 0 {
		t.Errorf("Expected empty table for non-array data, got %d rows", n)
	}

	src.SetError(errors.New("dial tcp: refused"))
	if n := svc.CoverPages13F(context.Background(), "q", 1).Len(); n != 0 {
		t.Errorf("Expected empty table for transport error, got %d rows", n)
	}
}

func TestMissingResultKey(t *testing.T) {
	src := datasource.NewMockFilingsSource()
	if n := NewService(src).Filings13DG(context.Background(), "q", 5).Len(); n != 0 {
		t.Errorf("Expected no rows, got %d", n)
	}
}
