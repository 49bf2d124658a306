package report

import (
	"insider-momentum/internal/types"
)

// Layouts for realizedDate by elapsed unit.
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// RecordRow lays a TransactionRecord out as a row.
func RecordRow(rec types.TransactionRecord) *Row {
	r := NewRow()
	r.Set("ticker", Text(rec.Ticker))
	r.Set("transactionDate", FromNullString(rec.TransactionDate))
	r.Set("transactionCode", FromNullString(rec.TransactionCode))
	r.Set("transactionDesc", Text(rec.TransactionDesc))
	r.Set("shares", FromNullFloat(rec.Shares))
	r.Set("pricePerShare", FromNullFloat(rec.PricePerShare))
	r.Set("officerTitle", FromNullString(rec.OfficerTitle))
	r.Set("documentType", FromNullString(rec.DocumentType))
	r.Set("footnotes", Text(rec.Footnotes))
	r.Set("remarks", FromNullString(rec.Remarks))
	r.Set("otherText", FromNullString(rec.OtherText))
	r.Set("transactionCategory", Text(rec.TransactionCategory))
	r.Set("securityTitle", FromNullString(rec.SecurityTitle))
	r.Set("equitySwapInvolved", FromNullBool(rec.EquitySwapInvolved))
	r.Set("sharesOwnedFollowingTransaction", FromNullFloat(rec.SharesOwnedFollowingTransaction))
	r.Set("acquiredDisposedCode", FromNullString(rec.AcquiredDisposedCode))
	r.Set("filedAt", FromNullString(rec.FiledAt))
	r.Set("accessionNo", FromNullString(rec.AccessionNo))
	return r
}

// MomentumRow lays a MomentumResult out as a row. The elapsed column is
// daysDiff or hoursDiff by unit.
func MomentumRow(m types.MomentumResult) *Row {
	r := RecordRow(m.TransactionRecord)
	r.Set("return", FromNullFloat(m.Return))

	elapsedColumn := "daysDiff"
	layout := dateLayout
	if m.ElapsedUnit == "hours" {
		elapsedColumn = "hoursDiff"
		layout = dateTimeLayout
	}

	if m.RealizedAt.Valid {
		r.Set("realizedDate", Text(m.RealizedAt.Time.Format(layout)))
	} else {
		r.Set("realizedDate", Null())
	}
	r.Set(elapsedColumn, FromNullFloat(m.Elapsed))
	return r
}

// RecordTable builds a table of records.
func RecordTable(records []types.TransactionRecord) *Table {
	t := NewTable()
	for _, rec := range records {
		t.Append(RecordRow(rec))
	}
	return t
}

// MomentumTable builds a table of momentum results.
func MomentumTable(results []types.MomentumResult) *Table {
	t := NewTable()
	for _, m := range results {
		t.Append(MomentumRow(m))
	}
	return t
}
