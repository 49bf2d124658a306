package insider

import (
	"strings"

	"github.com/guregu/null/v6"

	"insider-momentum/internal/types"
)

// FilingMetadata is the per-filing data shared by every record of a FilingGroup.
type FilingMetadata struct {
	Ticker       string
	DocumentType null.String
	Footnotes    string
	Remarks      null.String
	OfficerTitle null.String
	OtherText    null.String
	FiledAt      null.String
	AccessionNo  null.String
}

// Extractor flattens insider-trading responses into TransactionRecords.
type Extractor struct {
	vocab *CodeVocabulary
}

func NewExtractor(vocab *CodeVocabulary) *Extractor {
	return &Extractor{vocab: vocab}
}

// Extract returns one record per transaction in response order. Within a filing,
// non-derivative transactions come before derivative ones.
func (e *Extractor) Extract(resp *types.InsiderTradingResponse, query string) []types.TransactionRecord {
	records := []types.TransactionRecord{}
	if resp == nil {
		return records
	}

	for i := range resp.Transactions {
		group := &resp.Transactions[i]
		meta := MetadataFromGroup(group, query)

		for _, tx := range tableTransactions(group.NonDerivativeTable) {
			records = append(records, RecordFromRawTransaction(tx, meta, types.CategoryNonDerivative, e.vocab))
		}
		for _, tx := range tableTransactions(group.DerivativeTable) {
			records = append(records, RecordFromRawTransaction(tx, meta, types.CategoryDerivative, e.vocab))
		}
	}
	return records
}

// MetadataFromGroup derives the shared metadata of a filing. The ticker falls back
// to the part of query after its last colon when the issuer symbol is missing.
func MetadataFromGroup(group *types.FilingGroup, query string) FilingMetadata {
	meta := FilingMetadata{
		Ticker:       TickerFromQuery(query),
		DocumentType: group.DocumentType,
		Footnotes:    joinFootnotes(group.Footnotes),
		Remarks:      group.Remarks,
		FiledAt:      group.FiledAt,
		AccessionNo:  group.AccessionNo,
	}
	if group.Issuer != nil && group.Issuer.TradingSymbol.Valid && group.Issuer.TradingSymbol.String != "" {
		meta.Ticker = group.Issuer.TradingSymbol.String
	}
	if group.ReportingOwner != nil && group.ReportingOwner.Relationship != nil {
		meta.OfficerTitle = group.ReportingOwner.Relationship.OfficerTitle
		meta.OtherText = group.ReportingOwner.Relationship.OtherText
	}
	return meta
}

// RecordFromRawTransaction maps one raw transaction to a record.
func RecordFromRawTransaction(tx types.RawTransaction, meta FilingMetadata, category string, vocab *CodeVocabulary) types.TransactionRecord {
	rec := types.TransactionRecord{
		Ticker:              meta.Ticker,
		TransactionDate:     tx.TransactionDate,
		OfficerTitle:        meta.OfficerTitle,
		DocumentType:        meta.DocumentType,
		Footnotes:           meta.Footnotes,
		Remarks:             meta.Remarks,
		OtherText:           meta.OtherText,
		TransactionCategory: category,
		SecurityTitle:       tx.SecurityTitle,
		FiledAt:             meta.FiledAt,
		AccessionNo:         meta.AccessionNo,
	}

	if tx.Coding != nil {
		rec.TransactionCode = tx.Coding.Code
		rec.EquitySwapInvolved = tx.Coding.EquitySwapInvolved
	}
	rec.TransactionDesc = vocab.Describe(rec.TransactionCode)

	if tx.Amounts != nil {
		rec.Shares = tx.Amounts.Shares
		rec.PricePerShare = tx.Amounts.PricePerShare
		rec.AcquiredDisposedCode = tx.Amounts.AcquiredDisposedCode
	}
	if tx.PostTransactionAmounts != nil {
		rec.SharesOwnedFollowingTransaction = tx.PostTransactionAmounts.SharesOwnedFollowingTransaction
	}
	return rec
}

// TickerFromQuery returns the substring after the last colon, or the whole query.
func TickerFromQuery(query string) string {
	if i := strings.LastIndex(query, ":"); i >= 0 {
		return query[i+1:]
	}
	return query
}

func tableTransactions(table *types.TransactionTable) []types.RawTransaction {
	if table == nil {
		return nil
	}
	return table.Transactions
}

func joinFootnotes(notes []types.Footnote) string {
	texts := make([]string, 0, len(notes))
	for _, fn := range notes {
		texts = append(texts, fn.Text.String)
	}
	return strings.Join(texts, "; ")
}
