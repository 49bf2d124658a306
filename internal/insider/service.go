package insider

import (
	"context"
	"encoding/json"

	"insider-momentum/internal/datasource"
	"insider-momentum/internal/interfaces"
	"insider-momentum/internal/logger"
	"insider-momentum/internal/types"
)

// Service fetches insider trades and flattens them.
type Service struct {
	source    interfaces.FilingsSource
	extractor *Extractor
}

func NewService(source interfaces.FilingsSource, vocab *CodeVocabulary) *Service {
	return &Service{
		source:    source,
		extractor: NewExtractor(vocab),
	}
}

// FetchTrades runs one search and returns its records. Any transport, HTTP or
// decode failure is logged and yields an empty slice.
func (s *Service) FetchTrades(ctx context.Context, query string, size int) []types.TransactionRecord {
	timer := logger.StartOperation(ctx, "insider.FetchTrades", "query", query, "size", size)
	ctx = timer.Context()

	body, err := s.source.Search(ctx, types.FormInsiderTrading, query, datasource.ClampSize(size))
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch insider trades", err,
			"query", query,
			"status", datasource.StatusCode(err),
			"body", datasource.ResponseBody(err))
		timer.EndWithError(err)
		return []types.TransactionRecord{}
	}

	var resp types.InsiderTradingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.ErrorWithErr(ctx, "Failed to decode insider trades", err, "query", query)
		timer.EndWithError(err)
		return []types.TransactionRecord{}
	}

	records := s.extractor.Extract(&resp, query)
	if len(records) == 0 {
		logger.Info(ctx, "No transactions found", "query", query, "filings", len(resp.Transactions))
	}
	timer.End("filings", len(resp.Transactions), "records", len(records))
	return records
}
