// Package forms fetches 13F and 13D/13G filings and flattens them into report tables.
package forms

import (
	"context"
	"encoding/json"
	"fmt"

	"insider-momentum/internal/datasource"
	"insider-momentum/internal/interfaces"
	"insider-momentum/internal/logger"
	"insider-momentum/internal/report"
	"insider-momentum/internal/types"
)

// Service runs form searches. Every method returns an empty table on failure.
type Service struct {
	source interfaces.FilingsSource
}

func NewService(source interfaces.FilingsSource) *Service {
	return &Service{source: source}
}

// Holdings13F returns one row per holding, prefixed with the filing's cik and periodOfReport.
func (s *Service) Holdings13F(ctx context.Context, query string, size int) *report.Table {
	table := report.NewTable()
	items, ok := s.search(ctx, types.Form13FHoldings, query, size)
	if !ok {
		return table
	}

	for i, item := range items {
		var filing struct {
			CIK            json.RawMessage   `json:"cik"`
			PeriodOfReport json.RawMessage   `json:"periodOfReport"`
			Holdings       []json.RawMessage `json:"holdings"`
		}
		if err := json.Unmarshal(item, &filing); err != nil {
			logger.Warn(ctx, "Skipping malformed 13F filing", "index", i, "error", err)
			continue
		}

		meta := report.NewRow()
		meta.Set("cik", report.ScalarValue(filing.CIK))
		meta.Set("periodOfReport", report.ScalarValue(filing.PeriodOfReport))

		for _, h := range filing.Holdings {
			holding, err := report.FlattenJSON(h)
			if err != nil {
				logger.Warn(ctx, "Skipping malformed 13F holding", "index", i, "error", err)
				continue
			}
			row := meta.Clone()
			row.Merge(holding)
			table.Append(row)
		}
	}
	logger.Info(ctx, "Fetched 13F holdings", "query", query, "filings", len(items), "rows", table.Len())
	return table
}

// CoverPages13F returns one flattened row per cover page.
func (s *Service) CoverPages13F(ctx context.Context, query string, size int) *report.Table {
	return s.flattenAll(ctx, types.Form13FCoverPages, query, size)
}

// Filings13DG returns one flattened row per 13D or 13G filing.
func (s *Service) Filings13DG(ctx context.Context, query string, size int) *report.Table {
	return s.flattenAll(ctx, types.Form13DG, query, size)
}

func (s *Service) flattenAll(ctx context.Context, form types.FilingForm, query string, size int) *report.Table {
	table := report.NewTable()
	items, ok := s.search(ctx, form, query, size)
	if !ok {
		return table
	}
	for i, item := range items {
		row, err := report.FlattenJSON(item)
		if err != nil {
			logger.Warn(ctx, "Skipping malformed filing", "form", string(form), "index", i, "error", err)
			continue
		}
		table.Append(row)
	}
	logger.Info(ctx, "Fetched filings", "form", string(form), "query", query, "rows", table.Len())
	return table
}

// search returns the result array of the form's response.
func (s *Service) search(ctx context.Context, form types.FilingForm, query string, size int) ([]json.RawMessage, bool) {
	timer := logger.StartOperation(ctx, "forms.search", "form", string(form), "query", query, "size", size)
	ctx = timer.Context()

	body, err := s.source.Search(ctx, form, query, datasource.ClampSize(size))
	if err != nil {
		logger.ErrorWithErr(ctx, "Filings search failed", err,
			"form", string(form),
			"status", datasource.StatusCode(err),
			"body", datasource.ResponseBody(err))
		timer.EndWithError(err)
		return nil, false
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		logger.ErrorWithErr(ctx, "Failed to decode filings response", err, "form", string(form))
		timer.EndWithError(err)
		return nil, false
	}

	raw, ok := envelope[form.ResultKey()]
	if !ok || string(raw) == "null" {
		timer.End("results", 0)
		return nil, true
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		err = fmt.Errorf("%s is not an array: %w", form.ResultKey(), err)
		logger.ErrorWithErr(ctx, "Failed to decode filings response", err, "form", string(form))
		timer.EndWithError(err)
		return nil, false
	}
	timer.End("results", len(items))
	return items, true
}
