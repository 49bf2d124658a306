package types

import "github.com/guregu/null/v6"

// FilingForm identifies one of the filings API search endpoints.
type FilingForm string

const (
	FormInsiderTrading FilingForm = "insider-trading"
	Form13FHoldings    FilingForm = "form-13f/holdings"
	Form13FCoverPages  FilingForm = "form-13f/cover-pages"
	Form13DG           FilingForm = "form-13d-13g"
)

// Path is the URL path of the form's search endpoint.
func (f FilingForm) Path() string {
	return "/" + string(f)
}

// SortField is the field results are ordered by, newest first.
func (f FilingForm) SortField() string {
	switch f {
	case Form13FHoldings, Form13FCoverPages:
		return "periodOfReport"
	default:
		return "filedAt"
	}
}

// ResultKey is the name of the array holding results in the response body.
func (f FilingForm) ResultKey() string {
	switch f {
	case FormInsiderTrading:
		return "transactions"
	case Form13DG:
		return "filings"
	default:
		return "data"
	}
}

// SearchRequest is the POST body of a filings search.
type SearchRequest struct {
	Query string                         `json:"query"`
	From  int                            `json:"from"`
	Size  int                            `json:"size"`
	Sort  []map[string]map[string]string `json:"sort"`
}

// NewSearchRequest builds a descending-order search for form starting at offset 0.
func NewSearchRequest(form FilingForm, query string, size int) SearchRequest {
	return SearchRequest{
		Query: query,
		From:  0,
		Size:  size,
		Sort:  []map[string]map[string]string{{form.SortField(): {"order": "desc"}}},
	}
}

// InsiderTradingResponse is the body returned by the insider-trading endpoint.
type InsiderTradingResponse struct {
	Transactions []FilingGroup `json:"transactions"`
}

// FilingGroup is one Form 4 style filing with its two transaction tables.
type FilingGroup struct {
	AccessionNo        null.String       `json:"accessionNo"`
	FiledAt            null.String       `json:"filedAt"`
	DocumentType       null.String       `json:"documentType"`
	Footnotes          []Footnote        `json:"footnotes"`
	Remarks            null.String       `json:"remarks"`
	Issuer             *Issuer           `json:"issuer"`
	ReportingOwner     *ReportingOwner   `json:"reportingOwner"`
	NonDerivativeTable *TransactionTable `json:"nonDerivativeTable"`
	DerivativeTable    *TransactionTable `json:"derivativeTable"`
}

type Footnote struct {
	ID   null.String `json:"id"`
	Text null.String `json:"text"`
}

type Issuer struct {
	CIK           null.String `json:"cik"`
	Name          null.String `json:"name"`
	TradingSymbol null.String `json:"tradingSymbol"`
}

type ReportingOwner struct {
	CIK          null.String   `json:"cik"`
	Name         null.String   `json:"name"`
	Relationship *Relationship `json:"relationship"`
}

type Relationship struct {
	IsDirector        null.Bool   `json:"isDirector"`
	IsOfficer         null.Bool   `json:"isOfficer"`
	OfficerTitle      null.String `json:"officerTitle"`
	IsTenPercentOwner null.Bool   `json:"isTenPercentOwner"`
	IsOther           null.Bool   `json:"isOther"`
	OtherText         null.String `json:"otherText"`
}

type TransactionTable struct {
	Transactions []RawTransaction `json:"transactions"`
}

// RawTransaction is one row of a non-derivative or derivative table.
type RawTransaction struct {
	SecurityTitle          null.String             `json:"securityTitle"`
	TransactionDate        null.String             `json:"transactionDate"`
	Coding                 *TransactionCoding      `json:"coding"`
	Amounts                *TransactionAmounts     `json:"amounts"`
	PostTransactionAmounts *PostTransactionAmounts `json:"postTransactionAmounts"`
}

type TransactionCoding struct {
	FormType           null.String `json:"formType"`
	Code               null.String `json:"code"`
	EquitySwapInvolved null.Bool   `json:"equitySwapInvolved"`
}

type TransactionAmounts struct {
	Shares               null.Float  `json:"shares"`
	PricePerShare        null.Float  `json:"pricePerShare"`
	AcquiredDisposedCode null.String `json:"acquiredDisposedCode"`
}

type PostTransactionAmounts struct {
	SharesOwnedFollowingTransaction null.Float `json:"sharesOwnedFollowingTransaction"`
}
