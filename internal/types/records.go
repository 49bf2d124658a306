package types

import (
	"time"

	"github.com/guregu/null/v6"
)

// Transaction categories.
const (
	CategoryNonDerivative = "nonDerivative"
	CategoryDerivative    = "derivative"
)

// TransactionRecord is the flat form of one RawTransaction plus its filing metadata.
// Absent source values stay null.
type TransactionRecord struct {
	Ticker                          string      `json:"ticker"`
	TransactionDate                 null.String `json:"transactionDate"`
	TransactionCode                 null.String `json:"transactionCode"`
	TransactionDesc                 string      `json:"transactionDesc"`
	Shares                          null.Float  `json:"shares"`
	PricePerShare                   null.Float  `json:"pricePerShare"`
	OfficerTitle                    null.String `json:"officerTitle"`
	DocumentType                    null.String `json:"documentType"`
	Footnotes                       string      `json:"footnotes"`
	Remarks                         null.String `json:"remarks"`
	OtherText                       null.String `json:"otherText"`
	TransactionCategory             string      `json:"transactionCategory"`
	SecurityTitle                   null.String `json:"securityTitle"`
	EquitySwapInvolved              null.Bool   `json:"equitySwapInvolved"`
	SharesOwnedFollowingTransaction null.Float  `json:"sharesOwnedFollowingTransaction"`
	AcquiredDisposedCode            null.String `json:"acquiredDisposedCode"`
	FiledAt                         null.String `json:"filedAt"`
	AccessionNo                     null.String `json:"accessionNo"`
}

// MomentumResult is a TransactionRecord enriched with its realized return.
// Return, RealizedAt and Elapsed are either all valid or all null.
type MomentumResult struct {
	TransactionRecord
	Return     null.Float
	RealizedAt null.Time
	Elapsed    null.Float
	// ElapsedUnit is "days" or "hours".
	ElapsedUnit string
}

// Available reports whether price data was found for the record.
func (m MomentumResult) Available() bool {
	return m.Return.Valid
}

// Interval is a price bar granularity.
type Interval string

const (
	IntervalDay  Interval = "1d"
	IntervalHour Interval = "1h"
)

// PricePoint is one closing price. Time is timezone-naive (UTC wall clock).
type PricePoint struct {
	Time  time.Time `json:"time"`
	Close float64   `json:"close"`
}

// PriceQuery selects closes for a ticker in [Start, End).
type PriceQuery struct {
	Ticker   string
	Start    time.Time
	End      time.Time
	Interval Interval
}
