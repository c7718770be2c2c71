package models

import "time"

// Position categories accepted by the service.
const (
	CategoryStock          = "stock"
	CategoryCommodity      = "commodity"
	CategoryHedge          = "hedge"
	CategoryCash           = "cash"
	CategoryCryptocurrency = "cryptocurrency"
)

// Position direction values.
const (
	PositionTypeLong  = "long"
	PositionTypeShort = "short"
)

// Position represents a tracked holding joined with its latest valuation
// snapshot. The snapshot fields are nil/zero for a position that has no
// snapshot yet.
type Position struct {
	ID                   int        `json:"id"`
	Slug                 string     `json:"slug"`
	Symbol               string     `json:"symbol"`
	QuoteSymbol          string     `json:"quoteSymbol"`
	Name                 string     `json:"name"`
	Category             string     `json:"category"`
	PositionType         string     `json:"positionType"`
	PurchasePriceLabel   string     `json:"purchasePrice"`
	CurrentPriceValue    *float64   `json:"currentPriceValue"`
	CurrentPriceCurrency *string    `json:"currentPriceCurrency"`
	CurrentPriceLabel    string     `json:"currentPrice"`
	ReturnValue          float64    `json:"returnValue"`
	ReturnLabel          string     `json:"return"`
	SnapshotRecordedAt   *time.Time `json:"snapshotRecordedAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// PositionSnapshot is an immutable timestamped valuation observation owned
// by a position. One snapshot is written atomically with the position at
// creation time; listing never appends new rows.
type PositionSnapshot struct {
	ID                   int       `json:"id"`
	PositionID           int       `json:"positionId"`
	RecordedAt           time.Time `json:"recordedAt"`
	CurrentPriceValue    *float64  `json:"currentPriceValue"`
	CurrentPriceCurrency *string   `json:"currentPriceCurrency"`
	CurrentPriceLabel    string    `json:"currentPriceLabel"`
	ReturnValue          float64   `json:"returnValue"`
	ReturnLabel          string    `json:"returnLabel"`
	CreatedAt            time.Time `json:"createdAt"`
}

// CreatePositionInput carries the POST /api/positions request body.
type CreatePositionInput struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	PositionType  string  `json:"positionType"`
	PurchasePrice string  `json:"purchasePrice"`
	CurrentPrice  string  `json:"currentPrice"`
	ReturnValue   float64 `json:"returnValue"`
	QuoteSymbol   string  `json:"quoteSymbol"`
}

// UpdatePositionInput carries a metadata update. Empty fields are left
// unchanged; price labels are never mutated through updates.
type UpdatePositionInput struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	PositionType string `json:"positionType"`
	QuoteSymbol  string `json:"quoteSymbol"`
}
