package models

// Quote is an ephemeral price observation from the external quote provider.
// Quotes are never persisted; they are merged transiently into list
// responses. Fields the provider omitted or returned in an unexpected type
// are nil rather than failing the batch.
type Quote struct {
	Symbol      string      `json:"symbol"`
	Price       *float64    `json:"price"`
	RawClose    interface{} `json:"rawClose"`
	Pricescale  *float64    `json:"pricescale"`
	Currency    *string     `json:"currency"`
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	Exchange    *string     `json:"exchange"`
}
