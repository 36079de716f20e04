// Package models declares the JSON contracts of the investors API.
package models

import "github.com/shopspring/decimal"

// Investor is one row of the investors list.
// The list endpoint carries no identifier: the detail endpoint addresses an
// investor by its 1-based position in the list response.
type Investor struct {
	Name             string          `json:"name"`
	InvestorType     string          `json:"investor_type"`
	Country          string          `json:"country"`
	TotalCommitments decimal.Decimal `json:"total_commitments"`
}

// InvestorsResponse is the body of GET /investors.
type InvestorsResponse struct {
	Investors []Investor `json:"investors"`
}

// Commitment is a capital amount pledged by an investor to one asset class.
type Commitment struct {
	ID         int             `json:"id"`
	InvestorID int             `json:"investor_id"`
	AssetClass string          `json:"asset_class"`
	Currency   string          `json:"currency"`
	Amount     decimal.Decimal `json:"amount"`
}

// InvestorDetail is the body of GET /investor/{id}.
// Commitments keep the order returned by the server.
type InvestorDetail struct {
	Name         string       `json:"name"`
	InvestorType string       `json:"investor_type"`
	Country      string       `json:"country"`
	Commitments  []Commitment `json:"commitments"`
}
