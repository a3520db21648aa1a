// Package polymarket is the concrete venue driver for Polymarket: a
// Gamma REST catalog fetch, CLOB REST top-of-book fetch, and a CLOB
// websocket price-change subscription.
package polymarket

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/simrat12/Prediction-Engine/internal/adapter"
)

// gammaMarket is the JSON shape returned by the Gamma markets endpoint.
type gammaMarket struct {
	ID            string  `json:"id"`
	Question      string  `json:"question"`
	Active        bool    `json:"active"`
	Closed        bool    `json:"closed"`
	Archived      bool    `json:"archived"`
	ClobTokenIds  string  `json:"clobTokenIds"`  // JSON array of strings, itself encoded as a string
	OutcomePrices string  `json:"outcomePrices"` // JSON array of numeric strings, itself encoded as a string
	Volume24hr    float64 `json:"volume24hr"`
	Liquidity     string  `json:"liquidity"`
	NegRisk       bool    `json:"negRisk"`
}

// toCatalogMarket parses the nested JSON-array-as-string fields Gamma
// returns and converts to the venue-agnostic CatalogMarket shape.
func (g gammaMarket) toCatalogMarket() adapter.CatalogMarket {
	var tokenIDs []string
	_ = json.Unmarshal([]byte(g.ClobTokenIds), &tokenIDs)

	var prices []string
	_ = json.Unmarshal([]byte(g.OutcomePrices), &prices)

	liquidity, _ := strconv.ParseFloat(strings.TrimSpace(g.Liquidity), 64)

	return adapter.CatalogMarket{
		ID:            g.ID,
		Question:      g.Question,
		Active:        g.Active,
		Closed:        g.Closed,
		Archived:      g.Archived,
		ClobTokenIDs:  tokenIDs,
		OutcomePrices: prices,
		Volume24hr:    g.Volume24hr,
		Liquidity:     liquidity,
		NegRisk:       g.NegRisk,
	}
}
