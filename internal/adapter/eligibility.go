package adapter

import (
	"strconv"

	"github.com/simrat12/Prediction-Engine/internal/domain"
)

const (
	minVolume24h = 100_000.0
	minLiquidity = 10_000.0
)

// eligible implements the adapter's eligibility predicate (spec §4.1):
// active=true, closed=false, archived=false; both outcome token ids
// parseable and exactly two; at least one outcome price strictly
// positive; 24h volume >= 100,000; liquidity >= 10,000.
func eligible(m CatalogMarket) bool {
	if !m.Active || m.Closed || m.Archived {
		return false
	}
	if len(m.ClobTokenIDs) != 2 || m.ClobTokenIDs[0] == "" || m.ClobTokenIDs[1] == "" {
		return false
	}
	if !anyPricePositive(m.OutcomePrices) {
		return false
	}
	if m.Volume24hr < minVolume24h {
		return false
	}
	if m.Liquidity < minLiquidity {
		return false
	}
	return true
}

func anyPricePositive(prices []string) bool {
	for _, p := range prices {
		v, err := strconv.ParseFloat(p, 64)
		if err == nil && v > 0 {
			return true
		}
	}
	return false
}

// buildLookups filters the catalog to eligible markets and builds the
// immutable MarketMap and TokenToMarket tables. Rejected markets are
// silently skipped, per spec.
func buildLookups(catalog []CatalogMarket) (domain.MarketMap, domain.TokenToMarket) {
	marketMap := make(domain.MarketMap)
	tokenToMarket := make(domain.TokenToMarket)

	for _, m := range catalog {
		if !eligible(m) {
			continue
		}

		info := domain.MarketInfo{
			MarketID:   m.ID,
			Question:   m.Question,
			YesTokenID: m.ClobTokenIDs[0],
			NoTokenID:  m.ClobTokenIDs[1],
			NegRisk:    m.NegRisk,
		}
		marketMap[info.MarketID] = info
		tokenToMarket[info.YesTokenID] = info.MarketID
		tokenToMarket[info.NoTokenID] = info.MarketID
	}

	return marketMap, tokenToMarket
}
