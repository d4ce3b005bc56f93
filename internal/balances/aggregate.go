package balances

import (
	"strings"

	"lv-exgate/internal/exchange"
)

// Entry is one asset of the combined cross-exchange portfolio. Fields are
// summed independently during merging, so Total can drift from
// Available+Frozen by float rounding; it is never recomputed.
type Entry struct {
	Currency  string   `json:"currency"`
	Available float64  `json:"available"`
	Frozen    float64  `json:"frozen"`
	Total     float64  `json:"total"`
	USDValue  float64  `json:"usdValue,omitempty"`
	Exchanges []string `json:"exchanges"`
}

type exchangePortfolio struct {
	Exchange string
	Assets   []exchange.Asset
}

// aggregate merges per-exchange portfolios in the order given (callers pass
// them in the fixed exchange priority order), deduplicating by
// case-insensitive currency.
func aggregate(portfolios []exchangePortfolio) []Entry {
	var combined []Entry
	index := make(map[string]int)
	for _, p := range portfolios {
		for _, a := range p.Assets {
			key := strings.ToUpper(a.Currency)
			i, ok := index[key]
			if !ok {
				index[key] = len(combined)
				combined = append(combined, Entry{
					Currency:  a.Currency,
					Available: a.Available,
					Frozen:    a.Frozen,
					Total:     a.Total,
					USDValue:  a.USDValue,
					Exchanges: []string{p.Exchange},
				})
				continue
			}
			combined[i].Available += a.Available
			combined[i].Frozen += a.Frozen
			combined[i].Total += a.Total
			combined[i].USDValue += a.USDValue
			if !contains(combined[i].Exchanges, p.Exchange) {
				combined[i].Exchanges = append(combined[i].Exchanges, p.Exchange)
			}
		}
	}
	return combined
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
