package listing

import "strings"

// marketNames maps the API's marketplace identifiers (lower-cased) to
// display names.
var marketNames = map[string]string{
	"csfloat":  "CSFloat",
	"dmarket":  "DMarket",
	"skinport": "Skinport",
	"csmoney":  "CS.MONEY",
	"cs.money": "CS.MONEY",
	"buff":     "BUFF",
	"bitskins": "BitSkins",
}

// MarketDisplayName returns the display name for a marketplace identifier.
// Unknown identifiers are returned unchanged.
func MarketDisplayName(market string) string {
	if name, ok := marketNames[strings.ToLower(strings.TrimSpace(market))]; ok {
		return name
	}
	return market
}
