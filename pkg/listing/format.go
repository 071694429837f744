package listing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"RUB": "₽",
	"CNY": "¥",
}

// FormatPrice renders amount with its currency symbol and two decimals.
// Unknown currencies use the code itself as the prefix; an empty currency
// means USD.
func FormatPrice(amount float64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = currency
	}
	return symbol + strconv.FormatFloat(amount, 'f', 2, 64)
}

// FormatFloat renders a wear float with four decimals, or "N/A" if absent.
func FormatFloat(f *float64) string {
	if f == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*f, 'f', 4, 64)
}

// FormatRelativeTime renders the age of a millisecond timestamp relative
// to now, e.g. "3 minutes ago". Future timestamps read as "0 seconds ago".
func FormatRelativeTime(ms int64, now time.Time) string {
	seconds := (now.UnixMilli() - ms) / 1000
	if seconds < 0 {
		seconds = 0
	}

	if seconds < 60 {
		return plural(seconds, "second")
	}
	minutes := seconds / 60
	if minutes < 60 {
		return plural(minutes, "minute")
	}
	hours := minutes / 60
	if hours < 24 {
		return plural(hours, "hour")
	}
	return plural(hours/24, "day")
}

func plural(n int64, unit string) string {
	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
