package helpers

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatPriceUS renders a price with US thousand separators and a number of
// decimals adapted to its magnitude, so penny stocks and large caps both
// stay readable.
func FormatPriceUS(price decimal.Decimal) string {
	f, _ := price.Float64()

	decimals := 2
	if f >= 10000 {
		decimals = 0
	} else if f != 0 && f < 0.01 {
		decimals = 6
	}

	thousandSeparator := ","

	p := message.NewPrinter(language.English)
	withCommaThousandSep := p.Sprintf("%.*f", decimals, f)
	return strings.ReplaceAll(withCommaThousandSep, ",", thousandSeparator)
}

// FormatPercent renders a signed percentage with two decimals, e.g. "+2.50%".
func FormatPercent(pct decimal.Decimal) string {
	s := pct.StringFixed(2) + "%"
	if pct.Sign() >= 0 {
		return "+" + s
	}
	return s
}
