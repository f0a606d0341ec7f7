package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ErrUnknownCurrency = errors.New("unknown currency")

// DefaultCode is used when nothing else is configured or persisted.
const DefaultCode = "INR"

// Currency pairs a display symbol with the locale used to group digits.
type Currency struct {
	Code   string
	Symbol string
	Locale language.Tag
}

var currencies = []Currency{
	{Code: "INR", Symbol: "₹", Locale: language.MustParse("en-IN")},
	{Code: "USD", Symbol: "$", Locale: language.AmericanEnglish},
	{Code: "EUR", Symbol: "€", Locale: language.German},
}

// Currencies returns every supported currency in menu order.
func Currencies() []Currency {
	return append([]Currency(nil), currencies...)
}

// Codes returns the supported ISO codes in menu order.
func Codes() []string {
	codes := make([]string, len(currencies))
	for i, c := range currencies {
		codes[i] = c.Code
	}
	return codes
}

// Lookup finds a supported currency by ISO code, case-insensitively.
func Lookup(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range currencies {
		if c.Code == code {
			return c, nil
		}
	}
	return Currency{}, fmt.Errorf("%w %q (supported: %s)", ErrUnknownCurrency, code, strings.Join(Codes(), ", "))
}

// Default returns the INR currency.
func Default() Currency {
	return currencies[0]
}

// Next returns the currency after c in menu order, wrapping around.
func (c Currency) Next() Currency {
	for i, have := range currencies {
		if have.Code == c.Code {
			return currencies[(i+1)%len(currencies)]
		}
	}
	return Default()
}

// Format renders d with two fraction digits and the locale's digit
// grouping, without the currency symbol.
func (c Currency) Format(d decimal.Decimal) string {
	p := message.NewPrinter(c.Locale)
	return p.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// Display renders d prefixed with the currency symbol.
func (c Currency) Display(d decimal.Decimal) string {
	return c.Symbol + c.Format(d)
}

// Raw renders d prefixed with the symbol but without grouping or padding,
// the way the plain-text report prints amounts.
func (c Currency) Raw(d decimal.Decimal) string {
	return c.Symbol + d.String()
}
