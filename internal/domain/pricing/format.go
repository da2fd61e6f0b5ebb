package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var symbols = map[string]string{
	"BRL": "R$",
	"USD": "US$",
	"EUR": "€",
}

// Formatterは金額を表示用文字列にする。丸めはここでだけ行う
type Formatter struct {
	printer *message.Printer
	symbol  string
}

func NewFormatter(locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	symbol := ""
	if unit, conf := currency.FromTag(tag); conf != language.No {
		symbol = unit.String()
		if s, ok := symbols[symbol]; ok {
			symbol = s
		}
	}

	return &Formatter{
		printer: message.NewPrinter(tag),
		symbol:  symbol,
	}, nil
}

// Formatは小数2桁に四捨五入して "R$ 597,00" の形にする
func (f *Formatter) Format(d decimal.Decimal) string {
	n := f.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
	if f.symbol == "" {
		return n
	}
	return f.symbol + " " + n
}
