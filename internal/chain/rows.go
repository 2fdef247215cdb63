package chain

import (
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"chainfetch/internal/marketdata"
)

type OptionType string

const (
	Call OptionType = "C"
	Put  OptionType = "P"
)

// RowContext carries the values shared by every row of one run.
type RowContext struct {
	Symbol        string
	TradeDate     time.Time
	Spot          decimal.Decimal
	Rate          decimal.Decimal
	DividendYield decimal.Decimal
	Maturity      time.Time
}

// Record is one priced contract ready for export.
type Record struct {
	TradeDate     time.Time
	Underlying    string
	Spot          decimal.Decimal
	Rate          decimal.Decimal
	DividendYield decimal.Decimal
	OptionType    OptionType
	Maturity      time.Time
	Strike        decimal.Decimal
	MarketPrice   decimal.Decimal
}

// Row is the CSV form of a Record. Column order is the downstream pricer's input order.
type Row struct {
	TradeDate     string `csv:"trade_date"`
	Underlying    string `csv:"underlying"`
	Spot          string `csv:"spot"`
	Rate          string `csv:"r"`
	DividendYield string `csv:"q"`
	OptionType    string `csv:"option_type"`
	MaturityDate  string `csv:"maturity_date"`
	Strike        string `csv:"strike"`
	MarketPrice   string `csv:"market_price"`
}

// Build prices the already-sampled quotes in order, skipping unpriceable ones,
// and stops once limit records exist (limit 0 means all).
func Build(side OptionType, quotes []marketdata.Quote, rc RowContext, limit int) []Record {
	out := make([]Record, 0, len(quotes))
	for _, q := range quotes {
		price, ok := Price(q)
		if !ok || !price.IsPositive() {
			continue
		}
		out = append(out, Record{
			TradeDate:     rc.TradeDate,
			Underlying:    rc.Symbol,
			Spot:          rc.Spot,
			Rate:          rc.Rate,
			DividendYield: rc.DividendYield,
			OptionType:    side,
			Maturity:      rc.Maturity,
			Strike:        q.Strike,
			MarketPrice:   price,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func (r Record) Row() Row {
	return Row{
		TradeDate:     r.TradeDate.Format(isoDate),
		Underlying:    r.Underlying,
		Spot:          r.Spot.String(),
		Rate:          r.Rate.String(),
		DividendYield: r.DividendYield.String(),
		OptionType:    string(r.OptionType),
		MaturityDate:  r.Maturity.Format(isoDate),
		Strike:        r.Strike.String(),
		MarketPrice:   r.MarketPrice.String(),
	}
}

// Finalize renders records to rows and drops any row whose numeric columns do
// not parse back as decimals.
func Finalize(records []Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row, ok := Coerce(r.Row())
		if !ok {
			log.WithField("strike", r.Strike.String()).Debug("dropping row with non-numeric field")
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// Coerce re-parses the numeric columns of row into canonical decimal text.
func Coerce(row Row) (Row, bool) {
	for _, f := range []*string{&row.Spot, &row.Rate, &row.DividendYield, &row.Strike, &row.MarketPrice} {
		d, err := decimal.NewFromString(*f)
		if err != nil {
			return Row{}, false
		}
		*f = d.String()
	}
	return row, true
}
