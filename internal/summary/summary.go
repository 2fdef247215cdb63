// Package summary reports per-side statistics of an exported chain.
package summary

import (
	"fmt"
	"io"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"chainfetch/internal/chain"
)

// SideKey identifies one (underlying, maturity, option type) bucket.
type SideKey struct {
	Underlying string
	Maturity   string
	OptionType string
}

// Side summarizes the rows of one bucket.
type Side struct {
	SideKey
	Count       int
	StrikeMin   float64
	StrikeMax   float64
	MedianPrice float64
}

// BySide groups rows per SideKey. Rows whose strike or price do not parse are
// ignored. Output is sorted by underlying, maturity, then option type.
func BySide(rows []chain.Row) []Side {
	strikes := make(map[SideKey]stats.Float64Data)
	prices := make(map[SideKey]stats.Float64Data)

	for _, r := range rows {
		k, err1 := decimal.NewFromString(r.Strike)
		p, err2 := decimal.NewFromString(r.MarketPrice)
		if err1 != nil || err2 != nil {
			continue
		}
		key := SideKey{Underlying: r.Underlying, Maturity: r.MaturityDate, OptionType: r.OptionType}
		strikes[key] = append(strikes[key], k.InexactFloat64())
		prices[key] = append(prices[key], p.InexactFloat64())
	}

	out := make([]Side, 0, len(strikes))
	for key, ks := range strikes {
		lo, _ := stats.Min(ks)
		hi, _ := stats.Max(ks)
		med, _ := stats.Median(prices[key])
		out = append(out, Side{SideKey: key, Count: len(ks), StrikeMin: lo, StrikeMax: hi, MedianPrice: med})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Underlying != out[j].Underlying {
			return out[i].Underlying < out[j].Underlying
		}
		if out[i].Maturity != out[j].Maturity {
			return out[i].Maturity < out[j].Maturity
		}
		return out[i].OptionType < out[j].OptionType
	})
	return out
}

// RenderSides writes the side summary as a table.
func RenderSides(w io.Writer, sides []Side) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"underlying", "maturity", "type", "rows", "strike min", "strike max", "median price"})
	table.SetAutoFormatHeaders(false)
	for _, s := range sides {
		table.Append([]string{
			s.Underlying,
			s.Maturity,
			s.OptionType,
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%g", s.StrikeMin),
			fmt.Sprintf("%g", s.StrikeMax),
			fmt.Sprintf("%.4g", s.MedianPrice),
		})
	}
	table.Render()
}

// RenderTable writes the first n rows (all when n <= 0) as a table.
func RenderTable(w io.Writer, rows []chain.Row, n int) {
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"trade_date", "underlying", "spot", "r", "q", "option_type", "maturity_date", "strike", "market_price"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, r := range rows {
		table.Append([]string{r.TradeDate, r.Underlying, r.Spot, r.Rate, r.DividendYield, r.OptionType, r.MaturityDate, r.Strike, r.MarketPrice})
	}
	table.Render()
}
