// Package chart holds the static sales sample shown on the admin dashboard.
// The data is illustrative; rendering is left to whatever consumes Dashboard.
package chart

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindLine     Kind = "line"
	KindBar      Kind = "bar"
	KindDoughnut Kind = "doughnut"
)

// Label is a chart label split into display lines.
type Label struct {
	Text  string   `json:"text"`
	Lines []string `json:"lines"`
}

type Chart struct {
	ID     string            `json:"id"`
	Kind   Kind              `json:"kind"`
	Title  string            `json:"title"`
	Labels []Label           `json:"labels"`
	Values []decimal.Decimal `json:"values"`
}

var months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var (
	monthlyRevenue = []int64{12000, 15000, 13000, 18000, 20000, 19000, 22000, 21000, 25000, 23000, 28000, 30000}
	unitsSold      = []int64{800, 950, 850, 1100, 1200, 1150, 1300, 1250, 1500, 1400, 1700, 1800}

	categoryRevenue = map[string]string{
		"Microcontrollers":    "10000",
		"Diodes":              "500",
		"Transistors":         "700",
		"Resistors":           "200",
		"Capacitors":          "300",
		"Sensors":             "1500",
		"Integrated Circuits": "1000",
		"Prototyping":         "5000",
	}
	categoryAvgPrice = map[string]string{
		"Microcontrollers":    "20.25",
		"Diodes":              "0.12",
		"Transistors":         "0.28",
		"Resistors":           "0.06",
		"Capacitors":          "0.09",
		"Sensors":             "1.80",
		"Integrated Circuits": "0.80",
		"Prototyping":         "6.50",
	}
)

// WrapLabel splits label on spaces into lines of at most maxChars where
// possible. A single word longer than maxChars gets its own line.
func WrapLabel(label string, maxChars int) []string {
	var lines []string
	current := ""
	for _, word := range strings.Fields(label) {
		if current == "" {
			current = word
			continue
		}
		if len(current)+1+len(word) <= maxChars {
			current += " " + word
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// Dashboard builds the four admin charts with labels wrapped to maxChars.
func Dashboard(maxChars int) []Chart {
	return []Chart{
		{ID: "revenue", Kind: KindLine, Title: "Monthly Revenue (USD)", Labels: labels(months, maxChars), Values: ints(monthlyRevenue)},
		{ID: "units-sold", Kind: KindBar, Title: "Units Sold", Labels: labels(months, maxChars), Values: ints(unitsSold)},
		categoryChart("category-revenue", KindDoughnut, "Revenue by Category (USD)", categoryRevenue, maxChars),
		categoryChart("category-avg-price", KindBar, "Average Price (USD)", categoryAvgPrice, maxChars),
	}
}

func categoryChart(id string, kind Kind, title string, data map[string]string, maxChars int) Chart {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]decimal.Decimal, 0, len(names))
	for _, name := range names {
		values = append(values, decimal.RequireFromString(data[name]))
	}
	return Chart{ID: id, Kind: kind, Title: title, Labels: labels(names, maxChars), Values: values}
}

func labels(texts []string, maxChars int) []Label {
	out := make([]Label, 0, len(texts))
	for _, text := range texts {
		out = append(out, Label{Text: text, Lines: WrapLabel(text, maxChars)})
	}
	return out
}

func ints(values []int64) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, decimal.NewFromInt(v))
	}
	return out
}
