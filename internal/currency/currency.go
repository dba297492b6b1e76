// Package currency converts USD prices into the display currency.
package currency

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const Base = "USD"

var ErrInvalidCurrency = errors.New("invalid currency")

// Currency is one row of the rate table: 1 USD = Rate units of Code.
type Currency struct {
	Code   string
	Symbol string
	Rate   decimal.Decimal
}

// DefaultTable is used when no rate file is configured.
func DefaultTable() []Currency {
	return []Currency{
		{Code: "USD", Symbol: "$", Rate: decimal.NewFromInt(1)},
		{Code: "EUR", Symbol: "€", Rate: decimal.RequireFromString("0.92")},
		{Code: "XAF", Symbol: "FCFA", Rate: decimal.NewFromInt(610)},
		{Code: "XOF", Symbol: "CFA", Rate: decimal.NewFromInt(610)},
		{Code: "NGN", Symbol: "₦", Rate: decimal.NewFromInt(1500)},
	}
}

type fileConfig struct {
	Currencies []struct {
		Code   string `yaml:"code"`
		Symbol string `yaml:"symbol"`
		Rate   string `yaml:"rate"`
	} `yaml:"currencies"`
}

// LoadFile reads a YAML rate table.
func LoadFile(path string) ([]Currency, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read currency file: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse currency file: %w", err)
	}

	table := make([]Currency, 0, len(cfg.Currencies))
	for _, c := range cfg.Currencies {
		code := strings.ToUpper(strings.TrimSpace(c.Code))
		if code == "" {
			return nil, fmt.Errorf("currency entry without code")
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(c.Rate))
		if err != nil {
			return nil, fmt.Errorf("invalid rate for %s: %w", code, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("rate for %s must be > 0", code)
		}
		table = append(table, Currency{Code: code, Symbol: c.Symbol, Rate: rate})
	}
	return table, nil
}

// Converter holds the rate table and the currently selected currency.
type Converter struct {
	mu      sync.RWMutex
	table   map[string]Currency
	current string
}

func NewConverter(table []Currency) *Converter {
	c := &Converter{table: make(map[string]Currency), current: Base}
	for _, cur := range table {
		c.table[cur.Code] = cur
	}
	if _, ok := c.table[Base]; !ok {
		c.table[Base] = Currency{Code: Base, Symbol: "$", Rate: decimal.NewFromInt(1)}
	}
	return c
}

// Set switches the display currency. Unknown codes leave it unchanged.
func (c *Converter) Set(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.table[code]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidCurrency, code)
	}
	c.current = code
	return nil
}

func (c *Converter) Current() Currency {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table[c.current]
}

func (c *Converter) Codes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	codes := make([]string, 0, len(c.table))
	for code := range c.table {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Format renders a USD amount in the current currency, e.g. "€ 9.20".
func (c *Converter) Format(usd decimal.Decimal) string {
	cur := c.Current()
	return cur.Symbol + " " + usd.Mul(cur.Rate).StringFixed(2)
}
