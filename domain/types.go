package domain

import "strings"

// PathSeparator separates currency codes when a Path is rendered for display
const PathSeparator = " | "

// Currency a currency code
type Currency string

// Amount a monetary amount... which should be a float...
type Amount float64

// Rate an exchange rate
type Rate float64

// Edge a directed exchange opportunity: one unit of From buys Rate units of To.
type Edge struct {
	From     Currency `json:"fromCurrencyCode" msgpack:"from"`
	FromName string   `json:"fromCurrencyName" msgpack:"from_name"`
	To       Currency `json:"toCurrencyCode" msgpack:"to"`
	ToName   string   `json:"toCurrencyName" msgpack:"to_name"`
	Rate     Rate     `json:"exchangeRate" msgpack:"rate"`
}

// Path the ordered currencies visited from the source to a destination
type Path []Currency

func (p Path) String() string {
	codes := make([]string, len(p))
	for i, c := range p {
		codes[i] = string(c)
	}
	return strings.Join(codes, PathSeparator)
}

// Append returns a new Path extended with c. The receiver is never modified.
func (p Path) Append(c Currency) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, c)
}

// Revisits reports whether the last currency of p already appears earlier in p
func (p Path) Revisits() bool {
	if len(p) == 0 {
		return false
	}
	last := p[len(p)-1]
	for _, c := range p[:len(p)-1] {
		if c == last {
			return true
		}
	}
	return false
}

// Source the home currency and the amount to convert from it
type Source struct {
	Code   Currency
	Name   string
	Amount Amount
}

// Conversion the best amount of the source obtainable in Code, and the path achieving it
type Conversion struct {
	Code   Currency
	Name   string
	Amount Amount
	Path   Path
}
