// Package sector maps stock codes to sector names for the portfolio view.
// The mapping is immutable configuration data, not logic: adding a sector
// means editing the table (or shipping a YAML override), never touching
// callers.
package sector

import "strings"

// DefaultSector is the bucket for symbols the table does not know.
const DefaultSector = "기타"

// Lookup resolves symbols to sector names.
type Lookup struct {
	sectors map[string]string
}

// defaultSectors covers common Korean large caps plus a handful of US
// tickers for demos.
var defaultSectors = map[string]string{
	// Korean semiconductor
	"005930": "반도체",
	"005935": "반도체",
	"000660": "반도체",
	"005380": "자동차",
	"035420": "인터넷",
	"035720": "인터넷",
	"051910": "배터리",
	// US examples
	"AAPL":  "기술",
	"GOOGL": "기술",
	"TSLA":  "자동차",
	"AMZN":  "소비재",
	"KO":    "음료",
}

// NewLookup returns a lookup over the built-in sector table.
func NewLookup() *Lookup {
	return &Lookup{sectors: defaultSectors}
}

// NewLookupWith returns a lookup over the built-in table merged with
// overrides. Override entries win.
func NewLookupWith(overrides map[string]string) *Lookup {
	merged := make(map[string]string, len(defaultSectors)+len(overrides))
	for k, v := range defaultSectors {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[strings.ToUpper(k)] = v
	}
	return &Lookup{sectors: merged}
}

// Get returns the sector name for a stock code. Unknown symbols resolve to
// DefaultSector.
func (l *Lookup) Get(symbol string) string {
	if s, ok := l.sectors[strings.ToUpper(symbol)]; ok {
		return s
	}
	return DefaultSector
}
